// Package schedule joins assignments with the people, placeholders, projects
// and clients they refer to, producing a per-assignee booking report for a
// date window.
package schedule

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/forecastctl/forecast"
)

// ErrInvalidWindow is returned when the window ends before it starts
var ErrInvalidWindow = errors.New("schedule window ends before it starts")

// Source is the part of the Forecast API a report reads from.
type Source interface {
	Assignments(ctx context.Context, f forecast.AssignmentFilter) ([]forecast.Assignment, error)
	People(ctx context.Context) ([]forecast.Person, error)
	Placeholders(ctx context.Context) ([]forecast.Placeholder, error)
	Projects(ctx context.Context) ([]forecast.Project, error)
	Clients(ctx context.Context) ([]forecast.Client, error)
}

// Options selects what goes into a report
type Options struct {
	From      forecast.Date
	To        forecast.Date
	ProjectID *forecast.ProjectID
	PersonID  *forecast.PersonID
}

// Entry is one assignment clipped to the report window
type Entry struct {
	Assignment  forecast.Assignment `json:"assignment"  yaml:"assignment"`
	Assignee    string              `json:"assignee"    yaml:"assignee"`
	Placeholder bool                `json:"placeholder" yaml:"placeholder"`
	Project     string              `json:"project"     yaml:"project"`
	Client      string              `json:"client"      yaml:"client"`
	From        forecast.Date       `json:"from"        yaml:"from"`
	To          forecast.Date       `json:"to"          yaml:"to"`
	PerDay      float64             `json:"per_day"     yaml:"per_day"`
	Days        int                 `json:"days"        yaml:"days"`
	Hours       float64             `json:"hours"       yaml:"hours"`
}

// Total is the booked hours of one assignee
type Total struct {
	Assignee string  `json:"assignee" yaml:"assignee"`
	Hours    float64 `json:"hours"    yaml:"hours"`
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// Report is the joined schedule for a window
type Report struct {
	From    forecast.Date `json:"from"    yaml:"from"`
	To      forecast.Date `json:"to"      yaml:"to"`
	Entries []Entry       `json:"entries" yaml:"entries"`

	// weekly capacity in hours, keyed by assignee name
	capacity map[string]float64
}

// Builder fetches and joins schedule data
type Builder struct {
	source Source
	logger zerolog.Logger
}

// NewBuilder creates a schedule builder reading from source
func NewBuilder(source Source, logger zerolog.Logger) *Builder {
	return &Builder{
		source: source,
		logger: logger.With().Str("component", "schedule").Logger(),
	}
}

// snapshot is everything a report is joined from
type snapshot struct {
	assignments  []forecast.Assignment
	people       []forecast.Person
	placeholders []forecast.Placeholder
	projects     []forecast.Project
	clients      []forecast.Client
}

// fetch issues the five list calls concurrently. Each goroutine owns one
// field, so no locking is needed.
func (b *Builder) fetch(ctx context.Context, opts Options) (*snapshot, error) {
	var s snapshot

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.assignments, err = b.source.Assignments(ctx, forecast.AssignmentFilter{
			ProjectID: opts.ProjectID,
			PersonID:  opts.PersonID,
			StartDate: &opts.From,
			EndDate:   &opts.To,
			State:     forecast.AssignmentStateActive,
		})
		if err != nil {
			return fmt.Errorf("failed to get assignments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s.people, err = b.source.People(ctx); err != nil {
			return fmt.Errorf("failed to get people: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s.placeholders, err = b.source.Placeholders(ctx); err != nil {
			return fmt.Errorf("failed to get placeholders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s.projects, err = b.source.Projects(ctx); err != nil {
			return fmt.Errorf("failed to get projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s.clients, err = b.source.Clients(ctx); err != nil {
			return fmt.Errorf("failed to get clients: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Build fetches everything the window needs and joins it into a report.
func (b *Builder) Build(ctx context.Context, opts Options) (*Report, error) {
	if opts.To.Before(opts.From) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, opts.From, opts.To)
	}

	start := time.Now()
	s, err := b.fetch(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := join(s, opts)

	b.logger.Debug().
		Int("assignments", len(s.assignments)).
		Int("entries", len(report.Entries)).
		Dur("duration", time.Since(start)).
		Msg("Built schedule")

	return report, nil
}

// join resolves references and clips each assignment to the window.
// Assignments that fall entirely outside the window are dropped.
func join(s *snapshot, opts Options) *Report {
	people := index(s.people, func(p forecast.Person) forecast.PersonID { return p.ID })
	placeholders := index(s.placeholders, func(p forecast.Placeholder) forecast.PlaceholderID { return p.ID })
	projects := index(s.projects, func(p forecast.Project) forecast.ProjectID { return p.ID })
	clients := index(s.clients, func(c forecast.Client) forecast.ClientID { return c.ID })

	report := &Report{
		From:     opts.From,
		To:       opts.To,
		Entries:  make([]Entry, 0, len(s.assignments)),
		capacity: make(map[string]float64),
	}
	for _, p := range s.people {
		if p.WeeklyCapacity != nil {
			report.capacity[p.FullName()] = p.WeeklyCapacity.Hours()
		}
	}

	for _, a := range s.assignments {
		if a.StartDate == nil || a.EndDate == nil {
			continue
		}
		from := latest(*a.StartDate, opts.From)
		to := earliest(*a.EndDate, opts.To)
		if to.Before(from) {
			continue
		}

		entry := Entry{Assignment: a, From: from, To: to}

		var workingDays *forecast.WorkingDays
		switch {
		case a.PersonID != nil:
			if p, ok := people[*a.PersonID]; ok {
				entry.Assignee = p.FullName()
				workingDays = p.WorkingDays
			} else {
				entry.Assignee = "person " + a.PersonID.String()
			}
		case a.PlaceholderID != nil:
			entry.Placeholder = true
			if p, ok := placeholders[*a.PlaceholderID]; ok {
				entry.Assignee = p.Name
			} else {
				entry.Assignee = "placeholder " + a.PlaceholderID.String()
			}
		default:
			entry.Assignee = "unassigned"
		}

		if p, ok := projects[a.ProjectID]; ok {
			entry.Project = p.Name
			if p.ClientID != nil {
				if c, ok := clients[*p.ClientID]; ok {
					entry.Client = c.Name
				}
			}
		} else {
			entry.Project = "project " + a.ProjectID.String()
		}

		if a.Allocation != nil {
			entry.PerDay = a.Allocation.Hours()
		}
		entry.Days = countDays(from, to, workingDays, a.ActiveOnDaysOff)
		entry.Hours = entry.PerDay * float64(entry.Days)

		report.Entries = append(report.Entries, entry)
	}

	slices.SortStableFunc(report.Entries, func(x, y Entry) int {
		return cmp.Or(
			cmp.Compare(x.Assignee, y.Assignee),
			x.From.Time().Compare(y.From.Time()),
			cmp.Compare(x.Project, y.Project),
			x.Assignment.ID.Compare(y.Assignment.ID),
		)
	})

	return report
}

// Totals sums booked hours per assignee. Capacity is the weekly capacity of
// a person scaled to the window, or 0 when unknown.
func (r *Report) Totals() []Total {
	weeks := float64(r.To.Time().Sub(r.From.Time())/(24*time.Hour)+1) / 7

	byName := make(map[string]*Total)
	var order []string
	for _, e := range r.Entries {
		t, ok := byName[e.Assignee]
		if !ok {
			t = &Total{Assignee: e.Assignee}
			if !e.Placeholder {
				t.Capacity = r.capacity[e.Assignee] * weeks
			}
			byName[e.Assignee] = t
			order = append(order, e.Assignee)
		}
		t.Hours += e.Hours
	}

	totals := make([]Total, 0, len(order))
	for _, name := range order {
		totals = append(totals, *byName[name])
	}
	return totals
}

// countDays counts the bookable days in [from, to]. Without working-day
// information Monday to Friday is assumed.
func countDays(from, to forecast.Date, wd *forecast.WorkingDays, activeOnDaysOff bool) int {
	if wd == nil {
		wd = &forecast.WorkingDays{Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true}
	}

	n := 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		if activeOnDaysOff || wd.Works(d.Time().Weekday()) {
			n++
		}
	}
	return n
}

func index[K comparable, V any](items []V, key func(V) K) map[K]V {
	m := make(map[K]V, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}

func latest(a, b forecast.Date) forecast.Date {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b forecast.Date) forecast.Date {
	if a.Before(b) {
		return a
	}
	return b
}
