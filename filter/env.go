package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/forecastctl/forecast"
)

// Record environments expose entity fields under lowerCamel names. Dates are
// time.Time at midnight UTC, allocations and capacities are hours, and any
// unset optional field is nil.

// ProjectEnv exposes a project to filter expressions.
func ProjectEnv(p forecast.Project) Env {
	return Env{
		"id":        p.ID.Int64(),
		"name":      p.Name,
		"code":      deref(p.Code),
		"color":     deref(p.Color),
		"notes":     deref(p.Notes),
		"archived":  p.Archived,
		"tags":      p.Tags,
		"clientId":  optionalID(p.ClientID),
		"harvestId": optionalID(p.HarvestID),
		"startDate": optionalDate(p.StartDate),
		"endDate":   optionalDate(p.EndDate),
		"updatedAt": optionalTime(p.UpdatedAt),
		"hasTag":    createHasFunc(p.Tags),
	}
}

// ClientEnv exposes a client to filter expressions.
func ClientEnv(c forecast.Client) Env {
	return Env{
		"id":        c.ID.Int64(),
		"name":      c.Name,
		"archived":  c.Archived,
		"harvestId": optionalID(c.HarvestID),
		"updatedAt": optionalTime(c.UpdatedAt),
	}
}

// PersonEnv exposes a person to filter expressions.
func PersonEnv(p forecast.Person) Env {
	var workingDays forecast.WorkingDays
	if p.WorkingDays != nil {
		workingDays = *p.WorkingDays
	}

	return Env{
		"id":             p.ID.Int64(),
		"firstName":      p.FirstName,
		"lastName":       p.LastName,
		"name":           p.FullName(),
		"email":          deref(p.Email),
		"login":          p.Login,
		"admin":          p.Admin,
		"archived":       p.Archived,
		"subscribed":     p.Subscribed,
		"roles":          p.Roles,
		"weeklyCapacity": optionalHours(p.WeeklyCapacity),
		"harvestUserId":  optionalID(p.HarvestUserID),
		"updatedAt":      optionalTime(p.UpdatedAt),
		"hasRole":        createHasFunc(p.Roles),
		"worksOn": func(day string) bool {
			for d := time.Sunday; d <= time.Saturday; d++ {
				if strings.EqualFold(d.String(), day) || strings.EqualFold(d.String()[:3], day) {
					return workingDays.Works(d)
				}
			}
			return false
		},
	}
}

// PlaceholderEnv exposes a placeholder to filter expressions.
func PlaceholderEnv(p forecast.Placeholder) Env {
	return Env{
		"id":        p.ID.Int64(),
		"name":      p.Name,
		"archived":  p.Archived,
		"roles":     p.Roles,
		"updatedAt": optionalTime(p.UpdatedAt),
		"hasRole":   createHasFunc(p.Roles),
	}
}

// MilestoneEnv exposes a milestone to filter expressions.
func MilestoneEnv(m forecast.Milestone) Env {
	return Env{
		"id":        m.ID.Int64(),
		"name":      m.Name,
		"projectId": m.ProjectID.Int64(),
		"date":      optionalDate(m.Date),
		"updatedAt": optionalTime(m.UpdatedAt),
	}
}

// AssignmentEnv exposes an assignment to filter expressions.
func AssignmentEnv(a forecast.Assignment) Env {
	return Env{
		"id":                      a.ID.Int64(),
		"projectId":               a.ProjectID.Int64(),
		"personId":                optionalID(a.PersonID),
		"placeholderId":           optionalID(a.PlaceholderID),
		"repeatedAssignmentSetId": optionalID(a.RepeatedAssignmentSetID),
		"startDate":               optionalDate(a.StartDate),
		"endDate":                 optionalDate(a.EndDate),
		"allocation":              optionalHours(a.Allocation),
		"notes":                   deref(a.Notes),
		"activeOnDaysOff":         a.ActiveOnDaysOff,
		"days":                    a.Days(),
		"isPlaceholder":           a.IsPlaceholder(),
		"repeating":               a.RepeatedAssignmentSetID != nil,
		"updatedAt":               optionalTime(a.UpdatedAt),
		"overlaps": func(from, to time.Time) bool {
			if a.StartDate == nil || a.EndDate == nil {
				return false
			}
			return !a.EndDate.Time().Before(from) && !a.StartDate.Time().After(to)
		},
	}
}

func createHasFunc(values []string) func(string) bool {
	// Pre-convert to lowercase for case-insensitive comparison
	lower := make([]string, len(values))
	for i, v := range values {
		lower[i] = strings.ToLower(v)
	}
	return func(value string) bool {
		return slices.Contains(lower, strings.ToLower(value))
	}
}

func optionalID[K any](id *forecast.ID[K]) any {
	if id == nil {
		return nil
	}
	return id.Int64()
}

func optionalDate(d *forecast.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func optionalHours(d *forecast.Duration) any {
	if d == nil {
		return nil
	}
	return d.Hours()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
