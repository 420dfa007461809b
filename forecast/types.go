package forecast

import (
	"strings"
	"time"
)

// The struct tags below are the wire mapping. Optional values are pointers
// tagged omitempty so an absent field and a zero value never collapse into
// each other; slices are never omitempty so nil and empty survive a round trip.

// CurrentUser is the authenticated user returned by whoami.
type CurrentUser struct {
	ID         PersonID    `json:"id"          yaml:"id"`
	AccountIDs []AccountID `json:"account_ids" yaml:"account_ids"`
}

// ColorLabel is a named colour configured on the account.
type ColorLabel struct {
	Name  string `json:"name"  yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Account is the Forecast account the client is scoped to.
type Account struct {
	ID               AccountID    `json:"id"                          yaml:"id"`
	Name             string       `json:"name"                        yaml:"name"`
	WeeklyCapacity   *Duration    `json:"weekly_capacity,omitempty"   yaml:"weekly_capacity,omitempty"`
	HarvestSubdomain *string      `json:"harvest_subdomain,omitempty" yaml:"harvest_subdomain,omitempty"`
	HarvestLink      *string      `json:"harvest_link,omitempty"      yaml:"harvest_link,omitempty"`
	HarvestName      *string      `json:"harvest_name,omitempty"      yaml:"harvest_name,omitempty"`
	ColorLabels      []ColorLabel `json:"color_labels"                yaml:"color_labels"`
}

// AssignmentData is an item of work assigned to a person or placeholder,
// without server-side metadata. It is the shape of a creation payload.
type AssignmentData struct {
	StartDate               *Date                    `json:"start_date,omitempty"                 yaml:"start_date,omitempty"`
	EndDate                 *Date                    `json:"end_date,omitempty"                   yaml:"end_date,omitempty"`
	Allocation              *Duration                `json:"allocation,omitempty"                 yaml:"allocation,omitempty"`
	Notes                   *string                  `json:"notes,omitempty"                      yaml:"notes,omitempty"`
	ProjectID               ProjectID                `json:"project_id"                           yaml:"project_id"`
	PersonID                *PersonID                `json:"person_id,omitempty"                  yaml:"person_id,omitempty"`
	PlaceholderID           *PlaceholderID           `json:"placeholder_id,omitempty"             yaml:"placeholder_id,omitempty"`
	RepeatedAssignmentSetID *RepeatedAssignmentSetID `json:"repeated_assignment_set_id,omitempty" yaml:"repeated_assignment_set_id,omitempty"`
	ActiveOnDaysOff         bool                     `json:"active_on_days_off"                   yaml:"active_on_days_off"`
}

// Assignment is a scheduled item of work as stored by the server.
type Assignment struct {
	ID             AssignmentID `json:"id"                      yaml:"id"`
	AssignmentData `yaml:",inline"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
	UpdatedByID    *PersonID  `json:"updated_by_id,omitempty" yaml:"updated_by_id,omitempty"`
}

// IsPlaceholder reports whether the assignment is held by a placeholder
// rather than a person.
func (a *Assignment) IsPlaceholder() bool {
	return a.PersonID == nil && a.PlaceholderID != nil
}

// Days returns the number of calendar days the assignment spans, or 0 when
// either end is open.
func (a *Assignment) Days() int {
	if a.StartDate == nil || a.EndDate == nil {
		return 0
	}
	return int(a.EndDate.Time().Sub(a.StartDate.Time()).Hours()/24) + 1
}

// Project is a body of work that assignments are booked against.
type Project struct {
	ID          ProjectID         `json:"id"                      yaml:"id"`
	Name        string            `json:"name"                    yaml:"name"`
	Code        *string           `json:"code,omitempty"          yaml:"code,omitempty"`
	Color       *string           `json:"color,omitempty"         yaml:"color,omitempty"`
	Notes       *string           `json:"notes,omitempty"         yaml:"notes,omitempty"`
	StartDate   *Date             `json:"start_date,omitempty"    yaml:"start_date,omitempty"`
	EndDate     *Date             `json:"end_date,omitempty"      yaml:"end_date,omitempty"`
	HarvestID   *HarvestProjectID `json:"harvest_id,omitempty"    yaml:"harvest_id,omitempty"`
	Archived    bool              `json:"archived"                yaml:"archived"`
	ClientID    *ClientID         `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	Tags        []string          `json:"tags"                    yaml:"tags"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
	UpdatedByID *PersonID         `json:"updated_by_id,omitempty" yaml:"updated_by_id,omitempty"`
}

// Client is the customer a project is run for.
type Client struct {
	ID          ClientID         `json:"id"                      yaml:"id"`
	Name        string           `json:"name"                    yaml:"name"`
	HarvestID   *HarvestClientID `json:"harvest_id,omitempty"    yaml:"harvest_id,omitempty"`
	Archived    bool             `json:"archived"                yaml:"archived"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
	UpdatedByID *PersonID        `json:"updated_by_id,omitempty" yaml:"updated_by_id,omitempty"`
}

// Milestone marks a date of interest on a project.
type Milestone struct {
	ID          MilestoneID `json:"id"                      yaml:"id"`
	Name        string      `json:"name"                    yaml:"name"`
	Date        *Date       `json:"date,omitempty"          yaml:"date,omitempty"`
	ProjectID   ProjectID   `json:"project_id"              yaml:"project_id"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
	UpdatedByID *PersonID   `json:"updated_by_id,omitempty" yaml:"updated_by_id,omitempty"`
}

// WorkingDays lists the weekdays a person is normally available.
type WorkingDays struct {
	Monday    bool `json:"monday"    yaml:"monday"`
	Tuesday   bool `json:"tuesday"   yaml:"tuesday"`
	Wednesday bool `json:"wednesday" yaml:"wednesday"`
	Thursday  bool `json:"thursday"  yaml:"thursday"`
	Friday    bool `json:"friday"    yaml:"friday"`
	Saturday  bool `json:"saturday"  yaml:"saturday"`
	Sunday    bool `json:"sunday"    yaml:"sunday"`
}

// Works reports whether d is a working day.
func (w WorkingDays) Works(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// Person is someone who can be scheduled.
type Person struct {
	ID             PersonID       `json:"id"                        yaml:"id"`
	FirstName      string         `json:"first_name"                yaml:"first_name"`
	LastName       string         `json:"last_name"                 yaml:"last_name"`
	Email          *string        `json:"email,omitempty"           yaml:"email,omitempty"`
	Login          string         `json:"login"                     yaml:"login"`
	Admin          bool           `json:"admin"                     yaml:"admin"`
	Archived       bool           `json:"archived"                  yaml:"archived"`
	Subscribed     bool           `json:"subscribed"                yaml:"subscribed"`
	AvatarURL      *string        `json:"avatar_url,omitempty"      yaml:"avatar_url,omitempty"`
	Roles          []string       `json:"roles"                     yaml:"roles"`
	HarvestUserID  *HarvestUserID `json:"harvest_user_id,omitempty" yaml:"harvest_user_id,omitempty"`
	WeeklyCapacity *Duration      `json:"weekly_capacity,omitempty" yaml:"weekly_capacity,omitempty"`
	WorkingDays    *WorkingDays   `json:"working_days,omitempty"    yaml:"working_days,omitempty"`
	ColorBlind     bool           `json:"color_blind"               yaml:"color_blind"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"      yaml:"updated_at,omitempty"`
	UpdatedByID    *PersonID      `json:"updated_by_id,omitempty"   yaml:"updated_by_id,omitempty"`
}

// FullName joins the first and last name.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Placeholder stands in for a role that has not been staffed yet.
type Placeholder struct {
	ID          PlaceholderID `json:"id"                      yaml:"id"`
	Name        string        `json:"name"                    yaml:"name"`
	Archived    bool          `json:"archived"                yaml:"archived"`
	Roles       []string      `json:"roles"                   yaml:"roles"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
	UpdatedByID *PersonID     `json:"updated_by_id,omitempty" yaml:"updated_by_id,omitempty"`
}
