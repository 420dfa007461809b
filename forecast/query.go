package forecast

import (
	"net/url"
	"strings"
)

// QueryParam is one declared filter field. Inactive params are never encoded.
type QueryParam struct {
	Key    string
	Value  string
	Active bool
}

// Filter is a set of optional query parameters for one endpoint. Params
// returns every declared field, active or not, in declaration order.
type Filter interface {
	Params() []QueryParam
}

// EncodeFilter returns the form-urlencoded query for the active params of f,
// in declaration order, or "" when none is active.
func EncodeFilter(f Filter) string {
	if f == nil {
		return ""
	}

	var sb strings.Builder
	for _, p := range f.Params() {
		if !p.Active {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// ActiveParams returns the active params of f as url.Values.
func ActiveParams(f Filter) url.Values {
	values := url.Values{}
	if f == nil {
		return values
	}
	for _, p := range f.Params() {
		if p.Active {
			values.Add(p.Key, p.Value)
		}
	}
	return values
}

func idParam[K any](key string, id *ID[K]) QueryParam {
	if id == nil {
		return QueryParam{Key: key}
	}
	return QueryParam{Key: key, Value: id.String(), Active: true}
}

func idListParam[K any](key string, ids []ID[K]) QueryParam {
	if len(ids) == 0 {
		return QueryParam{Key: key}
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return QueryParam{Key: key, Value: strings.Join(parts, ","), Active: true}
}

func dateParam(key string, d *Date) QueryParam {
	if d == nil {
		return QueryParam{Key: key}
	}
	return QueryParam{Key: key, Value: d.String(), Active: true}
}

func stringParam(key, value string) QueryParam {
	return QueryParam{Key: key, Value: value, Active: value != ""}
}

// AssignmentState narrows assignments by archival state.
type AssignmentState string

const (
	AssignmentStateActive   AssignmentState = "active"
	AssignmentStateArchived AssignmentState = "archived"
)

// AssignmentFilter selects assignments. Nil fields are left out of the query.
type AssignmentFilter struct {
	ProjectID               *ProjectID
	PersonID                *PersonID
	PlaceholderID           *PlaceholderID
	RepeatedAssignmentSetID *RepeatedAssignmentSetID
	StartDate               *Date
	EndDate                 *Date
	State                   AssignmentState
}

// Params implements Filter.
func (f AssignmentFilter) Params() []QueryParam {
	return []QueryParam{
		idParam("project_id", f.ProjectID),
		idParam("person_id", f.PersonID),
		idParam("placeholder_id", f.PlaceholderID),
		idParam("repeated_assignment_set_id", f.RepeatedAssignmentSetID),
		dateParam("start_date", f.StartDate),
		dateParam("end_date", f.EndDate),
		stringParam("state", string(f.State)),
	}
}

// MilestoneFilter selects milestones. The zero value matches every milestone.
type MilestoneFilter struct {
	ProjectIDs []ProjectID
	StartDate  *Date
	EndDate    *Date
}

// Params implements Filter.
func (f MilestoneFilter) Params() []QueryParam {
	return []QueryParam{
		idListParam("project_id", f.ProjectIDs),
		dateParam("start_date", f.StartDate),
		dateParam("end_date", f.EndDate),
	}
}
