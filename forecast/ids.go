package forecast

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"strconv"
)

// ID is an identifier scoped to one entity kind. K is a marker type that is
// never instantiated; two IDs with different K are distinct types even when
// they hold the same raw value.
type ID[K any] struct {
	raw int64
}

// NewID wraps a raw integer as an identifier of kind K.
func NewID[K any](raw int64) ID[K] {
	return ID[K]{raw: raw}
}

// Int64 returns the raw value.
func (id ID[K]) Int64() int64 {
	return id.raw
}

// String returns the decimal form used in paths and query strings.
func (id ID[K]) String() string {
	return strconv.FormatInt(id.raw, 10)
}

// Compare orders identifiers of the same kind by raw value.
func (id ID[K]) Compare(other ID[K]) int {
	return cmp.Compare(id.raw, other.raw)
}

// Equal reports whether both identifiers hold the same raw value.
func (id ID[K]) Equal(other ID[K]) bool {
	return id.raw == other.raw
}

// Less reports whether id sorts before other.
func (id ID[K]) Less(other ID[K]) bool {
	return id.raw < other.raw
}

// MarshalJSON encodes the identifier as a bare integer.
func (id ID[K]) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, id.raw, 10), nil
}

// UnmarshalJSON accepts only a JSON integer. Nullable relations are *ID[K],
// which encoding/json sets to nil without calling this method, so a null that
// reaches here is an error.
func (id *ID[K]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("identifier must be an integer, got null")
	}

	raw, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("identifier must be an integer, got %s", data)
	}

	id.raw = raw
	return nil
}

// UnmarshalText parses a decimal identifier.
func (id *ID[K]) UnmarshalText(text []byte) error {
	raw, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %q", text)
	}

	id.raw = raw
	return nil
}

// Set implements pflag.Value so identifiers can be bound to command flags.
func (id *ID[K]) Set(s string) error {
	return id.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (id *ID[K]) Type() string {
	return "id"
}

// MarshalYAML encodes the identifier as an integer.
func (id ID[K]) MarshalYAML() (any, error) {
	return id.raw, nil
}

// Marker types, one per entity kind.
type (
	accountKind               struct{}
	projectKind               struct{}
	personKind                struct{}
	clientKind                struct{}
	assignmentKind            struct{}
	placeholderKind           struct{}
	repeatedAssignmentSetKind struct{}
	milestoneKind             struct{}
	harvestProjectKind        struct{}
	harvestClientKind         struct{}
	harvestUserKind           struct{}
)

type (
	// AccountID identifies a Forecast account.
	AccountID = ID[accountKind]
	// ProjectID identifies a Project.
	ProjectID = ID[projectKind]
	// PersonID identifies a Person. Update metadata also refers to people.
	PersonID = ID[personKind]
	// ClientID identifies a Client.
	ClientID = ID[clientKind]
	// AssignmentID identifies an Assignment.
	AssignmentID = ID[assignmentKind]
	// PlaceholderID identifies a Placeholder.
	PlaceholderID = ID[placeholderKind]
	// RepeatedAssignmentSetID identifies the repeating series an assignment belongs to.
	RepeatedAssignmentSetID = ID[repeatedAssignmentSetKind]
	// MilestoneID identifies a Milestone.
	MilestoneID = ID[milestoneKind]
	// HarvestProjectID identifies the linked project in Harvest.
	HarvestProjectID = ID[harvestProjectKind]
	// HarvestClientID identifies the linked client in Harvest.
	HarvestClientID = ID[harvestClientKind]
	// HarvestUserID identifies the linked user in Harvest.
	HarvestUserID = ID[harvestUserKind]
)

// AccountIDOf wraps raw as an AccountID.
func AccountIDOf(raw int64) AccountID { return NewID[accountKind](raw) }

// ProjectIDOf wraps raw as a ProjectID.
func ProjectIDOf(raw int64) ProjectID { return NewID[projectKind](raw) }

// PersonIDOf wraps raw as a PersonID.
func PersonIDOf(raw int64) PersonID { return NewID[personKind](raw) }

// ClientIDOf wraps raw as a ClientID.
func ClientIDOf(raw int64) ClientID { return NewID[clientKind](raw) }

// AssignmentIDOf wraps raw as an AssignmentID.
func AssignmentIDOf(raw int64) AssignmentID { return NewID[assignmentKind](raw) }

// PlaceholderIDOf wraps raw as a PlaceholderID.
func PlaceholderIDOf(raw int64) PlaceholderID { return NewID[placeholderKind](raw) }

// RepeatedAssignmentSetIDOf wraps raw as a RepeatedAssignmentSetID.
func RepeatedAssignmentSetIDOf(raw int64) RepeatedAssignmentSetID { return NewID[repeatedAssignmentSetKind](raw) }

// MilestoneIDOf wraps raw as a MilestoneID.
func MilestoneIDOf(raw int64) MilestoneID { return NewID[milestoneKind](raw) }

// HarvestProjectIDOf wraps raw as a HarvestProjectID.
func HarvestProjectIDOf(raw int64) HarvestProjectID { return NewID[harvestProjectKind](raw) }

// HarvestClientIDOf wraps raw as a HarvestClientID.
func HarvestClientIDOf(raw int64) HarvestClientID { return NewID[harvestClientKind](raw) }

// HarvestUserIDOf wraps raw as a HarvestUserID.
func HarvestUserIDOf(raw int64) HarvestUserID { return NewID[harvestUserKind](raw) }
