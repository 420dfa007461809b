package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day or zone. Only years 0 through
// 9999 fit the wire layout; MarshalJSON and MarshalYAML reject the rest.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day. Out of range values
// are normalized the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the zero-padded YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Valid reports whether d's year fits the four digit wire layout.
func (d Date) Valid() bool {
	y := d.Time().Year()
	return y >= 0 && y <= 9999
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// MarshalJSON encodes d as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("date %s is outside years 0000-9999", d)
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. Nullable dates are *Date, so
// a null that reaches here is an error.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("date must be a string, got null")
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string, got %s", data)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// UnmarshalText parses "YYYY-MM-DD".
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Set implements pflag.Value.
func (d *Date) Set(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (d *Date) Type() string {
	return "date"
}

// MarshalYAML encodes d as "YYYY-MM-DD".
func (d Date) MarshalYAML() (any, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("date %s is outside years 0000-9999", d)
	}
	return d.String(), nil
}

// DatePtr returns a pointer to d, for optional filter and entity fields.
func DatePtr(d Date) *Date {
	return &d
}
