package forecast

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Duration is a time allocation carried on the wire as whole seconds.
type Duration time.Duration

// Seconds builds a Duration from a number of seconds.
func Seconds(n int64) Duration {
	return Duration(time.Duration(n) * time.Second)
}

// Hours builds a Duration from a (possibly fractional) number of hours.
func Hours(h float64) Duration {
	return Duration(time.Duration(h * float64(time.Hour)))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// WireSeconds returns the whole seconds sent on the wire.
func (d Duration) WireSeconds() int64 {
	return int64(time.Duration(d) / time.Second)
}

// Hours returns the allocation in hours.
func (d Duration) Hours() float64 {
	return time.Duration(d).Hours()
}

// String formats the allocation as hours and minutes, e.g. "7h30m" or
// "-1h30m".
func (d Duration) String() string {
	sign, secs := "", d.WireSeconds()
	if secs < 0 {
		sign, secs = "-", -secs
	}

	total := secs / 60
	h, m := total/60, total%60
	if m == 0 {
		return fmt.Sprintf("%s%dh", sign, h)
	}
	return fmt.Sprintf("%s%dh%02dm", sign, h, m)
}

// MarshalJSON encodes the allocation as integer seconds.
func (d Duration) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, d.WireSeconds(), 10), nil
}

// UnmarshalJSON decodes integer seconds. Nullable allocations are *Duration,
// so a null that reaches here is an error.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("duration must be integer seconds, got null")
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be integer seconds, got %s", data)
	}

	*d = Seconds(n)
	return nil
}

// MarshalYAML encodes the allocation as integer seconds, matching the wire.
func (d Duration) MarshalYAML() (any, error) {
	return d.WireSeconds(), nil
}

// DurationPtr returns a pointer to d.
func DurationPtr(d Duration) *Duration {
	return &d
}
