package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned by ParseDate for unrecognised input.
var ErrInvalidDate = errors.New("invalid target date")

// ParseDate accepts an RFC 3339 timestamp or a plain 2006-01-02 date, read in
// loc. Empty input yields the zero time.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
