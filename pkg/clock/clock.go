// Package clock resolves "now" and the civil business date in the event's
// timezone. Sessions are keyed by the local date, so a session opened at
// 23:50 and closed at 00:10 still belongs to the day it was opened.
package clock

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New loads the named timezone. An empty name falls back to UTC.
func New(zone string) (*Clock, error) {
	if zone == "" {
		return &Clock{loc: time.UTC, now: time.Now}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixed returns a clock pinned to a single instant, for tests.
func NewFixed(at time.Time) *Clock {
	return &Clock{loc: at.Location(), now: func() time.Time { return at }}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current civil date as "2006-01-02".
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// TimeOfDay returns the current wall-clock time as "15:04:05".
func (c *Clock) TimeOfDay() string {
	return c.Now().Format("15:04:05")
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// ValidDate reports whether s is a well-formed civil date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
