package feed

import (
	"fmt"
	"time"
)

const DefaultTimezone = "America/Chicago"

// TimeWindow accepts timestamps whose civil date, in a fixed timezone, is
// today or yesterday.
type TimeWindow struct {
	location *time.Location
	now      func() time.Time
}

func NewTimeWindow(location *time.Location, now func() time.Time) *TimeWindow {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &TimeWindow{location: location, now: now}
}

// LoadTimeWindow builds a window for a named IANA timezone.
func LoadTimeWindow(timezone string) (*TimeWindow, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return NewTimeWindow(location, nil), nil
}

func (w *TimeWindow) Location() *time.Location {
	return w.location
}

func (w *TimeWindow) Accepts(timestamp *time.Time) bool {
	return IsRecentEnough(timestamp, w.location, w.now())
}

// IsRecentEnough reports whether timestamp falls on now's calendar date or
// the one before it, both evaluated in location. Absent timestamps fail.
func IsRecentEnough(timestamp *time.Time, location *time.Location, now time.Time) bool {
	if timestamp == nil || timestamp.IsZero() {
		return false
	}

	today := now.In(location)
	yesterday := today.AddDate(0, 0, -1)
	itemDate := timestamp.In(location)

	return sameDate(itemDate, today) || sameDate(itemDate, yesterday)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Filter keeps headlines accepted by the window, preserving order.
func (w *TimeWindow) Filter(headlines []Headline) []Headline {
	out := make([]Headline, 0, len(headlines))
	for _, h := range headlines {
		if w.Accepts(h.PublishedAt) {
			out = append(out, h)
		}
	}
	return out
}
