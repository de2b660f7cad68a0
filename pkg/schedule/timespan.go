package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

// ClockTime is a time of day with minute granularity, zone-free.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) Before(o ClockTime) bool { return c.minutes() < o.minutes() }

// TimeSpan is a within-day window [Start, End].
type TimeSpan struct {
	Start       ClockTime
	End         ClockTime
	Description string
}

// Intersect returns the overlap of two spans, ok=false when they are
// disjoint.
func (s TimeSpan) Intersect(o TimeSpan) (TimeSpan, bool) {
	if s.End.Before(o.Start) || o.End.Before(s.Start) {
		return TimeSpan{}, false
	}
	out := TimeSpan{Start: s.Start, End: s.End}
	if out.Start.Before(o.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	if s.Description != "" || o.Description != "" {
		out.Description = fmt.Sprintf("Intersection of %s and %s", s.Description, o.Description)
	}
	return out, true
}

// Override replaces the default spans over a dated interval. A nil EndDate
// means open-ended.
type Override struct {
	StartDate   calendar.Date
	EndDate     *calendar.Date
	Spans       []TimeSpan
	Description string
}

func (o Override) covers(d calendar.Date) bool {
	if d.Before(o.StartDate) {
		return false
	}
	return o.EndDate == nil || !d.After(*o.EndDate)
}

// WindowSet is a default set of within-day windows plus dated overrides.
type WindowSet struct {
	Default   []TimeSpan
	Overrides []Override
}

// EffectiveSpans returns the windows applying on the given date: the spans
// of the first covering override, or the defaults. Overrides are checked in
// order; earlier entries win.
func (w WindowSet) EffectiveSpans(d calendar.Date) []TimeSpan {
	for _, o := range w.Overrides {
		if o.covers(d) {
			return o.Spans
		}
	}
	return w.Default
}
