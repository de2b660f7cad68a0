package calendar

import (
	"fmt"
	"strings"
	"time"
)

// ParseError rejects a definition document outright. Definitions are never
// partially applied.
type ParseError struct {
	Name  string // definition being parsed, may be empty
	Field string // offending field path, e.g. "exclude[2].offset"
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrf(name, field, format string, args ...any) error {
	return &ParseError{Name: name, Field: field, Err: fmt.Errorf(format, args...)}
}

// OffsetRangeError reports a month/weekday/offset rule whose offset exceeds
// the number of matching weekdays in the month for one particular year (e.g.
// the 6th Friday). It fails only that rule's contribution for that year.
type OffsetRangeError struct {
	Year   int
	Month  time.Month
	Dow    time.Weekday
	Offset int
	Count  int // matching weekdays in that month
}

func (e *OffsetRangeError) Error() string {
	return fmt.Sprintf("offset %d out of range: %s %d has %d %ss",
		e.Offset, e.Month, e.Year, e.Count, e.Dow)
}

// CycleError reports cyclic calendar inheritance. Path lists the calendar
// names along the cycle, ending with the name that closed it.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic calendar inheritance: " + strings.Join(e.Path, " -> ")
}

// ObservanceError reports that the bounded observance scan found no
// qualifying day. This is a configuration defect (typically an empty or
// near-empty dow_list).
type ObservanceError struct {
	Date   Date
	Policy AdjustmentPolicy
}

func (e *ObservanceError) Error() string {
	return fmt.Sprintf("no observed date found within %d days of %s (policy %s)",
		maxObservanceScan, e.Date, e.Policy)
}
