package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DowMask is a set of weekdays, one bit per time.Weekday.
type DowMask uint8

// Single-letter weekday codes used in definition documents. Note R=Thursday
// and U=Sunday.
var dowCodes = map[string]time.Weekday{
	"U": time.Sunday,
	"M": time.Monday,
	"T": time.Tuesday,
	"W": time.Wednesday,
	"R": time.Thursday,
	"F": time.Friday,
	"S": time.Saturday,
}

var dowLetters = [7]string{"U", "M", "T", "W", "R", "F", "S"}

// Weekdays builds a mask from the given weekdays.
func Weekdays(days ...time.Weekday) DowMask {
	var m DowMask
	for _, d := range days {
		m |= 1 << uint(d)
	}
	return m
}

// ParseDowList parses a list of single-letter weekday codes (case-insensitive).
func ParseDowList(codes []string) (DowMask, error) {
	var m DowMask
	for _, c := range codes {
		wd, ok := dowCodes[strings.ToUpper(strings.TrimSpace(c))]
		if !ok {
			return 0, fmt.Errorf("unknown weekday code %q (use M,T,W,R,F,S,U)", c)
		}
		m |= 1 << uint(wd)
	}
	return m, nil
}

func (m DowMask) Has(d time.Weekday) bool { return m&(1<<uint(d)) != 0 }

func (m DowMask) IsEmpty() bool { return m == 0 }

// String renders the mask as concatenated codes in Sunday-first order.
func (m DowMask) String() string {
	var b strings.Builder
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if m.Has(wd) {
			b.WriteString(dowLetters[wd])
		}
	}
	return b.String()
}

// Codes returns the mask as a slice of single-letter codes, Sunday first.
func (m DowMask) Codes() []string {
	out := make([]string, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if m.Has(wd) {
			out = append(out, dowLetters[wd])
		}
	}
	return out
}

// AdjustmentPolicy controls how a holiday's observed day is shifted relative
// to its nominal date.
type AdjustmentPolicy int

const (
	NoAdjustment AdjustmentPolicy = iota
	Next
	Prev
	Closest
)

// ParsePolicy parses an observed value, case-insensitively. Empty means
// NoAdjustment.
func ParsePolicy(s string) (AdjustmentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "noadjustment":
		return NoAdjustment, nil
	case "next":
		return Next, nil
	case "prev":
		return Prev, nil
	case "closest":
		return Closest, nil
	default:
		return NoAdjustment, fmt.Errorf("unknown observed policy %q (use next, prev, closest or noadjustment)", s)
	}
}

func (p AdjustmentPolicy) String() string {
	switch p {
	case Next:
		return "next"
	case Prev:
		return "prev"
	case Closest:
		return "closest"
	default:
		return "noadjustment"
	}
}

// RuleKind discriminates the closed set of exclusion rule variants.
type RuleKind int

const (
	// RuleDate excludes one exact calendar date.
	RuleDate RuleKind = iota
	// RuleMonthDay excludes a fixed month/day every year.
	RuleMonthDay
	// RuleMonthWeekday excludes the Nth weekday of a month (negative offset
	// counts from the end of the month).
	RuleMonthWeekday
)

// Rule is one symbolic exclusion rule. Only the fields relevant to Kind are
// meaningful.
type Rule struct {
	Kind RuleKind

	Date   Date         // RuleDate
	Month  time.Month   // RuleMonthDay, RuleMonthWeekday
	Day    int          // RuleMonthDay
	Dow    time.Weekday // RuleMonthWeekday
	Offset int          // RuleMonthWeekday, nonzero

	Observed    AdjustmentPolicy
	Description string

	// Since/Until bound the years in which a recurring rule applies.
	Since *Date
	Until *Date
}

// Ref addresses a calendar or job, optionally scoped to a user. Both
// "user.name" and "user/name" parse to the same Ref; String renders the
// dotted form.
type Ref struct {
	User string
	Name string
}

func (r Ref) String() string {
	if r.User == "" {
		return r.Name
	}
	return r.User + "." + r.Name
}

func (r Ref) IsZero() bool { return r == Ref{} }

// Definition is one calendar as parsed from its definition document.
// Definitions are immutable once parsed; the engine never mutates them.
type Definition struct {
	Name        string
	Description string
	Dow         DowMask
	Public      bool
	Exclude     []Rule
	Inherits    []Ref
}
