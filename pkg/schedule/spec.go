package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

// starBit marks a field given as a wildcard, mirroring the convention of the
// compiled cron schedule (bit 63).
const starBit = 1 << 63

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// StartSpec is a job's cron-like start specification. Each field is a cron
// expression (wildcard, explicit list, range or step); omitted fields
// default to "*".
type StartSpec struct {
	Minute  string
	Hour    string
	Day     string
	Month   string
	Weekday string

	compiled *cron.SpecSchedule
}

// startFieldNames are the accepted keys of a schedule "start" object.
var startFieldNames = []string{"minute", "hour", "day", "month", "weekday"}

// ParseStart builds a StartSpec from a field→expression map. Unknown keys
// are rejected; missing keys default to "*".
func ParseStart(fields map[string]string) (StartSpec, error) {
	spec := StartSpec{Minute: "*", Hour: "*", Day: "*", Month: "*", Weekday: "*"}
	for key, expr := range fields {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			expr = "*"
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "minute":
			spec.Minute = expr
		case "hour":
			spec.Hour = expr
		case "day":
			spec.Day = expr
		case "month":
			spec.Month = expr
		case "weekday":
			spec.Weekday = expr
		default:
			return StartSpec{}, fmt.Errorf("unknown start field %q (use %s)",
				key, strings.Join(startFieldNames, ", "))
		}
	}
	if err := spec.compile(); err != nil {
		return StartSpec{}, err
	}
	return spec, nil
}

// Line renders the spec as a standard five-field crontab line.
func (s StartSpec) Line() string {
	return strings.Join([]string{s.Minute, s.Hour, s.Day, s.Month, s.Weekday}, " ")
}

func (s *StartSpec) compile() error {
	sched, err := cronParser.Parse(s.Line())
	if err != nil {
		return fmt.Errorf("invalid start spec %q: %w", s.Line(), err)
	}
	ss, ok := sched.(*cron.SpecSchedule)
	if !ok {
		// The parser is configured without descriptors, so this cannot
		// happen; guard anyway.
		return fmt.Errorf("start spec %q did not compile to a field schedule", s.Line())
	}
	s.compiled = ss
	return nil
}

func bit(bits uint64, v int) bool { return bits&(1<<uint(v)) != 0 }

// dayMatches applies standard cron day semantics: when either day-of-month
// or weekday is restricted (no wildcard), a day restricted by both matches
// if either one does.
func (s StartSpec) dayMatches(d calendar.Date) bool {
	c := s.compiled
	domMatch := bit(c.Dom, d.Day)
	dowMatch := bit(c.Dow, int(d.Weekday()))
	if !bit(c.Month, int(d.Month)) {
		return false
	}
	if c.Dom&starBit > 0 || c.Dow&starBit > 0 {
		return domMatch && dowMatch
	}
	return domMatch || dowMatch
}

func (s StartSpec) hourMatches(h int) bool   { return bit(s.compiled.Hour, h) }
func (s StartSpec) minuteMatches(m int) bool { return bit(s.compiled.Minute, m) }

// nextInDay returns the first run instant of day d at or after dayFloor, or
// ok=false when the day has none left. The day itself must already have
// passed the calendar and day-field checks.
//
// Without a frequency the candidates are every hh:mm matching the hour and
// minute fields. With one, the day's first full hour+minute match anchors a
// repetition grid continuing at freq steps while the hour field still
// matches; a live grid supersedes later base matches, so a frequency that
// does not divide the hour keeps its own cadence (minute 5 with 50m runs at
// 0:05, 0:55, 1:45, ...). The grid dies whenever the hour field stops
// matching, and the next full match anchors a fresh one.
func (s StartSpec) nextInDay(d calendar.Date, dayFloor time.Time, freq time.Duration, loc *time.Location) (time.Time, bool) {
	var rep time.Time // next repetition instant; zero when no grid is live
	for h := 0; h < 24; h++ {
		if !s.hourMatches(h) {
			rep = time.Time{}
			continue
		}
		for m := 0; m < 60; m++ {
			t := time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, loc)
			switch {
			case freq > 0 && !rep.IsZero():
				if !t.Equal(rep) {
					continue
				}
				rep = t.Add(freq)
			case s.minuteMatches(m):
				if freq > 0 {
					rep = t.Add(freq)
				}
			default:
				continue
			}
			if !t.Before(dayFloor) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
