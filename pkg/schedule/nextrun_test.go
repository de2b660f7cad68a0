package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

var allDays = calendar.Weekdays(time.Sunday, time.Monday, time.Tuesday,
	time.Wednesday, time.Thursday, time.Friday, time.Saturday)

var businessDays = calendar.Weekdays(time.Monday, time.Tuesday,
	time.Wednesday, time.Thursday, time.Friday)

// defSnapshot serves a fixed set of calendar definitions.
type defSnapshot map[string]*calendar.Definition

func (s defSnapshot) GetCalendar(name string) (*calendar.Definition, error) {
	def, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("no calendar %q", name)
	}
	return def, nil
}

func mustResolve(t *testing.T, def *calendar.Definition, firstYear, lastYear int) *calendar.Resolved {
	t.Helper()
	r, err := calendar.Resolve(defSnapshot{def.Name: def}, def.Name, firstYear, lastYear)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return r
}

func testJob(t *testing.T, fields map[string]string, freq time.Duration) *Job {
	t.Helper()
	return &Job{
		Name:      "reports.daily",
		Calendar:  calendar.Ref{Name: "cal"},
		Start:     mustStart(t, fields),
		Frequency: freq,
	}
}

func utc(y int, mo time.Month, d, h, m int) time.Time {
	return time.Date(y, mo, d, h, m, 0, 0, time.UTC)
}

func TestNextRunFrequencyGrid(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "5"}, 15*time.Minute)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)
	ctx := context.Background()

	var got []time.Time
	cursor := utc(2021, time.June, 14, 0, 0)
	for i := 0; i < 5; i++ {
		next, err := NextRun(ctx, job, resolved, cursor)
		if err != nil {
			t.Fatalf("NextRun: %v", err)
		}
		got = append(got, next)
		cursor = next
	}

	want := []time.Time{
		utc(2021, time.June, 14, 0, 5),
		utc(2021, time.June, 14, 0, 20),
		utc(2021, time.June, 14, 0, 35),
		utc(2021, time.June, 14, 0, 50),
		utc(2021, time.June, 14, 1, 5),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("run %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextRunFrequencyNotDividingHour(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "5"}, 50*time.Minute)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)
	ctx := context.Background()

	var got []time.Time
	cursor := utc(2021, time.June, 14, 0, 0)
	for i := 0; i < 4; i++ {
		next, err := NextRun(ctx, job, resolved, cursor)
		if err != nil {
			t.Fatalf("NextRun: %v", err)
		}
		got = append(got, next)
		cursor = next
	}

	want := []time.Time{
		utc(2021, time.June, 14, 0, 5),
		utc(2021, time.June, 14, 0, 55),
		utc(2021, time.June, 14, 1, 45),
		utc(2021, time.June, 14, 2, 35),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("run %d = %v, want %v", i, got[i], want[i])
		}
	}

	// 1:05 matches the base fields but sits off the live grid.
	if IsValidRunInstant(job, resolved, utc(2021, time.June, 14, 1, 5)) {
		t.Fatal("1:05 is superseded by the grid and must not be a run instant")
	}
}

func TestNextRunSkipsInvalidDays(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "0", "hour": "9"}, 0)
	resolved := mustResolve(t, &calendar.Definition{
		Name: "cal", Dow: businessDays,
		Exclude: []calendar.Rule{
			{Kind: calendar.RuleDate, Date: calendar.Date{Year: 2021, Month: time.June, Day: 21}},
		},
	}, 2021, 2026)

	// Friday evening: Saturday and Sunday are off the mask and Monday the
	// 21st is excluded, so the next run is Tuesday.
	got, err := NextRun(context.Background(), job, resolved, utc(2021, time.June, 18, 10, 0))
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := utc(2021, time.June, 22, 9, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextRunRollsToNextDayWhenHourWindowCloses(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "5", "hour": "9"}, 15*time.Minute)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)

	// After the last grid slot of the nine o'clock hour the repetition would
	// land at 10:05, but hour 10 is outside the spec; the next run is the
	// following day's anchor.
	got, err := NextRun(context.Background(), job, resolved, utc(2021, time.June, 14, 9, 50))
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := utc(2021, time.June, 15, 9, 5); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextRunHonorsDayFields(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "0", "hour": "0", "weekday": "1-5"}, 0)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)

	// Saturday morning: the calendar allows every day but the spec's weekday
	// field restricts runs to Monday through Friday.
	got, err := NextRun(context.Background(), job, resolved, utc(2021, time.June, 19, 10, 0))
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := utc(2021, time.June, 21, 0, 0); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextRunInJobZone(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	job := testJob(t, map[string]string{"minute": "0", "hour": "9"}, 0)
	job.Timezone = "America/New_York"
	job.loc = ny
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)

	// 12:00 UTC on June 14 is 08:00 in New York; the nine o'clock run is an
	// hour out.
	got, err := NextRun(context.Background(), job, resolved, utc(2021, time.June, 14, 12, 0))
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := time.Date(2021, time.June, 14, 9, 0, 0, 0, ny); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextRunIsStrictlyAfter(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "0", "hour": "9"}, 0)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)

	// Asking at exactly a run instant returns the following one, and
	// sub-minute precision in `after` is floored away.
	for _, after := range []time.Time{
		utc(2021, time.June, 14, 9, 0),
		utc(2021, time.June, 14, 9, 0).Add(30 * time.Second),
	} {
		got, err := NextRun(context.Background(), job, resolved, after)
		if err != nil {
			t.Fatalf("NextRun: %v", err)
		}
		if want := utc(2021, time.June, 15, 9, 0); !got.Equal(want) {
			t.Fatalf("after %v: got %v, want %v", after, got, want)
		}
	}
}

func TestNextRunNoMatch(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "0"}, 0)
	// Empty mask: no day is ever valid.
	resolved := mustResolve(t, &calendar.Definition{Name: "cal"}, 2021, 2030)

	_, err := NextRun(context.Background(), job, resolved, utc(2021, time.June, 14, 0, 0))
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestNextRunCanceledContext(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "0"}, 0)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: allDays}, 2021, 2026)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NextRun(ctx, job, resolved, utc(2021, time.June, 14, 0, 0)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestIsValidRunInstant(t *testing.T) {
	t.Parallel()
	job := testJob(t, map[string]string{"minute": "5", "hour": "9"}, 15*time.Minute)
	resolved := mustResolve(t, &calendar.Definition{Name: "cal", Dow: businessDays}, 2021, 2026)

	tests := []struct {
		name    string
		instant time.Time
		want    bool
	}{
		{"anchor", utc(2021, time.June, 14, 9, 5), true},
		{"on grid", utc(2021, time.June, 14, 9, 35), true},
		{"last slot of hour", utc(2021, time.June, 14, 9, 50), true},
		{"off grid", utc(2021, time.June, 14, 9, 36), false},
		{"outside hour field", utc(2021, time.June, 14, 10, 5), false},
		{"nonzero seconds", utc(2021, time.June, 14, 9, 5).Add(30 * time.Second), false},
		{"weekend day", utc(2021, time.June, 19, 9, 5), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValidRunInstant(job, resolved, tt.instant); got != tt.want {
				t.Fatalf("IsValidRunInstant(%v) = %v, want %v", tt.instant, got, tt.want)
			}
		})
	}
}
