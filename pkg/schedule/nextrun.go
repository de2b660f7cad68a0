package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

// searchHorizonYears bounds the forward search. An unsatisfiable schedule
// (say a calendar that excludes every day) fails with ErrNoMatch instead of
// looping forever.
const searchHorizonYears = 5

// ErrNoMatch means the search exhausted its horizon: no upcoming run exists
// under the current constraints. It is an outcome, not a hard failure.
var ErrNoMatch = errors.New("no matching run instant within search horizon")

// NextRun returns the earliest run instant of the job strictly after
// truncating `after` to the minute, searching up to searchHorizonYears in
// the job's zone. The resolved calendar must cover the searched years;
// Engine.NextRun takes care of that.
//
// A canceled context aborts the walk with the context's error.
func NextRun(ctx context.Context, job *Job, resolved *calendar.Resolved, after time.Time) (time.Time, error) {
	loc := job.Location()
	floor := after.In(loc).Truncate(time.Minute).Add(time.Minute)
	limit := floor.AddDate(searchHorizonYears, 0, 0)

	day := calendar.DateOf(floor)
	for !day.Time(loc).After(limit) {
		if err := ctx.Err(); err != nil {
			return time.Time{}, fmt.Errorf("next run for %q: %w", job.Name, err)
		}
		if resolved.Contains(day) && job.Start.dayMatches(day) {
			dayFloor := day.Time(loc)
			if dayFloor.Before(floor) {
				dayFloor = floor
			}
			if t, ok := job.Start.nextInDay(day, dayFloor, job.Frequency, loc); ok {
				return t, nil
			}
		}
		day = day.AddDays(1)
	}
	return time.Time{}, fmt.Errorf("job %q after %s: %w",
		job.Name, after.In(loc).Format(time.RFC3339), ErrNoMatch)
}

// IsValidRunInstant reports whether instant is a run instant of the job: its
// day is valid on the resolved calendar, the spec's day fields match, and
// the time of day is on the job's candidate grid (an exact hour+minute
// match, or a whole number of frequency steps past the day's anchor while
// the hour field still matches).
func IsValidRunInstant(job *Job, resolved *calendar.Resolved, instant time.Time) bool {
	t := instant.In(job.Location())
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	day := calendar.DateOf(t)
	if !resolved.Contains(day) || !job.Start.dayMatches(day) {
		return false
	}
	got, ok := job.Start.nextInDay(day, t, job.Frequency, job.Location())
	return ok && got.Equal(t)
}
