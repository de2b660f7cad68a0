package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

// Source is the definition snapshot the schedule engine consumes: calendar
// lookups for resolution plus job lookups.
type Source interface {
	calendar.Snapshot
	GetJob(name string) (*Job, error)
}

// Engine is the name-based query surface backing the external scheduler
// loop ("when does job X run next?") and the would-it-run-now check. Each
// call works against one snapshot pulled from src.
type Engine struct {
	src func() Source
}

func NewEngine(src func() Source) *Engine {
	return &Engine{src: src}
}

// NextRun returns the named job's earliest run instant after `after`.
func (e *Engine) NextRun(ctx context.Context, jobName string, after time.Time) (time.Time, error) {
	snap := e.src()
	job, resolved, err := e.resolve(ctx, snap, jobName, after)
	if err != nil {
		return time.Time{}, err
	}
	return NextRun(ctx, job, resolved, after)
}

// NextRuns returns up to n successive run instants after `after`. It stops
// early at the search horizon.
func (e *Engine) NextRuns(ctx context.Context, jobName string, after time.Time, n int) ([]time.Time, error) {
	snap := e.src()
	job, resolved, err := e.resolve(ctx, snap, jobName, after)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	cursor := after
	for len(out) < n {
		t, err := NextRun(ctx, job, resolved, cursor)
		if err != nil {
			if errors.Is(err, ErrNoMatch) && len(out) > 0 {
				break
			}
			return out, err
		}
		out = append(out, t)
		cursor = t
	}
	return out, nil
}

// IsValidRunInstant reports whether instant is a run instant of the named
// job, usable by an external execution trigger without a forward search.
func (e *Engine) IsValidRunInstant(ctx context.Context, jobName string, instant time.Time) (bool, error) {
	snap := e.src()
	job, resolved, err := e.resolve(ctx, snap, jobName, instant)
	if err != nil {
		return false, err
	}
	return IsValidRunInstant(job, resolved, instant), nil
}

// resolve fetches the job and flattens its calendar over the search window
// (padded a year on each side so observance shifts across year boundaries
// are visible).
func (e *Engine) resolve(ctx context.Context, snap Source, jobName string, after time.Time) (*Job, *calendar.Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("job %q: %w", jobName, err)
	}
	job, err := snap.GetJob(jobName)
	if err != nil {
		return nil, nil, fmt.Errorf("job %q: %w", jobName, err)
	}
	year := after.In(job.Location()).Year()
	resolved, err := calendar.Resolve(snap, job.Calendar.String(), year-1, year+searchHorizonYears+1)
	if err != nil {
		return nil, nil, fmt.Errorf("job %q: %w", jobName, err)
	}
	return job, resolved, nil
}
