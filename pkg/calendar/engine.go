package calendar

import (
	"context"
	"fmt"
)

// yearPad widens every resolution so observance shifts that cross a year
// boundary (Dec 31 observed in January) are visible to queries near the
// edges of their range.
const yearPad = 1

// Engine is the query surface handed to the external API layer. It pulls a
// fresh snapshot from src for every call so one query never mixes old and
// new definitions; the computation itself is pure.
type Engine struct {
	src func() Snapshot
}

// NewEngine returns an Engine drawing snapshots from src.
func NewEngine(src func() Snapshot) *Engine {
	return &Engine{src: src}
}

// Contains reports whether date is a valid day of the named calendar.
func (e *Engine) Contains(ctx context.Context, name string, date Date) (bool, error) {
	r, err := e.Resolve(ctx, name, date.Year, date.Year)
	if err != nil {
		return false, err
	}
	return r.Contains(date), nil
}

// ListBetween returns the valid days of the named calendar in [from, to],
// ascending. from > to yields an empty slice. Work is proportional to the
// number of years spanned; callers should bound the range.
func (e *Engine) ListBetween(ctx context.Context, name string, from, to Date) ([]Date, error) {
	if from.After(to) {
		return nil, nil
	}
	r, err := e.Resolve(ctx, name, from.Year, to.Year)
	if err != nil {
		return nil, err
	}
	return r.DatesBetween(ctx, from, to)
}

// Holidays returns the resolved exclusion dates of the named calendar that
// fall within the given year, ascending.
func (e *Engine) Holidays(ctx context.Context, name string, year int) ([]Date, error) {
	r, err := e.Resolve(ctx, name, year, year)
	if err != nil {
		return nil, err
	}
	var out []Date
	for _, d := range r.ExcludedDates() {
		if d.Year == year {
			out = append(out, d)
		}
	}
	return out, nil
}

// Resolve flattens the named calendar for [firstYear, lastYear], padded by
// one year on each side.
func (e *Engine) Resolve(ctx context.Context, name string, firstYear, lastYear int) (*Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve %q: %w", name, err)
	}
	return Resolve(e.src(), name, firstYear-yearPad, lastYear+yearPad)
}

// DatesBetween returns the valid days in [from, to], ascending. A canceled
// context aborts the walk with the context's error; no partial result is
// returned as success.
func (r *Resolved) DatesBetween(ctx context.Context, from, to Date) ([]Date, error) {
	if from.After(to) {
		return nil, nil
	}
	var out []Date
	var err error
	span := DateRange{Start: from, End: to.AddDays(1)}
	span.Each(func(d Date) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		if r.Contains(d) {
			out = append(out, d)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list %s..%s: %w", from, to, err)
	}
	return out, nil
}
