package calendar

import (
	"errors"
	"fmt"
	"sort"
)

// Snapshot is a consistent, immutable view of calendar definitions for the
// lifetime of one resolution. Implementations must return ErrNotFound-style
// errors for unknown names and must not mutate returned definitions.
type Snapshot interface {
	GetCalendar(name string) (*Definition, error)
}

// Resolved is the flattened, query-ready form of a calendar: its own weekly
// mask plus the union of every materialized and adjusted exclusion date from
// the calendar and all transitively inherited calendars, covering the
// inclusive year range [FirstYear, LastYear].
type Resolved struct {
	Name      string
	Dow       DowMask
	FirstYear int
	LastYear  int

	excluded map[Date]struct{}
}

// Contains reports whether the date is a valid day: its weekday is in the
// mask and it is not excluded. Dates outside the resolved year range may be
// missing exclusions; callers resolve a range wide enough for their query
// (Engine pads by a year on each side).
func (r *Resolved) Contains(d Date) bool {
	if !r.Dow.Has(d.Weekday()) {
		return false
	}
	_, hit := r.excluded[d]
	return !hit
}

// Excluded reports whether the date is in the flattened exclusion set,
// independent of the weekly mask.
func (r *Resolved) Excluded(d Date) bool {
	_, hit := r.excluded[d]
	return hit
}

// ExcludedDates returns the flattened exclusion set in ascending order.
func (r *Resolved) ExcludedDates() []Date {
	out := make([]Date, 0, len(r.excluded))
	for d := range r.excluded {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

// Resolve flattens the named calendar's inheritance graph into a Resolved
// for the inclusive year range [firstYear, lastYear].
//
// Inheritance is walked depth-first with an explicit on-path set; revisiting
// a name already on the current path fails with *CycleError. Calendars
// reachable along multiple paths (diamonds) are processed once. Each visited
// calendar's rules are adjusted against that calendar's own dow_list and the
// dates it has already observed, in rule order, year ascending. The queried
// calendar's own dow_list is carried through unchanged: inheritance affects
// exclusions only, never the weekly mask.
//
// A rule that fails with *OffsetRangeError for some year contributes nothing
// for that year; resolution continues. Every other failure (unknown
// calendar, exhausted observance scan) fails resolution entirely.
func Resolve(snap Snapshot, name string, firstYear, lastYear int) (*Resolved, error) {
	if lastYear < firstYear {
		return nil, fmt.Errorf("invalid year range %d..%d", firstYear, lastYear)
	}
	r := &resolver{
		snap:      snap,
		firstYear: firstYear,
		lastYear:  lastYear,
		done:      map[string]bool{},
		onPath:    map[string]bool{},
		excluded:  map[Date]struct{}{},
	}
	root, err := r.visit(name)
	if err != nil {
		return nil, err
	}
	return &Resolved{
		Name:      name,
		Dow:       root.Dow,
		FirstYear: firstYear,
		LastYear:  lastYear,
		excluded:  r.excluded,
	}, nil
}

type resolver struct {
	snap      Snapshot
	firstYear int
	lastYear  int

	done     map[string]bool
	onPath   map[string]bool
	path     []string
	excluded map[Date]struct{}
}

func (r *resolver) visit(name string) (*Definition, error) {
	if r.onPath[name] {
		return nil, &CycleError{Path: append(append([]string{}, r.path...), name)}
	}
	if r.done[name] {
		return nil, nil
	}

	def, err := r.snap.GetCalendar(name)
	if err != nil {
		return nil, fmt.Errorf("calendar %q: %w", name, err)
	}

	r.onPath[name] = true
	r.path = append(r.path, name)
	defer func() {
		delete(r.onPath, name)
		r.path = r.path[:len(r.path)-1]
		r.done[name] = true
	}()

	if err := r.collect(def); err != nil {
		return nil, fmt.Errorf("calendar %q: %w", name, err)
	}
	for _, ref := range def.Inherits {
		if _, err := r.visit(ref.String()); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// collect materializes and adjusts one calendar's rules across the year
// range, unioning the excluded dates into the shared exclusion set. A
// shifting policy excludes both days: the nominal date stays the holiday and
// the observed day is removed from validity alongside it. The
// already-observed set used for adjustment is scoped to this calendar, so
// two holidays of the same calendar cascade (Christmas observed Monday
// pushes Boxing Day to Tuesday) without unrelated inherited calendars
// interfering.
func (r *resolver) collect(def *Definition) error {
	observed := map[Date]struct{}{}
	for year := r.firstYear; year <= r.lastYear; year++ {
		for _, rule := range def.Exclude {
			raw, ok, err := rule.Materialize(year)
			if err != nil {
				var oor *OffsetRangeError
				if errors.As(err, &oor) {
					continue // no date for this year; documented policy
				}
				return err
			}
			if !ok {
				continue
			}
			obs, err := Adjust(raw, rule.Observed, def.Dow, observed)
			if err != nil {
				return err
			}
			observed[raw] = struct{}{}
			observed[obs] = struct{}{}
		}
	}
	for d := range observed {
		r.excluded[d] = struct{}{}
	}
	return nil
}

func sortDates(ds []Date) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
}
