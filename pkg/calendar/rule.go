package calendar

import "time"

// Materialize resolves the rule to its concrete date for one year.
//
// ok is false when the rule simply contributes nothing that year: an exact
// date from a different year, Feb 29 in a non-leap year, or a year outside
// the rule's since/until bounds. That is not an error.
//
// A month/weekday/offset rule whose offset exceeds the number of matching
// weekdays returns an *OffsetRangeError for that year.
func (r Rule) Materialize(year int) (d Date, ok bool, err error) {
	if !r.appliesTo(year) {
		return Date{}, false, nil
	}

	switch r.Kind {
	case RuleDate:
		if r.Date.Year != year {
			return Date{}, false, nil
		}
		return r.Date, true, nil

	case RuleMonthDay:
		d := Date{Year: year, Month: r.Month, Day: r.Day}
		if !d.Valid() {
			// Feb 29 outside leap years: absent, not an error. Anything
			// else invalid was already rejected at parse time.
			return Date{}, false, nil
		}
		return d, true, nil

	case RuleMonthWeekday:
		return r.nthWeekday(year)

	default:
		return Date{}, false, nil
	}
}

func (r Rule) appliesTo(year int) bool {
	if r.Since != nil && r.Since.Year > year {
		return false
	}
	if r.Until != nil && r.Until.Year < year {
		return false
	}
	return true
}

// nthWeekday enumerates the dates of the month whose weekday matches and
// indexes into them: offset 1 is the first occurrence, -1 the last. The set
// is bounded (a month has at most 5 of any weekday), so behavior is exactly
// reproducible.
func (r Rule) nthWeekday(year int) (Date, bool, error) {
	var matches []Date
	last := DaysIn(year, r.Month)
	for day := 1; day <= last; day++ {
		d := Date{Year: year, Month: r.Month, Day: day}
		if d.Weekday() == r.Dow {
			matches = append(matches, d)
		}
	}

	idx := r.Offset - 1
	if r.Offset < 0 {
		idx = len(matches) + r.Offset
	}
	if idx < 0 || idx >= len(matches) {
		return Date{}, false, &OffsetRangeError{
			Year:   year,
			Month:  r.Month,
			Dow:    r.Dow,
			Offset: r.Offset,
			Count:  len(matches),
		}
	}
	return matches[idx], true, nil
}

// validate rejects rule shapes that can never materialize. Called at parse
// time so a bad rule fails the whole definition immediately.
func (r Rule) validate() error {
	switch r.Kind {
	case RuleDate:
		// ParseDate already guaranteed validity.
		return nil
	case RuleMonthDay:
		if r.Month < time.January || r.Month > time.December {
			return errInvalidMonth(int(r.Month))
		}
		// Use a leap year so Feb 29 passes; Feb 30 never exists.
		if r.Day < 1 || r.Day > DaysIn(2000, r.Month) {
			return errInvalidDay(r.Day, r.Month)
		}
		return nil
	case RuleMonthWeekday:
		if r.Month < time.January || r.Month > time.December {
			return errInvalidMonth(int(r.Month))
		}
		if r.Offset == 0 {
			return errZeroOffset
		}
		return nil
	default:
		return errUnknownRuleKind
	}
}
