package calendar

// maxObservanceScan bounds every observance scan. A qualifying day normally
// turns up within a week; the bound defends against pathological masks such
// as an empty dow_list.
const maxObservanceScan = 14

// Adjust shifts a holiday's nominal date to its observed day.
//
// A day qualifies when its weekday is in mask and it is not already in
// excluded. NoAdjustment returns raw unchanged regardless of either
// condition. The directional policies always move off the nominal date, even
// when it qualifies itself: the nominal date stays the semantic holiday, the
// observed day is a distinct day removed from validity.
func Adjust(raw Date, policy AdjustmentPolicy, mask DowMask, excluded map[Date]struct{}) (Date, error) {
	qualifies := func(d Date) bool {
		if !mask.Has(d.Weekday()) {
			return false
		}
		_, hit := excluded[d]
		return !hit
	}

	switch policy {
	case NoAdjustment:
		return raw, nil

	case Next:
		for i := 1; i <= maxObservanceScan; i++ {
			if d := raw.AddDays(i); qualifies(d) {
				return d, nil
			}
		}

	case Prev:
		for i := 1; i <= maxObservanceScan; i++ {
			if d := raw.AddDays(-i); qualifies(d) {
				return d, nil
			}
		}

	case Closest:
		// Outward scan by increasing distance; forward wins exact ties.
		for i := 1; i <= maxObservanceScan; i++ {
			if d := raw.AddDays(i); qualifies(d) {
				return d, nil
			}
			if d := raw.AddDays(-i); qualifies(d) {
				return d, nil
			}
		}
	}

	return Date{}, &ObservanceError{Date: raw, Policy: policy}
}
