package calendar

// DateRange is a half-open range of civil dates [Start, End).
type DateRange struct {
	Start Date
	End   Date
}

func (r DateRange) IsEmpty() bool { return r.Start.Compare(r.End) >= 0 }

func (r DateRange) Contains(d Date) bool {
	return r.Start.Compare(d) <= 0 && d.Before(r.End)
}

// Each calls fn for every date in the range in ascending order, stopping
// early when fn returns false.
func (r DateRange) Each(fn func(Date) bool) {
	for d := r.Start; d.Before(r.End); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}
