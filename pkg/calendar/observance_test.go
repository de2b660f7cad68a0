package calendar

import (
	"errors"
	"testing"
	"time"
)

var weekdaysMF = Weekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func TestAdjustNoAdjustment(t *testing.T) {
	t.Parallel()
	// Identity even when the date itself is a masked-out Saturday.
	raw := Date{Year: 2021, Month: time.May, Day: 1}
	got, err := Adjust(raw, NoAdjustment, weekdaysMF, nil)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != raw {
		t.Fatalf("got %v, want %v", got, raw)
	}
}

func TestAdjustNext(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  Date
		want Date
	}{
		// Saturday rolls to Monday.
		{"saturday", Date{2021, time.December, 25}, Date{2021, time.December, 27}},
		// A weekday that already qualifies still moves: the observed day is
		// always distinct from the nominal date.
		{"qualifying friday", Date{2021, time.January, 1}, Date{2021, time.January, 4}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Adjust(tt.raw, Next, weekdaysMF, nil)
			if err != nil {
				t.Fatalf("Adjust: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if !got.After(tt.raw) {
				t.Fatalf("Next must move forward: %v -> %v", tt.raw, got)
			}
		})
	}
}

func TestAdjustPrev(t *testing.T) {
	t.Parallel()
	// Sunday 2021-12-26 rolls back to Friday 2021-12-24.
	got, err := Adjust(Date{2021, time.December, 26}, Prev, weekdaysMF, nil)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != (Date{2021, time.December, 24}) {
		t.Fatalf("got %v", got)
	}
}

func TestAdjustClosest(t *testing.T) {
	t.Parallel()
	// Saturday: Friday is 1 back, Monday 2 forward.
	got, err := Adjust(Date{2021, time.December, 25}, Closest, weekdaysMF, nil)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != (Date{2021, time.December, 24}) {
		t.Fatalf("got %v, want Friday before", got)
	}

	// Equal distance both ways: forward wins. A Wednesday under an all-day
	// mask has qualifying neighbors at distance 1 in both directions.
	all := Weekdays(time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday)
	got, err = Adjust(Date{2021, time.June, 16}, Closest, all, nil)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != (Date{2021, time.June, 17}) {
		t.Fatalf("tie should resolve forward, got %v", got)
	}
}

func TestAdjustSkipsAlreadyObserved(t *testing.T) {
	t.Parallel()
	// Christmas 2021 (Saturday) observed Monday the 27th; Boxing Day (Sunday)
	// must then cascade past it to Tuesday the 28th.
	observed := map[Date]struct{}{}

	d1, err := Adjust(Date{2021, time.December, 25}, Next, weekdaysMF, observed)
	if err != nil {
		t.Fatalf("christmas: %v", err)
	}
	observed[d1] = struct{}{}

	d2, err := Adjust(Date{2021, time.December, 26}, Next, weekdaysMF, observed)
	if err != nil {
		t.Fatalf("boxing day: %v", err)
	}

	if d1 != (Date{2021, time.December, 27}) || d2 != (Date{2021, time.December, 28}) {
		t.Fatalf("got %v and %v, want Dec 27 and Dec 28", d1, d2)
	}
}

func TestAdjustExhaustsScan(t *testing.T) {
	t.Parallel()
	for _, policy := range []AdjustmentPolicy{Next, Prev, Closest} {
		_, err := Adjust(Date{2021, time.June, 1}, policy, 0, nil)
		var oe *ObservanceError
		if !errors.As(err, &oe) {
			t.Fatalf("policy %v: want *ObservanceError, got %v", policy, err)
		}
	}
}
