package calendar

import "fmt"

// Interval is the half-open time-of-day range [Start, End).
type Interval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func NewInterval(start, end TimeOfDay) (Interval, error) {
	in := Interval{Start: start, End: end}
	if err := in.Validate(); err != nil {
		return Interval{}, err
	}
	return in, nil
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

func (i Interval) Validate() error {
	if !i.Start.Valid() || !i.End.Valid() || i.Start >= i.End {
		return fmt.Errorf("%w: %s-%s", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// Includes reports whether t lies in [Start, End).
func (i Interval) Includes(t TimeOfDay) bool {
	return i.Start <= t && t < i.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Contains reports whether inner lies within outer. Shared boundaries count.
func Contains(outer, inner Interval) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

// Overlaps reports whether a and b share an instant. Touching intervals do not.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// TimeRange bounds appointment times in range queries; both ends inclusive.
type TimeRange struct {
	From TimeOfDay
	To   TimeOfDay
}

func NewTimeRange(from, to TimeOfDay) (TimeRange, error) {
	if from > to {
		return TimeRange{}, fmt.Errorf("%w: time range %s-%s", ErrInvalidInterval, from, to)
	}
	return TimeRange{From: from, To: to}, nil
}

// Holds reports whether in starts and ends inside r.
func (r TimeRange) Holds(in Interval) bool {
	return r.From <= in.Start && in.End <= r.To
}

// DateRange is an inclusive span of days.
type DateRange struct {
	From Date
	To   Date
}

func NewDateRange(from, to Date) (DateRange, error) {
	if from.After(to) {
		return DateRange{}, fmt.Errorf("%w: date range %s..%s", ErrInvalidInterval, from, to)
	}
	return DateRange{From: from, To: to}, nil
}

func (r DateRange) Includes(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}
