package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// FirstAvailable returns the earliest instant at or after from at which a new
// appointment could begin, given the bookings still running at from in
// (date, start) order.
//
// from is free unless it falls inside the first booking. Otherwise the answer
// is the end of the first booking not followed back-to-back by the next one,
// or the end of the last booking when the chain has no gap.
func FirstAvailable(bookings []models.Appointment, from calendar.Instant) calendar.Instant {
	if len(bookings) == 0 {
		return from
	}

	first := bookings[0]
	if first.AppointmentDate != from.Date || !first.Interval().Includes(from.Time) {
		return from
	}

	for i := 0; i < len(bookings)-1; i++ {
		cur, next := bookings[i], bookings[i+1]
		if cur.AppointmentDate != next.AppointmentDate || cur.EndTime != next.StartTime {
			return cur.Ends()
		}
	}

	return bookings[len(bookings)-1].Ends()
}

// FreeWindows returns the parts of hours not covered by bookings, which must
// all fall on the same day and be ordered by start.
func FreeWindows(hours calendar.Interval, bookings []models.Appointment) []calendar.Interval {
	windows := []calendar.Interval{}
	cur := hours.Start

	for _, ap := range bookings {
		if ap.EndTime <= cur {
			continue
		}
		if ap.StartTime >= hours.End {
			break
		}
		if ap.StartTime > cur {
			windows = append(windows, calendar.Interval{Start: cur, End: ap.StartTime})
		}
		cur = ap.EndTime
	}

	if cur < hours.End {
		windows = append(windows, calendar.Interval{Start: cur, End: hours.End})
	}

	return windows
}
