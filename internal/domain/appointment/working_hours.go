package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// FitsWorkingHours reports whether in may be booked against wh.
// A nil wh means the doctor does not work that day.
func FitsWorkingHours(wh *models.WorkingHours, in calendar.Interval) bool {
	if wh == nil {
		return false
	}
	return calendar.Contains(wh.Interval(), in)
}
