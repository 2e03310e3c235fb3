package models

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
)

// WorkingHours is a doctor's availability for one day of the week.
// (doctor_id, day_of_week) is unique.
type WorkingHours struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID uint   `gorm:"not null;uniqueIndex:unique_doctor_day,priority:1" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DayOfWeek calendar.Weekday `gorm:"size:10;not null;uniqueIndex:unique_doctor_day,priority:2" json:"day_of_week"`

	StartTime calendar.TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   calendar.TimeOfDay `gorm:"type:time;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (wh *WorkingHours) Interval() calendar.Interval {
	return calendar.Interval{Start: wh.StartTime, End: wh.EndTime}
}
