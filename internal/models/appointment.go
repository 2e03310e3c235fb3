package models

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"not null;index:idx_appointments_doctor_date,priority:1" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	PatientName string `gorm:"size:100;not null" json:"patient_name"`

	AppointmentDate calendar.Date      `gorm:"type:date;not null;index:idx_appointments_doctor_date,priority:2" json:"appointment_date"`
	StartTime       calendar.TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime         calendar.TimeOfDay `gorm:"type:time;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}

func (ap *Appointment) Interval() calendar.Interval {
	return calendar.Interval{Start: ap.StartTime, End: ap.EndTime}
}

// Ends returns the instant the appointment finishes.
func (ap *Appointment) Ends() calendar.Instant {
	return calendar.Instant{Date: ap.AppointmentDate, Time: ap.EndTime}
}
