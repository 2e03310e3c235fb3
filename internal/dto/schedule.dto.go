package dto

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type DoctorDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type WorkingHoursDTO struct {
	ID        uint               `json:"id"`
	DoctorID  uint               `json:"doctor_id"`
	DayOfWeek calendar.Weekday   `json:"day_of_week"`
	StartTime calendar.TimeOfDay `json:"start_time"`
	EndTime   calendar.TimeOfDay `json:"end_time"`
}

type AppointmentDTO struct {
	ID              uint               `json:"id"`
	DoctorID        uint               `json:"doctor_id"`
	PatientName     string             `json:"patient_name"`
	AppointmentDate calendar.Date      `json:"appointment_date"`
	StartTime       calendar.TimeOfDay `json:"start_time"`
	EndTime         calendar.TimeOfDay `json:"end_time"`
}

type FirstAvailableDTO struct {
	FirstAvailable calendar.Instant `json:"first_available"`
}

type AvailabilityDTO struct {
	DoctorID uint                `json:"doctor_id"`
	Date     calendar.Date       `json:"date"`
	Windows  []calendar.Interval `json:"windows"`
}

func FromDoctor(d *models.Doctor) DoctorDTO {
	return DoctorDTO{ID: d.ID, Name: d.Name}
}

func FromWorkingHours(wh *models.WorkingHours) WorkingHoursDTO {
	return WorkingHoursDTO{
		ID:        wh.ID,
		DoctorID:  wh.DoctorID,
		DayOfWeek: wh.DayOfWeek,
		StartTime: wh.StartTime,
		EndTime:   wh.EndTime,
	}
}

func FromAppointment(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID,
		DoctorID:        ap.DoctorID,
		PatientName:     ap.PatientName,
		AppointmentDate: ap.AppointmentDate,
		StartTime:       ap.StartTime,
		EndTime:         ap.EndTime,
	}
}

func FromAppointments(apps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(apps))
	for i := range apps {
		out = append(out, FromAppointment(&apps[i]))
	}
	return out
}

func FromWorkingWeek(hours []models.WorkingHours) []WorkingHoursDTO {
	out := make([]WorkingHoursDTO, 0, len(hours))
	for i := range hours {
		out = append(out, FromWorkingHours(&hours[i]))
	}
	return out
}
