package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var (
	// ErrDoctorNotFound is returned for any operation naming an unknown doctor.
	ErrDoctorNotFound = httperr.ErrBusiness("doctor_not_found")

	// ErrOutsideWorkingHours is returned when a booking does not fit the day's hours.
	ErrOutsideWorkingHours = httperr.ErrBusiness("outside_working_hours")

	// ErrOverlap is returned when a booking intersects an existing appointment.
	ErrOverlap = httperr.ErrBusiness("time_conflict")

	ErrInvalidInterval = calendar.ErrInvalidInterval
	ErrMalformedInput  = calendar.ErrMalformedInput
)
