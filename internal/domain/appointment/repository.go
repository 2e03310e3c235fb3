package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Repository is the storage contract of the scheduling core.
type Repository interface {
	// -------- Doctor --------
	CreateDoctor(
		ctx context.Context,
		d *models.Doctor,
	) error

	// GetDoctor returns ErrDoctorNotFound when id is unknown.
	GetDoctor(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	DoctorExists(
		ctx context.Context,
		id uint,
	) (bool, error)

	// LockDoctor serialises bookings for a doctor until the surrounding
	// transaction ends. Returns ErrDoctorNotFound when id is unknown.
	LockDoctor(
		ctx context.Context,
		id uint,
	) error

	// -------- Working hours --------

	// UpsertWorkingHours inserts wh or replaces the interval of the existing
	// record for (DoctorID, DayOfWeek). wh is refreshed with the stored row.
	UpsertWorkingHours(
		ctx context.Context,
		wh *models.WorkingHours,
	) error

	// GetWorkingHours returns nil, nil when the doctor has no hours that day.
	GetWorkingHours(
		ctx context.Context,
		doctorID uint,
		day calendar.Weekday,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		doctorID uint,
	) ([]models.WorkingHours, error)

	// -------- Appointment --------

	// FindOverlapping returns the first appointment on (doctorID, date)
	// overlapping in, or nil.
	FindOverlapping(
		ctx context.Context,
		doctorID uint,
		date calendar.Date,
		in calendar.Interval,
	) (*models.Appointment, error)

	// CreateAppointment fails with ErrOverlap when the storage-level
	// exclusion rule rejects the row.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListAppointmentsInRange is ordered by (date, start).
	ListAppointmentsInRange(
		ctx context.Context,
		doctorID uint,
		dates calendar.DateRange,
		times calendar.TimeRange,
	) ([]models.Appointment, error)

	// ListAppointmentsFrom returns appointments not finished at `from`,
	// ordered by (date, start).
	ListAppointmentsFrom(
		ctx context.Context,
		doctorID uint,
		from calendar.Instant,
	) ([]models.Appointment, error)

	// -------- Transaction --------

	// Transaction runs fn atomically; fn must use the Repository it receives.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
