package scheduling

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// WorkingHoursCalendar maps each (doctor, day of week) to at most one
// working interval.
type WorkingHoursCalendar struct {
	repo domain.Repository
}

func NewWorkingHoursCalendar(repo domain.Repository) *WorkingHoursCalendar {
	return &WorkingHoursCalendar{repo: repo}
}

// Upsert creates the doctor's hours for day, or replaces the interval of the
// existing record.
func (c *WorkingHoursCalendar) Upsert(
	ctx context.Context,
	doctorID uint,
	day calendar.Weekday,
	interval calendar.Interval,
) (*models.WorkingHours, error) {

	if !day.Valid() {
		return nil, domain.ErrMalformedInput
	}
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	ok, err := c.repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}

	wh := &models.WorkingHours{
		DoctorID:  doctorID,
		DayOfWeek: day,
		StartTime: interval.Start,
		EndTime:   interval.End,
	}
	if err := c.repo.UpsertWorkingHours(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// Get returns nil when the doctor does not work on day.
func (c *WorkingHoursCalendar) Get(
	ctx context.Context,
	doctorID uint,
	day calendar.Weekday,
) (*models.WorkingHours, error) {
	return c.repo.GetWorkingHours(ctx, doctorID, day)
}

// List returns the doctor's whole week. Unknown doctors are ErrDoctorNotFound.
func (c *WorkingHoursCalendar) List(ctx context.Context, doctorID uint) ([]models.WorkingHours, error) {
	ok, err := c.repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return c.repo.ListWorkingHours(ctx, doctorID)
}
