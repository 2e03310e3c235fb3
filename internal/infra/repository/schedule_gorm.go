package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// maxTxAttempts bounds retries of transactions aborted by serialization
// failures or deadlocks.
const maxTxAttempts = 3

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateDoctor(
	ctx context.Context,
	d *models.Doctor,
) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("creating doctor: %w", err)
	}
	return nil
}

func (r *ScheduleGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("getting doctor %d: %w", id, err)
	}
	return &d, nil
}

func (r *ScheduleGormRepository) DoctorExists(
	ctx context.Context,
	id uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking doctor %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *ScheduleGormRepository) LockDoctor(
	ctx context.Context,
	id uint,
) error {

	var d models.Doctor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrDoctorNotFound
	}
	if err != nil {
		return fmt.Errorf("locking doctor %d: %w", id, err)
	}
	return nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ScheduleGormRepository) UpsertWorkingHours(
	ctx context.Context,
	wh *models.WorkingHours,
) error {

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(wh).Error
	if IsForeignKeyViolation(err) {
		return domain.ErrDoctorNotFound
	}
	if err != nil {
		return fmt.Errorf("upserting working hours: %w", err)
	}

	stored, err := r.GetWorkingHours(ctx, wh.DoctorID, wh.DayOfWeek)
	if err != nil {
		return err
	}
	if stored != nil {
		*wh = *stored
	}
	return nil
}

func (r *ScheduleGormRepository) GetWorkingHours(
	ctx context.Context,
	doctorID uint,
	day calendar.Weekday,
) (*models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("getting working hours: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	doctorID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing working hours: %w", err)
	}
	return rows, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) FindOverlapping(
	ctx context.Context,
	doctorID uint,
	date calendar.Date,
	in calendar.Interval,
) (*models.Appointment, error) {

	var conflicts []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND appointment_date = ? AND start_time < ? AND end_time > ?",
			doctorID, date, in.End, in.Start,
		).
		Order("start_time ASC").
		Limit(1).
		Find(&conflicts).Error; err != nil {
		return nil, fmt.Errorf("checking overlap: %w", err)
	}

	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Create(ap).Error
	switch {
	case err == nil:
		return nil
	case IsExclusionConflict(err):
		return domain.ErrOverlap
	case IsForeignKeyViolation(err):
		return domain.ErrDoctorNotFound
	default:
		return fmt.Errorf("creating appointment: %w", err)
	}
}

func (r *ScheduleGormRepository) ListAppointmentsInRange(
	ctx context.Context,
	doctorID uint,
	dates calendar.DateRange,
	times calendar.TimeRange,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND appointment_date >= ? AND appointment_date <= ? AND start_time >= ? AND end_time <= ?",
			doctorID, dates.From, dates.To, times.From, times.To,
		).
		Order("appointment_date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return apps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsFrom(
	ctx context.Context,
	doctorID uint,
	from calendar.Instant,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND (appointment_date > ? OR (appointment_date = ? AND end_time > ?))",
			doctorID, from.Date, from.Date, from.Time,
		).
		Order("appointment_date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("listing appointments from %s: %w", from, err)
	}
	return apps, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ScheduleGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&ScheduleGormRepository{db: tx})
		})
		if !IsRetryable(err) {
			return err
		}
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
