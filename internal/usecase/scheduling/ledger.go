package scheduling

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AppointmentLedger stores appointments and guarantees that no two
// appointments of a doctor overlap on the same date.
type AppointmentLedger struct {
	repo domain.Repository
}

func NewAppointmentLedger(repo domain.Repository) *AppointmentLedger {
	return &AppointmentLedger{repo: repo}
}

// Insert books interval on date for the patient. Working hours are not
// checked here. The doctor lock, the overlap check and the insert share one
// transaction.
func (l *AppointmentLedger) Insert(
	ctx context.Context,
	doctorID uint,
	date calendar.Date,
	interval calendar.Interval,
	patientName string,
) (*models.Appointment, error) {

	if err := validateInsert(date, interval, patientName); err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err := l.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockDoctor(ctx, doctorID); err != nil {
			return err
		}

		var err error
		ap, err = insertLocked(ctx, tx, doctorID, date, interval, patientName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ap, nil
}

func validateInsert(date calendar.Date, interval calendar.Interval, patientName string) error {
	if err := interval.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(patientName) == "" || date.IsZero() {
		return domain.ErrMalformedInput
	}
	return nil
}

// insertLocked expects tx to already hold the doctor's lock.
func insertLocked(
	ctx context.Context,
	tx domain.Repository,
	doctorID uint,
	date calendar.Date,
	interval calendar.Interval,
	patientName string,
) (*models.Appointment, error) {

	conflict, err := tx.FindOverlapping(ctx, doctorID, date, interval)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, domain.ErrOverlap
	}

	ap := &models.Appointment{
		DoctorID:        doctorID,
		PatientName:     strings.TrimSpace(patientName),
		AppointmentDate: date,
		StartTime:       interval.Start,
		EndTime:         interval.End,
	}
	if err := tx.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	return ap, nil
}

// FindInRange returns the doctor's appointments dated within dates whose
// interval lies within times, ordered by (date, start).
func (l *AppointmentLedger) FindInRange(
	ctx context.Context,
	doctorID uint,
	dates calendar.DateRange,
	times calendar.TimeRange,
) ([]models.Appointment, error) {

	if err := l.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return l.repo.ListAppointmentsInRange(ctx, doctorID, dates, times)
}

// FindOnOrAfter returns the doctor's appointments still running at or
// starting after from, ordered by (date, start).
func (l *AppointmentLedger) FindOnOrAfter(
	ctx context.Context,
	doctorID uint,
	from calendar.Instant,
) ([]models.Appointment, error) {

	if err := l.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return l.repo.ListAppointmentsFrom(ctx, doctorID, from)
}

func (l *AppointmentLedger) requireDoctor(ctx context.Context, doctorID uint) error {
	ok, err := l.repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrDoctorNotFound
	}
	return nil
}
