package scheduling

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const tracerName = "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/scheduling"

// wholeDay covers every interval that can be booked on a date.
var wholeDay = calendar.TimeRange{From: 0, To: calendar.MustTimeOfDay(23, 59, 59)}

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	DoctorID    uint
	PatientName string
	Date        calendar.Date
	Interval    calendar.Interval
}

// ======================================================
// USE CASE
// ======================================================

// AvailabilityResolver books appointments against working hours and existing
// bookings, and answers availability questions. It keeps no state of its own.
type AvailabilityResolver struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Collector
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewAvailabilityResolver(
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	m *metrics.Collector,
	log *zap.Logger,
) *AvailabilityResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &AvailabilityResolver{
		repo:    repo,
		audit:   dispatcher,
		metrics: m,
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// ======================================================
// BOOK
// ======================================================

// BookAppointment checks working hours and overlaps and inserts the
// appointment in one transaction.
func (r *AvailabilityResolver) BookAppointment(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	defer r.metrics.ObserveOperation("book_appointment", time.Now())

	ctx, span := r.tracer.Start(ctx, "scheduling.BookAppointment", trace.WithAttributes(
		attribute.Int64("doctor_id", int64(in.DoctorID)),
		attribute.String("date", in.Date.String()),
		attribute.String("interval", in.Interval.String()),
	))
	defer span.End()

	// --------------------------------------------------
	// 1. Input shape, before touching storage
	// --------------------------------------------------
	if err := validateInsert(in.Date, in.Interval, in.PatientName); err != nil {
		return nil, r.bookingFailed(ctx, span, in, err)
	}

	// --------------------------------------------------
	// 2. Working hours + overlap + insert, atomically
	// --------------------------------------------------
	var booked *models.Appointment
	err := r.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockDoctor(ctx, in.DoctorID); err != nil {
			return err
		}

		wh, err := NewWorkingHoursCalendar(tx).Get(ctx, in.DoctorID, calendar.WeekdayOf(in.Date))
		if err != nil {
			return err
		}
		if !domain.FitsWorkingHours(wh, in.Interval) {
			return domain.ErrOutsideWorkingHours
		}

		booked, err = insertLocked(ctx, tx, in.DoctorID, in.Date, in.Interval, in.PatientName)
		return err
	})
	if err != nil {
		return nil, r.bookingFailed(ctx, span, in, err)
	}

	// --------------------------------------------------
	// 3. Metrics + audit
	// --------------------------------------------------
	r.metrics.ObserveBooking(metrics.OutcomeBooked)
	r.audit.Dispatch(audit.Event{
		DoctorID:  &booked.DoctorID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &booked.ID,
		RequestID: audit.RequestIDFrom(ctx),
		Metadata: map[string]string{
			"date":     booked.AppointmentDate.String(),
			"interval": booked.Interval().String(),
		},
	})

	r.log.Info("appointment booked",
		zap.Uint("doctor_id", booked.DoctorID),
		zap.Uint("appointment_id", booked.ID),
		zap.Stringer("date", booked.AppointmentDate),
		zap.Stringer("interval", booked.Interval()),
	)

	return booked, nil
}

func (r *AvailabilityResolver) bookingFailed(
	ctx context.Context,
	span trace.Span,
	in BookAppointmentInput,
	err error,
) error {

	outcome := bookingOutcome(err)
	r.metrics.ObserveBooking(outcome)

	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)

	if errors.Is(err, domain.ErrOverlap) {
		doctorID := in.DoctorID
		r.audit.Dispatch(audit.Event{
			DoctorID:  &doctorID,
			Action:    "appointment_conflict",
			Entity:    "appointment",
			RequestID: audit.RequestIDFrom(ctx),
			Metadata: map[string]string{
				"date":     in.Date.String(),
				"interval": in.Interval.String(),
			},
		})
	}

	if outcome == metrics.OutcomeError {
		r.log.Error("booking failed",
			zap.Uint("doctor_id", in.DoctorID),
			zap.Error(err),
		)
	}
	return err
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrOverlap):
		return metrics.OutcomeOverlap
	case errors.Is(err, domain.ErrOutsideWorkingHours):
		return metrics.OutcomeOutsideHours
	case errors.Is(err, domain.ErrDoctorNotFound),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrMalformedInput):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// ======================================================
// FIRST AVAILABLE SLOT
// ======================================================

// FirstAvailableSlot returns the earliest instant at or after from that no
// booking occupies. Working hours are not considered.
func (r *AvailabilityResolver) FirstAvailableSlot(
	ctx context.Context,
	doctorID uint,
	from calendar.Instant,
) (calendar.Instant, error) {

	defer r.metrics.ObserveOperation("first_available_slot", time.Now())

	ctx, span := r.tracer.Start(ctx, "scheduling.FirstAvailableSlot", trace.WithAttributes(
		attribute.Int64("doctor_id", int64(doctorID)),
		attribute.String("from", from.String()),
	))
	defer span.End()

	bookings, err := NewAppointmentLedger(r.repo).FindOnOrAfter(ctx, doctorID, from)
	if err != nil {
		span.RecordError(err)
		return calendar.Instant{}, err
	}

	slot := domain.FirstAvailable(bookings, from)

	result := "deferred"
	if slot == from {
		result = "immediate"
	}
	r.metrics.ObserveSlotLookup("first_available", result)
	span.SetAttributes(attribute.String("slot", slot.String()))

	return slot, nil
}

// ======================================================
// FREE WINDOWS
// ======================================================

// FreeWindows returns the parts of the doctor's working hours on date that
// no appointment occupies. A day without working hours has no windows.
func (r *AvailabilityResolver) FreeWindows(
	ctx context.Context,
	doctorID uint,
	date calendar.Date,
) ([]calendar.Interval, error) {

	defer r.metrics.ObserveOperation("free_windows", time.Now())

	ctx, span := r.tracer.Start(ctx, "scheduling.FreeWindows", trace.WithAttributes(
		attribute.Int64("doctor_id", int64(doctorID)),
		attribute.String("date", date.String()),
	))
	defer span.End()

	day := calendar.DateRange{From: date, To: date}
	bookings, err := NewAppointmentLedger(r.repo).FindInRange(ctx, doctorID, day, wholeDay)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	wh, err := NewWorkingHoursCalendar(r.repo).Get(ctx, doctorID, calendar.WeekdayOf(date))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if wh == nil {
		r.metrics.ObserveSlotLookup("free_windows", "closed")
		return []calendar.Interval{}, nil
	}

	windows := domain.FreeWindows(wh.Interval(), bookings)

	result := "found"
	if len(windows) == 0 {
		result = "full"
	}
	r.metrics.ObserveSlotLookup("free_windows", result)

	return windows, nil
}
