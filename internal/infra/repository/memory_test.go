package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func seedDoctor(t *testing.T, r *MemoryRepository) uint {
	t.Helper()
	d := &models.Doctor{Name: "Dr. Who"}
	require.NoError(t, r.CreateDoctor(context.Background(), d))
	return d.ID
}

func appointmentAt(doctorID uint, d calendar.Date, sh, eh int) *models.Appointment {
	return &models.Appointment{
		DoctorID:        doctorID,
		PatientName:     "Ada",
		AppointmentDate: d,
		StartTime:       calendar.MustTimeOfDay(sh, 0, 0),
		EndTime:         calendar.MustTimeOfDay(eh, 0, 0),
	}
}

func TestMemory_UpsertWorkingHoursReplacesSameDay(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	doc := seedDoctor(t, r)

	first := &models.WorkingHours{
		DoctorID:  doc,
		DayOfWeek: calendar.Monday,
		StartTime: calendar.MustTimeOfDay(8, 0, 0),
		EndTime:   calendar.MustTimeOfDay(12, 0, 0),
	}
	require.NoError(t, r.UpsertWorkingHours(ctx, first))

	second := &models.WorkingHours{
		DoctorID:  doc,
		DayOfWeek: calendar.Monday,
		StartTime: calendar.MustTimeOfDay(13, 0, 0),
		EndTime:   calendar.MustTimeOfDay(18, 0, 0),
	}
	require.NoError(t, r.UpsertWorkingHours(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := r.GetWorkingHours(ctx, doc, calendar.Monday)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "13:00:00-18:00:00", got.Interval().String())

	all, err := r.ListWorkingHours(ctx, doc)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := r.GetWorkingHours(ctx, doc, calendar.Tuesday)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemory_UpsertWorkingHoursUnknownDoctor(t *testing.T) {
	r := NewMemoryRepository()
	err := r.UpsertWorkingHours(context.Background(), &models.WorkingHours{DoctorID: 99, DayOfWeek: calendar.Monday})
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))
}

func TestMemory_CreateAppointmentRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	doc := seedDoctor(t, r)
	d := calendar.MustDate(2024, 3, 4)

	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d, 9, 10)))
	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d, 10, 11)))

	err := r.CreateAppointment(ctx, appointmentAt(doc, d, 9, 11))
	assert.True(t, errors.Is(err, domain.ErrOverlap))

	// another day is independent
	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d.AddDays(1), 9, 10)))
}

func TestMemory_ListsAreOrdered(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	doc := seedDoctor(t, r)
	d := calendar.MustDate(2024, 3, 4)

	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d.AddDays(1), 8, 9)))
	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d, 14, 15)))
	require.NoError(t, r.CreateAppointment(ctx, appointmentAt(doc, d, 9, 10)))

	from := calendar.Instant{Date: d, Time: calendar.MustTimeOfDay(9, 30, 0)}
	apps, err := r.ListAppointmentsFrom(ctx, doc, from)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, calendar.MustTimeOfDay(9, 0, 0), apps[0].StartTime)
	assert.Equal(t, calendar.MustTimeOfDay(14, 0, 0), apps[1].StartTime)
	assert.Equal(t, d.AddDays(1), apps[2].AppointmentDate)

	late := calendar.Instant{Date: d, Time: calendar.MustTimeOfDay(10, 0, 0)}
	apps, err = r.ListAppointmentsFrom(ctx, doc, late)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	dates, _ := calendar.NewDateRange(d, d)
	times, _ := calendar.NewTimeRange(calendar.MustTimeOfDay(8, 0, 0), calendar.MustTimeOfDay(12, 0, 0))
	apps, err = r.ListAppointmentsInRange(ctx, doc, dates, times)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, calendar.MustTimeOfDay(9, 0, 0), apps[0].StartTime)
}

func TestMemory_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	doc := seedDoctor(t, r)
	d := calendar.MustDate(2024, 3, 4)

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.CreateAppointment(ctx, appointmentAt(doc, d, 9, 10)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := r.FindOverlapping(ctx, doc, d, calendar.Interval{
		Start: calendar.MustTimeOfDay(9, 0, 0),
		End:   calendar.MustTimeOfDay(10, 0, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, found)

	err = r.Transaction(ctx, func(tx domain.Repository) error {
		return tx.CreateAppointment(ctx, appointmentAt(doc, d, 9, 10))
	})
	require.NoError(t, err)

	found, err = r.FindOverlapping(ctx, doc, d, calendar.Interval{
		Start: calendar.MustTimeOfDay(9, 30, 0),
		End:   calendar.MustTimeOfDay(9, 45, 0),
	})
	require.NoError(t, err)
	assert.NotNil(t, found)
}
