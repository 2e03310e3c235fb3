package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

// 2024-03-04 is a Monday.
var monday = calendar.MustDate(2024, 3, 4)

func hm(h, m int) calendar.TimeOfDay { return calendar.MustTimeOfDay(h, m, 0) }

func iv(sh, sm, eh, em int) calendar.Interval {
	return calendar.Interval{Start: hm(sh, sm), End: hm(eh, em)}
}

type fixture struct {
	repo     *repository.MemoryRepository
	hours    *WorkingHoursCalendar
	ledger   *AppointmentLedger
	resolver *AvailabilityResolver
	sink     *memorySink
	audit    *audit.Dispatcher
	doctorID uint
}

type memorySink struct {
	mu      sync.Mutex
	actions []string
}

func (s *memorySink) Write(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, ev.Action)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewMemoryRepository()
	sink := &memorySink{}
	dispatcher := audit.NewDispatcher(sink, zap.NewNop(), nil, 64)
	m := metrics.NewCollector(prometheus.NewRegistry())

	doc, err := NewDoctors(repo).Create(context.Background(), "Dr. House")
	require.NoError(t, err)

	f := &fixture{
		repo:     repo,
		hours:    NewWorkingHoursCalendar(repo),
		ledger:   NewAppointmentLedger(repo),
		resolver: NewAvailabilityResolver(repo, dispatcher, m, zap.NewNop()),
		sink:     sink,
		audit:    dispatcher,
		doctorID: doc.ID,
	}

	_, err = f.hours.Upsert(context.Background(), doc.ID, calendar.Monday, iv(9, 0, 17, 0))
	require.NoError(t, err)
	return f
}

func (f *fixture) book(t *testing.T, in calendar.Interval) error {
	t.Helper()
	_, err := f.resolver.BookAppointment(context.Background(), BookAppointmentInput{
		DoctorID:    f.doctorID,
		PatientName: "Ada",
		Date:        monday,
		Interval:    in,
	})
	return err
}

// ======================================================
// WORKING HOURS
// ======================================================

func TestWorkingHoursCalendar_Upsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.hours.Get(ctx, f.doctorID, calendar.Monday)
	require.NoError(t, err)

	updated, err := f.hours.Upsert(ctx, f.doctorID, calendar.Monday, iv(8, 0, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, iv(8, 0, 12, 0), updated.Interval())

	all, err := f.hours.List(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := f.hours.Get(ctx, f.doctorID, calendar.Saturday)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestWorkingHoursCalendar_UpsertErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.hours.Upsert(ctx, 999, calendar.Monday, iv(9, 0, 10, 0))
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))

	_, err = f.hours.Upsert(ctx, f.doctorID, calendar.Monday, iv(10, 0, 10, 0))
	assert.True(t, errors.Is(err, domain.ErrInvalidInterval))

	// interval is checked before the doctor
	_, err = f.hours.Upsert(ctx, 999, calendar.Monday, iv(11, 0, 10, 0))
	assert.True(t, errors.Is(err, domain.ErrInvalidInterval))

	_, err = f.hours.Upsert(ctx, f.doctorID, calendar.Weekday("FUNDAY"), iv(9, 0, 10, 0))
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	_, err = f.hours.List(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))
}

// ======================================================
// LEDGER
// ======================================================

func TestAppointmentLedger_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// the ledger alone does not look at working hours
	_, err := f.ledger.Insert(ctx, f.doctorID, monday, iv(6, 0, 7, 0), "Early Bird")
	require.NoError(t, err)
	_, err = f.ledger.Insert(ctx, f.doctorID, monday, iv(9, 0, 10, 0), "Ada")
	require.NoError(t, err)

	_, err = f.ledger.Insert(ctx, f.doctorID, monday, iv(9, 30, 10, 30), "Grace")
	assert.True(t, errors.Is(err, domain.ErrOverlap))

	_, err = f.ledger.Insert(ctx, 999, monday, iv(11, 0, 12, 0), "Grace")
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))

	_, err = f.ledger.Insert(ctx, f.doctorID, monday, iv(11, 0, 12, 0), "   ")
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	dates := calendar.DateRange{From: monday, To: monday}
	apps, err := f.ledger.FindInRange(ctx, f.doctorID, dates, calendar.TimeRange{From: hm(8, 0), To: hm(12, 0)})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ada", apps[0].PatientName)

	empty, err := f.ledger.FindInRange(ctx, f.doctorID, calendar.DateRange{From: monday.AddDays(1), To: monday.AddDays(7)}, wholeDay)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.ledger.FindInRange(ctx, 999, dates, wholeDay)
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))

	_, err = f.ledger.FindOnOrAfter(ctx, 999, calendar.Instant{Date: monday})
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))
}

// ======================================================
// BOOKING
// ======================================================

func TestBookAppointment(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.book(t, iv(9, 0, 10, 0)))

	// same interval twice
	assert.True(t, errors.Is(f.book(t, iv(9, 0, 10, 0)), domain.ErrOverlap))

	// touching is fine
	require.NoError(t, f.book(t, iv(10, 0, 11, 0)))

	// exact fit of the working day boundaries
	require.NoError(t, f.book(t, iv(16, 0, 17, 0)))
}

func TestBookAppointment_OutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		date calendar.Date
		in   calendar.Interval
	}{
		{"starts before opening", monday, iv(8, 30, 9, 30)},
		{"ends after closing", monday, iv(16, 30, 17, 30)},
		{"no hours that day", monday.AddDays(1), iv(9, 0, 10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.BookAppointment(context.Background(), BookAppointmentInput{
				DoctorID:    f.doctorID,
				PatientName: "Ada",
				Date:        tt.date,
				Interval:    tt.in,
			})
			assert.True(t, errors.Is(err, domain.ErrOutsideWorkingHours))
		})
	}
}

func TestBookAppointment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.resolver.BookAppointment(ctx, BookAppointmentInput{
		DoctorID: 999, PatientName: "Ada", Date: monday, Interval: iv(9, 0, 10, 0),
	})
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))

	_, err = f.resolver.BookAppointment(ctx, BookAppointmentInput{
		DoctorID: f.doctorID, PatientName: "Ada", Date: monday, Interval: iv(10, 0, 9, 0),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInterval))
}

func TestBookAppointment_AuditsOutcome(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.book(t, iv(9, 0, 10, 0)))
	require.Error(t, f.book(t, iv(9, 30, 10, 30)))
	require.NoError(t, f.audit.Close(context.Background()))

	assert.Equal(t, []string{"appointment_created", "appointment_conflict"}, f.sink.actions)
}

func TestBookAppointment_ConcurrentOverlapsOnlyOneWins(t *testing.T) {
	f := newFixture(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		overlaps  int
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			// every interval overlaps 10:00-10:30
			in := iv(10, 0, 10, 30)
			if i%2 == 1 {
				in = iv(9, 45, 10, 15)
			}
			_, err := f.resolver.BookAppointment(context.Background(), BookAppointmentInput{
				DoctorID:    f.doctorID,
				PatientName: "Racer",
				Date:        monday,
				Interval:    in,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrOverlap):
				overlaps++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, overlaps)

	apps, err := f.ledger.FindInRange(context.Background(), f.doctorID, calendar.DateRange{From: monday, To: monday}, wholeDay)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

// ======================================================
// FIRST AVAILABLE / FREE WINDOWS
// ======================================================

func TestFirstAvailableSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	at := func(h, m int) calendar.Instant { return calendar.Instant{Date: monday, Time: hm(h, m)} }

	got, err := f.resolver.FirstAvailableSlot(ctx, f.doctorID, at(9, 30))
	require.NoError(t, err)
	assert.Equal(t, at(9, 30), got)

	require.NoError(t, f.book(t, iv(9, 0, 10, 0)))
	require.NoError(t, f.book(t, iv(10, 0, 11, 0)))

	got, err = f.resolver.FirstAvailableSlot(ctx, f.doctorID, at(9, 30))
	require.NoError(t, err)
	assert.Equal(t, at(11, 0), got)

	require.NoError(t, f.book(t, iv(12, 0, 13, 0)))
	got, err = f.resolver.FirstAvailableSlot(ctx, f.doctorID, at(10, 15))
	require.NoError(t, err)
	assert.Equal(t, at(11, 0), got)

	got, err = f.resolver.FirstAvailableSlot(ctx, f.doctorID, at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, at(11, 30), got)

	_, err = f.resolver.FirstAvailableSlot(ctx, 999, at(9, 0))
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))
}

func TestFreeWindows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.book(t, iv(9, 0, 10, 0)))
	require.NoError(t, f.book(t, iv(12, 0, 13, 0)))

	windows, err := f.resolver.FreeWindows(ctx, f.doctorID, monday)
	require.NoError(t, err)
	assert.Equal(t, []calendar.Interval{iv(10, 0, 12, 0), iv(13, 0, 17, 0)}, windows)

	closed, err := f.resolver.FreeWindows(ctx, f.doctorID, monday.AddDays(1))
	require.NoError(t, err)
	assert.Empty(t, closed)

	_, err = f.resolver.FreeWindows(ctx, 999, monday)
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))
}

func TestDoctors(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	doctors := NewDoctors(repo)

	doc, err := doctors.Create(ctx, "  Dr. Strange ")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Strange", doc.Name)

	got, err := doctors.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = doctors.Get(ctx, doc.ID+1)
	assert.True(t, errors.Is(err, domain.ErrDoctorNotFound))

	_, err = doctors.Create(ctx, "")
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))
}

// lockCountingRepo counts LockDoctor calls, including those made on the
// transaction handle.
type lockCountingRepo struct {
	domain.Repository
	locks *int
}

func (r *lockCountingRepo) LockDoctor(ctx context.Context, id uint) error {
	*r.locks++
	return r.Repository.LockDoctor(ctx, id)
}

func (r *lockCountingRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&lockCountingRepo{Repository: tx, locks: r.locks})
	})
}

func TestBookAppointment_LocksDoctorOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	locks := 0
	repo := &lockCountingRepo{Repository: f.repo, locks: &locks}

	_, err := NewAvailabilityResolver(repo, nil, nil, nil).BookAppointment(ctx, BookAppointmentInput{
		DoctorID:    f.doctorID,
		PatientName: "Ada",
		Date:        monday,
		Interval:    iv(9, 0, 10, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, locks)

	locks = 0
	_, err = NewAppointmentLedger(repo).Insert(ctx, f.doctorID, monday, iv(10, 0, 11, 0), "Grace")
	require.NoError(t, err)
	assert.Equal(t, 1, locks)
}
