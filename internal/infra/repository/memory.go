package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type workingHoursKey struct {
	doctorID uint
	day      calendar.Weekday
}

type memoryState struct {
	lastDoctorID       uint
	lastWorkingHoursID uint
	lastAppointmentID  uint

	doctors      map[uint]models.Doctor
	workingHours map[workingHoursKey]models.WorkingHours
	appointments []models.Appointment
}

func (s *memoryState) clone() *memoryState {
	c := *s
	c.doctors = make(map[uint]models.Doctor, len(s.doctors))
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	c.workingHours = make(map[workingHoursKey]models.WorkingHours, len(s.workingHours))
	for k, v := range s.workingHours {
		c.workingHours[k] = v
	}
	c.appointments = append([]models.Appointment(nil), s.appointments...)
	return &c
}

// MemoryRepository keeps the schedule in process memory. Transactions hold
// the write lock for their whole duration and roll back on error, which
// gives the same per-doctor serialisation as the postgres row lock.
type MemoryRepository struct {
	mu   *sync.RWMutex
	st   *memoryState
	inTx bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		mu: &sync.RWMutex{},
		st: &memoryState{
			doctors:      make(map[uint]models.Doctor),
			workingHours: make(map[workingHoursKey]models.WorkingHours),
		},
	}
}

func (r *MemoryRepository) read(fn func(st *memoryState)) {
	if !r.inTx {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	fn(r.st)
}

func (r *MemoryRepository) write(fn func(st *memoryState) error) error {
	if !r.inTx {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return fn(r.st)
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *MemoryRepository) CreateDoctor(_ context.Context, d *models.Doctor) error {
	return r.write(func(st *memoryState) error {
		st.lastDoctorID++
		now := time.Now().UTC()
		d.ID = st.lastDoctorID
		d.CreatedAt = now
		d.UpdatedAt = now
		st.doctors[d.ID] = *d
		return nil
	})
}

func (r *MemoryRepository) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	var (
		d  models.Doctor
		ok bool
	)
	r.read(func(st *memoryState) {
		d, ok = st.doctors[id]
	})
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) DoctorExists(_ context.Context, id uint) (bool, error) {
	var ok bool
	r.read(func(st *memoryState) {
		_, ok = st.doctors[id]
	})
	return ok, nil
}

func (r *MemoryRepository) LockDoctor(ctx context.Context, id uint) error {
	ok, err := r.DoctorExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrDoctorNotFound
	}
	return nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *MemoryRepository) UpsertWorkingHours(_ context.Context, wh *models.WorkingHours) error {
	return r.write(func(st *memoryState) error {
		if _, ok := st.doctors[wh.DoctorID]; !ok {
			return domain.ErrDoctorNotFound
		}

		key := workingHoursKey{doctorID: wh.DoctorID, day: wh.DayOfWeek}
		now := time.Now().UTC()

		stored, ok := st.workingHours[key]
		if !ok {
			st.lastWorkingHoursID++
			stored = models.WorkingHours{
				ID:        st.lastWorkingHoursID,
				DoctorID:  wh.DoctorID,
				DayOfWeek: wh.DayOfWeek,
				CreatedAt: now,
			}
		}
		stored.StartTime = wh.StartTime
		stored.EndTime = wh.EndTime
		stored.UpdatedAt = now

		st.workingHours[key] = stored
		*wh = stored
		return nil
	})
}

func (r *MemoryRepository) GetWorkingHours(
	_ context.Context,
	doctorID uint,
	day calendar.Weekday,
) (*models.WorkingHours, error) {

	var (
		wh models.WorkingHours
		ok bool
	)
	r.read(func(st *memoryState) {
		wh, ok = st.workingHours[workingHoursKey{doctorID: doctorID, day: day}]
	})
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *MemoryRepository) ListWorkingHours(_ context.Context, doctorID uint) ([]models.WorkingHours, error) {
	out := []models.WorkingHours{}
	r.read(func(st *memoryState) {
		for _, wh := range st.workingHours {
			if wh.DoctorID == doctorID {
				out = append(out, wh)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) FindOverlapping(
	_ context.Context,
	doctorID uint,
	date calendar.Date,
	in calendar.Interval,
) (*models.Appointment, error) {

	var found *models.Appointment
	r.read(func(st *memoryState) {
		found = overlapping(st, doctorID, date, in)
	})
	return found, nil
}

func overlapping(st *memoryState, doctorID uint, date calendar.Date, in calendar.Interval) *models.Appointment {
	var found *models.Appointment
	for i := range st.appointments {
		ap := st.appointments[i]
		if ap.DoctorID != doctorID || ap.AppointmentDate != date || !calendar.Overlaps(ap.Interval(), in) {
			continue
		}
		if found == nil || ap.StartTime < found.StartTime {
			found = &ap
		}
	}
	return found
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return r.write(func(st *memoryState) error {
		if _, ok := st.doctors[ap.DoctorID]; !ok {
			return domain.ErrDoctorNotFound
		}
		// same guarantee as the postgres exclusion constraint
		if overlapping(st, ap.DoctorID, ap.AppointmentDate, ap.Interval()) != nil {
			return domain.ErrOverlap
		}

		st.lastAppointmentID++
		ap.ID = st.lastAppointmentID
		ap.CreatedAt = time.Now().UTC()
		st.appointments = append(st.appointments, *ap)
		return nil
	})
}

func (r *MemoryRepository) ListAppointmentsInRange(
	_ context.Context,
	doctorID uint,
	dates calendar.DateRange,
	times calendar.TimeRange,
) ([]models.Appointment, error) {

	return r.filterAppointments(func(ap models.Appointment) bool {
		return ap.DoctorID == doctorID &&
			dates.Includes(ap.AppointmentDate) &&
			times.Holds(ap.Interval())
	}), nil
}

func (r *MemoryRepository) ListAppointmentsFrom(
	_ context.Context,
	doctorID uint,
	from calendar.Instant,
) ([]models.Appointment, error) {

	return r.filterAppointments(func(ap models.Appointment) bool {
		return ap.DoctorID == doctorID && ap.Ends().Compare(from) > 0
	}), nil
}

func (r *MemoryRepository) filterAppointments(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	r.read(func(st *memoryState) {
		for _, ap := range st.appointments {
			if keep(ap) {
				out = append(out, ap)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].AppointmentDate.Compare(out[j].AppointmentDate); c != 0 {
			return c < 0
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *MemoryRepository) Transaction(
	_ context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.st.clone()
	tx := &MemoryRepository{mu: r.mu, st: r.st, inTx: true}

	if err := fn(tx); err != nil {
		*r.st = *snapshot
		return err
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*MemoryRepository)(nil)
