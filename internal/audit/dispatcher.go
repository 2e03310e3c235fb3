package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

const (
	DefaultQueueSize = 100
	writeTimeout     = 5 * time.Second
)

type Event struct {
	DoctorID  *uint
	Action    string
	Entity    string
	EntityID  *uint
	RequestID string
	Metadata  any
}

// Dispatcher hands events to a Sink from a single background worker so that
// auditing never blocks or fails a request.
type Dispatcher struct {
	sink    Sink
	log     *zap.Logger
	metrics *metrics.Collector

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(sink Sink, log *zap.Logger, m *metrics.Collector, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		sink:    sink,
		log:     log,
		metrics: m,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Dispatch queues ev. A full queue or a closed dispatcher drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.metrics.AuditDropped()
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
