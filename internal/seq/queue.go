package seq

import (
	"errors"
	"sync"
	"time"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// DefaultQueueSize is the event buffer used when none is configured.
const DefaultQueueSize = 100

// ErrQueueClosed is returned by Next once the queue is shut down and drained.
var ErrQueueClosed = errors.New("event queue closed")

// Queue adapts callback-driven MIDI ports to the contracts.EventSource wait
// and read contract. Producers call Push from any goroutine; a single consumer
// calls Wait and Next.
type Queue struct {
	logger   contracts.Logger
	events   chan contracts.Event
	done     chan struct{}
	stopOnce sync.Once

	pending    contracts.Event
	hasPending bool
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int, logger contracts.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		logger: logger,
		events: make(chan contracts.Event, size),
		done:   make(chan struct{}),
	}
}

// Push enqueues ev without blocking. It reports false when the event was
// dropped because the buffer is full or the queue is shut down.
func (q *Queue) Push(ev contracts.Event) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.events <- ev:
		return true
	default:
		q.logger.Warn("Event buffer full; dropping MIDI event",
			q.logger.Field().String("kind", ev.Kind.String()))
		return false
	}
}

// Wait blocks until an event is available, the queue is shut down, or the
// timeout elapses.
func (q *Queue) Wait(timeout time.Duration) (contracts.Readiness, error) {
	if q.hasPending {
		return contracts.Readable, nil
	}

	select {
	case ev := <-q.events:
		q.stash(ev)
		return contracts.Readable, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-q.events:
		q.stash(ev)
		return contracts.Readable, nil
	case <-q.done:
		return contracts.Hangup, nil
	case <-timer.C:
		return contracts.Timeout, nil
	}
}

// Next returns the event Wait found, or any buffered event.
func (q *Queue) Next() (contracts.Event, error) {
	if q.hasPending {
		q.hasPending = false
		return q.pending, nil
	}
	select {
	case ev := <-q.events:
		return ev, nil
	default:
	}
	select {
	case <-q.done:
		return contracts.Event{}, ErrQueueClosed
	default:
		return contracts.Event{}, contracts.ErrNoEvent
	}
}

// Shutdown stops accepting events. Waiters see Hangup once the buffer is empty.
func (q *Queue) Shutdown() {
	q.stopOnce.Do(func() {
		close(q.done)
	})
}

func (q *Queue) stash(ev contracts.Event) {
	q.pending = ev
	q.hasPending = true
}
