package contracts

import (
	"errors"
	"time"
)

// ErrNoEvent is returned by EventSource.Next when nothing is buffered or readable.
var ErrNoEvent = errors.New("no event available")

// EventKind classifies what a sequencer event means to the bridge.
type EventKind int

const (
	// EventOther covers every event kind the bridge does not act on (controllers, clock, sysex...).
	EventOther EventKind = iota
	// EventNoteOn starts a note.
	EventNoteOn
	// EventNoteOff ends a note. Note-on with velocity 0 is also reported as
	// EventNoteOff, so keyboards that release keys that way silence the tone
	// instead of sounding it.
	EventNoteOff
	// EventSubscribed reports that a controller connected to the bridge port.
	EventSubscribed
	// EventUnsubscribed reports that a controller disconnected from the bridge port.
	EventUnsubscribed
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	case EventSubscribed:
		return "subscribed"
	case EventUnsubscribed:
		return "unsubscribed"
	default:
		return "other"
	}
}

// Event is a single classified event read from an EventSource.
type Event struct {
	Kind     EventKind
	Channel  uint8   // MIDI channel, note events only.
	Note     uint8   // Note number 0-127, note events only.
	Velocity uint8   // Note velocity, note events only.
	Peer     Address // Connecting port, subscription events only.
	Detail   string  // Human-readable description of ignored events.
}

// Readiness is the outcome of a bounded wait on an EventSource.
type Readiness int

const (
	// Timeout means the wait elapsed with nothing to report.
	Timeout Readiness = iota
	// Readable means Next will return an event without blocking.
	Readable
	// NotReadable means the source woke up without the read-ready condition.
	NotReadable
	// Hangup means the source reported an error-class condition (hangup, invalid handle).
	Hangup
)

func (r Readiness) String() string {
	switch r {
	case Readable:
		return "readable"
	case NotReadable:
		return "not-readable"
	case Hangup:
		return "hangup"
	default:
		return "timeout"
	}
}

// PortCaps lists the capabilities requested for the application port.
type PortCaps struct {
	Write     bool // Other clients may write events to the port.
	SubsWrite bool // Other clients may subscribe to write to the port.
	SyncWrite bool // Writes may be synchronized to a queue.
}

// DefaultPortCaps is a writable, write-subscribable, sync-writable port.
var DefaultPortCaps = PortCaps{Write: true, SubsWrite: true, SyncWrite: true}

// EventSource is an addressable application port that external controllers
// subscribe to. Wait is the only call allowed to block, and only up to timeout.
type EventSource interface {
	// Address returns where controllers connect to.
	Address() Address
	// Wait blocks until the source is ready or the timeout elapses.
	Wait(timeout time.Duration) (Readiness, error)
	// Next consumes one event. It returns ErrNoEvent instead of blocking.
	Next() (Event, error)
	// Close releases the underlying transport.
	Close() error
}
