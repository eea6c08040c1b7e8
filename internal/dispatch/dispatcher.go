// Package dispatch is the event loop bridging a MIDI event source to a
// single-voice tone sink.
//
// Only one tone sounds at a time and the loop tracks no set of sounding notes:
// any note-off silences the sink, whatever note it names. With overlapping
// notes the first note's release cuts the second one short.
package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/pcspkr-midi/internal/notes"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"go.uber.org/multierr"
)

// ErrTerminated is returned when Run is called on a finished dispatcher.
var ErrTerminated = errors.New("dispatcher already terminated")

// Dispatcher owns the event source and the tone sink for the lifetime of the
// loop and releases both when Run returns. It is not safe for concurrent use;
// only the CancellationSource may be touched from other goroutines.
type Dispatcher struct {
	source  contracts.EventSource
	sink    contracts.ToneSink
	cancel  contracts.CancellationSource
	logger  contracts.Logger
	timeout time.Duration

	phase    Phase
	running  bool
	lastFreq float64
	err      error
	closeErr error
}

// New creates a dispatcher. A non-positive timeout selects
// contracts.DefaultPollTimeout.
func New(source contracts.EventSource, sink contracts.ToneSink, cancel contracts.CancellationSource,
	logger contracts.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = contracts.DefaultPollTimeout
	}
	return &Dispatcher{
		source:  source,
		sink:    sink,
		cancel:  cancel,
		logger:  logger,
		timeout: timeout,
		phase:   Waiting,
	}
}

// Run loops until shutdown is requested, the source hangs up, or the wait
// fails. On every exit path it silences the sink, then closes the sink and the
// source. It returns the wait failure, if any. Close errors are logged and
// kept in the loop state; they do not turn a requested shutdown into a failure.
func (d *Dispatcher) Run() error {
	if d.phase == Terminated {
		return ErrTerminated
	}
	d.running = true
	d.logger.Debug("Event loop started", d.logger.Field().Duration("timeout", d.timeout))

	for d.phase == Waiting {
		d.step()
	}
	return d.terminate()
}

// State returns a snapshot of the loop.
func (d *Dispatcher) State() LoopState {
	return LoopState{Phase: d.phase, Running: d.running, LastFrequency: d.lastFreq, CloseErr: d.closeErr}
}

// step performs one Waiting iteration.
func (d *Dispatcher) step() {
	readiness, err := d.source.Wait(d.timeout)

	if d.cancel.Requested() {
		d.logger.Debug("Shutdown requested")
		d.phase = ShuttingDown
		return
	}
	if err != nil {
		d.err = fmt.Errorf("wait for MIDI events: %w", err)
		d.logger.Error("Event wait failed; shutting down", d.logger.Field().Error("error", err))
		d.phase = ShuttingDown
		return
	}

	switch readiness {
	case contracts.Readable:
		d.phase = Draining
		d.drain()
		d.phase = Waiting
	case contracts.Hangup:
		d.logger.Warn("Event source hung up; shutting down")
		d.phase = ShuttingDown
	default:
		// Timeout, or woken without the read-ready condition: poll again.
	}
}

// drain consumes exactly one event.
func (d *Dispatcher) drain() {
	ev, err := d.source.Next()
	switch {
	case errors.Is(err, contracts.ErrNoEvent):
		return
	case err != nil:
		d.logger.Error("Failed to read MIDI event", d.logger.Field().Error("error", err))
		return
	}
	d.Dispatch(ev)
}

// Dispatch applies one event to the sink.
func (d *Dispatcher) Dispatch(ev contracts.Event) {
	switch ev.Kind {
	case contracts.EventNoteOn:
		hz := notes.Frequency(int(ev.Note))
		d.logger.Debug("Note on",
			d.logger.Field().Uint8("note", ev.Note),
			d.logger.Field().String("pitch", notes.Name(int(ev.Note))),
			d.logger.Field().Float64("hz", hz))
		d.setFrequency(hz)
	case contracts.EventNoteOff:
		d.logger.Debug("Note off", d.logger.Field().Uint8("note", ev.Note))
		d.setFrequency(0)
	case contracts.EventUnsubscribed:
		// No off event can follow for notes still sounding.
		d.logger.Info("Port unsubscribed", d.logger.Field().String("peer", ev.Peer.String()))
		d.setFrequency(0)
	case contracts.EventSubscribed:
		d.logger.Info("Port subscribed", d.logger.Field().String("peer", ev.Peer.String()))
	default:
		d.logger.Debug("Ignoring event", d.logger.Field().String("event", ev.Detail))
	}
}

// setFrequency is best effort: a failed write is logged and the loop goes on.
func (d *Dispatcher) setFrequency(hz float64) {
	d.lastFreq = hz
	if err := d.sink.SetFrequency(hz); err != nil {
		d.logger.Error("Failed to set tone",
			d.logger.Field().Float64("hz", hz),
			d.logger.Field().Error("error", err))
	}
}

// terminate runs the ShuttingDown -> Terminated transition.
func (d *Dispatcher) terminate() error {
	d.phase = ShuttingDown
	d.setFrequency(0)

	d.closeErr = multierr.Combine(
		wrapClose("tone sink", d.sink.Close()),
		wrapClose("event source", d.source.Close()),
	)
	if d.closeErr != nil {
		d.logger.Error("Failed to release handles", d.logger.Field().Error("error", d.closeErr))
	}

	d.phase = Terminated
	d.running = false
	d.logger.Debug("Event loop terminated")
	return d.err
}

func wrapClose(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("close %s: %w", what, err)
}
