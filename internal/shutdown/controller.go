// Package shutdown turns termination requests into a flag the event loop polls.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// DefaultSignals are the termination requests a Controller installs for.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Controller holds the shutdown flag. Signal delivery and Cancel only raise
// the flag; the loop performs every outward-visible shutdown action.
type Controller struct {
	requested atomic.Bool
	signals   chan os.Signal
	done      chan struct{}
	stopOnce  sync.Once
}

var _ contracts.CancellationSource = (*Controller)(nil)

// New returns a controller with the flag lowered and no signals installed.
func New() *Controller {
	return &Controller{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Install routes sigs (DefaultSignals when empty) to the flag.
func (c *Controller) Install(sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = DefaultSignals
	}
	signal.Notify(c.signals, sigs...)

	go func() {
		for {
			select {
			case <-c.signals:
				c.requested.Store(true)
			case <-c.done:
				return
			}
		}
	}()
}

// Requested reports whether termination was requested.
func (c *Controller) Requested() bool {
	return c.requested.Load()
}

// Cancel raises the flag directly, e.g. from a UI close handler or a test.
func (c *Controller) Cancel() {
	c.requested.Store(true)
}

// Stop uninstalls the signal handlers. The flag keeps its value.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		signal.Stop(c.signals)
		close(c.done)
	})
}

type contextSource struct {
	ctx context.Context
}

// FromContext reports a request once ctx is done.
func FromContext(ctx context.Context) contracts.CancellationSource {
	return contextSource{ctx: ctx}
}

func (s contextSource) Requested() bool {
	return s.ctx.Err() != nil
}
