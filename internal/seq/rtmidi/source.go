//go:build rtmidi
// +build rtmidi

// Package rtmidi is an event source on a virtual rtmidi input port, built
// only with the rtmidi tag because it links the rtmidi C++ library.
package rtmidi

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/pcspkr-midi/internal/seq"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/multierr"
)

// Source listens on a virtual input port other applications connect to.
type Source struct {
	*seq.Queue

	logger   contracts.Logger
	drv      *rtmididrv.Driver
	in       drivers.In
	stop     func()
	name     string
	stopOnce sync.Once
}

// Open creates the virtual port and starts listening.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, contracts.Startup("open rtmidi driver", err)
	}

	in, err := drv.OpenVirtualIn(options.PortName)
	if err != nil {
		drv.Close()
		return nil, contracts.Startup("create port", err)
	}

	s := &Source{
		Queue:  seq.NewQueue(options.QueueSize, options.Logger),
		logger: options.Logger,
		drv:    drv,
		in:     in,
		name:   options.PortName,
	}

	s.stop, err = midi.ListenTo(in, func(msg midi.Message, _ int32) {
		s.Push(seq.FromMessage(msg))
	}, midi.HandleError(func(listenErr error) {
		s.logger.Warn("MIDI listener error; closing the event queue",
			s.logger.Field().Error("error", listenErr))
		s.Shutdown()
	}))
	if err != nil {
		_ = in.Close()
		drv.Close()
		return nil, contracts.Startup("listen on virtual port", fmt.Errorf("%s: %w", options.PortName, err))
	}
	return s, nil
}

// Address returns the virtual port name.
func (s *Source) Address() contracts.Address {
	return contracts.Address{Client: -1, Name: s.name}
}

// Close stops listening and shuts the driver down. Only the first call acts.
func (s *Source) Close() error {
	var err error
	s.stopOnce.Do(func() {
		s.stop()
		err = multierr.Combine(s.in.Close(), s.drv.Close())
		s.Shutdown()
	})
	return err
}
