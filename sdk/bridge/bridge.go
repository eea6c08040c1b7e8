// Package bridge wires an event source, a tone sink and the event loop into a
// MIDI-to-speaker bridge.
package bridge

import (
	"github.com/google/uuid"
	"github.com/leandrodaf/pcspkr-midi/internal/dispatch"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"go.uber.org/multierr"
)

// Bridge is an opened event source and tone sink driven by one event loop.
type Bridge struct {
	logger     contracts.Logger
	options    contracts.BridgeOptions
	session    string
	source     contracts.EventSource
	sink       contracts.ToneSink
	device     contracts.DeviceInfo
	dispatcher *dispatch.Dispatcher
}

// New acquires the event source, then the tone sink, and identifies the
// device. Any failure is a *contracts.StartupError, and whatever was acquired
// before it is released again.
//
// cancel is polled by the event loop once per wait; pass a
// shutdown.Controller, a context adapter, or any other CancellationSource.
func New(cancel contracts.CancellationSource, opts ...contracts.Option) (*Bridge, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, contracts.Startup("configure bridge", err)
	}

	session := uuid.NewString()
	log := options.Logger.With(options.Logger.Field().String("session", session))
	options.Logger = log

	source, err := newSource(&options)
	if err != nil {
		return nil, err
	}

	sink, err := newSink(&options)
	if err != nil {
		return nil, multierr.Append(err, source.Close())
	}

	device, err := sink.Describe()
	if err != nil {
		return nil, multierr.Combine(
			contracts.Startup("identify speaker device", err),
			sink.Close(),
			source.Close(),
		)
	}

	log.Info("Opened MIDI client",
		log.Field().String("backend", options.SourceBackend),
		log.Field().String("address", source.Address().String()))
	log.Info("Found tone device",
		log.Field().String("name", device.Name),
		log.Field().String("path", device.Path),
		log.Field().Int("bustype", int(device.Bustype)),
		log.Field().Int("vendor", int(device.Vendor)),
		log.Field().Int("product", int(device.Product)),
		log.Field().Int("version", int(device.Version)))

	return &Bridge{
		logger:     log,
		options:    options,
		session:    session,
		source:     source,
		sink:       sink,
		device:     device,
		dispatcher: dispatch.New(source, sink, cancel, log, options.PollTimeout),
	}, nil
}

// Run bridges events until shutdown and releases the source and the sink.
func (b *Bridge) Run() error {
	return b.dispatcher.Run()
}

// Address returns where controllers connect to.
func (b *Bridge) Address() contracts.Address {
	return b.source.Address()
}

// Device returns the identified tone device.
func (b *Bridge) Device() contracts.DeviceInfo {
	return b.device
}

// Session returns the id tagged on every log entry of this bridge.
func (b *Bridge) Session() string {
	return b.session
}

// State returns a snapshot of the event loop.
func (b *Bridge) State() dispatch.LoopState {
	return b.dispatcher.State()
}
