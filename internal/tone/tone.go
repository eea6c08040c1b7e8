// Package tone implements single-voice tone sinks: the Linux PC speaker input
// device, the console beeper, and a microcontroller buzzer on a serial line.
package tone

import (
	"errors"
	"fmt"
	"math"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// Backend names accepted by Open.
const (
	BackendEvdev   = "evdev"
	BackendConsole = "console"
	BackendSerial  = "serial"
)

// Default device nodes.
const (
	DefaultEvdevPath   = "/dev/input/by-path/platform-pcspkr-event-spkr"
	DefaultConsolePath = "/dev/console"
	DefaultSerialBaud  = 9600
)

// MaxFrequency is the highest tone a sink is asked to produce.
const MaxFrequency = math.MaxUint16

var (
	// ErrUnknownBackend is returned for a backend name Open does not know.
	ErrUnknownBackend = errors.New("unknown tone backend")
	// ErrNoDevice is returned when a backend needs a device path and none was configured.
	ErrNoDevice = errors.New("no tone device configured")
	// ErrClosed is returned when writing to a closed sink.
	ErrClosed = errors.New("tone sink closed")
)

// Open opens the sink named by options.ToneBackend on options.ToneDevice.
func Open(options *contracts.BridgeOptions) (contracts.ToneSink, error) {
	var (
		sink contracts.ToneSink
		err  error
	)
	switch options.ToneBackend {
	case BackendEvdev:
		sink, err = OpenEvdev(options.ToneDevice)
	case BackendConsole:
		sink, err = OpenConsole(options.ToneDevice)
	case BackendSerial:
		sink, err = OpenSerial(options.ToneDevice, options.SerialBaud)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, options.ToneBackend)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}

// DefaultDevice returns the usual device path for backend, or "" when the
// backend has no sensible default.
func DefaultDevice(backend string) string {
	switch backend {
	case BackendEvdev:
		return DefaultEvdevPath
	case BackendConsole:
		return DefaultConsolePath
	}
	return ""
}

// Hz converts a requested frequency to the integer the devices take.
// Zero, negative and NaN values mean silence.
func Hz(freq float64) int32 {
	if !(freq > 0) {
		return 0
	}
	if freq >= MaxFrequency {
		return MaxFrequency
	}
	return int32(math.Round(freq))
}
