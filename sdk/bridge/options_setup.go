package bridge

import (
	"fmt"
	"runtime"

	"github.com/leandrodaf/pcspkr-midi/internal/logger"
	"github.com/leandrodaf/pcspkr-midi/internal/seq"
	"github.com/leandrodaf/pcspkr-midi/internal/tone"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// DefaultName is the client and port name other applications see.
const DefaultName = "pcspkr-midi"

// defaultSources and defaultTones pick backends by operating system.
var (
	defaultSources = map[string]string{
		"linux":   "alsa",
		"darwin":  "coremidi",
		"windows": "winmm",
	}
	defaultTones = map[string]string{
		"linux":   tone.BackendEvdev,
		"darwin":  tone.BackendSerial,
		"windows": tone.BackendSerial,
	}
)

// applyDefaultOptions sets default values for BridgeOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.BridgeOptions, error) {
	options := &contracts.BridgeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.ClientName == "" {
		options.ClientName = DefaultName
	}
	if options.PortName == "" {
		options.PortName = DefaultName
	}
	if options.PortCaps == nil {
		caps := contracts.DefaultPortCaps
		options.PortCaps = &caps
	}
	if options.PollTimeout <= 0 {
		options.PollTimeout = contracts.DefaultPollTimeout
	}
	if options.QueueSize <= 0 {
		options.QueueSize = seq.DefaultQueueSize
	}
	if options.SerialBaud <= 0 {
		options.SerialBaud = tone.DefaultSerialBaud
	}

	if options.SourceBackend == "" {
		name, ok := defaultSources[runtime.GOOS]
		if !ok {
			return *options, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
		}
		options.SourceBackend = name
	}
	if options.ToneBackend == "" {
		name, ok := defaultTones[runtime.GOOS]
		if !ok {
			return *options, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
		}
		options.ToneBackend = name
	}
	if options.ToneDevice == "" {
		options.ToneDevice = tone.DefaultDevice(options.ToneBackend)
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
