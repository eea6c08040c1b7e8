package contracts

import "time"

// DefaultPollTimeout bounds each wait on the event source. It is a liveness
// check for the shutdown flag, not a deadline on any operation.
const DefaultPollTimeout = 1000 * time.Millisecond

// BridgeOptions defines the configuration options for the MIDI-to-tone bridge.
type BridgeOptions struct {
	Logger      Logger        // Logger for logging events and errors.
	LogLevel    LogLevel      // Level of logging to use.
	LogFilePath string        // File path for logging if file logging is enabled.
	ClientName  string        // Sequencer client name shown to other applications.
	PortName    string        // Name of the application port controllers subscribe to.
	PortCaps    *PortCaps     // Capabilities of the application port.
	PollTimeout time.Duration // Upper bound of a single wait on the event source.
	QueueSize   int           // Event buffer for callback-driven sources.

	SourceBackend string // Event source backend: alsa, coremidi, winmm or rtmidi.
	ToneBackend   string // Tone sink backend: evdev, console or serial.
	ToneDevice    string // Device node or serial port of the tone sink.
	SerialBaud    int    // Baud rate for the serial tone sink.
}

// Option is a function that modifies BridgeOptions.
type Option func(*BridgeOptions)

// WithLogger sets the logger for the bridge.
func WithLogger(l Logger) Option {
	return func(opts *BridgeOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the bridge.
func WithLogLevel(level LogLevel) Option {
	return func(opts *BridgeOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to a file instead of the console.
func WithLogFile(path string) Option {
	return func(opts *BridgeOptions) {
		opts.LogFilePath = path
	}
}

// WithClientName sets the sequencer client name.
func WithClientName(name string) Option {
	return func(opts *BridgeOptions) {
		opts.ClientName = name
	}
}

// WithPortName sets the name of the application port.
func WithPortName(name string) Option {
	return func(opts *BridgeOptions) {
		opts.PortName = name
	}
}

// WithPortCaps overrides the application port capabilities.
func WithPortCaps(caps PortCaps) Option {
	return func(opts *BridgeOptions) {
		opts.PortCaps = &caps
	}
}

// WithPollTimeout sets how long a single wait on the event source may block.
func WithPollTimeout(d time.Duration) Option {
	return func(opts *BridgeOptions) {
		opts.PollTimeout = d
	}
}

// WithQueueSize sets the event buffer of callback-driven sources.
func WithQueueSize(n int) Option {
	return func(opts *BridgeOptions) {
		opts.QueueSize = n
	}
}

// WithSourceBackend selects the event source backend by name.
func WithSourceBackend(name string) Option {
	return func(opts *BridgeOptions) {
		opts.SourceBackend = name
	}
}

// WithToneBackend selects the tone sink backend by name.
func WithToneBackend(name string) Option {
	return func(opts *BridgeOptions) {
		opts.ToneBackend = name
	}
}

// WithToneDevice sets the device node or serial port of the tone sink.
func WithToneDevice(path string) Option {
	return func(opts *BridgeOptions) {
		opts.ToneDevice = path
	}
}

// WithSerialBaud sets the baud rate of the serial tone sink.
func WithSerialBaud(baud int) Option {
	return func(opts *BridgeOptions) {
		opts.SerialBaud = baud
	}
}
