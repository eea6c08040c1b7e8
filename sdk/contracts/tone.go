package contracts

// ToneSink is a write-only single-voice tone device. A frequency of zero or
// less silences it; the last command sent wins.
type ToneSink interface {
	SetFrequency(hz float64) error
	// Describe queries the device identification.
	Describe() (DeviceInfo, error)
	Close() error
}

// CancellationSource reports whether termination has been requested.
// Implementations must be safe to call from the loop while another goroutine
// raises the request.
type CancellationSource interface {
	Requested() bool
}
