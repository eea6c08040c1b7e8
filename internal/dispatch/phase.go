package dispatch

// Phase is the state of the event loop.
type Phase int

const (
	// Waiting blocks on the event source with a bounded timeout.
	Waiting Phase = iota
	// Draining consumes one ready event.
	Draining
	// ShuttingDown silences the sink and releases the handles. Entered once.
	ShuttingDown
	// Terminated is final.
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Draining:
		return "draining"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// LoopState is a snapshot of the dispatcher for diagnostics and tests.
type LoopState struct {
	Phase         Phase
	Running       bool
	LastFrequency float64 // Last frequency requested from the sink; the sink is never queried.
	CloseErr      error   // Errors from releasing the sink and the source, set once terminated.
}
