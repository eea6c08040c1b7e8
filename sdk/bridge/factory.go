package bridge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leandrodaf/pcspkr-midi/internal/seq/alsa"
	"github.com/leandrodaf/pcspkr-midi/internal/seq/coremidi"
	"github.com/leandrodaf/pcspkr-midi/internal/seq/rtmidi"
	"github.com/leandrodaf/pcspkr-midi/internal/seq/winmm"
	"github.com/leandrodaf/pcspkr-midi/internal/tone"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

var (
	// ErrUnsupportedOS is returned when no default backend exists for the operating system.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrUnknownBackend is returned for an event source name that is not registered.
	ErrUnknownBackend = errors.New("unknown event source backend")
)

// sourceInitializers maps backend names to event source constructors.
var sourceInitializers = map[string]func(*contracts.BridgeOptions) (contracts.EventSource, error){
	"alsa":     alsa.Open,     // Linux ALSA sequencer.
	"coremidi": coremidi.Open, // macOS CoreMIDI.
	"winmm":    winmm.Open,    // Windows multimedia MIDI input.
	"rtmidi":   rtmidi.Open,   // rtmidi virtual port, with -tags rtmidi.
}

// toneInitializer opens the tone sink; tests replace it.
var toneInitializer = tone.Open

// Backends lists the registered event source names.
func Backends() []string {
	names := make([]string, 0, len(sourceInitializers))
	for name := range sourceInitializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newSource opens the configured event source.
func newSource(opts *contracts.BridgeOptions) (contracts.EventSource, error) {
	initializer, exists := sourceInitializers[opts.SourceBackend]
	if !exists {
		return nil, contracts.Startup("open sequencer", fmt.Errorf("%w: %q", ErrUnknownBackend, opts.SourceBackend))
	}
	source, err := initializer(opts)
	if err != nil {
		return nil, contracts.Startup("open sequencer", err)
	}
	return source, nil
}

// newSink opens the configured tone sink.
func newSink(opts *contracts.BridgeOptions) (contracts.ToneSink, error) {
	sink, err := toneInitializer(opts)
	if err != nil {
		return nil, contracts.Startup("open speaker device", err)
	}
	return sink, nil
}
