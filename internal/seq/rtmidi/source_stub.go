//go:build !rtmidi
// +build !rtmidi

// Package rtmidi is an event source on a virtual rtmidi input port, built
// only with the rtmidi tag because it links the rtmidi C++ library.
package rtmidi

import (
	"errors"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// ErrNotCompiled is returned when the binary was built without the rtmidi tag.
var ErrNotCompiled = errors.New("rtmidi support not compiled in; rebuild with -tags rtmidi")

// Open always fails without the rtmidi build tag.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	return nil, contracts.Startup("open rtmidi driver", ErrNotCompiled)
}
