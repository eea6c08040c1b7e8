//go:build !darwin
// +build !darwin

package coremidi

import (
	"errors"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// ErrUnavailable is returned on platforms without CoreMIDI.
var ErrUnavailable = errors.New("CoreMIDI is only available on macOS")

// Open always fails outside macOS.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	options.Logger.Warn("CoreMIDI source requested on a non-macOS system")
	return nil, contracts.Startup("open CoreMIDI client", ErrUnavailable)
}
