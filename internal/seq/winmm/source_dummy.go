//go:build !windows
// +build !windows

package winmm

import (
	"errors"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// ErrUnavailable is returned on platforms without winmm.
var ErrUnavailable = errors.New("winmm is only available on Windows")

// Open always fails outside Windows.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	options.Logger.Warn("winmm source requested on a non-Windows system")
	return nil, contracts.Startup("open MIDI input devices", ErrUnavailable)
}
