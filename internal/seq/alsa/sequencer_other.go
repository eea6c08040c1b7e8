//go:build !linux
// +build !linux

package alsa

import (
	"errors"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// ErrUnavailable is returned on platforms without an ALSA sequencer.
var ErrUnavailable = errors.New("ALSA sequencer is only available on Linux")

// Open always fails outside Linux.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	options.Logger.Warn("ALSA source requested on a non-Linux system")
	return nil, contracts.Startup("open sequencer", ErrUnavailable)
}
