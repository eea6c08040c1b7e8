//go:build !linux
// +build !linux

package tone

import (
	"errors"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// ErrUnsupported is returned for Linux-only backends on other systems.
var ErrUnsupported = errors.New("tone backend is only available on Linux")

// OpenEvdev always fails outside Linux.
func OpenEvdev(path string) (contracts.ToneSink, error) {
	return nil, ErrUnsupported
}

// OpenConsole always fails outside Linux.
func OpenConsole(path string) (contracts.ToneSink, error) {
	return nil, ErrUnsupported
}
