//go:build linux
// +build linux

package tone

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/pcspkr-midi/internal/ioctl"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"golang.org/x/sys/unix"
)

// pitClock is the 8254 timer input frequency KIOCSOUND divides.
const pitClock = 1193180

var ioctlKIOCSOUND = ioctl.IO('K', 0x2F)

// ConsoleSink beeps through the virtual console's KIOCSOUND ioctl.
type ConsoleSink struct {
	mu     sync.Mutex
	fd     int
	path   string
	closed bool
}

// OpenConsole opens a console device; writing tones needs CAP_SYS_TTY_CONFIG
// or ownership of the console.
func OpenConsole(path string) (*ConsoleSink, error) {
	if path == "" {
		path = DefaultConsolePath
	}
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open console %s: %w", path, err)
	}
	return &ConsoleSink{fd: fd, path: path}, nil
}

// divisor converts hz to the KIOCSOUND argument; 0 turns the speaker off.
func divisor(hz int32) int {
	if hz <= 0 {
		return 0
	}
	return pitClock / int(hz)
}

// SetFrequency programs the PIT, or stops the tone for hz <= 0.
func (s *ConsoleSink) SetFrequency(hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := unix.IoctlSetInt(s.fd, uint(ioctlKIOCSOUND), divisor(Hz(hz))); err != nil {
		return fmt.Errorf("KIOCSOUND on %s: %w", s.path, err)
	}
	return nil
}

// Describe reports the console path; the console has no input id.
func (s *ConsoleSink) Describe() (contracts.DeviceInfo, error) {
	return contracts.DeviceInfo{Name: "console speaker", Path: s.path}, nil
}

// Close releases the console.
func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}
