//go:build linux
// +build linux

package tone

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/pcspkr-midi/internal/ioctl"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"golang.org/x/sys/unix"
)

// Event codes from <linux/input-event-codes.h>.
const (
	evSnd   = 0x12
	sndTone = 0x02
)

// inputEvent is struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// inputID is struct input_id.
type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

const nameLen = 128

var (
	ioctlGetID   = ioctl.IOR('E', 0x02, unsafe.Sizeof(inputID{}))
	ioctlGetName = ioctl.IOR('E', 0x06, nameLen)
)

// EvdevSink writes SND_TONE events to the pcspkr input device.
type EvdevSink struct {
	mu     sync.Mutex
	fd     int
	path   string
	closed bool
}

// OpenEvdev opens the speaker input device write-only.
func OpenEvdev(path string) (*EvdevSink, error) {
	if path == "" {
		path = DefaultEvdevPath
	}
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open speaker device %s: %w; did you \"sudo modprobe pcspkr\"?", path, err)
	}
	return &EvdevSink{fd: fd, path: path}, nil
}

// encodeTone returns the bytes of one SND_TONE input event.
func encodeTone(hz int32) []byte {
	var buf bytes.Buffer
	ev := inputEvent{Type: evSnd, Code: sndTone, Value: hz}
	// binary.Write only fails for non-fixed-size data.
	_ = binary.Write(&buf, binary.NativeEndian, &ev)
	return buf.Bytes()
}

// SetFrequency starts a tone at hz, or stops it for hz <= 0.
func (s *EvdevSink) SetFrequency(hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := unix.Write(s.fd, encodeTone(Hz(hz))); err != nil {
		return fmt.Errorf("error writing in beep: %w", err)
	}
	return nil
}

// Describe queries the device name and input id.
func (s *EvdevSink) Describe() (contracts.DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return contracts.DeviceInfo{}, ErrClosed
	}

	name := make([]byte, nameLen)
	if err := ioctl.Ptr(s.fd, ioctlGetName, unsafe.Pointer(&name[0])); err != nil {
		return contracts.DeviceInfo{}, fmt.Errorf("EVIOCGNAME on %s: %w", s.path, err)
	}
	var id inputID
	if err := ioctl.Ptr(s.fd, ioctlGetID, unsafe.Pointer(&id)); err != nil {
		return contracts.DeviceInfo{}, fmt.Errorf("EVIOCGID on %s: %w", s.path, err)
	}

	return contracts.DeviceInfo{
		Name:    unix.ByteSliceToString(name),
		Path:    s.path,
		Bustype: id.Bustype,
		Vendor:  id.Vendor,
		Product: id.Product,
		Version: id.Version,
	}, nil
}

// Close releases the device.
func (s *EvdevSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}
