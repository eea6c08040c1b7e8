//go:build linux
// +build linux

package alsa

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/leandrodaf/pcspkr-midi/internal/ioctl"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"golang.org/x/sys/unix"
)

// DevicePath is the sequencer device node.
const DevicePath = "/dev/snd/seq"

// Read buffer bounds. The kernel refuses to split a variable-length event
// across reads, so the buffer grows until the largest pending event fits.
const (
	readBufferSize    = 4096
	maxReadBufferSize = 1 << 20
)

// Port capabilities and types from <sound/asequencer.h>.
const (
	capWrite     = 1 << 1
	capSyncWrite = 1 << 3
	capSubsWrite = 1 << 6

	portTypeMIDIGeneric = 1 << 1
	portTypeApplication = 1 << 20
)

type clientInfo struct {
	Client          int32
	Type            int32
	Name            [64]byte
	Filter          uint32
	MulticastFilter [8]byte
	EventFilter     [32]byte
	NumPorts        int32
	EventLost       int32
	Card            int32
	Pid             int32
	Reserved        [56]byte
}

type portInfo struct {
	Addr         Addr
	Name         [64]byte
	Capability   uint32
	Type         uint32
	MIDIChannels int32
	MIDIVoices   int32
	SynthVoices  int32
	ReadUse      int32
	WriteUse     int32
	Kernel       uintptr
	Flags        uint32
	TimeQueue    uint8
	Direction    uint8
	Reserved     [58]byte
}

var (
	ioctlPVersion      = ioctl.IOR('S', 0x00, unsafe.Sizeof(int32(0)))
	ioctlClientID      = ioctl.IOR('S', 0x01, unsafe.Sizeof(int32(0)))
	ioctlGetClientInfo = ioctl.IOWR('S', 0x10, unsafe.Sizeof(clientInfo{}))
	ioctlSetClientInfo = ioctl.IOW('S', 0x11, unsafe.Sizeof(clientInfo{}))
	ioctlCreatePort    = ioctl.IOWR('S', 0x20, unsafe.Sizeof(portInfo{}))
	ioctlDeletePort    = ioctl.IOW('S', 0x21, unsafe.Sizeof(portInfo{}))
)

// ErrClosed is returned by operations on a closed sequencer.
var ErrClosed = errors.New("sequencer closed")

// ErrEventTooLarge means a pending event does not fit the largest read buffer.
var ErrEventTooLarge = errors.New("sequencer event exceeds read buffer")

var _ contracts.EventSource = (*Sequencer)(nil)

// Sequencer is a duplex ALSA sequencer client with one application port.
type Sequencer struct {
	fd      int
	client  int
	port    int
	pfds    []unix.PollFd
	buf     []byte
	pending []byte
	closed  bool
	read    func(fd int, p []byte) (int, error)
}

// Open opens the sequencer, names the client, and creates the application
// port from the bridge options.
func Open(opts *contracts.BridgeOptions) (contracts.EventSource, error) {
	s, err := NewSequencer(opts.ClientName)
	if err != nil {
		return nil, err
	}

	caps := contracts.DefaultPortCaps
	if opts.PortCaps != nil {
		caps = *opts.PortCaps
	}
	if _, err := s.CreatePort(opts.PortName, caps); err != nil {
		_ = s.Close()
		return nil, err
	}
	if _, err := s.PollDescriptors(); err != nil {
		_ = s.Close()
		return nil, contracts.Startup("get poll descriptors", err)
	}
	return s, nil
}

// NewSequencer opens /dev/snd/seq in duplex, non-blocking mode and sets the
// client name.
func NewSequencer(clientName string) (*Sequencer, error) {
	fd, err := unix.Open(DevicePath, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, contracts.Startup("open sequencer", fmt.Errorf("%s: %w", DevicePath, err))
	}
	s := &Sequencer{fd: fd, port: -1, buf: make([]byte, readBufferSize), read: unix.Read}

	var version int32
	if err := ioctl.Ptr(fd, ioctlPVersion, unsafe.Pointer(&version)); err != nil {
		_ = s.Close()
		return nil, contracts.Startup("open sequencer", fmt.Errorf("protocol version: %w", err))
	}

	var client int32
	if err := ioctl.Ptr(fd, ioctlClientID, unsafe.Pointer(&client)); err != nil {
		_ = s.Close()
		return nil, contracts.Startup("get client id", err)
	}
	s.client = int(client)

	if err := s.SetClientName(clientName); err != nil {
		_ = s.Close()
		return nil, contracts.Startup("set client name", err)
	}
	return s, nil
}

// SetClientName renames the client as other applications see it.
func (s *Sequencer) SetClientName(name string) error {
	if s.closed {
		return ErrClosed
	}
	info := clientInfo{Client: int32(s.client)}
	if err := ioctl.Ptr(s.fd, ioctlGetClientInfo, unsafe.Pointer(&info)); err != nil {
		return err
	}
	info.Name = [64]byte{}
	copy(info.Name[:len(info.Name)-1], name)
	return ioctl.Ptr(s.fd, ioctlSetClientInfo, unsafe.Pointer(&info))
}

// ClientID returns the number the kernel assigned to this client.
func (s *Sequencer) ClientID() int {
	return s.client
}

// CreatePort registers the application port and returns its number.
func (s *Sequencer) CreatePort(name string, caps contracts.PortCaps) (int, error) {
	if s.closed {
		return 0, contracts.Startup("create port", ErrClosed)
	}
	info := portInfo{
		Addr:         Addr{Client: uint8(s.client)},
		Capability:   capabilityBits(caps),
		Type:         portTypeMIDIGeneric | portTypeApplication,
		MIDIChannels: 16,
		MIDIVoices:   64,
	}
	copy(info.Name[:len(info.Name)-1], name)
	if err := ioctl.Ptr(s.fd, ioctlCreatePort, unsafe.Pointer(&info)); err != nil {
		return 0, contracts.Startup("create port", err)
	}
	s.port = int(info.Addr.Port)
	return s.port, nil
}

func capabilityBits(caps contracts.PortCaps) uint32 {
	var bits uint32
	if caps.Write {
		bits |= capWrite
	}
	if caps.SubsWrite {
		bits |= capSubsWrite
	}
	if caps.SyncWrite {
		bits |= capSyncWrite
	}
	return bits
}

// Address returns the client:port controllers connect to.
func (s *Sequencer) Address() contracts.Address {
	return contracts.Address{Client: s.client, Port: s.port}
}

// PollDescriptors returns the descriptors to wait on for input.
func (s *Sequencer) PollDescriptors() ([]unix.PollFd, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.pfds == nil {
		s.pfds = []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	}
	return s.pfds, nil
}

// Wait polls the descriptors for up to timeout. Events already read into the
// user-space buffer make the sequencer readable without polling.
func (s *Sequencer) Wait(timeout time.Duration) (contracts.Readiness, error) {
	if len(s.pending) > 0 {
		return contracts.Readable, nil
	}
	pfds, err := s.PollDescriptors()
	if err != nil {
		return contracts.Hangup, err
	}

	n, err := unix.Poll(pfds, int(timeout/time.Millisecond))
	switch {
	case errors.Is(err, unix.EINTR):
		// A signal woke us; the caller checks its shutdown flag next.
		return contracts.Timeout, nil
	case err != nil:
		return contracts.Hangup, fmt.Errorf("poll: %w", err)
	case n == 0:
		return contracts.Timeout, nil
	}
	return classify(pfds), nil
}

func classify(pfds []unix.PollFd) contracts.Readiness {
	var revents int16
	for _, p := range pfds {
		revents |= p.Revents
	}
	switch {
	case revents&(unix.POLLERR|unix.POLLNVAL|unix.POLLHUP) != 0:
		return contracts.Hangup
	case revents&unix.POLLIN == 0:
		return contracts.NotReadable
	}
	return contracts.Readable
}

// Next returns the next buffered event, reading from the kernel when the
// buffer is empty. It never blocks: an empty device yields contracts.ErrNoEvent.
func (s *Sequencer) Next() (contracts.Event, error) {
	if s.closed {
		return contracts.Event{}, ErrClosed
	}
	if len(s.pending) == 0 {
		if err := s.fill(); err != nil {
			return contracts.Event{}, err
		}
	}

	raw, n, err := Decode(s.pending)
	if err != nil {
		s.pending = nil
		return contracts.Event{}, fmt.Errorf("input MIDI event: %w", err)
	}
	s.pending = s.pending[n:]
	return raw.Event(), nil
}

// fill reads the next batch of events into the buffer. EAGAIN while the
// device still polls readable means the head event is larger than the
// buffer; the buffer doubles and the read is retried.
func (s *Sequencer) fill() error {
	for {
		n, err := s.read(s.fd, s.buf)
		switch {
		case errors.Is(err, unix.EAGAIN):
			if !s.readable() {
				return contracts.ErrNoEvent
			}
			if len(s.buf) >= maxReadBufferSize {
				return fmt.Errorf("input MIDI event: %w", ErrEventTooLarge)
			}
			s.buf = make([]byte, 2*len(s.buf))
			continue
		case err != nil:
			// ENOSPC: the kernel dropped events because the input pool overflowed.
			return fmt.Errorf("input MIDI event: %w", err)
		case n == 0:
			return contracts.ErrNoEvent
		}
		s.pending = s.buf[:n]
		return nil
	}
}

func (s *Sequencer) readable() bool {
	pfds, err := s.PollDescriptors()
	if err != nil {
		return false
	}
	n, err := unix.Poll(pfds, 0)
	return err == nil && n > 0 && classify(pfds) == contracts.Readable
}

// Close deletes the port and releases the device. Calling it again is a no-op.
func (s *Sequencer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.port >= 0 {
		info := portInfo{Addr: Addr{Client: uint8(s.client), Port: uint8(s.port)}}
		_ = ioctl.Ptr(s.fd, ioctlDeletePort, unsafe.Pointer(&info))
	}
	s.pending = nil
	return unix.Close(s.fd)
}
