package tone

import (
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"go.bug.st/serial"
)

// SerialSink drives a buzzer attached to a microcontroller over a serial line.
type SerialSink struct {
	mu     sync.Mutex
	port   io.WriteCloser
	name   string
	baud   int
	closed bool
}

// OpenSerial opens the named serial device at the given baud rate.
func OpenSerial(name string, baud int) (*SerialSink, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: set a serial port for the %s backend", ErrNoDevice, BackendSerial)
	}
	if baud <= 0 {
		baud = DefaultSerialBaud
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return newSerialSink(p, name, baud), nil
}

func newSerialSink(w io.WriteCloser, name string, baud int) *SerialSink {
	return &SerialSink{port: w, name: name, baud: baud}
}

// SetFrequency sends one tone frame.
func (s *SerialSink) SetFrequency(hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.port.Write(EncodeFrame(Hz(hz))); err != nil {
		return fmt.Errorf("serial write to %s: %w", s.name, err)
	}
	return nil
}

// Describe reports the port; serial buzzers cannot be queried.
func (s *SerialSink) Describe() (contracts.DeviceInfo, error) {
	return contracts.DeviceInfo{
		Name: fmt.Sprintf("serial buzzer @ %d baud", s.baud),
		Path: s.name,
	}, nil
}

// Close closes the underlying serial port.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
