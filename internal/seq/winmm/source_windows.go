//go:build windows
// +build windows

package winmm

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/leandrodaf/pcspkr-midi/internal/seq"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// ErrNoMIDIDevices is returned when no input device can be opened.
var ErrNoMIDIDevices = errors.New("no MIDI devices found")

// Callbacks are a scarce resource on Windows, so one trampoline serves every
// device; dwInstance is a key into devices.
var (
	callbackOnce sync.Once
	callback     uintptr
	devices      sync.Map // uintptr -> *device
	nextDevice   atomic.Uintptr
)

type device struct {
	source *Source
	name   string
	handle HMIDIIN
	key    uintptr
}

// Source opens every winmm input device and funnels their messages into one queue.
type Source struct {
	*seq.Queue

	logger   contracts.Logger
	name     string
	devices  []*device
	stopOnce sync.Once
}

// Open starts capture on all MIDI input devices.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	callbackOnce.Do(func() {
		callback = windows.NewCallback(midiInCallback)
	})

	s := &Source{
		Queue:  seq.NewQueue(options.QueueSize, options.Logger),
		logger: options.Logger,
		name:   options.PortName,
	}

	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	for i := uint32(0); i < numDevices; i++ {
		if err := s.openDevice(i); err != nil {
			s.logger.Warn("Failed to open MIDI input device",
				s.logger.Field().Int("deviceID", int(i)),
				s.logger.Field().Error("error", err))
		}
	}
	if len(s.devices) == 0 {
		s.Shutdown()
		return nil, contracts.Startup("open MIDI input devices", ErrNoMIDIDevices)
	}
	options.Logger.Info("MIDI client created for Windows",
		options.Logger.Field().Int("devices", len(s.devices)))
	return s, nil
}

func (s *Source) openDevice(id uint32) error {
	var caps midiInCaps
	r1, _, _ := procMidiInGetDevCaps.Call(
		uintptr(id),
		uintptr(unsafe.Pointer(&caps)),
		unsafe.Sizeof(caps),
	)
	if r1 != 0 {
		return fmt.Errorf("get capabilities: mmresult %d", r1)
	}

	d := &device{
		source: s,
		name:   windows.UTF16ToString(caps.szPname[:]),
		key:    nextDevice.Add(1),
	}
	devices.Store(d.key, d)

	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&d.handle)),
		uintptr(id),
		callback,
		d.key,
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		devices.Delete(d.key)
		return fmt.Errorf("open device %q: %v", d.name, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(d.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(d.handle))
		devices.Delete(d.key)
		return fmt.Errorf("start capture on %q: %v", d.name, err)
	}

	s.devices = append(s.devices, d)
	return nil
}

// Address returns the configured port name; winmm has no numeric addressing.
func (s *Source) Address() contracts.Address {
	return contracts.Address{Client: -1, Name: s.name}
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	v, ok := devices.Load(dwInstance)
	if !ok {
		return 0
	}
	d := v.(*device)
	peer := contracts.Address{Client: -1, Name: d.name}

	switch wMsg {
	case MIM_OPEN:
		d.source.Push(contracts.Event{Kind: contracts.EventSubscribed, Peer: peer})
	case MIM_CLOSE:
		d.source.Push(contracts.Event{Kind: contracts.EventUnsubscribed, Peer: peer})
	case MIM_DATA:
		msg := midi.Message{
			byte(dwParam1 & 0xFF),
			byte((dwParam1 >> 8) & 0xFF),
			byte((dwParam1 >> 16) & 0xFF),
		}
		d.source.Push(seq.FromMessage(msg))
	case MIM_ERROR, MIM_LONGERROR:
		d.source.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	case MIM_MOREDATA:
		d.source.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		d.source.logger.Warn(fmt.Sprintf("Unknown MIDI message: 0x%X", wMsg))
	}

	return 0
}

// Close stops and closes every device. Only the first call acts.
func (s *Source) Close() error {
	var err error
	s.stopOnce.Do(func() {
		for _, d := range s.devices {
			if r1, _, e := procMidiInStop.Call(uintptr(d.handle)); r1 != 0 {
				err = multierr.Append(err, fmt.Errorf("stop %q: %v", d.name, e))
			}
			if r1, _, e := procMidiInClose.Call(uintptr(d.handle)); r1 != 0 {
				err = multierr.Append(err, fmt.Errorf("close %q: %v", d.name, e))
			}
			devices.Delete(d.key)
		}
		s.devices = nil
		s.Shutdown()
		s.logger.Info("MIDI capture stopped and devices closed")
	})
	return err
}
