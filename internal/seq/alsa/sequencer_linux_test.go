//go:build linux
// +build linux

package alsa

import (
	"encoding/binary"
	"testing"
	"time"
	"unsafe"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"golang.org/x/sys/unix"
)

func TestStructLayout(t *testing.T) {
	if got := unsafe.Sizeof(clientInfo{}); got != 188 {
		t.Errorf("sizeof(snd_seq_client_info) = %d, want 188", got)
	}
	want := uintptr(164)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 168
	}
	if got := unsafe.Sizeof(portInfo{}); got != want {
		t.Errorf("sizeof(snd_seq_port_info) = %d, want %d", got, want)
	}
	if got := unsafe.Offsetof(portInfo{}.Capability); got != 68 {
		t.Errorf("offsetof(capability) = %d, want 68", got)
	}
}

func TestCapabilityBits(t *testing.T) {
	if got := capabilityBits(contracts.DefaultPortCaps); got != capWrite|capSubsWrite|capSyncWrite {
		t.Errorf("default caps = %#x", got)
	}
	if got := capabilityBits(contracts.PortCaps{Write: true}); got != capWrite {
		t.Errorf("write-only caps = %#x", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		revents int16
		want    contracts.Readiness
	}{
		{unix.POLLIN, contracts.Readable},
		{unix.POLLOUT, contracts.NotReadable},
		{unix.POLLIN | unix.POLLERR, contracts.Hangup},
		{unix.POLLNVAL, contracts.Hangup},
		{unix.POLLHUP, contracts.Hangup},
	}
	for _, tt := range tests {
		pfds := []unix.PollFd{{Fd: 3, Events: unix.POLLIN, Revents: tt.revents}}
		if got := classify(pfds); got != tt.want {
			t.Errorf("classify(%#x) = %v, want %v", tt.revents, got, tt.want)
		}
	}
}

// Readiness and decoding over a pipe standing in for /dev/snd/seq.
func TestWaitAndNextOverPipe(t *testing.T) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(p[1])

	s := &Sequencer{fd: p[0], client: 128, port: -1, buf: make([]byte, readBufferSize), read: unix.Read}
	defer s.Close()

	if r, err := s.Wait(10 * time.Millisecond); err != nil || r != contracts.Timeout {
		t.Fatalf("Wait on empty pipe = %v, %v", r, err)
	}

	buf := make([]byte, 2*EventSize)
	note(EventNoteOn, 0, 60, 90).Encode(buf)
	RawEvent{Type: EventController}.Encode(buf[EventSize:])
	if _, err := unix.Write(p[1], buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	if r, err := s.Wait(time.Second); err != nil || r != contracts.Readable {
		t.Fatalf("Wait = %v, %v; want readable", r, err)
	}
	ev, err := s.Next()
	if err != nil || ev.Kind != contracts.EventNoteOn || ev.Note != 60 {
		t.Fatalf("first Next = %+v, %v", ev, err)
	}

	// The second event is buffered: readable without touching the pipe.
	if r, _ := s.Wait(0); r != contracts.Readable {
		t.Fatalf("buffered Wait = %v", r)
	}
	ev, err = s.Next()
	if err != nil || ev.Kind != contracts.EventOther {
		t.Fatalf("second Next = %+v, %v", ev, err)
	}

	if _, err := s.Next(); err != contracts.ErrNoEvent {
		t.Errorf("Next on drained pipe = %v, want ErrNoEvent", err)
	}
}

// A sysex larger than the read buffer: the kernel answers EAGAIN instead of a
// partial event, and the sequencer must grow its buffer rather than stall.
func TestNextGrowsBufferForLargeEvent(t *testing.T) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(p[1])
	// Keeps the descriptor polling readable.
	if _, err := unix.Write(p[1], []byte{0}); err != nil {
		t.Fatalf("write: %v", err)
	}

	const sysexLen = 6000
	pending := make([]byte, EventSize+paddedLen(sysexLen)+EventSize)
	pending[0] = EventSysex
	pending[1] = lengthVariable
	binary.NativeEndian.PutUint32(pending[16:20], sysexLen)
	note(EventNoteOn, 0, 64, 100).Encode(pending[EventSize+paddedLen(sysexLen):])

	reads := 0
	s := &Sequencer{fd: p[0], client: 128, port: -1, buf: make([]byte, readBufferSize)}
	s.read = func(_ int, b []byte) (int, error) {
		reads++
		if len(b) < EventSize+paddedLen(sysexLen) {
			return 0, unix.EAGAIN
		}
		return copy(b, pending), nil
	}
	defer s.Close()

	ev, err := s.Next()
	if err != nil || ev.Kind != contracts.EventOther || ev.Detail != "sysex" {
		t.Fatalf("first Next = %+v, %v; want sysex", ev, err)
	}
	if len(s.buf) != 2*readBufferSize {
		t.Errorf("buffer size = %d, want %d", len(s.buf), 2*readBufferSize)
	}
	if reads != 2 {
		t.Errorf("reads = %d, want 2", reads)
	}

	ev, err = s.Next()
	if err != nil || ev.Kind != contracts.EventNoteOn || ev.Note != 64 {
		t.Fatalf("event after sysex = %+v, %v", ev, err)
	}
}

func TestNextEmptyDeviceKeepsBuffer(t *testing.T) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(p[1])

	s := &Sequencer{fd: p[0], client: 128, port: -1, buf: make([]byte, readBufferSize)}
	s.read = func(int, []byte) (int, error) { return 0, unix.EAGAIN }
	defer s.Close()

	if _, err := s.Next(); err != contracts.ErrNoEvent {
		t.Fatalf("Next = %v, want ErrNoEvent", err)
	}
	if len(s.buf) != readBufferSize {
		t.Errorf("buffer grew to %d on an idle device", len(s.buf))
	}
}
