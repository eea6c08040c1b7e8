package alsa

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

func encode(events ...RawEvent) []byte {
	var out []byte
	for _, ev := range events {
		b := make([]byte, EventSize)
		ev.Encode(b)
		out = append(out, b...)
	}
	return out
}

func note(typ, ch, key, vel uint8) RawEvent {
	ev := RawEvent{Type: typ, Source: Addr{Client: 20, Port: 0}, Dest: Addr{Client: 128, Port: 0}}
	ev.Data[0], ev.Data[1], ev.Data[2] = ch, key, vel
	return ev
}

func TestDecodeNoteEvents(t *testing.T) {
	buf := encode(note(EventNoteOn, 0, 69, 100), note(EventNoteOff, 0, 69, 64))

	ev, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n != EventSize {
		t.Fatalf("consumed %d bytes, want %d", n, EventSize)
	}
	if ev.Source.Client != 20 || ev.Dest.Client != 128 {
		t.Errorf("addresses = %+v -> %+v", ev.Source, ev.Dest)
	}
	got := ev.Event()
	if got.Kind != contracts.EventNoteOn || got.Note != 69 || got.Velocity != 100 {
		t.Errorf("first event = %+v", got)
	}

	ev, _, err = Decode(buf[n:])
	if err != nil {
		t.Fatalf("Decode second failed: %v", err)
	}
	if got := ev.Event(); got.Kind != contracts.EventNoteOff || got.Note != 69 {
		t.Errorf("second event = %+v", got)
	}
}

func TestNoteOnZeroVelocityIsOff(t *testing.T) {
	ev, _, err := Decode(encode(note(EventNoteOn, 3, 60, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.Event(); got.Kind != contracts.EventNoteOff {
		t.Errorf("kind = %v, want note-off", got.Kind)
	}
}

func TestDecodeSubscription(t *testing.T) {
	for typ, kind := range map[uint8]contracts.EventKind{
		EventPortSubscribed:   contracts.EventSubscribed,
		EventPortUnsubscribed: contracts.EventUnsubscribed,
	} {
		raw := RawEvent{Type: typ}
		raw.Data[0], raw.Data[1] = 24, 1 // sender
		raw.Data[2], raw.Data[3] = 128, 0
		ev, _, err := Decode(encode(raw))
		if err != nil {
			t.Fatal(err)
		}
		got := ev.Event()
		if got.Kind != kind {
			t.Errorf("type %d: kind = %v, want %v", typ, got.Kind, kind)
		}
		if got.Peer.String() != "24:1" {
			t.Errorf("type %d: peer = %v", typ, got.Peer)
		}
	}
}

func TestDecodeOtherEvents(t *testing.T) {
	ev, _, err := Decode(encode(RawEvent{Type: EventController}))
	if err != nil {
		t.Fatal(err)
	}
	got := ev.Event()
	if got.Kind != contracts.EventOther || got.Detail != "controller" {
		t.Errorf("controller event = %+v", got)
	}
}

func TestDecodeVariableLength(t *testing.T) {
	sysex := []byte{0xf0, 0x7e, 0x7f, 0x06, 0x01, 0xf7}
	head := make([]byte, EventSize)
	head[0] = EventSysex
	head[1] = lengthVariable
	binary.NativeEndian.PutUint32(head[16:20], uint32(len(sysex)))
	payload := make([]byte, EventSize)
	copy(payload, sysex)
	buf := append(head, payload...)
	buf = append(buf, encode(note(EventNoteOn, 0, 72, 80))...)

	ev, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n != 2*EventSize {
		t.Fatalf("consumed %d bytes, want %d", n, 2*EventSize)
	}
	if string(ev.Ext) != string(sysex) {
		t.Errorf("payload = %x", ev.Ext)
	}

	next, _, err := Decode(buf[n:])
	if err != nil {
		t.Fatalf("event after payload: %v", err)
	}
	if got := next.Event(); got.Kind != contracts.EventNoteOn || got.Note != 72 {
		t.Errorf("event after payload = %+v", got)
	}
}

func TestDecodeShort(t *testing.T) {
	if _, _, err := Decode(make([]byte, EventSize-1)); !errors.Is(err, ErrShortEvent) {
		t.Errorf("short header: %v", err)
	}

	head := make([]byte, EventSize)
	head[1] = lengthVariable
	binary.NativeEndian.PutUint32(head[16:20], 10)
	if _, _, err := Decode(head); !errors.Is(err, ErrShortEvent) {
		t.Errorf("short payload: %v", err)
	}
	// The payload fits but its cell padding does not.
	if _, _, err := Decode(append(head, make([]byte, 10)...)); !errors.Is(err, ErrShortEvent) {
		t.Errorf("unpadded payload: %v", err)
	}
}

func TestPaddedLen(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0},
		{1, EventSize},
		{EventSize, EventSize},
		{EventSize + 1, 2 * EventSize},
		{6000, 215 * EventSize},
	}
	for _, tt := range tests {
		if got := paddedLen(tt.in); got != tt.want {
			t.Errorf("paddedLen(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
