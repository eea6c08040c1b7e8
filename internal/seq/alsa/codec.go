// Package alsa is an event source on the ALSA sequencer kernel interface
// (/dev/snd/seq), without linking alsa-lib.
package alsa

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/leandrodaf/pcspkr-midi/internal/seq"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

// EventSize is the size of a fixed-length struct snd_seq_event.
const EventSize = 28

// Event types from <sound/asequencer.h> the bridge cares about.
const (
	EventNote             = 5
	EventNoteOn           = 6
	EventNoteOff          = 7
	EventKeyPress         = 8
	EventController       = 10
	EventPgmChange        = 11
	EventChanPressure     = 12
	EventPitchBend        = 13
	EventClientStart      = 60
	EventClientExit       = 61
	EventPortStart        = 63
	EventPortExit         = 64
	EventPortSubscribed   = 66
	EventPortUnsubscribed = 67
	EventSysex            = 130
)

const (
	lengthMask     = 3 << 2
	lengthVariable = 1 << 2
	extLengthMask  = 0x3fffffff
)

// ErrShortEvent means the buffer ends inside an event.
var ErrShortEvent = errors.New("truncated sequencer event")

// Addr is a struct snd_seq_addr.
type Addr struct {
	Client uint8
	Port   uint8
}

// RawEvent is a decoded struct snd_seq_event. Ext holds the inline payload of
// variable-length events such as sysex.
type RawEvent struct {
	Type   uint8
	Flags  uint8
	Tag    uint8
	Queue  uint8
	Source Addr
	Dest   Addr
	Data   [12]byte
	Ext    []byte
}

// Decode parses one event from b and reports how many bytes it used.
func Decode(b []byte) (RawEvent, int, error) {
	if len(b) < EventSize {
		return RawEvent{}, 0, ErrShortEvent
	}
	ev := RawEvent{
		Type:   b[0],
		Flags:  b[1],
		Tag:    b[2],
		Queue:  b[3],
		Source: Addr{Client: b[12], Port: b[13]},
		Dest:   Addr{Client: b[14], Port: b[15]},
	}
	copy(ev.Data[:], b[16:EventSize])

	n := EventSize
	if ev.Flags&lengthMask == lengthVariable {
		extLen := int(binary.NativeEndian.Uint32(ev.Data[0:4]) & extLengthMask)
		padded := paddedLen(extLen)
		if len(b) < n+padded {
			return RawEvent{}, 0, fmt.Errorf("%w: need %d payload bytes, have %d", ErrShortEvent, padded, len(b)-n)
		}
		ev.Ext = b[n : n+extLen]
		n += padded
	}
	return ev, n, nil
}

// paddedLen is the space a payload of n bytes takes in a read buffer. The
// kernel pads inline payloads to a whole number of event cells.
func paddedLen(n int) int {
	return (n + EventSize - 1) / EventSize * EventSize
}

// Encode writes a fixed-length event to b, which must hold EventSize bytes.
func (e RawEvent) Encode(b []byte) {
	b[0], b[1], b[2], b[3] = e.Type, e.Flags&^lengthMask, e.Tag, e.Queue
	clear(b[4:12])
	b[12], b[13] = e.Source.Client, e.Source.Port
	b[14], b[15] = e.Dest.Client, e.Dest.Port
	copy(b[16:EventSize], e.Data[:])
}

// Event classifies the raw event for the dispatcher.
func (e RawEvent) Event() contracts.Event {
	switch e.Type {
	case EventNoteOn:
		return seq.NoteOn(e.Data[0], e.Data[1], e.Data[2])
	case EventNoteOff:
		return seq.NoteOff(e.Data[0], e.Data[1])
	case EventPortSubscribed:
		return contracts.Event{Kind: contracts.EventSubscribed, Peer: e.sender()}
	case EventPortUnsubscribed:
		return contracts.Event{Kind: contracts.EventUnsubscribed, Peer: e.sender()}
	default:
		return contracts.Event{Kind: contracts.EventOther, Detail: typeName(e.Type)}
	}
}

// sender reads the struct snd_seq_connect of a subscription event.
func (e RawEvent) sender() contracts.Address {
	return contracts.Address{Client: int(e.Data[0]), Port: int(e.Data[1])}
}

func typeName(t uint8) string {
	switch t {
	case EventNote:
		return "note"
	case EventKeyPress:
		return "key pressure"
	case EventController:
		return "controller"
	case EventPgmChange:
		return "program change"
	case EventChanPressure:
		return "channel pressure"
	case EventPitchBend:
		return "pitch bend"
	case EventClientStart:
		return "client start"
	case EventClientExit:
		return "client exit"
	case EventPortStart:
		return "port start"
	case EventPortExit:
		return "port exit"
	case EventSysex:
		return "sysex"
	}
	return fmt.Sprintf("event type %d", t)
}
