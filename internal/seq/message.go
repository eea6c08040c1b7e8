// Package seq holds the pieces shared by the event source backends: MIDI
// message classification and the bounded queue used by callback-driven ports.
package seq

import (
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// FromMessage classifies a raw MIDI message. A note-on with velocity 0 is a
// note-off; everything that is not a note is EventOther.
func FromMessage(msg midi.Message) contracts.Event {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return contracts.Event{Kind: contracts.EventNoteOn, Channel: ch, Note: key, Velocity: vel}
	case msg.GetNoteEnd(&ch, &key):
		return contracts.Event{Kind: contracts.EventNoteOff, Channel: ch, Note: key}
	default:
		return contracts.Event{Kind: contracts.EventOther, Detail: msg.String()}
	}
}

// NoteOn classifies a decoded note-on triple.
func NoteOn(channel, key, velocity uint8) contracts.Event {
	return FromMessage(midi.NoteOn(channel&0x0f, key&0x7f, velocity&0x7f))
}

// NoteOff classifies a decoded note-off pair.
func NoteOff(channel, key uint8) contracts.Event {
	return FromMessage(midi.NoteOff(channel&0x0f, key&0x7f))
}
