// Package notes maps MIDI note numbers to pitches in 12-tone equal temperament.
package notes

import (
	"fmt"
	"math"
)

const (
	// ConcertA is the reference pitch of A4 in Hz.
	ConcertA = 440.0
	// ConcertANote is the MIDI note number of A4.
	ConcertANote = 69
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Frequency returns the equal-tempered frequency of note in Hz, referenced to
// A4 = 440 Hz. Every integer is accepted; MIDI limits notes to 0-127.
func Frequency(note int) float64 {
	return ConcertA * math.Exp2(float64(note-ConcertANote)/12)
}

// Name returns the scientific pitch name of note, e.g. 60 -> "C4".
func Name(note int) string {
	if note < 0 {
		return fmt.Sprintf("?%d", note)
	}
	return fmt.Sprintf("%s%d", names[note%12], note/12-1)
}
