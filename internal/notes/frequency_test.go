package notes

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestConcertA(t *testing.T) {
	if got := Frequency(69); math.Abs(got-440.0) > tolerance {
		t.Fatalf("Frequency(69) = %v, want 440", got)
	}
}

func TestMonotonic(t *testing.T) {
	prev := Frequency(0)
	for n := 1; n <= 127; n++ {
		f := Frequency(n)
		if f <= prev {
			t.Fatalf("Frequency(%d) = %v is not above Frequency(%d) = %v", n, f, n-1, prev)
		}
		prev = f
	}
}

func TestOctaveDoubling(t *testing.T) {
	for n := 0; n+12 <= 127; n++ {
		lo, hi := Frequency(n), Frequency(n+12)
		if math.Abs(hi-2*lo) > tolerance*hi {
			t.Errorf("Frequency(%d) = %v, want 2*Frequency(%d) = %v", n+12, hi, n, 2*lo)
		}
	}
}

func TestDeterministic(t *testing.T) {
	for n := 0; n <= 127; n++ {
		if Frequency(n) != Frequency(n) {
			t.Fatalf("Frequency(%d) is not deterministic", n)
		}
	}
}

func TestKnownPitches(t *testing.T) {
	tests := []struct {
		note int
		hz   float64
	}{
		{60, 261.6255653005986},
		{57, 220},
		{81, 880},
		{21, 27.5},
	}
	for _, tt := range tests {
		if got := Frequency(tt.note); math.Abs(got-tt.hz) > 1e-6 {
			t.Errorf("Frequency(%d) = %v, want %v", tt.note, got, tt.hz)
		}
	}
}

func TestName(t *testing.T) {
	tests := map[int]string{60: "C4", 69: "A4", 0: "C-1", 127: "G9", 61: "C#4", -1: "?-1"}
	for note, want := range tests {
		if got := Name(note); got != want {
			t.Errorf("Name(%d) = %q, want %q", note, got, want)
		}
	}
}
