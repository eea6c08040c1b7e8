package tone

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

func TestHz(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{-12, 0},
		{math.NaN(), 0},
		{440, 440},
		{261.6255653005986, 262},
		{27.5, 28},
		{1e9, MaxFrequency},
	}
	for _, tt := range tests {
		if got := Hz(tt.in); got != tt.want {
			t.Errorf("Hz(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeFrame(t *testing.T) {
	got := EncodeFrame(440) // 0x01B8
	want := []byte{SOF0, SOF1, 3, CmdSetTone, 0x01, 0xB8, 3 ^ CmdSetTone ^ 0x01 ^ 0xB8}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeFrame(440) = % x, want % x", got, want)
	}

	silence := EncodeFrame(0)
	if silence[4] != 0 || silence[5] != 0 {
		t.Errorf("silence frame payload = % x", silence[4:6])
	}
}

type fakePort struct {
	bytes.Buffer
	closed   int
	writeErr error
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.Buffer.Write(b)
}

func (p *fakePort) Close() error {
	p.closed++
	return nil
}

func TestSerialSink(t *testing.T) {
	port := &fakePort{}
	sink := newSerialSink(port, "/dev/ttyUSB0", 9600)

	if err := sink.SetFrequency(440); err != nil {
		t.Fatalf("SetFrequency failed: %v", err)
	}
	if err := sink.SetFrequency(0); err != nil {
		t.Fatalf("SetFrequency(0) failed: %v", err)
	}
	want := append(EncodeFrame(440), EncodeFrame(0)...)
	if !bytes.Equal(port.Bytes(), want) {
		t.Errorf("written = % x, want % x", port.Bytes(), want)
	}

	info, err := sink.Describe()
	if err != nil || info.Path != "/dev/ttyUSB0" {
		t.Errorf("Describe = %+v, %v", info, err)
	}

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if port.closed != 1 {
		t.Errorf("port closed %d times, want 1", port.closed)
	}
	if err := sink.SetFrequency(440); !errors.Is(err, ErrClosed) {
		t.Errorf("SetFrequency after Close = %v, want ErrClosed", err)
	}
}

// Sending silence twice leaves the device in the same state as once.
func TestSerialSilenceIdempotent(t *testing.T) {
	once, twice := &fakePort{}, &fakePort{}
	a := newSerialSink(once, "a", 9600)
	b := newSerialSink(twice, "b", 9600)

	_ = a.SetFrequency(0)
	_ = b.SetFrequency(0)
	_ = b.SetFrequency(0)

	last := twice.Bytes()[len(twice.Bytes())-len(once.Bytes()):]
	if !bytes.Equal(last, once.Bytes()) {
		t.Errorf("final command differs: % x vs % x", last, once.Bytes())
	}
}

func TestSerialWriteError(t *testing.T) {
	boom := errors.New("unplugged")
	sink := newSerialSink(&fakePort{writeErr: boom}, "x", 9600)
	if err := sink.SetFrequency(440); !errors.Is(err, boom) {
		t.Errorf("SetFrequency = %v, want wrapped %v", err, boom)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(&contracts.BridgeOptions{ToneBackend: "theremin"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenSerialWithoutDevice(t *testing.T) {
	_, err := Open(&contracts.BridgeOptions{ToneBackend: BackendSerial})
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("Open = %v, want ErrNoDevice", err)
	}
}

func TestDefaultDevice(t *testing.T) {
	if DefaultDevice(BackendEvdev) != DefaultEvdevPath {
		t.Error("evdev default path")
	}
	if DefaultDevice(BackendSerial) != "" {
		t.Error("serial has no default port")
	}
}
