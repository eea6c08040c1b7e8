package shutdown

import (
	"context"
	"testing"
)

func TestCancelRaisesFlag(t *testing.T) {
	c := New()
	defer c.Stop()

	if c.Requested() {
		t.Fatal("flag should start lowered")
	}
	c.Cancel()
	if !c.Requested() {
		t.Fatal("Cancel should raise the flag")
	}
	c.Cancel()
	if !c.Requested() {
		t.Fatal("flag should stay raised")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New()
	c.Install()
	c.Stop()
	c.Stop()
	if c.Requested() {
		t.Error("Stop must not raise the flag")
	}
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := FromContext(ctx)
	if src.Requested() {
		t.Fatal("live context should not request shutdown")
	}
	cancel()
	if !src.Requested() {
		t.Fatal("cancelled context should request shutdown")
	}
}
