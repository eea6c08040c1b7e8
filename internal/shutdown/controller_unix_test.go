//go:build unix

package shutdown

import (
	"syscall"
	"testing"
	"time"
)

func TestSignalRaisesFlag(t *testing.T) {
	c := New()
	c.Install(syscall.SIGUSR1)
	defer c.Stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}

	deadline := time.After(time.Second)
	for !c.Requested() {
		select {
		case <-deadline:
			t.Fatal("Timeout waiting for the signal to raise the flag")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
