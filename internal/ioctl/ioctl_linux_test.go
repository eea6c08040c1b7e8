package ioctl

import "testing"

// Request numbers cross-checked against the kernel headers.
func TestRequestNumbers(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"SNDRV_SEQ_IOCTL_PVERSION", IOR('S', 0x00, 4), 0x80045300},
		{"SNDRV_SEQ_IOCTL_CLIENT_ID", IOR('S', 0x01, 4), 0x80045301},
		{"SNDRV_SEQ_IOCTL_SET_CLIENT_INFO", IOW('S', 0x11, 188), 0x40bc5311},
		{"EVIOCGID", IOR('E', 0x02, 8), 0x80084502},
		{"EVIOCGNAME(128)", IOR('E', 0x06, 128), 0x80804506},
		{"KIOCSOUND", IO('K', 0x2F), 0x4B2F},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %#x, want %#x", tt.name, tt.got, tt.want)
		}
	}
}
