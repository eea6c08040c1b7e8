// Package ioctl encodes Linux ioctl request numbers and issues pointer ioctls.
package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	dirNone  = 0
	dirWrite = 1
	dirRead  = 2

	nrShift   = 0
	typeShift = 8
	sizeShift = 16
	dirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<dirShift | size<<sizeShift | typ<<typeShift | nr<<nrShift
}

// IO is the _IO(typ, nr) request number.
func IO(typ byte, nr uintptr) uintptr {
	return ioc(dirNone, uintptr(typ), nr, 0)
}

// IOR is the _IOR(typ, nr, size) request number.
func IOR(typ byte, nr, size uintptr) uintptr {
	return ioc(dirRead, uintptr(typ), nr, size)
}

// IOW is the _IOW(typ, nr, size) request number.
func IOW(typ byte, nr, size uintptr) uintptr {
	return ioc(dirWrite, uintptr(typ), nr, size)
}

// IOWR is the _IOWR(typ, nr, size) request number.
func IOWR(typ byte, nr, size uintptr) uintptr {
	return ioc(dirRead|dirWrite, uintptr(typ), nr, size)
}

// Ptr issues req on fd with a pointer argument.
func Ptr(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
