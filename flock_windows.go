//go:build windows

package flock

import (
	"os"
	"syscall"
	"unsafe"
)

var (
	modkernel32      = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = modkernel32.NewProc("LockFileEx")
	procUnlockFileEx = modkernel32.NewProc("UnlockFileEx")
)

const (
	// LockFileEx flags
	lockfileExclusiveLock   = 0x00000002
	lockfileFailImmediately = 0x00000001
)

// flock locks bytes 0 to max_uint32 of f exclusively — effectively the
// whole file region for our purposes. Without lockfileFailImmediately
// the call blocks until the region is free.
func flock(f *os.File, blocking bool) error {
	flags := uint32(lockfileExclusiveLock)
	if !blocking {
		flags |= lockfileFailImmediately
	}

	h := syscall.Handle(f.Fd())
	var overlapped syscall.Overlapped

	r1, _, err := procLockFileEx.Call(
		uintptr(h),
		uintptr(flags),
		0,          // Reserved
		0xFFFFFFFF, // Low bytes of length
		0xFFFFFFFF, // High bytes of length
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		return err
	}
	return nil
}

func funlock(f *os.File) error {
	h := syscall.Handle(f.Fd())
	var overlapped syscall.Overlapped

	r1, _, err := procUnlockFileEx.Call(
		uintptr(h),
		0, // Reserved
		0xFFFFFFFF,
		0xFFFFFFFF,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		return err
	}
	return nil
}

// dirWritable probes dir by creating and removing a scratch file; there
// is no Access(W_OK) equivalent that respects ACLs.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".flock-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
