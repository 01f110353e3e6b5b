//go:build unix

package flock

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock acquires an exclusive flock(2) on f. Non-blocking attempts add
// LOCK_NB and surface contention as EWOULDBLOCK from the syscall.
func flock(f *os.File, blocking bool) error {
	op := unix.LOCK_EX
	if !blocking {
		op |= unix.LOCK_NB
	}
	return unix.Flock(int(f.Fd()), op)
}

// funlock releases the flock on f.
func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// dirWritable reports whether the current user can create files in dir.
func dirWritable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
