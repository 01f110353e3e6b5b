// Package flock provides advisory file locking on top of the operating
// system's exclusive-lock primitive, for coordinating access to a file
// across independent processes — safe cache-file writers being the
// typical use. A Lock either locks the target file itself (LockSelf) or
// a sidecar "<file>.lock" marker (LockExternal), with blocking,
// non-blocking, and bounded-retry acquisition.
//
// Locks are advisory: only other callers using the same mechanism
// observe them. Sidecar files are never deleted, and their presence does
// not mean a lock is held — liveness is only ever decided by the OS lock
// table. Callers must release explicitly (defer l.Unlock(), or the With
// helper); a finalizer backstop exists, but garbage-collection timing
// must not be the primary release mechanism.
//
// A Lock instance is a synchronous state machine over one file handle
// and is meant for one goroutine at a time; exclusion is between
// instances and between processes, not within an instance.
package flock

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Strategy selects which file the OS lock is taken on.
type Strategy int

const (
	// LockSelf locks the target file directly.
	LockSelf Strategy = iota
	// LockExternal locks a "<file>.lock" sidecar next to the target,
	// falling back to the system temp directory when the target's
	// directory is not writable.
	LockExternal
)

// Mode describes the open intent for Self locks, standing in for a
// file-open mode string. The zero value is a creating read-write open,
// so the first locker materialises the file. External locks ignore the
// configured mode and decide at open time.
type Mode int

const (
	ModeWrite    Mode = iota // open read-write, create if missing (default)
	ModeRead                 // open read-only, file must exist
	ModeTruncate             // open read-write, create, truncate ("wb")
	ModeAppend               // open write-only, create, append
)

// flag maps a Mode to os.OpenFile flags.
func (m Mode) flag() int {
	switch m {
	case ModeRead:
		return os.O_RDONLY
	case ModeTruncate:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return os.O_RDWR | os.O_CREATE
	}
}

// Retry policy bounds. SetRetryDelay clamps to MinRetryDelay rather
// than failing, so a zero or negative delay can never spin the retry
// loop hot.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 100 * time.Millisecond
	MinRetryDelay      = 100 * time.Microsecond
)

// Config holds lock configuration options.
type Config struct {
	Mode          Mode          // Open mode for Self locks (External decides dynamically)
	Perm          os.FileMode   // Permission bits for created files (default 0644)
	HashAlgorithm int           // 1=xxHash3, 2=FNV1a, 3=Blake2b (temp fallback naming)
	MaxAttempts   int           // Acquire attempts (default 3)
	RetryDelay    time.Duration // Delay between Acquire attempts (default 100ms)
}

// Lock owns at most one open file handle and the OS-level exclusive
// lock on it. The target path is fixed at construction; handle and
// acquisition state change with each attempt and release. Instances are
// reusable: after Unlock the same Lock may acquire again.
type Lock struct {
	strategy Strategy
	path     string // resolved target actually opened and locked
	config   Config
	f        *os.File
	writable bool // effective mode of the current handle allows writes
	acquired bool
}

// New creates a Lock for path with the given strategy. The directory of
// path must resolve to an existing directory; anything else is
// ErrInvalidPath. No file is opened or created here — that happens on
// the first lock attempt.
func New(strategy Strategy, path string, config Config) (*Lock, error) {
	if config.Perm == 0 {
		config.Perm = 0644
	}
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, filepath.Dir(path))
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, dir)
	}

	base := filepath.Base(path)
	target := filepath.Join(dir, base)
	if strategy == LockExternal {
		if dirWritable(dir) {
			target = filepath.Join(dir, base+".lock")
		} else {
			target = filepath.Join(os.TempDir(), hash(dir, config.HashAlgorithm)+"_"+base+".lock")
		}
	}

	l := &Lock{strategy: strategy, path: target, config: config}
	// Backstop only: the documented release path is Unlock / With.
	runtime.SetFinalizer(l, (*Lock).Unlock)
	return l, nil
}

// openTarget opens the target with the effective mode and reports
// whether that mode allows writing. Self locks use the configured mode.
// External locks decide here: read when the sidecar already exists,
// otherwise a creating write so the first locker materialises it. An
// External write open that fails (lost the creation race to a locker
// that opened the file with tighter permissions) is retried once
// read-only; any other failure yields no handle.
func (l *Lock) openTarget() (*os.File, bool, error) {
	mode := l.config.Mode
	if l.strategy == LockExternal {
		mode = ModeWrite
		if _, err := os.Stat(l.path); err == nil {
			mode = ModeRead
		}
	}
	f, err := os.OpenFile(l.path, mode.flag(), l.config.Perm)
	if err != nil && l.strategy == LockExternal && mode != ModeRead {
		mode = ModeRead
		f, err = os.OpenFile(l.path, mode.flag(), l.config.Perm)
	}
	return f, mode != ModeRead, err
}

// tryLock is a single acquisition attempt: open the target, then ask
// the OS for the exclusive lock, blocking or failing immediately. Every
// failure path releases, so a false return never leaves a handle open.
func (l *Lock) tryLock(blocking bool) bool {
	if l.acquired {
		return true
	}
	f, writable, err := l.openTarget()
	if err != nil {
		l.Unlock()
		return false
	}
	l.f = f
	l.writable = writable
	if flock(f, blocking) != nil {
		l.Unlock()
		return false
	}
	l.acquired = true
	if l.strategy == LockExternal {
		l.writeOwner()
	}
	return true
}

// TryLock makes one non-blocking attempt. It returns true if the lock
// was acquired (or already held by this instance), false on contention
// or open failure.
func (l *Lock) TryLock() bool { return l.tryLock(false) }

// Lock makes one blocking attempt, waiting until the OS grants the
// lock. There is no timeout; false is returned only when opening the
// target or the lock call itself fails.
func (l *Lock) Lock() bool { return l.tryLock(true) }

// Acquire makes up to MaxAttempts non-blocking attempts, sleeping
// RetryDelay between attempts. It returns true on the first success,
// false once attempts are exhausted — with no handle left open.
func (l *Lock) Acquire() bool {
	for i := 0; i < l.config.MaxAttempts; i++ {
		if i > 0 {
			time.Sleep(l.config.RetryDelay)
		}
		if l.tryLock(false) {
			return true
		}
	}
	return false
}

// Unlock flushes, releases the OS lock, and closes the handle. All
// errors are swallowed: whatever the flush or syscalls report, the
// instance always ends with no handle and acquired false. Safe to call
// when nothing is held, and safe to call repeatedly.
func (l *Lock) Unlock() {
	if l.f != nil {
		_ = l.f.Sync()
		_ = funlock(l.f)
		_ = l.f.Close()
	}
	l.f = nil
	l.writable = false
	l.acquired = false
}

// File returns the currently held handle, or nil when the lock is not
// held. The handle is owned by the Lock; callers must not close it.
func (l *Lock) File() *os.File { return l.f }

// Strategy returns the locking strategy chosen at construction.
func (l *Lock) Strategy() Strategy { return l.strategy }

// Acquired reports whether this instance currently holds the OS lock.
func (l *Lock) Acquired() bool { return l.acquired }

// Path returns the resolved path that is actually opened and locked:
// the target file for Self locks, the sidecar for External locks.
func (l *Lock) Path() string { return l.path }

// SetMaxAttempts sets the Acquire attempt budget, clamping below 1.
func (l *Lock) SetMaxAttempts(n int) {
	if n < 1 {
		n = 1
	}
	l.config.MaxAttempts = n
}

// SetRetryDelay sets the pause between Acquire attempts, clamping
// below MinRetryDelay.
func (l *Lock) SetRetryDelay(d time.Duration) {
	if d < MinRetryDelay {
		d = MinRetryDelay
	}
	l.config.RetryDelay = d
}
