// Configuration option tests.
//
// Config controls open mode, permission bits, hash algorithm for the
// temp fallback, and the retry policy. The zero value must behave: a
// Config{} lock opens read-write-create, creates files 0644, retries 3
// times at 100ms. The setters clamp out-of-range input instead of
// failing, so a caller can never configure a zero-attempt or hot-spin
// retry loop.
package flock

import (
	"path/filepath"
	"testing"
	"time"
)

// TestConfigDefaults verifies that zero-value Config fields are
// replaced with the documented defaults at construction.
func TestConfigDefaults(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data.txt")
	l, err := New(LockSelf, target, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if l.config.Perm != 0644 {
		t.Errorf("Perm = %o, want 0644", l.config.Perm)
	}
	if l.config.HashAlgorithm != AlgXXHash3 {
		t.Errorf("HashAlgorithm = %d, want AlgXXHash3", l.config.HashAlgorithm)
	}
	if l.config.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", l.config.MaxAttempts, DefaultMaxAttempts)
	}
	if l.config.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %v, want %v", l.config.RetryDelay, DefaultRetryDelay)
	}
}

// TestConfigCustom verifies that explicit values override the defaults
// and that the lock remains functional with them.
func TestConfigCustom(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data.txt")
	cfg := Config{
		Mode:          ModeTruncate,
		Perm:          0600,
		HashAlgorithm: AlgBlake2b,
		MaxAttempts:   5,
		RetryDelay:    5 * time.Millisecond,
	}
	l, err := New(LockSelf, target, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Unlock()

	if l.config.MaxAttempts != 5 || l.config.RetryDelay != 5*time.Millisecond {
		t.Errorf("retry policy not preserved: %+v", l.config)
	}
	if !l.TryLock() {
		t.Error("TryLock failed with custom config")
	}
}

// TestSetterClamps verifies the floors: attempts never below 1, delay
// never below MinRetryDelay, both silently clamped.
func TestSetterClamps(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data.txt")
	l, err := New(LockSelf, target, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.SetMaxAttempts(0)
	if l.config.MaxAttempts != 1 {
		t.Errorf("SetMaxAttempts(0): got %d, want 1", l.config.MaxAttempts)
	}
	l.SetMaxAttempts(-7)
	if l.config.MaxAttempts != 1 {
		t.Errorf("SetMaxAttempts(-7): got %d, want 1", l.config.MaxAttempts)
	}
	l.SetMaxAttempts(10)
	if l.config.MaxAttempts != 10 {
		t.Errorf("SetMaxAttempts(10): got %d, want 10", l.config.MaxAttempts)
	}

	l.SetRetryDelay(0)
	if l.config.RetryDelay != MinRetryDelay {
		t.Errorf("SetRetryDelay(0): got %v, want %v", l.config.RetryDelay, MinRetryDelay)
	}
	l.SetRetryDelay(-time.Second)
	if l.config.RetryDelay != MinRetryDelay {
		t.Errorf("SetRetryDelay(-1s): got %v, want %v", l.config.RetryDelay, MinRetryDelay)
	}
	l.SetRetryDelay(time.Second)
	if l.config.RetryDelay != time.Second {
		t.Errorf("SetRetryDelay(1s): got %v, want 1s", l.config.RetryDelay)
	}
}

// TestConfigModeIgnoredByExternal verifies that External locks decide
// their open mode at lock time regardless of the configured Mode — a
// read-only Mode must not prevent the first locker from creating the
// sidecar.
func TestConfigModeIgnoredByExternal(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data.txt")
	l, err := New(LockExternal, target, Config{Mode: ModeRead})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Unlock()

	if !l.TryLock() {
		t.Error("External TryLock failed with ModeRead configured")
	}
}
