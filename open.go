// Convenience acquisition entry points.
//
// Open is the one-call path for the common case: lock the file itself,
// with the attempt policy packed into two numbers. With adds the scoped
// acquire/run/release pattern so a caller cannot forget the release on
// an error path.
package flock

import "time"

// Open constructs a Self lock on path and attempts acquisition
// according to attempts:
//
//	attempts <= 0  one non-blocking attempt
//	attempts == 1  one blocking attempt (waits for the holder)
//	attempts  > 1  attempts non-blocking tries, sleeping delay between
//	               them (delay <= 0 keeps the default)
//
// On success the caller owns the returned Lock and must eventually call
// Unlock. Contention is reported as ErrNotAcquired; ErrInvalidPath
// means path's directory does not exist.
func Open(path string, mode Mode, attempts int, delay time.Duration) (*Lock, error) {
	l, err := New(LockSelf, path, Config{Mode: mode})
	if err != nil {
		return nil, err
	}

	var ok bool
	if attempts > 1 {
		l.SetMaxAttempts(attempts)
		if delay > 0 {
			l.SetRetryDelay(delay)
		}
		ok = l.Acquire()
	} else {
		ok = l.tryLock(attempts == 1)
	}

	if !ok {
		l.Unlock()
		return nil, ErrNotAcquired
	}
	return l, nil
}

// With acquires a blocking Self lock on path, runs fn, and releases on
// every exit path. The error is fn's, unless acquisition itself failed.
func With(path string, mode Mode, fn func() error) error {
	l, err := Open(path, mode, 1, 0)
	if err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}
