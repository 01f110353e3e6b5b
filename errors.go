package flock

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish a bad input path (fatal, nothing was constructed) from
// ordinary contention (the lock is simply held elsewhere).
var (
	ErrInvalidPath = errors.New("lock path directory does not exist")
	ErrNotAcquired = errors.New("lock not acquired")
)
