package domain

import "time"

// Clock supplies the current time for comparison against event timestamps.
// The state machine never reads the wall clock directly, so tests can pin
// time exactly at window boundaries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() Clock { return systemClock{} }
