package clock

import "time"

// Clock is the server's view of time. Bot move delays and finished-game
// cleanup are scheduled through AfterFunc so tests can drive them.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran
	// or was stopped before.
	Stop() bool
}

// RealClock uses the time package
type RealClock struct{}

func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on its own goroutine after d
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
