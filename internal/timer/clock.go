package timer

import "time"

// Clock abstracts wall-clock reads so tests can simulate suspension: every
// elapsed-time computation in this module goes through it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
