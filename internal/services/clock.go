package services

import "time"

// Clock supplies the current wall-clock time in whole seconds. Lockout
// decisions compare against it, so tests inject a fixed clock.
type Clock interface {
	NowUnix() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) NowUnix() int64 {
	return time.Now().Unix()
}
