package clock

import "time"

// SystemClock reads the wall clock, always in UTC. Stored timestamps and
// token expiries are compared in UTC throughout, so the conversion
// happens once here.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
