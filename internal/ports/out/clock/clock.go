package clock

import "time"

// Clock supplies the current time to the application services. Services
// never call time.Now directly; token expiry and record timestamps all
// flow through this interface so tests can pin the instant.
type Clock interface {
	Now() time.Time
}
