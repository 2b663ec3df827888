package lifecycle

import "time"

// Clock supplies the current instant. It is the only place "now" is read so
// tests can pin time to a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current instant in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant in UTC.
func (c FixedClock) Now() time.Time {
	return c.Instant.UTC()
}
