package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is used to determine "today", the reference date of every ledger.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the civil date of c.Now() in its own location.
// A trip is spent on local calendar days, so the local date is the reference, not the UTC one.
func Today(c Clock) Date {
	return DateOf(c.Now())
}
