package schedule

import "time"

// Cancel stops a timer. Calling it more than once, or after a one-shot timer
// has fired, is a no-op.
type Cancel func()

type Scheduler interface {
	// Every calls fn each period, first after one period has elapsed.
	Every(period time.Duration, fn func()) Cancel
	// After calls fn once after delay.
	After(delay time.Duration, fn func()) Cancel
	// Now is the time elapsed since the scheduler was created.
	Now() time.Duration
}
