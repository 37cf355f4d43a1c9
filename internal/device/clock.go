package device

import "time"

// Clock supplies wall-clock time and a monotonic millisecond counter.
// The control loop schedules history writes against Millis, never against
// wall-clock arithmetic, so a clock step cannot skip or double a write.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// Millis returns milliseconds elapsed since the clock was created.
	// Monotonic: unaffected by wall-clock adjustments.
	Millis() int64
}

// SystemClock is the production Clock backed by the OS.
type SystemClock struct {
	origin time.Time
}

// NewSystemClock creates a SystemClock with its monotonic origin at now.
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Now returns the current wall-clock time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// Millis returns milliseconds since the clock was created.
func (c *SystemClock) Millis() int64 {
	return time.Since(c.origin).Milliseconds()
}
