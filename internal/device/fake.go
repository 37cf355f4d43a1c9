package device

import (
	"errors"
	"time"
)

// FakeSensor is a test double that returns scripted readings.
type FakeSensor struct {
	// Readings contains scripted values. Each call to Read consumes the
	// next one; when exhausted, the last reading repeats.
	Readings []Reading

	// Errors, if non-nil, is consulted in lockstep with Readings: a non-nil
	// entry is returned instead of the reading at the same position.
	Errors []error

	// ReadError, if set, is returned by every Read.
	ReadError error

	// Closed tracks whether Close was called.
	Closed bool

	index int
}

// NewFakeSensor creates a FakeSensor with the given readings.
func NewFakeSensor(readings ...Reading) *FakeSensor {
	return &FakeSensor{Readings: readings}
}

// Read returns the next scripted reading or error.
func (f *FakeSensor) Read() (Reading, error) {
	if f.ReadError != nil {
		return Invalid(), f.ReadError
	}
	if len(f.Readings) == 0 {
		return Invalid(), errors.New("no readings configured")
	}

	i := f.index
	if f.index < len(f.Readings)-1 {
		f.index++
	}

	if i < len(f.Errors) && f.Errors[i] != nil {
		return Invalid(), f.Errors[i]
	}
	return f.Readings[i], nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}

// FakeClock is a test double with manually advanced time.
type FakeClock struct {
	Current time.Time
	millis  int64
}

// NewFakeClock creates a FakeClock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{Current: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	return c.Current
}

// Millis returns the fake monotonic counter.
func (c *FakeClock) Millis() int64 {
	return c.millis
}

// Advance moves both the wall clock and the monotonic counter forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
	c.millis += d.Milliseconds()
}

// Step moves only the wall clock, simulating an RTC adjustment that the
// monotonic counter must not observe.
func (c *FakeClock) Step(d time.Duration) {
	c.Current = c.Current.Add(d)
}
