package device

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
)

// RetrySensor wraps a sensor whose hardware may not be present at startup.
// Until the underlying sensor opens, Read fails and the control loop runs
// degraded on its last-known-good values; open attempts are spaced by an
// exponential backoff schedule. Initialization failure is never fatal.
type RetrySensor struct {
	open    func() (Sensor, error)
	clock   Clock
	policy  *backoff.ExponentialBackOff
	inner   Sensor
	nextTry time.Time
}

// NewRetrySensor creates a RetrySensor. The first open attempt happens on
// the first Read.
func NewRetrySensor(open func() (Sensor, error), clock Clock) *RetrySensor {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = time.Minute
	policy.MaxElapsedTime = 0 // retry forever
	policy.Reset()

	return &RetrySensor{
		open:   open,
		clock:  clock,
		policy: policy,
	}
}

// Read delegates to the underlying sensor, opening it first if needed.
func (s *RetrySensor) Read() (Reading, error) {
	if s.inner == nil {
		now := s.clock.Now()
		if now.Before(s.nextTry) {
			return Invalid(), fmt.Errorf("sensor unavailable, next attempt at %s", s.nextTry.Format(time.RFC3339))
		}

		inner, err := s.open()
		if err != nil {
			s.nextTry = now.Add(s.policy.NextBackOff())
			return Invalid(), fmt.Errorf("open sensor: %w", err)
		}
		s.inner = inner
	}

	return s.inner.Read()
}

// Available reports whether the underlying sensor has been opened.
func (s *RetrySensor) Available() bool {
	return s.inner != nil
}

// Close releases the underlying sensor if it was opened.
func (s *RetrySensor) Close() error {
	if s.inner == nil {
		return nil
	}
	return s.inner.Close()
}
