package device

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySensorOpensOnFirstRead(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	inner := NewFakeSensor(Reading{Temperature: 21.5, Pressure: 1010})

	opened := 0
	s := NewRetrySensor(func() (Sensor, error) {
		opened++
		return inner, nil
	}, clock)

	assert.False(t, s.Available())

	r, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, 21.5, r.Temperature)
	assert.Equal(t, 1, opened)
	assert.True(t, s.Available())

	// Subsequent reads reuse the opened sensor.
	_, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
}

func TestRetrySensorBacksOffAfterFailure(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	attempts := 0
	s := NewRetrySensor(func() (Sensor, error) {
		attempts++
		return nil, errors.New("no such device")
	}, clock)

	_, err := s.Read()
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)

	// Immediately after a failure the next read must not retry the open.
	_, err = s.Read()
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)

	// Once the backoff interval passes, a new attempt is made.
	clock.Advance(2 * time.Minute)
	_, err = s.Read()
	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrySensorRecovers(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	inner := NewFakeSensor(Reading{Temperature: 19, Pressure: 1002})

	fail := true
	s := NewRetrySensor(func() (Sensor, error) {
		if fail {
			return nil, errors.New("bus busy")
		}
		return inner, nil
	}, clock)

	_, err := s.Read()
	assert.Error(t, err)

	fail = false
	clock.Advance(2 * time.Minute)
	r, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, 19.0, r.Temperature)

	require.NoError(t, s.Close())
	assert.True(t, inner.Closed)
}

func TestReadingValidity(t *testing.T) {
	r := Reading{Temperature: 23.5, Pressure: 1013}
	assert.True(t, r.TempValid())
	assert.True(t, r.PressValid())

	inv := Invalid()
	assert.False(t, inv.TempValid())
	assert.False(t, inv.PressValid())
}
