//go:build !linux

package actuator

import (
	"errors"

	"github.com/sweeney/enviromon/internal/logic"
)

// RealSink is not available on non-Linux platforms.
type RealSink struct{}

// NewRealSink returns an error on non-Linux platforms.
func NewRealSink(chipName string, pinFan, pinLight, pinLamp int) (*RealSink, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Apply is not implemented on non-Linux platforms.
func (s *RealSink) Apply(logic.ActuatorState) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSink) Close() error {
	return nil
}
