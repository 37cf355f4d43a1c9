// Package actuator drives the three binary outputs (fan, light, lamp) with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device; the fake implementation allows testing without hardware.
package actuator

import "github.com/sweeney/enviromon/internal/logic"

// Sink applies a desired actuator state to the physical outputs.
type Sink interface {
	// Apply drives all three outputs to the given state. Idempotent: the
	// control loop calls it every tick even when nothing changed.
	Apply(state logic.ActuatorState) error

	// Close releases output resources.
	Close() error
}

// Relay pin definitions (BCM numbering).
const (
	DefaultPinFan   = 17
	DefaultPinLight = 27
	DefaultPinLamp  = 22
)

// DefaultChip is the GPIO chip device name on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// NopSink discards applied states. Used when GPIO bring-up fails and the
// loop continues degraded.
type NopSink struct{}

// Apply does nothing.
func (NopSink) Apply(logic.ActuatorState) error { return nil }

// Close does nothing.
func (NopSink) Close() error { return nil }
