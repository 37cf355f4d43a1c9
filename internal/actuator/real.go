//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/enviromon/internal/logic"
)

// RealSink drives relay outputs using the Linux GPIO character device.
type RealSink struct {
	chip  *gpiocdev.Chip
	fan   *gpiocdev.Line
	light *gpiocdev.Line
	lamp  *gpiocdev.Line
}

// NewRealSink opens the chip and requests the three relay lines as outputs,
// initially low (all actuators off).
func NewRealSink(chipName string, pinFan, pinLight, pinLamp int) (*RealSink, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	s := &RealSink{chip: chip}
	pins := []struct {
		pin  int
		name string
		dst  **gpiocdev.Line
	}{
		{pinFan, "fan", &s.fan},
		{pinLight, "light", &s.light},
		{pinLamp, "lamp", &s.lamp},
	}
	for _, p := range pins {
		line, err := chip.RequestLine(p.pin, gpiocdev.AsOutput(0))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", p.name, p.pin, err)
		}
		*p.dst = line
	}

	return s, nil
}

// Apply drives all three lines to the given state.
func (s *RealSink) Apply(state logic.ActuatorState) error {
	if err := s.fan.SetValue(level(state.Fan)); err != nil {
		return fmt.Errorf("set fan: %w", err)
	}
	if err := s.light.SetValue(level(state.Light)); err != nil {
		return fmt.Errorf("set light: %w", err)
	}
	if err := s.lamp.SetValue(level(state.Lamp)); err != nil {
		return fmt.Errorf("set lamp: %w", err)
	}
	return nil
}

// Close drives all outputs low and releases GPIO resources, so the relays
// are off across a daemon restart.
func (s *RealSink) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{s.fan, s.light, s.lamp} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear line: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
