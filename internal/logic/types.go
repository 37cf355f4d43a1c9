// Package logic contains pure automation logic for the environmental monitor.
// This package has NO external dependencies (no I2C, GPIO, HTTP, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// ActuatorState holds the desired on/off state of the three outputs.
// Owned by the control loop; automation touches only Fan.
type ActuatorState struct {
	Fan   bool
	Light bool
	Lamp  bool
}

// Config holds the automation configuration read on every tick.
type Config struct {
	// AutoFan enables continuous threshold control of the fan.
	AutoFan bool
	// Threshold is the temperature (°C) at or above which the fan runs.
	Threshold float64
	// ScheduleEnabled enables the one-shot daily fan schedule.
	ScheduleEnabled bool
	// ScheduleHour is the schedule hour, 0-23.
	ScheduleHour int
	// ScheduleMinute is the schedule minute, 0-59.
	ScheduleMinute int
}

// NeverFired is the TriggerState sentinel meaning the schedule has not fired.
const NeverFired = -1

// TriggerState records the last wall-clock minute the schedule fired in.
// Comparing against the current minute makes the schedule edge-triggered:
// it fires once per qualifying minute even when ticks run every second.
type TriggerState struct {
	LastFiredMinute int
}

// NewTriggerState returns a TriggerState that has never fired.
func NewTriggerState() TriggerState {
	return TriggerState{LastFiredMinute: NeverFired}
}

// Input is a single sample fed to Decide. The caller guarantees the
// temperature and pressure are last-known-good values, never invalid.
type Input struct {
	Temperature float64
	Pressure    float64
	Time        time.Time
}

// Event is a human-readable automation event to be logged by the caller.
type Event struct {
	Time    time.Time
	Message string
}
