// Package control owns all mutable monitor state and orchestrates the
// sampling-decision-actuation tick. HTTP handlers and the tick driver share
// one Controller; every state access serializes on its mutex, so a command
// applied between two ticks is visible to the very next tick and to any
// snapshot read issued after the command returns.
package control

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/enviromon/internal/actuator"
	"github.com/sweeney/enviromon/internal/device"
	"github.com/sweeney/enviromon/internal/diag"
	"github.com/sweeney/enviromon/internal/display"
	"github.com/sweeney/enviromon/internal/history"
	"github.com/sweeney/enviromon/internal/logic"
	"github.com/sweeney/enviromon/internal/metrics"
	"github.com/sweeney/enviromon/internal/mqtt"
)

var log = logrus.WithField("component", "control")

// Alert thresholds for the snapshot flags.
const (
	lowHeapBytes = 20000
	lowRSSIdBm   = -80
)

// eventLogCap bounds the rolling event log.
const eventLogCap = 64

// DefaultHistoryInterval is the telemetry sampling interval.
const DefaultHistoryInterval = time.Minute

// Event is one entry of the rolling human-readable event log.
type Event struct {
	Time    time.Time
	Message string
}

// Options wires a Controller. Sensor, Clock, Sink, Display, Diagnostics and
// Store are required; Publisher may be nil to disable the MQTT side channel.
type Options struct {
	Sensor          device.Sensor
	Clock           device.Clock
	Sink            actuator.Sink
	Display         display.Display
	Diagnostics     diag.Collector
	Store           *history.Store
	Publisher       mqtt.Publisher
	HistoryInterval time.Duration
	Automation      logic.Config
}

// Controller owns the actuator state, automation config, schedule trigger,
// last-known-good reading, event log and telemetry store.
type Controller struct {
	mu sync.Mutex

	sensor    device.Sensor
	clock     device.Clock
	sink      actuator.Sink
	display   display.Display
	collector diag.Collector
	store     *history.Store
	publisher mqtt.Publisher

	historyInterval time.Duration
	nextHistoryAt   int64 // monotonic millis deadline for the next sample

	actuators logic.ActuatorState
	config    logic.Config
	trigger   logic.TriggerState
	reading   device.Reading // last-known-good; starts at the zero default
	diags     diag.Diagnostics
	events    []Event // oldest first; Snapshot reverses
}

// New creates a Controller and pushes the initial all-off state to the sink
// so physical and logical state agree from the first moment.
func New(opts Options) *Controller {
	interval := opts.HistoryInterval
	if interval <= 0 {
		interval = DefaultHistoryInterval
	}

	c := &Controller{
		sensor:          opts.Sensor,
		clock:           opts.Clock,
		sink:            opts.Sink,
		display:         opts.Display,
		collector:       opts.Diagnostics,
		store:           opts.Store,
		publisher:       opts.Publisher,
		historyInterval: interval,
		config:          opts.Automation,
		trigger:         logic.NewTriggerState(),
	}

	if err := c.sink.Apply(c.actuators); err != nil {
		log.Warnf("initial actuator push failed: %v", err)
		c.logEvent(c.clock.Now(), "actuator init failed")
	}

	return c
}

// Tick runs one sampling-decision-actuation pass. It never fails: a sensor
// outage degrades data quality (last-known-good values), not availability.
func (c *Controller) Tick() {
	sample, publish := c.tickLocked()

	// Publishing can block on the broker; keep it outside the lock so a slow
	// broker never stalls commands or snapshots.
	if publish && c.publisher != nil {
		if err := c.publisher.PublishSample(sample); err != nil {
			log.Warnf("telemetry publish failed: %v", err)
		}
	}
}

func (c *Controller) tickLocked() (history.Sample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics.Ticks.Inc()
	now := c.clock.Now()

	// Last-known-good filter: only valid fields replace stored values.
	r, err := c.sensor.Read()
	if err != nil {
		metrics.SensorErrors.Inc()
		log.Debugf("sensor read failed, keeping last values: %v", err)
	} else {
		if r.TempValid() {
			c.reading.Temperature = r.Temperature
		}
		if r.PressValid() {
			c.reading.Pressure = r.Pressure
		}
	}
	metrics.Temperature.Set(c.reading.Temperature)
	metrics.Pressure.Set(c.reading.Pressure)

	in := logic.Input{
		Temperature: c.reading.Temperature,
		Pressure:    c.reading.Pressure,
		Time:        now,
	}
	next, trig, events := logic.Decide(in, c.config, c.actuators, c.trigger)
	c.actuators = next
	c.trigger = trig
	for _, e := range events {
		log.Infof("event: %s", e.Message)
		c.logEvent(e.Time, e.Message)
	}

	// Idempotent push, even when nothing changed.
	if err := c.sink.Apply(c.actuators); err != nil {
		log.Warnf("actuator push failed: %v", err)
	}

	if err := c.display.Show(now, c.reading); err != nil {
		log.Debugf("display refresh failed: %v", err)
	}

	c.diags = c.collector.Collect()

	// History deadline runs on the monotonic clock, independent of the tick
	// cadence: a slow tick never skips a due sample.
	if c.clock.Millis() < c.nextHistoryAt {
		return history.Sample{}, false
	}
	c.nextHistoryAt = c.clock.Millis() + c.historyInterval.Milliseconds()

	sample := history.Sample{
		Timestamp:   uint32(now.Unix()),
		Temperature: c.reading.Temperature,
		Pressure:    c.reading.Pressure,
		FreeHeap:    c.diags.FreeHeap,
		RSSI:        c.diags.RSSI,
	}
	c.store.Append(sample)
	metrics.HistorySamples.Inc()

	return sample, true
}

// SetActuator applies a manual override to one output and pushes it to the
// sink immediately, without waiting for the next tick. The next tick's
// auto-threshold rule may override the fan again if auto mode is enabled.
func (c *Controller) SetActuator(name string, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "fan":
		c.actuators.Fan = on
	case "light":
		c.actuators.Light = on
	case "lamp":
		c.actuators.Lamp = on
	default:
		return fmt.Errorf("unknown device %q", name)
	}

	if err := c.sink.Apply(c.actuators); err != nil {
		log.Warnf("actuator push failed: %v", err)
	}

	state := "off"
	if on {
		state = "on"
	}
	c.logEvent(c.clock.Now(), fmt.Sprintf("manual %s %s", name, state))
	metrics.Commands.WithLabelValues("actuator").Inc()
	return nil
}

// SetAuto updates the auto-threshold configuration. A non-finite threshold
// is rejected and the prior configuration stays intact.
func (c *Controller) SetAuto(enable bool, threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("invalid threshold")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.AutoFan = enable
	c.config.Threshold = threshold

	if enable {
		c.logEvent(c.clock.Now(), fmt.Sprintf("auto mode on, threshold %.1f", threshold))
	} else {
		c.logEvent(c.clock.Now(), "auto mode off")
	}
	metrics.Commands.WithLabelValues("auto").Inc()
	return nil
}

// SetSchedule updates the schedule configuration. Out-of-range hour or
// minute is rejected and the prior configuration stays intact.
func (c *Controller) SetSchedule(enable bool, hour, minute int) error {
	if !logic.ValidSchedule(hour, minute) {
		return fmt.Errorf("invalid schedule time %d:%d", hour, minute)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.ScheduleEnabled = enable
	c.config.ScheduleHour = hour
	c.config.ScheduleMinute = minute

	state := "disabled"
	if enable {
		state = "enabled"
	}
	c.logEvent(c.clock.Now(), fmt.Sprintf("schedule %02d:%02d %s", hour, minute, state))
	metrics.Commands.WithLabelValues("schedule").Inc()
	return nil
}

// Snapshot is a point-in-time view of monitor state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	Now       time.Time
	Reading   device.Reading
	Actuators logic.ActuatorState
	Config    logic.Config
	Diag      diag.Diagnostics
	Events    []Event // newest first
	LowHeap   bool
	LowRSSI   bool
}

// Snapshot returns a point-in-time copy of the monitor state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]Event, len(c.events))
	for i, e := range c.events {
		events[len(c.events)-1-i] = e
	}

	return Snapshot{
		Now:       c.clock.Now(),
		Reading:   c.reading,
		Actuators: c.actuators,
		Config:    c.config,
		Diag:      c.diags,
		Events:    events,
		LowHeap:   c.diags.FreeHeap > 0 && c.diags.FreeHeap < lowHeapBytes,
		LowRSSI:   c.diags.RSSI != 0 && c.diags.RSSI < lowRSSIdBm,
	}
}

// History returns the ordered telemetry view, oldest to newest.
func (c *Controller) History() []history.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// WriteCSV serializes the ordered telemetry view as CSV.
func (c *Controller) WriteCSV(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.WriteCSV(w)
}

// logEvent appends to the rolling log, evicting the oldest entry when full.
// Caller must hold the lock.
func (c *Controller) logEvent(now time.Time, msg string) {
	e := Event{Time: now, Message: msg}
	if len(c.events) >= eventLogCap {
		copy(c.events, c.events[1:])
		c.events[len(c.events)-1] = e
		return
	}
	c.events = append(c.events, e)
}
