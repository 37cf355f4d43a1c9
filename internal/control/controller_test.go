package control

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/enviromon/internal/actuator"
	"github.com/sweeney/enviromon/internal/device"
	"github.com/sweeney/enviromon/internal/diag"
	"github.com/sweeney/enviromon/internal/display"
	"github.com/sweeney/enviromon/internal/history"
	"github.com/sweeney/enviromon/internal/logic"
	"github.com/sweeney/enviromon/internal/mqtt"
)

type fixture struct {
	ctrl      *Controller
	sensor    *device.FakeSensor
	clock     *device.FakeClock
	sink      *actuator.FakeSink
	disp      *display.Fake
	publisher *mqtt.FakePublisher
	store     *history.Store
}

func newFixture(t *testing.T, cfg logic.Config, readings ...device.Reading) *fixture {
	t.Helper()

	if len(readings) == 0 {
		readings = []device.Reading{{Temperature: 21, Pressure: 1010}}
	}

	f := &fixture{
		sensor:    device.NewFakeSensor(readings...),
		clock:     device.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)),
		sink:      &actuator.FakeSink{},
		disp:      &display.Fake{},
		publisher: mqtt.NewFakePublisher(),
		store:     history.NewStore(5),
	}
	f.ctrl = New(Options{
		Sensor:          f.sensor,
		Clock:           f.clock,
		Sink:            f.sink,
		Display:         f.disp,
		Diagnostics:     &diag.Fake{D: diag.Diagnostics{FreeHeap: 48000, RSSI: -61}, Clock: f.clock},
		Store:           f.store,
		Publisher:       f.publisher,
		HistoryInterval: time.Minute,
		Automation:      cfg,
	})
	return f
}

func TestNewPushesInitialState(t *testing.T) {
	f := newFixture(t, logic.Config{})
	require.Len(t, f.sink.Applied, 1)
	assert.Equal(t, logic.ActuatorState{}, f.sink.Applied[0])
}

func TestTickUpdatesReadingAndDisplay(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 23.5, Pressure: 1013.2})

	f.ctrl.Tick()

	snap := f.ctrl.Snapshot()
	assert.Equal(t, 23.5, snap.Reading.Temperature)
	assert.Equal(t, 1013.2, snap.Reading.Pressure)
	require.Len(t, f.disp.Lines, 1)
	assert.Contains(t, f.disp.Lines[0], "23.5")
}

func TestTickPushesSinkEvenWhenUnchanged(t *testing.T) {
	f := newFixture(t, logic.Config{})

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Second)
		f.ctrl.Tick()
	}

	// One initial push plus one per tick.
	assert.Len(t, f.sink.Applied, 4)
}

func TestLastKnownGoodOnInvalidReading(t *testing.T) {
	f := newFixture(t, logic.Config{},
		device.Reading{Temperature: 23.5, Pressure: 1013},
		device.Invalid(),
	)

	f.ctrl.Tick()
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	snap := f.ctrl.Snapshot()
	assert.Equal(t, 23.5, snap.Reading.Temperature)
	assert.Equal(t, 1013.0, snap.Reading.Pressure)
}

func TestLastKnownGoodOnSensorError(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 19, Pressure: 1005})
	f.sensor.Errors = []error{nil, errors.New("bus timeout")}

	f.ctrl.Tick()
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	snap := f.ctrl.Snapshot()
	assert.Equal(t, 19.0, snap.Reading.Temperature)
}

func TestPartiallyInvalidReading(t *testing.T) {
	f := newFixture(t, logic.Config{},
		device.Reading{Temperature: 22, Pressure: 1000},
		device.Reading{Temperature: 24, Pressure: math.NaN()},
	)

	f.ctrl.Tick()
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	snap := f.ctrl.Snapshot()
	assert.Equal(t, 24.0, snap.Reading.Temperature, "valid field updates")
	assert.Equal(t, 1000.0, snap.Reading.Pressure, "invalid field keeps last value")
}

func TestManualOverridePersistsAcrossTicks(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 40, Pressure: 1000})

	require.NoError(t, f.ctrl.SetActuator("fan", true))
	assert.True(t, f.sink.Last().Fan, "override pushed immediately")

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Second)
		f.ctrl.Tick()
	}

	assert.True(t, f.ctrl.Snapshot().Actuators.Fan)
}

func TestAutoModeOverridesManualOnNextTick(t *testing.T) {
	f := newFixture(t,
		logic.Config{AutoFan: true, Threshold: 25},
		device.Reading{Temperature: 20, Pressure: 1000},
	)

	require.NoError(t, f.ctrl.SetActuator("fan", true))
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	assert.False(t, f.ctrl.Snapshot().Actuators.Fan, "auto threshold wins over manual")
	assert.False(t, f.sink.Last().Fan)
}

func TestLightAndLampUntouchedByTicks(t *testing.T) {
	f := newFixture(t, logic.Config{AutoFan: true, Threshold: 10},
		device.Reading{Temperature: 30, Pressure: 1000})

	require.NoError(t, f.ctrl.SetActuator("light", true))
	require.NoError(t, f.ctrl.SetActuator("lamp", true))
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	snap := f.ctrl.Snapshot()
	assert.True(t, snap.Actuators.Fan)
	assert.True(t, snap.Actuators.Light)
	assert.True(t, snap.Actuators.Lamp)
}

func TestSetActuatorUnknownDevice(t *testing.T) {
	f := newFixture(t, logic.Config{})
	assert.Error(t, f.ctrl.SetActuator("heater", true))
}

func TestSetScheduleRejectsOutOfRange(t *testing.T) {
	f := newFixture(t, logic.Config{ScheduleEnabled: true, ScheduleHour: 6, ScheduleMinute: 30})

	assert.Error(t, f.ctrl.SetSchedule(true, 6, 90))
	assert.Error(t, f.ctrl.SetSchedule(true, 25, 0))

	cfg := f.ctrl.Snapshot().Config
	assert.True(t, cfg.ScheduleEnabled)
	assert.Equal(t, 6, cfg.ScheduleHour)
	assert.Equal(t, 30, cfg.ScheduleMinute)
}

func TestSetAutoRejectsNonFinite(t *testing.T) {
	f := newFixture(t, logic.Config{Threshold: 25})

	assert.Error(t, f.ctrl.SetAuto(true, math.NaN()))
	cfg := f.ctrl.Snapshot().Config
	assert.False(t, cfg.AutoFan)
	assert.Equal(t, 25.0, cfg.Threshold)
}

func TestSetAutoAndScheduleApply(t *testing.T) {
	f := newFixture(t, logic.Config{})

	require.NoError(t, f.ctrl.SetAuto(true, 24.5))
	require.NoError(t, f.ctrl.SetSchedule(true, 6, 0))

	cfg := f.ctrl.Snapshot().Config
	assert.True(t, cfg.AutoFan)
	assert.Equal(t, 24.5, cfg.Threshold)
	assert.True(t, cfg.ScheduleEnabled)
	assert.Equal(t, 6, cfg.ScheduleHour)
	assert.Equal(t, 0, cfg.ScheduleMinute)
}

func TestHistoryWrittenOnMonotonicDeadline(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 22, Pressure: 1001})

	// First tick writes immediately, then once per elapsed minute.
	f.ctrl.Tick()
	assert.Len(t, f.ctrl.History(), 1)

	for i := 0; i < 59; i++ {
		f.clock.Advance(time.Second)
		f.ctrl.Tick()
	}
	assert.Len(t, f.ctrl.History(), 1, "no sample before the deadline")

	f.clock.Advance(time.Second)
	f.ctrl.Tick()
	require.Len(t, f.ctrl.History(), 2)

	// Publisher saw the same samples.
	assert.Len(t, f.publisher.Samples, 2)
	assert.Equal(t, 22.0, f.publisher.Samples[0].Temperature)
}

func TestSlowTickStillHitsDeadline(t *testing.T) {
	f := newFixture(t, logic.Config{})

	f.ctrl.Tick()
	// One very late tick, three minutes after the last: exactly one sample is
	// due (deadlines are re-armed from now, not accumulated).
	f.clock.Advance(3 * time.Minute)
	f.ctrl.Tick()

	assert.Len(t, f.ctrl.History(), 2)
}

func TestWallClockStepDoesNotTriggerHistory(t *testing.T) {
	f := newFixture(t, logic.Config{})

	f.ctrl.Tick()
	// RTC jumps an hour forward but monotonic time barely moves.
	f.clock.Step(time.Hour)
	f.clock.Advance(time.Second)
	f.ctrl.Tick()

	assert.Len(t, f.ctrl.History(), 1)
}

func TestHistorySampleCarriesDiagnostics(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 22, Pressure: 1001})

	f.ctrl.Tick()
	samples := f.ctrl.History()
	require.Len(t, samples, 1)
	assert.Equal(t, uint32(48000), samples[0].FreeHeap)
	assert.Equal(t, -61, samples[0].RSSI)
	assert.Equal(t, uint32(f.clock.Now().Unix()), samples[0].Timestamp)
}

func TestScheduleFiresThroughController(t *testing.T) {
	f := newFixture(t, logic.Config{ScheduleEnabled: true, ScheduleHour: 12, ScheduleMinute: 1},
		device.Reading{Temperature: 20, Pressure: 1000})

	// Tick once per second across the minute boundary into 12:01.
	fires := 0
	for i := 0; i < 70; i++ {
		f.clock.Advance(time.Second)
		f.ctrl.Tick()
	}
	for _, e := range f.ctrl.Snapshot().Events {
		if e.Message == "scheduled fan on" {
			fires++
		}
	}

	assert.Equal(t, 1, fires)
	assert.True(t, f.ctrl.Snapshot().Actuators.Fan)
}

func TestSnapshotEventsNewestFirst(t *testing.T) {
	f := newFixture(t, logic.Config{})

	require.NoError(t, f.ctrl.SetActuator("fan", true))
	require.NoError(t, f.ctrl.SetActuator("light", true))

	events := f.ctrl.Snapshot().Events
	require.Len(t, events, 2)
	assert.Equal(t, "manual light on", events[0].Message)
	assert.Equal(t, "manual fan on", events[1].Message)
}

func TestEventLogBounded(t *testing.T) {
	f := newFixture(t, logic.Config{})

	for i := 0; i < eventLogCap+10; i++ {
		require.NoError(t, f.ctrl.SetActuator("fan", i%2 == 0))
	}

	events := f.ctrl.Snapshot().Events
	assert.Len(t, events, eventLogCap)
	assert.Equal(t, "manual fan off", events[0].Message, "newest entry survives")
}

func TestAlertFlags(t *testing.T) {
	f := newFixture(t, logic.Config{})

	tests := []struct {
		name    string
		d       diag.Diagnostics
		lowHeap bool
		lowRSSI bool
	}{
		{"healthy", diag.Diagnostics{FreeHeap: 48000, RSSI: -61}, false, false},
		{"low heap", diag.Diagnostics{FreeHeap: 12000, RSSI: -61}, true, false},
		{"low signal", diag.Diagnostics{FreeHeap: 48000, RSSI: -85}, false, true},
		{"unknown signal stays quiet", diag.Diagnostics{FreeHeap: 48000, RSSI: 0}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.ctrl.collector = &diag.Fake{D: tt.d}
			f.clock.Advance(time.Second)
			f.ctrl.Tick()

			snap := f.ctrl.Snapshot()
			assert.Equal(t, tt.lowHeap, snap.LowHeap)
			assert.Equal(t, tt.lowRSSI, snap.LowRSSI)
		})
	}
}

func TestPublishFailureDoesNotAffectLoop(t *testing.T) {
	f := newFixture(t, logic.Config{})
	f.publisher.PublishError = errors.New("broker down")

	f.ctrl.Tick()

	assert.Len(t, f.ctrl.History(), 1, "sample still stored locally")
}

func TestSinkFailureDoesNotAbortTick(t *testing.T) {
	f := newFixture(t, logic.Config{}, device.Reading{Temperature: 25, Pressure: 1000})
	f.sink.ApplyError = errors.New("gpio gone")

	f.ctrl.Tick()

	assert.Equal(t, 25.0, f.ctrl.Snapshot().Reading.Temperature)
	assert.Len(t, f.ctrl.History(), 1)
}
