package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/enviromon/internal/history"
)

func TestFormatSamplePayload(t *testing.T) {
	payload, err := FormatSamplePayload(history.Sample{
		Timestamp:   1700000000,
		Temperature: 23.5,
		Pressure:    1013.25,
		FreeHeap:    48123,
		RSSI:        -61,
	})
	require.NoError(t, err)

	var decoded TelemetryPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, uint32(1700000000), decoded.Telemetry.Timestamp)
	assert.Equal(t, 23.5, decoded.Telemetry.Temperature)
	assert.Equal(t, 1013.25, decoded.Telemetry.Pressure)
	assert.Equal(t, uint32(48123), decoded.Telemetry.FreeHeap)
	assert.Equal(t, -61, decoded.Telemetry.RSSI)
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	require.NoError(t, err)

	var decoded SystemPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "2026-03-14T06:00:00Z", decoded.System.Timestamp)
	assert.Equal(t, "SHUTDOWN", decoded.System.Event)
	assert.Equal(t, "SIGTERM", decoded.System.Reason)
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "reason")
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	sample := history.Sample{Timestamp: 42, Temperature: 20}
	require.NoError(t, f.PublishSample(sample))
	require.NoError(t, f.PublishSystem(SystemEvent{Event: "STARTUP"}))

	assert.Equal(t, []history.Sample{sample}, f.Samples)
	assert.Len(t, f.Payloads, 1)
	assert.Len(t, f.SystemEvents, 1)

	f.PublishError = errors.New("broker gone")
	assert.Error(t, f.PublishSample(sample))
	assert.Len(t, f.Samples, 1, "failed publish must not record")
}
