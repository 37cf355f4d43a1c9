// Package mqtt provides the telemetry side channel with abstraction for
// testing. Each history sample and lifecycle event is exported one-way to a
// local broker; publish failure never affects the control loop.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/enviromon/internal/history"
)

// TopicTelemetry is the MQTT topic for telemetry samples.
const TopicTelemetry = "enviromon/telemetry"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "enviromon/system"

// Publisher publishes telemetry and lifecycle events.
type Publisher interface {
	// PublishSample exports one telemetry sample.
	// Returns error if publishing fails (must not crash the process).
	PublishSample(sample history.Sample) error

	// PublishSystem sends a lifecycle event (startup, shutdown).
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// SystemEvent represents a lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM" (shutdown only)
	Retained  bool
}

// TelemetryPayload is the MQTT message payload for a sample.
type TelemetryPayload struct {
	Telemetry TelemetryInner `json:"telemetry"`
}

// TelemetryInner contains the sample fields.
type TelemetryInner struct {
	Timestamp   uint32  `json:"timestamp"`
	Temperature float64 `json:"temp"`
	Pressure    float64 `json:"press"`
	FreeHeap    uint32  `json:"heap"`
	RSSI        int     `json:"rssi"`
}

// FormatSamplePayload creates the JSON payload for a telemetry sample.
func FormatSamplePayload(sample history.Sample) ([]byte, error) {
	return json.Marshal(TelemetryPayload{
		Telemetry: TelemetryInner{
			Timestamp:   sample.Timestamp,
			Temperature: sample.Temperature,
			Pressure:    sample.Pressure,
			FreeHeap:    sample.FreeHeap,
			RSSI:        sample.RSSI,
		},
	})
}

// SystemPayload is the MQTT message payload for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
