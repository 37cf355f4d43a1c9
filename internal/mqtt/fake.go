package mqtt

import (
	"github.com/sweeney/enviromon/internal/history"
)

// FakePublisher records published samples and events for test assertions.
type FakePublisher struct {
	// Samples contains all telemetry samples that were published.
	Samples []history.Sample

	// Payloads contains the JSON payloads for telemetry samples.
	Payloads [][]byte

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// PublishError, if set, will be returned by PublishSample.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishSample records the telemetry sample.
func (f *FakePublisher) PublishSample(sample history.Sample) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Samples = append(f.Samples, sample)

	payload, err := FormatSamplePayload(sample)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded samples and events.
func (f *FakePublisher) Reset() {
	f.Samples = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
}
