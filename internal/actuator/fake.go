package actuator

import "github.com/sweeney/enviromon/internal/logic"

// FakeSink is a test double that records every applied state.
type FakeSink struct {
	// Applied holds each state passed to Apply, in order.
	Applied []logic.ActuatorState

	// ApplyError, if set, is returned by Apply (the state is still recorded).
	ApplyError error

	// Closed tracks whether Close was called.
	Closed bool
}

// Apply records the state.
func (f *FakeSink) Apply(state logic.ActuatorState) error {
	f.Applied = append(f.Applied, state)
	return f.ApplyError
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently applied state, or the zero state if none.
func (f *FakeSink) Last() logic.ActuatorState {
	if len(f.Applied) == 0 {
		return logic.ActuatorState{}
	}
	return f.Applied[len(f.Applied)-1]
}
