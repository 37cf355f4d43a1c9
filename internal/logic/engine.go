package logic

// Decide maps one input sample to the next actuator state. It is pure: all
// I/O happens in the caller. Rules run in a fixed order and later rules
// override earlier ones:
//
//  1. Schedule: at the configured hour:minute the fan turns on, once per
//     qualifying minute (edge-triggered via TriggerState).
//  2. Auto threshold: when auto mode is on, fan = temperature >= threshold,
//     every tick. This overrides a same-tick schedule fire and any prior
//     manual command, which makes the schedule inert while auto mode is on.
//
// When neither rule applies the fan keeps its previous value. Light and
// lamp are never touched by automation.
func Decide(in Input, cfg Config, prev ActuatorState, trig TriggerState) (ActuatorState, TriggerState, []Event) {
	next := prev
	var events []Event

	if cfg.ScheduleEnabled &&
		in.Time.Hour() == cfg.ScheduleHour &&
		in.Time.Minute() == cfg.ScheduleMinute &&
		trig.LastFiredMinute != in.Time.Minute() {
		next.Fan = true
		trig.LastFiredMinute = in.Time.Minute()
		events = append(events, Event{Time: in.Time, Message: "scheduled fan on"})
	}

	if cfg.AutoFan {
		// Inclusive comparison: a reading exactly at the threshold runs the fan.
		want := in.Temperature >= cfg.Threshold
		if want != next.Fan {
			if want {
				events = append(events, Event{Time: in.Time, Message: "auto fan on"})
			} else {
				events = append(events, Event{Time: in.Time, Message: "auto fan off"})
			}
		}
		next.Fan = want
	}

	return next, trig, events
}

// ValidSchedule reports whether hour and minute are storable schedule values.
func ValidSchedule(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}
