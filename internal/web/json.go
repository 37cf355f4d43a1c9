package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/enviromon/internal/control"
	"github.com/sweeney/enviromon/internal/history"
)

// timeLayout renders wall-clock timestamps in API responses.
const timeLayout = "2006-01-02 15:04:05"

// DataJSON is the /data response. Field names are the stable external
// contract consumed by the dashboard.
type DataJSON struct {
	TimeStr        string    `json:"time_str"`
	Temp           float64   `json:"temp"`
	Press          float64   `json:"press"`
	Heap           uint32    `json:"heap"`
	RSSI           int       `json:"rssi"`
	CPU            int       `json:"cpu"`
	Flash          uint64    `json:"flash"`
	Uptime         int64     `json:"uptime"`
	Logs           []string  `json:"logs"`
	Alert          AlertJSON `json:"alert"`
	FanOn          bool      `json:"fanOn"`
	LightOn        bool      `json:"lightOn"`
	LampOn         bool      `json:"lampOn"`
	AutoEnabled    bool      `json:"autoEnabled"`
	Threshold      float64   `json:"threshold"`
	ScheduleOn     bool      `json:"scheduleEnabled"`
	ScheduleHour   int       `json:"scheduleHour"`
	ScheduleMinute int       `json:"scheduleMinute"`
}

// AlertJSON carries the derived alert flags.
type AlertJSON struct {
	Heap bool `json:"heap"`
	RSSI bool `json:"rssi"`
}

// HistoryJSON is the /history response, oldest to newest.
type HistoryJSON struct {
	History []HistorySampleJSON `json:"history"`
}

// HistorySampleJSON is one telemetry sample on the wire.
type HistorySampleJSON struct {
	Timestamp uint32  `json:"timestamp"`
	Temp      float64 `json:"temp"`
	Press     float64 `json:"press"`
	Heap      uint32  `json:"heap"`
	RSSI      int     `json:"rssi"`
}

func formatData(snap control.Snapshot) []byte {
	logs := make([]string, len(snap.Events))
	for i, e := range snap.Events {
		logs[i] = e.Time.Format("15:04:05") + " " + e.Message
	}

	dj := DataJSON{
		TimeStr:        snap.Now.Format(timeLayout),
		Temp:           snap.Reading.Temperature,
		Press:          snap.Reading.Pressure,
		Heap:           snap.Diag.FreeHeap,
		RSSI:           snap.Diag.RSSI,
		CPU:            snap.Diag.CPUMHz,
		Flash:          snap.Diag.FlashBytes,
		Uptime:         snap.Diag.UptimeMillis,
		Logs:           logs,
		Alert:          AlertJSON{Heap: snap.LowHeap, RSSI: snap.LowRSSI},
		FanOn:          snap.Actuators.Fan,
		LightOn:        snap.Actuators.Light,
		LampOn:         snap.Actuators.Lamp,
		AutoEnabled:    snap.Config.AutoFan,
		Threshold:      snap.Config.Threshold,
		ScheduleOn:     snap.Config.ScheduleEnabled,
		ScheduleHour:   snap.Config.ScheduleHour,
		ScheduleMinute: snap.Config.ScheduleMinute,
	}

	data, _ := json.MarshalIndent(dj, "", "  ")
	return data
}

func formatHistory(samples []history.Sample) []byte {
	hj := HistoryJSON{History: make([]HistorySampleJSON, len(samples))}
	for i, s := range samples {
		hj.History[i] = HistorySampleJSON{
			Timestamp: s.Timestamp,
			Temp:      s.Temperature,
			Press:     s.Pressure,
			Heap:      s.FreeHeap,
			RSSI:      s.RSSI,
		}
	}

	data, _ := json.Marshal(hj)
	return data
}

// formatClock is used by the dashboard template.
func formatClock(t time.Time) string {
	return t.Format(timeLayout)
}
