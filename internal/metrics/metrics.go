// Package metrics registers the Prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ticks counts control loop ticks.
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enviromon_ticks_total",
		Help: "Control loop ticks executed.",
	})

	// SensorErrors counts failed sensor polls (loop keeps last-known-good).
	SensorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enviromon_sensor_errors_total",
		Help: "Sensor polls that returned no data.",
	})

	// HistorySamples counts appends to the telemetry ring store.
	HistorySamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enviromon_history_samples_total",
		Help: "Samples appended to the telemetry ring store.",
	})

	// Commands counts accepted manual commands by kind.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enviromon_commands_total",
		Help: "Accepted commands by kind.",
	}, []string{"kind"})

	// Temperature is the last-known-good temperature.
	Temperature = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enviromon_temperature_celsius",
		Help: "Last-known-good temperature.",
	})

	// Pressure is the last-known-good pressure.
	Pressure = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enviromon_pressure_hpa",
		Help: "Last-known-good pressure.",
	})
)
