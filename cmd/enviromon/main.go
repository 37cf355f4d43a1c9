// Command enviromon samples temperature and pressure, derives automation
// decisions, drives the fan/light/lamp outputs and serves the monitor API
// over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/enviromon/internal/actuator"
	"github.com/sweeney/enviromon/internal/config"
	"github.com/sweeney/enviromon/internal/control"
	"github.com/sweeney/enviromon/internal/device"
	"github.com/sweeney/enviromon/internal/diag"
	"github.com/sweeney/enviromon/internal/display"
	"github.com/sweeney/enviromon/internal/history"
	"github.com/sweeney/enviromon/internal/logic"
	"github.com/sweeney/enviromon/internal/mqtt"
	"github.com/sweeney/enviromon/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	tick := flag.Duration("tick", 0, "Tick interval (overrides config)")
	historyIv := flag.Duration("history-interval", 0, "Telemetry sampling interval (overrides config)")
	historyCap := flag.Int("history-cap", 0, "Telemetry ring capacity (overrides config)")
	httpAddr := flag.String("http", "", "HTTP listen address (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("fatal: %v", err)
	}
	cfg = applyOverrides(cfg, *tick, *historyIv, *historyCap, *httpAddr, *broker, *logLevel)

	if err := run(cfg); err != nil {
		logrus.Fatalf("fatal: %v", err)
	}
}

// applyOverrides layers explicitly set flags over the file configuration.
// Zero values mean "not set".
func applyOverrides(cfg config.Config, tick, historyIv time.Duration, historyCap int, httpAddr, broker, logLevel string) config.Config {
	if tick > 0 {
		cfg.TickMs = tick.Milliseconds()
	}
	if historyIv > 0 {
		cfg.HistoryMs = historyIv.Milliseconds()
	}
	if historyCap > 0 {
		cfg.HistoryCapacity = historyCap
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if broker != "" {
		cfg.Broker = broker
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func run(cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	clock := device.NewSystemClock()

	// Sensor bring-up is non-fatal: the loop starts degraded and the
	// RetrySensor keeps attempting the open with backoff.
	sensor := device.NewRetrySensor(func() (device.Sensor, error) {
		return device.NewBME280(cfg.I2CDevice, cfg.I2CAddr)
	}, clock)
	defer sensor.Close()

	var sink actuator.Sink
	sink, err = actuator.NewRealSink(cfg.GPIOChip, cfg.PinFan, cfg.PinLight, cfg.PinLamp)
	if err != nil {
		logrus.Warnf("gpio init failed, actuators disabled: %v", err)
		sink = actuator.NopSink{}
	}
	defer sink.Close()

	var publisher mqtt.Publisher
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.Broker)
		if err != nil {
			logrus.Warnf("mqtt connect failed, telemetry export disabled: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	}

	ctrl := control.New(control.Options{
		Sensor:          sensor,
		Clock:           clock,
		Sink:            sink,
		Display:         display.Console{},
		Diagnostics:     diag.NewSystem(clock),
		Store:           history.NewStore(cfg.HistoryCapacity),
		Publisher:       publisher,
		HistoryInterval: time.Duration(cfg.HistoryMs) * time.Millisecond,
		Automation: logic.Config{
			AutoFan:         cfg.AutoFan,
			Threshold:       cfg.Threshold,
			ScheduleEnabled: cfg.ScheduleOn,
			ScheduleHour:    cfg.ScheduleHour,
			ScheduleMinute:  cfg.ScheduleMinute,
		},
	})

	if publisher != nil {
		event := mqtt.SystemEvent{Timestamp: clock.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(event); err != nil {
			logrus.Warnf("failed to publish startup event: %v", err)
		}
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, ctrl)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logrus.Infof("http server listening on %s", cfg.HTTPAddr)
	}

	logrus.Infof("started: tick=%dms history=%dms cap=%d broker=%q",
		cfg.TickMs, cfg.HistoryMs, cfg.HistoryCapacity, cfg.Broker)

	ticker := time.NewTicker(time.Duration(cfg.TickMs) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, publisher, ticker.C, sigCh)
}

// runLoop services ticks until a termination signal arrives. Factored out
// of run so tests can drive it with scripted channels.
func runLoop(ctrl *control.Controller, publisher mqtt.Publisher, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			logrus.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: time.Now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if err := publisher.PublishSystem(event); err != nil {
					logrus.Warnf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case <-tick:
			ctrl.Tick()
		}
	}
}
