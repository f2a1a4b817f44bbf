// cmd/monitor/run.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loopholelabs/logging/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tamzrod/vibration-monitor/internal/config"
	"github.com/tamzrod/vibration-monitor/internal/display"
	"github.com/tamzrod/vibration-monitor/internal/display/ostentus"
	"github.com/tamzrod/vibration-monitor/internal/metrics"
	"github.com/tamzrod/vibration-monitor/internal/monitor"
	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/status"
	"github.com/tamzrod/vibration-monitor/internal/writer"
	"github.com/tamzrod/vibration-monitor/internal/writer/mqtt"
)

var (
	cmdRun = &cobra.Command{
		Use:   "run",
		Short: "Poll the sensor and serve its measurements",
		Long:  ``,
		RunE:  runMonitor,
	}
)

var runMetrics string

func init() {
	rootCmd.AddCommand(cmdRun)
	cmdRun.Flags().StringVarP(&runMetrics, "metrics", "m", "", "Prometheus metrics listen address (overrides config)")
}

func runMonitor(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runMetrics != "" {
		cfg.Metrics.Listen = runMetrics
	}

	log := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// metrics
	var m *metrics.Metrics
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if m, err = metrics.New(reg); err != nil {
			return err
		}
		srv := serveMetrics(cfg.Metrics.Listen, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// sensor
	p, err := poller.Build(cfg, log)
	if err != nil {
		return fmt.Errorf("sensor %s: %w", cfg.Sensor.Name, err)
	}
	defer p.Close()

	// writers
	plan := writer.BuildPlan(cfg.Sensor.Name, cfg.Mirror)
	clients, closeClients, err := writer.BuildEndpointClients(cfg.Mirror)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	defer closeClients()

	var writers writer.Fanout
	if len(plan.Targets) > 0 {
		writers = append(writers, writer.NewMirror(plan, clients))
	}
	statusWriter, hasStatus := writer.NewDeviceStatusWriter(plan, clients)
	if !hasStatus {
		statusWriter = nil
	}

	var broker monitor.Connectivity
	if mc := cfg.Telemetry.MQTT; mc != nil {
		pub, err := mqtt.New(mqtt.Config{
			Broker:   mc.Broker,
			ClientID: mc.ClientID,
			DeviceID: mc.DeviceID,
			Topic:    mc.Topic,
			QoS:      mc.QoS,
			Username: mc.Username,
			Password: mc.Password,
			Timeout:  time.Duration(mc.TimeoutMs) * time.Millisecond,
		}, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		writers = append(writers, pub)
		broker = pub
	}

	// display
	var disp *display.Display
	if cfg.Display.Enabled {
		var dev *ostentus.Device
		disp, dev, err = openDisplay(cfg.Display, m, log)
		if err != nil {
			// The monitor still runs headless.
			log.Error().Err(err).Msg("display unavailable")
		} else {
			defer dev.Close()
		}
	}

	mon, err := monitor.New(monitor.Options{
		Name:      cfg.Sensor.Name,
		Writer:    writers,
		Status:    statusWriter,
		Tracker:   status.NewTracker(uint16(cfg.Poll.StaleAfterS)),
		Display:   disp,
		Title:     cfg.Display.Title,
		Slideshow: time.Duration(cfg.Display.SlideshowMs) * time.Millisecond,
		Broker:    broker,
		Metrics:   m,
		Log:       log,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("sensor", cfg.Sensor.Name).
		Str("address", cfg.Sensor.Address).
		Int("targets", len(plan.Targets)).
		Int64("interval_ms", p.Interval().Milliseconds()).
		Msg("vibration monitor running")

	results := make(chan poller.PollResult)
	pollerDone := make(chan struct{})
	go func() {
		p.Run(ctx, results)
		close(pollerDone)
	}()

	err = mon.Run(ctx, results)

	// The poller must be idle before the deferred Close releases its bus.
	stop()
	<-pollerDone

	log.Info().Msg("vibration monitor stopped")
	return err
}

func openDisplay(c config.DisplayConfig, m *metrics.Metrics, log types.Logger) (*display.Display, *ostentus.Device, error) {
	dev, err := ostentus.Open(c.Bus, c.Address, log)
	if err != nil {
		return nil, nil, err
	}

	d, err := display.New(dev, display.Config{
		PollInterval: time.Duration(c.PollIntervalMs) * time.Millisecond,
		ReadyTimeout: time.Duration(c.ReadyTimeoutMs) * time.Millisecond,
	}, display.SystemClock, log)
	if err != nil {
		_ = dev.Close()
		return nil, nil, err
	}
	if m != nil {
		d.Gate().SetObserver(m)
	}
	return d, dev, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log types.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          reg,
		},
	))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("listen", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("listen", addr).Msg("serving metrics")
	return srv
}
