package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clambin/ledcontroller/internal/configuration"
	"github.com/clambin/ledcontroller/internal/led"
	"github.com/clambin/ledcontroller/internal/pwm"
	"github.com/clambin/ledcontroller/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func Main(ctx context.Context, name, version string, args []string) error {
	cfg, err := configuration.GetConfiguration(name, version, args)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return runWithConfiguration(ctx, cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, version)
}

func runWithConfiguration(ctx context.Context, cfg configuration.Configuration, promReg prometheus.Registerer, gatherer prometheus.Gatherer, version string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.WithField("version", version).Info("starting ledcontroller")
	defer log.Info("ledcontroller stopped")

	driver, closer, err := openDriver(cfg.Device)
	if err != nil {
		return err
	}
	defer closer()

	return run(ctx, cfg, driver, promReg, gatherer)
}

func run(ctx context.Context, cfg configuration.Configuration, driver pwm.Driver, promReg prometheus.Registerer, gatherer prometheus.Gatherer) error {
	if err := driver.SetFrequency(cfg.Device.PWMFrequency()); err != nil {
		return fmt.Errorf("failed to initialize pwm controller: %w", err)
	}

	s := server.New(&led.Holder{}, driver, cfg.LegacyResponses, log.WithField("component", "server"))
	if err := promReg.Register(s); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	defer promReg.Unregister(s)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.PrometheusAddr != "" {
		m := http.NewServeMux()
		m.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		runHTTPServer(ctx, cfg.PrometheusAddr, m, cfg.ShutdownTimeout, g, log.WithField("component", "prometheus"))
	}
	runHTTPServer(ctx, cfg.Addr, s, cfg.ShutdownTimeout, g, log.WithField("component", "server"))

	return g.Wait()
}

func openDriver(cfg configuration.DeviceConfiguration) (pwm.Driver, func(), error) {
	if cfg.DryRun {
		log.Warning("dry run: LEDs will not be driven")
		return &pwm.Logger{Logger: log.WithField("component", "pwm")}, func() {}, nil
	}

	if cfg.SysfsChip != "" {
		d, err := pwm.OpenSysfs(cfg.SysfsChip)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pwm controller: %w", err)
		}
		return d, func() {}, nil
	}

	d, bus, err := pwm.Open(cfg.Bus, cfg.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open pwm controller: %w", err)
	}
	return d, func() { _ = bus.Close() }, nil
}

func runHTTPServer(ctx context.Context, addr string, h http.Handler, timeout time.Duration, g *errgroup.Group, logger *log.Entry) {
	s := &http.Server{Addr: addr, Handler: h}
	g.Go(func() error {
		logger.WithField("addr", addr).Info("server started")
		err := s.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.WithError(err).Error("server failed to start")
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.Shutdown(stopCtx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.WithError(err).Error("server failed to stop")
		}
		return err
	})
}
