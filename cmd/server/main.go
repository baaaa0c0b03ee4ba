package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	platformmetrics "onboard/internal/platform/metrics"
	"onboard/internal/signup/adapters/httptransport"
	"onboard/internal/signup/adapters/nominatim"
	"onboard/internal/signup/handler"
	signupmetrics "onboard/internal/signup/metrics"
	"onboard/internal/signup/ports"
	"onboard/internal/signup/service"
	"onboard/pkg/platform/circuit"
)

const (
	cleanupInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/signup.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout,
		nominatim.WithLogger(log),
		nominatim.WithBreaker(circuit.New("nominatim",
			circuit.WithFailureThreshold(5),
			circuit.WithSuccessThreshold(1),
			circuit.WithOpenTimeout(30*time.Second),
		)),
	)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(signupmetrics.New(reg)),
		service.WithIdleTTL(cfg.WorkflowIdleTTL),
		service.WithPickerQuality(cfg.Device.PickerQuality),
		service.WithPositionOptions(ports.PositionOptions{
			HighAccuracy: true,
			Timeout:      cfg.Device.PositionTimeout,
			MaximumAge:   cfg.Device.PositionMaxAge,
		}),
	}
	if cfg.Submit.URL != "" {
		opts = append(opts, service.WithTransport(
			httptransport.New(cfg.Submit.URL, cfg.Submit.Timeout, httptransport.WithLogger(log)),
		))
	} else {
		log.Warn("SUBMIT_URL not set; submissions will be rejected")
	}
	signup := service.New(geocoder, opts...)

	// every request must outlive the slowest upstream call it can make
	requestTimeout := max(cfg.Submit.Timeout, cfg.Geocoder.Timeout) + 5*time.Second

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.New(signup, log, platformmetrics.New(reg), requestTimeout).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting onboard device bridge", "addr", cfg.Addr)
		return httpserver.Serve(gctx, srv, shutdownTimeout)
	})
	g.Go(func() error {
		err := signup.StartCleanup(gctx, cleanupInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err := g.Wait()
	log.Info("shutdown complete")
	return err
}
