package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	apporder "github.com/zenshop/orderd/internal/application/order"
	"github.com/zenshop/orderd/internal/config"
	"github.com/zenshop/orderd/internal/infrastructure/eventbus"
	"github.com/zenshop/orderd/internal/infrastructure/jobs"
	"github.com/zenshop/orderd/internal/infrastructure/memory"
	"github.com/zenshop/orderd/internal/infrastructure/notification"
	"github.com/zenshop/orderd/internal/infrastructure/observability/oteltrace"
	"github.com/zenshop/orderd/internal/infrastructure/observability/prometrics"
	"github.com/zenshop/orderd/internal/infrastructure/observability/telemetry"
	"github.com/zenshop/orderd/internal/infrastructure/observability/zaplogger"
	"github.com/zenshop/orderd/internal/infrastructure/webhook"
	"github.com/zenshop/orderd/internal/observability"
	httppresentation "github.com/zenshop/orderd/internal/presentation/http"
)

func main() {
	cfg := config.FromEnv()

	logger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if flusher, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = flusher.Sync() }()
	}

	registry := prometrics.New(cfg.ServiceName, "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests:  registry.Counter(observability.MUsecaseRequests, "Total number of use case invocations.", "use_case", "outcome"),
		observability.MHTTPRequests:     registry.Counter(observability.MHTTPRequests, "Total number of HTTP requests.", "method", "route", "status"),
		observability.MJobsProcessed:    registry.Counter(observability.MJobsProcessed, "Background jobs processed by final outcome.", "job_type", "outcome"),
		observability.MJobsDeadLettered: registry.Counter(observability.MJobsDeadLettered, "Jobs parked in the dead-letter store.", "job_type"),
		observability.MWebhookRequests:  registry.Counter(observability.MWebhookRequests, "Outbound webhook deliveries by outcome.", "outcome"),
		observability.MEventsPublished:  registry.Counter(observability.MEventsPublished, "Domain events accepted by the bus.", "event"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration:     registry.Histogram(observability.MUsecaseDuration, "Duration of use case execution in seconds.", nil, "use_case"),
		observability.MHTTPRequestDuration: registry.Histogram(observability.MHTTPRequestDuration, "Duration of HTTP requests in seconds.", nil, "method", "route"),
	}
	tel := telemetry.New(oteltrace.New(cfg.ServiceName), logger, counters, histograms)

	orderRepo := memory.NewOrderRepository()
	ledger := memory.NewLedger(memory.DefaultStock())
	auditLog := memory.NewAuditLog()
	dlq := jobs.NewDeadLetterStore()

	queue := jobs.New(jobs.Config{
		Workers:    cfg.JobWorkers,
		Attempts:   cfg.JobAttempts,
		RetryDelay: cfg.JobRetryDelay,
		BufferSize: cfg.JobBufferSize,
	}, dlq, tel)

	sink := notification.NewLogSink(tel.Logger())
	orderJobs := apporder.NewJobs(sink, auditLog, tel)
	orderJobs.Register(queue)

	bus := eventbus.New(tel)
	listener := apporder.NewListener(bus, tel)
	listener.Start()

	var caller apporder.WebhookCaller
	if cfg.WebhookURL != "" {
		caller = webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout, tel)
	}

	orderService := apporder.NewService(orderRepo, ledger, queue, bus, caller, cfg.WebhookTimeout, tel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus.Start(ctx)
	queue.Start(ctx)

	handler := httppresentation.NewHandler(orderService, dlq, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	systemLogger := tel.Logger().With(observability.F("component", "main"))

	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				observability.F("error", err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			observability.F("error", err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}

	queue.Stop(shutdownCtx)
	bus.Stop(shutdownCtx)
}
