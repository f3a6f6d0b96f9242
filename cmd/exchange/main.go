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

	app "github.com/BryanOwens012/order-book/internal/app/exchange"
	executionpublisherv1 "github.com/BryanOwens012/order-book/internal/domain/execution-publisher/v1"
	executionpublisher "github.com/BryanOwens012/order-book/internal/usecase/execution-publisher"
	"github.com/BryanOwens012/order-book/pkg/config"
	"github.com/BryanOwens012/order-book/pkg/httplib/healthcheck"
	"github.com/BryanOwens012/order-book/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer log.Sync()

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var publisher executionpublisherv1.ExecutionPublisher
	if cfg.KafkaConfig.Enabled() {
		p := executionpublisher.NewPublisher(cfg.KafkaConfig, log)
		defer func() {
			if err := p.Close(); err != nil {
				log.Error(err, logger.Field{Key: "action", Value: "close_publisher"})
			}
		}()
		publisher = p

		log.Info("Publishing executions to kafka",
			logger.Field{Key: "brokers", Value: cfg.KafkaConfig.Brokers},
			logger.Field{Key: "topic", Value: cfg.KafkaConfig.Topic},
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	options := app.DefaultOptions()
	options.Registerer = registry
	exchange := app.NewExchangeWithOptions(publisher, log, options)

	if err := replay(ctx, exchange); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "replay"})
	}

	for _, ticker := range cfg.Tickers {
		snapshot, err := exchange.ActiveOrders(ticker)
		if err != nil {
			log.Warn("No order book for ticker", logger.Field{Key: "ticker", Value: ticker})
			continue
		}
		fmt.Println(snapshot.String())
	}

	if cfg.MetricsAddr == "" {
		return
	}

	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           healthcheck.HealthCheck{Tickers: exchange.Tickers}.Handler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Serving metrics and health", logger.Field{Key: "addr", Value: cfg.MetricsAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "action", Value: "serve_metrics"})
			cancel()
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_metrics"})
	}

	log.Info("Exchange stopped")
}
