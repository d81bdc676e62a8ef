// Package main is the entry point for the ramp engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/ramp-engine/business/ledger"
	"github.com/fd1az/ramp-engine/business/pricing"
	pricingDI "github.com/fd1az/ramp-engine/business/pricing/di"
	"github.com/fd1az/ramp-engine/business/ramp"
	rampDI "github.com/fd1az/ramp-engine/business/ramp/di"
	rampdomain "github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/internal/apm"
	"github.com/fd1az/ramp-engine/internal/config"
	"github.com/fd1az/ramp-engine/internal/health"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/metrics"
	"github.com/fd1az/ramp-engine/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ramp-engine %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	log := logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting ramp engine",
		"version", version,
		"environment", cfg.App.Environment,
		"chain_id", cfg.Ethereum.ChainID,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(cfg.Ramp.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Ramp.HealthPort)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Modules in dependency order
	modules := []monolith.Module{
		&ledger.Module{},  // Must be first - owns the wallet
		&pricing.Module{}, // Price oracle for the send flow
		&ramp.Module{},    // Depends on ledger and pricing
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	registerHealthChecks(healthServer, mono)

	log.Info(ctx, "all modules started, tracking deposits")

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	if client := rampDI.GetChainClient(mono.Services()); client != nil {
		if err := client.Close(); err != nil {
			log.Error(ctx, "error closing chain client", "error", err)
		}
	}

	return nil
}

// registerHealthChecks wires readiness to the chain connection and the
// price oracle.
func registerHealthChecks(server *health.Server, mono monolith.Monolith) {
	client := rampDI.GetChainClient(mono.Services())
	server.RegisterCheck("chain", func(ctx context.Context) (bool, string) {
		state := client.State()
		return state == rampdomain.StateConnected, string(state)
	})

	oracle := pricingDI.GetOracle(mono.Services())
	server.RegisterCheck("pricing", func(ctx context.Context) (bool, string) {
		q := oracle.GetPrice(ctx)
		// The oracle always answers; degraded sources still count as up.
		return true, "rate " + q.Rate.String() + " via " + q.Source
	})
}
