package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moneymind/internal/shared/config"
	"moneymind/internal/shared/telemetry"
)

const limiterSweepInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Server.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
		log.Printf("Telemetry enabled, metrics on :%s", cfg.Telemetry.MetricsPort)
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	limiters := NewLimiters(cfg)
	go sweepLimiters(ctx, limiters)

	handler := SetupRoutes(deps, limiters, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	<-ctx.Done()
	GracefulShutdown(srv, redirectSrv, 30*time.Second)
	return nil
}

// sweepLimiters drops idle rate-limiter entries until ctx is cancelled.
func sweepLimiters(ctx context.Context, limiters *Limiters) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiters.Auth.Sweep()
			limiters.AI.Sweep()
		}
	}
}
