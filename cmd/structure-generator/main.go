// Package main implements the structure-generator service: an HTTP API
// for building I14Y dataset structures and emitting them as SHACL Turtle
// documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/I14Y-ch/structure-generator/api"
	"github.com/I14Y-ch/structure-generator/config"
	"github.com/I14Y-ch/structure-generator/i14y"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/natsclient"
	"github.com/I14Y-ch/structure-generator/session"
	"github.com/I14Y-ch/structure-generator/store"
)

const (
	Version = "0.1.0"
	appName = "structure-generator"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		logger.Info("configuration is valid")
		return nil
	}

	logger.Info("starting structure-generator",
		"addr", cfg.HTTP.Addr,
		"nats_enabled", cfg.NATS.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := metric.NewRegistry()
	sessions := session.NewManager(cfg.Session, logger, registry.Metrics())
	catalog := i14y.NewClient(cfg.I14Y, logger, registry.Metrics())

	snapshots, natsClient, err := setupStore(ctx, cfg, logger, registry.Metrics())
	if err != nil {
		return err
	}
	if natsClient != nil {
		defer func() { _ = natsClient.Close(context.Background()) }()
	}

	server, err := api.NewServer(api.Options{
		Logger:   logger,
		Registry: registry,
		Sessions: sessions,
		Catalog:  catalog,
		Store:    snapshots,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func loadConfig(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	if cliCfg.ConfigPath != "" {
		loader.AddLayer(cliCfg.ConfigPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flags win over file and environment.
	if cliCfg.LogLevel != "" {
		cfg.Logging.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Logging.Format = cliCfg.LogFormat
	}
	return cfg, nil
}

// setupStore connects to NATS and builds the snapshot store when
// persistence is enabled. Disabled persistence returns nils.
func setupStore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics *metric.Metrics,
) (*store.Store, *natsclient.Client, error) {
	if !cfg.NATS.Enabled {
		logger.Info("snapshot persistence disabled, sessions are in-memory only")
		return nil, nil, nil
	}

	client, err := natsclient.NewClient(cfg.NATS.URL,
		natsclient.WithLogger(logger),
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithReconnectWait(cfg.NATS.ReconnectWait),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create nats client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}

	snapshots, err := store.NewStore(ctx, client, logger, metrics)
	if err != nil {
		_ = client.Close(context.Background())
		return nil, nil, fmt.Errorf("create snapshot store: %w", err)
	}

	return snapshots, client, nil
}
