// Package main is the entry point for the creatorproxy server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/provider"
	"github.com/howard-nolan/creatorproxy/internal/server"
	"github.com/howard-nolan/creatorproxy/internal/speech"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
	"github.com/howard-nolan/creatorproxy/internal/youtube"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	})))

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := upstream.NewClient(
		&http.Client{Timeout: cfg.Upstream.Timeout},
		upstream.NewMetrics(reg),
	)

	providers, err := provider.NewRegistry(cfg.Providers, cfg.Generation.MaxTokens)
	if err != nil {
		return fmt.Errorf("building provider registry: %w", err)
	}
	for _, id := range providers.IDs() {
		p, _ := providers.Resolve(string(id))
		slog.Debug("registered provider", "id", id, "model", p.Model, "base_url", p.BaseURL)
	}

	srv := server.New(
		provider.NewGenerator(providers, client, cfg.Generation.DefaultSystem),
		youtube.NewClient(client, cfg.YouTube),
		speech.NewClient(client, cfg.Speech),
		reg,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("creatorproxy listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
