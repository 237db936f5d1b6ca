package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keygate/keygate/internal/api"
	"github.com/keygate/keygate/internal/auth"
	"github.com/keygate/keygate/internal/config"
	"github.com/keygate/keygate/internal/presence"
	"github.com/keygate/keygate/internal/schedule"
	"github.com/keygate/keygate/internal/store"
	"github.com/keygate/keygate/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("keygate-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"presence_window", cfg.Server.Presence.Window,
		"stream_interval", cfg.Server.Stream.Interval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Document store, in-memory, seeded from the fixtures file.
	st := store.NewMemory()
	if path := cfg.Server.Store.SeedPath; path != "" {
		seed, err := store.LoadSeed(path)
		if err != nil {
			slog.Error("failed to load store seed", "err", err)
			os.Exit(1)
		}
		st.Apply(seed)
		slog.Info("store seeded", "path", path, "products", len(seed.Products))

		if cfg.Server.Store.Watch {
			go func() {
				if err := store.Watch(ctx, path, st.Apply); err != nil {
					slog.Error("seed watcher stopped", "err", err)
				}
			}()
		}
	}

	// Eviction scheduler and presence registry.
	sched := schedule.New()
	defer sched.Stop()
	registry := presence.New(cfg.Server.Presence.Window, sched)

	// Operator endpoints sit behind the API-key gate.
	guard := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	// WebSocket hub broadcasting presence to dashboards.
	hub := ws.New(registry, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st, registry, guard))
	httpMux.Handle("/ws/stream", guard(hub))
	httpMux.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("keygate-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
