package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"killick/internal/api"
	"killick/pkg/config"
	"killick/pkg/core"
	"killick/pkg/dashboard"
	"killick/pkg/logging"
	"killick/pkg/probe"
	"killick/pkg/settings"
	"killick/pkg/store"
	"killick/pkg/telemetry"
	"killick/pkg/version"
)

const defaultConfigPath = "configs/killick.yaml"

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", defaultConfigPath, "Path to the config file")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// KILLICK_POSTGRES_DSN may come from .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Killick Started", "version", version.Version)

	st, err := store.Open(ctx, &appCfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	src, err := telemetry.NewSource(&appCfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to create telemetry source: %w", err)
	}
	defer src.Close()

	results := probe.Run(ctx, []probe.Probe{probe.Storage(st), probe.Source(src)})
	if err := probe.AnalyzeResults(slog.Default(), results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	hub := api.NewHub()
	defer hub.Close()
	theme := api.NewThemeState(hub)

	prefs := settings.New(st,
		settings.WithTheme(theme),
		settings.WithPersistTimeout(time.Duration(appCfg.Settings.PersistTimeout)),
	)
	prefs.Apply()
	prefs.OnAnyChange(hub.PublishSetting)

	board := dashboard.New(prefs, nil)
	defer board.Close()
	board.AddSink(hub)

	sched := setupScheduler(appCfg, src, board, hub)
	go sched.Start(ctx)

	return runServer(ctx, appCfg, &api.Handlers{
		Settings:  api.NewSettingsHandler(prefs),
		Telemetry: api.NewTelemetryHandler(board),
		Theme:     theme,
		Hub:       hub,
	})
}

func setupScheduler(cfg *config.Config, src telemetry.Source, board *dashboard.Board, hub *api.Hub) *core.Scheduler {
	sched := core.NewScheduler(&cfg.Telemetry, src, board)

	sched.AddJob(core.NewDistanceJob("Logbook", cfg.Telemetry.Logbook.Meters(), func(_ context.Context, s telemetry.Sample) {
		frame, err := board.Frame()
		if err != nil {
			return
		}
		args := []any{"lat", s.Position.Lat, "lon", s.Position.Lon}
		for key, r := range frame.Values {
			args = append(args, key, r.String())
		}
		slog.Info("Logbook entry", args...)
	}))

	sched.AddJob(core.NewTimeJob("Heartbeat", time.Duration(cfg.Telemetry.Heartbeat), func(_ context.Context, s telemetry.Sample) {
		slog.Info("Heartbeat", "clients", hub.ClientCount(), "sample_time", s.Time.Format(time.TimeOnly))
	}))

	return sched
}

func runServer(ctx context.Context, cfg *config.Config, h *api.Handlers) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	srv := api.NewServer(cfg.Server.Address, h, func() {
		select {
		case quit <- syscall.SIGTERM:
		default:
		}
	})

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
