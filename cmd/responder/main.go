package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThiagoPax/wa-autoresponder/internal/api"
	"github.com/ThiagoPax/wa-autoresponder/internal/bus"
	"github.com/ThiagoPax/wa-autoresponder/internal/config"
	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
	"github.com/ThiagoPax/wa-autoresponder/internal/listener"
	"github.com/ThiagoPax/wa-autoresponder/internal/metrics"
	"github.com/ThiagoPax/wa-autoresponder/internal/replier"
	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
	"github.com/ThiagoPax/wa-autoresponder/internal/state"
	"github.com/ThiagoPax/wa-autoresponder/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("wa-autoresponder starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Throttle state backend
	var throttleStore state.ThrottleStore
	switch cfg.StateBackend {
	case "redis":
		rs, err := state.NewRedisStore(ctx, cfg.RedisURL, cfg.StateTTL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		throttleStore = rs
		slog.Info("throttle state backend: redis")
	default:
		throttleStore = state.NewPostgresStore(db)
		slog.Info("throttle state backend: postgres")
	}

	// Schedule: stored windows win; a yaml file seeds an empty table.
	table, err := db.LoadSchedule(ctx)
	if err != nil {
		slog.Error("failed to load schedule", "error", err)
		os.Exit(1)
	}
	if len(table) == 0 && cfg.ScheduleFile != "" {
		table, err = schedule.LoadFile(cfg.ScheduleFile)
		if err != nil {
			slog.Error("failed to load schedule file", "error", err, "path", cfg.ScheduleFile)
			os.Exit(1)
		}
		if err := db.SaveSchedule(ctx, table); err != nil {
			slog.Error("failed to seed schedule", "error", err)
			os.Exit(1)
		}
		slog.Info("schedule seeded from file", "path", cfg.ScheduleFile, "days", len(table))
	}
	scheduleHolder := schedule.NewHolder(table)

	// Engine
	eng, err := engine.New(engine.Options{
		Groups:      cfg.MonitoredGroups,
		Keywords:    cfg.Keywords,
		Delimiter:   cfg.Delimiter,
		SlotMarkers: cfg.SlotMarkers,
		Claimant:    cfg.ClaimantName,
		MinInterval: cfg.MinInterval,
		SendDelay:   cfg.ReplyDelay,
	}, slog.Default())
	if err != nil {
		slog.Error("invalid engine configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("engine ready", "groups", len(cfg.MonitoredGroups), "claimant", cfg.ClaimantName)

	// NATS
	busClient, err := bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	m := metrics.New()
	rep := replier.New(busClient, cfg.DryRun, slog.Default())
	if cfg.DryRun {
		slog.Warn("dry run enabled, verdicts recorded but replies suppressed")
	}

	lst := listener.New(eng, throttleStore, db, scheduleHolder, rep, m, cfg.ThrottleScope, slog.Default())
	lst.SetEnabled(cfg.Enabled)

	if err := busClient.Subscribe(bus.SubjectNotificationPosted, lst.HandleNotification); err != nil {
		slog.Error("failed to subscribe to notifications", "error", err)
		os.Exit(1)
	}
	if err := busClient.Subscribe(bus.SubjectReplyResult, rep.HandleResult); err != nil {
		slog.Error("failed to subscribe to reply results", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, db, db, scheduleHolder, lst, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := busClient.Publish(bus.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"dry_run":   cfg.DryRun,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("wa-autoresponder ready", "port", cfg.Port, "scope", cfg.ThrottleScope)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("wa-autoresponder stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
