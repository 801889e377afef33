package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"BreakoutScope/internal/logger"
	"BreakoutScope/internal/notifier"
	"BreakoutScope/internal/recorder"
	"BreakoutScope/internal/scheduler"
	"BreakoutScope/internal/store"
)

var runOnStart bool

// runCmd starts the long-running refresh service
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduled refresh service",
	Long: `Run the refresh service: load the last snapshot, refresh on the configured
cron schedule, answer Telegram commands and keep serving the last good result
when a refresh fails.

Telegram commands: /summary /signals /status /refresh`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runOnStart, "now", true, "Refresh immediately on start (also RUN_ON_START)")
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if v := os.Getenv("RUN_ON_START"); v != "" && !cmd.Flags().Changed("now") {
		runOnStart = v == "true"
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("instrument", cfg.Instrument).Str("benchmark", cfg.Benchmark).Msg("BreakoutScope starting")

	col, err := newCollector(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Str("source", col.Fetcher.Name()).Msg("data source ready")

	st, err := store.New(cfg.Snapshot.Path, logger.Component(log, "store"))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	var sender notifier.Sender = notifier.Noop{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger.Component(log, "telegram"))
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, notifications disabled")
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger.Component(log, "recorder"))
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	sched := scheduler.NewScheduler(ctx, col, st, sender, rec, cfg.Params(), loc, logger.Component(log, "scheduler"))
	sched.Timeout = cfg.Schedule.Timeout
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if runOnStart {
		go func() {
			if _, err := sched.RefreshNow(ctx); err != nil {
				log.Error().Err(err).Msg("initial refresh failed")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.RefreshCron).Str("tz", cfg.Schedule.Timezone).Msg("BreakoutScope is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
