package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"StarTrade/internal/agent"
	"StarTrade/internal/board"
	"StarTrade/internal/calculator"
	"StarTrade/internal/collector"
	"StarTrade/internal/config"
	"StarTrade/internal/metrics"
	"StarTrade/internal/notifier"
	"StarTrade/internal/recorder"
	"StarTrade/internal/scheduler"
	"StarTrade/internal/selection"
	"StarTrade/internal/server"
	"StarTrade/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startrade: %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred teardown always runs.
func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Environment); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Info("StarTrade starting", zap.String("config", cfgPath))
	metrics.Register()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderBarAPI:
		fetcher = collector.NewBarAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Info("data source", zap.String("provider", fetcher.Name()))

	indicators, err := calculator.Build(cfg.Indicators)
	if err != nil {
		return fmt.Errorf("build indicators: %w", err)
	}
	col := collector.NewCollector(fetcher, indicators, collector.Query{
		Range:    cfg.DataSource.Range,
		Interval: cfg.DataSource.Interval,
	})

	bm, err := board.NewManager(cfg.Board.StateFile, cfg.Board.Groups)
	if err != nil {
		return fmt.Errorf("init board: %w", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
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

	var (
		tn     *notifier.TelegramNotifier
		sender scheduler.Sender
	)
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Info("telegram not configured, digest will only be recorded")
	}

	sched := scheduler.NewScheduler(ctx, col, bm, sender, rec)
	if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing digest now")
		go sched.RunDigest()
	}

	relay := agent.NewRelay(agent.NewClient(cfg.Agent.BaseURL, cfg.Agent.Timeout), agent.NewStore())
	tracker := selection.NewTracker(col.Analyze)
	srv := server.New(cfg.Server.Addr, server.NewHandler(col, bm, tracker, relay, rec))
	srv.Start()

	log.Info("StarTrade is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	tracker.Wait()
	log.Info("StarTrade stopped")
	return nil
}
