package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/config"
	"github.com/rutsinsao/smart-money-alert/internal/display"
	"github.com/rutsinsao/smart-money-alert/internal/engine"
	"github.com/rutsinsao/smart-money-alert/internal/feed"
	"github.com/rutsinsao/smart-money-alert/internal/logger"
	"github.com/rutsinsao/smart-money-alert/internal/storage"
	"github.com/rutsinsao/smart-money-alert/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := storage.New(cfg.Storage.MaxAlerts, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	feedClient := feed.NewClient(
		cfg.Sources.MoneywayURL,
		cfg.Sources.DroppingURL,
		cfg.Sources.Timeout,
		feed.ClientConfig{
			MaxRetries:     cfg.Sources.MaxRetries,
			RetryDelayBase: cfg.Sources.RetryDelayBase,
			UserAgent:      cfg.Sources.UserAgent,
		},
	)

	console := display.NewConsole(os.Stdout)

	// Replay the journal tail so a restart shows what fired before; the
	// dedup set itself starts empty regardless.
	if recent, err := store.RecentAlerts(10); err != nil {
		logger.Warn("Failed to read alert journal: %v", err)
	} else {
		console.ShowRecentAlerts(recent)
	}

	var telegramClient *telegram.Client
	var notifier engine.Notifier
	if cfg.Telegram.Enabled {
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Sources.MaxRetries, cfg.Sources.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		notifier = telegramClient
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	evaluator := engine.NewEvaluator(
		cfg.Alerts.SmartMoneyThreshold,
		cfg.Alerts.DroppingThreshold,
		notifier,
		console,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	if cfg.Telegram.Enabled && telegramClient != nil {
		telegramClient.ListenForCommands(ctx)
	}

	logger.Info("Starting refresh loop (interval: %v, day: %s, thresholds: smart >= %.1f%%, drop >= %.1f%%)",
		cfg.Sources.RefreshInterval,
		cfg.Sources.Day,
		cfg.Alerts.SmartMoneyThreshold,
		cfg.Alerts.DroppingThreshold,
	)

	ticker := time.NewTicker(cfg.Sources.RefreshInterval)
	defer ticker.Stop()

	consecutiveFailures := 0

	handleCycleResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			logger.Error("Refresh cycle failed: %v", err)
			if consecutiveFailures == 1 && cfg.Telegram.Enabled && telegramClient != nil {
				if sendErr := telegramClient.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
		} else {
			if consecutiveFailures > 0 && cfg.Telegram.Enabled && telegramClient != nil {
				if sendErr := telegramClient.SendRecovery(consecutiveFailures); sendErr != nil {
					logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
				}
			}
			consecutiveFailures = 0
		}
	}

	logger.Debug("Running initial refresh cycle")
	handleCycleResult(runRefreshCycle(ctx, feedClient, evaluator, store, console, cfg))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return

		case <-ticker.C:
			logger.Debug("Starting scheduled refresh cycle")
			handleCycleResult(runRefreshCycle(ctx, feedClient, evaluator, store, console, cfg))
		}
	}
}

// runRefreshCycle performs one blocking fetch-extract-correlate-evaluate
// pass. A single unavailable feed degrades to empty rows and an
// insufficient-data message; the cycle only counts as failed when both
// fetches error.
func runRefreshCycle(
	ctx context.Context,
	feedClient *feed.Client,
	evaluator *engine.Evaluator,
	store *storage.Storage,
	console *display.Console,
	cfg *config.Config,
) error {
	startTime := time.Now()
	logger.Info("Starting refresh cycle")

	q := feed.Query{
		TimeZone:   cfg.Sources.TimeZone,
		Day:        cfg.Sources.Day,
		RefreshSec: int(cfg.Sources.RefreshInterval / time.Second),
	}

	signals, moneywayErr := feedClient.FetchMoneyway(ctx, q)
	if moneywayErr != nil {
		logger.Error("Moneyway feed unavailable this cycle: %v", moneywayErr)
		signals = nil
	}
	prices, droppingErr := feedClient.FetchDropping(ctx, q)
	if droppingErr != nil {
		logger.Error("Dropping-odds feed unavailable this cycle: %v", droppingErr)
		prices = nil
	}
	if moneywayErr != nil && droppingErr != nil {
		return fmt.Errorf("both feeds unavailable: %w", moneywayErr)
	}

	console.ShowFeedCounts(len(signals), len(prices))
	console.ShowSignals(signals)
	console.ShowPrices(prices)

	if len(signals) == 0 || len(prices) == 0 {
		console.ShowInsufficientData(len(signals) == 0, len(prices) == 0)
		logger.Info("Insufficient data this cycle (moneyway=%d, dropping=%d), skipping correlation", len(signals), len(prices))
		return nil
	}

	pairs := engine.Correlate(signals, prices, time.Now().Year())
	logger.Info("Correlated %d fixture pairs from %d moneyway and %d dropping-odds rows", len(pairs), len(signals), len(prices))

	alerts, dispatched := evaluator.Evaluate(pairs)
	logger.Info("Predicate matched %d pairs, dispatched %d new alerts", len(alerts), len(dispatched))

	console.ShowMatched(pairs, alerts)

	for i := range dispatched {
		if err := store.RecordAlert(&dispatched[i]); err != nil {
			logger.Warn("Failed to journal alert %s: %v", dispatched[i].Identity(), err)
		}
	}

	logger.Info("Refresh cycle completed in %v", time.Since(startTime))
	return nil
}
