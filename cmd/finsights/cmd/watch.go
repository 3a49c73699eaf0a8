package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/margin"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
	"github.com/diabolical-ninja/Finsights/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the scheduled margin watch and Telegram bot",
	Long: `Watch analyses margin.symbols on the schedule.watch_cron schedule and
sends a report to Telegram, plus an alert for every symbol whose latest
drawdown breaches the margin call trigger of margin.current_lvr. The bot
answers /watch and /status.

Set RUN_ON_START=true to run the watch once at startup.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateWatch(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Println("[INFO] Finsights watch starting...")

	agg, err := cfg.Aggregation()
	if err != nil {
		return err
	}

	col, closeCache := newCollector()
	defer closeCache()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	batch := &margin.Batch{
		Fetcher:     col,
		Analyzer:    margin.Analyzer{Filter: cfg.DeclineFilter()},
		Aggregation: agg,
		Window:      cfg.Margin.DrawdownWindow,
		Concurrency: cfg.Margin.Concurrency,
	}
	sched := scheduler.NewScheduler(ctx, batch, tn, scheduler.Watch{
		Symbols:    cfg.Margin.Symbols,
		CurrentLVR: cfg.Margin.CurrentLVR,
		MaxLVR:     cfg.Margin.MaxLVR,
		Buffer:     cfg.Margin.Buffer,
		Step:       cfg.Margin.Step,
	})
	sched.Pruner = col
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing watch now")
		go sched.RunWatchNow()
	}

	log.Println("[INFO] Finsights watch is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	log.Println("[INFO] Finsights watch stopped")
	return nil
}
