package main // standalone scrape scheduler, run next to the API server

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lucasmtls/energy-monitor/internal/config"
	"github.com/lucasmtls/energy-monitor/internal/database"
	"github.com/lucasmtls/energy-monitor/internal/repository"
	"github.com/lucasmtls/energy-monitor/internal/scheduler"
	queue_publisher "github.com/lucasmtls/energy-monitor/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadSchedulerConfig()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	runner := &scheduler.Runner{
		ScraperCmd: scheduler.SplitCommand(cfg.ScraperCmd),
		CommitCmd:  scheduler.SplitCommand(cfg.CommitCmd),
		CSVPath:    cfg.CSVPath,
		Records:    repository.NewRecordRepo(db),
	}
	if cfg.QueueOn {
		runner.Publish = queue_publisher.PublishRecordIngested
	}

	slots, err := scheduler.ParseTimes(cfg.Times)
	if err != nil {
		log.Fatalf("parse schedule: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("scheduler started, %d daily slot(s): %v", len(cfg.Times), cfg.Times)
	if err := scheduler.Start(ctx, runner, slots); err != nil && err != context.Canceled {
		log.Fatalf("scheduler stopped: %v", err)
	}
	log.Printf("scheduler shut down")
}
