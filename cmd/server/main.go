package main // API server entry point

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/config"
	"github.com/lucasmtls/energy-monitor/internal/database"
	"github.com/lucasmtls/energy-monitor/internal/handler"
	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/queue"
	"github.com/lucasmtls/energy-monitor/internal/repository"
	"github.com/lucasmtls/energy-monitor/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	records := repository.NewRecordRepo(db)
	tokens := repository.NewTokenRepo(db)

	bootstrapAdmin(cfg, accounts)

	// Redis is optional: with no client both middlewares pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and response cache disabled")
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterPublic(e, handler.NewDashboardHandler(os.Getenv("CSV_PATH")))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, accounts, tokens), cfg.JWTSecret)
	router.RegisterRecords(e, handler.NewRecordHandler(records, cache), cache, cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAccountHandler(cfg, accounts, cache), cfg.JWTSecret)

	// The ingest consumer mirrors scraped records into logs/ingest.log.
	// Opt-in: it reconnects forever, which is noise when no broker exists.
	if os.Getenv("QUEUE_ENABLED") == "true" {
		go func() {
			if err := queue.StartIngestConsumer(); err != nil {
				log.Printf("ingest consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin seeds the first ADMIN account on an empty database so the
// admin surface is reachable without hand-editing the sqlite file.
func bootstrapAdmin(cfg config.Config, accounts *repository.AccountRepo) {
	if cfg.AdminUser == "" || cfg.AdminPass == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := accounts.Count(ctx)
	if err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}
	if n > 0 {
		return
	}
	if _, err := accounts.Create(ctx, cfg.AdminUser, cfg.AdminPass, repository.RoleAdmin, cfg.BcryptCost); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}
	log.Printf("seeded bootstrap admin account %q", cfg.AdminUser)
}
