package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gomatch/adapters/excel"
	"gomatch/adapters/memory"
	"gomatch/adapters/postgres"
	"gomatch/app"
	"gomatch/internal/config"
	"gomatch/ports"
	"gomatch/ui"
)

func main() {
	// Load .env file if present (ignore errors for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	cat, err := config.LoadCatalog(cfg.Paths.CatalogFile)
	if err != nil {
		log.Fatalf("failed to load question catalog: %v", err)
	}
	matchCfg, err := config.LoadMatchingConfig(cfg.Paths.MatchConfigFile)
	if err != nil {
		log.Fatalf("failed to load matching configuration: %v", err)
	}
	if cfg.Paths.RespondentsFile == "" {
		log.Fatalf("RESPONDENTS_FILE is required for the API server")
	}

	var batches ports.BatchRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBatchRepository(db).(*postgres.BatchRepositoryImpl)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("failed to prepare batch schema: %v", err)
		}
		batches = repo
	} else {
		log.Printf("no DATABASE_URL configured, keeping batches in memory")
		batches = memory.NewBatchRepository()
	}

	source := excel.NewRespondentReader(cfg.Paths.RespondentsFile)
	service := app.NewMatchService(app.DropInvalid)
	server := ui.NewServer(service, batches, source, cat, matchCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
