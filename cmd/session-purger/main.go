package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	authpostgres "github.com/Apurer/dropship-order-service/internal/domains/auth/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/dropship-order-service/internal/platform/postgres"
)

type config struct {
	PostgresDSN string        `env:"POSTGRES_DSN" env-required:"true"`
	Timeout     time.Duration `env:"PURGE_TIMEOUT" env-default:"30s"`
}

func main() {
	_ = godotenv.Load()
	var cfg config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("read environment: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	purged, err := authpostgres.NewSessionStore(db).PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("purged", purged))
}
