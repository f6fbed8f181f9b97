package main

import (
	"context"
	"flag"
	"log"
	"time"

	"classbook/internal/config"
	"classbook/internal/database"
	"classbook/internal/pkg/logger"
	"classbook/internal/repository"

	"go.uber.org/zap"
)

// Purges read inbox notifications past the retention window. Meant for cron.
func main() {
	configPath := flag.String("config", "", "path to a config file")
	days := flag.Int("days", 30, "keep read notifications newer than this many days")
	flag.Parse()

	if *days <= 0 {
		log.Fatal("-days must be positive")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -*days)
	removed, err := repository.NewNotificationRepository(db).DeleteReadBefore(ctx, cutoff)
	if err != nil {
		zl.Fatal("cleanup notifications failed", zap.Error(err))
	}
	zl.Info("notification cleanup completed", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
}
