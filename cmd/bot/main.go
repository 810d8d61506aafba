package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/bot"
	"github.com/desmitry/urfu-teamfinder/internal/config"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/i18n"
	"github.com/desmitry/urfu-teamfinder/internal/logger"
	"github.com/desmitry/urfu-teamfinder/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	if err := db.SeedTags(database); err != nil {
		log.Error("failed to seed tags", "err", err)
		return
	}
	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed test data", "err", err)
		}
	}

	sessions := session.NewStore(cfg)
	if err := sessions.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, sessions, log)
	bundle := i18n.NewBundle(cfg.App.DefaultLocale)

	b, err := bot.New(cfg, appCtx, bundle)
	if err != nil {
		log.Error("failed to init bot", "err", err)
		return
	}

	if err := b.Run(ctx); err != nil {
		log.Error("bot terminated", "err", err)
	}
}
