package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	authservice "glickoserver/auth/service"
	"glickoserver/auth/storage"
	authpostgres "glickoserver/auth/storage/postgres"
	authsqlite "glickoserver/auth/storage/sqlite"
	botsqlite "glickoserver/bot/botstorage/sqlite"
	"glickoserver/bot/tgbot"
	"glickoserver/internal/config"
	"glickoserver/internal/logger"
	"glickoserver/internal/service"
	"glickoserver/internal/storage/sqlite"
	"glickoserver/internal/web"

	"github.com/sirupsen/logrus"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	serverConfigPath := flag.String("server-config", "configs/server.toml", "path to the server config")
	botConfigPath := flag.String("bot-config", "configs/bot.toml", "path to the bot config")
	flag.Parse()

	log := logger.New()

	cfg, err := config.New(*serverConfigPath, *botConfigPath)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	logger.SetVerbose(log, cfg.Server.Debug)

	ratingStorage, err := sqlite.New(log, cfg.Server)
	if err != nil {
		log.WithError(err).Fatal("rating storage")
	}
	playerService := service.New(log, ratingStorage, ratingStorage, cfg.Server.Rating)

	ctx := context.Background()
	authStorage, err := newAuthStorage(ctx, log, cfg.Server)
	if err != nil {
		log.WithError(err).Fatal("auth storage")
	}
	authService, err := authservice.New(ctx, cfg.Server.Auth, authStorage)
	if err != nil {
		log.WithError(err).Fatal("auth service")
	}

	server, err := web.New(playerService, cfg.Server, authService)
	if err != nil {
		log.WithError(err).Fatal("web server")
	}

	if cfg.Server.TgBotEnabled {
		botStorage, err := botsqlite.New(log, cfg.TgBot)
		if err != nil {
			log.WithError(err).Fatal("bot storage")
		}
		bot, err := tgbot.New(playerService, botStorage, cfg, log)
		if err != nil {
			log.WithError(err).Fatal("telegram bot")
		}
		go bot.Run()
		defer bot.Stop()
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	if err := server.Serve(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newAuthStorage(ctx context.Context, log *logrus.Logger, cfg config.Server) (storage.AuthStorage, error) {
	switch cfg.Auth.Type {
	case "sqlite", "":
		return authsqlite.New(log, cfg)
	case "postgres":
		return authpostgres.New(ctx, cfg.Auth)
	}
	return nil, fmt.Errorf("unknown auth storage type %q", cfg.Auth.Type)
}
