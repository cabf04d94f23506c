package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	_ "domly/docs"
	"domly/pkg/config"
	"domly/pkg/db"
	"domly/pkg/logger"
	"domly/pkg/notify"
	"domly/pkg/sendemail"
	"domly/pkg/server"
	"domly/pkg/sessions"
	"domly/pkg/storage"
)

//go:generate swag init -d ../.. -g cmd/domly/main.go -o ../../docs

// @title           Domly API
// @version         1.0
// @description     Condominium and building asset management: condominios, ativos, alertas, manutenções, documentos.

// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        apikey

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "domly")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logg.Fatal("redis", zap.Error(err))
	}

	files, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logg.Fatal("storage", zap.Error(err))
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Pool:     pool,
		Redis:    rdb,
		Sessions: sessions.NewRedisStore(rdb, cfg.SessionTTL),
		Storage:  files,
		Email:    sendemail.NewEmailService(cfg.SendgridAPIKey, cfg.SenderEmail, cfg.SenderName),
		Notify:   notify.NewConnectionManager(logg),
		Log:      logg,
	})

	if err := server.Run(ctx, cfg, router, logg); err != nil {
		logg.Fatal("server", zap.Error(err))
	}
}
