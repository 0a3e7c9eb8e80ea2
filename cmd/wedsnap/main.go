package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wedsnap/internal/cache"
	"wedsnap/internal/config"
	"wedsnap/internal/http/handlers"
	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := applog.New(cfg.IsProduction(), cfg.LogFile)
	if err != nil {
		log.Fatalf("[log] %v", err)
	}
	defer func() { _ = logger.Sync() }()
	applog.SetLogger(logger)

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("db.open.fail", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	// Settings cache is optional; without REDIS_ADDR every read hits the DB.
	var store services.SettingsStore
	if cfg.RedisAddr != "" {
		rc, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("cache.connect.fail", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer rc.Close()
			store = rc
			logger.Info("cache.connected", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.SettingsCacheTTL))
		}
	}

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, cfg, authSvc, store)
	app := handlers.NewApp(cfg, deps)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("server.shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server.shutdown.fail", zap.Error(err))
		}
	}()

	logger.Info("server.start", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server.listen.fail", zap.Error(err))
	}
}
