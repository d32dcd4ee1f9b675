package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/core/cache"
	"sweet-shop/internal/core/config"
	"sweet-shop/internal/core/database"
	"sweet-shop/internal/core/logger"
	"sweet-shop/internal/core/server"
	"sweet-shop/internal/repo"
	"sweet-shop/internal/service"
	"sweet-shop/internal/transport/http/ez"
	"sweet-shop/internal/transport/http/handler"
	"sweet-shop/internal/transport/http/router"
)

// set with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, cleanup := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		JSON:      cfg.Log.JSON,
		AddCaller: true,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwter, err := auth.NewJWTer(auth.Options{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		Env:    cfg.App.Env,
	})
	if err != nil {
		log.Fatal("jwt", zap.Error(err))
	}
	if jwter.UsingDevSecret {
		log.Warn("APP_JWT_SECRET is not set, using the development signing secret")
	}

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = rc.Close() }()
	if cfg.Redis.Addr == "" {
		log.Info("catalog cache disabled")
	} else {
		log.Info("catalog cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	authSvc := service.NewAuthService(repo.NewUserRepo(db), jwter, cfg.Auth.AllowAdminSignup, log)
	sweetSvc := service.NewSweetService(
		repo.NewSweetRepo(db), rc,
		time.Duration(cfg.Redis.CatalogTTLSec)*time.Second,
		log,
	)

	r := router.NewAPIEngine(router.Deps{
		Log:     log,
		DB:      db,
		Cache:   rc,
		JWT:     jwter,
		HTTP:    cfg.App.HTTP,
		Version: version,
		Modules: []ez.Module{
			handler.NewAuthHandler(authSvc),
			handler.NewSweetHandler(sweetSvc),
		},
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := fmt.Sprintf("http://%s:%d", host4human, cfg.App.HTTP.Port)
	log.Info("sweet shop api starting",
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- server.StartHTTP(srv, log) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
		if err := server.Shutdown(srv, 10*time.Second); err != nil {
			log.Error("graceful shutdown", zap.Error(err))
		}
	}
	log.Info("sweet shop api stopped")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
