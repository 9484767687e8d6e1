// Command api runs the catalog HTTP service.
//
// @title        Strumline Catalog API
// @version      1.0
// @description  Admin/catalog API with token-based authentication and role gating.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strumline/catalog-api/internal/api"
	"github.com/strumline/catalog-api/internal/auth/password"
	"github.com/strumline/catalog-api/internal/auth/token"
	"github.com/strumline/catalog-api/internal/core/service"
	"github.com/strumline/catalog-api/internal/infrastructure/config"
	mongodb "github.com/strumline/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/strumline/catalog-api/internal/infrastructure/db/redis"
	"github.com/strumline/catalog-api/internal/infrastructure/queue"
	"github.com/strumline/catalog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: os.Getenv("ENV") != config.EnvProduction})

	cfg, err := config.Load(ctx, bootLog)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("configuration load failed")
	}
	log := logger.Get()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("product index creation failed")
	}

	// --- Auth core ---
	hasher := password.New(cfg.BcryptCost, logger.Component("password"))
	codec := token.New(cfg.JWTSecret, "catalog-api", cfg.TokenTTL())

	auditSink := queue.NewAuditDispatcher(0, auditRepo, logger.Component("audit"))
	auditSink.Start(ctx)

	authService := service.NewAuthService(userRepo, hasher, codec, auditSink, logger.Component("auth"))
	catalogService := service.NewCatalogService(productRepo, logger.Component("catalog"))
	limiter := redisdb.NewLoginLimiter(rdb, logger.Component("loginlimit"))

	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Catalog: catalogService,
		Limiter: limiter,
		Mongo:   db,
		Redis:   rdb,
		Log:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
