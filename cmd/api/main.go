// Akeray property API entrypoint: loads configuration, opens the backing
// stores, starts the audit workers and serves HTTP until interrupted.
//
// @title           Akeray Property API
// @version         1.0
// @description     Role-scoped authentication and property listings for the Akeray marketplace.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/akeray/property-system/internal/api"
	"github.com/akeray/property-system/internal/core/service"
	"github.com/akeray/property-system/internal/core/token"
	"github.com/akeray/property-system/internal/infrastructure/db/mongo"
	"github.com/akeray/property-system/internal/infrastructure/db/redis"
	"github.com/akeray/property-system/internal/infrastructure/mail"
	"github.com/akeray/property-system/internal/infrastructure/queue"
	"github.com/akeray/property-system/internal/pkg/config"
	"github.com/akeray/property-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mailer, err := mail.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("amqp connection failed")
	}
	defer func() { _ = mailer.Close() }()

	auditRepo := mongo.NewAuditRepository(db)
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	issuer, err := token.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer setup failed")
	}

	e := api.NewRouter(api.Deps{
		DB:          db,
		MongoClient: mongoClient,
		Redis:       rdb,
		Mailer:      mailer,
		Recorder:    dispatcher,
		Issuer:      issuer,
		Logger:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
