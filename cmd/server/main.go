package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tiendafast/identity-service/internal/api"
	"github.com/tiendafast/identity-service/internal/core/service"
	"github.com/tiendafast/identity-service/internal/infrastructure/config"
	mongodb "github.com/tiendafast/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/tiendafast/identity-service/internal/infrastructure/db/redis"
	"github.com/tiendafast/identity-service/internal/infrastructure/email"
	"github.com/tiendafast/identity-service/internal/infrastructure/idp"
	"github.com/tiendafast/identity-service/internal/infrastructure/queue"
	"github.com/tiendafast/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Collaborators ---
	mailer := email.NewMailer(email.Config{
		APIURL:        cfg.Mail.APIURL,
		APIKey:        cfg.Mail.APIKey,
		From:          cfg.Mail.From,
		VerifyBaseURL: cfg.Mail.VerifyBaseURL,
	})
	dispatcher := queue.NewMailDispatcher(cfg.MailWorkers, mailer, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token service misconfigured")
	}

	throttle := redisdb.NewResendThrottle(rdb)
	verification := service.NewVerificationService(repo, dispatcher, throttle, log)
	accounts := service.NewAccountService(repo, verification, tokens, log)
	federated := service.NewFederatedService(repo, idp.NewGoogleVerifier(), tokens, cfg.Google.ClientID, log)
	admin := service.NewAdminService(repo, log)

	e := api.NewRouter(api.Services{
		Accounts:     accounts,
		Verification: verification,
		Federated:    federated,
		Admin:        admin,
		Tokens:       tokens,
		Repo:         repo,
	}, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
