package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nonomnouns/clankpad/internal/config"
	"github.com/nonomnouns/clankpad/internal/infrastructure/dynamo"
	"github.com/nonomnouns/clankpad/internal/infrastructure/kv"
	"github.com/nonomnouns/clankpad/internal/infrastructure/neynar"
	"github.com/nonomnouns/clankpad/internal/infrastructure/push"
	s3infra "github.com/nonomnouns/clankpad/internal/infrastructure/s3"
	transporthttp "github.com/nonomnouns/clankpad/internal/transport/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.AppEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	redisClient, err := kv.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	s3Client := s3infra.NewClient(cfg)

	deps := &transporthttp.Deps{
		AnnouncementRepo:      dynamo.NewAnnouncementRepo(dynamoClient, cfg.DynamoTables.Announcements),
		TokenRequestRepo:      dynamo.NewTokenRequestRepo(dynamoClient, cfg.DynamoTables.TokenRequests),
		NotificationTokenRepo: dynamo.NewNotificationTokenRepo(dynamoClient, cfg.DynamoTables.NotificationTokens),
		Cache:                 kv.NewCache(redisClient),
		Neynar:                neynar.NewClient(cfg),
		Push:                  push.NewSender(),
		S3Store:               s3infra.NewStore(s3Client, cfg),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	_ = redisClient.Close()
	log.Info().Msg("server stopped")
}
