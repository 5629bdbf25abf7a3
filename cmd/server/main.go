package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ssoapi "github.com/seekrhq/auth-service/api/echo"
	redisstore "github.com/seekrhq/auth-service/cache/redis"
	"github.com/seekrhq/auth-service/config"
	"github.com/seekrhq/auth-service/internal/federation"
	"github.com/seekrhq/auth-service/internal/token"
	"github.com/seekrhq/auth-service/mongodb"
	"github.com/seekrhq/auth-service/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = logger

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:         cfg.RedisAddr,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	userRepo := mongodb.NewUserRepository(db)
	accountRepo, err := mongodb.NewAccountRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize account repository")
	}

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.IssuerURL)
	authRepo := services.NewAuthRepository(
		redisstore.NewCodeStore(redisClient),
		redisstore.NewRefreshTokenStore(redisClient),
		codec,
	)
	authService := services.NewAuthService(authRepo)
	accountService := services.NewAccountService(userRepo, accountRepo)

	providers, err := federation.NewRegistry(cfg.Providers())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure identity providers")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	ssoapi.NewOAuth2API(authService, accountService, providers, userRepo).RegisterRoutes(e)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
