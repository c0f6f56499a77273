package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nusacargo/backoffice-auth/config"
	"github.com/nusacargo/backoffice-auth/db"
	"github.com/nusacargo/backoffice-auth/internal/auth/handler"
	repo "github.com/nusacargo/backoffice-auth/internal/auth/repository/postgres"
	"github.com/nusacargo/backoffice-auth/internal/auth/service"
	"github.com/nusacargo/backoffice-auth/internal/logger"
	"github.com/nusacargo/backoffice-auth/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := db.Migrate(cfg.DBURL, cfg.MigrationsPath); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	sender, err := rabbitmq.NewPublisher(cfg.AmqpURL, cfg.NotifyExchange)
	if err != nil {
		zapLogger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer sender.Close()

	userRepo := repo.NewPostgresRepository(pool)
	sessionRepo := repo.NewSessionRepository(pool)
	permRepo := repo.NewPermissionRepository(pool)

	clock := service.SystemClock{}
	random := service.CryptoRand{}
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.PendingTokenSecret, cfg.AccessExpiryMin)

	verifier := service.NewCredentialVerifier(userRepo)
	otpManager := service.NewOtpChallengeManager(userRepo, sender, random, clock)
	establisher := service.NewSessionEstablisher(sessionRepo, userRepo, sender, tokenService, clock, zapLogger)
	authService := service.NewAuthService(userRepo, userRepo, verifier, otpManager, establisher, tokenService, clock, zapLogger)

	authHandler := handler.NewAuthHandler(authService, tokenService, permRepo)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	zapLogger.Info("starting backoffice-auth", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
