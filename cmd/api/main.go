package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-otc-auth/internal/application/notification"
	"github.com/go-otc-auth/internal/application/session"
	"github.com/go-otc-auth/internal/config"
	"github.com/go-otc-auth/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otc-auth/internal/infrastructure/jwt"
	"github.com/go-otc-auth/internal/infrastructure/memory"
	redisinfra "github.com/go-otc-auth/internal/infrastructure/redis"
	"github.com/go-otc-auth/internal/infrastructure/smtp"
	"github.com/go-otc-auth/internal/infrastructure/sns"
	"github.com/go-otc-auth/internal/pkg/logger"
	"github.com/go-otc-auth/internal/pkg/token"
	transporthttp "github.com/go-otc-auth/internal/transport/http"
	"github.com/go-otc-auth/internal/transport/http/handler"
	"github.com/go-otc-auth/internal/transport/http/middleware"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.New(cfg.LogLevel)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	ctx := context.Background()

	codes, tokens, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open stores", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	defer closeStores()

	// SNS SMS sender (optional, graceful fallback).
	var smsSender sns.SMSSender
	if cfg.SNSEnabled {
		if sender, err := sns.NewSender(ctx, cfg); err == nil {
			smsSender = sender
		} else {
			slog.Warn("SNS sender not available", "err", err)
		}
	}

	mailer := smtp.NewMailer(cfg)
	if cfg.Notifier == "log" {
		mailer = smtp.NewLogMailer()
	}

	notifier := notification.NewService(notification.ServiceDeps{
		Mailer:     mailer,
		SMS:        smsSender,
		RatePerSec: cfg.NotifyRatePerSec,
		Burst:      cfg.NotifyBurst,
	})

	issuer := token.NewIssuer(cfg.CodeLength, cfg.TokenLength)
	sessions := session.NewService(session.ServiceDeps{
		Codes:               codes,
		Tokens:              tokens,
		Issuer:              issuer,
		Notifier:            notifier,
		CodeTTL:             cfg.CodeTTL,
		TokenTTL:            cfg.TokenTTL,
		DeleteCodeOnSuccess: cfg.DeleteCodeOnSuccess,
	})

	// Identity assertions (optional, graceful fallback if keys are missing).
	var assertions handler.Asserter
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		assertions = p
	} else {
		slog.Warn("identity assertions disabled", "err", err)
	}

	adminHash, err := middleware.HashSecret(cfg.AdminSecret)
	if err != nil {
		slog.Error("failed to hash admin secret", "err", err)
		os.Exit(1)
	}
	if adminHash == nil {
		slog.Warn("ADMIN_SECRET not set, token listing disabled")
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Sessions:        sessions,
		Assertions:      assertions,
		AdminSecretHash: adminHash,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			"port", cfg.AppPort,
			"env", cfg.AppEnv,
			"store", cfg.StoreBackend,
			"code_length", issuer.CodeLength(),
			"token_length", issuer.TokenLength(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	slog.Info("server stopped")
}

// openStores connects the code and token namespaces on the configured backend.
func openStores(ctx context.Context, cfg *config.Config) (codes, tokens session.Store, closeFn func(), err error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		codeClient, err := redisinfra.Connect(ctx, cfg.CodeStoreURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("code store: %w", err)
		}
		tokenClient, err := redisinfra.Connect(ctx, cfg.TokenStoreURL)
		if err != nil {
			_ = codeClient.Close()
			return nil, nil, nil, fmt.Errorf("token store: %w", err)
		}
		closeFn = func() {
			_ = codeClient.Close()
			_ = tokenClient.Close()
		}
		return redisinfra.NewStore(codeClient, redisinfra.CodePrefix),
			redisinfra.NewStore(tokenClient, redisinfra.TokenPrefix),
			closeFn, nil

	case config.BackendDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewStore(client, cfg.DynamoTables.Codes),
			dynamo.NewStore(client, cfg.DynamoTables.Tokens),
			func() {}, nil

	case config.BackendMemory:
		slog.Warn("using in-memory stores, state is lost on restart")
		return memory.NewStore(time.Now), memory.NewStore(time.Now), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
