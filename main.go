package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"clipcast/domain/repository"
	"clipcast/infrastructure/cache"
	"clipcast/infrastructure/configuration"
	"clipcast/infrastructure/crypto"
	"clipcast/infrastructure/logger"
	"clipcast/infrastructure/persistence"
	"clipcast/infrastructure/platform"
	"clipcast/infrastructure/realtime"
	httpHandler "clipcast/interfaces/http"
	"clipcast/server"
	"clipcast/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSocialAccountSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring social account schema")
	}
	if err := persistence.EnsureScheduledPostSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring scheduled post schema")
	}
	if err := persistence.EnsureSettingsSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring settings schema")
	}
	if err := persistence.EnsureVideoSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring video schema")
	}

	cipher, err := crypto.NewTokenCipher(app.SecretKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot initialize token cipher")
		os.Exit(1)
	}

	// Redis is optional; without it refresh serialization falls back to the
	// in-process singleflight group only.
	var refreshLock repository.IRefreshLock
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - refresh locking stays process-local")
	} else {
		refreshLock = cache.NewRefreshLock(redisClient, 30*time.Second)
	}

	accountRepo := persistence.NewSocialAccountRepository(psqlDb, cipher)
	postRepo := persistence.NewScheduledPostRepository(psqlDb)
	videoRepo := persistence.NewVideoRepository(psqlDb)
	settingsRepo := persistence.NewSettingsRepository(psqlDb)
	if err := settingsRepo.Bootstrap(ctx, usecase.SettingsKeys()); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed bootstrapping settings keys")
	}

	registry := platform.NewRegistry(platform.Options{
		StatusTimeout:     time.Duration(configuration.C.Publish.StatusTimeoutSeconds) * time.Second,
		UploadTimeout:     time.Duration(configuration.C.Publish.UploadTimeoutSeconds) * time.Second,
		SimulationEnabled: configuration.C.Publish.SimulationEnabled,
	})

	hub := realtime.NewPublishHub()
	resolver := usecase.NewCredentialResolver(settingsRepo)
	refresher := usecase.NewTokenRefresher(accountRepo, resolver, registry, refreshLock)
	connectUsecase := usecase.NewConnectUsecase(accountRepo, resolver, registry)
	publishUsecase := usecase.NewPublishUsecase(accountRepo, videoRepo, postRepo, registry, refresher, hub)
	scheduleUsecase := usecase.NewScheduleUsecase(postRepo, publishUsecase, 5*time.Minute)

	connectHandler := httpHandler.NewConnectHandler(connectUsecase)
	accountHandler := httpHandler.NewSocialAccountHandler(accountRepo)
	publishHandler := httpHandler.NewPublishHandler(publishUsecase)
	scheduleHandler := httpHandler.NewScheduleHandler(scheduleUsecase)

	router := server.InitiateRouter(connectHandler, accountHandler, publishHandler, scheduleHandler, hub)

	// Background sweep for due scheduled posts.
	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				procCtx, cancelProc := context.WithTimeout(ctx, 30*time.Second)
				if _, err := scheduleUsecase.ProcessDue(procCtx, 50); err != nil {
					logger.GetLogger().WithField("error", err).Error("scheduled post sweep failed")
				}
				cancelProc()
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if !scheduleUsecase.Wait(10 * time.Second) {
		logger.GetLogger().Warn("in-flight publish attempts did not finish before shutdown deadline")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
