// cmd/coordinator/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"replydraft/internal/common/config"
	"replydraft/internal/common/database"
	"replydraft/internal/common/logger"
	"replydraft/internal/common/observability"
	"replydraft/internal/engine/coordinator"
	"replydraft/internal/engine/draftcache"
	"replydraft/internal/engine/invoker"
	"replydraft/internal/engine/repetition"
	"replydraft/internal/engine/state"
	"replydraft/internal/engine/throttle"
	"replydraft/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting draft coordinator",
		zap.String("environment", cfg.App.Environment),
		zap.String("cacheBackend", cfg.Cache.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Draft cache backend ---
	var cache draftcache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Cache.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rc.Close()
		cache = draftcache.NewRedisCache(rc.Client, config.GetDuration(cfg.Engine.CacheTTL))
		zapLog.Info("Redis draft cache connected")
	default:
		cache = draftcache.NewMemoryCache(config.GetDuration(cfg.Engine.CacheTTL))
	}

	// --- Engine assembly ---
	gen := invoker.NewGenAIGenerator(cfg.GenAI)
	inv := invoker.New(gen, invoker.Config{
		AttemptTimeout: config.GetDuration(cfg.Engine.AttemptTimeout),
		MaxAttempts:    cfg.Engine.MaxAttempts,
		BackoffBase:    config.GetDuration(cfg.Engine.BackoffBase),
	}, log)

	coord := coordinator.New(
		state.NewStore(cfg.Engine.MaxConversations, cfg.Engine.AskedQuestionsLimit, cfg.Engine.RecentAnswersLimit),
		throttle.NewGate(config.GetDuration(cfg.Engine.Cooldown)),
		cache,
		repetition.NewGuard(cfg.Engine.QuestionSimilarity, cfg.Engine.AnswerSimilarity),
		inv,
		cfg.Engine.MaxTranscriptLines,
		log,
		obs,
	)

	srv, err := server.New(cfg.Server, coord, log)
	if err != nil {
		zapLog.Fatal("server setup failed", zap.Error(err))
	}

	go func() {
		zapLog.Info("listening", zap.String("address", cfg.Server.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}

	zapLog.Info("stopped")
}
