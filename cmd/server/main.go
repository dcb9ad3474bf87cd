package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Skili43/survey-tool/internal/api"
	"github.com/Skili43/survey-tool/internal/config"
	"github.com/Skili43/survey-tool/internal/middleware"
	"github.com/Skili43/survey-tool/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if !dotenv {
		logger.Debug("no .env file found")
	}

	bank, err := services.LoadBank(cfg.BankPath)
	if err != nil {
		return err
	}
	logger.Info("question bank loaded",
		zap.String("path", cfg.BankPath),
		zap.Strings("themes", bank.ThemeNames()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.ShareSecret == "" {
		logger.Warn("SURVEY_SHARE_SECRET not set, share links use a development secret")
	}
	router := api.NewRouter(api.Deps{
		Store:     store,
		Bank:      bank,
		Signer:    middleware.NewShareSigner(cfg.ShareSecret, cfg.ShareTTL),
		Logger:    logger,
		Commit:    cfg.Commit,
		BuildTime: cfg.BuildTime,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("survey server listening", zap.String("addr", cfg.Addr), zap.String("commit", cfg.Commit))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// openStore connects to Redis when configured, otherwise keeps sessions in
// memory and sweeps expired ones in the background.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (services.SessionStore, func(), error) {
	if cfg.RedisAddr == "" {
		store := api.NewMemoryStore(cfg.SessionTTL)
		if sw, ok := store.(api.Sweeper); ok && cfg.SessionTTL > 0 {
			go sweep(ctx, sw, cfg.SessionTTL, logger)
		}
		logger.Info("using in-memory session store", zap.Duration("ttl", cfg.SessionTTL))
		return store, func() {}, nil
	}

	addr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis at %s: %w", addr, err)
	}
	logger.Info("connected to Redis", zap.String("addr", addr), zap.Duration("ttl", cfg.SessionTTL))
	return api.NewRedisStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
}

func sweep(ctx context.Context, sw api.Sweeper, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sw.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}
