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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/api"
	"github.com/lalith-99/skillswap/internal/config"
	"github.com/lalith-99/skillswap/internal/notify"
	"github.com/lalith-99/skillswap/internal/observ"
	"github.com/lalith-99/skillswap/internal/repository/kvstore"
	"github.com/lalith-99/skillswap/internal/session"
	"github.com/lalith-99/skillswap/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger and metrics
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	metrics := observ.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 3. Open the state store and hydrate the repositories
	//
	// Every key loads once here. A missing or corrupt key starts from
	// its default; that is counted, never fatal.
	// ---------------------------------------------------------------
	kv, err := store.Open(ctx, store.Options{
		Backend:     cfg.StoreBackend,
		DataDir:     cfg.DataDir,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Namespace:   "skillswap",
	}, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	fallback := store.OnFallback(metrics.StoreFallback)
	repos := session.Repos{
		Profiles: kvstore.NewProfileStore(ctx, kv, logger, fallback),
		Listings: kvstore.NewListingStore(ctx, kv, logger, fallback),
		Requests: kvstore.NewRequestStore(ctx, kv, logger, fallback),
		Messages: kvstore.NewMessageStore(ctx, kv, logger, fallback),
	}

	// ---------------------------------------------------------------
	// 4. Pick a notifier
	//
	// A native shell listening on Redis wins over browser clients.
	// Without either, notifications become alerts on stderr.
	// ---------------------------------------------------------------
	hub := notify.NewHub(logger)
	defer hub.Close()

	shellClient := notifyClient(kv, cfg, logger)
	if shellClient != nil {
		if _, shared := kv.(*store.RedisKV); !shared {
			defer shellClient.Close()
		}
	}
	notifier := notify.Select(ctx, logger,
		notify.ShellProbe(shellClient, cfg.NotifyChannel),
		notify.BrowserProbe(hub),
	)
	gateway := notify.NewGateway(notifier, notify.NewWriterAlert(os.Stderr), logger,
		notify.WithObserver(metrics.Notification),
	)

	// ---------------------------------------------------------------
	// 5. Session
	// ---------------------------------------------------------------
	sess := session.New(repos, gateway, logger,
		session.WithReplyDelay(cfg.ReplyDelay),
		session.WithMaxPhotoBytes(cfg.MaxPhotoBytes),
		session.WithObserver(metrics),
	)
	defer sess.Close()

	// ---------------------------------------------------------------
	// 6. HTTP server
	// ---------------------------------------------------------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Session:       sess,
		Store:         kv,
		Hub:           hub,
		Metrics:       metrics,
		NotifierName:  notifier.Name(),
		JWTSecret:     cfg.JWTSecret,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		RateLimitRPS:  cfg.RateLimitRPS,
		RateBurst:     cfg.RateLimitBurst,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting skillswap",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreBackend),
		zap.String("notifier", notifier.Name()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// notifyClient returns a Redis client for the native shell channel. The
// redis store's client is reused; otherwise a new one is built from
// REDIS_URL, and the shell probe decides whether it is reachable.
func notifyClient(kv store.KV, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.NotifyChannel == "" {
		return nil
	}
	if r, ok := kv.(*store.RedisKV); ok {
		return r.Client()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, native shell notifications disabled", zap.Error(err))
		return nil
	}
	return redis.NewClient(opts)
}
