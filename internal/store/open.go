package store

import (
	"context"
	"fmt"

	"github.com/lalith-99/skillswap/internal/db"
	"go.uber.org/zap"
)

const (
	BackendPebble   = "pebble"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	RedisURL    string
	DatabaseURL string
	Namespace   string
}

// Open connects the configured backend.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (KV, error) {
	logger.Info("opening state store", zap.String("backend", opts.Backend))

	switch opts.Backend {
	case BackendPebble, "":
		return OpenPebble(opts.DataDir)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.Namespace)
	case BackendPostgres:
		database, err := db.New(ctx, opts.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresKV(database), nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
