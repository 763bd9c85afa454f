package session

import (
	"context"

	apperrors "github.com/matzehuels/archsketch/pkg/errors"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	MemorySize    int
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// Open creates the store named by cfg.Backend. Empty means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMemory:
		return NewMemoryStore(cfg.MemorySize)
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "redis session store requires an address")
		}
		return NewRedisStore(ctx, cfg.RedisAddr)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "mongo session store requires a uri")
		}
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown session backend %q", cfg.Backend)
}
