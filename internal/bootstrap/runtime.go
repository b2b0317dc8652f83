// Package bootstrap establishes runtime dependencies for the commands.
package bootstrap

import (
	"fmt"

	"hublish/internal/cache"
	"hublish/internal/config"
	"hublish/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the process-wide dependencies established at startup.
type Runtime struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Redis  *redis.Client
}

// InitRuntime connects to the database (primary and optional read
// replica) and Redis. The Redis client is nil when unreachable; cache
// and events then degrade to pass-through.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	readDB, err := database.ConnectRead(cfg)
	if err != nil {
		return nil, fmt.Errorf("read replica connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return &Runtime{
		DB:     db,
		ReadDB: readDB,
		Redis:  cache.GetClient(),
	}, nil
}

// Close releases the runtime's connections.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	if err := database.Close(r.DB); err != nil {
		return err
	}
	if err := database.Close(r.ReadDB); err != nil {
		return err
	}
	if r.Redis != nil {
		return r.Redis.Close()
	}
	return nil
}
