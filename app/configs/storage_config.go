package configs

import (
	"context"
	"fmt"
	"io"

	"github.com/Rakhulsr/go-storefront/app/models/migrations"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"go.uber.org/zap"
)

const redisKeyPrefix = "storefront:"

// Storage bundles the key-value store selected by STORAGE_DRIVER with the user
// repository that fits it. Close releases the underlying connection.
type Storage struct {
	Store  repositories.KeyValueStore
	Users  repositories.UserRepositoryImpl
	closer io.Closer
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func OpenStorage(ctx context.Context, env ENV, logger *zap.SugaredLogger) (*Storage, error) {
	switch env.StorageDriver {
	case "memory":
		store := repositories.NewMemoryStore()
		return &Storage{Store: store, Users: repositories.NewKVUserRepository(store)}, nil

	case "file":
		store, err := repositories.NewFileStore(env.StoragePath)
		if err != nil {
			return nil, err
		}
		return &Storage{Store: store, Users: repositories.NewKVUserRepository(store)}, nil

	case "redis":
		client, err := OpenRedis(ctx, env)
		if err != nil {
			return nil, err
		}
		logger.Infof("Redis ping succeeded at %s", env.RedisAddr)
		store := repositories.NewRedisStore(client, redisKeyPrefix, 0)
		return &Storage{Store: store, Users: repositories.NewKVUserRepository(store), closer: client}, nil

	case "mysql":
		db, err := OpenConnection(env, logger)
		if err != nil {
			return nil, err
		}
		if err := migrations.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Storage{
			Store:  repositories.NewGormStore(db),
			Users:  repositories.NewUserRepository(db),
			closer: sqlDB,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", env.StorageDriver)
}
