// Package storage opens the record store selected by STORE_DRIVER and exposes
// it through the core ports.
package storage

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ledgerdesk/backoffice/internal/core/ports"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/config"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/db/document"
	mongodb "github.com/ledgerdesk/backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/ledgerdesk/backoffice/internal/infrastructure/db/redis"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/db/relational"
)

// Storage bundles the repositories of one backend with its health checks and
// shutdown hooks.
type Storage struct {
	Users        ports.UserRepository
	Clients      ports.ClientRepository
	Transactions ports.TransactionRepository

	// Redis is set whenever REDIS_ADDR is configured, whatever the driver.
	Redis *goredis.Client

	// Checks maps a dependency name to its readiness probe.
	Checks map[string]func(context.Context) error

	closers []func(context.Context) error
}

// Open connects to the configured backend. On error every connection opened so
// far is closed.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *Storage, err error) {
	s := &Storage{Checks: make(map[string]func(context.Context) error)}
	defer func() {
		if err != nil {
			_ = s.Close(context.Background())
		}
	}()

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		s.Redis = rdb
		s.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
	}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		s.useDocument(document.NewStore(document.NewMemoryBackend()), "memory")
	case config.StoreFile:
		s.useDocument(document.NewStore(document.NewFileBackend(cfg.Store.File)), "file")
	case config.StoreRedis:
		if s.Redis == nil {
			return nil, errors.New("storage: redis driver requires REDIS_ADDR")
		}
		s.useDocument(document.NewStore(redisdb.NewDocumentBackend(s.Redis, cfg.Store.RedisKey)), "document")
	case config.StoreMongo:
		if err := s.useMongo(ctx, cfg.Mongo); err != nil {
			return nil, err
		}
	case config.StorePostgres, config.StoreSQLite:
		if err := s.useRelational(ctx, cfg.Store, log); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Store.Driver)
	}

	log.Info().Str("driver", cfg.Store.Driver).Bool("redis", s.Redis != nil).Msg("storage ready")
	return s, nil
}

func (s *Storage) useDocument(store *document.Store, name string) {
	s.Users = document.NewUserRepository(store)
	s.Clients = document.NewClientRepository(store)
	s.Transactions = document.NewTransactionRepository(store)
	s.Checks[name] = store.Ping
}

func (s *Storage) useMongo(ctx context.Context, cfg config.MongoConfig) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Disconnect)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("storage: mongo indexes: %w", err)
	}

	s.Users = mongodb.NewUserRepository(db)
	s.Clients = mongodb.NewClientRepository(db)
	s.Transactions = mongodb.NewTransactionRepository(db)
	s.Checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	return nil
}

func (s *Storage) useRelational(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) error {
	db, err := relational.Open(ctx, relational.Config{Driver: cfg.Driver, DSN: cfg.DatabaseURL}, log)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return relational.Close(db) })

	s.Users = relational.NewUserRepository(db)
	s.Clients = relational.NewClientRepository(db)
	s.Transactions = relational.NewTransactionRepository(db)
	s.Checks[cfg.Driver] = func(ctx context.Context) error { return relational.Ping(ctx, db) }
	return nil
}

// LoginThrottle returns a Redis-backed throttle, or nil without Redis.
func (s *Storage) LoginThrottle(cfg config.LoginConfig) ports.LoginThrottle {
	if s.Redis == nil {
		return nil
	}
	return redisdb.NewLoginThrottle(s.Redis, cfg.MaxAttempts, cfg.Window)
}

// Close shuts connections down in reverse order of opening.
func (s *Storage) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
