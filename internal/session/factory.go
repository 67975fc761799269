// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/wheretoeat/internal/config"
	"github.com/tomtom215/wheretoeat/internal/logging"
)

// StoreType names a session storage backend.
type StoreType string

const (
	// StoreMemory keeps sessions in process memory (default, not persistent).
	StoreMemory StoreType = "memory"

	// StoreBadger persists sessions in a BadgerDB directory.
	StoreBadger StoreType = "badger"

	// StoreRedis keeps sessions in Redis.
	StoreRedis StoreType = "redis"
)

const redisPingTimeout = 5 * time.Second

// StoreFactory opens the backend selected by configuration and owns its
// connection.
type StoreFactory struct {
	storeType StoreType
	store     Store
	badgerDB  *badger.DB
	redis     *redis.Client
}

// NewStoreFactory opens the configured backend. Badger and Redis connections
// are held until Close.
func NewStoreFactory(cfg *config.SessionConfig) (*StoreFactory, error) {
	f := &StoreFactory{storeType: StoreType(cfg.Store)}

	switch f.storeType {
	case StoreBadger:
		opts := badger.DefaultOptions(cfg.Path)
		opts.Logger = nil
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for sessions: %w", err)
		}
		f.badgerDB = db
		f.store = NewBadgerStore(db)

	case StoreRedis:
		client, err := ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		f.redis = client
		f.store = NewRedisStore(client)

	case StoreMemory, "":
		f.storeType = StoreMemory
		f.store = NewMemoryStore()

	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}

	logging.Info().Str("store", string(f.storeType)).Msg("Session store ready")
	return f, nil
}

// Store returns the session store.
func (f *StoreFactory) Store() Store {
	return f.store
}

// Type returns the selected backend.
func (f *StoreFactory) Type() StoreType {
	return f.storeType
}

// Close releases the backend connection, if any.
func (f *StoreFactory) Close() error {
	switch {
	case f.badgerDB != nil:
		return f.badgerDB.Close()
	case f.redis != nil:
		return f.redis.Close()
	default:
		return nil
	}
}
