// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wheretoeat/internal/metrics"
)

const badgerKeyPrefix = "picker_session:"

// BadgerStore persists sessions in BadgerDB so they survive restarts.
// Entries carry a Badger TTL matching the session expiry.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerStore wraps an open BadgerDB.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func badgerKey(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

// write stores s with a TTL covering its remaining lifetime.
func (b *BadgerStore) write(txn *badger.Txn, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	entry := badger.NewEntry(badgerKey(s.ID), data)
	if ttl := s.ExpiresAt.Sub(b.now()); ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return txn.SetEntry(entry)
}

func readSession(item *badger.Item) (*Session, error) {
	var s Session
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &s)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Create stores a new session.
func (b *BadgerStore) Create(_ context.Context, s *Session) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return b.write(txn, s)
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	metrics.RecordSessionCreated(string(StoreBadger))
	return nil
}

// Get retrieves a session by ID.
func (b *BadgerStore) Get(_ context.Context, id string) (*Session, error) {
	var s *Session
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		s, err = readSession(item)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.IsExpired(b.now()) {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Update replaces a stored session.
func (b *BadgerStore) Update(_ context.Context, s *Session) error {
	return b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(s.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		existing, err := readSession(item)
		if err != nil {
			return err
		}
		if existing.IsExpired(b.now()) {
			return ErrSessionNotFound
		}
		return b.write(txn, s)
	})
}

// Delete removes a session.
func (b *BadgerStore) Delete(_ context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(id))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpired deletes sessions whose expiry has passed but whose Badger
// TTL has not yet removed them.
func (b *BadgerStore) CleanupExpired(ctx context.Context) (int, error) {
	now := b.now()
	var expired [][]byte

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			s, err := readSession(item)
			if err != nil || s.IsExpired(now) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	count := 0
	for _, key := range expired {
		if err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		}); err != nil {
			continue
		}
		count++
	}
	metrics.RecordSessionCleanup(string(StoreBadger), count)
	return count, nil
}

// Count returns the number of stored sessions.
func (b *BadgerStore) Count() (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
