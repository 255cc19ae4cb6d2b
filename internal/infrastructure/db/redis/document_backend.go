package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultDocumentKey holds the whole record-store document.
const DefaultDocumentKey = "backoffice:db"

// maxModifyAttempts bounds the optimistic retries of Modify.
const maxModifyAttempts = 16

// DocumentBackend stores the record-store document under a single key.
// SET replaces the value atomically, so a reader never sees a partial document.
// Modify makes read-modify-write safe across replicas sharing the key.
type DocumentBackend struct {
	client *redis.Client
	key    string
}

func NewDocumentBackend(client *redis.Client, key string) *DocumentBackend {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &DocumentBackend{client: client, key: key}
}

func (b *DocumentBackend) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

func (b *DocumentBackend) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

// Modify runs fn under WATCH and writes its result in a MULTI/EXEC block. When
// another client touches the key in between, EXEC aborts and fn runs again on
// the new value.
func (b *DocumentBackend) Modify(ctx context.Context, fn func(data []byte) ([]byte, error)) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, b.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis get %s: %w", b.key, err)
		}

		out, err := fn(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, b.key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxModifyAttempts; i++ {
		err := b.client.Watch(ctx, txf, b.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis watch %s: %w", b.key, redis.TxFailedErr)
}
