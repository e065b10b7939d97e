package redisstore

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/rafidain/schoollink/core"
)

// Store keeps each record as a plain redis string under prefix+key.
type Store struct {
	client *redis.Client
	prefix string
}

var _ core.RecordStore = (*Store)(nil)

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting record %q", key)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		// a closed client never accepts writes again
		if errors.Is(err, redis.ErrClosed) {
			return core.NewShutdownError(fmt.Sprintf("setting record %q: %v", key, err))
		}
		return errors.Wrapf(err, "setting record %q", key)
	}
	return nil
}
