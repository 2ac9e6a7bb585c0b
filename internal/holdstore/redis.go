// Package holdstore provides the ephemeral per-owner hold storage behind the
// reservation hold manager. Redis is the normal backend (one short-TTL key
// per owner); a mutex-guarded in-memory store stands in when Redis is not
// reachable at startup.
package holdstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// RedisStore keys holds by owner reference, so writing a new hold replaces
// the owner's previous one in a single SET: the at-most-one-active-hold
// invariant is the key scheme. The key TTL is a safety net on top of the
// computed expiry the manager applies on read.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore returns a hold store backed by the given client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "hold:owner:"}
}

func (s *RedisStore) key(ownerRef string) string {
	return s.prefix + ownerRef
}

// Get returns the owner's hold or nil when there is none.
func (s *RedisStore) Get(ctx context.Context, ownerRef string) (*model.Hold, error) {
	raw, err := s.rdb.Get(ctx, s.key(ownerRef)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get hold: %w", err)
	}
	var h model.Hold
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode hold: %w", err)
	}
	return &h, nil
}

// Put stores the hold under its owner key, replacing any previous hold. The
// key expires a little after the hold itself so a just-lapsed hold can still
// be read back and reported as expired rather than simply vanishing.
func (s *RedisStore) Put(ctx context.Context, h model.Hold, ttl time.Duration) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode hold: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(h.OwnerRef), raw, ttl+time.Minute).Err(); err != nil {
		return fmt.Errorf("redis set hold: %w", err)
	}
	return nil
}

// Delete removes the owner's hold; deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, ownerRef string) error {
	if err := s.rdb.Del(ctx, s.key(ownerRef)).Err(); err != nil {
		return fmt.Errorf("redis del hold: %w", err)
	}
	return nil
}
