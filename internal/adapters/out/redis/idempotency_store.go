package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "settlement"
	idempotencyPrefix = "idempotency"

	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultPendingTTL     = 2 * time.Minute
)

// ErrStoreNotInitialized is returned when the store has no client.
var ErrStoreNotInitialized = errors.New("redis idempotency store not initialized")

// IdempotencyStore keeps recorded responses of mutating requests keyed by the
// caller supplied Idempotency-Key. A reservation lives for pendingTTL so that
// a request that never finishes frees its key; a saved response lives for ttl.
type IdempotencyStore struct {
	client     goredis.Cmdable
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewIdempotencyStore returns a store over client. Non-positive durations
// fall back to DefaultIdempotencyTTL and DefaultPendingTTL.
func NewIdempotencyStore(client goredis.Cmdable, ttl, pendingTTL time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, pendingTTL: pendingTTL}
}

// Connect opens a pooled client and verifies connectivity.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key returns the namespaced storage key for one idempotency key within a
// scope (method and path).
func (s *IdempotencyStore) Key(scope, id string) string {
	parts := []string{keyNamespace, idempotencyPrefix}
	for _, part := range []string{scope, id} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ":")
}

// Get returns the stored record. found is false when the key is absent or
// expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, ErrStoreNotInitialized
	}
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Reserve stores value for the pending TTL only if key is free. It reports
// whether the caller now owns the key.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, value string) (bool, error) {
	if s == nil || s.client == nil {
		return false, ErrStoreNotInitialized
	}
	ok, err := s.client.SetNX(ctx, key, value, s.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", key, err)
	}
	return ok, nil
}

// Save overwrites the record and restarts its TTL.
func (s *IdempotencyStore) Save(ctx context.Context, key, value string) error {
	if s == nil || s.client == nil {
		return ErrStoreNotInitialized
	}
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return ErrStoreNotInitialized
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
