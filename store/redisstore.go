package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"

	"github.com/bitfsorg/libgamma-go/amm"
)

// DefaultRedisPrefix namespaces every key written by RedisStore.
const DefaultRedisPrefix = "gamma"

// createScript sets the account only if absent and indexes it by config index
// in the same atomic step. Returns 1 on success, 0 if the key exists.
var createScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 1 then
	redis.call("ZADD", KEYS[2], ARGV[2], KEYS[1])
	return 1
end
return 0
`)

// RedisStore persists config accounts in Redis. Unlike BoltStore it builds
// and checks the account in memory first and writes it in one atomic
// set-if-absent, so a rejected config is never sent to Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. An empty prefix selects DefaultRedisPrefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedisStore connects to addr, verifies the connection and namespaces
// keys under prefix.
func OpenRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("store: redis ping failed: %w", err)
	}
	return NewRedisStore(rdb, prefix), nil
}

func (s *RedisStore) accountKey(addr solana.PublicKey) string {
	return s.prefix + ":amm_config:" + addr.String()
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":amm_configs"
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.rdb.Close() }

// Create checks addr is free, runs init on a zeroed config and commits it
// with an atomic set-if-absent. A concurrent creator that wins the race in
// between still yields ErrAlreadyInitialized here.
func (s *RedisStore) Create(ctx context.Context, addr solana.PublicKey, init InitFunc) error {
	if init == nil {
		return fmt.Errorf("%w: init", ErrNilParam)
	}

	key := s.accountKey(addr)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redisstore: exists: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, addr)
	}

	cfg := &amm.AmmConfig{}
	if err := init(cfg); err != nil {
		return err
	}
	data, err := cfg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("redisstore: encode config: %w", err)
	}

	created, err := createScript.Run(ctx, s.rdb, []string{key, s.indexKey()}, data, int(cfg.Index)).Int()
	if err != nil {
		return fmt.Errorf("redisstore: create: %w", err)
	}
	if created == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, addr)
	}
	return nil
}

// Update runs fn on the account at addr under WATCH, committing only if the
// account did not change in the meantime.
func (s *RedisStore) Update(ctx context.Context, addr solana.PublicKey, fn UpdateFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: update", ErrNilParam)
	}

	key := s.accountKey(addr)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotInitialized, addr)
		}
		if err != nil {
			return fmt.Errorf("redisstore: get: %w", err)
		}

		cfg, err := amm.DecodeAmmConfig(data)
		if err != nil {
			return fmt.Errorf("redisstore: decode config: %w", err)
		}
		if err := fn(cfg); err != nil {
			return err
		}
		updated, err := cfg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("redisstore: encode config: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s", ErrConcurrentUpdate, addr)
	}
	return err
}

// Get returns the account at addr.
func (s *RedisStore) Get(ctx context.Context, addr solana.PublicKey) (*amm.AmmConfig, error) {
	data, err := s.rdb.Get(ctx, s.accountKey(addr)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get: %w", err)
	}
	return amm.DecodeAmmConfig(data)
}

// List returns all accounts ordered by index.
func (s *RedisStore) List(ctx context.Context) ([]*amm.AmmConfig, error) {
	keys, err := s.rdb.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list index: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list configs: %w", err)
	}

	cfgs := make([]*amm.AmmConfig, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // index entry without account
		}
		cfg, err := amm.DecodeAmmConfig([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("redisstore: decode %s: %w", keys[i], err)
		}
		cfgs = append(cfgs, cfg)
	}
	sortByIndex(cfgs)
	return cfgs, nil
}
