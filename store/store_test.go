package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libgamma-go/amm"
)

var errRejected = errors.New("rejected by init")

func tempBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	dir := t.TempDir()
	s, err := OpenBoltStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func tempRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "test")
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"mem":   NewMemStore(),
		"bolt":  tempBoltStore(t),
		"redis": tempRedisStore(t),
	}
}

func testAddr(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	pk[31] = b
	return pk
}

func populate(index uint16, trade uint64) InitFunc {
	return func(cfg *amm.AmmConfig) error {
		cfg.Index = index
		cfg.TradeFeeRate = trade
		cfg.ProtocolOwner = testAddr(0xAA)
		return nil
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestStore_CreateAndGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(1)

			require.NoError(t, s.Create(ctx, addr, populate(1, 2500)))

			got, err := s.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, uint16(1), got.Index)
			assert.Equal(t, uint64(2500), got.TradeFeeRate)
			assert.Equal(t, testAddr(0xAA), got.ProtocolOwner)
		})
	}
}

func TestStore_CreateReceivesZeroedAccount(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var seen amm.AmmConfig
			err := s.Create(context.Background(), testAddr(2), func(cfg *amm.AmmConfig) error {
				seen = *cfg
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, amm.AmmConfig{}, seen)
		})
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(3)

			require.NoError(t, s.Create(ctx, addr, populate(3, 100)))

			called := false
			err := s.Create(ctx, addr, func(cfg *amm.AmmConfig) error {
				called = true
				return populate(3, 999)(cfg)
			})
			assert.ErrorIs(t, err, ErrAlreadyInitialized)
			assert.False(t, called, "init must not run for an occupied address")

			got, err := s.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, uint64(100), got.TradeFeeRate, "first create's values retained")
		})
	}
}

func TestStore_CreateRollback(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(4)

			err := s.Create(ctx, addr, func(cfg *amm.AmmConfig) error {
				cfg.Index = 4
				cfg.TradeFeeRate = 900000
				cfg.ProtocolFeeRate = 200000
				return amm.ValidateConfigRates(cfg)
			})
			assert.ErrorIs(t, err, amm.ErrInvalidRate)

			_, err = s.Get(ctx, addr)
			assert.ErrorIs(t, err, ErrNotInitialized)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			// The address stays usable after a rolled-back attempt.
			require.NoError(t, s.Create(ctx, addr, populate(4, 1)))
		})
	}
}

func TestStore_CreateNilInit(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Create(context.Background(), testAddr(5), nil), ErrNilParam)
		})
	}
}

func TestStore_CreateConcurrentSameAddress(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(6)

			const workers = 16
			var (
				wg        sync.WaitGroup
				succeeded atomic.Int32
				collided  atomic.Int32
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(trade uint64) {
					defer wg.Done()
					err := s.Create(ctx, addr, populate(6, trade))
					switch {
					case err == nil:
						succeeded.Add(1)
					case errors.Is(err, ErrAlreadyInitialized):
						collided.Add(1)
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}(uint64(i + 1))
			}
			wg.Wait()

			assert.Equal(t, int32(1), succeeded.Load())
			assert.Equal(t, int32(workers-1), collided.Load())
		})
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestStore_Update(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(7)
			require.NoError(t, s.Create(ctx, addr, populate(7, 10)))

			require.NoError(t, s.Update(ctx, addr, func(cfg *amm.AmmConfig) error {
				cfg.TradeFeeRate = 20
				return nil
			}))

			got, err := s.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, uint64(20), got.TradeFeeRate)
		})
	}
}

func TestStore_UpdateRollback(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			addr := testAddr(8)
			require.NoError(t, s.Create(ctx, addr, populate(8, 10)))

			err := s.Update(ctx, addr, func(cfg *amm.AmmConfig) error {
				cfg.TradeFeeRate = 30
				return errRejected
			})
			assert.ErrorIs(t, err, errRejected)

			got, err := s.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, uint64(10), got.TradeFeeRate)
		})
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update(context.Background(), testAddr(9), func(*amm.AmmConfig) error { return nil })
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), testAddr(10))
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestStore_ListOrderedByIndex(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, idx := range []uint16{5, 1, 3} {
				require.NoError(t, s.Create(ctx, testAddr(byte(20+idx)), populate(idx, uint64(idx))))
			}

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, uint16(1), list[0].Index)
			assert.Equal(t, uint16(3), list[1].Index)
			assert.Equal(t, uint16(5), list[2].Index)
		})
	}
}

func TestBoltStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, testAddr(30), populate(30, 77)))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, testAddr(30))
	require.NoError(t, err)
	assert.Equal(t, uint64(77), got.TradeFeeRate)
}

func TestMemStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemStore()
	assert.ErrorIs(t, s.Create(ctx, testAddr(31), populate(31, 1)), context.Canceled)
}

func TestOpenRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedisStore(context.Background(), addr, "", 0, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
