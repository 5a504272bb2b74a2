package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libgamma-go/amm"
)

var bucketAmmConfigs = []byte("amm_configs")

// BoltStore persists config accounts in bbolt. Each write runs in a single
// bbolt transaction; an error from the callback aborts it, so a rejected
// config never reaches disk.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAmmConfigs); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketAmmConfigs, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Create allocates a zeroed account at addr inside a write transaction,
// runs init on it and commits only if init succeeds.
func (s *BoltStore) Create(ctx context.Context, addr solana.PublicKey, init InitFunc) error {
	if init == nil {
		return fmt.Errorf("%w: init", ErrNilParam)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAmmConfigs)
		if b.Get(addr[:]) != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyInitialized, addr)
		}

		cfg := &amm.AmmConfig{}
		zeroed, err := cfg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("boltstore: encode zeroed config: %w", err)
		}
		if err := b.Put(addr[:], zeroed); err != nil {
			return fmt.Errorf("boltstore: allocate config: %w", err)
		}

		if err := init(cfg); err != nil {
			return err
		}

		data, err := cfg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("boltstore: encode config: %w", err)
		}
		if err := b.Put(addr[:], data); err != nil {
			return fmt.Errorf("boltstore: put config: %w", err)
		}
		return nil
	})
}

// Update runs fn on the account at addr inside a write transaction.
func (s *BoltStore) Update(ctx context.Context, addr solana.PublicKey, fn UpdateFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: update", ErrNilParam)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAmmConfigs)
		existing := b.Get(addr[:])
		if existing == nil {
			return fmt.Errorf("%w: %s", ErrNotInitialized, addr)
		}
		cfg, err := amm.DecodeAmmConfig(existing)
		if err != nil {
			return fmt.Errorf("boltstore: decode config: %w", err)
		}

		if err := fn(cfg); err != nil {
			return err
		}

		data, err := cfg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("boltstore: encode config: %w", err)
		}
		if err := b.Put(addr[:], data); err != nil {
			return fmt.Errorf("boltstore: update config: %w", err)
		}
		return nil
	})
}

// Get retrieves the account at addr.
func (s *BoltStore) Get(ctx context.Context, addr solana.PublicKey) (*amm.AmmConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cfg *amm.AmmConfig
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAmmConfigs).Get(addr[:])
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotInitialized, addr)
		}
		var err error
		if cfg, err = amm.DecodeAmmConfig(data); err != nil {
			return fmt.Errorf("boltstore: decode config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// List returns all stored accounts ordered by index.
func (s *BoltStore) List(ctx context.Context) ([]*amm.AmmConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cfgs []*amm.AmmConfig
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAmmConfigs).ForEach(func(k, v []byte) error {
			cfg, err := amm.DecodeAmmConfig(v)
			if err != nil {
				return fmt.Errorf("boltstore: decode config in list: %w", err)
			}
			cfgs = append(cfgs, cfg)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: list configs: %w", err)
	}
	sortByIndex(cfgs)
	return cfgs, nil
}
