// Package store persists config accounts keyed by their derived address.
//
// Every write is all-or-nothing: Create allocates a zeroed account, hands it
// to the caller's init function and keeps it only if init returns nil.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/libgamma-go/amm"
)

// InitFunc populates a freshly allocated config. A non-nil error discards
// the allocation.
type InitFunc func(cfg *amm.AmmConfig) error

// UpdateFunc mutates an existing config. A non-nil error discards the change.
type UpdateFunc func(cfg *amm.AmmConfig) error

// Store persists config accounts.
type Store interface {
	// Create allocates the account at addr and runs init on it.
	// Returns ErrAlreadyInitialized if addr is occupied.
	Create(ctx context.Context, addr solana.PublicKey, init InitFunc) error

	// Update runs fn on the account at addr and persists the result.
	// Returns ErrNotInitialized if addr is empty.
	Update(ctx context.Context, addr solana.PublicKey, fn UpdateFunc) error

	// Get returns the account at addr.
	Get(ctx context.Context, addr solana.PublicKey) (*amm.AmmConfig, error)

	// List returns all accounts ordered by index.
	List(ctx context.Context) ([]*amm.AmmConfig, error)

	// Close releases the underlying resources.
	Close() error
}

// MemStore is an in-memory Store for tests and single-process use.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey][]byte
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[solana.PublicKey][]byte)}
}

// Create allocates the account at addr and runs init on it.
func (s *MemStore) Create(ctx context.Context, addr solana.PublicKey, init InitFunc) error {
	if init == nil {
		return fmt.Errorf("%w: init", ErrNilParam)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[addr]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, addr)
	}

	// The allocation is local until init succeeds.
	cfg := &amm.AmmConfig{}
	if err := init(cfg); err != nil {
		return err
	}
	data, err := cfg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: encode config: %w", err)
	}
	s.accounts[addr] = data
	return nil
}

// Update runs fn on the account at addr and persists the result.
func (s *MemStore) Update(ctx context.Context, addr solana.PublicKey, fn UpdateFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: update", ErrNilParam)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.accounts[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInitialized, addr)
	}
	cfg, err := amm.DecodeAmmConfig(data)
	if err != nil {
		return fmt.Errorf("store: decode config: %w", err)
	}
	if err := fn(cfg); err != nil {
		return err
	}
	updated, err := cfg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: encode config: %w", err)
	}
	s.accounts[addr] = updated
	return nil
}

// Get returns the account at addr.
func (s *MemStore) Get(ctx context.Context, addr solana.PublicKey) (*amm.AmmConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.accounts[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, addr)
	}
	return amm.DecodeAmmConfig(data)
}

// List returns all accounts ordered by index.
func (s *MemStore) List(ctx context.Context) ([]*amm.AmmConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*amm.AmmConfig, 0, len(s.accounts))
	for _, data := range s.accounts {
		cfg, err := amm.DecodeAmmConfig(data)
		if err != nil {
			return nil, fmt.Errorf("store: decode config: %w", err)
		}
		out = append(out, cfg)
	}
	sortByIndex(out)
	return out, nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

func sortByIndex(cfgs []*amm.AmmConfig) {
	sort.Slice(cfgs, func(i, j int) bool { return cfgs[i].Index < cfgs[j].Index })
}
