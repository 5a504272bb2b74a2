// Package admin implements the privileged operations on protocol fee configs.
//
// CreateAmmConfig runs as one unit:
//
//  1. reject any caller other than the configured administrator
//  2. derive the config address from its index
//  3. allocate the account (fails if it already exists)
//  4. populate every field from the arguments and defaults
//  5. validate the fee rates; a failure discards the allocation
//
// Either every step succeeds and the config is visible by index, or nothing
// is stored.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgamma-go/amm"
	"github.com/bitfsorg/libgamma-go/auth"
	"github.com/bitfsorg/libgamma-go/metrics"
	"github.com/bitfsorg/libgamma-go/pda"
	"github.com/bitfsorg/libgamma-go/store"
)

const (
	opCreate = "create"
	opUpdate = "update"
)

// Options configure a Service.
type Options struct {
	ProgramID solana.PublicKey
	Admin     amm.Identity
	Store     store.Store
	Logger    *zap.Logger      // nil discards logs
	Metrics   *metrics.Metrics // nil disables metrics
}

// Service executes admin operations against a Store.
type Service struct {
	programID solana.PublicKey
	admin     amm.Identity
	store     store.Store
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewService validates opts and returns a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	if opts.Admin.IsZero() {
		return nil, fmt.Errorf("%w: admin identity", ErrNilParam)
	}
	if opts.ProgramID.IsZero() {
		return nil, fmt.Errorf("%w: program id", ErrNilParam)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		programID: opts.ProgramID,
		admin:     opts.Admin,
		store:     opts.Store,
		log:       log.Named("admin"),
		metrics:   opts.Metrics,
	}, nil
}

// ProgramID returns the program the service derives addresses under.
func (s *Service) ProgramID() solana.PublicKey { return s.programID }

// Result is a committed config and its address.
type Result struct {
	Address solana.PublicKey `json:"address"`
	Config  *amm.AmmConfig   `json:"config"`
}

func (s *Service) authorize(caller amm.Identity) error {
	if !caller.Equals(s.admin) {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

// CreateAmmConfig creates the config at args.Index owned by caller.
func (s *Service) CreateAmmConfig(ctx context.Context, caller amm.Identity, args amm.CreateAmmConfigArgs) (res *Result, err error) {
	start := time.Now()
	log := s.log.With(zap.Uint16("index", args.Index), zap.Stringer("caller", caller))
	defer func() { s.observe(opCreate, start, log, err) }()

	if err := s.authorize(caller); err != nil {
		return nil, err
	}

	addr, bump, err := pda.DeriveAmmConfigAddress(s.programID, args.Index)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.Stringer("address", addr))

	var committed *amm.AmmConfig
	err = s.store.Create(ctx, addr, func(cfg *amm.AmmConfig) error {
		cfg.Bump = bump
		cfg.DisableCreatePool = false
		cfg.Index = args.Index
		cfg.TradeFeeRate = args.TradeFeeRate
		cfg.ProtocolFeeRate = args.ProtocolFeeRate
		cfg.FundFeeRate = args.FundFeeRate
		cfg.CreatePoolFee = args.CreatePoolFee
		cfg.ProtocolOwner = caller
		cfg.FundOwner = caller
		cfg.ReferralProject = amm.Identity{}
		cfg.MaxOpenTime = args.MaxOpenTime

		if err := amm.ValidateConfigRates(cfg); err != nil {
			return err
		}
		committed = cfg.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Address: addr, Config: committed}, nil
}

// UpdateAmmConfig changes one field of the config at args.Index and
// re-validates the rates in the same storage transaction.
func (s *Service) UpdateAmmConfig(ctx context.Context, caller amm.Identity, args amm.UpdateAmmConfigArgs) (res *Result, err error) {
	start := time.Now()
	log := s.log.With(
		zap.Uint16("index", args.Index),
		zap.Stringer("param", args.Param),
		zap.Stringer("caller", caller),
	)
	defer func() { s.observe(opUpdate, start, log, err) }()

	if err := s.authorize(caller); err != nil {
		return nil, err
	}

	addr, _, err := pda.DeriveAmmConfigAddress(s.programID, args.Index)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.Stringer("address", addr))

	var committed *amm.AmmConfig
	err = s.store.Update(ctx, addr, func(cfg *amm.AmmConfig) error {
		if err := cfg.Apply(args); err != nil {
			return err
		}
		if err := amm.ValidateConfigRates(cfg); err != nil {
			return err
		}
		committed = cfg.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Address: addr, Config: committed}, nil
}

// Execute authenticates req and dispatches the instruction it carries.
func (s *Service) Execute(ctx context.Context, req *auth.SignedRequest) (*Result, error) {
	caller, err := req.Verify(s.programID)
	if err != nil {
		return nil, err
	}

	ix, err := amm.DecodeInstruction(req.Data)
	if err != nil {
		return nil, err
	}

	switch {
	case ix.Create != nil:
		return s.CreateAmmConfig(ctx, caller, *ix.Create)
	case ix.Update != nil:
		return s.UpdateAmmConfig(ctx, caller, *ix.Update)
	default:
		return nil, ErrUnknownInstruction
	}
}

// GetAmmConfig returns the committed config at index, verifying that its
// stored bump reproduces the address it was read from.
func (s *Service) GetAmmConfig(ctx context.Context, index uint16) (*Result, error) {
	addr, _, err := pda.DeriveAmmConfigAddress(s.programID, index)
	if err != nil {
		return nil, err
	}

	cfg, err := s.store.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := pda.VerifyAmmConfigAddress(s.programID, cfg.Index, cfg.Bump, addr); err != nil {
		return nil, fmt.Errorf("admin: stored config at %s: %w", addr, err)
	}
	return &Result{Address: addr, Config: cfg}, nil
}

// ListAmmConfigs returns every committed config ordered by index.
func (s *Service) ListAmmConfigs(ctx context.Context) ([]*Result, error) {
	cfgs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(cfgs))
	for _, cfg := range cfgs {
		addr, _, err := pda.DeriveAmmConfigAddress(s.programID, cfg.Index)
		if err != nil {
			return nil, err
		}
		out = append(out, &Result{Address: addr, Config: cfg})
	}
	return out, nil
}

func (s *Service) observe(op string, start time.Time, log *zap.Logger, err error) {
	result := resultLabel(err)
	s.metrics.Observe(op, result, start)

	if err != nil {
		log.Warn(op+" rejected", zap.String("result", result), zap.Error(err))
		return
	}
	log.Info(op+" committed", zap.Duration("elapsed", time.Since(start)))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrUnauthorized):
		return metrics.ResultUnauthorized
	case errors.Is(err, store.ErrAlreadyInitialized):
		return metrics.ResultExists
	case errors.Is(err, amm.ErrInvalidRate):
		return metrics.ResultInvalidRate
	default:
		return metrics.ResultError
	}
}
