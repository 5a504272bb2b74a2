package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgamma-go/admin"
	"github.com/bitfsorg/libgamma-go/config"
	"github.com/bitfsorg/libgamma-go/keystore"
	"github.com/bitfsorg/libgamma-go/logger"
	"github.com/bitfsorg/libgamma-go/metrics"
	"github.com/bitfsorg/libgamma-go/store"
)

// PasswordEnv names the variable holding the key file password.
const PasswordEnv = "GAMMA_KEY_PASSWORD"

// ErrNoPassword indicates PasswordEnv is unset or empty.
var ErrNoPassword = errors.New("cli: " + PasswordEnv + " is not set")

// session is the per-invocation environment shared by subcommands.
type session struct {
	cfg       config.Config
	programID solana.PublicKey
	log       *zap.Logger
	reg       *prometheus.Registry
	metrics   *metrics.Metrics
	server    *metrics.Server
	store     store.Store
}

// loadConfig reads the config file named by opts, or the default one if it
// exists, then applies GAMMA_* overrides and validates the result.
func loadConfig(opts *RootOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadConfig(opts.ConfigPath)
	} else {
		cfg, err = config.LoadConfig(config.ConfigPath(config.DefaultDataDir()))
		if errors.Is(err, config.ErrConfigNotFound) {
			err = nil
		}
	}
	if err != nil {
		return cfg, err
	}

	config.ApplyEnv(&cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openSession(opts *RootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	programID, err := cfg.Program()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, programID: programID, log: log, reg: prometheus.NewRegistry()}
	s.metrics = metrics.New(s.reg)

	if cfg.MetricsAddr != "" {
		s.server, err = metrics.Start(cfg.MetricsAddr, s.reg)
		if err != nil {
			s.Close()
			return nil, err
		}
		log.Debug("metrics listening", zap.String("addr", s.server.Addr()))
	}
	return s, nil
}

func (s *session) openStore(ctx context.Context) (store.Store, error) {
	if s.store != nil {
		return s.store, nil
	}

	var err error
	switch s.cfg.Backend {
	case config.BackendMemory:
		s.store = store.NewMemStore()
	case config.BackendRedis:
		s.store, err = store.OpenRedisStore(ctx, s.cfg.RedisAddr, os.Getenv("GAMMA_REDIS_PASSWORD"), 0, s.cfg.RedisPrefix)
	default:
		if err = os.MkdirAll(s.cfg.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("cli: create data dir: %w", err)
		}
		s.store, err = store.OpenBoltStore(s.cfg.BoltPath())
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug("store opened", zap.String("backend", s.cfg.Backend))
	return s.store, nil
}

func (s *session) service(ctx context.Context) (*admin.Service, error) {
	adminKey, err := s.cfg.Admin()
	if err != nil {
		return nil, err
	}
	st, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return admin.NewService(admin.Options{
		ProgramID: s.programID,
		Admin:     adminKey,
		Store:     st,
		Logger:    s.log,
		Metrics:   s.metrics,
	})
}

func passwordFromEnv() (string, error) {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return "", ErrNoPassword
	}
	return password, nil
}

// signingKey decrypts the configured key file.
func (s *session) signingKey() (solana.PrivateKey, error) {
	password, err := passwordFromEnv()
	if err != nil {
		return nil, err
	}
	return keystore.Load(s.cfg.KeyPath(), password)
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("store close failed", zap.Error(err))
		}
	}
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	_ = s.log.Sync()
}
