// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validNetworks = map[string]bool{
	"mainnet":  true,
	"devnet":   true,
	"localnet": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
// An empty AdminKey is accepted; commands that need it call Admin.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return ErrInvalidLogFormat
	}

	if _, err := cfg.Program(); err != nil {
		return err
	}

	if cfg.AdminKey != "" {
		if _, err := cfg.Admin(); err != nil {
			return err
		}
	}

	switch cfg.Backend {
	case BackendBolt, BackendMemory:
	case BackendRedis:
		if err := validateAddr(cfg.RedisAddr); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRedisAddr, err)
		}
	default:
		return ErrInvalidBackend
	}

	if cfg.MetricsAddr != "" {
		if err := validateAddr(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMetricsAddr, err)
		}
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
