// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"devnet\", or \"localnet\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"console\" or \"json\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidProgramID indicates the program ID is not a base58 public key.
	ErrInvalidProgramID = errors.New("config: invalid program id")

	// ErrInvalidAdminKey indicates the admin key is not a base58 public key.
	ErrInvalidAdminKey = errors.New("config: invalid admin key")

	// ErrMissingAdminKey indicates no administrator identity is configured.
	ErrMissingAdminKey = errors.New("config: admin key not set")

	// ErrInvalidBackend indicates the storage backend is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"bolt\", \"redis\", or \"memory\")")

	// ErrInvalidRedisAddr indicates the redis address is malformed.
	ErrInvalidRedisAddr = errors.New("config: invalid redis address")

	// ErrInvalidMetricsAddr indicates the metrics listen address is malformed.
	ErrInvalidMetricsAddr = errors.New("config: invalid metrics address")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
