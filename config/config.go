// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates the admin tool configuration.
//
// The file format is one "key = value" pair per line; blank lines and lines
// starting with '#' are ignored. Environment variables prefixed GAMMA_
// override file values.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

// DefaultProgramID is the program the config addresses are derived under
// when none is configured.
const DefaultProgramID = "GAMMA7meSFWaBXF25oSUgmGRwaW6sCMFLmBNiMSdbHVT"

// Storage backends.
const (
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the admin tool settings.
type Config struct {
	DataDir     string
	Network     string
	LogLevel    string
	LogFormat   string // "console" or "json"
	LogFile     string // empty logs to stderr
	ProgramID   string // base58
	AdminKey    string // base58 public key of the administrator
	KeyFile     string // encrypted signing key; relative to DataDir if not absolute
	Backend     string
	RedisAddr   string
	RedisPrefix string
	MetricsAddr string // empty disables the metrics endpoint
}

// DefaultDataDir returns ~/.gamma, or .gamma if the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gamma"
	}
	return filepath.Join(home, ".gamma")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		Network:     "mainnet",
		LogLevel:    "info",
		LogFormat:   "console",
		ProgramID:   DefaultProgramID,
		KeyFile:     "admin.key",
		Backend:     BackendBolt,
		RedisAddr:   "127.0.0.1:6379",
		RedisPrefix: "gamma",
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(filepath.Clean(dataDir), "config")
}

// KeyPath resolves KeyFile against DataDir.
func (c Config) KeyPath() string {
	if filepath.IsAbs(c.KeyFile) {
		return c.KeyFile
	}
	return filepath.Join(c.DataDir, c.KeyFile)
}

// BoltPath is the database file used by the bolt backend.
func (c Config) BoltPath() string {
	return filepath.Join(c.DataDir, "amm_configs.db")
}

// Program parses ProgramID.
func (c Config) Program() (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidProgramID, err)
	}
	return pk, nil
}

// Admin parses AdminKey. An unset key is ErrMissingAdminKey.
func (c Config) Admin() (solana.PublicKey, error) {
	if c.AdminKey == "" {
		return solana.PublicKey{}, ErrMissingAdminKey
	}
	pk, err := solana.PublicKeyFromBase58(c.AdminKey)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidAdminKey, err)
	}
	return pk, nil
}

// fields maps file keys and environment variables to Config fields.
var fields = []struct {
	key string
	env string
	ptr func(*Config) *string
}{
	{"datadir", "GAMMA_DATADIR", func(c *Config) *string { return &c.DataDir }},
	{"network", "GAMMA_NETWORK", func(c *Config) *string { return &c.Network }},
	{"loglevel", "GAMMA_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
	{"logformat", "GAMMA_LOG_FORMAT", func(c *Config) *string { return &c.LogFormat }},
	{"logfile", "GAMMA_LOG_FILE", func(c *Config) *string { return &c.LogFile }},
	{"programid", "GAMMA_PROGRAM_ID", func(c *Config) *string { return &c.ProgramID }},
	{"adminkey", "GAMMA_ADMIN_KEY", func(c *Config) *string { return &c.AdminKey }},
	{"keyfile", "GAMMA_KEY_FILE", func(c *Config) *string { return &c.KeyFile }},
	{"backend", "GAMMA_BACKEND", func(c *Config) *string { return &c.Backend }},
	{"redisaddr", "GAMMA_REDIS_ADDR", func(c *Config) *string { return &c.RedisAddr }},
	{"redisprefix", "GAMMA_REDIS_PREFIX", func(c *Config) *string { return &c.RedisPrefix }},
	{"metrics", "GAMMA_METRICS_ADDR", func(c *Config) *string { return &c.MetricsAddr }},
}

// LoadConfig reads path on top of DefaultConfig. Unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d", err, lineNo)
		}
		for _, fd := range fields {
			if fd.key == key {
				*fd.ptr(&cfg) = value
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits a line on its first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Gamma Admin Configuration\n\n")
	for _, fd := range fields {
		fmt.Fprintf(&b, "%s = %s\n", fd.key, *fd.ptr(&cfg))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any GAMMA_* variables that are set.
func ApplyEnv(cfg *Config) {
	for _, fd := range fields {
		if v, ok := os.LookupEnv(fd.env); ok {
			*fd.ptr(cfg) = v
		}
	}
}

// LoadDotEnv loads the given .env files into the process environment
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}
