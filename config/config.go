// Package config loads the process configuration from the environment.
//
// Variables are read with the CREDENTIALS_ prefix, optionally from a .env
// file, then normalised and validated:
//
//	CREDENTIALS_PREFERRED_ALGORITHM  digest for new passwords (default SHA-512/salted)
//	CREDENTIALS_STORE                memory, redis or postgres (default memory)
//	CREDENTIALS_REDIS_ADDR           redis host:port (default localhost:6379)
//	CREDENTIALS_REDIS_PREFIX         redis key prefix (default cred)
//	CREDENTIALS_DATABASE_URL         postgres DSN, required for the postgres store
//	CREDENTIALS_LOG_LEVEL            debug, info, warn or error (default info)
//	CREDENTIALS_LOG_FORMAT           text or json (default text)
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	dotenv "github.com/joho/godotenv"

	"github.com/hasbyte1/go-credentials/hashing"
)

// Prefix is prepended to every environment variable name.
const Prefix = "CREDENTIALS_"

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// ErrInvalidConfig wraps every parsing and validation failure of [Parse].
var ErrInvalidConfig = errors.New("config: invalid configuration")

//nolint:gochecknoglobals
var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	conform  = modifiers.New()
)

// Config is the process configuration.
type Config struct {
	PreferredAlgorithm string `env:"PREFERRED_ALGORITHM" envDefault:"SHA-512/salted" mod:"trim" validate:"required"`
	Store              string `env:"STORE" envDefault:"memory" mod:"trim,lcase" validate:"oneof=memory redis postgres"`
	RedisAddr          string `env:"REDIS_ADDR" envDefault:"localhost:6379" mod:"trim" validate:"omitempty,hostname_port"`
	RedisPrefix        string `env:"REDIS_PREFIX" envDefault:"cred" mod:"trim"`
	DatabaseURL        string `env:"DATABASE_URL" mod:"trim" validate:"required_if=Store postgres"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info" mod:"trim,lcase" validate:"oneof=debug info warn error"`
	LogFormat          string `env:"LOG_FORMAT" envDefault:"text" mod:"trim,lcase" validate:"oneof=text json"`
}

// Load reads files into the environment with godotenv and parses the
// result.  With no files it tries ./.env and ignores its absence.
func Load(ctx context.Context, files ...string) (*Config, error) {
	if err := dotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("config: failed to load env files: %w", err)
	}

	return Parse(ctx, nil)
}

// Parse builds a Config from environ, a map of variable names (with
// [Prefix]) to values.  A nil environ means the process environment.
func Parse(ctx context.Context, environ map[string]string) (*Config, error) {
	var cfg Config

	//nolint:exhaustruct
	opts := env.Options{Prefix: Prefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := conform.Struct(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := validate.StructCtx(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := cfg.Algorithm(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// Algorithm parses PreferredAlgorithm and checks that the default registry
// supports it, so a misconfiguration fails at startup rather than on the
// first password change.
func (c *Config) Algorithm() (hashing.Algorithm, error) {
	alg, err := hashing.ParseAlgorithm(c.PreferredAlgorithm)
	if err != nil {
		return hashing.Algorithm{}, err
	}

	if err := hashing.DefaultRegistry.Validate(alg); err != nil {
		return hashing.Algorithm{}, err
	}

	return alg, nil
}

// NewLogger returns a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	//nolint:exhaustruct
	opts := &slog.HandlerOptions{Level: c.level()}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
