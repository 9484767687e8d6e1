// Package config loads the process-wide configuration once at startup. The
// resulting Config is immutable afterwards: components receive the values
// they need through their constructors and never re-read the environment.
package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"

	defaultTokenTTLHours = 24
	defaultBcryptCost    = 10
	minBcryptCost        = 4
	maxBcryptCost        = 31
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs every issued token. Required in production; in
	// development and test a deterministic fallback is synthesized so the
	// service still starts locally.
	JWTSecret     string `env:"JWT_SECRET"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS, default=24"`
	BcryptCost    int    `env:"BCRYPT_COST,     default=10"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// Load reads configuration from a local .env file (if present) and the
// environment, then normalizes the auth-relevant values: an out-of-range
// bcrypt cost or token TTL is logged and replaced with its default, and the
// signing secret is resolved per environment. Only a missing secret outside
// development can fail the load.
func Load(ctx context.Context, log zerolog.Logger) (*Config, error) {
	// Local convenience only; deployed environments inject real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		log.Warn().
			Int("bcrypt_cost", cfg.BcryptCost).
			Int("default", defaultBcryptCost).
			Msgf("BCRYPT_COST outside [%d,%d], using default", minBcryptCost, maxBcryptCost)
		cfg.BcryptCost = defaultBcryptCost
	}

	if cfg.TokenTTLHours <= 0 {
		log.Warn().
			Int("token_ttl_hours", cfg.TokenTTLHours).
			Int("default", defaultTokenTTLHours).
			Msg("TOKEN_TTL_HOURS must be positive, using default")
		cfg.TokenTTLHours = defaultTokenTTLHours
	}

	secret, err := resolveSecret(&cfg, log)
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret = secret

	return &cfg, nil
}

// resolveSecret enforces the signing-secret policy: an explicit JWT_SECRET
// always wins; without one, only development and test synthesize a fallback
// derived from non-secret host data. Every other environment refuses to
// start, because a guessable secret means forgeable tokens.
func resolveSecret(cfg *Config, log zerolog.Logger) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}

	if cfg.Env != EnvDevelopment && cfg.Env != EnvTest {
		return "", fmt.Errorf("JWT_SECRET is required when ENV=%s", cfg.Env)
	}

	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte("catalog-api-dev-secret:" + host))
	log.Warn().
		Str("env", cfg.Env).
		Msg("JWT_SECRET not set; using a deterministic development fallback that offers NO real security")
	return hex.EncodeToString(sum[:]), nil
}
