// Package config loads server configuration.
//
// Sources, highest priority first:
//  1. explicit --config path;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. environment only.
//
// Environment variables always overlay values read from a file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"movimenta_server/store/dynamo"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamo   = "dynamodb"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Reference ReferenceConfig `yaml:"reference"`
	S3        S3Config        `yaml:"s3"`
	Matching  MatchingConfig  `yaml:"matching"`
	SentryDSN string          `yaml:"sentry_dsn" env:"SENTRY_DSN"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

type StorageConfig struct {
	Driver      string       `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	SQLitePath  string       `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"movimenta.db"`
	PostgresDSN string       `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	Dynamo      DynamoConfig `yaml:"dynamo"`
}

type DynamoConfig struct {
	Region   string        `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	Endpoint string        `yaml:"endpoint" env:"DYNAMO_ENDPOINT"`
	Tables   dynamo.Tables `yaml:"tables"`
}

// AuthConfig controls bearer token verification. ManagerIDs grants the manager
// role to the listed user ids regardless of the token's role claim.
type AuthConfig struct {
	JWTSecret  string   `yaml:"jwt_secret" env:"JWT_SECRET"`
	ManagerIDs []string `yaml:"manager_ids" env:"MANAGER_IDS"`
}

type ReferenceConfig struct {
	Path string        `yaml:"path" env:"REFERENCE_PATH" env-default:"reference.yaml"`
	TTL  time.Duration `yaml:"ttl" env:"REFERENCE_TTL" env-default:"1h"`
}

// S3Config enables avatar uploads when Bucket is set.
type S3Config struct {
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET"`
	Region        string        `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	PresignExpiry time.Duration `yaml:"presign_expiry" env:"S3_PRESIGN_EXPIRY" env-default:"5m"`
}

type MatchingConfig struct {
	PageSize int `yaml:"page_size" env:"MATCHING_PAGE_SIZE" env-default:"50"`
}

// MustLoad panics when the configuration cannot be loaded.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	read := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}
		return validated(&cfg)
	}

	if path != "" {
		return read(path)
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return read(envPath)
	}
	if _, err := os.Stat("local.yaml"); err == nil {
		return read("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return validated(&cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverDynamo:
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Matching.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("matching.page_size must be positive, got %d", c.Matching.PageSize))
	}
	if c.Reference.TTL <= 0 {
		errs = append(errs, fmt.Errorf("reference.ttl must be positive, got %s", c.Reference.TTL))
	}
	return errors.Join(errs...)
}
