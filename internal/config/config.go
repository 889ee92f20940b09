package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/random"
)

// Config represents the complete service configuration
type Config struct {
	Env  string `toml:"env" env:"APP_ENV"`
	Port string `toml:"port" env:"PORT"`

	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Queue    QueueConfig    `toml:"queue"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// DatabaseConfig contains PostgreSQL settings
type DatabaseConfig struct {
	URL string `toml:"url" env:"DATABASE_URL"`
}

// AuthConfig contains token and password settings
type AuthConfig struct {
	AccessSecret    string        `toml:"access_secret" env:"JWT_ACCESS_SECRET"`
	RefreshSecret   string        `toml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL  time.Duration `toml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `toml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL"`
	ResetTokenTTL   time.Duration `toml:"reset_token_ttl" env:"RESET_TOKEN_TTL"`
	BcryptCost      int           `toml:"bcrypt_cost" env:"BCRYPT_COST"`
	ResetURLBase    string        `toml:"reset_url_base" env:"RESET_URL_BASE"`
}

// RedisConfig contains cache settings
type RedisConfig struct {
	Addr       string        `toml:"addr" env:"REDIS_ADDR"`
	Password   string        `toml:"password" env:"REDIS_PASSWORD"`
	DB         int           `toml:"db" env:"REDIS_DB"`
	AirlineTTL time.Duration `toml:"airline_ttl" env:"AIRLINE_CACHE_TTL"`
}

// QueueConfig contains RabbitMQ settings
type QueueConfig struct {
	URL        string `toml:"url" env:"RABBITMQ_URL"`
	ResetQueue string `toml:"reset_queue" env:"RESET_QUEUE"`
}

// StorageConfig contains MinIO settings
type StorageConfig struct {
	Endpoint  string `toml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `toml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `toml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `toml:"use_ssl" env:"MINIO_USE_SSL"`
	Bucket    string `toml:"bucket" env:"MINIO_BUCKET"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `toml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" env:"LOG_FORMAT"`
}

// JobsConfig contains background job intervals
type JobsConfig struct {
	TokenPurgeInterval time.Duration `toml:"token_purge_interval" env:"TOKEN_PURGE_INTERVAL"`
}

// Default returns the development defaults. Redis, RabbitMQ and MinIO stay
// disabled until an address is configured.
func Default() Config {
	return Config{
		Env:  "development",
		Port: "8080",
		Auth: AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			ResetTokenTTL:   time.Hour,
			BcryptCost:      12,
			ResetURLBase:    "http://localhost:3000/reset-password",
		},
		Redis: RedisConfig{
			AirlineTTL: 10 * time.Minute,
		},
		Queue: QueueConfig{
			ResetQueue: "password.reset",
		},
		Storage: StorageConfig{
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "airline-branding",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Jobs: JobsConfig{
			TokenPurgeInterval: time.Hour,
		},
	}
}

// IsDevelopment reports whether diagnostic output may reach API callers.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load builds the configuration from defaults, an optional TOML file named by
// CONFIG_FILE, and the environment, in that order of precedence.
func Load() (*Config, []string, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	warnings, err := cfg.finalize()
	if err != nil {
		return nil, nil, err
	}
	return &cfg, warnings, nil
}

// finalize fills development secrets and validates the result.
func (c *Config) finalize() ([]string, error) {
	var warnings []string

	if c.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		if !c.IsDevelopment() {
			return nil, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required outside development")
		}
		if c.Auth.AccessSecret == "" {
			c.Auth.AccessSecret = random.String(32)
			warnings = append(warnings, "using generated access token secret")
		}
		if c.Auth.RefreshSecret == "" {
			c.Auth.RefreshSecret = random.String(32)
			warnings = append(warnings, "using generated refresh token secret")
		}
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 || c.Auth.ResetTokenTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}

	return warnings, nil
}
