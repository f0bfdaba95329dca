// Package config reads the service settings from BOOKSTORE_ environment
// variables, with an optional .env file loaded first.
//
// BOOKSTORE_DATABASE_HOST maps to database.host: the prefix is dropped, the
// rest is lowercased and the first underscore becomes the section separator.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKSTORE_"

// Config is the root configuration object for the service.
type Config struct {
	Env      string         `koanf:"env" validate:"required,oneof=development staging production"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Limiter  LimiterConfig  `koanf:"limiter"`
}

// ServerConfig groups settings for the HTTP server runtime.
type ServerConfig struct {
	Port               int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"min=1ms"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"min=1ms"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"min=1ms"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"min=1ms"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig selects the storage driver. The host and credential fields
// only matter for postgres; Path only for sqlite.
type DatabaseConfig struct {
	Driver       string `koanf:"driver" validate:"required,oneof=postgres sqlite memory"`
	Host         string `koanf:"host" validate:"required_if=Driver postgres"`
	Port         int    `koanf:"port" validate:"min=1,max=65535"`
	User         string `koanf:"user" validate:"required_if=Driver postgres"`
	Password     string `koanf:"password" validate:"required_if=Driver postgres"`
	Name         string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode      string `koanf:"ssl_mode"`
	Path         string `koanf:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=1"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// LimiterConfig controls the optional per-client rate limiter.
type LimiterConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps" validate:"gt=0"`
	Burst   int     `koanf:"burst" validate:"min=1"`
}

// Default returns the settings used when no environment variable overrides
// them.
func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Port:               80,
			ReadTimeout:        5 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        time.Minute,
			ShutdownTimeout:    20 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         5432,
			Name:         "bookstore",
			SSLMode:      "disable",
			Path:         "bookstore.db",
			MaxOpenConns: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Limiter: LimiterConfig{
			Enabled: false,
			RPS:     2,
			Burst:   4,
		},
	}
}

// Load overlays the environment on Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// envKey turns BOOKSTORE_SERVER_READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// DSN builds the lib/pq connection URL from the postgres settings.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
