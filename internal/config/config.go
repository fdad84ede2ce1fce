// Package config loads the settings of the envguard server and CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAddr           = ":8000"
	DefaultSchema         = "generic"
	DefaultMaxUploadBytes = 1 << 20
	DefaultRequestTimeout = 30 * time.Second
)

// Redis configures the optional redis schema store.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// Enabled reports whether a redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config represents envguard.yaml.
type Config struct {
	Addr           string        `yaml:"addr" json:"addr"`
	SchemasDir     string        `yaml:"schemas_dir" json:"schemas_dir"`
	DefaultSchema  string        `yaml:"default_schema" json:"default_schema"`
	Redis          Redis         `yaml:"redis" json:"redis"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	Log            Log           `yaml:"log" json:"log"`
	Metrics        bool          `yaml:"metrics" json:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		DefaultSchema:  DefaultSchema,
		MaxUploadBytes: DefaultMaxUploadBytes,
		RequestTimeout: DefaultRequestTimeout,
		Log:            Log{Level: "info", Format: string(logging.FormatText)},
		Metrics:        true,
	}
}

// Load reads a YAML (or JSON) file over the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if err := ports.ValidateName(c.DefaultSchema); err != nil {
		errs = append(errs, fmt.Errorf("default_schema: %w", err))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative, got %d", c.Redis.DB))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative, got %s", c.Redis.TTL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	return errors.Join(errs...)
}

// Logger builds the logger described by Log. Call after Validate.
func (c Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.New(level, format)
}
