// Package config loads querycmp settings from an optional config file and
// QUERYCMP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/querycmp/internal/equiv"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "QUERYCMP_"

// Config holds settings shared by all commands. Command-line flags override
// these values.
type Config struct {
	Format       string `mapstructure:"format"`
	Verbose      bool   `mapstructure:"verbose"`
	LengthPolicy string `mapstructure:"length_policy"`
	MaxDepth     int    `mapstructure:"max_depth"`
	Parallel     int    `mapstructure:"parallel"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Format:       "text",
		LengthPolicy: equiv.LengthStrict.String(),
	}
}

// Load reads path (optional; empty skips the file) and then environ entries
// of the form QUERYCMP_KEY=value, later sources winning.
// Pass os.Environ() for environ.
func Load(path string, environ []string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("format", d.Format)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("length_policy", d.LengthPolicy)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("parallel", d.Parallel)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// QUERYCMP_LENGTH_POLICY -> length_policy
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		v.Set(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems together.
func (c Config) Validate() error {
	var errs []error
	if c.Format != "text" && c.Format != "json" {
		errs = append(errs, fmt.Errorf("format must be text or json, got %q", c.Format))
	}
	if _, err := equiv.ParseLengthPolicy(c.LengthPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	if c.Parallel < 0 {
		errs = append(errs, fmt.Errorf("parallel must not be negative, got %d", c.Parallel))
	}
	return errors.Join(errs...)
}

// Policy returns the parsed length policy. Call after Validate.
func (c Config) Policy() equiv.LengthPolicy {
	p, _ := equiv.ParseLengthPolicy(c.LengthPolicy)
	return p
}
