// Package config holds the settings of the pack command.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/meigma/pack/internal/packtype"
)

// Config holds app configuration
type Config struct {
	// Compression is the method name used by create (store, deflate, zstd).
	Compression string `mapstructure:"compression"`

	// Level is the encoder level, -1 for the default.
	Level int `mapstructure:"level"`

	// SkipBelow stores blobs smaller than this many bytes uncompressed,
	// together with files that are already compressed. Zero disables it.
	SkipBelow int `mapstructure:"skip_below"`

	MaxEntries   int    `mapstructure:"max_entries"`
	MaxFileSize  int64  `mapstructure:"max_file_size"`
	MaxEntrySize uint64 `mapstructure:"max_entry_size"`

	Workers   int    `mapstructure:"workers"`
	Overwrite bool   `mapstructure:"overwrite"`
	Prefix    string `mapstructure:"prefix"`
	Digest    bool   `mapstructure:"digest"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}

// Defaults registers the default value of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("compression", "deflate")
	v.SetDefault("level", -1)
	v.SetDefault("skip_below", 0)
	v.SetDefault("max_entries", 0)
	v.SetDefault("max_file_size", 0)
	v.SetDefault("max_entry_size", 256<<20)
	v.SetDefault("workers", 4)
	v.SetDefault("overwrite", false)
	v.SetDefault("prefix", "")
	v.SetDefault("digest", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output_dir", "")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags and env vars cannot constrain.
func (c *Config) Validate() error {
	if _, err := c.Method(); err != nil {
		return err
	}
	if c.Level < -1 || c.Level > 9 {
		return fmt.Errorf("%w: level %d out of range [-1, 9]", packtype.ErrInvalidArgument, c.Level)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", packtype.ErrInvalidArgument)
	}
	return nil
}

// Method returns the parsed compression method.
func (c *Config) Method() (packtype.Compression, error) {
	return packtype.ParseCompression(c.Compression)
}
