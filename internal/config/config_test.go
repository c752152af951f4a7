package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pack/internal/packtype"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	Defaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "deflate", cfg.Compression)
	assert.Equal(t, -1, cfg.Level)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint64(256<<20), cfg.MaxEntrySize)
	assert.Equal(t, "info", cfg.LogLevel)

	method, err := cfg.Method()
	require.NoError(t, err)
	assert.Equal(t, packtype.CompressionDeflate, method)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	v := viper.New()
	Defaults(v)
	v.Set("compression", "zstd")
	v.Set("level", 9)
	v.Set("overwrite", true)
	v.Set("prefix", "docs/")
	v.Set("log_output_dir", "/tmp/logs")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Level)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "docs/", cfg.Prefix)
	assert.Equal(t, "/tmp/logs", cfg.LogOutputDir)

	method, err := cfg.Method()
	require.NoError(t, err)
	assert.Equal(t, packtype.CompressionZstd, method)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "store", cfg: Config{Compression: "store", Level: -1}, ok: true},
		{name: "none alias", cfg: Config{Compression: "none"}, ok: true},
		{name: "unknown method", cfg: Config{Compression: "lzma"}},
		{name: "empty method", cfg: Config{}},
		{name: "level too high", cfg: Config{Compression: "deflate", Level: 10}},
		{name: "level too low", cfg: Config{Compression: "deflate", Level: -2}},
		{name: "negative workers", cfg: Config{Compression: "deflate", Workers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, packtype.ErrInvalidArgument)
		})
	}
}
