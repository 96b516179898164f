package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Codec struct {
		Algorithm string `mapstructure:"algorithm"`
		Level     string `mapstructure:"level"`
	} `mapstructure:"codec"`
	Workers int `mapstructure:"workers"`
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "jsonzip.yaml", "codec:\n  algorithm: zstd\nworkers: 3\n")

	cfg := New()
	cfg.SetDefault("codec.level", "optimal")
	require.NoError(t, cfg.LoadFile(path))

	var out sample
	require.NoError(t, cfg.Unmarshal(&out))
	assert.Equal(t, "zstd", out.Codec.Algorithm)
	assert.Equal(t, "optimal", out.Codec.Level)
	assert.Equal(t, 3, out.Workers)
	assert.True(t, cfg.IsSet("workers"))
	assert.Equal(t, "zstd", cfg.GetString("codec.algorithm"))
}

func TestLoadJSONAndKey(t *testing.T) {
	path := writeFile(t, "jsonzip.json", `{"codec":{"algorithm":"gzip","level":"fastest"}}`)

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))

	var codec struct {
		Algorithm string `mapstructure:"algorithm"`
		Level     string `mapstructure:"level"`
	}
	require.NoError(t, cfg.UnmarshalKey("codec", &codec))
	assert.Equal(t, "gzip", codec.Algorithm)
	assert.Equal(t, "fastest", codec.Level)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("JSONZIPTEST_CODEC_LEVEL", "smallest")

	cfg := New()
	cfg.SetDefault("codec.level", "optimal")
	cfg.BindEnv("JSONZIPTEST")

	var out sample
	require.NoError(t, cfg.Unmarshal(&out))
	assert.Equal(t, "smallest", out.Codec.Level)
}

func TestLoadMissing(t *testing.T) {
	cfg := New()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")))
}
