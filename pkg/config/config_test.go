package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/util/hardware"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load("", false)
	s.Require().NoError(err)
	s.Equal("brotli", cfg.Codec.Algorithm)
	s.Equal("optimal", cfg.Codec.Level)
	s.Equal("json", cfg.Codec.Serializer)
	s.Equal(hardware.GetCPUNum(), cfg.Workers)

	c, err := cfg.Codec.Build()
	s.Require().NoError(err)
	s.Equal("brotli", c.Compressor().Name())
	s.Equal(compressor.LevelOptimal, c.Level())
}

func (s *ConfigSuite) TestOptionalMissingFile() {
	cfg, err := Load(filepath.Join(s.dir, "jsonzip.yaml"), true)
	s.Require().NoError(err)
	s.Equal("brotli", cfg.Codec.Algorithm)

	_, err = Load(filepath.Join(s.dir, "jsonzip.yaml"), false)
	s.ErrorIs(err, merr.ErrIoFailed)
}

func (s *ConfigSuite) TestLoadFile() {
	path := s.write("jsonzip.yaml", `
codec:
  algorithm: zstd
  level: smallest
  serializer: jsoniter
  concurrency: 2
log:
  level: debug
  format: json
workers: 5
logging:
  codec:
    level: warn
`)
	cfg, err := Load(path, false)
	s.Require().NoError(err)
	s.Equal(5, cfg.Workers)
	s.Equal("debug", cfg.Log.Level)
	s.Equal("json", cfg.Log.Format)
	s.Equal("warn", cfg.Logging["codec"].Level)

	c, err := cfg.Codec.Build()
	s.Require().NoError(err)
	s.Equal("zstd", c.Compressor().Name())
	s.Equal(2, c.Compressor().(*compressor.ZstdCompressor).Concurrency())
	s.Equal(compressor.LevelSmallestSize, c.Level())
	s.Equal("jsoniter", c.Serializer().Name())
}

func (s *ConfigSuite) TestEnvOverride() {
	s.T().Setenv("JSONZIP_CODEC_ALGORITHM", "gzip")
	cfg, err := Load("", false)
	s.Require().NoError(err)
	s.Equal("gzip", cfg.Codec.Algorithm)
}

func (s *ConfigSuite) TestInvalid() {
	cases := []CodecConfig{
		{Algorithm: "lzma"},
		{Algorithm: "brotli", Level: "ultra"},
		{Algorithm: "brotli", Serializer: "yaml"},
	}
	for _, cc := range cases {
		_, err := cc.Build()
		s.Error(err, "%+v", cc)
	}
	_, err := CodecConfig{Algorithm: "lzma"}.Build()
	s.ErrorIs(err, merr.ErrCompressorNotFound)

	path := s.write("broken.yaml", "codec: [unterminated")
	_, err = Load(path, false)
	s.ErrorIs(err, merr.ErrParameterInvalid)
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}
