// Package config 定义 jsonzip 的配置结构，并通过 pkg/util/viper 从 YAML/JSON 文件与环境变量加载。
package config

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/jsonzip-go/pkg/codec"
	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/serializer"
	"github.com/lk2023060901/jsonzip-go/pkg/util/hardware"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
	zviper "github.com/lk2023060901/jsonzip-go/pkg/util/viper"
)

const (
	// EnvPrefix 为覆盖配置项的环境变量前缀，例如 JSONZIP_CODEC_ALGORITHM。
	EnvPrefix = "JSONZIP"
	// EnvConfigFilePath 指定配置文件路径。
	EnvConfigFilePath = "JSONZIP_CONFIG_FILE_PATH"
	// DefaultConfigFilePath 为默认配置文件路径，不存在时使用内置缺省值。
	DefaultConfigFilePath = "./jsonzip.yaml"
)

// CodecConfig 描述默认 Codec 的组成。
type CodecConfig struct {
	// Algorithm 为压缩算法名称，见 compressor.Names()。
	Algorithm string `mapstructure:"algorithm" json:"algorithm"`
	// Level 为压缩级别名称：optimal、fastest、none、smallest。
	Level string `mapstructure:"level" json:"level"`
	// Serializer 为序列化实现名称：json、jsoniter、protojson。
	Serializer string `mapstructure:"serializer" json:"serializer"`
	// Concurrency 为 zstd encoder/decoder 的并发度，<= 0 表示使用 CPU 核心数。
	Concurrency int `mapstructure:"concurrency" json:"concurrency"`
}

// Config 为 jsonzip 的完整配置。
type Config struct {
	Codec CodecConfig `mapstructure:"codec" json:"codec"`
	Log   log.Config  `mapstructure:"log" json:"log"`
	// Workers 为批量处理文件时的并发数。
	Workers int `mapstructure:"workers" json:"workers"`
	// Logging 为按模块命名的日志配置，未配置的模块使用全局 Logger。
	Logging map[string]log.Config `mapstructure:"logging" json:"logging"`
}

// Default 返回内置缺省配置。
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Algorithm:  "brotli",
			Level:      compressor.DefaultLevel.String(),
			Serializer: "json",
		},
		Log: log.Config{
			Level:  "info",
			Format: "text",
			Stdout: false,
		},
		Workers: hardware.GetCPUNum(),
	}
}

func setDefaults(v *zviper.Config, def *Config) {
	v.SetDefault("codec.algorithm", def.Codec.Algorithm)
	v.SetDefault("codec.level", def.Codec.Level)
	v.SetDefault("codec.serializer", def.Codec.Serializer)
	v.SetDefault("codec.concurrency", def.Codec.Concurrency)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.stdout", def.Log.Stdout)
	v.SetDefault("log.file.rootpath", def.Log.File.RootPath)
	v.SetDefault("log.file.filename", def.Log.File.Filename)
	v.SetDefault("workers", def.Workers)
}

// Load 读取 path 指向的配置文件，并叠加 JSONZIP_* 环境变量。
//
// path 为空时只使用缺省值与环境变量。
// optional 为 true 且文件不存在时同样退回缺省值；其它读取或解析失败返回 merr.ErrIoFailed / merr.ErrParameterInvalid。
func Load(path string, optional bool) (*Config, error) {
	v := zviper.New()
	setDefaults(v, Default())
	v.BindEnv(EnvPrefix)

	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			if err := v.LoadFile(path); err != nil {
				return nil, merr.WrapErrParameterInvalidMsg("failed to load config file %q: %s", path, err.Error())
			}
		case optional && errors.Is(statErr, os.ErrNotExist):
		default:
			return nil, merr.WrapErrIoFailed(path, statErr, "load config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("failed to decode config: %s", err.Error())
	}
	if cfg.Workers <= 0 {
		cfg.Workers = hardware.GetCPUNum()
	}
	return cfg, nil
}

// Build 按配置组装 Codec，opts 追加在配置项之后生效。
func (c CodecConfig) Build(opts ...codec.Option) (*codec.Codec, error) {
	comp, err := c.compressor()
	if err != nil {
		return nil, err
	}
	level, err := compressor.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	s, err := serializer.Lookup(c.Serializer)
	if err != nil {
		return nil, err
	}
	base := []codec.Option{
		codec.WithDefaultCompressor(comp),
		codec.WithDefaultLevel(level),
		codec.WithSerializer(s),
	}
	return codec.New(append(base, opts...)...), nil
}

func (c CodecConfig) compressor() (compressor.Compressor, error) {
	comp, err := compressor.Lookup(c.Algorithm)
	if err != nil {
		return nil, err
	}
	if _, ok := comp.(*compressor.ZstdCompressor); ok && c.Concurrency > 0 {
		return compressor.NewZstdCompressorWithConcurrency(c.Concurrency), nil
	}
	return comp, nil
}
