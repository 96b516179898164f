// Package application 组装 jsonzip 进程运行所需的公共依赖：配置、日志、指标与默认 Codec。
package application

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonzip-go/pkg/codec"
	"github.com/lk2023060901/jsonzip-go/pkg/config"
	zlog "github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/metrics"
)

const codecLoggerName = "codec"

// Application 是 jsonzip 进程的运行时容器，持有配置并管理公共依赖。
type Application struct {
	cfg      *config.Config
	codec    *codec.Codec
	registry *prometheus.Registry
	loggers  map[string]*zlog.MLogger
}

// New 创建一个新的 Application。
func New() *Application {
	return &Application{}
}

// Run 解析参数并完成初始化，args 通常为 os.Args[1:]。
//
// 配置文件路径优先级（后者覆盖前者）：
//  1. 默认：./jsonzip.yaml（不存在时使用内置缺省值）
//  2. 环境变量：JSONZIP_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
func (a *Application) Run(args []string) error {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	metrics.Register(a.registry)

	c, err := cfg.Codec.Build(codec.WithLogger(a.Logger(codecLoggerName)))
	if err != nil {
		return err
	}
	a.codec = c

	zlog.Info("application initialized",
		zap.String("compressor", c.Compressor().Name()),
		zap.Stringer("level", c.Level()),
		zap.String("serializer", c.Serializer().Name()),
		zap.Int("workers", cfg.Workers))
	return nil
}

// Config 返回已加载的配置。
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Codec 返回按配置组装的 Codec。
func (a *Application) Codec() *codec.Codec {
	return a.codec
}

// Registry 返回注册了 codec 指标的 Prometheus Registry。
func (a *Application) Registry() *prometheus.Registry {
	return a.registry
}

// Logger 返回按名称配置的模块 Logger，未配置时退回全局 Logger。
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return &zlog.MLogger{Logger: zlog.L().With(zlog.FieldModule(name))}
}

func (a *Application) loadConfig(args []string) (*config.Config, error) {
	configPath := config.DefaultConfigFilePath
	optional := true

	if envPath := os.Getenv(config.EnvConfigFilePath); envPath != "" {
		configPath = envPath
		optional = false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return nil, errors.New("missing value after --config")
			}
			configPath = args[i+1]
			optional = false
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				configPath = val
				optional = false
			}
			continue
		}
	}

	return config.Load(configPath, optional)
}

// initLogging 初始化按模块命名的 Logger 与全局 Logger。
//
// 全局 Logger 放在最后初始化，模块 Logger 初始化失败时不影响已有的全局 Logger。
// 日志级别等配置项可以通过 JSONZIP_LOG_* 环境变量覆盖，例如 JSONZIP_LOG_LEVEL。
func (a *Application) initLogging() error {
	if len(a.cfg.Logging) > 0 {
		a.loggers = make(map[string]*zlog.MLogger, len(a.cfg.Logging))
	}
	for name, lc := range a.cfg.Logging {
		cfgCopy := lc
		moduleLogger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return errors.Wrapf(err, "init module logger %q", name)
		}
		a.loggers[name] = &zlog.MLogger{Logger: moduleLogger.With(zlog.FieldModule(name))}
	}

	logCfg := a.cfg.Log
	logger, props, err := zlog.InitLogger(&logCfg)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}
