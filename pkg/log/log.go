// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/uber/jaeger-client-go/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// globals 为进程级 Logger 状态，ReplaceGlobals 整体替换，保证 L、S 与 props 一致。
type globals struct {
	logger *zap.Logger
	// skipped 供包级函数使用，调用方位置跳过一层包装。
	skipped *zap.Logger
	sugar   *zap.SugaredLogger
	props   *ZapProperties
}

var (
	_globals atomic.Pointer[globals]

	// _rateLimiter 只在 init 中设置。
	_rateLimiter  RateLimiter = nopRateLimiter{}
	_rateLimiters sync.Map // group name -> *utils.ReconfigurableRateLimiter
)

// RateLimiter 是限流日志使用的最小接口，jaeger utils.RateLimiter 满足该接口。
type RateLimiter interface {
	CheckCredit(cost float64) bool
}

type nopRateLimiter struct{}

func (nopRateLimiter) CheckCredit(float64) bool { return true }

func init() {
	lg, props, err := InitLogger(&Config{Level: "info", Stdout: true})
	if err != nil {
		panic(err)
	}
	ReplaceGlobals(lg, props)
	_rateLimiter = rateLimiterFromEnv()
}

// InitLogger 按 cfg 创建 Logger。
//
// 输出到 stdout 和/或 lumberjack 滚动文件；两者都未配置时日志被丢弃。
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	if _, err := parseLevel(cfg.Level); err != nil {
		return nil, nil, err
	}

	var sinks []zapcore.WriteSyncer
	if cfg.Stdout {
		sinks = append(sinks, zapcore.Lock(os.Stdout))
	}
	if cfg.File.Filename != "" {
		fl, err := newFileLogger(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, zapcore.AddSync(fl))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, zapcore.AddSync(io.Discard))
	}
	return InitLoggerWithWriteSyncer(cfg, zap.CombineWriteSyncers(sinks...), opts...)
}

// InitLoggerWithWriteSyncer 创建写入 output 的 Logger。
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	level := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(newZapEncoder(cfg), output, level)
	lg := zap.New(core, append(cfg.buildOptions(output), opts...)...)
	return lg, &ZapProperties{Core: core, Syncer: output, Level: level}, nil
}

// parseLevel 解析日志级别，空字符串为 info，trace 等同于 debug。
func parseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zapcore.InfoLevel, nil
	case "trace":
		return zapcore.DebugLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return lvl, errors.Wrapf(err, "invalid log level %q", name)
	}
	return lvl, nil
}

func newFileLogger(cfg FileLogConfig) (*lumberjack.Logger, error) {
	path := filepath.Join(cfg.RootPath, cfg.Filename)
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil, errors.Newf("log file %q is a directory", path)
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultLogMaxSize
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

// L 返回全局 Logger，可通过 ReplaceGlobals 替换，并发安全。
func L() *zap.Logger {
	return _globals.Load().logger
}

// S 返回全局 SugaredLogger。
func S() *zap.SugaredLogger {
	return _globals.Load().sugar
}

// R 返回全局限流器，未通过环境变量开启时不做限流。
func R() RateLimiter {
	return _rateLimiter
}

// ReplaceGlobals 替换全局 Logger。
func ReplaceGlobals(logger *zap.Logger, props *ZapProperties) {
	_globals.Store(&globals{
		logger:  logger,
		skipped: logger.WithOptions(zap.AddCallerSkip(1)),
		sugar:   logger.Sugar(),
		props:   props,
	})
}

// Sync 刷新全局 Logger 的缓冲。
func Sync() error {
	return L().Sync()
}

// rateLimiterFromEnv 读取 JSONZIP_LOG_RATE_* 环境变量：
//
//	JSONZIP_LOG_RATE_ENABLE             开启限流，默认关闭
//	JSONZIP_LOG_RATE_CREDIT_PER_SECOND  每秒补充的额度，默认 1
//	JSONZIP_LOG_RATE_MAX_BALANCE        额度上限，默认 60
func rateLimiterFromEnv() RateLimiter {
	if enabled, _ := strconv.ParseBool(os.Getenv("JSONZIP_LOG_RATE_ENABLE")); !enabled {
		return nopRateLimiter{}
	}
	return utils.NewRateLimiter(
		envFloat("JSONZIP_LOG_RATE_CREDIT_PER_SECOND", 1),
		envFloat("JSONZIP_LOG_RATE_MAX_BALANCE", 60),
	)
}

func envFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return f
	}
	return def
}
