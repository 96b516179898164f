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

package log

import (
	"sync"

	"github.com/uber/jaeger-client-go/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MLogger 在 zap.Logger 之上增加按分组限流的日志输出。
type MLogger struct {
	*zap.Logger
	// limiter 为 nil 时使用全局限流器 R()。
	limiter RateLimiter
}

// With 返回携带 fields 的副本，限流分组保持不变。
func (l *MLogger) With(fields ...zap.Field) *MLogger {
	return &MLogger{
		Logger: l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return newLazyWith(core, fields)
		})),
		limiter: l.limiter,
	}
}

// WithRateGroup 返回使用命名限流器的副本。
// 同名分组在进程内共享同一个限流器，后一次调用的参数覆盖前一次。
func (l *MLogger) WithRateGroup(group string, creditPerSecond, maxBalance float64) *MLogger {
	var rl *utils.ReconfigurableRateLimiter
	if actual, ok := _rateLimiters.Load(group); ok {
		rl = actual.(*utils.ReconfigurableRateLimiter)
		rl.Update(creditPerSecond, maxBalance)
	} else {
		actual, _ := _rateLimiters.LoadOrStore(group, utils.NewRateLimiter(creditPerSecond, maxBalance))
		rl = actual.(*utils.ReconfigurableRateLimiter)
	}
	return &MLogger{Logger: l.Logger, limiter: rl}
}

// RatedDebug 在限流额度足够时输出 Debug 日志，返回是否输出。
func (l *MLogger) RatedDebug(cost float64, msg string, fields ...zap.Field) bool {
	return l.rated(zapcore.DebugLevel, cost, msg, fields)
}

// RatedInfo 在限流额度足够时输出 Info 日志，返回是否输出。
func (l *MLogger) RatedInfo(cost float64, msg string, fields ...zap.Field) bool {
	return l.rated(zapcore.InfoLevel, cost, msg, fields)
}

// RatedWarn 在限流额度足够时输出 Warn 日志，返回是否输出。
func (l *MLogger) RatedWarn(cost float64, msg string, fields ...zap.Field) bool {
	return l.rated(zapcore.WarnLevel, cost, msg, fields)
}

func (l *MLogger) rated(level zapcore.Level, cost float64, msg string, fields []zap.Field) bool {
	rl := l.limiter
	if rl == nil {
		rl = R()
	}
	if !rl.CheckCredit(cost) {
		return false
	}
	// 跳过 rated 与 RatedXxx 两层
	if ce := l.Logger.WithOptions(zap.AddCallerSkip(2)).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
	return true
}

// lazyWithCore 推迟 core.With(fields) 到第一次真正输出日志时执行。
// 绑定在组件上的 Logger 多数情况下只输出 Debug，级别关闭时不必编码字段。
type lazyWithCore struct {
	base   zapcore.Core
	fields []zapcore.Field

	once   sync.Once
	withed zapcore.Core
}

var _ zapcore.Core = (*lazyWithCore)(nil)

func newLazyWith(core zapcore.Core, fields []zapcore.Field) zapcore.Core {
	return &lazyWithCore{base: core, fields: fields}
}

func (c *lazyWithCore) core() zapcore.Core {
	c.once.Do(func() {
		c.withed = c.base.With(c.fields)
	})
	return c.withed
}

// Enabled 只看级别，不触发 With。
func (c *lazyWithCore) Enabled(level zapcore.Level) bool {
	return c.base.Enabled(level)
}

func (c *lazyWithCore) With(fields []zapcore.Field) zapcore.Core {
	return c.core().With(fields)
}

func (c *lazyWithCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.core().Check(e, ce)
}

func (c *lazyWithCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.core().Write(e, fields)
}

func (c *lazyWithCore) Sync() error {
	return c.core().Sync()
}
