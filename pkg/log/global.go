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
	"context"

	"go.uber.org/zap"
)

type ctxLogKey struct{}

// Debug 使用全局 Logger 输出 Debug 日志。
func Debug(msg string, fields ...zap.Field) {
	_globals.Load().skipped.Debug(msg, fields...)
}

// Info 使用全局 Logger 输出 Info 日志。
func Info(msg string, fields ...zap.Field) {
	_globals.Load().skipped.Info(msg, fields...)
}

// Warn 使用全局 Logger 输出 Warn 日志。
func Warn(msg string, fields ...zap.Field) {
	_globals.Load().skipped.Warn(msg, fields...)
}

// Error 使用全局 Logger 输出 Error 日志。
func Error(msg string, fields ...zap.Field) {
	_globals.Load().skipped.Error(msg, fields...)
}

// With 返回携带 fields 的全局 Logger 副本，字段在第一次输出时才编码。
func With(fields ...zap.Field) *MLogger {
	return (&MLogger{Logger: L()}).With(fields...)
}

// WithFields 返回携带 fields 的 ctx，之后 Ctx(ctx) 输出的日志都带上这些字段。
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, ctxLogKey{}, Ctx(ctx).With(fields...))
}

// WithTraceID 在 ctx 的 Logger 上附加 traceID 字段。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return WithFields(ctx, FieldTraceID(traceID))
}

// Ctx 返回 ctx 上携带的 Logger，没有时返回全局 Logger。
func Ctx(ctx context.Context) *MLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLogKey{}).(*MLogger); ok {
			return l
		}
	}
	return &MLogger{Logger: L()}
}
