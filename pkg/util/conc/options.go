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

package conc

import (
	ants "github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonzip-go/pkg/log"
)

// poolOption 为协程池的可选行为。
type poolOption struct {
	// concealPanic 为 true 时任务 panic 只记录日志并写入 Future，不再向上抛出。
	concealPanic bool
	// preHandler 在每个任务执行前调用。
	preHandler func()
	// logger 用于记录任务 panic，为空时使用全局 Logger。
	logger *log.MLogger
}

// PoolOption 用于配置协程池行为的选项函数。
type PoolOption func(opt *poolOption)

func (opt *poolOption) antsOptions() []ants.Option {
	// ants 会 recover worker 中的 panic，但不会把错误交给调用方，
	// 错误已由 Submit 写入 Future，这里只负责记录与按需重新抛出。
	return []ants.Option{
		ants.WithPanicHandler(func(v any) {
			opt.log().Error("conc pool task panicked", zap.Any("panic", v), zap.Stack("stack"))
			if !opt.concealPanic {
				panic(v)
			}
		}),
	}
}

func (opt *poolOption) log() *log.MLogger {
	if opt.logger != nil {
		return opt.logger
	}
	return log.With()
}

// WithConcealPanic 控制任务 panic 是否被吞掉。
func WithConcealPanic(v bool) PoolOption {
	return func(opt *poolOption) {
		opt.concealPanic = v
	}
}

// WithPreHandler 设置任务执行前的回调，例如统计已开始的任务数。
func WithPreHandler(fn func()) PoolOption {
	return func(opt *poolOption) {
		opt.preHandler = fn
	}
}

// WithLogger 指定记录任务 panic 的 Logger。
func WithLogger(l *log.MLogger) PoolOption {
	return func(opt *poolOption) {
		opt.logger = l
	}
}
