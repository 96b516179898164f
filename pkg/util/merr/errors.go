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

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// 与 context 错误对应的保留错误码。
const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

// ErrorType 区分调用方输入导致的错误与系统自身的错误。
type ErrorType int32

const (
	SystemError ErrorType = iota
	InputError
)

func (t ErrorType) String() string {
	if t == InputError {
		return "input_error"
	}
	return "system_error"
}

// 叶子错误。新增前先确认下列错误是否已能表达，命名为 Err + 类别 + 名称。
var (
	ErrServiceInternal = newZipError(5, "service internal error")

	ErrIoFailed      = newZipError(1001, "IO failed")
	ErrIoUnexpectEOF = newZipError(1002, "unexpected EOF", retriable())

	ErrParameterInvalid = newZipError(1100, "invalid parameter", fromInput())
	ErrParameterMissing = newZipError(1101, "missing parameter", fromInput())

	// 压缩数据损坏或截断，或解压结果不是合法的结构化文本。
	ErrFormatInvalid = newZipError(1500, "invalid payload format", fromInput())
	// 结构化文本合法，但与目标类型的结构不匹配。
	ErrTypeMismatch = newZipError(1501, "payload type mismatch", fromInput())

	ErrCompressorNotFound = newZipError(1600, "compressor not found", fromInput())

	// 与 context.Canceled 共用错误码
	ErrCanceled = newZipError(CanceledCode, "operation canceled")

	ErrOperationNotSupported = newZipError(3000, "unsupported operation")

	// 仅用于给未知错误归类，不导出
	errUnexpected = newZipError((1<<16)-1, "unexpected error")
)

// zipError 是带错误码的叶子错误，按错误码判等。
type zipError struct {
	code      int32
	msg       string
	kind      ErrorType
	retriable bool
}

type zipErrorOption func(*zipError)

func retriable() zipErrorOption {
	return func(e *zipError) { e.retriable = true }
}

func fromInput() zipErrorOption {
	return func(e *zipError) { e.kind = InputError }
}

func newZipError(code int32, msg string, opts ...zipErrorOption) zipError {
	e := zipError{code: code, msg: msg}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e zipError) Error() string {
	return e.msg
}

func (e zipError) Is(target error) bool {
	other, ok := errors.Cause(target).(zipError)
	return ok && other.code == e.code
}

// combined 串联多个错误，errors.Is 对任一成员成立；
// Cause 沿最后一个成员展开，因此 Code 取最后一个错误的错误码。
type combined []error

// Combine 合并非 nil 的错误，全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return combined(errs)
}

func (c combined) Error() string {
	msg := c[0].Error()
	for _, err := range c[1:] {
		msg += ": " + err.Error()
	}
	return msg
}

func (c combined) Unwrap() error {
	switch len(c) {
	case 0, 1:
		return nil
	case 2:
		return c[1]
	default:
		return c[1:]
	}
}

func (c combined) Is(target error) bool {
	return lo.ContainsBy(c, func(err error) bool { return errors.Is(err, target) })
}
