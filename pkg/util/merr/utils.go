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
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回错误码，nil 返回 0，未归类的错误返回 errUnexpected 的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}
	if e, ok := errors.Cause(err).(zipError); ok {
		return e.code
	}
	switch {
	case errors.Is(err, context.Canceled):
		return CanceledCode
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutCode
	default:
		return errUnexpected.code
	}
}

// IsRetryableErr 判断错误是否值得重试，例如源数据被提前截断。
func IsRetryableErr(err error) bool {
	e, ok := errors.Cause(err).(zipError)
	return ok && e.retriable
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded, ErrCanceled)
}

// GetErrorType 返回错误类别，非 zipError 一律视为 SystemError。
func GetErrorType(err error) ErrorType {
	if e, ok := errors.Cause(err).(zipError); ok {
		return e.kind
	}
	return SystemError
}

func WrapErrServiceInternal(reason string, msg ...string) error {
	return wrap(describe(ErrServiceInternal, reason), msg)
}

// WrapErrIoFailed 把 cause 放在 ErrIoFailed 之前合并，Code 仍为 ErrIoFailed 的错误码，
// errors.Is 可继续匹配底层错误，例如 fs.ErrNotExist。
func WrapErrIoFailed(path string, cause error, msg ...string) error {
	return wrap(Combine(cause, annotate(ErrIoFailed, "path", path)), msg)
}

// WrapErrIoUnexpectEOF 表示源数据在读完之前结束，可重试。
func WrapErrIoUnexpectEOF(path string, cause error, msg ...string) error {
	return wrap(Combine(cause, annotate(ErrIoUnexpectEOF, "path", path)), msg)
}

func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	return wrap(annotate(ErrParameterInvalid, "expected", expected, "actual", actual), msg)
}

func WrapErrParameterInvalidRange[T any](lower, upper, actual T, msg ...string) error {
	e := ErrParameterInvalid
	e.msg += fmt.Sprintf("[%v out of range %v <= value <= %v]", actual, lower, upper)
	return wrap(e, msg)
}

func WrapErrParameterInvalidMsg(format string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, format, args...)
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	return wrap(annotate(ErrParameterMissing, "missing_param", param), msg)
}

// WrapErrFormatInvalid 标记 stage 阶段的数据格式错误，cause 为空时使用通用描述。
func WrapErrFormatInvalid(stage string, cause error, msg ...string) error {
	desc := "malformed payload"
	if cause != nil {
		desc = cause.Error()
	}
	return wrap(describe(annotate(ErrFormatInvalid, "stage", stage), desc), msg)
}

func WrapErrTypeMismatch(target any, cause error, msg ...string) error {
	desc := "decoded structure does not fit target"
	if cause != nil {
		desc = cause.Error()
	}
	return wrap(describe(annotate(ErrTypeMismatch, "target", fmt.Sprintf("%T", target)), desc), msg)
}

func WrapErrCompressorNotFound(name string, msg ...string) error {
	return wrap(annotate(ErrCompressorNotFound, "compressor", name), msg)
}

// WrapErrCanceled 合并 ctxErr 与 ErrCanceled，
// 结果同时满足 errors.Is(err, ErrCanceled) 与 errors.Is(err, context.Canceled)。
func WrapErrCanceled(ctxErr error, stage string) error {
	if ctxErr == nil {
		ctxErr = context.Canceled
	}
	return Combine(ctxErr, annotate(ErrCanceled, "stage", stage))
}

func WrapErrOperationNotSupported(operation string, msg ...string) error {
	return wrap(annotate(ErrOperationNotSupported, "operation", operation), msg)
}

// annotate 以 [key=value] 的形式把键值对追加到错误信息。
func annotate(e zipError, kv ...any) zipError {
	for i := 0; i+1 < len(kv); i += 2 {
		e.msg += fmt.Sprintf("[%v=%v]", kv[i], kv[i+1])
	}
	return e
}

func describe(e zipError, desc string) zipError {
	e.msg += ": " + desc
	return e
}

// wrap 在 msg 非空时以 "a->b" 的形式包一层上下文。
func wrap(err error, msg []string) error {
	if len(msg) == 0 {
		return err
	}
	return errors.Wrap(err, strings.Join(msg, "->"))
}
