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
	"io"
	"io/fs"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrFormatInvalid("decompress", errors.New("corrupted input"))
	errors.Wrap(err, "failed to decode")
	s.ErrorIs(err, ErrFormatInvalid)
	s.Equal(Code(ErrFormatInvalid), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.code, Code(errUnexpected))
	s.Equal(errUnexpected.code, Code(errors.New("plain")))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newZipError(ErrFormatInvalid.code, "new error")
	s.True(sameCodeErr.Is(ErrFormatInvalid))
}

func (s *ErrSuite) TestWrap() {
	s.ErrorIs(WrapErrServiceInternal("never throw out"), ErrServiceInternal)
	s.ErrorIs(WrapErrIoFailed("/tmp/x", nil), ErrIoFailed)
	s.ErrorIs(WrapErrParameterInvalid("pointer", "int"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidRange(0, 3, 9), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad %s", "level"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("path"), ErrParameterMissing)
	s.ErrorIs(WrapErrFormatInvalid("unmarshal", nil), ErrFormatInvalid)
	s.ErrorIs(WrapErrTypeMismatch(&struct{}{}, nil), ErrTypeMismatch)
	s.ErrorIs(WrapErrCompressorNotFound("lzma"), ErrCompressorNotFound)
	s.ErrorIs(WrapErrOperationNotSupported("seek"), ErrOperationNotSupported)

	s.NotErrorIs(WrapErrFormatInvalid("unmarshal", nil), ErrTypeMismatch)
}

func (s *ErrSuite) TestWrapWithMsg() {
	err := WrapErrTypeMismatch(1, nil, "decode", "record")
	s.ErrorIs(err, ErrTypeMismatch)
	s.Contains(err.Error(), "decode->record")

	err = WrapErrParameterInvalidRange(1, 9, 12)
	s.Contains(err.Error(), "12 out of range 1 <= value <= 9")
	s.Contains(WrapErrFormatInvalid("inflate", nil).Error(), "[stage=inflate]: malformed payload")
}

func (s *ErrSuite) TestIoFailedKeepsCause() {
	_, openErr := os.Open("/definitely/not/here")
	s.Require().Error(openErr)

	err := WrapErrIoFailed("/definitely/not/here", openErr)
	s.ErrorIs(err, ErrIoFailed)
	s.ErrorIs(err, fs.ErrNotExist)
	s.Equal(Code(ErrIoFailed), Code(err))
}

func (s *ErrSuite) TestCanceled() {
	err := WrapErrCanceled(context.Canceled, "encode")
	s.ErrorIs(err, ErrCanceled)
	s.ErrorIs(err, context.Canceled)
	s.True(IsCanceledOrTimeout(err))
	s.Equal(CanceledCode, Code(err))

	err = WrapErrCanceled(context.DeadlineExceeded, "decode")
	s.ErrorIs(err, ErrCanceled)
	s.ErrorIs(err, context.DeadlineExceeded)

	s.ErrorIs(WrapErrCanceled(nil, "copy"), context.Canceled)
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrParameterMissing("path")))
	s.Equal(SystemError, GetErrorType(WrapErrServiceInternal("boom")))
	s.Equal(SystemError, GetErrorType(errors.New("plain")))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestRetryable() {
	s.True(IsRetryableErr(ErrIoUnexpectEOF))
	truncated := WrapErrIoUnexpectEOF("/tmp/x", io.ErrUnexpectedEOF, "read source")
	s.True(IsRetryableErr(truncated))
	s.ErrorIs(truncated, io.ErrUnexpectedEOF)
	s.Equal(Code(ErrIoUnexpectEOF), Code(truncated))
	s.Equal(SystemError, GetErrorType(truncated))
	s.False(IsRetryableErr(ErrIoFailed))
	s.False(IsRetryableErr(errors.New("plain")))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second",
		err.Error())

	three := Combine(errFirst, nil, errSecond, errThird)
	s.Equal("first: second: third", three.Error())
	s.ErrorIs(three, errThird)

	s.Nil(Combine(nil, nil))
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrIoFailed("/tmp/x", nil), WrapErrFormatInvalid("decompress", nil))
	s.Equal(Code(ErrFormatInvalid), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
