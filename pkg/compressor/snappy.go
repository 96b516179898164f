package compressor

import (
	"io"

	"github.com/golang/snappy"
)

// SnappyCompressor 使用 snappy 分帧流格式（framing format）。
//
// snappy 没有压缩级别的概念，level 只做合法性校验。
type SnappyCompressor struct{}

// 编译期断言：确保 SnappyCompressor 实现了 Compressor 接口。
var _ Compressor = SnappyCompressor{}

func (SnappyCompressor) Name() string {
	return "snappy"
}

func (SnappyCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if err := level.check(); err != nil {
		return nil, err
	}
	return snappy.NewBufferedWriter(w), nil
}

func (SnappyCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}
