package compressor

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCompressor 基于 github.com/klauspost/compress/gzip 的压缩实现，
// 输出与标准 gzip 格式兼容，可以被任何 gzip 工具解压。
type GzipCompressor struct{}

// 编译期断言：确保 GzipCompressor 实现了 Compressor 接口。
var _ Compressor = GzipCompressor{}

func (GzipCompressor) Name() string {
	return "gzip"
}

func (GzipCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if err := level.check(); err != nil {
		return nil, err
	}
	return gzip.NewWriterLevel(w, gzipLevel(level))
}

func (GzipCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func gzipLevel(level Level) int {
	switch level {
	case LevelNoCompression:
		return gzip.NoCompression
	case LevelFastest:
		return gzip.BestSpeed
	case LevelSmallestSize:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}
