package compressor

import (
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliCompressor 基于 github.com/andybalholm/brotli 的压缩实现，是默认压缩器。
//
// Brotli 没有“仅存储”模式，LevelNoCompression 映射为质量 0（最快的一档）。
type BrotliCompressor struct{}

// 编译期断言：确保 BrotliCompressor 实现了 Compressor 接口。
var _ Compressor = BrotliCompressor{}

func (BrotliCompressor) Name() string {
	return "brotli"
}

func (BrotliCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if err := level.check(); err != nil {
		return nil, err
	}
	return brotli.NewWriterLevel(w, brotliQuality(level)), nil
}

func (BrotliCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func brotliQuality(level Level) int {
	switch level {
	case LevelNoCompression:
		return brotli.BestSpeed
	case LevelFastest:
		return brotli.BestSpeed + 1
	case LevelSmallestSize:
		return brotli.BestCompression
	default:
		return brotli.DefaultCompression
	}
}
