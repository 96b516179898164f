package compressor

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/lk2023060901/jsonzip-go/pkg/util/hardware"
)

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的流式压缩实现。
//
// 每次 NewWriter/NewReader 都创建独立的 encoder/decoder：
//   - 不使用全局单例，避免不同调用方之间的隐式耦合。
//   - encoder/decoder 的生命周期与返回的过滤流一致，Close 时释放。
type ZstdCompressor struct {
	concurrency int
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建一个 ZstdCompressor，默认并发度为主机 CPU 核心数。
func NewZstdCompressor() *ZstdCompressor {
	return NewZstdCompressorWithConcurrency(0)
}

// NewZstdCompressorWithConcurrency 创建一个 ZstdCompressor，并允许显式指定 zstd 的并发数。
//
// 参数说明：
//   - concurrency <= 0：使用主机 CPU 核心数（hardware.GetCPUNum()）。
//   - concurrency > 0 ：使用指定并发度。
func NewZstdCompressorWithConcurrency(concurrency int) *ZstdCompressor {
	if concurrency <= 0 {
		concurrency = hardware.GetCPUNum()
	}
	return &ZstdCompressor{concurrency: concurrency}
}

func (c *ZstdCompressor) Name() string {
	return "zstd"
}

// Concurrency 返回 encoder/decoder 使用的并发度。
func (c *ZstdCompressor) Concurrency() int {
	return c.concurrency
}

func (c *ZstdCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if err := level.check(); err != nil {
		return nil, err
	}
	opts := []zstd.EOption{
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(c.concurrency),
		zstd.WithEncoderLevel(zstdLevel(level)),
	}
	if level == LevelNoCompression {
		opts = append(opts, zstd.WithNoEntropyCompression(true))
	}
	return zstd.NewWriter(w, opts...)
}

func (c *ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(c.concurrency))
	if err != nil {
		return nil, err
	}
	return zstdReadCloser{dec}, nil
}

func zstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case LevelNoCompression, LevelFastest:
		return zstd.SpeedFastest
	case LevelSmallestSize:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// zstd.Decoder.Close 没有返回值，这里补齐 io.Closer。
type zstdReadCloser struct {
	*zstd.Decoder
}

func (r zstdReadCloser) Close() error {
	r.Decoder.Close()
	return nil
}
