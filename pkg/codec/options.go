package codec

import (
	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/serializer"
)

// Option 配置 New 创建的 Codec，构造完成后不可再修改。
type Option func(c *Codec)

// WithSerializer 指定结构化文本的序列化实现，默认为 serializer.JSONSerializer。
func WithSerializer(s serializer.Serializer) Option {
	return func(c *Codec) {
		if s != nil {
			c.serializer = s
		}
	}
}

// WithDefaultCompressor 指定未通过调用选项覆盖时使用的压缩器，默认为 Brotli。
func WithDefaultCompressor(comp compressor.Compressor) Option {
	return func(c *Codec) {
		if comp != nil {
			c.compressor = comp
		}
	}
}

// WithDefaultLevel 指定未通过调用选项覆盖时使用的压缩级别。
//
// 级别在这里不做校验，非法值会在编码时由压缩器报告。
func WithDefaultLevel(level compressor.Level) Option {
	return func(c *Codec) {
		c.level = level
	}
}

// WithLogger 为 Codec 绑定日志实例，默认使用全局 Logger。
func WithLogger(logger *log.MLogger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.SetLogger(logger)
		}
	}
}

type callOption struct {
	// level 仅在 levelSet 为 true 时覆盖 Codec 的默认级别。
	level    compressor.Level
	levelSet bool

	// compressor 同时作用于编码与解码方向。
	compressor compressor.Compressor
	// writer/reader 只作用于单一方向，优先级高于 compressor。
	writer compressor.Compressor
	reader compressor.Compressor

	// keepOpen 为 true 时 DecodeStream 不关闭调用方传入的流。
	keepOpen bool
}

// CallOption 调整单次编解码调用的行为。
type CallOption func(opt *callOption)

func newCallOption(opts []CallOption) *callOption {
	opt := &callOption{}
	for _, o := range opts {
		o(opt)
	}
	return opt
}

// WithLevel 覆盖本次编码使用的压缩级别。
func WithLevel(level compressor.Level) CallOption {
	return func(opt *callOption) {
		opt.level = level
		opt.levelSet = true
	}
}

// WithCompressor 覆盖本次调用使用的压缩器，编码与解码方向均生效。
func WithCompressor(c compressor.Compressor) CallOption {
	return func(opt *callOption) {
		opt.compressor = c
	}
}

// WithWriterFactory 使用调用方提供的函数创建压缩过滤流，仅对编码生效。
func WithWriterFactory(fn compressor.WriterFunc) CallOption {
	return func(opt *callOption) {
		if fn != nil {
			opt.writer = compressor.Custom("custom", fn, nil)
		}
	}
}

// WithDecompressor 覆盖本次解码使用的压缩器。
func WithDecompressor(c compressor.Compressor) CallOption {
	return func(opt *callOption) {
		opt.reader = c
	}
}

// WithReaderFactory 使用调用方提供的函数创建解压过滤流，仅对解码生效。
func WithReaderFactory(fn compressor.ReaderFunc) CallOption {
	return func(opt *callOption) {
		if fn != nil {
			opt.reader = compressor.Custom("custom", nil, fn)
		}
	}
}

// WithKeepOpen 为 true 时，DecodeStream 读取完毕后不关闭输入流。
func WithKeepOpen(keepOpen bool) CallOption {
	return func(opt *callOption) {
		opt.keepOpen = keepOpen
	}
}

func (opt *callOption) encoder(c *Codec) (compressor.Compressor, compressor.Level) {
	level := c.level
	if opt.levelSet {
		level = opt.level
	}
	switch {
	case opt.writer != nil:
		return opt.writer, level
	case opt.compressor != nil:
		return opt.compressor, level
	default:
		return c.compressor, level
	}
}

func (opt *callOption) decoder(c *Codec) compressor.Compressor {
	switch {
	case opt.reader != nil:
		return opt.reader
	case opt.compressor != nil:
		return opt.compressor
	default:
		return c.compressor
	}
}
