package compressor

import (
	"io"
	"sort"
	"strings"

	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// Compressor 抽象了“流式压缩/解压”能力：把一个原始字节流包装成压缩或解压过滤流。
//
// 设计目标：
//   - 面向单个对象的整体编码，而不是帧/分块随机访问。
//   - 实现本身无状态，每次调用都创建新的过滤流，可被任意多个调用方并发使用。
//   - 过滤流的 Close 只负责刷新/释放自身资源，不关闭被包装的底层流。
type Compressor interface {
	// Name 返回算法名称，用于日志、指标与配置查找。
	Name() string

	// NewWriter 返回写入 w 的压缩流。
	//
	// 调用方必须 Close 返回的写入器，才能保证尾部数据被完整刷新到 w。
	// level 不在枚举范围内时返回 merr.ErrParameterInvalid。
	NewWriter(w io.Writer, level Level) (io.WriteCloser, error)

	// NewReader 返回从 r 读取并解压的流。
	//
	// r 中的数据必须由同一算法的 NewWriter 产生；数据损坏时在创建或读取阶段返回错误。
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// WriterFunc 是调用方提供的压缩过滤流工厂。
type WriterFunc func(w io.Writer, level Level) (io.WriteCloser, error)

// ReaderFunc 是调用方提供的解压过滤流工厂。
type ReaderFunc func(r io.Reader) (io.ReadCloser, error)

// Custom 用调用方提供的工厂函数组装一个 Compressor。
//
// writer/reader 允许只提供其中一个；缺失的方向被调用时返回 merr.ErrOperationNotSupported。
func Custom(name string, writer WriterFunc, reader ReaderFunc) Compressor {
	if name == "" {
		name = "custom"
	}
	return funcCompressor{name: name, writer: writer, reader: reader}
}

type funcCompressor struct {
	name   string
	writer WriterFunc
	reader ReaderFunc
}

var _ Compressor = funcCompressor{}

func (c funcCompressor) Name() string {
	return c.name
}

func (c funcCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if c.writer == nil {
		return nil, merr.WrapErrOperationNotSupported("compress", c.name)
	}
	return c.writer(w, level)
}

func (c funcCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	if c.reader == nil {
		return nil, merr.WrapErrOperationNotSupported("decompress", c.name)
	}
	return c.reader(r)
}

// NopCompressor 是一个空实现：不做任何压缩/解压，数据原样透传。
//
// 适用于：
//   - 对比压缩效果时获取原始结构化文本长度
//   - 在调用侧通过接口注入，在不改业务逻辑的前提下关闭压缩
type NopCompressor struct{}

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}

func (NopCompressor) Name() string {
	return "none"
}

func (NopCompressor) NewWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	if err := level.check(); err != nil {
		return nil, err
	}
	return nopWriteCloser{w}, nil
}

func (NopCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// Default 返回默认压缩器（Brotli）。
func Default() Compressor {
	return BrotliCompressor{}
}

var registry = map[string]func() Compressor{
	"brotli": func() Compressor { return BrotliCompressor{} },
	"gzip":   func() Compressor { return GzipCompressor{} },
	"zstd":   func() Compressor { return NewZstdCompressor() },
	"snappy": func() Compressor { return SnappyCompressor{} },
	"none":   func() Compressor { return NopCompressor{} },
}

var aliases = map[string]string{
	"br":   "brotli",
	"gz":   "gzip",
	"zst":  "zstd",
	"sz":   "snappy",
	"nop":  "none",
	"noop": "none",
	"":     "brotli",
}

var extensions = map[string]string{
	"brotli": ".br",
	"gzip":   ".gz",
	"zstd":   ".zst",
	"snappy": ".sz",
	"none":   ".raw",
}

// Extension 返回压缩器输出文件的惯用扩展名，非内置压缩器返回 ".bin"。
func Extension(c Compressor) string {
	if ext, ok := extensions[c.Name()]; ok {
		return ext
	}
	return ".bin"
}

// LookupByExtension 根据文件扩展名（如 ".br"、".zst"）返回内置压缩器。
func LookupByExtension(ext string) (Compressor, bool) {
	ext = strings.ToLower(ext)
	for name, known := range extensions {
		if known == ext {
			c, err := Lookup(name)
			return c, err == nil
		}
	}
	return nil, false
}

// Lookup 根据名称（或常用扩展名别名）返回内置压缩器。
func Lookup(name string) (Compressor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	newFn, ok := registry[key]
	if !ok {
		return nil, merr.WrapErrCompressorNotFound(name)
	}
	return newFn(), nil
}

// Names 返回所有内置压缩器名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
