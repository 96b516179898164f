// Package codec 把对象编码为“结构化文本 + 流式压缩”的紧凑二进制形式，并能还原。
//
// 编码：对象 → Serializer → 内存缓冲 → 压缩过滤流 → *Stream 或文件。
// 解码：io.Reader 或文件 → 解压过滤流 → 内存缓冲 → Serializer → 对象。
//
// 输出没有任何头部、魔数或版本号，解码方必须使用与编码方相同的压缩器。
package codec

import (
	"bytes"
	"context"
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/serializer"
	"github.com/lk2023060901/jsonzip-go/pkg/util/fileutil"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

const (
	opEncodeStream = "encode_stream"
	opEncodeFile   = "encode_file"
	opDecodeStream = "decode_stream"
	opDecodeFile   = "decode_file"
)

// Codec 组合一个 Serializer 与一个默认 Compressor。
//
// Codec 构造完成后不再修改内部状态，可被任意多个 goroutine 并发使用；
// 调用之间不共享任何可变数据。
type Codec struct {
	log.Binder

	serializer serializer.Serializer
	compressor compressor.Compressor
	level      compressor.Level
}

var (
	defaultOnce  sync.Once
	defaultCodec *Codec
)

// Default 返回进程级共享的 Codec：JSON（sonic）+ Brotli + LevelOptimal。
func Default() *Codec {
	defaultOnce.Do(func() {
		defaultCodec = New()
	})
	return defaultCodec
}

// New 创建一个独立的 Codec。
func New(opts ...Option) *Codec {
	c := &Codec{
		serializer: serializer.Default(),
		compressor: compressor.Default(),
		level:      compressor.DefaultLevel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Serializer() serializer.Serializer {
	return c.serializer
}

func (c *Codec) Compressor() compressor.Compressor {
	return c.compressor
}

func (c *Codec) Level() compressor.Level {
	return c.level
}

// EncodeStream 把 v 编码并压缩到内存，返回读取位置为 0 的 *Stream。
//
// 返回的 Stream 归调用方所有，使用完毕后需要 Close。
// 压缩级别非法时返回 merr.ErrParameterInvalid。
func (c *Codec) EncodeStream(ctx context.Context, v any, opts ...CallOption) (*Stream, error) {
	comp, level := newCallOption(opts).encoder(c)
	ctx, obs := c.begin(ctx, opEncodeStream, comp, level)

	data, raw, err := c.encode(ctx, v, comp, level)
	obs.end(int64(raw), int64(len(data)), err)
	if err != nil {
		return nil, err
	}
	return newStream(data), nil
}

// EncodeFile 把 v 编码后写入 path，文件已存在时整体覆盖。
//
// 数据先写入同目录下的临时文件，完整写入后再 rename 到 path，
// 失败或取消时不会留下被截断的文件。
// path 为符号链接时写入其指向的文件；已存在的文件保留原有权限，
// 只读文件、目录或悬空链接返回 merr.ErrIoFailed。
func (c *Codec) EncodeFile(ctx context.Context, v any, path string, opts ...CallOption) error {
	comp, level := newCallOption(opts).encoder(c)
	ctx, obs := c.begin(ctx, opEncodeFile, comp, level)

	if path == "" {
		err := merr.WrapErrParameterInvalidMsg("output path must not be empty")
		obs.end(0, 0, err)
		return err
	}

	data, raw, err := c.encode(ctx, v, comp, level)
	if err == nil {
		stream := newStream(data)
		err = fileutil.WriteAtomic(ctx, path, stream)
		stream.Close()
	}
	obs.end(int64(raw), int64(len(data)), err)
	return err
}

// DecodeStream 从 r 读取压缩数据，解压后解码到 v（必须是非 nil 指针）。
//
// 解码先写入与 *v 同类型的新值，成功后整体替换 *v；失败时 v 保持调用前的状态。
//
// 除非指定 WithKeepOpen(true)，无论成功与否，r（若实现了 io.Closer）都会在读取结束后被关闭；
// 指定 keepOpen 时 r 保持打开，但其中的数据已被读完。
//
// 错误分类：
//   - 解压失败或解压结果不是合法文本：merr.ErrFormatInvalid
//   - 文本合法但与 v 的结构不匹配：merr.ErrTypeMismatch
//   - r 自身读取失败：merr.ErrIoFailed
func (c *Codec) DecodeStream(ctx context.Context, r io.Reader, v any, opts ...CallOption) (err error) {
	opt := newCallOption(opts)
	comp := opt.decoder(c)
	ctx, obs := c.begin(ctx, opDecodeStream, comp, c.level)

	var raw, compressed int64
	defer func() {
		obs.end(raw, compressed, err)
	}()

	if r == nil {
		return merr.WrapErrParameterInvalidMsg("input reader must not be nil")
	}
	if !opt.keepOpen {
		defer func() {
			if cerr := closeSource(r); cerr != nil && err == nil {
				err = merr.WrapErrIoFailed("stream", cerr, "close input")
			}
		}()
	}
	if err = checkTarget(v); err != nil {
		return err
	}

	raw, compressed, err = c.decode(ctx, r, "stream", v, comp)
	return err
}

// DecodeFile 打开 path 并解码到 v，文件句柄在返回前关闭。
func (c *Codec) DecodeFile(ctx context.Context, path string, v any, opts ...CallOption) (err error) {
	comp := newCallOption(opts).decoder(c)
	ctx, obs := c.begin(ctx, opDecodeFile, comp, c.level)

	var raw, compressed int64
	defer func() {
		obs.end(raw, compressed, err)
	}()

	if path == "" {
		return merr.WrapErrParameterInvalidMsg("input path must not be empty")
	}
	if err = checkTarget(v); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return merr.WrapErrCanceled(err, "open")
	}

	f, err := os.Open(path)
	if err != nil {
		return merr.WrapErrIoFailed(path, err, "open input")
	}
	defer f.Close()

	raw, compressed, err = c.decode(ctx, f, path, v, comp)
	return err
}

// Decode 是 DecodeStream 的泛型版本，c 为 nil 时使用 Default()。
func Decode[T any](ctx context.Context, c *Codec, r io.Reader, opts ...CallOption) (T, error) {
	var out T
	if c == nil {
		c = Default()
	}
	if err := c.DecodeStream(ctx, r, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DecodeFileAs 是 DecodeFile 的泛型版本，c 为 nil 时使用 Default()。
func DecodeFileAs[T any](ctx context.Context, c *Codec, path string, opts ...CallOption) (T, error) {
	var out T
	if c == nil {
		c = Default()
	}
	if err := c.DecodeFile(ctx, path, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// encode 返回压缩后的数据与压缩前的文本长度。
func (c *Codec) encode(ctx context.Context, v any, comp compressor.Compressor, level compressor.Level) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, merr.WrapErrCanceled(err, "marshal")
	}
	raw, err := c.serializer.Marshal(v)
	if err != nil {
		return nil, 0, merr.WrapErrParameterInvalidMsg("cannot marshal %T: %s", v, err.Error())
	}

	var out bytes.Buffer
	w, err := comp.NewWriter(fileutil.NewContextWriter(ctx, &out), level)
	if err != nil {
		return nil, len(raw), errors.Wrapf(err, "create %s writer", comp.Name())
	}
	if _, err := io.Copy(w, fileutil.NewContextReader(ctx, bytes.NewReader(raw))); err != nil {
		_ = w.Close()
		return nil, len(raw), writeErr(ctx, err, "compress")
	}
	// Close 负责刷新压缩器尾部数据，必须在读取 out 之前完成。
	if err := w.Close(); err != nil {
		return nil, len(raw), writeErr(ctx, err, "compress")
	}
	return out.Bytes(), len(raw), nil
}

// decode 返回解压后的文本长度与从 r 读取的压缩数据长度。
func (c *Codec) decode(ctx context.Context, r io.Reader, name string, v any, comp compressor.Compressor) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, merr.WrapErrCanceled(err, "decompress")
	}

	src := &sourceReader{r: r}
	dec, err := comp.NewReader(fileutil.NewContextReader(ctx, src))
	if err != nil {
		return 0, src.n, readErr(ctx, src, name, err)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, fileutil.NewContextReader(ctx, dec))
	_ = dec.Close()
	if err != nil {
		return int64(buf.Len()), src.n, readErr(ctx, src, name, err)
	}

	if err := ctx.Err(); err != nil {
		return int64(buf.Len()), src.n, merr.WrapErrCanceled(err, "unmarshal")
	}
	data := buf.Bytes()
	if err := c.unmarshal(data, v); err != nil {
		if !c.serializer.Valid(data) {
			return int64(len(data)), src.n, merr.WrapErrFormatInvalid("unmarshal", err)
		}
		return int64(len(data)), src.n, merr.WrapErrTypeMismatch(v, err)
	}
	return int64(len(data)), src.n, nil
}

// unmarshal 解码到与 *v 同类型的新值，只有成功时才写回 v。
func (c *Codec) unmarshal(data []byte, v any) error {
	dst := reflect.ValueOf(v).Elem()
	fresh := reflect.New(dst.Type())
	if err := c.serializer.Unmarshal(data, fresh.Interface()); err != nil {
		return err
	}
	// proto 消息内部带有不可复制的状态，通过 Reset + Merge 写回。
	if msg, ok := v.(proto.Message); ok {
		proto.Reset(msg)
		proto.Merge(msg, fresh.Interface().(proto.Message))
		return nil
	}
	dst.Set(fresh.Elem())
	return nil
}

func writeErr(ctx context.Context, err error, stage string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return merr.WrapErrCanceled(ctxErr, stage)
	}
	return merr.WrapErrIoFailed("memory", err, stage)
}

func readErr(ctx context.Context, src *sourceReader, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return merr.WrapErrCanceled(ctxErr, "decompress")
	}
	if errors.Is(src.err, io.ErrUnexpectedEOF) {
		return merr.WrapErrIoUnexpectEOF(name, src.err, "read input")
	}
	if src.err != nil {
		return merr.WrapErrIoFailed(name, src.err, "read input")
	}
	if errors.Is(err, merr.ErrOperationNotSupported) {
		return err
	}
	return merr.WrapErrFormatInvalid("decompress", err)
}

func checkTarget(v any) error {
	if v == nil {
		return merr.WrapErrParameterInvalidMsg("decode target must be a non-nil pointer, got nil")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return merr.WrapErrParameterInvalidMsg("decode target must be a non-nil pointer, got %T", v)
	}
	return nil
}

func closeSource(r io.Reader) error {
	if closer, ok := r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
