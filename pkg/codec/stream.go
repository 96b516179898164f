package codec

import (
	"bytes"
	"io"
	"os"
)

// Stream 是 EncodeStream 返回的内存压缩数据，读取位置从 0 开始。
//
// Stream 由调用方持有并负责 Close；Close 之后的读取返回 os.ErrClosed。
// Stream 不是并发安全的。
type Stream struct {
	data   []byte
	r      *bytes.Reader
	closed bool
}

var (
	_ io.ReadSeekCloser = (*Stream)(nil)
	_ io.WriterTo       = (*Stream)(nil)
)

func newStream(data []byte) *Stream {
	return &Stream{data: data, r: bytes.NewReader(data)}
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.r.Read(p)
}

// WriteTo 把剩余未读数据写入 w。
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.r.WriteTo(w)
}

func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.r.Seek(offset, whence)
}

// Len 返回剩余未读的字节数。
func (s *Stream) Len() int {
	if s.closed {
		return 0
	}
	return s.r.Len()
}

// Size 返回压缩数据的总长度，与读取位置无关。
func (s *Stream) Size() int64 {
	return int64(len(s.data))
}

// Bytes 返回完整的压缩数据。返回值与 Stream 共享底层数组，调用方不应修改。
func (s *Stream) Bytes() []byte {
	return s.data
}

// Close 释放数据，可重复调用。
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.data = nil
	s.r.Reset(nil)
	return nil
}

// Closed 报告 Stream 是否已经关闭。
func (s *Stream) Closed() bool {
	return s.closed
}
