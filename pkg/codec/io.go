package codec

import (
	"io"
)

// sourceReader 记录底层数据源自身的读错误（io.EOF 除外），
// 用于把“读不到数据”与“读到的数据无法解压”区分开。
type sourceReader struct {
	r   io.Reader
	n   int64
	err error
}

func (r *sourceReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.n += int64(n)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}
