package codec

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	s := newStream([]byte("0123456789"))
	assert.Equal(t, int64(10), s.Size())
	assert.Equal(t, 10, s.Len())

	head := make([]byte, 4)
	_, err := io.ReadFull(s, head)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(head))
	assert.Equal(t, 6, s.Len())

	pos, err := s.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "89", buf.String())

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(s.Bytes()))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Bytes())

	_, err = s.Read(head)
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = s.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = s.WriteTo(&buf)
	assert.ErrorIs(t, err, os.ErrClosed)
}
