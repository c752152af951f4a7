package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pack/internal/packtype"
)

func TestAppendLayout(t *testing.T) {
	t.Parallel()

	buf, err := Append(nil, "k1", packtype.CompressionStore, []byte{10, 20, 30, 40})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x04, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x00,
		0x6b, 0x31,
		0x0a, 0x14, 0x1e, 0x28,
	}, buf)
}

func TestAppendHeader(t *testing.T) {
	t.Parallel()

	got := AppendHeader([]byte{0xAA}, Header{CompressedSize: 0x01020304, PathSize: 0x0A0B, Method: packtype.CompressionDeflate})
	assert.Equal(t, []byte{0xAA, 0x04, 0x03, 0x02, 0x01, 0x0B, 0x0A, 0x00, 0x00, 0x08}, got)

	h, err := ParseHeader(got, 1)
	require.NoError(t, err)
	assert.Equal(t, Header{CompressedSize: 0x01020304, PathSize: 0x0A0B, Method: packtype.CompressionDeflate}, h)
}

func TestParse(t *testing.T) {
	t.Parallel()

	var buf []byte
	var err error
	buf, err = Append(buf, "a.txt", packtype.CompressionStore, []byte("alpha"))
	require.NoError(t, err)
	buf, err = Append(buf, "", packtype.CompressionDeflate, []byte{0x03, 0x00})
	require.NoError(t, err)
	buf, err = Append(buf, "dir/empty", packtype.CompressionZstd, nil)
	require.NoError(t, err)

	records, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a.txt", records[0].Path)
	assert.Equal(t, packtype.CompressionStore, records[0].Method)
	assert.Equal(t, []byte("alpha"), buf[records[0].Offset:records[0].End()])

	assert.Empty(t, records[1].Path)
	assert.Equal(t, packtype.CompressionDeflate, records[1].Method)
	assert.Equal(t, []byte{0x03, 0x00}, buf[records[1].Offset:records[1].End()])

	assert.Equal(t, "dir/empty", records[2].Path)
	assert.Equal(t, 0, records[2].Size)
	assert.Equal(t, len(buf), records[2].End())
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	records, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	valid, err := Append(nil, "k1", packtype.CompressionStore, []byte{10, 20, 30, 40})
	require.NoError(t, err)

	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "short header", buf: valid[:5]},
		{name: "truncated path", buf: valid[:HeaderSize+1]},
		{name: "truncated payload", buf: valid[:len(valid)-1]},
		{name: "trailing partial header", buf: append(bytes.Clone(valid), 0x01, 0x00)},
		{name: "declared length past end", buf: append(bytes.Clone(valid), 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01)},
		{name: "path size past end", buf: []byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}},
		{name: "unknown method", buf: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x07}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.buf)
			require.ErrorIs(t, err, packtype.ErrFormat)
		})
	}
}

func TestParseAtReturnsNextOffset(t *testing.T) {
	t.Parallel()

	buf, err := Append(nil, "one", packtype.CompressionStore, []byte("1"))
	require.NoError(t, err)
	first := len(buf)
	buf, err = Append(buf, "two", packtype.CompressionStore, []byte("22"))
	require.NoError(t, err)

	rec, next, err := ParseAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "one", rec.Path)
	assert.Equal(t, first, next)

	rec, next, err = ParseAt(buf, next)
	require.NoError(t, err)
	assert.Equal(t, "two", rec.Path)
	assert.Equal(t, len(buf), next)
}
