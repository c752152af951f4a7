package deflate

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteropDecodeReference(t *testing.T) {
	t.Parallel()

	data := sampleData(250_000, 31)
	for _, level := range []int{flate.NoCompression, flate.BestSpeed, 5, flate.BestCompression, flate.HuffmanOnly} {
		t.Run(fmt.Sprintf("level %d", level), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			fw, err := flate.NewWriter(&buf, level)
			require.NoError(t, err)
			_, err = fw.Write(data)
			require.NoError(t, err)
			require.NoError(t, fw.Close())

			got, err := Decompress(buf.Bytes(), 0)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(data, got))

			got = decodeChunked(t, buf.Bytes(), 777)
			assert.True(t, bytes.Equal(data, got))
		})
	}
}

func TestInteropDecodeFlushedStream(t *testing.T) {
	t.Parallel()

	// Flush emits empty stored blocks between non-final blocks.
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	var want []byte
	for i := range 5 {
		part := sampleData(3000, uint64(40+i))
		want = append(want, part...)
		_, err = fw.Write(part)
		require.NoError(t, err)
		require.NoError(t, fw.Flush())
	}
	require.NoError(t, fw.Close())

	got, err := Decompress(buf.Bytes(), 0)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want, got))
}

func TestInteropEncodeForReference(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		{},
		quickText(),
		sampleData(120_000, 51),
		randomBytes(40_000, 52),
		make([]byte, 70_000),
	}
	for i, data := range inputs {
		for _, level := range []int{NoCompression, BestSpeed, DefaultCompression, BestCompression} {
			t.Run(fmt.Sprintf("input %d/level %d", i, level), func(t *testing.T) {
				t.Parallel()

				enc, err := Compress(data, level)
				require.NoError(t, err)

				fr := flate.NewReader(bytes.NewReader(enc))
				got, err := io.ReadAll(fr)
				require.NoError(t, err)
				require.NoError(t, fr.Close())
				assert.True(t, bytes.Equal(data, got))
			})
		}
	}
}
