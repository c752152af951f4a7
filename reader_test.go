package pack

import (
	"bytes"
	"fmt"
	"io/fs"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pack/internal/record"
	"github.com/meigma/pack/internal/testutil"
)

type blob struct {
	path string
	data []byte
}

func sampleBlobs() []blob {
	return []blob{
		{path: "docs/readme.md", data: testutil.Text(4000, 1)},
		{path: "bin/tool", data: testutil.Random(3000, 2)},
		{path: "docs/empty", data: []byte{}},
		{path: "k1", data: []byte{10, 20, 30, 40}},
		{path: "logs/big.log", data: testutil.Text(150_000, 3)},
	}
}

func buildContainer(t *testing.T, blobs []blob, opts ...Option) []byte {
	t.Helper()
	w := NewWriter(opts...)
	for _, b := range blobs {
		_, err := w.Add(b.path, b.data)
		require.NoError(t, err)
	}
	buf, err := w.Close()
	require.NoError(t, err)
	return buf
}

func TestContainerRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressionStore, CompressionDeflate, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			blobs := sampleBlobs()
			r, err := FromData(buildContainer(t, blobs, WithCompression(c)))
			require.NoError(t, err)
			require.Equal(t, len(blobs), r.Len())

			for i, e := range r.Entries() {
				assert.Equal(t, blobs[i].path, e.Path())
				assert.Equal(t, i, e.Index())
				if c == CompressionStore {
					assert.Equal(t, CompressionStore, e.Compression())
				}
				got, err := r.Read(e)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(blobs[i].data, got), e.Path())
			}
		})
	}
}

func TestReaderCompressionMethods(t *testing.T) {
	t.Parallel()

	r, err := FromData(buildContainer(t, sampleBlobs(), WithCompression(CompressionDeflate)))
	require.NoError(t, err)

	want := map[string]Compression{
		"docs/readme.md": CompressionDeflate,
		"bin/tool":       CompressionStore,
		"docs/empty":     CompressionStore,
		"k1":             CompressionStore,
		"logs/big.log":   CompressionDeflate,
	}
	for e := range r.All() {
		assert.Equal(t, want[e.Path()], e.Compression(), e.Path())
	}
}

func TestFromDataEmpty(t *testing.T) {
	t.Parallel()

	r, err := FromData([]byte{})
	require.NoError(t, err)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Entries())

	_, err = FromData(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFromDataMalformed(t *testing.T) {
	t.Parallel()

	valid := buildContainer(t, []blob{{path: "k1", data: []byte{10, 20, 30, 40}}})

	overlong := bytes.Clone(valid)
	overlong = record.AppendHeader(overlong, record.Header{CompressedSize: 100, PathSize: 1})
	overlong = append(overlong, 'x', 1, 2, 3)

	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "truncated header", buf: valid[:4]},
		{name: "truncated payload", buf: valid[:len(valid)-2]},
		{name: "trailing record too long", buf: overlong},
		{name: "unknown method", buf: []byte{0, 0, 0, 0, 1, 0, 0, 0, 42, 'a'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := FromData(tt.buf)
			require.ErrorIs(t, err, ErrFormat)
			assert.Nil(t, r)
		})
	}
}

func TestReaderForeignEntries(t *testing.T) {
	t.Parallel()

	buf := buildContainer(t, sampleBlobs())
	r1, err := FromData(buf)
	require.NoError(t, err)
	r2, err := FromData(buf)
	require.NoError(t, err)

	_, err = r1.Read(r2.Entries()[0])
	require.ErrorIs(t, err, ErrForeignEntry)
	assert.False(t, r1.Owns(r2.Entries()[0]))
	assert.True(t, r2.Owns(r2.Entries()[0]))

	w := NewWriter()
	written, err := w.Add("k1", []byte{1})
	require.NoError(t, err)
	_, err = r1.Read(written)
	require.ErrorIs(t, err, ErrForeignEntry)

	_, err = r1.Read(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReaderReadReturnsCopies(t *testing.T) {
	t.Parallel()

	buf := buildContainer(t, []blob{{path: "a", data: []byte("alpha")}})
	r, err := FromData(buf)
	require.NoError(t, err)
	e := r.Entries()[0]

	first, err := r.Read(e)
	require.NoError(t, err)
	first[0] = 'X'

	second, err := r.Read(e)
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(second))
}

func TestReaderEntriesIsACopy(t *testing.T) {
	t.Parallel()

	r, err := FromData(buildContainer(t, sampleBlobs()))
	require.NoError(t, err)

	entries := r.Entries()
	entries[0] = nil
	assert.NotNil(t, r.Entries()[0])
}

func TestReaderLookup(t *testing.T) {
	t.Parallel()

	buf := buildContainer(t, []blob{
		{path: "dup", data: []byte("first")},
		{path: "other", data: []byte("o")},
		{path: "dup", data: []byte("second")},
	})
	r, err := FromData(buf)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	e, ok := r.Lookup("dup")
	require.True(t, ok)
	assert.Equal(t, 0, e.Index())

	data, err := r.ReadFile("dup")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	_, err = r.ReadFile("missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "missing", pathErr.Path)
}

func TestReaderEntriesWithPrefix(t *testing.T) {
	t.Parallel()

	r, err := FromData(buildContainer(t, sampleBlobs()))
	require.NoError(t, err)

	var paths []string
	for e := range r.EntriesWithPrefix("docs/") {
		paths = append(paths, e.Path())
	}
	assert.Equal(t, []string{"docs/readme.md", "docs/empty"}, paths)

	var all []string
	for e := range r.EntriesWithPrefix("") {
		all = append(all, e.Path())
		if len(all) == 2 {
			break
		}
	}
	assert.Len(t, all, 2)
}

func TestReaderMaxEntrySize(t *testing.T) {
	t.Parallel()

	text := testutil.Text(10_000, 9)
	for _, c := range []Compression{CompressionDeflate, CompressionZstd} {
		buf := buildContainer(t, []blob{{path: "big", data: text}}, WithCompression(c))

		r, err := FromData(buf, WithMaxEntrySize(9_999))
		require.NoError(t, err)
		_, err = r.ReadFile("big")
		require.ErrorIs(t, err, ErrSizeOverflow, c.String())

		r, err = FromData(buf, WithMaxEntrySize(10_000))
		require.NoError(t, err)
		got, err := r.ReadFile("big")
		require.NoError(t, err, c.String())
		assert.Equal(t, text, got)

		r, err = FromData(buf, WithMaxEntrySize(0))
		require.NoError(t, err)
		_, err = r.ReadFile("big")
		require.NoError(t, err, c.String())
	}
}

func TestReaderMaxEntrySizeSkipsStore(t *testing.T) {
	t.Parallel()

	data := testutil.Random(4096, 12)
	buf := buildContainer(t, []blob{{path: "raw", data: data}})

	r, err := FromData(buf, WithMaxEntrySize(16))
	require.NoError(t, err)
	got, err := r.ReadFile("raw")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReaderCorruptPayload(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressionDeflate, CompressionZstd} {
		buf := buildContainer(t, []blob{{path: "t", data: testutil.Text(5000, 10)}}, WithCompression(c))
		r, err := FromData(buf)
		require.NoError(t, err)
		e := r.Entries()[0]
		require.Equal(t, c, e.Compression())

		// Damage the payload in place, keeping the framing intact.
		payload := buf[e.Offset() : e.Offset()+e.CompressedSize()]
		for i := range payload {
			payload[i] ^= 0xA5
		}
		_, err = r.Read(e)
		require.ErrorIs(t, err, ErrDecompression, c.String())
	}
}

func TestReaderDeflateTruncatedPayload(t *testing.T) {
	t.Parallel()

	stream, err := Deflate(testutil.Text(5000, 11))
	require.NoError(t, err)

	buf := record.AppendHeader(nil, record.Header{
		CompressedSize: uint32(len(stream) / 2),
		PathSize:       1,
		Method:         CompressionDeflate,
	})
	buf = append(buf, 'h')
	buf = append(buf, stream[:len(stream)/2]...)

	r, err := FromData(buf)
	require.NoError(t, err)
	_, err = r.ReadFile("h")
	require.ErrorIs(t, err, ErrDecompression)
	require.ErrorIs(t, err, ErrTruncatedStream)
}

func TestReaderConcurrentReads(t *testing.T) {
	t.Parallel()

	blobs := sampleBlobs()
	r, err := FromData(buildContainer(t, blobs, WithCompression(CompressionDeflate)))
	require.NoError(t, err)
	entries := r.Entries()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := i % len(entries)
			got, err := r.Read(entries[idx])
			if err == nil && !bytes.Equal(got, blobs[idx].data) {
				err = fmt.Errorf("entry %s: content mismatch", entries[idx].Path())
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestReaderInsertionOrder(t *testing.T) {
	t.Parallel()

	names := []string{"z", "a", "m", "b"}
	blobs := make([]blob, len(names))
	for i, n := range names {
		blobs[i] = blob{path: n, data: []byte(n)}
	}
	r, err := FromData(buildContainer(t, blobs))
	require.NoError(t, err)

	got := make([]string, 0, r.Len())
	for _, e := range r.Entries() {
		got = append(got, e.Path())
	}
	assert.Equal(t, names, got)
	assert.False(t, slices.IsSorted(got))
}

func TestReaderAcceptsEmptyPath(t *testing.T) {
	t.Parallel()

	buf, err := record.Append(nil, "", CompressionStore, []byte("anon"))
	require.NoError(t, err)

	r, err := FromData(buf)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())
	assert.Empty(t, r.Entries()[0].Path())

	got, err := r.ReadFile("")
	require.NoError(t, err)
	assert.Equal(t, "anon", string(got))

	_, err = NewWriter().Add("", []byte("anon"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}
