package zstdpool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := NewEncoder(zstd.SpeedDefault)
	require.NoError(t, err)
	defer enc.Close()
	return enc.Encode(data)
}

func TestPoolRoundTrip(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("pooled zstd decoder "), 500)
	frame := encode(t, data)
	assert.Less(t, len(frame), len(data))

	p := New(0)
	for range 3 {
		got, err := p.Decode(frame, 0)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestPoolConcurrent(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{1, 2, 3, 4, 5}, 4000)
	frame := encode(t, data)
	p := New(64 << 20)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Decode(frame, 0)
			if err == nil && !bytes.Equal(got, data) {
				err = assert.AnError
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

func TestPoolSizeLimit(t *testing.T) {
	t.Parallel()

	data := make([]byte, 10_000)
	frame := encode(t, data)
	p := New(0)

	_, err := p.Decode(frame, 9_999)
	require.ErrorIs(t, err, ErrTooLarge)

	got, err := p.Decode(frame, 10_000)
	require.NoError(t, err)
	assert.Len(t, got, 10_000)
}

func TestPoolCorrupt(t *testing.T) {
	t.Parallel()

	_, err := New(0).Decode([]byte("definitely not zstd"), 0)
	require.Error(t, err)
}

func TestNilPool(t *testing.T) {
	t.Parallel()

	frame := encode(t, []byte("no pool"))
	var p *Pool
	got, err := p.Decode(frame, 0)
	require.NoError(t, err)
	assert.Equal(t, "no pool", string(got))
}
