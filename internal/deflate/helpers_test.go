package deflate

import (
	"bytes"
	"encoding/hex"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// Raw DEFLATE streams produced by zlib.
const (
	storedHello  = "010c00f3ff68656c6c6f2c20776f726c64"
	fixedHello   = "cb48cdc9c957c8402701"
	dynamicQuick = "b5cac71180201000c056ae02c71cfaa0018982e1142448f5da84ef5db208b8bc662b508bf10089098cdf4f07188485fbe36dce0f70540590dff24c1917522ddaacdb7ee0795977fb10d393cbaa6edaae1fc6e905"
	emptyFixed   = "0300"
)

func quickText() []byte {
	return append(bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 3),
		"abcdefghijklmnopqrstuvwxyz0123456789"...)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// sampleData returns n deterministic bytes that mix words, repeats and noise.
func sampleData(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	words := []string{"pack", "entry", "record", "deflate", "window", "block", "huffman", " ", "\n", "0123"}
	out := make([]byte, 0, n)
	for len(out) < n {
		switch rng.IntN(10) {
		case 0:
			out = append(out, byte(rng.IntN(256)))
		case 1:
			if len(out) > 64 {
				start := rng.IntN(len(out) - 32)
				out = append(out, out[start:start+rng.IntN(32)]...)
			}
		default:
			out = append(out, words[rng.IntN(len(words))]...)
		}
	}
	return out[:n]
}

func randomBytes(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Uint32())
	}
	return out
}

// decodeChunked feeds data to a Decoder in pieces of the given size.
func decodeChunked(t *testing.T, data []byte, chunk int) []byte {
	t.Helper()
	d := NewDecoder()
	for len(data) > 0 {
		n := min(chunk, len(data))
		written, err := d.Write(data[:n])
		require.NoError(t, err)
		require.Equal(t, n, written)
		data = data[n:]
	}
	require.NoError(t, d.Close())
	return d.Bytes()
}
