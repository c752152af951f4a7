// Package testutil provides deterministic test data and directory fixtures.
package testutil

import (
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var words = []string{
	"pack", "entry", "record", "deflate", "window", "block", "huffman",
	"reader", "writer", "offset", " ", " ", "\n", "0123456789",
}

// Text returns n bytes of word-like, highly compressible data.
func Text(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x5DEECE66D))
	out := make([]byte, 0, n+16)
	for len(out) < n {
		out = append(out, words[rng.IntN(len(words))]...)
	}
	return out[:n]
}

// Random returns n bytes of incompressible data.
func Random(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed+0x9E3779B9))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Uint32())
	}
	return out
}

// WriteTree creates files below dir. Keys are slash-separated relative paths.
func WriteTree(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, data, 0o644))
	}
}

// ReadTree returns every regular file below dir keyed by slash-separated
// relative path.
func ReadTree(tb testing.TB, dir string) map[string][]byte {
	tb.Helper()
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	require.NoError(tb, err)
	return files
}
