package pack

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/meigma/pack/internal/deflate"
	"github.com/meigma/pack/internal/packtype"
	"github.com/meigma/pack/internal/record"
	"github.com/meigma/pack/internal/sizing"
	"github.com/meigma/pack/internal/zstdpool"
)

// Reader provides access to the blobs of a finalized container.
//
// A Reader never modifies its buffer and holds no per-read state, so it is
// safe for concurrent use.
type Reader struct {
	data             []byte
	entries          []*Entry
	maxEntrySize     uint64
	maxDecoderMemory uint64
	pool             *zstdpool.Pool
	readGroup        singleflight.Group // zero value is valid
	logger           *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// FromData parses a container buffer.
//
// The Reader takes ownership of data; callers must not modify it
// afterwards. Parsing fails with ErrFormat unless the buffer consists of
// whole records with known compression methods. A nil buffer is an
// ErrInvalidArgument; an empty one holds no entries.
func FromData(data []byte, opts ...ReaderOption) (*Reader, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidArgument)
	}

	r := &Reader{
		data:             data,
		maxEntrySize:     DefaultMaxEntrySize,
		maxDecoderMemory: DefaultMaxDecoderMemory,
	}
	for _, opt := range opts {
		opt(r)
	}

	records, err := record.Parse(data)
	if err != nil {
		return nil, err
	}
	r.entries = make([]*Entry, len(records))
	for i, rec := range records {
		r.entries[i] = packtype.NewEntry(i, rec.Path, rec.Method, uint64(rec.Offset), uint64(rec.Size))
	}
	r.pool = zstdpool.New(r.maxDecoderMemory)

	r.log().Debug("container parsed", "entries", len(r.entries), "size", len(data))
	return r, nil
}

// Entries returns the entries in insertion order.
// The returned slice is a copy; the entries themselves are shared.
func (r *Reader) Entries() []*Entry {
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// All returns an iterator over the entries in insertion order.
func (r *Reader) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range r.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// EntriesWithPrefix returns an iterator over entries whose path starts
// with prefix, in insertion order.
func (r *Reader) EntriesWithPrefix(prefix string) iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range r.entries {
			if !strings.HasPrefix(e.Path(), prefix) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Size returns the length of the container buffer in bytes.
func (r *Reader) Size() int {
	return len(r.data)
}

// Lookup returns the first entry stored under path.
func (r *Reader) Lookup(path string) (*Entry, bool) {
	for _, e := range r.entries {
		if e.Path() == path {
			return e, true
		}
	}
	return nil, false
}

// ReadFile returns the contents of the first entry stored under path.
// A missing path yields an *fs.PathError wrapping fs.ErrNotExist.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	e, ok := r.Lookup(path)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: path, Err: fs.ErrNotExist}
	}
	return r.Read(e)
}

// Owns reports whether e was produced by this Reader.
func (r *Reader) Owns(e *Entry) bool {
	if e == nil {
		return false
	}
	i := e.Index()
	return i >= 0 && i < len(r.entries) && r.entries[i] == e
}

// Read returns the original bytes of e.
//
// Stored payloads are copied; compressed payloads are decompressed on every
// call. Concurrent reads of the same entry share one decompression but each
// caller receives its own slice.
func (r *Reader) Read(e *Entry) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entry", ErrInvalidArgument)
	}
	if !r.Owns(e) {
		return nil, fmt.Errorf("%w: %s", ErrForeignEntry, e.Path())
	}

	key := strconv.Itoa(e.Index())
	v, err, shared := r.readGroup.Do(key, func() (any, error) {
		return r.read(e)
	})
	if err != nil {
		return nil, err
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type", ErrDecompression)
	}
	if shared {
		data = bytes.Clone(data)
	}
	return data, nil
}

// read decodes e without coordination with other readers.
func (r *Reader) read(e *Entry) ([]byte, error) {
	payload, err := r.payload(e)
	if err != nil {
		return nil, err
	}

	limit, err := sizing.ToInt(r.maxEntrySize, fmt.Errorf("%w: entry size limit", ErrSizeOverflow))
	if err != nil {
		return nil, err
	}

	switch e.Compression() {
	case CompressionStore:
		// The limit bounds expansion only.
		return bytes.Clone(payload), nil

	case CompressionDeflate:
		out, err := deflate.Decompress(payload, limit)
		if err != nil {
			if errors.Is(err, deflate.ErrOutputLimit) {
				return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrSizeOverflow, e.Path(), limit)
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrDecompression, e.Path(), err)
		}
		if out == nil {
			out = []byte{}
		}
		return out, nil

	case CompressionZstd:
		out, err := r.pool.Decode(payload, limit)
		if err != nil {
			if errors.Is(err, zstdpool.ErrTooLarge) {
				return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrSizeOverflow, e.Path(), limit)
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrDecompression, e.Path(), err)
		}
		if out == nil {
			out = []byte{}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s has unknown compression %s", ErrFormat, e.Path(), e.Compression())
	}
}

// payload returns the stored bytes of e as a view into the buffer.
func (r *Reader) payload(e *Entry) ([]byte, error) {
	off, err := sizing.ToInt(e.Offset(), ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	n, err := sizing.ToInt(e.CompressedSize(), ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	if !sizing.Range(len(r.data), off, n) {
		return nil, fmt.Errorf("%w: %s extends past end of buffer", ErrFormat, e.Path())
	}
	return r.data[off : off+n], nil
}
