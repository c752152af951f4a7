package pack

import (
	"fmt"
	"log/slog"

	"github.com/meigma/pack/internal/deflate"
	"github.com/meigma/pack/internal/packtype"
	"github.com/meigma/pack/internal/record"
	"github.com/meigma/pack/internal/zstdpool"
)

// Writer appends named blobs to an in-memory container buffer.
//
// A Writer is single-use: Close hands over the buffer and any later call
// fails with ErrWriterClosed. It is not safe for concurrent use.
type Writer struct {
	buf             []byte
	count           int
	compression     Compression
	level           int
	skipCompression []SkipCompressionFunc
	zenc            *zstdpool.Encoder
	closed          bool
	logger          *slog.Logger
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		compression: CompressionStore,
		level:       DefaultCompression,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Writer) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.logger
}

// Add appends a record holding data under path and returns its entry.
//
// path must be non-empty and data must be non-nil; an empty slice stores
// an empty blob. Paths are not required to be unique. Readers accept
// records with an empty path written by other producers, but Add never
// writes one. The returned entry describes the record but belongs to no
// Reader, so Reader.Read rejects it.
func (w *Writer) Add(path string, data []byte) (*Entry, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil data for %q", ErrInvalidArgument, path)
	}
	if !w.compression.Valid() {
		return nil, fmt.Errorf("%w: unsupported compression %s", ErrInvalidArgument, w.compression)
	}
	if w.level != DefaultCompression && (w.level < NoCompression || w.level > BestCompression) {
		return nil, fmt.Errorf("%w: compression level %d", ErrInvalidArgument, w.level)
	}

	method, payload := w.encode(path, data)

	offset := len(w.buf) + record.HeaderSize + len(path)
	buf, err := record.Append(w.buf, path, method, payload)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", path, err)
	}
	w.buf = buf

	entry := packtype.NewEntry(w.count, path, method, uint64(offset), uint64(len(payload)))
	w.count++
	return entry, nil
}

// encode picks the stored form of data. Encoder failures and outputs larger
// than the input fall back to CompressionStore.
func (w *Writer) encode(path string, data []byte) (Compression, []byte) {
	if w.compression == CompressionStore || len(data) == 0 {
		return CompressionStore, data
	}
	if shouldSkip(path, len(data), w.skipCompression) {
		w.log().Debug("compression skipped", "path", path, "size", len(data))
		return CompressionStore, data
	}

	var (
		out []byte
		err error
	)
	switch w.compression {
	case CompressionDeflate:
		out, err = deflate.Compress(data, w.level)
	case CompressionZstd:
		out, err = w.encodeZstd(data)
	}
	if err != nil {
		w.log().Debug("compression failed, storing", "path", path, "compression", w.compression.String(), "error", err)
		return CompressionStore, data
	}
	if len(out) > len(data) {
		w.log().Debug("compression did not help, storing", "path", path, "size", len(data), "compressed", len(out))
		return CompressionStore, data
	}
	w.log().Debug("blob compressed", "path", path, "compression", w.compression.String(), "size", len(data), "compressed", len(out))
	return w.compression, out
}

func (w *Writer) encodeZstd(data []byte) ([]byte, error) {
	if w.zenc == nil {
		level := w.level
		if level == DefaultCompression {
			level = 3
		}
		enc, err := zstdpool.NewEncoder(zstdpool.LevelFromDeflate(max(level, 1)))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		w.zenc = enc
	}
	return w.zenc.Encode(data), nil
}

// Len returns the number of blobs added so far.
func (w *Writer) Len() int {
	return w.count
}

// Size returns the current length of the container buffer in bytes.
func (w *Writer) Size() int {
	return len(w.buf)
}

// Close finalizes the container and returns its bytes. The Writer must
// not be used afterwards.
func (w *Writer) Close() ([]byte, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}
	w.closed = true
	if w.zenc != nil {
		if err := w.zenc.Close(); err != nil {
			return nil, fmt.Errorf("close zstd encoder: %w", err)
		}
		w.zenc = nil
	}
	w.log().Debug("container closed", "entries", w.count, "size", len(w.buf))

	buf := w.buf
	if buf == nil {
		buf = []byte{}
	}
	w.buf = nil
	return buf, nil
}
