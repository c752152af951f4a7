package pack

import "log/slog"

// Default limits applied by FromData.
const (
	// DefaultMaxEntrySize bounds the decompressed size of one entry.
	DefaultMaxEntrySize = 256 << 20

	// DefaultMaxDecoderMemory bounds the memory a zstd decoder may allocate.
	DefaultMaxDecoderMemory = 512 << 20
)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxEntrySize limits the decompressed size of a single compressed
// entry. Reads that would expand past it fail with ErrSizeOverflow.
// Stored entries are never limited.
// Set limit to 0 to disable the limit.
func WithMaxEntrySize(limit uint64) ReaderOption {
	return func(r *Reader) {
		r.maxEntrySize = limit
	}
}

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) ReaderOption {
	return func(r *Reader) {
		r.maxDecoderMemory = limit
	}
}

// WithReaderLogger sets the logger for reader operations.
// If not set, logging is disabled.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}
