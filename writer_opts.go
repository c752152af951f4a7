package pack

import "log/slog"

// Option configures a Writer.
type Option func(*Writer)

// WithCompression sets the method used for every blob. The default,
// CompressionStore, never compresses. With CompressionDeflate or
// CompressionZstd each blob falls back to CompressionStore when
// compression would not shrink it.
func WithCompression(c Compression) Option {
	return func(w *Writer) {
		w.compression = c
	}
}

// WithCompressionLevel sets the encoder level: DefaultCompression or a
// value between NoCompression and BestCompression. For zstd the level is
// mapped onto the nearest zstd speed setting.
func WithCompressionLevel(level int) Option {
	return func(w *Writer) {
		w.level = level
	}
}

// WithSkipCompression adds predicates that decide to store a blob uncompressed.
// If any predicate returns true, compression is skipped for that blob.
// These checks are on the hot path, so keep them cheap.
func WithSkipCompression(fns ...SkipCompressionFunc) Option {
	return func(w *Writer) {
		w.skipCompression = append(w.skipCompression, fns...)
	}
}

// WithSizeHint preallocates the container buffer for n bytes.
func WithSizeHint(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.buf = make([]byte, 0, n)
		}
	}
}

// WithLogger sets the logger for writer operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}
