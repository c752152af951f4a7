package pack

import (
	"github.com/meigma/pack/internal/deflate"
	"github.com/meigma/pack/internal/packtype"
)

// Sentinel errors re-exported from internal/packtype.
var (
	// ErrInvalidArgument is returned when a required argument is missing or out of range.
	ErrInvalidArgument = packtype.ErrInvalidArgument

	// ErrFormat is returned when a buffer cannot be parsed into whole records.
	ErrFormat = packtype.ErrFormat

	// ErrDecompression is returned when a stored payload fails to decompress.
	ErrDecompression = packtype.ErrDecompression

	// ErrForeignEntry is returned when an entry is read through a Reader that did not produce it.
	ErrForeignEntry = packtype.ErrForeignEntry

	// ErrWriterClosed is returned when a Writer is used after Close.
	ErrWriterClosed = packtype.ErrWriterClosed

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = packtype.ErrSizeOverflow

	// ErrSymlink is returned when a symlink is encountered where a regular file is required.
	ErrSymlink = packtype.ErrSymlink

	// ErrTooManyEntries is returned when a directory holds more files than allowed.
	ErrTooManyEntries = packtype.ErrTooManyEntries

	// ErrInvalidPath is returned when an entry path cannot be extracted safely.
	ErrInvalidPath = packtype.ErrInvalidPath
)

// Errors from the DEFLATE codec. Inflate failures wrap ErrDecompression
// together with one of these.
var (
	// ErrCorruptStream is returned for streams that violate the DEFLATE format.
	ErrCorruptStream = deflate.ErrCorrupt

	// ErrTruncatedStream is returned when a stream ends before its final block.
	ErrTruncatedStream = deflate.ErrTruncated
)
