package packtype

import "errors"

// Sentinel errors for container and compression operations.
var (
	// ErrInvalidArgument is returned when a required argument is missing or out of range.
	ErrInvalidArgument = errors.New("pack: invalid argument")

	// ErrFormat is returned when a container buffer cannot be parsed into whole records.
	ErrFormat = errors.New("pack: malformed container")

	// ErrDecompression is returned when a stored payload fails to decompress.
	ErrDecompression = errors.New("pack: decompression failed")

	// ErrForeignEntry is returned when an entry is passed to a reader that did not produce it.
	ErrForeignEntry = errors.New("pack: entry does not belong to this reader")

	// ErrWriterClosed is returned when a writer is used after Close.
	ErrWriterClosed = errors.New("pack: writer closed")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("pack: size overflow")

	// ErrSymlink is returned when a symbolic link is encountered where a regular file is required.
	ErrSymlink = errors.New("pack: symbolic links not supported")

	// ErrTooManyEntries is returned when a directory holds more files than the configured limit.
	ErrTooManyEntries = errors.New("pack: too many entries")

	// ErrInvalidPath is returned when an entry path cannot be safely mapped onto a directory.
	ErrInvalidPath = errors.New("pack: invalid path")
)
