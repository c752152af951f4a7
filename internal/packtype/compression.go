package packtype

import "fmt"

// Compression identifies the compression method used for a stored blob.
//
// The numeric values are written verbatim into the method byte of each
// container record and must not change.
type Compression uint8

const (
	// CompressionStore stores the payload as raw bytes.
	CompressionStore Compression = 0

	// CompressionDeflate stores the payload as a raw DEFLATE stream.
	CompressionDeflate Compression = 8

	// CompressionZstd stores the payload as a single zstd frame.
	CompressionZstd Compression = 93
)

// String returns the human-readable name of the compression method.
func (c Compression) String() string {
	switch c {
	case CompressionStore:
		return "store"
	case CompressionDeflate:
		return "deflate"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Valid reports whether c is a method this package can read and write.
func (c Compression) Valid() bool {
	switch c {
	case CompressionStore, CompressionDeflate, CompressionZstd:
		return true
	default:
		return false
	}
}

// ParseCompression parses a compression method from its string representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "store", "none":
		return CompressionStore, nil
	case "deflate":
		return CompressionDeflate, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", ErrInvalidArgument, name)
	}
}
