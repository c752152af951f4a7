package pack

import (
	"github.com/meigma/pack/internal/deflate"
	"github.com/meigma/pack/internal/packtype"
)

// Re-export types from internal/packtype for public API.
type (
	// Entry describes one blob stored in a container.
	Entry = packtype.Entry

	// Compression identifies the compression method of a stored blob.
	Compression = packtype.Compression

	// CorruptInputError reports where a DEFLATE stream violates the format.
	CorruptInputError = deflate.CorruptInputError
)

// Re-export compression constants.
const (
	CompressionStore   = packtype.CompressionStore
	CompressionDeflate = packtype.CompressionDeflate
	CompressionZstd    = packtype.CompressionZstd
)

// Compression levels for WithCompressionLevel and DeflateLevel.
const (
	NoCompression      = deflate.NoCompression
	BestSpeed          = deflate.BestSpeed
	BestCompression    = deflate.BestCompression
	DefaultCompression = deflate.DefaultCompression
)

// ParseCompression parses a compression method name ("store", "deflate" or "zstd").
var ParseCompression = packtype.ParseCompression
