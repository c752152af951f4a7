// Package deflate implements the raw DEFLATE format (RFC 1951) without any
// zlib or gzip envelope.
//
// Compress runs a lazy LZ77 matcher over a 32 KiB window and emits each block
// as stored, fixed Huffman, or dynamic Huffman, whichever is smallest.
// Decoder is a resumable bit-level parser: input may be supplied in chunks of
// any size and every bit-consuming step either completes or leaves the
// decoder unchanged until more input arrives.
package deflate

import (
	"errors"
	"fmt"
)

const (
	windowSize     = 1 << 15 // largest back-reference distance
	windowMask     = windowSize - 1
	minMatchLength = 3
	maxMatchLength = 258

	maxCodeLen     = 15 // longest literal/length or distance code
	maxMetaCodeLen = 7  // longest code-length code
	maxNumLit      = 286
	maxNumDist     = 30
	numMetaCodes   = 19
	endBlockMarker = 256

	maxStoredBlock = 1<<16 - 1
)

// Block types from the 2-bit BTYPE field.
const (
	blockStored  = 0
	blockFixed   = 1
	blockDynamic = 2
)

// metaCodeOrder is the order code-length code lengths appear in a dynamic
// block header.
var metaCodeOrder = [numMetaCodes]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

var (
	lengthBase  = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
	lengthExtra = [29]uint{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

	distBase  = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
	distExtra = [30]uint{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}
)

// lengthCodes maps match length-3 to its length code (symbol-257).
var lengthCodes [maxMatchLength - minMatchLength + 1]uint8

func init() {
	for code := 0; code < len(lengthBase)-1; code++ {
		for n := 0; n < 1<<lengthExtra[code]; n++ {
			lengthCodes[lengthBase[code]+n-minMatchLength] = uint8(code)
		}
	}
	// 258 has a dedicated code even though code 27 with all extra bits set
	// could also express it.
	lengthCodes[maxMatchLength-minMatchLength] = uint8(len(lengthBase) - 1)
}

// Compression levels accepted by Compress.
const (
	NoCompression      = 0
	BestSpeed          = 1
	BestCompression    = 9
	DefaultCompression = -1
)

var (
	// ErrCorrupt is returned for streams that violate the DEFLATE format.
	ErrCorrupt = errors.New("deflate: corrupt stream")

	// ErrTruncated is returned when input ends before the final block is complete.
	ErrTruncated = errors.New("deflate: truncated stream")

	// ErrInvalidLevel is returned for compression levels outside [-1, 9].
	ErrInvalidLevel = errors.New("deflate: invalid compression level")

	// ErrOutputLimit is returned when decompressed output exceeds the configured limit.
	ErrOutputLimit = errors.New("deflate: output limit exceeded")
)

// CorruptInputError reports the input offset at which a format violation
// was detected. It matches ErrCorrupt with errors.Is.
type CorruptInputError struct {
	Offset int64
	Reason string
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("deflate: corrupt input at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrCorrupt.
func (e *CorruptInputError) Unwrap() error {
	return ErrCorrupt
}
