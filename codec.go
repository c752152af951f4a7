package pack

import (
	"errors"
	"fmt"

	"github.com/meigma/pack/internal/checksum"
	"github.com/meigma/pack/internal/deflate"
	"github.com/meigma/pack/internal/sizing"
)

// Deflate compresses data into a raw DEFLATE stream at DefaultCompression.
func Deflate(data []byte) ([]byte, error) {
	return DeflateLevel(data, DefaultCompression)
}

// DeflateRange compresses data[offset:offset+count].
func DeflateRange(data []byte, offset, count int) ([]byte, error) {
	src, err := subrange(data, offset, count)
	if err != nil {
		return nil, err
	}
	return DeflateLevel(src, DefaultCompression)
}

// DeflateLevel compresses data at the given level. The output is the same
// for the same input and level.
func DeflateLevel(data []byte, level int) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidArgument)
	}
	out, err := deflate.Compress(data, level)
	if err != nil {
		if errors.Is(err, deflate.ErrInvalidLevel) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return nil, err
	}
	return out, nil
}

// Inflate decompresses a raw DEFLATE stream. Bytes after the final block
// are ignored. Failures wrap ErrDecompression and either ErrCorruptStream
// or ErrTruncatedStream.
func Inflate(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidArgument)
	}
	out, err := deflate.Decompress(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// InflateRange decompresses the stream in data[offset:offset+count].
func InflateRange(data []byte, offset, count int) ([]byte, error) {
	src, err := subrange(data, offset, count)
	if err != nil {
		return nil, err
	}
	return Inflate(src)
}

// CRC32 returns the IEEE CRC-32 of the concatenation of ranges.
// No ranges, or only empty ranges, yields 0.
func CRC32(ranges ...[]byte) uint32 {
	return checksum.CRC32(ranges...)
}

func subrange(data []byte, offset, count int) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidArgument)
	}
	if !sizing.Range(len(data), offset, count) {
		return nil, fmt.Errorf("%w: range [%d, %d+%d) outside %d bytes", ErrInvalidArgument, offset, offset, count, len(data))
	}
	return data[offset : offset+count], nil
}
