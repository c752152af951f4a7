// Package record encodes and decodes the records of a container buffer.
//
// A container is a sequence of records with no header, footer or entry
// count. Each record is:
//
//	compressedSize  uint32, little endian
//	pathSize        uint32, little endian
//	method          1 byte
//	path            pathSize bytes
//	payload         compressedSize bytes
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/pack/internal/packtype"
	"github.com/meigma/pack/internal/sizing"
)

// HeaderSize is the size of the fixed part of a record.
const HeaderSize = 4 + 4 + 1

// Header is the fixed part of a record.
type Header struct {
	CompressedSize uint32
	PathSize       uint32
	Method         packtype.Compression
}

// AppendHeader appends the encoding of h to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.CompressedSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.PathSize)
	return append(dst, byte(h.Method))
}

// Append appends a complete record to dst. Either length exceeding a
// uint32 yields packtype.ErrSizeOverflow and leaves dst unchanged.
func Append(dst []byte, path string, method packtype.Compression, payload []byte) ([]byte, error) {
	size, err := sizing.ToUint32(len(payload), fmt.Errorf("%w: payload of %d bytes", packtype.ErrSizeOverflow, len(payload)))
	if err != nil {
		return dst, err
	}
	pathSize, err := sizing.ToUint32(len(path), fmt.Errorf("%w: path of %d bytes", packtype.ErrSizeOverflow, len(path)))
	if err != nil {
		return dst, err
	}
	dst = AppendHeader(dst, Header{CompressedSize: size, PathSize: pathSize, Method: method})
	dst = append(dst, path...)
	return append(dst, payload...), nil
}

// Record locates one parsed record within its buffer.
type Record struct {
	Path   string
	Method packtype.Compression
	Offset int // start of the payload
	Size   int // length of the payload
}

// End returns the offset just past the payload.
func (r Record) End() int {
	return r.Offset + r.Size
}

// ParseHeader decodes the fixed header at off.
func ParseHeader(buf []byte, off int) (Header, error) {
	if !sizing.Range(len(buf), off, HeaderSize) {
		return Header{}, fmt.Errorf("%w: truncated record header at offset %d", packtype.ErrFormat, off)
	}
	b := buf[off : off+HeaderSize]
	return Header{
		CompressedSize: binary.LittleEndian.Uint32(b[0:4]),
		PathSize:       binary.LittleEndian.Uint32(b[4:8]),
		Method:         packtype.Compression(b[8]),
	}, nil
}

// ParseAt decodes the record starting at off and returns it together with
// the offset of the next record.
func ParseAt(buf []byte, off int) (Record, int, error) {
	h, err := ParseHeader(buf, off)
	if err != nil {
		return Record{}, 0, err
	}
	if !h.Method.Valid() {
		return Record{}, 0, fmt.Errorf("%w: unknown compression method %d at offset %d", packtype.ErrFormat, uint8(h.Method), off)
	}

	pathSize, err := sizing.ToInt(uint64(h.PathSize), packtype.ErrFormat)
	if err != nil {
		return Record{}, 0, err
	}
	size, err := sizing.ToInt(uint64(h.CompressedSize), packtype.ErrFormat)
	if err != nil {
		return Record{}, 0, err
	}

	pathOff := off + HeaderSize
	if !sizing.Range(len(buf), pathOff, pathSize) {
		return Record{}, 0, fmt.Errorf("%w: path of record at offset %d extends past end of buffer", packtype.ErrFormat, off)
	}
	payloadOff := pathOff + pathSize
	if !sizing.Range(len(buf), payloadOff, size) {
		return Record{}, 0, fmt.Errorf("%w: payload of record at offset %d extends past end of buffer", packtype.ErrFormat, off)
	}

	rec := Record{
		Path:   string(buf[pathOff:payloadOff]),
		Method: h.Method,
		Offset: payloadOff,
		Size:   size,
	}
	return rec, rec.End(), nil
}

// Parse decodes every record in buf. The buffer must consist of whole
// records; anything else is a packtype.ErrFormat.
func Parse(buf []byte) ([]Record, error) {
	var records []Record
	for off := 0; off < len(buf); {
		rec, next, err := ParseAt(buf, off)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		off = next
	}
	return records, nil
}
