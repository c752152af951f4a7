package packtype

// Entry describes one blob stored in a container.
//
// Entries are immutable views: they record where the payload lives in the
// container buffer but do not own any bytes. Entries produced by a Reader
// are only accepted by that same Reader.
type Entry struct {
	path        string
	compression Compression
	offset      uint64
	size        uint64
	index       int
}

// NewEntry returns an entry for the index'th record of a container.
func NewEntry(index int, path string, compression Compression, offset, size uint64) *Entry {
	return &Entry{
		path:        path,
		compression: compression,
		offset:      offset,
		size:        size,
		index:       index,
	}
}

// Path returns the identifier the blob was stored under.
func (e *Entry) Path() string {
	return e.path
}

// Compression returns the method the payload is stored with.
func (e *Entry) Compression() Compression {
	return e.compression
}

// Offset returns the byte offset of the payload within the container buffer.
func (e *Entry) Offset() uint64 {
	return e.offset
}

// CompressedSize returns the stored payload length in bytes.
// For CompressionStore it equals the original length.
func (e *Entry) CompressedSize() uint64 {
	return e.size
}

// Index returns the record's position in insertion order.
func (e *Entry) Index() int {
	return e.index
}
