// Package pack stores named binary blobs in a single self-describing byte
// buffer and retrieves them by entry.
//
// A container is a plain sequence of records. Each record carries the
// payload length, the path length, a compression method byte, the path and
// the payload. There is no index, footer or entry count: a reader walks the
// records until the buffer is exhausted.
//
// Payloads are stored raw or compressed with the package's own DEFLATE
// implementation (raw RFC 1951 streams, no zlib or gzip envelope). Zstd is
// available as an opt-in alternative. Compression is decided per blob: a
// compressed payload is only kept when it is no larger than the original.
//
// # Writing
//
//	w := pack.NewWriter(pack.WithCompression(pack.CompressionDeflate))
//	if _, err := w.Add("config.json", data); err != nil {
//	    return err
//	}
//	buf, err := w.Close()
//
// # Reading
//
//	r, err := pack.FromData(buf)
//	if err != nil {
//	    return err
//	}
//	for _, e := range r.Entries() {
//	    content, err := r.Read(e)
//	    ...
//	}
//
// Entries are only valid with the Reader that produced them. Every Read
// decompresses again; callers that need repeated access should cache.
//
// # Directories
//
// [Create] packs a directory tree through a Writer and
// [Reader.CopyDir] extracts a container back onto disk.
//
// # Codec
//
// [Deflate], [Inflate] and [CRC32] expose the compression engine and the
// checksum directly.
package pack
