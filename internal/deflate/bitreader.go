package deflate

// bitReader is the bit cursor over buffered input.
//
// Bytes move from in into the accumulator only as needed, and no read
// consumes bits unless it can complete, so a failed read leaves the cursor
// exactly where it was.
type bitReader struct {
	in   []byte
	pos  int    // next byte of in to load
	base int64  // stream offset of in[0]
	bits uint64 // loaded but unconsumed bits, next bit lowest
	nb   uint   // number of valid bits in bits
}

// cursor is a saved bitReader position.
type cursor struct {
	pos  int
	bits uint64
	nb   uint
}

func (br *bitReader) save() cursor {
	return cursor{pos: br.pos, bits: br.bits, nb: br.nb}
}

func (br *bitReader) restore(c cursor) {
	br.pos, br.bits, br.nb = c.pos, c.bits, c.nb
}

// feed appends input, first discarding bytes that are fully consumed.
// It must not be called while a saved cursor is live.
func (br *bitReader) feed(p []byte) {
	if br.pos > 0 {
		n := copy(br.in, br.in[br.pos:])
		br.in = br.in[:n]
		br.base += int64(br.pos)
		br.pos = 0
	}
	br.in = append(br.in, p...)
}

// offset returns the stream offset of the first byte with unconsumed bits.
func (br *bitReader) offset() int64 {
	return br.base + int64(br.pos) - int64(br.nb/8)
}

// need loads bytes until at least n bits are available and reports
// whether that succeeded. n must be at most 56.
func (br *bitReader) need(n uint) bool {
	for br.nb < n {
		if br.pos >= len(br.in) {
			return false
		}
		br.bits |= uint64(br.in[br.pos]) << br.nb
		br.pos++
		br.nb += 8
	}
	return true
}

// readBits consumes n bits (n <= 32) and returns them LSB first.
func (br *bitReader) readBits(n uint) (uint32, bool) {
	if !br.need(n) {
		return 0, false
	}
	v := uint32(br.bits & (1<<n - 1))
	br.bits >>= n
	br.nb -= n
	return v, true
}

// alignToByte discards bits up to the next byte boundary.
func (br *bitReader) alignToByte() {
	drop := br.nb % 8
	br.bits >>= drop
	br.nb -= drop
}

// copyBytes copies up to len(dst) byte-aligned input bytes into dst and
// returns the number copied.
func (br *bitReader) copyBytes(dst []byte) int {
	n := 0
	for n < len(dst) && br.nb >= 8 {
		dst[n] = byte(br.bits)
		br.bits >>= 8
		br.nb -= 8
		n++
	}
	c := copy(dst[n:], br.in[br.pos:])
	br.pos += c
	return n + c
}

// available returns the number of whole bytes that can still be read.
func (br *bitReader) available() int {
	return int(br.nb/8) + len(br.in) - br.pos
}

// decodeSymbol reads one symbol using h. ok is false when more input is
// needed; in that case nothing is consumed.
func (br *bitReader) decodeSymbol(h *huffmanDecoder) (sym int, ok bool, err error) {
	n := uint(h.min)
	for {
		if !br.need(n) {
			return 0, false, nil
		}
		chunk := h.chunks[br.bits&(huffmanNumChunks-1)]
		n = uint(chunk & huffmanCountMask)
		if n > huffmanChunkBits {
			chunk = h.links[chunk>>huffmanValueShift][(br.bits>>huffmanChunkBits)&uint64(h.linkMask)]
			n = uint(chunk & huffmanCountMask)
		}
		if n == 0 {
			return 0, false, &CorruptInputError{Offset: br.offset(), Reason: "invalid Huffman code"}
		}
		if n <= br.nb {
			br.bits >>= n
			br.nb -= n
			return int(chunk >> huffmanValueShift), true, nil
		}
	}
}
