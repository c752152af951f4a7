package deflate

// bitWriter packs values least-significant-bit first, as DEFLATE requires.
type bitWriter struct {
	out   []byte
	bits  uint64
	nbits uint
}

// writeBits appends the low n bits of v. n must be at most 32.
func (w *bitWriter) writeBits(v uint32, n uint) {
	w.bits |= uint64(v) << w.nbits
	w.nbits += n
	for w.nbits >= 8 {
		w.out = append(w.out, byte(w.bits))
		w.bits >>= 8
		w.nbits -= 8
	}
}

// writeCode appends a Huffman code whose bits are already reversed.
func (w *bitWriter) writeCode(c hcode) {
	w.writeBits(uint32(c.code), uint(c.len))
}

// align pads with zero bits up to the next byte boundary.
func (w *bitWriter) align() {
	if w.nbits > 0 {
		w.out = append(w.out, byte(w.bits))
		w.bits = 0
		w.nbits = 0
	}
}

// writeBytes appends raw bytes. The writer must be byte aligned.
func (w *bitWriter) writeBytes(p []byte) {
	w.out = append(w.out, p...)
}

// bitLen returns the number of bits written so far.
func (w *bitWriter) bitLen() int {
	return len(w.out)*8 + int(w.nbits)
}

// bytes flushes any partial byte and returns the output.
func (w *bitWriter) bytes() []byte {
	w.align()
	return w.out
}
