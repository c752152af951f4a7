package deflate

import "fmt"

// maxBlockTokens bounds the tokens buffered before a block is emitted.
const maxBlockTokens = 1 << 14

// Compress returns the raw DEFLATE encoding of data.
//
// level is DefaultCompression or a value in [NoCompression, BestCompression].
// The output depends only on data and level.
func Compress(data []byte, level int) ([]byte, error) {
	if level == DefaultCompression {
		level = 6
	}
	if level < NoCompression || level > BestCompression {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	e := &encoder{data: data}
	e.w.out = make([]byte, 0, len(data)/2+16)
	if level == NoCompression {
		e.writeStored(data, true)
		return e.w.bytes(), nil
	}

	m := newMatcher(data, levels[level])
	m.tokenize(func(t token, n int) {
		e.tokens = append(e.tokens, t)
		e.blockEnd += n
		if len(e.tokens) >= maxBlockTokens {
			e.flushBlock(false)
		}
	})
	e.flushBlock(true)
	return e.w.bytes(), nil
}

// encoder accumulates tokens for the current block and writes finished
// blocks to w.
type encoder struct {
	w          bitWriter
	data       []byte
	tokens     []token
	blockStart int
	blockEnd   int

	litFreq  [maxNumLit]int32
	distFreq [maxNumDist]int32
}

// flushBlock writes the buffered tokens as whichever block type is smallest.
func (e *encoder) flushBlock(final bool) {
	raw := e.data[e.blockStart:e.blockEnd]

	clear(e.litFreq[:])
	clear(e.distFreq[:])
	extraBits := 0
	for _, t := range e.tokens {
		if !t.isMatch() {
			e.litFreq[t.literal()]++
			continue
		}
		lc := lengthCode(t.length())
		e.litFreq[257+lc]++
		extraBits += int(lengthExtra[lc])
		dc := distCode(t.dist())
		e.distFreq[dc]++
		extraBits += int(distExtra[dc])
	}
	e.litFreq[endBlockMarker]++

	fixedBits := 3 + extraBits +
		fixedLitEncoder.bitLength(e.litFreq[:]) +
		fixedDistEncoder.bitLength(e.distFreq[:])

	litEnc := newHuffmanEncoder(e.litFreq[:], maxCodeLen)
	distEnc := newHuffmanEncoder(e.distFreq[:], maxCodeLen)
	hdr := newDynamicHeader(litEnc.lengths, distEnc.lengths)
	dynamicBits := 3 + extraBits + hdr.bitLength() +
		litEnc.bitLength(e.litFreq[:]) +
		distEnc.bitLength(e.distFreq[:])

	storedBits := e.storedBitLength(len(raw))

	switch {
	case storedBits <= fixedBits && storedBits <= dynamicBits:
		e.writeStored(raw, final)
	case fixedBits <= dynamicBits:
		e.writeBlockHeader(final, blockFixed)
		e.writeTokens(fixedLitEncoder, fixedDistEncoder)
	default:
		e.writeBlockHeader(final, blockDynamic)
		hdr.write(&e.w)
		e.writeTokens(litEnc, distEnc)
	}

	e.tokens = e.tokens[:0]
	e.blockStart = e.blockEnd
}

func (e *encoder) writeBlockHeader(final bool, typ uint32) {
	var f uint32
	if final {
		f = 1
	}
	e.w.writeBits(f, 1)
	e.w.writeBits(typ, 2)
}

// writeTokens writes the buffered tokens and the end-of-block marker.
func (e *encoder) writeTokens(lit, dist *huffmanEncoder) {
	for _, t := range e.tokens {
		if !t.isMatch() {
			e.w.writeCode(lit.codes[t.literal()])
			continue
		}
		length := t.length()
		lc := lengthCode(length)
		e.w.writeCode(lit.codes[257+lc])
		if n := lengthExtra[lc]; n > 0 {
			e.w.writeBits(uint32(length-lengthBase[lc]), n)
		}
		d := t.dist()
		dc := distCode(d)
		e.w.writeCode(dist.codes[dc])
		if n := distExtra[dc]; n > 0 {
			e.w.writeBits(uint32(d-distBase[dc]), n)
		}
	}
	e.w.writeCode(lit.codes[endBlockMarker])
}

// storedBitLength returns the exact cost of writing n raw bytes as stored
// blocks from the current bit position.
func (e *encoder) storedBitLength(n int) int {
	blocks := max(1, (n+maxStoredBlock-1)/maxStoredBlock)
	pad := (8 - (int(e.w.nbits)+3)%8) % 8
	return blocks*(3+32) + pad + (blocks-1)*5 + 8*n
}

// writeStored writes raw as one or more stored blocks. Only the last one
// carries the final flag.
func (e *encoder) writeStored(raw []byte, final bool) {
	for {
		n := min(len(raw), maxStoredBlock)
		e.writeBlockHeader(final && n == len(raw), blockStored)
		e.w.align()
		e.w.writeBits(uint32(n), 16)
		e.w.writeBits(uint32(^uint16(n)), 16)
		e.w.writeBytes(raw[:n])
		raw = raw[n:]
		if len(raw) == 0 {
			return
		}
	}
}

// dynamicHeader is the run-length encoded code-length section of a dynamic
// block together with the meta code used to write it.
type dynamicHeader struct {
	numLit  int
	numDist int
	numMeta int
	symbols []uint8 // code-length alphabet symbols, 0-18
	extra   []uint8 // repeat counts for symbols 16, 17 and 18
	meta    *huffmanEncoder
}

// metaExtraBits is the number of extra bits following each repeat symbol.
var metaExtraBits = [numMetaCodes]uint{16: 2, 17: 3, 18: 7}

func newDynamicHeader(litLengths, distLengths []uint8) *dynamicHeader {
	h := &dynamicHeader{
		numLit:  trimmedLen(litLengths, 257),
		numDist: trimmedLen(distLengths, 1),
	}

	combined := make([]uint8, 0, h.numLit+h.numDist)
	combined = append(combined, litLengths[:h.numLit]...)
	combined = append(combined, distLengths[:h.numDist]...)
	h.runLengthEncode(combined)

	var freq [numMetaCodes]int32
	for _, s := range h.symbols {
		freq[s]++
	}
	h.meta = newHuffmanEncoder(freq[:], maxMetaCodeLen)

	h.numMeta = numMetaCodes
	for h.numMeta > 4 && h.meta.lengths[metaCodeOrder[h.numMeta-1]] == 0 {
		h.numMeta--
	}
	return h
}

// trimmedLen returns the length of lengths without trailing zeros, but at least floor.
func trimmedLen(lengths []uint8, floor int) int {
	n := len(lengths)
	for n > floor && lengths[n-1] == 0 {
		n--
	}
	return n
}

// runLengthEncode converts code lengths to the code-length alphabet:
// 16 repeats the previous length 3-6 times, 17 repeats zero 3-10 times and
// 18 repeats zero 11-138 times.
func (h *dynamicHeader) runLengthEncode(lengths []uint8) {
	emit := func(sym, extra uint8) {
		h.symbols = append(h.symbols, sym)
		h.extra = append(h.extra, extra)
	}
	for i := 0; i < len(lengths); {
		l := lengths[i]
		run := 1
		for i+run < len(lengths) && lengths[i+run] == l {
			run++
		}
		i += run

		if l == 0 {
			for run >= 11 {
				r := min(run, 138)
				emit(18, uint8(r-11))
				run -= r
			}
			if run >= 3 {
				emit(17, uint8(run-3))
				run = 0
			}
			for ; run > 0; run-- {
				emit(0, 0)
			}
			continue
		}

		emit(l, 0)
		run--
		for run >= 3 {
			r := min(run, 6)
			emit(16, uint8(r-3))
			run -= r
		}
		for ; run > 0; run-- {
			emit(l, 0)
		}
	}
}

// bitLength returns the size of the header after the 3-bit block header.
func (h *dynamicHeader) bitLength() int {
	total := 5 + 5 + 4 + 3*h.numMeta
	for _, s := range h.symbols {
		total += int(h.meta.lengths[s]) + int(metaExtraBits[s])
	}
	return total
}

func (h *dynamicHeader) write(w *bitWriter) {
	w.writeBits(uint32(h.numLit-257), 5)
	w.writeBits(uint32(h.numDist-1), 5)
	w.writeBits(uint32(h.numMeta-4), 4)
	for i := 0; i < h.numMeta; i++ {
		w.writeBits(uint32(h.meta.lengths[metaCodeOrder[i]]), 3)
	}
	for i, s := range h.symbols {
		w.writeCode(h.meta.codes[s])
		if n := metaExtraBits[s]; n > 0 {
			w.writeBits(uint32(h.extra[i]), n)
		}
	}
}
