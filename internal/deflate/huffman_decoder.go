package deflate

import (
	"math/bits"
	"sync"
)

// The decoding table follows zlib: a primary table indexed by the next
// huffmanChunkBits input bits, with overflow link tables for longer codes.
// Each entry holds the code length in its low 4 bits and the symbol (or
// link index) above them.
//
// A lookup works with fewer bits than the table width: the missing bits
// read as zero and shorter codes sort first, so the length found is a
// lower bound on the real one.
const (
	huffmanChunkBits  = 9
	huffmanNumChunks  = 1 << huffmanChunkBits
	huffmanCountMask  = 15
	huffmanValueShift = 4
)

type huffmanDecoder struct {
	min      int
	chunks   [huffmanNumChunks]uint32
	links    [][]uint32
	linkMask uint32
}

// init builds the decoding tables from per-symbol code lengths (0 means
// the symbol is absent). It reports false when the lengths do not form a
// complete prefix code.
//
// Two incomplete shapes are accepted because conforming encoders emit
// them: an empty code, which fails on first use, and a single code of
// length one.
func (h *huffmanDecoder) init(lengths []int) bool {
	*h = huffmanDecoder{}

	var count [maxCodeLen + 1]int
	var lo, hi int
	for _, n := range lengths {
		if n == 0 {
			continue
		}
		if n > maxCodeLen {
			return false
		}
		if lo == 0 || n < lo {
			lo = n
		}
		hi = max(hi, n)
		count[n]++
	}
	if hi == 0 {
		return true
	}

	code := 0
	var nextcode [maxCodeLen + 1]int
	for i := lo; i <= hi; i++ {
		code <<= 1
		nextcode[i] = code
		code += count[i]
	}
	if code != 1<<uint(hi) && !(code == 1 && hi == 1) {
		return false
	}

	h.min = lo
	if hi > huffmanChunkBits {
		numLinks := 1 << (uint(hi) - huffmanChunkBits)
		h.linkMask = uint32(numLinks - 1)

		link := nextcode[huffmanChunkBits+1] >> 1
		h.links = make([][]uint32, huffmanNumChunks-link)
		for j := uint(link); j < huffmanNumChunks; j++ {
			reverse := int(bits.Reverse16(uint16(j)))
			reverse >>= uint(16 - huffmanChunkBits)
			off := j - uint(link)
			h.chunks[reverse] = uint32(off<<huffmanValueShift | (huffmanChunkBits + 1))
			h.links[off] = make([]uint32, numLinks)
		}
	}

	for sym, n := range lengths {
		if n == 0 {
			continue
		}
		code := nextcode[n]
		nextcode[n]++
		chunk := uint32(sym<<huffmanValueShift | n)
		reverse := int(bits.Reverse16(uint16(code)))
		reverse >>= uint(16 - n)
		if n <= huffmanChunkBits {
			for off := reverse; off < len(h.chunks); off += 1 << uint(n) {
				h.chunks[off] = chunk
			}
			continue
		}
		j := reverse & (huffmanNumChunks - 1)
		linktab := h.links[h.chunks[j]>>huffmanValueShift]
		reverse >>= huffmanChunkBits
		for off := reverse; off < len(linktab); off += 1 << uint(n-huffmanChunkBits) {
			linktab[off] = chunk
		}
	}
	return true
}

var (
	fixedOnce        sync.Once
	fixedLitDecoder  huffmanDecoder
	fixedDistDecoder huffmanDecoder
)

// fixedDecoders returns the decoders for fixed Huffman blocks.
func fixedDecoders() (lit, dist *huffmanDecoder) {
	fixedOnce.Do(func() {
		fixedLitDecoder.init(intLengths(fixedLitLengths))
		fixedDistDecoder.init(intLengths(fixedDistLengths))
	})
	return &fixedLitDecoder, &fixedDistDecoder
}

func intLengths(lengths []uint8) []int {
	out := make([]int, len(lengths))
	for i, l := range lengths {
		out[i] = int(l)
	}
	return out
}
