package deflate

import (
	"cmp"
	"math/bits"
	"slices"
)

// hcode is a Huffman code with its bits reversed for LSB-first output.
type hcode struct {
	code uint16
	len  uint8
}

// huffmanEncoder holds the code table for one alphabet.
type huffmanEncoder struct {
	lengths []uint8
	codes   []hcode
}

// newHuffmanEncoder builds length-limited codes for the given symbol frequencies.
func newHuffmanEncoder(freq []int32, maxBits int) *huffmanEncoder {
	lengths := buildLengths(freq, maxBits)
	return &huffmanEncoder{lengths: lengths, codes: canonicalCodes(lengths)}
}

// newFixedEncoder builds the encoder for predefined code lengths.
func newFixedEncoder(lengths []uint8) *huffmanEncoder {
	return &huffmanEncoder{lengths: lengths, codes: canonicalCodes(lengths)}
}

// bitLength returns the number of bits needed to encode freq, excluding extra bits.
func (h *huffmanEncoder) bitLength(freq []int32) int {
	total := 0
	for sym, f := range freq {
		if f != 0 {
			total += int(f) * int(h.lengths[sym])
		}
	}
	return total
}

// huffLeaf is a symbol with nonzero frequency.
type huffLeaf struct {
	sym  int
	freq int32
}

// buildLengths computes Huffman code lengths no longer than maxBits.
//
// The result always describes a complete prefix code: when fewer than two
// symbols occur, unused low symbols are given a frequency of one so the
// decoder never sees a degenerate tree.
func buildLengths(freq []int32, maxBits int) []uint8 {
	lengths := make([]uint8, len(freq))

	leaves := make([]huffLeaf, 0, len(freq))
	for sym, f := range freq {
		if f > 0 {
			leaves = append(leaves, huffLeaf{sym: sym, freq: f})
		}
	}
	for sym := 0; len(leaves) < 2 && sym < len(freq); sym++ {
		if freq[sym] == 0 {
			leaves = append(leaves, huffLeaf{sym: sym, freq: 1})
		}
	}
	if len(leaves) == 1 {
		lengths[leaves[0].sym] = 1
		return lengths
	}
	if len(leaves) == 0 {
		return lengths
	}

	slices.SortFunc(leaves, func(a, b huffLeaf) int {
		if c := cmp.Compare(a.freq, b.freq); c != 0 {
			return c
		}
		return cmp.Compare(a.sym, b.sym)
	})

	depths := treeDepths(leaves)

	n := len(leaves)
	maxDepth := 0
	for _, d := range depths {
		maxDepth = max(maxDepth, d)
	}
	blCount := make([]int, max(maxDepth, maxBits)+1)
	for _, d := range depths {
		blCount[d]++
	}

	// Shorten codes longer than maxBits while keeping the Kraft sum at one:
	// a pair of deepest leaves is replaced by their parent, and a shallower
	// leaf is split to absorb the displaced one.
	for i := maxDepth; i > maxBits; i-- {
		for blCount[i] > 0 {
			j := i - 2
			for blCount[j] == 0 {
				j--
			}
			blCount[i] -= 2
			blCount[i-1]++
			blCount[j+1] += 2
			blCount[j]--
		}
	}

	// Leaves are sorted by ascending frequency, so the longest codes go to
	// the rarest symbols.
	idx := 0
	for l := min(maxDepth, maxBits); l >= 1 && idx < n; l-- {
		for c := blCount[l]; c > 0; c-- {
			lengths[leaves[idx].sym] = uint8(l)
			idx++
		}
	}
	return lengths
}

// treeDepths builds a Huffman tree over leaves, which must be sorted by
// ascending frequency, and returns the depth of each leaf.
//
// Leaves and merged nodes are consumed from two queues that are both
// nondecreasing in weight, so ties resolve identically on every run.
func treeDepths(leaves []huffLeaf) []int {
	n := len(leaves)
	total := 2*n - 1
	weight := make([]int64, total)
	parent := make([]int, total)
	for i, l := range leaves {
		weight[i] = int64(l.freq)
	}

	nextLeaf, nextNode, created := 0, n, n
	pick := func() int {
		if nextLeaf < n && (nextNode >= created || weight[nextLeaf] <= weight[nextNode]) {
			nextLeaf++
			return nextLeaf - 1
		}
		nextNode++
		return nextNode - 1
	}
	for created < total {
		a := pick()
		b := pick()
		weight[created] = weight[a] + weight[b]
		parent[a] = created
		parent[b] = created
		created++
	}

	// Parents always have higher indices than their children.
	depth := make([]int, total)
	for i := total - 2; i >= 0; i-- {
		depth[i] = depth[parent[i]] + 1
	}
	return depth[:n]
}

// canonicalCodes assigns canonical codes (RFC 1951 section 3.2.2) to the
// given lengths and reverses each for LSB-first output.
func canonicalCodes(lengths []uint8) []hcode {
	var blCount [maxCodeLen + 1]int
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	var nextCode [maxCodeLen + 1]int
	code := 0
	for n := 1; n <= maxCodeLen; n++ {
		code = (code + blCount[n-1]) << 1
		nextCode[n] = code
	}

	codes := make([]hcode, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		codes[sym] = hcode{
			code: bits.Reverse16(uint16(c)) >> (16 - l),
			len:  l,
		}
	}
	return codes
}

// Predefined code lengths for fixed Huffman blocks (RFC 1951 section 3.2.6).
var (
	fixedLitLengths  = fixedLiteralLengths()
	fixedDistLengths = fixedDistanceLengths()

	fixedLitEncoder  = newFixedEncoder(fixedLitLengths)
	fixedDistEncoder = newFixedEncoder(fixedDistLengths)
)

func fixedLiteralLengths() []uint8 {
	lengths := make([]uint8, 288)
	for i := range lengths {
		switch {
		case i < 144:
			lengths[i] = 8
		case i < 256:
			lengths[i] = 9
		case i < 280:
			lengths[i] = 7
		default:
			lengths[i] = 8
		}
	}
	return lengths
}

func fixedDistanceLengths() []uint8 {
	lengths := make([]uint8, 32)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}
