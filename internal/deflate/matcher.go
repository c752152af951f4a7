package deflate

const (
	hashBits = 15
	hashSize = 1 << hashBits
	hashMul  = 0x9E3779B1

	// A 3-byte match further back than this costs more than three literals.
	tooFar = 4096
)

// levelConfig holds the lazy-matching tuning constants for one level.
type levelConfig struct {
	good  int // reduce chain search once a match this long is in hand
	lazy  int // do not look for a better match after one this long
	nice  int // stop searching once a match this long is found
	chain int // maximum hash chain entries examined
}

// levels mirrors the zlib tuning table. Index 0 is stored-only.
var levels = [10]levelConfig{
	{},
	{good: 4, lazy: 4, nice: 8, chain: 4},
	{good: 4, lazy: 5, nice: 16, chain: 8},
	{good: 4, lazy: 6, nice: 32, chain: 32},
	{good: 4, lazy: 4, nice: 16, chain: 16},
	{good: 8, lazy: 16, nice: 32, chain: 32},
	{good: 8, lazy: 16, nice: 128, chain: 128},
	{good: 8, lazy: 32, nice: 128, chain: 256},
	{good: 32, lazy: 128, nice: 258, chain: 1024},
	{good: 32, lazy: 258, nice: 258, chain: 4096},
}

// matcher finds back-references within the sliding window of data.
//
// head holds the most recent position for each hash of three bytes and
// prev links each position to the previous one with the same hash. Both
// store positions; -1 marks an empty slot.
type matcher struct {
	cfg  levelConfig
	data []byte
	head []int
	prev []int
}

func newMatcher(data []byte, cfg levelConfig) *matcher {
	m := &matcher{
		cfg:  cfg,
		data: data,
		head: make([]int, hashSize),
		prev: make([]int, windowSize),
	}
	for i := range m.head {
		m.head[i] = -1
	}
	for i := range m.prev {
		m.prev[i] = -1
	}
	return m
}

func (m *matcher) hash(pos int) uint32 {
	d := m.data[pos : pos+minMatchLength]
	v := uint32(d[0])<<16 | uint32(d[1])<<8 | uint32(d[2])
	return (v * hashMul) >> (32 - hashBits)
}

// insert records pos in the hash chains. Positions too close to the end
// to start a match are ignored.
func (m *matcher) insert(pos int) {
	if pos+minMatchLength > len(m.data) {
		return
	}
	h := m.hash(pos)
	m.prev[pos&windowMask] = m.head[h]
	m.head[h] = pos
}

// findMatch returns the longest match at pos that is strictly longer than
// prevLen, or (0, 0). pos must already be inserted.
//
// Chain links may be stale once the window wraps; every candidate is
// verified byte by byte, so staleness only costs ratio, never correctness.
func (m *matcher) findMatch(pos, prevLen int) (length, dist int) {
	maxLen := min(maxMatchLength, len(m.data)-pos)
	bestLen := max(prevLen, minMatchLength-1)
	if maxLen < minMatchLength || bestLen >= maxLen {
		return 0, 0
	}

	chain := m.cfg.chain
	if prevLen >= m.cfg.good {
		chain >>= 2
	}
	nice := min(m.cfg.nice, maxLen)
	minPos := max(pos-windowSize, 0)

	cur := m.data[pos : pos+maxLen]
	bestDist := 0
	for cand := m.prev[pos&windowMask]; cand >= minPos && chain > 0; chain-- {
		if m.data[cand+bestLen] == cur[bestLen] && m.data[cand] == cur[0] {
			n := matchLen(m.data[cand:], cur)
			if n > bestLen {
				bestLen = n
				bestDist = pos - cand
				if n >= nice {
					break
				}
			}
		}
		next := m.prev[cand&windowMask]
		if next >= cand {
			break
		}
		cand = next
	}

	if bestDist == 0 {
		return 0, 0
	}
	if bestLen == minMatchLength && bestDist > tooFar {
		return 0, 0
	}
	return bestLen, bestDist
}

// matchLen returns the length of the common prefix of a and b, bounded by len(b).
func matchLen(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// tokenize runs lazy LZ77 matching over data and calls emit for every
// token in order. emit receives the number of input bytes the token covers.
func (m *matcher) tokenize(emit func(t token, n int)) {
	data := m.data
	n := len(data)

	prevLen, prevDist := 0, 0
	pending := false
	for pos := 0; pos < n; {
		m.insert(pos)

		length, dist := 0, 0
		if prevLen < m.cfg.lazy {
			length, dist = m.findMatch(pos, prevLen)
		}

		if prevLen >= minMatchLength && length <= prevLen {
			// The match starting at pos-1 is at least as good as anything
			// starting here.
			emit(matchToken(prevLen, prevDist), prevLen)
			end := pos - 1 + prevLen
			for p := pos + 1; p < end; p++ {
				m.insert(p)
			}
			pos = end
			prevLen, prevDist = 0, 0
			pending = false
			continue
		}

		if pending {
			emit(literalToken(data[pos-1]), 1)
		}
		pending = true
		prevLen, prevDist = length, dist
		pos++
	}
	if pending {
		emit(literalToken(data[n-1]), 1)
	}
}
