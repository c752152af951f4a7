package deflate

// Progress is the outcome of one resumable decoding step.
type Progress uint8

const (
	// NeedMoreInput means the step ran out of bits; all state decoded so
	// far is kept and the step can be retried after more input arrives.
	NeedMoreInput Progress = iota

	// Done means the step completed.
	Done

	// Failed means the input violates the format. The accompanying error
	// is permanent.
	Failed
)

// String returns the name of the progress value.
func (p Progress) String() string {
	switch p {
	case NeedMoreInput:
		return "need more input"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// headerState enumerates the phases of a dynamic block header.
type headerState uint8

const (
	headerCounts      headerState = iota // HLIT, HDIST and HCLEN
	headerMetaLengths                    // 3-bit code-length code lengths
	headerCodeLengths                    // literal/length and distance code lengths
	headerRepeat                         // extra bits of a pending repeat symbol
	headerDone
)

// headerDecoder parses the code-length section of a dynamic Huffman block
// as an explicit state machine. Every field needed to resume lives here, so
// TryAdvance can stop at any bit boundary and continue on the next call.
type headerDecoder struct {
	state headerState

	numLit  int
	numDist int
	numMeta int

	index     int // next meta length or code length to fill
	repeatSym int // 16, 17 or 18 while in headerRepeat

	metaLengths [numMetaCodes]int
	lengths     [maxNumLit + maxNumDist]int

	meta huffmanDecoder
	lit  huffmanDecoder
	dist huffmanDecoder
}

// reset prepares h to parse a new header.
func (h *headerDecoder) reset() {
	h.state = headerCounts
	h.numLit, h.numDist, h.numMeta = 0, 0, 0
	h.index, h.repeatSym = 0, 0
	clear(h.metaLengths[:])
	clear(h.lengths[:])
}

// TryAdvance consumes as much of the header as br holds. It returns Done
// once lit and dist are built, NeedMoreInput when br is exhausted, or
// Failed with a *CorruptInputError.
func (h *headerDecoder) TryAdvance(br *bitReader) (Progress, error) {
	for {
		switch h.state {
		case headerCounts:
			v, ok := br.readBits(5 + 5 + 4)
			if !ok {
				return NeedMoreInput, nil
			}
			h.numLit = int(v&0x1F) + 257
			h.numDist = int(v>>5&0x1F) + 1
			h.numMeta = int(v>>10&0xF) + 4
			if h.numLit > maxNumLit {
				return Failed, h.corrupt(br, "too many literal/length codes")
			}
			if h.numDist > maxNumDist {
				return Failed, h.corrupt(br, "too many distance codes")
			}
			h.index = 0
			h.state = headerMetaLengths

		case headerMetaLengths:
			for h.index < h.numMeta {
				v, ok := br.readBits(3)
				if !ok {
					return NeedMoreInput, nil
				}
				h.metaLengths[metaCodeOrder[h.index]] = int(v)
				h.index++
			}
			if !h.meta.init(h.metaLengths[:]) {
				return Failed, h.corrupt(br, "invalid code-length code")
			}
			h.index = 0
			h.state = headerCodeLengths

		case headerCodeLengths:
			total := h.numLit + h.numDist
			for h.index < total && h.state == headerCodeLengths {
				sym, ok, err := br.decodeSymbol(&h.meta)
				if err != nil {
					return Failed, err
				}
				if !ok {
					return NeedMoreInput, nil
				}
				if sym < 16 {
					h.lengths[h.index] = sym
					h.index++
					continue
				}
				if sym == 16 && h.index == 0 {
					return Failed, h.corrupt(br, "repeat with no previous length")
				}
				h.repeatSym = sym
				h.state = headerRepeat
			}
			if h.state == headerCodeLengths {
				if err := h.build(br); err != nil {
					return Failed, err
				}
				h.state = headerDone
			}

		case headerRepeat:
			var rep int
			var nb uint
			var val int
			switch h.repeatSym {
			case 16:
				rep, nb, val = 3, 2, h.lengths[h.index-1]
			case 17:
				rep, nb = 3, 3
			default:
				rep, nb = 11, 7
			}
			v, ok := br.readBits(nb)
			if !ok {
				return NeedMoreInput, nil
			}
			rep += int(v)
			if h.index+rep > h.numLit+h.numDist {
				return Failed, h.corrupt(br, "code length repeat overruns header")
			}
			for range rep {
				h.lengths[h.index] = val
				h.index++
			}
			h.state = headerCodeLengths

		case headerDone:
			return Done, nil
		}
	}
}

// build constructs the literal/length and distance decoders.
func (h *headerDecoder) build(br *bitReader) error {
	if h.lengths[endBlockMarker] == 0 {
		return h.corrupt(br, "missing end-of-block code")
	}
	if !h.lit.init(h.lengths[:h.numLit]) {
		return h.corrupt(br, "invalid literal/length code")
	}
	if !h.dist.init(h.lengths[h.numLit : h.numLit+h.numDist]) {
		return h.corrupt(br, "invalid distance code")
	}
	return nil
}

func (h *headerDecoder) corrupt(br *bitReader, reason string) error {
	return &CorruptInputError{Offset: br.offset(), Reason: reason}
}
