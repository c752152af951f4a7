package deflate

import (
	"fmt"
	"slices"
)

type decoderState uint8

const (
	stateBlockHeader decoderState = iota
	stateStoredHeader
	stateStoredCopy
	stateDynamicHeader
	stateHuffman
	stateDone
)

// Decoder decompresses a raw DEFLATE stream supplied through Write in
// chunks of any size. Decoded bytes accumulate and are returned by Bytes.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	br        bitReader
	out       []byte
	maxOutput int

	state  decoderState
	final  bool
	stored int // bytes left in the current stored block

	hdr  headerDecoder
	lit  *huffmanDecoder
	dist *huffmanDecoder

	err error
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxOutput limits the decompressed size. Zero disables the limit.
func WithMaxOutput(limit int) DecoderOption {
	return func(d *Decoder) {
		d.maxOutput = limit
	}
}

// WithSizeHint preallocates room for n bytes of output.
func WithSizeHint(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.out = make([]byte, 0, n)
		}
	}
}

// NewDecoder returns a Decoder positioned at the start of a stream.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decompress decodes a complete raw DEFLATE stream. maxOutput bounds the
// result; zero means no bound. Bytes after the final block are ignored.
func Decompress(data []byte, maxOutput int) ([]byte, error) {
	hint := min(len(data)*4, 1<<20)
	if maxOutput > 0 {
		hint = min(hint, maxOutput)
	}
	d := NewDecoder(WithMaxOutput(maxOutput), WithSizeHint(hint))
	if _, err := d.Write(data); err != nil {
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return d.Bytes(), nil
}

// Write feeds p to the decoder and decodes as far as the buffered input
// allows. All of p is always accepted. Format errors are sticky.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.state == stateDone {
		return len(p), nil
	}
	d.br.feed(p)
	if err := d.run(); err != nil {
		d.err = err
		return len(p), err
	}
	return len(p), nil
}

// Done reports whether the final block has been decoded.
func (d *Decoder) Done() bool {
	return d.state == stateDone
}

// Bytes returns the output decoded so far. The slice aliases the decoder's
// buffer and is only valid until the next Write.
func (d *Decoder) Bytes() []byte {
	return d.out
}

// Close reports whether the stream ended cleanly. It returns ErrTruncated
// if the final block is incomplete.
func (d *Decoder) Close() error {
	if d.err != nil {
		return d.err
	}
	if d.state != stateDone {
		return fmt.Errorf("%w: input ended at offset %d", ErrTruncated, d.br.offset())
	}
	return nil
}

// run advances the state machine until input runs out, the stream ends or
// an error occurs.
func (d *Decoder) run() error {
	for {
		switch d.state {
		case stateBlockHeader:
			v, ok := d.br.readBits(3)
			if !ok {
				return nil
			}
			d.final = v&1 == 1
			switch v >> 1 {
			case blockStored:
				d.state = stateStoredHeader
			case blockFixed:
				d.lit, d.dist = fixedDecoders()
				d.state = stateHuffman
			case blockDynamic:
				d.hdr.reset()
				d.state = stateDynamicHeader
			default:
				return d.corrupt("reserved block type")
			}

		case stateStoredHeader:
			d.br.alignToByte()
			v, ok := d.br.readBits(32)
			if !ok {
				return nil
			}
			n := uint16(v)
			if uint16(v>>16) != ^n {
				return d.corrupt("stored block length check failed")
			}
			if err := d.checkOutput(int(n)); err != nil {
				return err
			}
			d.stored = int(n)
			d.state = stateStoredCopy

		case stateStoredCopy:
			if d.stored > 0 {
				want := min(d.stored, d.br.available())
				start := len(d.out)
				d.out = slices.Grow(d.out, want)[:start+want]
				d.stored -= d.br.copyBytes(d.out[start:])
				if d.stored > 0 {
					return nil
				}
			}
			d.endBlock()

		case stateDynamicHeader:
			p, err := d.hdr.TryAdvance(&d.br)
			switch p {
			case NeedMoreInput:
				return nil
			case Failed:
				return err
			}
			d.lit, d.dist = &d.hdr.lit, &d.hdr.dist
			d.state = stateHuffman

		case stateHuffman:
			done, err := d.huffmanBlock()
			if err != nil {
				return err
			}
			if !done {
				return nil
			}
			d.endBlock()

		case stateDone:
			return nil
		}
	}
}

func (d *Decoder) endBlock() {
	if d.final {
		d.state = stateDone
		return
	}
	d.state = stateBlockHeader
}

// huffmanBlock decodes symbols until the end-of-block marker (true) or
// until input runs out (false). A literal or a complete length/distance
// pair is the unit of progress: running out of bits in the middle of a
// pair rewinds to its first bit.
func (d *Decoder) huffmanBlock() (bool, error) {
	br := &d.br
	for {
		start := br.save()
		sym, ok, err := br.decodeSymbol(d.lit)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		switch {
		case sym < endBlockMarker:
			if err := d.checkOutput(1); err != nil {
				return false, err
			}
			d.out = append(d.out, byte(sym))
			continue
		case sym == endBlockMarker:
			return true, nil
		case sym >= maxNumLit:
			return false, d.corrupt("invalid literal/length symbol")
		}

		code := sym - 257
		length := lengthBase[code]
		if n := lengthExtra[code]; n > 0 {
			v, ok := br.readBits(n)
			if !ok {
				br.restore(start)
				return false, nil
			}
			length += int(v)
		}

		dsym, ok, err := br.decodeSymbol(d.dist)
		if err != nil {
			return false, err
		}
		if !ok {
			br.restore(start)
			return false, nil
		}
		if dsym >= maxNumDist {
			return false, d.corrupt("invalid distance symbol")
		}
		dist := distBase[dsym]
		if n := distExtra[dsym]; n > 0 {
			v, ok := br.readBits(n)
			if !ok {
				br.restore(start)
				return false, nil
			}
			dist += int(v)
		}

		if dist > len(d.out) {
			return false, d.corrupt("distance too far back")
		}
		if err := d.checkOutput(length); err != nil {
			return false, err
		}
		// Copy in runs of at most dist bytes so overlapping matches repeat
		// the bytes they have just produced.
		for length > 0 {
			from := len(d.out) - dist
			n := min(length, dist)
			d.out = append(d.out, d.out[from:from+n]...)
			length -= n
		}
	}
}

func (d *Decoder) checkOutput(n int) error {
	if d.maxOutput > 0 && len(d.out)+n > d.maxOutput {
		return fmt.Errorf("%w: more than %d bytes", ErrOutputLimit, d.maxOutput)
	}
	return nil
}

func (d *Decoder) corrupt(reason string) error {
	return &CorruptInputError{Offset: d.br.offset(), Reason: reason}
}
