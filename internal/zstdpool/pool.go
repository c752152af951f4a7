// Package zstdpool provides reusable zstd decoders and an encoder for
// whole-buffer compression.
package zstdpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is returned when a frame decodes to more than the allowed size.
var ErrTooLarge = errors.New("zstd: decoded size exceeds limit")

// Pool manages reusable zstd decoders to reduce allocation overhead.
// It is safe for concurrent use.
type Pool struct {
	pool             sync.Pool
	maxDecoderMemory uint64
}

// New creates a pool of zstd decoders.
// If maxMemory is 0, no memory limit is applied to decoders.
func New(maxMemory uint64) *Pool {
	p := &Pool{maxDecoderMemory: maxMemory}
	p.pool.New = func() any {
		dec, err := p.newDecoder()
		if err != nil {
			return nil
		}
		return dec
	}
	return p
}

// Decode decompresses the single frame in src. A result longer than
// maxSize bytes yields ErrTooLarge; maxSize <= 0 disables the check.
func (p *Pool) Decode(src []byte, maxSize int) ([]byte, error) {
	dec, release, err := p.get()
	if err != nil {
		return nil, err
	}
	defer release()

	if maxSize > 0 {
		if size, ok := frameContentSize(src); ok && size > uint64(maxSize) {
			return nil, fmt.Errorf("%w: frame declares %d bytes", ErrTooLarge, size)
		}
	}
	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && len(out) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(out))
	}
	return out, nil
}

// get returns a decoder and the function that hands it back.
func (p *Pool) get() (*zstd.Decoder, func(), error) {
	if p == nil {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	dec, ok := p.pool.Get().(*zstd.Decoder)
	if !ok || dec == nil {
		// Pool's New function failed, try directly
		newDec, err := p.newDecoder()
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}
	return dec, func() {
		p.pool.Put(dec)
	}, nil
}

// newDecoder creates a zstd decoder with the configured memory limit.
func (p *Pool) newDecoder() (*zstd.Decoder, error) {
	opts := []zstd.DOption{
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	}
	if p.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
	}
	return zstd.NewReader(nil, opts...)
}

// frameContentSize returns the size a frame header declares, if any.
func frameContentSize(src []byte) (uint64, bool) {
	var h zstd.Header
	if err := h.Decode(src); err != nil || !h.HasFCS {
		return 0, false
	}
	return h.FrameContentSize, true
}

// Encoder compresses whole buffers into single zstd frames.
// It is safe for concurrent use.
type Encoder struct {
	enc *zstd.Encoder
}

// NewEncoder creates an encoder at the given level.
func NewEncoder(level zstd.EncoderLevel) (*Encoder, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(level),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	return &Encoder{enc: enc}, nil
}

// Encode returns src compressed as one frame.
func (e *Encoder) Encode(src []byte) []byte {
	return e.enc.EncodeAll(src, make([]byte, 0, len(src)/2+16))
}

// Close releases the encoder's resources.
func (e *Encoder) Close() error {
	return e.enc.Close()
}

// LevelFromDeflate maps a DEFLATE-style level (1-9) onto a zstd level.
func LevelFromDeflate(level int) zstd.EncoderLevel {
	return zstd.EncoderLevelFromZstd(level)
}
