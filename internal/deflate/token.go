package deflate

import "math/bits"

// token is a literal byte or a (length, distance) back-reference.
//
// Matches set matchFlag and pack length-3 into bits 16-23 and distance-1
// into bits 0-15.
type token uint32

const matchFlag token = 1 << 31

func literalToken(b byte) token {
	return token(b)
}

func matchToken(length, dist int) token {
	return matchFlag | token(length-minMatchLength)<<16 | token(dist-1)
}

func (t token) isMatch() bool {
	return t&matchFlag != 0
}

func (t token) literal() byte {
	return byte(t)
}

func (t token) length() int {
	return int(t>>16&0xFF) + minMatchLength
}

func (t token) dist() int {
	return int(t&0xFFFF) + 1
}

// lengthCode returns the length code (symbol-257) for a match length.
func lengthCode(length int) int {
	return int(lengthCodes[length-minMatchLength])
}

// distCode returns the distance code for a match distance in [1, 32768].
func distCode(dist int) int {
	d := uint32(dist - 1)
	if d < 4 {
		return int(d)
	}
	nb := bits.Len32(d) - 1
	return 2*nb + int(d>>(nb-1)&1)
}
