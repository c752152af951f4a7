// Package checksum computes CRC-32 checksums over one or more byte ranges.
package checksum

import "hash/crc32"

// CRC32 returns the IEEE CRC-32 (polynomial 0xEDB88320) of the concatenation
// of ranges. No ranges, or only empty ranges, yields 0.
func CRC32(ranges ...[]byte) uint32 {
	var crc uint32
	for _, r := range ranges {
		crc = crc32.Update(crc, crc32.IEEETable, r)
	}
	return crc
}

// Verify reports whether the CRC-32 of ranges matches expected.
func Verify(expected uint32, ranges ...[]byte) bool {
	return CRC32(ranges...) == expected
}
