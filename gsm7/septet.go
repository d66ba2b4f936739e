package gsm7

import (
	"errors"
	"fmt"
)

// ErrBufferTooSmall indicates that the destination buffer cannot hold the packed septets.
var ErrBufferTooSmall = errors.New("buffer too small")

const septetMask = 0x7F

// PackedLen returns the number of octets needed to pack the given number of septets.
func PackedLen(septets int) int {
	return (septets*7 + 7) / 8
}

// SeptetsIn returns the number of complete septets that fit into the given number of octets.
func SeptetsIn(octets int) int {
	return octets * 8 / 7
}

// Pack the given septets into octets according to [ALPHA] 6.1.2.1.1. Only the low 7 bits of each value are used.
func Pack(septets []byte) []byte {
	result := make([]byte, PackedLen(len(septets)))
	pack(result, septets)
	return result
}

// PackInto packs the given septets into dst and returns the number of octets written.
// Nothing is written if dst is too small to hold all packed septets.
func PackInto(dst []byte, septets []byte) (int, error) {
	n := PackedLen(len(septets))
	if n > len(dst) {
		return 0, fmt.Errorf("%d septets need %d octets, but only %d available: %w", len(septets), n, len(dst), ErrBufferTooSmall)
	}
	clear(dst[:n])
	pack(dst, septets)
	return n, nil
}

// pack shifts each septet into the bits left free by its predecessor, the carry width
// grows by one with every septet and wraps every 8 septets.
func pack(dst []byte, septets []byte) {
	for i, s := range septets {
		s &= septetMask
		bit := i * 7
		index := bit / 8
		shift := uint(bit % 8)

		dst[index] |= s << shift
		if shift > 1 {
			dst[index+1] |= s >> (8 - shift)
		}
	}
}

// Unpack reads at most count septets from the given packed octets. Unpack never reads beyond the end of octets:
// if the octets do not contain all requested septets, the result is shorter than count.
func Unpack(octets []byte, count int) []byte {
	if count <= 0 {
		return []byte{}
	}
	available := SeptetsIn(len(octets))
	if count > available {
		count = available
	}

	result := make([]byte, count)
	for i := range result {
		bit := i * 7
		index := bit / 8
		shift := uint(bit % 8)

		s := octets[index] >> shift
		if shift > 1 {
			s |= octets[index+1] << (8 - shift)
		}
		result[i] = s & septetMask
	}
	return result
}
