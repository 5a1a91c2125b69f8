package fade

import "github.com/coreman2200/glowstrip/internal/strip"

// Wave is a cubic-eased triangle wave over one 8-bit period: Wave[0] is 0,
// Wave[128] is 255 and the curve is symmetric about the middle.
var Wave [256]uint8

func init() {
	for i := range Wave {
		Wave[i] = easeInOutCubic(triwave(uint8(i)))
	}
}

func triwave(in uint8) uint8 {
	if in&0x80 != 0 {
		in = 255 - in
	}
	return in << 1
}

func easeInOutCubic(i uint8) uint8 {
	ii := uint16(strip.Scale8(i, i))
	iii := uint16(strip.Scale8(uint8(ii), i))
	r := 3*ii - 2*iii
	if r&0x100 != 0 {
		return 255
	}
	return uint8(r)
}

// Map8 linearly remaps in from 0..255 onto lo..hi.
func Map8(in, lo, hi uint8) uint8 {
	return lo + strip.Scale8(in, hi-lo)
}
