package strip

// HSV is one pixel in FastLED-style 8-bit HSV: hue 0..255 wraps the colour wheel.
type HSV struct{ H, S, V uint8 }

// Buffer is the ordered pixel array mirrored to hardware each frame.
// It is allocated once and written in place.
type Buffer []HSV

// NewBuffer allocates n pixels, all set to fill.
func NewBuffer(n int, fill HSV) Buffer {
	b := make(Buffer, n)
	b.Fill(fill)
	return b
}

// Fill sets every pixel to c.
func (b Buffer) Fill(c HSV) {
	for i := range b {
		b[i] = c
	}
}

// Set writes c at i. Out-of-range indices are ignored.
func (b Buffer) Set(i int, c HSV) {
	if i < 0 || i >= len(b) {
		return
	}
	b[i] = c
}

func (b Buffer) Len() int { return len(b) }

// Scale8 returns i * (scale+1) / 256, so a scale of 255 leaves i unchanged.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}
