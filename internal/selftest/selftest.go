package selftest

import (
	"fmt"

	"github.com/coreman2200/glowstrip/internal/strip"
)

// Kind names a wiring check pattern.
type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case IndexSweep, RGBTest:
		return k, nil
	}
	return None, fmt.Errorf("unknown self-test %q", s)
}

// Runner steps one pattern frame at a time.
type Runner struct {
	kind Kind
	step int
}

func NewRunner(kind Kind) *Runner { return &Runner{kind: kind} }

func (r *Runner) Kind() Kind { return r.kind }

// Step fills buf with the next frame; returns false when complete.
func (r *Runner) Step(buf strip.Buffer) bool {
	off := strip.HSV{}
	switch r.kind {
	case IndexSweep:
		if r.step >= len(buf) {
			return false
		}
		buf.Fill(off)
		buf[r.step] = strip.HSV{V: 255} // white
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		// red, green, blue on the 8-bit hue wheel
		hues := [3]uint8{0, 85, 171}
		buf.Fill(strip.HSV{H: hues[r.step], S: 255, V: 255})
	default:
		return false
	}
	r.step++
	return true
}
