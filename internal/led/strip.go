package led

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/glowstrip/internal/strip"
)

// DefaultBrightness matches the global cap most strips ship with.
const DefaultBrightness uint8 = 150

// Correction scales each of R, G and B before global brightness to even
// out the LED's native white point.
type Correction [3]uint8

var (
	Uncorrected = Correction{0xFF, 0xFF, 0xFF}
	// TypicalLEDStrip suits 5050 SMD strips such as WS2812B.
	TypicalLEDStrip = Correction{0xFF, 0xB0, 0xF0}
)

// Strip converts the HSV pixel buffer into wire-ordered RGB and flushes it
// to a Driver. The RGB scratch buffer is allocated once.
type Strip struct {
	drv        Driver
	order      Order
	brightness uint8
	correction Correction
	budgetMA   int
	drawMA     int
	rgb        []byte
}

// ChannelMA is the draw of one colour channel at full scale (WS2812).
const ChannelMA = 20

func NewStrip(drv Driver, n int, order Order, brightness uint8) *Strip {
	if order == (Order{}) {
		order = GRB
	}
	return &Strip{
		drv:        drv,
		order:      order,
		brightness: brightness,
		correction: Uncorrected,
		rgb:        make([]byte, n*3),
	}
}

// SetBrightness sets the global brightness applied on every Show.
func (s *Strip) SetBrightness(b uint8) { s.brightness = b }

// SetCorrection sets the per-channel colour correction; strips start
// Uncorrected.
func (s *Strip) SetCorrection(c Correction) { s.correction = c }

// SetPowerBudget caps the estimated strip current; 0 disables the cap.
func (s *Strip) SetPowerBudget(mA int) { s.budgetMA = mA }

// DrawMA is the estimated current of the last frame shown.
func (s *Strip) DrawMA() int { return s.drawMA }

// limit scales the whole frame down when its estimated draw exceeds the
// budget. The estimate is linear in channel value.
func (s *Strip) limit() {
	sum := 0
	for _, v := range s.rgb {
		sum += int(v)
	}
	s.drawMA = sum * ChannelMA / 255
	if s.budgetMA <= 0 || sum*ChannelMA <= s.budgetMA*255 {
		return
	}
	// (scale+1)/256 of the frame stays within budget
	k := 256 * s.budgetMA * 255 / (sum * ChannelMA)
	if k < 1 {
		k = 1
	}
	scale := uint8(k - 1)
	sum = 0
	for i, v := range s.rgb {
		s.rgb[i] = strip.Scale8(v, scale)
		sum += int(s.rgb[i])
	}
	s.drawMA = sum * ChannelMA / 255
}

func (s *Strip) Len() int { return len(s.rgb) / 3 }

// Show renders buf and writes it. Pixels past the strip length are dropped.
func (s *Strip) Show(buf strip.Buffer) error {
	n := s.Len()
	for i := 0; i < n && i < len(buf); i++ {
		r, g, b := ToRGB(buf[i])
		s.order.put(s.rgb[i*3:i*3+3],
			strip.Scale8(strip.Scale8(r, s.correction[0]), s.brightness),
			strip.Scale8(strip.Scale8(g, s.correction[1]), s.brightness),
			strip.Scale8(strip.Scale8(b, s.correction[2]), s.brightness))
	}
	s.limit()
	if s.drv == nil {
		return nil
	}
	return s.drv.Write(s.rgb)
}

// ToRGB converts an 8-bit HSV pixel; hue 0..255 spans the full wheel.
func ToRGB(px strip.HSV) (r, g, b uint8) {
	c := colorful.Hsv(float64(px.H)*360/256, float64(px.S)/255, float64(px.V)/255)
	return c.Clamped().RGB255()
}
