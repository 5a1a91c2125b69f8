package fade

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig is wrapped by every configuration error. A misconfigured
// engine refuses to start; there are no runtime errors.
var ErrConfig = errors.New("invalid fade config")

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Easing selects how brightness advances over time.
type Easing uint8

const (
	// EasingWave samples Wave with a counter: one smooth dim-then-brighten
	// pulse per activation.
	EasingWave Easing = iota
	// EasingStepped walks StepTable widths with look-ahead deceleration.
	EasingStepped
)

func (e Easing) String() string {
	switch e {
	case EasingWave:
		return "wave"
	case EasingStepped:
		return "stepped"
	default:
		return fmt.Sprintf("easing(%d)", uint8(e))
	}
}

// ParseEasing accepts "wave" or "stepped".
func ParseEasing(s string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wave", "":
		return EasingWave, nil
	case "stepped", "step", "steps":
		return EasingStepped, nil
	}
	return 0, configErr("unknown easing %q", s)
}

// Cycle decides what a stepped fade does when it is back at full brightness.
type Cycle uint8

const (
	// CycleRecycle frees the slot after one dim/brighten cycle.
	CycleRecycle Cycle = iota
	// CyclePersist flips back to dimming and never frees the slot.
	CyclePersist
)

func (c Cycle) String() string {
	switch c {
	case CycleRecycle:
		return "recycle"
	case CyclePersist:
		return "persist"
	default:
		return fmt.Sprintf("cycle(%d)", uint8(c))
	}
}

// ParseCycle accepts "recycle" or "persist".
func ParseCycle(s string) (Cycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recycle", "":
		return CycleRecycle, nil
	case "persist", "loop":
		return CyclePersist, nil
	}
	return 0, configErr("unknown cycle %q", s)
}

// Config is everything the engine needs, fixed for its lifetime.
type Config struct {
	Pixels int // strip length N
	Slots  int // fade slot pool capacity, 1..Pixels

	Hue        uint8
	Saturation uint8

	FadeMin uint8
	FadeMax uint8

	Steps     StepTable
	Lookahead int // overshoot look-ahead multiplier K

	// Chance is the percentage (0..100) that a free slot tries to start a
	// fade on a given tick.
	Chance int

	Easing Easing
	Cycle  Cycle
}

// DefaultConfig is the stock breathing strip: hue 240, a magenta-red on the
// 8-bit wheel, one slot per pixel, wave easing.
func DefaultConfig(pixels int) Config {
	return Config{
		Pixels:     pixels,
		Slots:      pixels,
		Hue:        240,
		Saturation: 255,
		FadeMin:    150,
		FadeMax:    255,
		Steps:      DefaultSteps,
		Lookahead:  5,
		Chance:     1,
		Easing:     EasingWave,
		Cycle:      CycleRecycle,
	}
}

// Validate reports the first configuration error, wrapped around ErrConfig.
func (c Config) Validate() error {
	if c.Pixels <= 0 {
		return configErr("pixel count must be positive, got %d", c.Pixels)
	}
	if c.Slots <= 0 {
		return configErr("slot capacity must be positive, got %d", c.Slots)
	}
	if c.Slots > c.Pixels {
		return configErr("slot capacity %d exceeds pixel count %d", c.Slots, c.Pixels)
	}
	if c.FadeMin >= c.FadeMax {
		return configErr("fade min %d must be below fade max %d", c.FadeMin, c.FadeMax)
	}
	if c.Chance < 0 || c.Chance > 100 {
		return configErr("new-fade chance %d outside 0..100", c.Chance)
	}
	switch c.Easing {
	case EasingWave:
		if c.Cycle == CyclePersist {
			return configErr("wave easing always frees its slot; persist needs stepped easing")
		}
	case EasingStepped:
		if err := c.Steps.validate(); err != nil {
			return err
		}
		if c.Lookahead < 1 {
			return configErr("lookahead must be at least 1, got %d", c.Lookahead)
		}
	default:
		return configErr("unknown easing %d", uint8(c.Easing))
	}
	if c.Cycle != CycleRecycle && c.Cycle != CyclePersist {
		return configErr("unknown cycle %d", uint8(c.Cycle))
	}
	return nil
}
