// Package board holds the physical strip descriptions shared by the daemon
// config and the firmware build.
package board

import (
	"fmt"

	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
)

// Board describes the physical strip a target drives.
type Board struct {
	Pixels     int    `yaml:"pixels"`
	DataPin    int    `yaml:"data_pin,omitempty"`
	ColorOrder string `yaml:"color_order,omitempty"`
	// Correction is per-channel R, G, B; empty means led.TypicalLEDStrip.
	Correction []uint8 `yaml:"correction,flow,omitempty"`
}

// Targets are the known deployment boards.
var Targets = map[string]Board{
	"dark_duchess": {Pixels: 100, ColorOrder: "GRB"},
	"wokwi":        {Pixels: 18, DataPin: 9, ColorOrder: "BGR"},
}

// Order parses the colour order.
func (b Board) Order() (led.Order, error) {
	o, err := led.ParseOrder(b.ColorOrder)
	if err != nil {
		return led.Order{}, fmt.Errorf("%w: %v", fade.ErrConfig, err)
	}
	return o, nil
}

// ColorCorrection returns the strip's channel correction.
func (b Board) ColorCorrection() (led.Correction, error) {
	switch len(b.Correction) {
	case 0:
		return led.TypicalLEDStrip, nil
	case 3:
		return led.Correction{b.Correction[0], b.Correction[1], b.Correction[2]}, nil
	}
	return led.Correction{}, fmt.Errorf("%w: correction needs 3 channels, got %d", fade.ErrConfig, len(b.Correction))
}
