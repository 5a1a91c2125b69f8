//go:build tinygo

package led

import (
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"
)

// WS2812 bit-bangs a strip from a microcontroller pin. Frames arrive
// already in wire order and are sent byte for byte.
type WS2812 struct {
	dev   ws2812.Device
	blank []byte
}

func NewWS2812(pin machine.Pin, count int) *WS2812 {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812{dev: ws2812.New(pin), blank: make([]byte, count*3)}
}

func (w *WS2812) Write(rgb []byte) error {
	state := interrupt.Disable()
	_, err := w.dev.Write(rgb)
	interrupt.Restore(state)
	return err
}

// Close blanks the strip; the pin stays configured.
func (w *WS2812) Close() error {
	return w.Write(w.blank)
}
