//go:build !tinygo

package led

import (
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Console prints the strip as a row of coloured cells on the terminal.
type Console struct {
	mu  sync.Mutex
	dev display.Drawer
	img *image.NRGBA
}

func NewConsole(count int) *Console {
	return &Console{
		dev: screen.New(count),
		img: image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

func (c *Console) Write(rgb []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.img.Rect.Dx()
	for x := 0; x < n && x*3+2 < len(rgb); x++ {
		c.img.SetNRGBA(x, 0, color.NRGBA{R: rgb[x*3], G: rgb[x*3+1], B: rgb[x*3+2], A: 255})
	}
	return c.dev.Draw(c.dev.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev.Halt()
}
