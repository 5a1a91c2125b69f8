package main

import "github.com/gdamore/tcell/v2"

const cellsPerPixel = 2

// termStrip paints RGB frames onto a tcell screen, wrapping the strip
// across rows. Row 0 is reserved for the status line.
type termStrip struct {
	screen tcell.Screen
}

func (t termStrip) Write(rgb []byte) error {
	w, h := t.screen.Size()
	perRow := w / cellsPerPixel
	if perRow < 1 {
		return nil
	}
	for i := 0; i+2 < len(rgb); i += 3 {
		p := i / 3
		y := 2 + p/perRow
		if y >= h {
			break
		}
		x := (p % perRow) * cellsPerPixel
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(rgb[i]), int32(rgb[i+1]), int32(rgb[i+2])))
		for c := 0; c < cellsPerPixel; c++ {
			t.screen.SetContent(x+c, y, '█', nil, style)
		}
	}
	return nil
}

func (t termStrip) Close() error { return nil }

func drawStatus(screen tcell.Screen, line string) {
	w, _ := screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		screen.SetContent(x, 0, r, nil, style)
	}
}
