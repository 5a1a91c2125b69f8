//go:build tinygo

// Command glowtiny is the microcontroller build of the breathing strip,
// wired like the wokwi target.
package main

import (
	"machine"
	"time"

	"github.com/coreman2200/glowstrip/internal/board"
	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
)

const fps = 160

func main() {
	b := board.Targets["wokwi"]
	order, err := b.Order()
	if err != nil {
		halt(err)
	}
	corr, err := b.ColorCorrection()
	if err != nil {
		halt(err)
	}

	cfg := fade.DefaultConfig(b.Pixels)
	cfg.Easing = fade.EasingStepped

	eng, err := fade.New(cfg, fade.WithRand(fade.NewRand(seed())))
	if err != nil {
		halt(err)
	}
	s := led.NewStrip(led.NewWS2812(machine.Pin(b.DataPin), b.Pixels), b.Pixels, order, led.DefaultBrightness)
	s.SetCorrection(corr)

	ticker := time.NewTicker(time.Second / fps)
	for range ticker.C {
		eng.Tick()
		if err := s.Show(eng.Pixels()); err != nil {
			println("glowtiny: write:", err.Error())
		}
	}
}

func seed() int64 {
	if n, err := machine.GetRNG(); err == nil {
		return int64(n)
	}
	return time.Now().UnixNano()
}

func halt(err error) {
	for {
		println("glowtiny:", err.Error())
		time.Sleep(time.Second)
	}
}
