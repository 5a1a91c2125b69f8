// Command glowsim previews the breathing animation in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/glowstrip/internal/app"
	"github.com/coreman2200/glowstrip/internal/config"
	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml")
		target     = flag.String("target", "", "board target: dark_duchess | wokwi")
		easing     = flag.String("easing", "", "wave | stepped")
		cycle      = flag.String("cycle", "", "recycle | persist")
		chance     = flag.Int("chance", -1, "start chance per free slot per tick (percent)")
		fps        = flag.Int("fps", 0, "frames per second (0 keeps config)")
		seed       = flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
		logPath    = flag.String("log", "", "write debug log to this file")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = c
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *easing != "" {
		cfg.Fade.Easing = *easing
	}
	if *cycle != "" {
		cfg.Fade.Cycle = *cycle
	}
	if *chance >= 0 {
		cfg.Fade.Chance = *chance
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	board, _ := cfg.ResolveBoard()
	fcfg, _ := cfg.FadeConfig()

	elog := zerolog.Nop()
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open log")
		}
		defer f.Close()
		elog = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}

	opts := []fade.Option{fade.WithLogger(elog)}
	if *seed != 0 {
		opts = append(opts, fade.WithRand(fade.NewRand(*seed)))
	}
	eng, err := fade.New(fcfg, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("terminal")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("terminal init")
	}
	defer screen.Fini()

	r := &app.Runner{
		Engine: eng,
		Strips: []*led.Strip{led.NewStrip(termStrip{screen}, board.Pixels, led.RGB, cfg.Brightness)},
		FPS:    cfg.FPS,
		Log:    elog,
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()
	paused := false
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return
				}
				if ev.Key() == tcell.KeyRune {
					switch ev.Rune() {
					case ' ':
						paused = !paused
					case 'r':
						eng.Reset()
					}
				}
			case *tcell.EventResize:
				screen.Clear()
				screen.Sync()
			}
		case <-ticker.C:
			if paused {
				continue
			}
			_ = r.Step()
			c := eng.Config()
			drawStatus(screen, fmt.Sprintf("%s %d px  %s/%s  tick %d  active %d/%d  [space] pause  [r] reset  [q] quit",
				cfg.Target, board.Pixels, c.Easing, c.Cycle, eng.Ticks(), eng.Active(), eng.Cap()))
			screen.Show()
		}
	}
}
