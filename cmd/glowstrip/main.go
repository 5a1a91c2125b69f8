package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/glowstrip/internal/app"
	"github.com/coreman2200/glowstrip/internal/config"
	diag "github.com/coreman2200/glowstrip/internal/diagnostics"
	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
	"github.com/coreman2200/glowstrip/internal/selftest"
	"github.com/coreman2200/glowstrip/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides them where set) ----
	var (
		target     = flag.String("target", "wokwi", "board target: dark_duchess | wokwi | custom")
		pixels     = flag.Int("pixels", 0, "pixel count override")
		colorOrder = flag.String("color", "", "LED color order override (e.g. GRB, RGB)")
		driver     = flag.String("driver", "sim", "driver: nrz | console | sim")
		spiPort    = flag.String("spi", "", "SPI port for nrz (empty picks the first)")
		freqKHz    = flag.Int("freq-khz", 800, "NRZ line rate (kHz)")
		fps        = flag.Int("fps", 160, "ticks per second")
		brightness = flag.Int("brightness", int(led.DefaultBrightness), "global brightness 0..255")
		easing     = flag.String("easing", "wave", "fade easing: wave | stepped")
		cycle      = flag.String("cycle", "recycle", "fade cycle: recycle | persist")
		addr       = flag.String("addr", "", "HTTP preview listen address (empty disables)")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		selfTest   = flag.String("selftest", "", "run a wiring check first: index_sweep | rgb_channels")
		seed       = flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		budgetMA   = flag.Int("budget-ma", 0, "strip current budget in mA (0 uncapped)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective config: flags first, then config.yaml ----
	cfg := config.Default()
	cfg.Target = *target
	cfg.Board.Pixels = *pixels
	cfg.Board.ColorOrder = *colorOrder
	cfg.Driver = *driver
	cfg.SPI = config.SPI{Port: *spiPort, FreqKHz: *freqKHz}
	cfg.FPS = *fps
	level, err := config.ByteLevel("brightness", *brightness)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flag")
	}
	cfg.Brightness = level
	cfg.Fade.Easing = *easing
	cfg.Fade.Cycle = *cycle
	cfg.Addr = *addr
	cfg.Power.BudgetMA = *budgetMA

	if c, err := config.Overlay(*configPath, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config rejected")
		}
		log.Warn().Str("path", *configPath).Msg("no config file; proceeding with flags")
	} else {
		cfg = c
	}
	// what /control persists; runtime driver fallbacks stay out of it
	saved := *cfg
	if *simOnly {
		cfg.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	board, _ := cfg.ResolveBoard()
	order, _ := board.Order()
	correction, _ := board.ColorCorrection()
	fcfg, _ := cfg.FadeConfig()

	opts := []fade.Option{fade.WithLogger(log.Logger.With().Str("component", "fade").Logger())}
	if *seed != 0 {
		opts = append(opts, fade.WithRand(fade.NewRand(*seed)))
	}
	eng, err := fade.New(fcfg, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	// ---- Preview hub ----
	var hub *ws.Hub
	if cfg.Addr != "" {
		hub = ws.NewHub(board.Pixels, cfg.FPS, log.Logger.With().Str("component", "ws").Logger())
	}
	pushDiag := func(d diag.Diagnostic) {
		if hub != nil {
			hub.PushDiag(d)
		}
	}

	// ---- Driver selection ----
	var drv led.Driver
	switch cfg.Driver {
	case "nrz":
		freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
		n, err := led.OpenNRZ(cfg.SPI.Port, board.Pixels, freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "nrz").
				Str("port", cfg.SPI.Port).
				Int("freq_khz", cfg.SPI.FreqKHz).
				Msg("NRZ init failed; falling back to SIM")
			pushDiag(diag.New(diag.Warn, diag.DriverFallback, "NRZ init failed; using simulator").
				With("port", cfg.SPI.Port).With("err", err.Error()))
			drv = led.NewSim(log.Logger)
			cfg.Driver = "sim"
		} else {
			log.Info().Str("dev", n.String()).Msg("NRZ strip ready")
			drv = n
			order = led.NRZInput(order)
		}
	case "console":
		drv = led.NewConsole(board.Pixels)
		order = led.RGB
	default:
		drv = led.NewSim(log.Logger)
	}

	strips := []*led.Strip{led.NewStrip(drv, board.Pixels, order, cfg.Brightness)}
	if cfg.Driver != "console" {
		// the LEDs need correcting, a terminal does not
		strips[0].SetCorrection(correction)
	}
	if hub != nil {
		// the browser preview always wants plain RGB
		strips = append(strips, led.NewStrip(hub, board.Pixels, led.RGB, cfg.Brightness))
	}
	for _, s := range strips {
		s.SetPowerBudget(cfg.Power.BudgetMA)
	}

	r := &app.Runner{
		Engine: eng,
		Strips: strips,
		FPS:    cfg.FPS,
		Log:    log.Logger,
		Diag:   pushDiag,
	}
	if hub != nil {
		r.OnTick = func(e *fade.Engine) { hub.SetActive(e.Active()) }
		store := config.NewStore(*configPath, &saved)
		hub.OnControl = func(c app.Control) error {
			if err := r.Apply(c); err != nil {
				return err
			}
			return store.Update(func(next *config.Config) {
				if c.Brightness != nil {
					next.Brightness = uint8(*c.Brightness)
				}
				if c.FPS != nil {
					next.FPS = *c.FPS
				}
			})
		}
	}
	if *selfTest != "" {
		kind, err := selftest.ParseKind(*selfTest)
		if err != nil {
			log.Fatal().Err(err).Msg("self-test")
		}
		r.SelfTest = selftest.NewRunner(kind)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- HTTP routes ----
	var srv *http.Server
	if hub != nil {
		mux := http.NewServeMux()
		hub.Routes(mux)
		srv = &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	log.Info().
		Str("target", cfg.Target).
		Int("pixels", board.Pixels).
		Str("order", board.ColorOrder).
		Str("easing", fcfg.Easing.String()).
		Str("cycle", fcfg.Cycle.String()).
		Msg("glowstrip up")
	pushDiag(diag.New(diag.Info, diag.AnimationStart, "Animation started").With("target", cfg.Target))

	_ = r.Run(ctx)
	log.Info().Msg("shutting down")

	if srv != nil {
		_ = srv.Close()
		_ = hub.Close()
	}
	// leave the strip dark
	_ = drv.Write(make([]byte, board.Pixels*3))
	_ = drv.Close()
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
