package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	diag "github.com/coreman2200/glowstrip/internal/diagnostics"
	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
	"github.com/coreman2200/glowstrip/internal/selftest"
	"github.com/coreman2200/glowstrip/internal/strip"
)

// Runner drives the engine at a fixed frame rate and flushes every strip
// after each tick.
type Runner struct {
	Engine *fade.Engine
	Strips []*led.Strip
	FPS    int
	Log    zerolog.Logger

	// SelfTest, when set, is played to completion before the first tick.
	SelfTest *selftest.Runner

	OnError func(error)
	OnTick  func(*fade.Engine)
	Diag    func(diag.Diagnostic)

	scratch strip.Buffer

	mu      sync.Mutex
	pending []Control
}

func (r *Runner) Run(ctx context.Context) error {
	fps := r.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	r.Log.Info().Int("fps", fps).Int("pixels", r.Engine.Pixels().Len()).Msg("animation starting")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = r.Step()
			if r.FPS > 0 && r.FPS != fps {
				fps = r.FPS
				ticker.Reset(time.Second / time.Duration(fps))
			}
		}
	}
}

// Step renders exactly one frame: a self-test frame while one is pending,
// otherwise one engine tick. It returns the first flush error.
func (r *Runner) Step() error {
	r.drain()
	if r.SelfTest != nil {
		if r.scratch == nil {
			r.scratch = strip.NewBuffer(r.Engine.Pixels().Len(), strip.HSV{})
		}
		if r.SelfTest.Step(r.scratch) {
			return r.flush(r.scratch)
		}
		r.Log.Info().Str("kind", string(r.SelfTest.Kind())).Msg("self-test complete")
		r.emit(diag.New(diag.Info, diag.SelfTestDone, "Self-test complete").With("kind", string(r.SelfTest.Kind())))
		r.SelfTest = nil
		r.scratch = nil
	}

	r.Engine.Tick()
	err := r.flush(r.Engine.Pixels())
	if r.OnTick != nil {
		r.OnTick(r.Engine)
	}
	return err
}

func (r *Runner) flush(buf strip.Buffer) error {
	var first error
	for i, s := range r.Strips {
		if err := s.Show(buf); err != nil {
			r.Log.Warn().Err(err).Int("strip", i).Msg("flush failed")
			r.emit(diag.New(diag.Err, diag.FlushFailed, "Strip write failed").With("strip", i).With("err", err.Error()))
			if r.OnError != nil {
				r.OnError(err)
			}
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (r *Runner) emit(d diag.Diagnostic) {
	if r.Diag != nil {
		r.Diag(d)
	}
}
