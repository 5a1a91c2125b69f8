package app

import (
	"fmt"

	diag "github.com/coreman2200/glowstrip/internal/diagnostics"
	"github.com/coreman2200/glowstrip/internal/selftest"
)

// Control is a runtime settings change sent by a preview client. Nil or
// empty fields are left alone.
type Control struct {
	Brightness *int   `json:"brightness,omitempty"`
	FPS        *int   `json:"fps,omitempty"`
	RunTest    string `json:"runTest,omitempty"`
}

// Validate rejects out-of-range values before anything is queued.
func (c Control) Validate() error {
	if c.Brightness != nil && (*c.Brightness < 0 || *c.Brightness > 255) {
		return fmt.Errorf("brightness %d outside 0..255", *c.Brightness)
	}
	if c.FPS != nil && *c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *c.FPS)
	}
	if c.RunTest != "" {
		if _, err := selftest.ParseKind(c.RunTest); err != nil {
			return err
		}
	}
	return nil
}

// Apply queues c for the next Step. It is safe to call from any goroutine.
func (r *Runner) Apply(c Control) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.pending = append(r.pending, c)
	r.mu.Unlock()
	return nil
}

// drain applies queued controls on the runner goroutine.
func (r *Runner) drain() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, c := range pending {
		if c.Brightness != nil {
			for _, s := range r.Strips {
				s.SetBrightness(uint8(*c.Brightness))
			}
			r.Log.Info().Int("brightness", *c.Brightness).Msg("brightness changed")
		}
		if c.FPS != nil {
			r.FPS = *c.FPS
			r.Log.Info().Int("fps", r.FPS).Msg("frame rate changed")
		}
		if c.RunTest != "" {
			kind, _ := selftest.ParseKind(c.RunTest)
			r.SelfTest = selftest.NewRunner(kind)
			r.scratch = nil
			r.emit(diag.New(diag.Info, diag.SelfTestRunning, "Running self-test").With("kind", c.RunTest))
		}
	}
}
