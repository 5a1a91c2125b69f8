package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/glowstrip/internal/diagnostics"
	"github.com/coreman2200/glowstrip/internal/led"
	"github.com/coreman2200/glowstrip/internal/selftest"
	"github.com/coreman2200/glowstrip/internal/strip"
)

func intp(v int) *int { return &v }

func TestApplyBrightnessReachesEveryStrip(t *testing.T) {
	a, b := led.NewSim(zerolog.Nop()), led.NewSim(zerolog.Nop())
	r := &Runner{
		Engine: newEngine(t, 1),
		Strips: []*led.Strip{led.NewStrip(a, 1, led.RGB, 255), led.NewStrip(b, 1, led.GRB, 255)},
		Log:    zerolog.Nop(),
	}
	// hue 0 at full value so the ambient pixel is pure red
	r.Engine.Pixels().Fill(strip.HSV{S: 255, V: 255})

	require.NoError(t, r.Apply(Control{Brightness: intp(128)}))
	assert.Equal(t, 0, a.Frames(), "nothing applied before the next step")

	require.NoError(t, r.Step())
	assert.Equal(t, byte(128), a.Last()[0])
	assert.Equal(t, byte(128), b.Last()[1])
}

func TestApplyFPSAndRunTest(t *testing.T) {
	var got []diag.Diagnostic
	r := &Runner{
		Engine: newEngine(t, 3),
		Strips: []*led.Strip{led.NewStrip(led.NewSim(zerolog.Nop()), 3, led.RGB, 255)},
		FPS:    160,
		Log:    zerolog.Nop(),
		Diag:   func(d diag.Diagnostic) { got = append(got, d) },
	}
	require.NoError(t, r.Apply(Control{FPS: intp(30), RunTest: string(selftest.IndexSweep)}))
	require.NoError(t, r.Step())

	assert.Equal(t, 30, r.FPS)
	require.NotNil(t, r.SelfTest)
	assert.Equal(t, selftest.IndexSweep, r.SelfTest.Kind())
	assert.Equal(t, uint64(0), r.Engine.Ticks(), "self-test frame replaces the tick")
	require.Len(t, got, 1)
	assert.Equal(t, diag.SelfTestRunning, got[0].Code)
}

func TestApplyRejectsBadControl(t *testing.T) {
	r := &Runner{Engine: newEngine(t, 1), Log: zerolog.Nop()}
	cases := map[string]Control{
		"brightness high": {Brightness: intp(300)},
		"brightness low":  {Brightness: intp(-1)},
		"zero fps":        {FPS: intp(0)},
		"unknown test":    {RunTest: "plane_z"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, r.Apply(c))
		})
	}
	assert.Empty(t, r.pending)
}
