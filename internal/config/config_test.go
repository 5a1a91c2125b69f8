package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/glowstrip/internal/fade"
	"github.com/coreman2200/glowstrip/internal/led"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	fc, err := c.FadeConfig()
	require.NoError(t, err)
	assert.Equal(t, 18, fc.Pixels)
	assert.Equal(t, 18, fc.Slots)
	assert.Equal(t, fade.EasingWave, fc.Easing)
	assert.Equal(t, fade.DefaultSteps, fc.Steps)

	b, err := c.ResolveBoard()
	require.NoError(t, err)
	o, err := b.Order()
	require.NoError(t, err)
	assert.Equal(t, led.BGR, o)
	assert.Equal(t, 9, b.DataPin)
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
target: dark_duchess
driver: nrz
fps: 60
fade:
  easing: stepped
  cycle: persist
  slots: 1
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "nrz", c.Driver)
	assert.Equal(t, 60, c.FPS)

	fc, err := c.FadeConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, fc.Pixels)
	assert.Equal(t, 1, fc.Slots)
	assert.Equal(t, fade.EasingStepped, fc.Easing)
	assert.Equal(t, fade.CyclePersist, fc.Cycle)
	assert.Equal(t, uint8(150), fc.FadeMin)
}

func TestCustomTargetNeedsBoard(t *testing.T) {
	c := Default()
	c.Target = "custom"
	assert.ErrorIs(t, c.Validate(), fade.ErrConfig)

	c.Board = Board{Pixels: 30, ColorOrder: "rgb"}
	require.NoError(t, c.Validate())
	b, err := c.ResolveBoard()
	require.NoError(t, err)
	assert.Equal(t, 30, b.Pixels)
}

func TestLoadRejectsMisconfiguration(t *testing.T) {
	cases := map[string]string{
		"unknown target": "target: esp8266\n",
		"bad driver":     "driver: opc\n",
		"zero fps":       "fps: 0\n",
		"bad order":      "board: {color_order: RGX}\n",
		"empty steps":    "fade: {easing: stepped, steps: []}\n",
		"wave persist":   "fade: {cycle: persist}\n",
		"slots too many": "fade: {slots: 19}\n",
		"bad easing":     "fade: {easing: bounce}\n",
		"negative power": "power: {budget_ma: -5}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.ErrorIs(t, err, fade.ErrConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Fade.Hue = 96
	require.NoError(t, Save(p, c))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestOverlayKeepsBaseValues(t *testing.T) {
	base := Default()
	base.Driver = "nrz"
	base.FPS = 60
	p := writeFile(t, "fps: 90\nfade:\n  cycle: persist\n  easing: stepped\n")

	c, err := Overlay(p, base)
	require.NoError(t, err)
	assert.Equal(t, "nrz", c.Driver)
	assert.Equal(t, 90, c.FPS)
	assert.Equal(t, "persist", c.Fade.Cycle)
	assert.Equal(t, []uint8{1, 2, 3, 5, 8, 13}, c.Fade.Steps)
}

func TestStoreUpdateSaves(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	st := NewStore(p, Default())

	require.NoError(t, st.Update(func(c *Config) { c.Brightness = 90; c.FPS = 60 }))
	assert.Equal(t, uint8(90), st.Config().Brightness)

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, uint8(90), got.Brightness)
	assert.Equal(t, 60, got.FPS)
}

func TestStoreUpdateRejectsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	st := NewStore(p, Default())

	err := st.Update(func(c *Config) { c.FPS = 0 })
	assert.ErrorIs(t, err, fade.ErrConfig)
	assert.Equal(t, 160, st.Config().FPS)
	_, err = os.Stat(p)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBoardCorrectionOverride(t *testing.T) {
	c, err := Load(writeFile(t, "board: {correction: [255, 200, 220]}\n"))
	require.NoError(t, err)
	b, err := c.ResolveBoard()
	require.NoError(t, err)
	corr, err := b.ColorCorrection()
	require.NoError(t, err)
	assert.Equal(t, led.Correction{255, 200, 220}, corr)

	_, err = Load(writeFile(t, "board: {correction: [255]}\n"))
	assert.ErrorIs(t, err, fade.ErrConfig)
}

func TestByteLevelRejectsOverflow(t *testing.T) {
	v, err := ByteLevel("brightness", 255)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)

	for _, bad := range []int{-1, 256, 300} {
		_, err := ByteLevel("brightness", bad)
		assert.ErrorIs(t, err, fade.ErrConfig, bad)
	}
}
