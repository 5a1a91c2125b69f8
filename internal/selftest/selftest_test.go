package selftest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/glowstrip/internal/strip"
)

func TestIndexSweepWalksStrip(t *testing.T) {
	buf := strip.NewBuffer(4, strip.HSV{H: 9, S: 9, V: 9})
	r := NewRunner(IndexSweep)
	for i := 0; i < 4; i++ {
		assert.True(t, r.Step(buf))
		for j, px := range buf {
			if j == i {
				assert.Equal(t, uint8(255), px.V)
			} else {
				assert.Equal(t, strip.HSV{}, px)
			}
		}
	}
	assert.False(t, r.Step(buf))
}

func TestRGBChannelsThreeFrames(t *testing.T) {
	buf := strip.NewBuffer(2, strip.HSV{})
	r := NewRunner(RGBTest)
	var hues []uint8
	for r.Step(buf) {
		hues = append(hues, buf[1].H)
	}
	assert.Equal(t, []uint8{0, 85, 171}, hues)
}

func TestUnknownKindIsDone(t *testing.T) {
	assert.False(t, NewRunner("plane_z").Step(strip.NewBuffer(1, strip.HSV{})))
	assert.False(t, NewRunner(None).Step(strip.NewBuffer(1, strip.HSV{})))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("index_sweep")
	assert.NoError(t, err)
	assert.Equal(t, IndexSweep, k)
	_, err = ParseKind("plane_z")
	assert.Error(t, err)
}
