package fade

import (
	"testing"

	"pgregory.net/rapid"
)

func genConfig(t *rapid.T) Config {
	c := DefaultConfig(rapid.IntRange(1, 40).Draw(t, "pixels"))
	c.Slots = rapid.IntRange(1, c.Pixels).Draw(t, "slots")
	c.FadeMin = uint8(rapid.IntRange(0, 200).Draw(t, "min"))
	c.FadeMax = uint8(rapid.IntRange(int(c.FadeMin)+1, 255).Draw(t, "max"))
	c.Chance = rapid.IntRange(0, 100).Draw(t, "chance")
	c.Lookahead = rapid.IntRange(1, 8).Draw(t, "lookahead")
	c.Easing = rapid.SampledFrom([]Easing{EasingWave, EasingStepped}).Draw(t, "easing")
	if c.Easing == EasingStepped {
		c.Cycle = rapid.SampledFrom([]Cycle{CycleRecycle, CyclePersist}).Draw(t, "cycle")
		c.Steps = rapid.SampledFrom([]StepTable{
			DefaultSteps, {1}, {1, 4, 9, 16}, {2, 3}, {5, 10, 20, 40},
		}).Draw(t, "steps")
	}
	return c
}

func TestEngineInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genConfig(t)
		seed := rapid.Int64().Draw(t, "seed")
		e, err := New(c, WithRand(NewRand(seed)))
		if err != nil {
			t.Fatalf("valid config rejected: %v", err)
		}

		prev := make([]Slot, e.Cap())
		for tick := 0; tick < 600; tick++ {
			for i := range prev {
				prev[i] = e.Slot(i)
			}
			e.Tick()

			owners := map[int]int{}
			for i := 0; i < e.Cap(); i++ {
				s := e.Slot(i)
				px, ok := s.Pixel()
				if !ok {
					continue
				}
				if j, dup := owners[px]; dup {
					t.Fatalf("tick %d: slots %d and %d both own pixel %d", tick, j, i, px)
				}
				owners[px] = i
				if s.Brightness < c.FadeMin || s.Brightness > c.FadeMax {
					t.Fatalf("tick %d: slot %d brightness %d outside [%d,%d]", tick, i, s.Brightness, c.FadeMin, c.FadeMax)
				}
				if c.Easing == EasingStepped && (s.Step < 0 || s.Step > c.Steps.Last()) {
					t.Fatalf("tick %d: slot %d step %d out of table", tick, i, s.Step)
				}

				p := prev[i]
				ppx, pok := p.Pixel()
				if c.Easing != EasingStepped || !pok || ppx != px || p.Dir != s.Dir {
					continue
				}
				if s.Dir == Dimming && s.Brightness > p.Brightness {
					t.Fatalf("tick %d: slot %d brightened while dimming (%d -> %d)", tick, i, p.Brightness, s.Brightness)
				}
				if s.Dir == Brightening && s.Brightness < p.Brightness {
					t.Fatalf("tick %d: slot %d dimmed while brightening (%d -> %d)", tick, i, p.Brightness, s.Brightness)
				}
			}

			for px, hsv := range e.Pixels() {
				if i, ok := owners[px]; ok {
					s := e.Slot(i)
					if prev[i].Active() && hsv.V != s.Brightness {
						t.Fatalf("tick %d: pixel %d shows %d, slot %d holds %d", tick, px, hsv.V, i, s.Brightness)
					}
					continue
				}
				if hsv.V != c.FadeMax {
					t.Fatalf("tick %d: idle pixel %d left at %d", tick, px, hsv.V)
				}
			}
		}
	})
}
