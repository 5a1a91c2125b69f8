package fade

func (e *Engine) advance(s *Slot) {
	switch e.cfg.Easing {
	case EasingStepped:
		e.advanceStepped(s)
	default:
		e.advanceWave(s)
	}
}

func (e *Engine) advanceWave(s *Slot) {
	s.Brightness = Map8(255-Wave[s.Phase], e.cfg.FadeMin, e.cfg.FadeMax)
	e.pixels.Set(s.pixel, e.color(s.Brightness))
	s.Phase++
	if s.Phase == 255 {
		e.finish(s)
	}
}

func (e *Engine) advanceStepped(s *Slot) {
	lo, hi := int(e.cfg.FadeMin), int(e.cfg.FadeMax)
	b := int(s.Brightness)
	last := e.cfg.Steps.Last()
	if s.Step > last {
		s.Step = last
	}
	if s.Step < 0 {
		s.Step = 0
	}
	for s.Step > 0 && e.overshoots(s, b, lo, hi) {
		s.Step--
	}
	w := e.cfg.Steps.Width(s.Step)

	switch s.Dir {
	case Dimming:
		if b-w <= lo {
			s.Brightness = e.cfg.FadeMin
			s.Step = 0
			s.Dir = Brightening
			e.pixels.Set(s.pixel, e.color(s.Brightness))
			return
		}
		s.Brightness = uint8(b - w)
	default:
		if b+w >= hi {
			s.Brightness = e.cfg.FadeMax
			s.Step = 0
			e.pixels.Set(s.pixel, e.color(s.Brightness))
			if e.cfg.Cycle == CyclePersist {
				s.Dir = Dimming
				return
			}
			e.finish(s)
			return
		}
		s.Brightness = uint8(b + w)
	}
	e.pixels.Set(s.pixel, e.color(s.Brightness))
	if s.Step < last {
		s.Step++
	}
}

// overshoots projects Lookahead steps of the current width past the
// boundary the slot is heading for.
func (e *Engine) overshoots(s *Slot, b, lo, hi int) bool {
	reach := e.cfg.Steps.Width(s.Step) * e.cfg.Lookahead
	if s.Dir == Dimming {
		return b-reach < lo
	}
	return b+reach > hi
}

func (e *Engine) finish(s *Slot) {
	e.log.Debug().Int("pixel", s.pixel).Uint64("tick", e.ticks).Msg("fade finished")
	s.free()
}
