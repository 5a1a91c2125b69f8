package fade

// allocate maybe arms a free slot on a random pixel. A draw that lands on
// a pixel already owned is dropped; the slot tries again next tick.
func (e *Engine) allocate(s *Slot) {
	if e.rnd.Intn(100) >= e.cfg.Chance {
		return
	}
	pixel := e.rnd.Intn(e.cfg.Pixels)
	if e.pool.Owns(pixel) {
		e.log.Trace().Int("pixel", pixel).Msg("pixel already fading; skipping")
		return
	}
	s.arm(pixel, e.cfg.FadeMax)
	e.log.Debug().Int("pixel", pixel).Uint64("tick", e.ticks).Msg("fade started")
}
