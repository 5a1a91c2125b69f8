package led

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sim keeps the last frame in memory instead of driving hardware. It logs a
// compact summary of each frame at trace level.
type Sim struct {
	mu     sync.Mutex
	frames int
	last   []byte
	log    zerolog.Logger
}

func NewSim(log zerolog.Logger) *Sim { return &Sim{log: log} }

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	if cap(s.last) < len(rgb) {
		s.last = make([]byte, len(rgb))
	}
	s.last = s.last[:len(rgb)]
	copy(s.last, rgb)

	if e := s.log.Trace(); e.Enabled() {
		var r, g, b int
		for i := 0; i+2 < len(rgb); i += 3 {
			r += int(rgb[i])
			g += int(rgb[i+1])
			b += int(rgb[i+2])
		}
		n := len(rgb) / 3
		if n == 0 {
			n = 1
		}
		e.Int("frame", s.frames).Ints("avg", []int{r / n, g / n, b / n}).Msg("sim frame")
	}
	return nil
}

// Frames is the number of frames written so far.
func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

func (s *Sim) Close() error { return nil }
