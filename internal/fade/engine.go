package fade

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/glowstrip/internal/strip"
)

// Source draws uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewRand returns a seeded Source.
func NewRand(seed int64) Source { return rand.New(rand.NewSource(seed)) }

// Engine owns the pixel buffer and the slot pool and advances both one
// tick at a time. It is not safe for concurrent use; a single scheduler
// goroutine drives it.
type Engine struct {
	cfg    Config
	pixels strip.Buffer
	pool   Pool
	rnd    Source
	log    zerolog.Logger
	ticks  uint64
}

type Option func(*Engine)

// WithRand injects the random source used for fade selection.
func WithRand(r Source) Option { return func(e *Engine) { e.rnd = r } }

// WithLogger sets the diagnostic sink. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// New validates cfg and allocates the buffer and pool.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Steps = cfg.Steps.clone()
	e := &Engine{
		cfg:  cfg,
		pool: NewPool(cfg.Slots),
		log:  zerolog.Nop(),
	}
	e.pixels = strip.NewBuffer(cfg.Pixels, e.ambient())
	for _, o := range opts {
		o(e)
	}
	if e.rnd == nil {
		e.rnd = NewRand(time.Now().UnixNano())
	}
	return e, nil
}

func (e *Engine) ambient() strip.HSV {
	return e.color(e.cfg.FadeMax)
}

func (e *Engine) color(v uint8) strip.HSV {
	return strip.HSV{H: e.cfg.Hue, S: e.cfg.Saturation, V: v}
}

// Tick runs one engine pass: every active slot advances, then free slots
// may be recruited. A slot armed this tick is first advanced on the next.
func (e *Engine) Tick() {
	e.ticks++
	for i := range e.pool.slots {
		if e.pool.slots[i].active {
			e.advance(&e.pool.slots[i])
		}
	}
	for i := range e.pool.slots {
		if !e.pool.slots[i].active {
			e.allocate(&e.pool.slots[i])
		}
	}
}

// Reset frees all slots and restores the ambient colour.
func (e *Engine) Reset() {
	e.pool.Reset()
	e.pixels.Fill(e.ambient())
}

// Pixels is the live buffer; read it between ticks only.
func (e *Engine) Pixels() strip.Buffer { return e.pixels }

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Cap() int { return e.pool.Cap() }

func (e *Engine) Slot(i int) Slot { return e.pool.At(i) }

func (e *Engine) Active() int { return e.pool.Active() }

func (e *Engine) Ticks() uint64 { return e.ticks }
