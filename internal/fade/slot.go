package fade

// Direction of a stepped fade.
type Direction uint8

const (
	Dimming Direction = iota
	Brightening
)

func (d Direction) String() string {
	if d == Brightening {
		return "brightening"
	}
	return "dimming"
}

// Slot is one in-progress pixel fade. Only an active slot's fields mean
// anything; a free slot keeps whatever its last fade left behind.
type Slot struct {
	pixel  int
	active bool

	Brightness uint8
	Phase      uint8 // wave counter
	Step       int   // index into the step table
	Dir        Direction
}

// Pixel returns the owned pixel index and whether the slot is active.
func (s Slot) Pixel() (int, bool) { return s.pixel, s.active }

func (s Slot) Active() bool { return s.active }

func (s *Slot) arm(pixel int, full uint8) {
	s.pixel = pixel
	s.active = true
	s.Brightness = full
	s.Phase = 0
	s.Step = 0
	s.Dir = Dimming
}

func (s *Slot) free() {
	s.active = false
}

// Pool is a fixed-capacity set of slots allocated once.
type Pool struct {
	slots []Slot
}

func NewPool(capacity int) Pool {
	return Pool{slots: make([]Slot, capacity)}
}

func (p *Pool) Cap() int { return len(p.slots) }

// At returns slot i by value.
func (p *Pool) At(i int) Slot { return p.slots[i] }

// Owns reports whether any active slot animates pixel.
func (p *Pool) Owns(pixel int) bool {
	for i := range p.slots {
		if p.slots[i].active && p.slots[i].pixel == pixel {
			return true
		}
	}
	return false
}

// Active counts slots currently animating.
func (p *Pool) Active() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].active {
			n++
		}
	}
	return n
}

// Reset frees every slot.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Slot{}
	}
}
