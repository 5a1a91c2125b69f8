package fade

// StepTable is an increasing run of brightness step widths. A stepped fade
// walks up the table every tick and back down near a boundary.
type StepTable []uint8

// DefaultSteps is a Fibonacci-like progression.
var DefaultSteps = StepTable{1, 2, 3, 5, 8, 13}

// Last is the highest valid index, or -1 for an empty table.
func (s StepTable) Last() int { return len(s) - 1 }

// Width returns the step width at i with i clamped into the table.
func (s StepTable) Width(i int) int {
	if len(s) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i > s.Last() {
		i = s.Last()
	}
	return int(s[i])
}

func (s StepTable) validate() error {
	if len(s) == 0 {
		return configErr("step table is empty")
	}
	prev := 0
	for i, w := range s {
		if w == 0 {
			return configErr("step %d has zero width", i)
		}
		if int(w) <= prev {
			return configErr("step table is not increasing at %d (%d after %d)", i, w, prev)
		}
		prev = int(w)
	}
	return nil
}

func (s StepTable) clone() StepTable {
	out := make(StepTable, len(s))
	copy(out, s)
	return out
}
