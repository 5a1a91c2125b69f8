package led

import (
	"fmt"
	"strings"
)

// Order is the wire order of the colour channels, e.g. "GRB" for WS2812B.
type Order [3]byte

var (
	RGB = Order{'R', 'G', 'B'}
	GRB = Order{'G', 'R', 'B'}
	BGR = Order{'B', 'G', 'R'}
)

// ParseOrder accepts any permutation of R, G and B.
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 || !strings.ContainsRune(s, 'R') || !strings.ContainsRune(s, 'G') || !strings.ContainsRune(s, 'B') {
		return Order{}, fmt.Errorf("invalid color order %q", s)
	}
	return Order{s[0], s[1], s[2]}, nil
}

// NRZInput returns the order a Strip must produce so that the wire carries
// o. nrzled takes RGB input and sends it as GRB.
func NRZInput(o Order) Order { return Order{o[1], o[0], o[2]} }

func (o Order) String() string { return string(o[:]) }

// put writes r, g and b in o's order. o must come from ParseOrder or be
// one of the package values.
func (o Order) put(dst []byte, r, g, b byte) {
	for i := 0; i < 3; i++ {
		switch o[i] {
		case 'R':
			dst[i] = r
		case 'G':
			dst[i] = g
		case 'B':
			dst[i] = b
		}
	}
}
