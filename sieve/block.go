package sieve

import (
	"fmt"
	"io"

	"github.com/gausslab/gintsieve/gint"
)

// BlockSieve sieves the rectangle [x, x+dx) x [y, y+dy) with x >= 1, y >= 0.
// The norm bound for the sieving-prime bootstrap is the norm of the far
// corner.
type BlockSieve struct {
	Core
	x, y, dx, dy int64
	arr          [][]bool
}

func NewBlockSieve(x, y, dx, dy int64, verbose bool) (*BlockSieve, error) {
	if x < 1 || y < 0 || dx < 1 || dy < 1 {
		return nil, fmt.Errorf("%w: block [%d, %d) x [%d, %d)", ErrInvalidRegion, x, x+dx, y, y+dy)
	}
	x2, y2 := x+dx-1, y+dy-1
	if x2 >= 1<<31 || y2 >= 1<<31 || x2*x2+y2*y2 > MaxNorm {
		return nil, fmt.Errorf("%w: block corner (%d, %d)", ErrOverflow, x2, y2)
	}
	core, err := newCore(x2*x2+y2*y2, verbose)
	if err != nil {
		return nil, err
	}
	return &BlockSieve{Core: core, x: x, y: y, dx: dx, dy: dy}, nil
}

func (s *BlockSieve) setSieveArray() error {
	s.arr = make([][]bool, s.dx)
	for u := range s.arr {
		col := make([]bool, s.dy)
		for v := range col {
			col[v] = true
		}
		s.arr[u] = col
	}
	// The unit 1 may sit in the block's lower-left corner.
	s.clear(1, 0)
	return nil
}

func (s *BlockSieve) clear(a, b int64) {
	u, v := a-s.x, b-s.y
	if u >= 0 && u < s.dx && v >= 0 && v < s.dy {
		s.arr[u][v] = false
	}
}

// crossOffMultiples clears block multiples of g and of its flip, covering
// both conjugate classes. Unlike the octant sieve, the ramified prime 1 + i
// goes through the generic rectangle solve; its flip is itself.
func (s *BlockSieve) crossOffMultiples(g gint.GaussInt) {
	s.crossPass(g.A, g.B)
	if g.B != 0 && g.A != g.B {
		s.crossPass(g.B, g.A)
	}
}

// crossPass solves x <= ac - bd <= x+dx-1, y <= ad + bc <= y+dy-1 for the
// co-factor c + di. The real-part pair bounds c; for each c the two
// remaining inequalities bound d. The product then walks by (-b, +a) per
// step in d. The co-factor (1, 0) is skipped: it is the sieving prime (or
// its flip) itself.
func (s *BlockSieve) crossPass(a, b int64) {
	x2 := s.x + s.dx - 1
	y2 := s.y + s.dy - 1
	if b == 0 {
		for c := divCeil(s.x, a); c <= divFloor(x2, a); c++ {
			for d := divCeil(s.y, a); d <= divFloor(y2, a); d++ {
				if c == 1 && d == 0 {
					continue
				}
				s.clear(a*c, a*d)
			}
		}
		return
	}
	norm := a*a + b*b
	cLo := divCeil(a*s.x+b*s.y, norm)
	cHi := divFloor(a*x2+b*y2, norm)
	for c := cLo; c <= cHi; c++ {
		dLo := max(divCeil(a*c-x2, b), divCeil(s.y-b*c, a))
		dHi := min(divFloor(a*c-s.x, b), divFloor(y2-b*c, a))
		if dLo > dHi {
			continue
		}
		u := a*c - b*dLo
		v := b*c + a*dLo
		for d := dLo; d <= dHi; d++ {
			if !(c == 1 && d == 0) {
				s.clear(u, v)
			}
			u -= b
			v += a
		}
	}
}

func (s *BlockSieve) setBigPrimes() {
	for u := int64(0); u < s.dx; u++ {
		for v := int64(0); v < s.dy; v++ {
			if s.arr[u][v] {
				s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: s.x + u, B: s.y + v})
			}
		}
	}
}

func (s *BlockSieve) Run() error { return s.Core.run(s) }

func (s *BlockSieve) Primes(sorted bool) []gint.GaussInt { return s.Core.primes(s, sorted) }

func (s *BlockSieve) Count() int64 { return s.Core.count(s) }

func (s *BlockSieve) Interleaved() []int64 { return s.Core.interleaved(s) }

func (s *BlockSieve) WritePrimes(dir string) (string, error) { return s.Core.writeBigPrimes(s, dir) }

func (s *BlockSieve) PrintPrimes(w io.Writer) { s.Core.printPrimes(s, w) }

func (s *BlockSieve) PrintSieveArray(w io.Writer) {
	renderArray(w, s.dx, s.dy, func(u, v int64) bool { return s.arr[u][v] })
}

// Value reports whether the cell at absolute coordinates (a, b) survived.
func (s *BlockSieve) Value(a, b int64) bool {
	u, v := a-s.x, b-s.y
	return u >= 0 && u < s.dx && v >= 0 && v < s.dy && s.arr[u][v]
}

// SieveArray exposes the dx-by-dy array in block-relative coordinates. The
// moat explorers take ownership after Run.
func (s *BlockSieve) SieveArray() [][]bool { return s.arr }
