package sieve

import (
	"fmt"
	"io"

	"github.com/gausslab/gintsieve/gint"
)

// The ring Z[i] mod 10 has 100 residue classes, of which 32 are coprime to
// 10 (not divisible by 1 + i nor by the primes above 5). Each 10x10 tile of
// the plane compresses into one 32-bit word, a bit per coprime residue. The
// tables below were emitted by an offline generator pass over the residue
// classes and are process-wide constants.
var (
	// dStart[c mod 10] is the smallest d >= 0 making (c, d) coprime to 10.
	dStart = [10]int64{1, 0, 3, 0, 1, 2, 1, 0, 3, 0}

	// gapDonut[c mod 10][d mod 10] is the gap to the next admissible d for
	// the same c; zero at inadmissible entries. Rows are indexed by the real
	// residue, columns by the imaginary residue.
	gapDonut = [10][10]int64{
		{0, 2, 0, 4, 0, 0, 0, 2, 0, 2},
		{4, 0, 0, 0, 2, 0, 4, 0, 0, 0},
		{0, 0, 0, 2, 0, 2, 0, 6, 0, 0},
		{2, 0, 6, 0, 0, 0, 0, 0, 2, 0},
		{0, 4, 0, 0, 0, 4, 0, 0, 0, 2},
		{0, 0, 2, 0, 2, 0, 2, 0, 4, 0},
		{0, 4, 0, 0, 0, 4, 0, 0, 0, 2},
		{2, 0, 6, 0, 0, 0, 0, 0, 2, 0},
		{0, 0, 0, 2, 0, 2, 0, 6, 0, 0},
		{4, 0, 0, 0, 2, 0, 4, 0, 0, 0},
	}

	// bitDonut[a mod 10][b mod 10] is the bit index of the residue inside a
	// tile, or 99 if the residue is not coprime to 10.
	bitDonut = [10][10]int32{
		{99, 0, 99, 1, 99, 99, 99, 2, 99, 3},
		{4, 99, 99, 99, 5, 99, 6, 99, 99, 99},
		{99, 99, 99, 7, 99, 8, 99, 9, 99, 99},
		{10, 99, 11, 99, 99, 99, 99, 99, 12, 99},
		{99, 13, 99, 99, 99, 14, 99, 99, 99, 15},
		{99, 99, 16, 99, 17, 99, 18, 99, 19, 99},
		{99, 20, 99, 99, 99, 21, 99, 99, 99, 22},
		{23, 99, 24, 99, 99, 99, 99, 99, 25, 99},
		{99, 99, 99, 26, 99, 27, 99, 28, 99, 99},
		{29, 99, 99, 99, 30, 99, 31, 99, 99, 99},
	}

	// realPartDecompress and imagPartDecompress invert bitDonut.
	realPartDecompress = [32]int64{0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5, 5, 5, 6, 6, 6, 7, 7, 7, 8, 8, 8, 9, 9, 9}
	imagPartDecompress = [32]int64{1, 3, 7, 9, 0, 4, 6, 3, 5, 7, 0, 2, 8, 1, 5, 9, 2, 4, 6, 8, 1, 5, 9, 0, 2, 8, 3, 5, 7, 0, 4, 6}
)

func mod10(n int64) int64 {
	r := n % 10
	if r < 0 {
		r += 10
	}
	return r
}

// firstAdmissible returns the smallest d >= lo whose residue, paired with
// c's, is coprime to 10: jump into lo's decade at dStart and gap-step up.
func firstAdmissible(c, lo int64) int64 {
	d := divFloor(lo, 10)*10 + dStart[mod10(c)]
	for d < lo {
		d += gapDonut[mod10(c)][mod10(d)]
	}
	return d
}

// wheelSkips reports whether the sieving prime g is absorbed by the wheel:
// multiples of the primes above 2 and 5 are never represented in a donut
// array, so they need no cross-off.
func wheelSkips(g gint.GaussInt) bool {
	n := g.Norm()
	return n%2 == 0 || n%5 == 0
}

// OctantDonutSieve is the donut-accelerated octant sieve: one uint32 per
// 10x10 tile.
type OctantDonutSieve struct {
	Core
	rt  int64
	arr [][]uint32
}

func NewOctantDonutSieve(maxNorm int64, verbose bool) (*OctantDonutSieve, error) {
	core, err := newCore(maxNorm, verbose)
	if err != nil {
		return nil, err
	}
	return &OctantDonutSieve{Core: core, rt: gint.Isqrt(maxNorm)}, nil
}

func (s *OctantDonutSieve) setSieveArray() error {
	tiles := s.rt/10 + 1
	s.arr = make([][]uint32, tiles)
	for ta := int64(0); ta < tiles; ta++ {
		height := gint.Isqrt(s.maxNorm-100*ta*ta)/10 + 1
		col := make([]uint32, height)
		for tb := range col {
			col[tb] = ^uint32(0)
		}
		s.arr[ta] = col
	}
	// The unit 1 occupies a coprime residue and must not survive.
	s.clearBit(1, 0)
	return nil
}

func (s *OctantDonutSieve) clearBit(a, b int64) {
	bit := bitDonut[mod10(a)][mod10(b)]
	if bit == 99 {
		return
	}
	ta, tb := a/10, b/10
	if ta >= 0 && ta < int64(len(s.arr)) && tb >= 0 && tb < int64(len(s.arr[ta])) {
		s.arr[ta][tb] &^= 1 << uint(bit)
	}
}

func (s *OctantDonutSieve) getBit(a, b int64) bool {
	if a < 0 || b < 0 {
		return false
	}
	bit := bitDonut[mod10(a)][mod10(b)]
	if bit == 99 {
		return false
	}
	ta, tb := a/10, b/10
	return ta < int64(len(s.arr)) && tb < int64(len(s.arr[ta])) && s.arr[ta][tb]&(1<<uint(bit)) != 0
}

func (s *OctantDonutSieve) crossOffMultiples(g gint.GaussInt) {
	if wheelSkips(g) {
		return
	}
	s.crossPass(g.A, g.B, true)
	if g.B != 0 {
		s.crossPass(g.B, g.A, false)
	}
}

// crossPass mirrors the octant rule with the co-factor restricted to the
// coprime-to-10 sub-lattice: v starts at the first admissible residue at or
// above the octant lower bound and steps by the gap table.
func (s *OctantDonutSieve) crossPass(p, q int64, skipSelf bool) {
	quota := s.maxNorm / (p*p + q*q)
	for u := int64(1); u*u <= quota; u++ {
		vCap := gint.Isqrt(quota - u*u)
		vLo := max(divCeil(-q*u, p), -vCap)
		vHi := min(divFloor(u*(p-q), p+q), vCap)
		for v := firstAdmissible(u, vLo); v <= vHi; v += gapDonut[mod10(u)][mod10(v)] {
			if !(skipSelf && u == 1 && v == 0) {
				s.clearBit(p*u-q*v, q*u+p*v)
			}
		}
	}
}

// setBigPrimes harvests surviving bits inside the octant. The primes of norm
// 2 and 5 occupy residues the wheel cannot represent and are re-added here.
func (s *OctantDonutSieve) setBigPrimes() {
	if s.maxNorm >= 2 {
		s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: 1, B: 1})
	}
	if s.maxNorm >= 5 {
		s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: 2, B: 1})
	}
	for ta := int64(0); ta < int64(len(s.arr)); ta++ {
		for tb := int64(0); tb < int64(len(s.arr[ta])); tb++ {
			cell := s.arr[ta][tb]
			if cell == 0 {
				continue
			}
			for bit := 0; bit < 32; bit++ {
				if cell&(1<<uint(bit)) == 0 {
					continue
				}
				a := 10*ta + realPartDecompress[bit]
				b := 10*tb + imagPartDecompress[bit]
				if b <= a && a*a+b*b <= s.maxNorm {
					s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: a, B: b})
				}
			}
		}
	}
}

func (s *OctantDonutSieve) Run() error { return s.Core.run(s) }

func (s *OctantDonutSieve) Primes(sorted bool) []gint.GaussInt { return s.Core.primes(s, sorted) }

func (s *OctantDonutSieve) Count() int64 { return s.Core.count(s) }

func (s *OctantDonutSieve) CountWithAssociates() int64 { return s.Core.countWithAssociates(s) }

func (s *OctantDonutSieve) Interleaved() []int64 { return s.Core.interleaved(s) }

func (s *OctantDonutSieve) WritePrimes(dir string) (string, error) {
	return s.Core.writeBigPrimes(s, dir)
}

func (s *OctantDonutSieve) PrintPrimes(w io.Writer) { s.Core.printPrimes(s, w) }

func (s *OctantDonutSieve) PrintSieveArray(w io.Writer) {
	renderArray(w, s.rt+1, s.rt+1, s.getBit)
}

// BlockDonutSieve is the donut-accelerated block sieve. The tile grid is
// anchored at absolute multiples of 10, so the sieve is most efficient when
// x, y, dx, dy are themselves multiples of 10.
type BlockDonutSieve struct {
	Core
	x, y, dx, dy int64
	tx0, ty0     int64
	arr          [][]uint32
}

func NewBlockDonutSieve(x, y, dx, dy int64, verbose bool) (*BlockDonutSieve, error) {
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
	return &BlockDonutSieve{
		Core: core,
		x:    x, y: y, dx: dx, dy: dy,
		tx0: x / 10, ty0: y / 10,
	}, nil
}

func (s *BlockDonutSieve) setSieveArray() error {
	tx1 := (s.x + s.dx - 1) / 10
	ty1 := (s.y + s.dy - 1) / 10
	s.arr = make([][]uint32, tx1-s.tx0+1)
	for ta := range s.arr {
		col := make([]uint32, ty1-s.ty0+1)
		for tb := range col {
			col[tb] = ^uint32(0)
		}
		s.arr[ta] = col
	}
	s.clearBit(1, 0)
	return nil
}

func (s *BlockDonutSieve) inBlock(a, b int64) bool {
	return a >= s.x && a < s.x+s.dx && b >= s.y && b < s.y+s.dy
}

func (s *BlockDonutSieve) clearBit(a, b int64) {
	if !s.inBlock(a, b) {
		return
	}
	bit := bitDonut[mod10(a)][mod10(b)]
	if bit == 99 {
		return
	}
	s.arr[a/10-s.tx0][b/10-s.ty0] &^= 1 << uint(bit)
}

func (s *BlockDonutSieve) crossOffMultiples(g gint.GaussInt) {
	if wheelSkips(g) {
		return
	}
	s.crossPass(g.A, g.B)
	if g.B != 0 && g.A != g.B {
		s.crossPass(g.B, g.A)
	}
}

// crossPass is the block rectangle solve with the co-factor's imaginary part
// stepped through the coprime-to-10 wheel via dStart and gapDonut.
func (s *BlockDonutSieve) crossPass(a, b int64) {
	x2 := s.x + s.dx - 1
	y2 := s.y + s.dy - 1
	var cLo, cHi int64
	if b == 0 {
		cLo, cHi = divCeil(s.x, a), divFloor(x2, a)
	} else {
		norm := a*a + b*b
		cLo, cHi = divCeil(a*s.x+b*s.y, norm), divFloor(a*x2+b*y2, norm)
	}
	for c := cLo; c <= cHi; c++ {
		var dLo, dHi int64
		if b == 0 {
			dLo, dHi = divCeil(s.y, a), divFloor(y2, a)
		} else {
			dLo = max(divCeil(a*c-x2, b), divCeil(s.y-b*c, a))
			dHi = min(divFloor(a*c-s.x, b), divFloor(y2-b*c, a))
		}
		for d := firstAdmissible(c, dLo); d <= dHi; d += gapDonut[mod10(c)][mod10(d)] {
			if !(c == 1 && d == 0) {
				s.clearBit(a*c-b*d, b*c+a*d)
			}
		}
	}
}

// setBigPrimes harvests surviving bits plus the wheel-excluded primes of
// norm 2 and 5 when they fall inside the block.
func (s *BlockDonutSieve) setBigPrimes() {
	for _, g := range []gint.GaussInt{{A: 1, B: 1}, {A: 2, B: 1}, {A: 1, B: 2}} {
		if s.inBlock(g.A, g.B) {
			s.bigPrimes = append(s.bigPrimes, g)
		}
	}
	for ta := int64(0); ta < int64(len(s.arr)); ta++ {
		for tb := int64(0); tb < int64(len(s.arr[ta])); tb++ {
			cell := s.arr[ta][tb]
			if cell == 0 {
				continue
			}
			for bit := 0; bit < 32; bit++ {
				if cell&(1<<uint(bit)) == 0 {
					continue
				}
				a := 10*(ta+s.tx0) + realPartDecompress[bit]
				b := 10*(tb+s.ty0) + imagPartDecompress[bit]
				if s.inBlock(a, b) {
					s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: a, B: b})
				}
			}
		}
	}
}

func (s *BlockDonutSieve) Run() error { return s.Core.run(s) }

func (s *BlockDonutSieve) Primes(sorted bool) []gint.GaussInt { return s.Core.primes(s, sorted) }

func (s *BlockDonutSieve) Count() int64 { return s.Core.count(s) }

func (s *BlockDonutSieve) Interleaved() []int64 { return s.Core.interleaved(s) }

func (s *BlockDonutSieve) WritePrimes(dir string) (string, error) {
	return s.Core.writeBigPrimes(s, dir)
}

func (s *BlockDonutSieve) PrintPrimes(w io.Writer) { s.Core.printPrimes(s, w) }

func (s *BlockDonutSieve) PrintSieveArray(w io.Writer) {
	renderArray(w, s.dx, s.dy, func(u, v int64) bool { return s.Value(s.x+u, s.y+v) })
}

func (s *BlockDonutSieve) Value(a, b int64) bool {
	if !s.inBlock(a, b) {
		return false
	}
	bit := bitDonut[mod10(a)][mod10(b)]
	if bit == 99 {
		return false
	}
	return s.arr[a/10-s.tx0][b/10-s.ty0]&(1<<uint(bit)) != 0
}
