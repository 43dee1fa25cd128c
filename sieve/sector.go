package sieve

import (
	"fmt"
	"io"
	"math"

	"github.com/gausslab/gintsieve/gint"
)

// angleTol absorbs the half-ulp error of computing sector boundaries in
// double precision; membership decided inside the tolerance band is then
// settled by the nudge loops in setSieveArray.
const angleTol = 1e-12

// SectorSieve sieves the Gaussian integers with a^2 + b^2 <= N and
// alpha <= atan2(b, a) <= beta, for 0 <= alpha < beta <= pi/4. Storage is a
// trapezoidal per-column bit array over the admissible b range.
type SectorSieve struct {
	Core
	alpha, beta float64
	rt          int64
	bLo         []int64
	arr         [][]bool
}

func NewSectorSieve(maxNorm int64, alpha, beta float64, verbose bool) (*SectorSieve, error) {
	if alpha < 0 || beta > math.Pi/4+angleTol || alpha >= beta {
		return nil, fmt.Errorf("%w: sector [%v, %v]", ErrInvalidRegion, alpha, beta)
	}
	core, err := newCore(maxNorm, verbose)
	if err != nil {
		return nil, err
	}
	return &SectorSieve{Core: core, alpha: alpha, beta: beta, rt: gint.Isqrt(maxNorm)}, nil
}

// contains tests sector membership of (a, b), inclusive at both endpoints.
func (s *SectorSieve) contains(a, b int64) bool {
	ang := math.Atan2(float64(b), float64(a))
	return ang >= s.alpha-angleTol && ang <= s.beta+angleTol
}

func (s *SectorSieve) setSieveArray() error {
	s.bLo = make([]int64, s.rt+1)
	s.arr = make([][]bool, s.rt+1)
	tanA := math.Tan(s.alpha)
	tanB := math.Tan(s.beta)
	for a := int64(1); a <= s.rt; a++ {
		lo := int64(math.Ceil(float64(a)*tanA - angleTol))
		for lo > 0 && s.contains(a, lo-1) {
			lo--
		}
		hi := min(int64(math.Floor(float64(a)*tanB+angleTol)), gint.Isqrt(s.maxNorm-a*a))
		for lo <= hi && !s.contains(a, lo) {
			lo++
		}
		for hi >= lo && !s.contains(a, hi) {
			hi--
		}
		s.bLo[a] = lo
		if hi < lo {
			continue
		}
		col := make([]bool, hi-lo+1)
		for i := range col {
			col[i] = true
		}
		s.arr[a] = col
	}
	// The unit 1 sits on the sector's lower edge when alpha = 0.
	s.clearCell(1, 0)
	// Ramified-prime cross-off by parity, as in the octant sieve.
	for a := int64(1); a <= s.rt; a++ {
		lo := s.bLo[a]
		b := lo
		if (a+b)%2 != 0 {
			b++
		}
		for ; b < lo+int64(len(s.arr[a])); b += 2 {
			if a == 1 && b == 1 {
				continue
			}
			s.arr[a][b-lo] = false
		}
	}
	return nil
}

func (s *SectorSieve) clearCell(a, b int64) {
	if a < 1 || a > s.rt {
		return
	}
	i := b - s.bLo[a]
	if i >= 0 && i < int64(len(s.arr[a])) {
		s.arr[a][i] = false
	}
}

// crossOffMultiples works like the octant rule; multiples that leave the
// sector simply miss the trapezoidal array and are skipped by the clear
// guard.
func (s *SectorSieve) crossOffMultiples(g gint.GaussInt) {
	if g.A == g.B {
		return
	}
	s.crossPass(g.A, g.B, true)
	if g.B != 0 {
		s.crossPass(g.B, g.A, false)
	}
}

func (s *SectorSieve) crossPass(p, q int64, skipSelf bool) {
	quota := s.maxNorm / (p*p + q*q)
	for u := int64(1); u*u <= quota; u++ {
		vCap := gint.Isqrt(quota - u*u)
		vLo := max(divCeil(-q*u, p), -vCap)
		vHi := min(divFloor(u*(p-q), p+q), vCap)
		if vLo > vHi {
			continue
		}
		a := p*u - q*vLo
		b := q*u + p*vLo
		for v := vLo; v <= vHi; v++ {
			if !(skipSelf && u == 1 && v == 0) {
				s.clearCell(a, b)
			}
			a -= q
			b += p
		}
	}
}

func (s *SectorSieve) setBigPrimes() {
	for a := int64(1); a <= s.rt; a++ {
		for i := int64(0); i < int64(len(s.arr[a])); i++ {
			if s.arr[a][i] {
				s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: a, B: s.bLo[a] + i})
			}
		}
	}
}

func (s *SectorSieve) Run() error { return s.Core.run(s) }

func (s *SectorSieve) Primes(sorted bool) []gint.GaussInt { return s.Core.primes(s, sorted) }

func (s *SectorSieve) Count() int64 { return s.Core.count(s) }

func (s *SectorSieve) CountWithAssociates() int64 { return s.Core.countWithAssociates(s) }

func (s *SectorSieve) Interleaved() []int64 { return s.Core.interleaved(s) }

func (s *SectorSieve) WritePrimes(dir string) (string, error) { return s.Core.writeBigPrimes(s, dir) }

func (s *SectorSieve) PrintPrimes(w io.Writer) { s.Core.printPrimes(s, w) }

func (s *SectorSieve) PrintSieveArray(w io.Writer) {
	height := int64(0)
	for a := int64(1); a <= s.rt; a++ {
		if top := s.bLo[a] + int64(len(s.arr[a])); top > height {
			height = top
		}
	}
	renderArray(w, s.rt+1, height, s.Value)
}

func (s *SectorSieve) Value(a, b int64) bool {
	if a < 1 || a > s.rt {
		return false
	}
	i := b - s.bLo[a]
	return i >= 0 && i < int64(len(s.arr[a])) && s.arr[a][i]
}
