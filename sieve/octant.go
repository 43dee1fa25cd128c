package sieve

import (
	"io"

	"github.com/gausslab/gintsieve/gint"
)

// OctantSieve sieves the first octant 0 <= b <= a, a^2 + b^2 <= N. Storage
// is a jagged per-column bit array sized to the local norm bound.
type OctantSieve struct {
	Core
	rt  int64
	arr [][]bool
}

func NewOctantSieve(maxNorm int64, verbose bool) (*OctantSieve, error) {
	core, err := newCore(maxNorm, verbose)
	if err != nil {
		return nil, err
	}
	return &OctantSieve{Core: core, rt: gint.Isqrt(maxNorm)}, nil
}

func (s *OctantSieve) setSieveArray() error {
	s.arr = make([][]bool, s.rt+1)
	for a := int64(0); a <= s.rt; a++ {
		hi := min(a, gint.Isqrt(s.maxNorm-a*a))
		col := make([]bool, hi+1)
		for b := range col {
			col[b] = true
		}
		s.arr[a] = col
	}
	// 0 and the unit 1 are not prime.
	s.arr[0][0] = false
	if s.rt >= 1 {
		s.arr[1][0] = false
	}
	// A Gaussian integer with even coordinate sum is divisible by 1 + i, so
	// apart from 1 + i itself every such cell is composite. Clearing them
	// here is the cross-off of the ramified prime.
	for a := int64(0); a <= s.rt; a++ {
		for b := int64(a % 2); b < int64(len(s.arr[a])); b += 2 {
			if a == 1 && b == 1 {
				continue
			}
			s.arr[a][b] = false
		}
	}
	return nil
}

func (s *OctantSieve) clear(a, b int64) {
	if a >= 0 && a < int64(len(s.arr)) && b >= 0 && b < int64(len(s.arr[a])) {
		s.arr[a][b] = false
	}
}

// crossOffMultiples clears the octant multiples of the sieving prime g and
// of its flip, i * conj(g). The two passes together cover
// both conjugate classes above g's norm. The ramified prime 1 + i was
// already handled during array initialization.
func (s *OctantSieve) crossOffMultiples(g gint.GaussInt) {
	if g.A == g.B {
		return
	}
	s.crossPass(g.A, g.B, true)
	if g.B != 0 {
		s.crossPass(g.B, g.A, false)
	}
}

// crossPass clears products (p + qi)(u + vi) lying in the octant with norm
// at most the bound. For each u >= 1 the admissible v range follows from
// 0 <= pv + qu <= pu - qv together with the norm bound. The product walks by
// (-q, +p) per unit step in v, as in the block recurrences.
func (s *OctantSieve) crossPass(p, q int64, skipSelf bool) {
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
				s.clear(a, b)
			}
			a -= q
			b += p
		}
	}
}

func (s *OctantSieve) setBigPrimes() {
	for a := int64(1); a <= s.rt; a++ {
		for b := int64(0); b < int64(len(s.arr[a])); b++ {
			if s.arr[a][b] {
				s.bigPrimes = append(s.bigPrimes, gint.GaussInt{A: a, B: b})
			}
		}
	}
}

// Run executes the sieve pipeline. The array is read-only afterwards.
func (s *OctantSieve) Run() error { return s.Core.run(s) }

// Primes returns the surviving Gaussian primes, sorted by (norm, A, B) when
// sorted is true.
func (s *OctantSieve) Primes(sorted bool) []gint.GaussInt { return s.Core.primes(s, sorted) }

// Count returns the number of canonical octant primes found.
func (s *OctantSieve) Count() int64 { return s.Core.count(s) }

// CountWithAssociates expands the count to the full plane.
func (s *OctantSieve) CountWithAssociates() int64 { return s.Core.countWithAssociates(s) }

// Interleaved returns the primes as a flat [a0, b0, a1, b1, ...] array.
func (s *OctantSieve) Interleaved() []int64 { return s.Core.interleaved(s) }

// WritePrimes persists the primes to primes_<N>.csv in dir.
func (s *OctantSieve) WritePrimes(dir string) (string, error) { return s.Core.writeBigPrimes(s, dir) }

// PrintPrimes writes "a b" pairs to w.
func (s *OctantSieve) PrintPrimes(w io.Writer) { s.Core.printPrimes(s, w) }

// PrintSieveArray renders the sieve array to w.
func (s *OctantSieve) PrintSieveArray(w io.Writer) {
	height := int64(0)
	for _, col := range s.arr {
		if int64(len(col)) > height {
			height = int64(len(col))
		}
	}
	renderArray(w, s.rt+1, height, s.Value)
}

// Value reports whether cell (a, b) survived; cells outside the region are
// false.
func (s *OctantSieve) Value(a, b int64) bool {
	return a >= 0 && a < int64(len(s.arr)) && b >= 0 && b < int64(len(s.arr[a])) && s.arr[a][b]
}

// SieveArray exposes the underlying jagged array. The moat explorers take
// ownership of it after Run; the sieve must not be reused afterwards.
func (s *OctantSieve) SieveArray() [][]bool { return s.arr }
