// Package gint provides the Gaussian integer primitive used throughout the
// sieves: arithmetic in the ring Z[i], the multiplicative norm, octant
// canonicalization under the unit group and conjugation, and the integer
// square root.
package gint

import (
	"fmt"
	"math"
	"sort"
)

// GaussInt is the Gaussian integer A + Bi.
type GaussInt struct {
	A, B int64
}

// Norm returns A^2 + B^2.
func (g GaussInt) Norm() int64 {
	return g.A*g.A + g.B*g.B
}

// Arg returns the argument atan2(B, A) of g folded into the first octant,
// a value in [0, pi/4].
func (g GaussInt) Arg() float64 {
	c := g.Octant()
	return math.Atan2(float64(c.B), float64(c.A))
}

func (g GaussInt) Add(h GaussInt) GaussInt {
	return GaussInt{g.A + h.A, g.B + h.B}
}

func (g GaussInt) Sub(h GaussInt) GaussInt {
	return GaussInt{g.A - h.A, g.B - h.B}
}

// Mul returns the product (A + Bi)(C + Di) = (AC - BD) + (AD + BC)i.
func (g GaussInt) Mul(h GaussInt) GaussInt {
	return GaussInt{g.A*h.A - g.B*h.B, g.A*h.B + g.B*h.A}
}

// Conj returns the complex conjugate A - Bi.
func (g GaussInt) Conj() GaussInt {
	return GaussInt{g.A, -g.B}
}

// Flip swaps the real and imaginary parts. The result equals i * conj(g), an
// associate of the conjugate of g.
func (g GaussInt) Flip() GaussInt {
	return GaussInt{g.B, g.A}
}

func (g GaussInt) IsZero() bool {
	return g.A == 0 && g.B == 0
}

// Octant folds g into the first octant 0 <= B <= A by applying units and
// conjugation.
func (g GaussInt) Octant() GaussInt {
	a, b := g.A, g.B
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a < b {
		a, b = b, a
	}
	return GaussInt{a, b}
}

// Less orders Gaussian integers lexicographically by (norm, A, B). The order
// is total on canonical representatives and makes sieve output reproducible.
func (g GaussInt) Less(h GaussInt) bool {
	gn, hn := g.Norm(), h.Norm()
	if gn != hn {
		return gn < hn
	}
	if g.A != h.A {
		return g.A < h.A
	}
	return g.B < h.B
}

func (g GaussInt) String() string {
	switch {
	case g.B == 0:
		return fmt.Sprintf("%d", g.A)
	case g.B < 0:
		return fmt.Sprintf("%d-%di", g.A, -g.B)
	default:
		return fmt.Sprintf("%d+%di", g.A, g.B)
	}
}

// Associates returns the full orbit of g under the unit group and complex
// conjugation: the eight points (±a, ±b), (±b, ±a), with exact deduplication
// on the axes and the diagonal.
func (g GaussInt) Associates() []GaussInt {
	c := g.Octant()
	a, b := c.A, c.B
	switch {
	case a == 0 && b == 0:
		return []GaussInt{{0, 0}}
	case b == 0:
		return []GaussInt{{a, 0}, {0, a}, {-a, 0}, {0, -a}}
	case a == b:
		return []GaussInt{{a, a}, {-a, a}, {-a, -a}, {a, -a}}
	default:
		return []GaussInt{
			{a, b}, {-b, a}, {-a, -b}, {b, -a},
			{a, -b}, {b, a}, {-a, b}, {-b, -a},
		}
	}
}

// Sort sorts a slice of Gaussian integers by (norm, A, B).
func Sort(gs []GaussInt) {
	sort.Slice(gs, func(i, j int) bool { return gs[i].Less(gs[j]) })
}

// Isqrt returns the integer square root floor(sqrt(n)), or 0 for n <= 0.
// The float64 seed is exact to one ulp; the correction loops settle the
// boundary cases near perfect squares.
func Isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	r := int64(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
