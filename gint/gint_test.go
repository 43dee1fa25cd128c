package gint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul(t *testing.T) {
	tests := []struct {
		g, h, want GaussInt
	}{
		{GaussInt{1, 1}, GaussInt{1, 1}, GaussInt{0, 2}},
		{GaussInt{2, 1}, GaussInt{2, -1}, GaussInt{5, 0}},
		{GaussInt{3, 2}, GaussInt{1, 0}, GaussInt{3, 2}},
		{GaussInt{3, 2}, GaussInt{0, 1}, GaussInt{-2, 3}},
		{GaussInt{4, 1}, GaussInt{2, 3}, GaussInt{5, 14}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v*%v", tt.g, tt.h), func(t *testing.T) {
			if got := tt.g.Mul(tt.h); got != tt.want {
				t.Errorf("Mul = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormMultiplicative(t *testing.T) {
	pairs := [][2]GaussInt{
		{{2, 1}, {3, 2}},
		{{1, 1}, {4, 1}},
		{{7, 0}, {5, 4}},
		{{-3, 2}, {2, -5}},
	}
	for _, p := range pairs {
		if got, want := p[0].Mul(p[1]).Norm(), p[0].Norm()*p[1].Norm(); got != want {
			t.Errorf("norm(%v * %v) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestOctantFold(t *testing.T) {
	tests := []struct {
		in, want GaussInt
	}{
		{GaussInt{3, 2}, GaussInt{3, 2}},
		{GaussInt{2, 3}, GaussInt{3, 2}},
		{GaussInt{-3, 2}, GaussInt{3, 2}},
		{GaussInt{-2, -3}, GaussInt{3, 2}},
		{GaussInt{0, -7}, GaussInt{7, 0}},
		{GaussInt{1, 1}, GaussInt{1, 1}},
	}
	for _, tt := range tests {
		if got := tt.in.Octant(); got != tt.want {
			t.Errorf("Octant(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAssociates(t *testing.T) {
	tests := []struct {
		g    GaussInt
		want int
	}{
		{GaussInt{3, 2}, 8},
		{GaussInt{3, 0}, 4},
		{GaussInt{1, 1}, 4},
	}
	for _, tt := range tests {
		as := tt.g.Associates()
		assert.Len(t, as, tt.want, "associates of %v", tt.g)

		seen := map[GaussInt]bool{}
		for _, a := range as {
			assert.False(t, seen[a], "duplicate associate %v of %v", a, tt.g)
			seen[a] = true
			assert.Equal(t, tt.g.Norm(), a.Norm())
			assert.Equal(t, tt.g.Octant(), a.Octant())
		}
	}
}

func TestLessOrdering(t *testing.T) {
	gs := []GaussInt{{5, 4}, {1, 1}, {3, 0}, {2, 1}, {3, 2}, {4, 1}}
	Sort(gs)
	want := []GaussInt{{1, 1}, {2, 1}, {3, 0}, {3, 2}, {4, 1}, {5, 4}}
	assert.Equal(t, want, gs)
}

func TestIsqrt(t *testing.T) {
	tests := []struct {
		n, want int64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{101, 10},
		{1 << 40, 1 << 20},
		{(1 << 40) - 1, (1 << 20) - 1},
		{1<<62 - 1, 2147483647},
	}
	for _, tt := range tests {
		if got := Isqrt(tt.n); got != tt.want {
			t.Errorf("Isqrt(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestIsPrime(t *testing.T) {
	table := RationalSieve(200)
	prime := []GaussInt{{1, 1}, {2, 1}, {3, 0}, {3, 2}, {7, 0}, {6, 5}, {9, 4}}
	composite := []GaussInt{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {3, 1}, {4, 3}, {5, 0}, {9, 0}}

	for _, g := range prime {
		if !IsPrime(g, table) {
			t.Errorf("IsPrime(%v) = false, want true", g)
		}
	}
	for _, g := range composite {
		if IsPrime(g, table) {
			t.Errorf("IsPrime(%v) = true, want false", g)
		}
	}
}

func TestDirectOctantPrimes100(t *testing.T) {
	want := []GaussInt{
		{1, 1}, {2, 1}, {3, 0}, {3, 2}, {4, 1}, {5, 2}, {6, 1},
		{5, 4}, {7, 0}, {7, 2}, {6, 5}, {8, 3}, {8, 5}, {9, 4},
	}
	assert.Equal(t, want, DirectOctantPrimes(100))
}

func TestRationalSieve(t *testing.T) {
	table := RationalSieve(30)
	want := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	var got []int64
	for i := int64(0); i < int64(len(table)); i++ {
		if table[i] != 0 {
			got = append(got, i)
		}
	}
	assert.Equal(t, want, got)
}
