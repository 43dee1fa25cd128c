package moat

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gausslab/gintsieve/gint"
)

// bruteComponents computes the octant prime components by direct primality
// and breadth-first search, independent of the sieve and the explorers'
// stack discipline.
func bruteComponents(bound int64, jumpSize float64) [][]gint.GaussInt {
	primes := gint.DirectOctantPrimes(bound)
	alive := make(map[gint.GaussInt]bool, len(primes))
	for _, g := range primes {
		alive[g] = true
	}
	limit := jumpSize*jumpSize + 1e-9
	connected := func(p, q gint.GaussInt) bool {
		u, v := q.A-p.A, q.B-p.B
		if u == 0 && v == 0 {
			return false
		}
		if float64(u*u+v*v) > limit {
			return false
		}
		if (u%2+2)%2 == (v%2+2)%2 {
			return true
		}
		return (p == gint.GaussInt{A: 1, B: 1}) || (q == gint.GaussInt{A: 1, B: 1})
	}

	var components [][]gint.GaussInt
	for _, seed := range primes {
		if !alive[seed] {
			continue
		}
		queue := []gint.GaussInt{seed}
		alive[seed] = false
		var comp []gint.GaussInt
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			comp = append(comp, p)
			for _, q := range primes {
				if alive[q] && connected(p, q) {
					alive[q] = false
					queue = append(queue, q)
				}
			}
		}
		gint.Sort(comp)
		components = append(components, comp)
	}
	return components
}

func originComponent(components [][]gint.GaussInt) []gint.GaussInt {
	for _, comp := range components {
		for _, g := range comp {
			if (g == gint.GaussInt{A: 1, B: 1}) {
				return comp
			}
		}
	}
	return nil
}

func TestStencil(t *testing.T) {
	tests := []struct {
		jump float64
		want int
	}{
		{1.5, 4},
		{2, 8},
		{3, 12},
		{math.Sqrt(10), 20},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("jump=%v", tt.jump), func(t *testing.T) {
			offsets := Stencil(tt.jump)
			assert.Len(t, offsets, tt.want)
			for _, q := range offsets {
				assert.False(t, q.IsZero())
				assert.LessOrEqual(t, float64(q.Norm()), tt.jump*tt.jump+1e-9)
				assert.Equal(t, abs64(q.A)%2, abs64(q.B)%2)
				// Symmetric under negation and coordinate swap.
				assert.Contains(t, offsets, gint.GaussInt{A: -q.A, B: -q.B})
				assert.Contains(t, offsets, gint.GaussInt{A: q.B, B: q.A})
			}
		})
	}
}

func TestOctantMoatMatchesBrute(t *testing.T) {
	for _, tt := range []struct {
		bound int64
		jump  float64
	}{
		{2000, 1.5},
		{10000, 2},
		{10000, 3},
	} {
		t.Run(fmt.Sprintf("bound=%d/jump=%v", tt.bound, tt.jump), func(t *testing.T) {
			want := originComponent(bruteComponents(tt.bound, tt.jump))

			m, err := NewOctantMoat(tt.bound, tt.jump, false)
			require.NoError(t, err)
			got := m.ExploreComponent(1, 1)
			assert.Equal(t, want, got)

			// Determinism: a fresh explorer reaches the identical component.
			m2, err := NewOctantMoat(tt.bound, tt.jump, false)
			require.NoError(t, err)
			assert.Equal(t, got, m2.ExploreComponent(1, 1))
		})
	}
}

func TestOctantMoatAllComponents(t *testing.T) {
	bound, jump := int64(5000), 2.0
	want := bruteComponents(bound, jump)

	m, err := NewOctantMoat(bound, jump, false)
	require.NoError(t, err)
	got := m.ExploreAllComponents()
	require.Len(t, got, len(want))

	total := 0
	for _, comp := range got {
		total += len(comp)
	}
	wantTotal := len(gint.DirectOctantPrimes(bound))
	assert.Equal(t, wantTotal, total, "components must partition the primes")
	assert.Empty(t, m.Unexplored())

	// Same partition regardless of search order: compare sorted component
	// lists keyed by their smallest element.
	byMin := func(comps [][]gint.GaussInt) map[gint.GaussInt]int {
		out := make(map[gint.GaussInt]int)
		for _, c := range comps {
			out[c[0]] = len(c)
		}
		return out
	}
	assert.Equal(t, byMin(want), byMin(got))
}

func TestOctantMoatComponentMax(t *testing.T) {
	m, err := NewOctantMoat(10000, 2, false)
	require.NoError(t, err)
	comp := m.ExploreComponent(1, 1)
	require.NotEmpty(t, comp)
	max, ok := m.ComponentMax()
	require.True(t, ok)
	assert.Equal(t, comp[len(comp)-1], max)
}

func TestOctantMoatUnexploredSeed(t *testing.T) {
	m, err := NewOctantMoat(1000, 2, false)
	require.NoError(t, err)
	assert.Nil(t, m.ExploreComponent(4, 2), "composite seed yields no component")
}

func TestVerticalMoatTerminates(t *testing.T) {
	m, err := NewVerticalMoat(100, 2, false)
	require.NoError(t, err)
	m.BlockDX = 40
	m.BlockDY = 300
	res, err := m.Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.FinalY, res.FinalX)
	assert.Greater(t, res.Visited, int64(0))
}

func TestSegmentedMoatMatchesBrute(t *testing.T) {
	for _, tt := range []struct {
		bound int64
		jump  float64
	}{
		{2000, 2},
		{5000, 2},
		{5000, 3},
	} {
		t.Run(fmt.Sprintf("bound=%d/jump=%v", tt.bound, tt.jump), func(t *testing.T) {
			want := bruteComponents(tt.bound, tt.jump)
			wantLargest := int64(0)
			for _, c := range want {
				if int64(len(c)) > wantLargest {
					wantLargest = int64(len(c))
				}
			}

			m, err := NewSegmentedMoat(tt.bound, tt.jump, false)
			require.NoError(t, err)
			res, err := m.Run()
			require.NoError(t, err)

			assert.Equal(t, int64(len(want)), res.Components)
			assert.Equal(t, int64(len(originComponent(want))), res.OriginSize)
			assert.Equal(t, wantLargest, res.Largest)
		})
	}
}

func TestSegmentedMoatNarrowStrips(t *testing.T) {
	want := bruteComponents(2000, 2)
	m, err := NewSegmentedMoat(2000, 2, false)
	require.NoError(t, err)
	m.StripDX = 8
	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), res.Components)
	assert.Equal(t, int64(len(originComponent(want))), res.OriginSize)
}
