package sieve

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gausslab/gintsieve/gint"
)

func runOctant(t *testing.T, maxNorm int64) *OctantSieve {
	t.Helper()
	s, err := NewOctantSieve(maxNorm, false)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	return s
}

func TestOctantSieve100(t *testing.T) {
	want := []gint.GaussInt{
		{A: 1, B: 1}, {A: 2, B: 1}, {A: 3, B: 0}, {A: 3, B: 2}, {A: 4, B: 1},
		{A: 5, B: 2}, {A: 6, B: 1}, {A: 5, B: 4}, {A: 7, B: 0}, {A: 7, B: 2},
		{A: 6, B: 5}, {A: 8, B: 3}, {A: 8, B: 5}, {A: 9, B: 4},
	}
	s := runOctant(t, 100)
	assert.Equal(t, want, s.Primes(true))
	assert.Equal(t, int64(14), s.Count())
	assert.Equal(t, int64(100), s.CountWithAssociates())
}

// Full-plane counts: one octant representative stands for eight associates,
// except four on the real axis (inert primes) and four for 1 + i.
func TestOctantSieveCounts(t *testing.T) {
	tests := []struct {
		n, reps, all int64
	}{
		{100, 14, 100},
		{1000, 87, 668},
		{10000, 623, 4928},
		{100000, 4818, 38404},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			s := runOctant(t, tt.n)
			assert.Equal(t, tt.reps, s.Count())
			assert.Equal(t, tt.all, s.CountWithAssociates())
		})
	}
}

// Every surviving cell must pass the direct primality test, and vice versa.
func TestOctantSieveMatchesDirect(t *testing.T) {
	for _, n := range []int64{50, 1024, 5000, 30000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := runOctant(t, n)
			assert.Equal(t, gint.DirectOctantPrimes(n), s.Primes(true))
		})
	}
}

func TestOctantDonutMatchesOctant(t *testing.T) {
	for _, n := range []int64{1024, 4096, 12345, 65536, 250000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			plain := runOctant(t, n)
			donut, err := NewOctantDonutSieve(n, false)
			require.NoError(t, err)
			require.NoError(t, donut.Run())
			assert.Equal(t, plain.Primes(true), donut.Primes(true))
			assert.Equal(t, plain.CountWithAssociates(), donut.CountWithAssociates())
		})
	}
}

func TestSectorSieveFullOctant(t *testing.T) {
	n := int64(1 << 16)
	sector, err := NewSectorSieve(n, 0, math.Pi/4, false)
	require.NoError(t, err)
	require.NoError(t, sector.Run())
	assert.Equal(t, runOctant(t, n).Primes(true), sector.Primes(true))
}

// A partition of the octant into sectors at generic interior angles splits
// the prime set without loss or duplication.
func TestSectorSievePartition(t *testing.T) {
	n := int64(20000)
	cuts := []float64{0, 0.3, 0.55, math.Pi / 4}
	var union []gint.GaussInt
	total := int64(0)
	for i := 0; i+1 < len(cuts); i++ {
		s, err := NewSectorSieve(n, cuts[i], cuts[i+1], false)
		require.NoError(t, err)
		require.NoError(t, s.Run())
		union = append(union, s.Primes(false)...)
		total += s.Count()
	}
	gint.Sort(union)
	want := runOctant(t, n).Primes(true)
	assert.Equal(t, int64(len(want)), total, "sectors must be disjoint")
	assert.Equal(t, want, union)
}

func TestBlockSieveMatchesOctantSubset(t *testing.T) {
	x, y, dx, dy := int64(30), int64(10), int64(25), int64(25)
	block, err := NewBlockSieve(x, y, dx, dy, false)
	require.NoError(t, err)
	require.NoError(t, block.Run())

	corner := (x + dx - 1) * (x + dx - 1) * 2
	var want []gint.GaussInt
	for _, g := range gint.DirectOctantPrimes(corner) {
		// Unfold octant representatives into the quadrant to cover the block.
		for _, a := range g.Associates() {
			if a.A >= x && a.A < x+dx && a.B >= y && a.B < y+dy {
				want = append(want, a)
			}
		}
	}
	gint.Sort(want)
	assert.Equal(t, want, block.Primes(true))
}

func TestBlockDonutMatchesBlock(t *testing.T) {
	blocks := [][4]int64{
		{1, 0, 50, 50},
		{30, 10, 25, 25},
		{1000, 2000, 120, 90},
		{9999, 1, 33, 77},
		{30000, 10000, 150, 150},
	}
	for _, blk := range blocks {
		t.Run(fmt.Sprintf("block=%v", blk), func(t *testing.T) {
			plain, err := NewBlockSieve(blk[0], blk[1], blk[2], blk[3], false)
			require.NoError(t, err)
			require.NoError(t, plain.Run())
			donut, err := NewBlockDonutSieve(blk[0], blk[1], blk[2], blk[3], false)
			require.NoError(t, err)
			require.NoError(t, donut.Run())
			assert.Equal(t, plain.Primes(true), donut.Primes(true))
		})
	}
}

func TestRegionValidation(t *testing.T) {
	_, err := NewSectorSieve(1000, 0.5, 0.3, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewSectorSieve(1000, -0.1, 0.3, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewSectorSieve(1000, 0.1, 1.0, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewBlockSieve(0, 0, 10, 10, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewBlockSieve(1, 0, 0, 10, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewBlockSieve(1, -1, 10, 10, false)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = NewOctantSieve(-1, false)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = NewBlockSieve(1<<32, 0, 10, 10, false)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSetSmallPrimesFromList(t *testing.T) {
	s, err := NewBlockSieve(100, 0, 20, 20, false)
	require.NoError(t, err)
	err = s.SetSmallPrimesFromList([]gint.GaussInt{{A: 1, B: 1}, {A: 2, B: 1}}, 5)
	assert.ErrorIs(t, err, ErrNotEnoughPrimes)

	bound := gint.Isqrt(s.NormBound())
	ps, err := Bootstrap(bound)
	require.NoError(t, err)
	require.NoError(t, s.SetSmallPrimesFromList(ps, bound))
	require.NoError(t, s.Run())

	fresh, err := NewBlockSieve(100, 0, 20, 20, false)
	require.NoError(t, err)
	require.NoError(t, fresh.Run())
	assert.Equal(t, fresh.Primes(true), s.Primes(true))
}

func TestBootstrapFlavorsAgree(t *testing.T) {
	n := int64(12000)
	direct := gint.DirectOctantPrimes(n)
	assert.Equal(t, direct, runOctant(t, n).Primes(true))

	ps, err := Bootstrap(n)
	require.NoError(t, err)
	assert.Equal(t, direct, ps)
}

func TestWritePrimes(t *testing.T) {
	s := runOctant(t, 50)
	dir := t.TempDir()
	path, err := s.WritePrimes(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "primes_50.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, len(s.Primes(true)))
	assert.Equal(t, "1,1", lines[0])
}

func TestInterleaved(t *testing.T) {
	s := runOctant(t, 100)
	flat := s.Interleaved()
	ps := s.Primes(true)
	require.Len(t, flat, 2*len(ps))
	for i, g := range ps {
		assert.Equal(t, g.A, flat[2*i])
		assert.Equal(t, g.B, flat[2*i+1])
	}
}

func TestPrintPrimesAndArray(t *testing.T) {
	s := runOctant(t, 100)

	var out bytes.Buffer
	s.PrintPrimes(&out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 14)
	assert.Equal(t, "1 1", lines[0])

	out.Reset()
	s.PrintSieveArray(&out)
	assert.Equal(t, 14, strings.Count(out.String(), "*"))
}
