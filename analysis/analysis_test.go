package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gausslab/gintsieve/gint"
)

func TestAngularDistributionSums(t *testing.T) {
	for _, bins := range []int{1, 8, 20} {
		counts, err := AngularDistribution(10000, bins)
		require.NoError(t, err)
		require.Len(t, counts, bins)
		total := int64(0)
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, int64(len(gint.DirectOctantPrimes(10000))), total, "bins=%d", bins)
	}
}

func TestAngularDistributionDiagonal(t *testing.T) {
	// With norm bound 2 the only prime is 1 + i, whose angle pi/4 must land
	// in the last bin.
	counts, err := AngularDistribution(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0, 1}, counts)
}

func TestAngularDistributionRejectsBadBins(t *testing.T) {
	_, err := AngularDistribution(100, 0)
	assert.Error(t, err)
}

func TestSectorRace(t *testing.T) {
	n := int64(20000)
	bins := 10
	r, err := NewSectorRace(n, bins, 0.0, 0.2, 0.2, 0.4)
	require.NoError(t, err)

	data := r.NormData()
	require.Len(t, data, bins)
	want := int64(len(r.FirstSector()) - len(r.SecondSector()))
	assert.Equal(t, want, data[bins-1], "final cumulative value is the total difference")
}

func TestSectorRaceRejectsOverlap(t *testing.T) {
	_, err := NewSectorRace(1000, 5, 0.0, 0.3, 0.2, 0.5)
	assert.Error(t, err)
}
