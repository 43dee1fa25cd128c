package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coprimeToTen(a, b int64) bool {
	return (a+b)%2 != 0 && (a*a+b*b)%5 != 0
}

// The wheel tables must agree with the residue arithmetic they encode.
func TestBitDonutMatchesResidues(t *testing.T) {
	seen := make(map[int32]bool)
	count := 0
	for a := int64(0); a < 10; a++ {
		for b := int64(0); b < 10; b++ {
			bit := bitDonut[a][b]
			if coprimeToTen(a, b) {
				assert.NotEqual(t, int32(99), bit, "(%d, %d) is coprime to 10", a, b)
				assert.False(t, seen[bit], "bit %d assigned twice", bit)
				seen[bit] = true
				assert.Equal(t, a, realPartDecompress[bit])
				assert.Equal(t, b, imagPartDecompress[bit])
				count++
			} else {
				assert.Equal(t, int32(99), bit, "(%d, %d) is not coprime to 10", a, b)
			}
		}
	}
	assert.Equal(t, 32, count)
}

func TestGapDonutStepsToNextResidue(t *testing.T) {
	for c := int64(0); c < 10; c++ {
		for d := int64(0); d < 10; d++ {
			gap := gapDonut[c][d]
			if !coprimeToTen(c, d) {
				assert.Zero(t, gap, "gap at inadmissible (%d, %d)", c, d)
				continue
			}
			assert.Positive(t, gap)
			assert.True(t, coprimeToTen(c, mod10(d+gap)), "(%d, %d)+%d lands off-wheel", c, d, gap)
			// No admissible residue may be skipped over.
			for step := int64(1); step < gap; step++ {
				assert.False(t, coprimeToTen(c, mod10(d+step)),
					"gap from (%d, %d) skips admissible offset %d", c, d, step)
			}
		}
	}
}

func TestDStartIsMinimalResidue(t *testing.T) {
	for c := int64(0); c < 10; c++ {
		want := int64(-1)
		for d := int64(0); d < 10; d++ {
			if coprimeToTen(c, d) {
				want = d
				break
			}
		}
		assert.Equal(t, want, dStart[c], "dStart[%d]", c)
	}
}

func TestFirstAdmissible(t *testing.T) {
	for c := int64(0); c < 10; c++ {
		for lo := int64(-25); lo <= 25; lo++ {
			got := firstAdmissible(c, lo)
			assert.GreaterOrEqual(t, got, lo)
			assert.True(t, coprimeToTen(c, mod10(got)))
			for d := lo; d < got; d++ {
				assert.False(t, coprimeToTen(c, mod10(d)),
					"firstAdmissible(%d, %d) skipped %d", c, lo, d)
			}
		}
	}
}
