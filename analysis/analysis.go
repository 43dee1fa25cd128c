// Package analysis examines the distribution of Gaussian primes produced by
// the sieves: angular histograms over the first octant and cumulative race
// counts between two angular sectors.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/gausslab/gintsieve/gint"
	"github.com/gausslab/gintsieve/sieve"
)

// AngularDistribution bins the Gaussian primes of norm at most normBound by
// angle over [0, pi/4]. The bin counts sum to the octant prime count.
func AngularDistribution(normBound int64, bins int) ([]int64, error) {
	if bins < 1 {
		return nil, fmt.Errorf("analysis: need at least one bin, got %d", bins)
	}
	primes, err := sieve.PrimesToNorm(normBound)
	if err != nil {
		return nil, err
	}
	out := make([]int64, bins)
	if len(primes) == 0 {
		return out, nil
	}
	angles := make([]float64, len(primes))
	for i, g := range primes {
		angles[i] = g.Arg()
	}
	sort.Float64s(angles)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, 0, math.Pi/4)
	// The diagonal prime 1 + i sits exactly on the last divider; widen it so
	// the closed endpoint lands in the final bin.
	dividers[bins] = math.Nextafter(math.Pi/4, 1)

	counts := stat.Histogram(nil, dividers, angles, nil)
	for i, c := range counts {
		out[i] = int64(c)
	}
	return out, nil
}

// SectorRace compares the cumulative prime counts of two disjoint angular
// sectors as a function of norm: +1 per first-sector prime, -1 per
// second-sector prime, accumulated over norm bins.
type SectorRace struct {
	normBound int64
	bins      int
	first     []gint.GaussInt
	second    []gint.GaussInt
	normData  []float64
}

func NewSectorRace(normBound int64, bins int, alpha, beta, gamma, delta float64) (*SectorRace, error) {
	if bins < 1 {
		return nil, fmt.Errorf("analysis: need at least one bin, got %d", bins)
	}
	if beta > gamma && delta > alpha {
		return nil, fmt.Errorf("analysis: sectors [%v, %v] and [%v, %v] overlap", alpha, beta, gamma, delta)
	}
	first, err := sieve.PrimesInSector(normBound, alpha, beta)
	if err != nil {
		return nil, err
	}
	second, err := sieve.PrimesInSector(normBound, gamma, delta)
	if err != nil {
		return nil, err
	}
	r := &SectorRace{normBound: normBound, bins: bins, first: first, second: second}
	r.setNormData()
	return r, nil
}

func (r *SectorRace) binOf(g gint.GaussInt) int {
	bin := int(g.Norm() * int64(r.bins) / r.normBound)
	if bin >= r.bins {
		bin = r.bins - 1
	}
	return bin
}

func (r *SectorRace) setNormData() {
	r.normData = make([]float64, r.bins)
	for _, g := range r.first {
		r.normData[r.binOf(g)]++
	}
	for _, g := range r.second {
		r.normData[r.binOf(g)]--
	}
	floats.CumSum(r.normData, r.normData)
}

// FirstSector returns the primes of the first sector.
func (r *SectorRace) FirstSector() []gint.GaussInt { return r.first }

// SecondSector returns the primes of the second sector.
func (r *SectorRace) SecondSector() []gint.GaussInt { return r.second }

// NormData returns the cumulative signed difference per norm bin.
func (r *SectorRace) NormData() []int64 {
	out := make([]int64, len(r.normData))
	for i, v := range r.normData {
		out[i] = int64(v)
	}
	return out
}
