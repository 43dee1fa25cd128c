package sieve

import "github.com/gausslab/gintsieve/gint"

// Convenience entry points mirroring the downstream-consumer surface: a
// caller picks a region and gets primes, a count, or a flat interleaved
// array without touching the sieve objects.

// PrimesToNorm returns the canonical first-octant Gaussian primes with norm
// at most x, sorted by (norm, A, B). The donut sieve is used above the plain
// threshold.
func PrimesToNorm(x int64) ([]gint.GaussInt, error) {
	if x <= plainBound {
		s, err := NewOctantSieve(x, false)
		if err != nil {
			return nil, err
		}
		if err := s.Run(); err != nil {
			return nil, err
		}
		return s.Primes(true), nil
	}
	s, err := NewOctantDonutSieve(x, false)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return s.Primes(true), nil
}

// PrimesInSector returns the Gaussian primes in the sector [alpha, beta]
// with norm at most x.
func PrimesInSector(x int64, alpha, beta float64) ([]gint.GaussInt, error) {
	s, err := NewSectorSieve(x, alpha, beta, false)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return s.Primes(true), nil
}

// PrimesInBlock returns the Gaussian primes in [x, x+dx) x [y, y+dy).
func PrimesInBlock(x, y, dx, dy int64) ([]gint.GaussInt, error) {
	s, err := NewBlockSieve(x, y, dx, dy, false)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return s.Primes(true), nil
}

// PrimesToNormAsArray returns the primes to norm x as a flat interleaved
// [a0, b0, a1, b1, ...] array; ownership passes to the caller.
func PrimesToNormAsArray(x int64) ([]int64, error) {
	ps, err := PrimesToNorm(x)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, 2*len(ps))
	for _, g := range ps {
		out = append(out, g.A, g.B)
	}
	return out, nil
}

// CountToNorm returns the full-plane count of Gaussian primes with norm at
// most x, associates included.
func CountToNorm(x int64) (int64, error) {
	if x <= plainBound {
		s, err := NewOctantSieve(x, false)
		if err != nil {
			return 0, err
		}
		if err := s.Run(); err != nil {
			return 0, err
		}
		return s.CountWithAssociates(), nil
	}
	s, err := NewOctantDonutSieve(x, false)
	if err != nil {
		return 0, err
	}
	if err := s.Run(); err != nil {
		return 0, err
	}
	return s.CountWithAssociates(), nil
}
