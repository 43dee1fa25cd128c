package gint

import "bytes"

// RationalSieve returns a primality table for the rational integers 0..n:
// table[i] is nonzero iff i is prime. Uses bytes.Repeat for fast
// initialization.
func RationalSieve(n int64) []byte {
	if n < 1 {
		n = 1
	}
	table := append([]byte{0, 0}, bytes.Repeat([]byte{1}, int(n-1))...)
	for i := int64(2); i*i <= n; i++ {
		if table[i] == 1 {
			for j := i * i; j <= n; j += i {
				table[j] = 0
			}
		}
	}
	return table
}

// IsPrime reports whether g is a Gaussian prime, using a rational primality
// table that must cover g's norm (for split and ramified candidates) or its
// real part (for inert candidates). Folds g into the first octant first.
//
// A Gaussian integer is prime iff its norm is a rational prime (the split
// primes above p = 2 or p = 1 mod 4), or it is an associate of a rational
// prime p = 3 mod 4 (the inert primes, of norm p^2).
func IsPrime(g GaussInt, table []byte) bool {
	c := g.Octant()
	if c.B == 0 {
		return c.A >= 2 && c.A < int64(len(table)) && table[c.A] != 0 && c.A%4 == 3
	}
	n := c.Norm()
	return n < int64(len(table)) && table[n] != 0
}

// DirectOctantPrimes enumerates the Gaussian primes in the first octant with
// norm at most bound by direct primality testing against a rational sieve.
// It is the recursion floor of the sieve bootstrap and the ground-truth
// oracle in tests. Results are sorted by (norm, A, B).
func DirectOctantPrimes(bound int64) []GaussInt {
	if bound < 2 {
		return nil
	}
	table := RationalSieve(bound)
	rt := Isqrt(bound)
	var primes []GaussInt
	for a := int64(1); a <= rt; a++ {
		bMax := Isqrt(bound - a*a)
		if bMax > a {
			bMax = a
		}
		for b := int64(0); b <= bMax; b++ {
			g := GaussInt{a, b}
			if IsPrime(g, table) {
				primes = append(primes, g)
			}
		}
	}
	Sort(primes)
	return primes
}
