// Package sieve implements two-dimensional sieves of Eratosthenes over the
// Gaussian integers. A sieve is constructed for a geometric region (first
// octant, angular sector, or rectangular block) with a norm bound, acquires
// its sieving primes through a recursive bootstrap, crosses off multiples of
// each sieving prime in ascending norm order, and harvests the survivors.
// Donut-accelerated variants compress each 10x10 tile of the plane into a
// 32-bit word covering the residues coprime to 10.
package sieve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/gausslab/gintsieve/gint"
	"github.com/gausslab/gintsieve/internal/progress"
)

var (
	// ErrNotEnoughPrimes reports a sieving-prime list whose covered norm
	// falls short of the square root of the sieve's norm bound.
	ErrNotEnoughPrimes = errors.New("sieve: not enough sieving primes")

	// ErrInvalidRegion reports degenerate region parameters.
	ErrInvalidRegion = errors.New("sieve: invalid region")

	// ErrOverflow reports a norm bound outside the machine-integer range.
	ErrOverflow = errors.New("sieve: norm bound overflows")
)

// MaxNorm is the largest supported norm bound.
const MaxNorm = int64(1) << 62

// Bootstrap thresholds: up to directBound small primes are enumerated by
// direct primality testing, up to plainBound by the plain octant sieve, and
// beyond that by the donut octant sieve.
const (
	directBound = 10_000
	plainBound  = 1_000_000
)

// flavor is the region-specific half of a sieve: array allocation and
// initialization, the cross-off rule for one sieving prime, and the harvest
// of surviving coordinates into the core's big-prime list.
type flavor interface {
	setSieveArray() error
	crossOffMultiples(g gint.GaussInt)
	setBigPrimes()
}

// Core holds the state shared by every sieve flavor: the norm bound, the
// sieving primes, the harvested primes, and progress accounting.
type Core struct {
	maxNorm     int64
	verbose     bool
	smallPrimes []gint.GaussInt
	bigPrimes   []gint.GaussInt
	harvested   bool
	sorted      bool
}

func newCore(maxNorm int64, verbose bool) (Core, error) {
	if maxNorm < 0 || maxNorm > MaxNorm {
		return Core{}, fmt.Errorf("%w: max norm %d", ErrOverflow, maxNorm)
	}
	return Core{maxNorm: maxNorm, verbose: verbose}, nil
}

// NormBound returns the sieve's norm bound.
func (c *Core) NormBound() int64 { return c.maxNorm }

// SetSmallPrimesFromList injects a precomputed sieving-prime list instead of
// running the bootstrap. The list must contain every Gaussian prime of norm
// at most coveredNorm, which in turn must reach the square root of the
// sieve's norm bound; primes beyond that are filtered out.
func (c *Core) SetSmallPrimesFromList(primes []gint.GaussInt, coveredNorm int64) error {
	rt := gint.Isqrt(c.maxNorm)
	if rt >= 2 && coveredNorm < rt {
		return fmt.Errorf("%w: have norms to %d, need %d", ErrNotEnoughPrimes, coveredNorm, rt)
	}
	c.smallPrimes = make([]gint.GaussInt, 0, len(primes))
	for _, g := range primes {
		if g.Norm() <= rt {
			c.smallPrimes = append(c.smallPrimes, g)
		}
	}
	return nil
}

func (c *Core) setSmallPrimes() error {
	if c.smallPrimes != nil {
		return nil
	}
	bound := gint.Isqrt(c.maxNorm)
	if c.verbose {
		log.Infof("bootstrapping sieving primes to norm %d", bound)
	}
	ps, err := Bootstrap(bound)
	if err != nil {
		return err
	}
	c.smallPrimes = ps
	return nil
}

// sieveLoop crosses off multiples of each sieving prime in ascending norm
// order. Progress advances by each prime's 1/norm share of the total
// harmonic work.
func (c *Core) sieveLoop(f flavor) {
	var total float64
	for _, g := range c.smallPrimes {
		total += 1.0 / float64(g.Norm())
	}
	var bar *progress.ProgressBar
	if c.verbose {
		log.Infof("crossing off multiples of %d sieving primes", len(c.smallPrimes))
		bar = progress.NewProgressBar(total, "Sieving")
	}
	for _, g := range c.smallPrimes {
		f.crossOffMultiples(g)
		if bar != nil {
			bar.Update(1.0 / float64(g.Norm()))
		}
	}
	if bar != nil {
		bar.Finish()
	}
}

// run drives the three-phase pipeline: sieving primes, array setup,
// cross-off. The array is read-only afterwards; big primes are harvested
// lazily on first access.
func (c *Core) run(f flavor) error {
	if err := c.setSmallPrimes(); err != nil {
		return err
	}
	if err := f.setSieveArray(); err != nil {
		return err
	}
	c.sieveLoop(f)
	return nil
}

func (c *Core) harvest(f flavor) {
	if !c.harvested {
		f.setBigPrimes()
		c.harvested = true
	}
}

// primes returns the harvested big primes, sorting by (norm, A, B) on
// request; without sorting the order is the flavor's array-scan order.
func (c *Core) primes(f flavor, sorted bool) []gint.GaussInt {
	c.harvest(f)
	if sorted && !c.sorted {
		gint.Sort(c.bigPrimes)
		c.sorted = true
	}
	return c.bigPrimes
}

func (c *Core) count(f flavor) int64 {
	c.harvest(f)
	return int64(len(c.bigPrimes))
}

// countWithAssociates expands a canonical first-octant harvest to the full
// plane: eight per interior representative, four per real (inert)
// representative, four for the ramified prime 1+i.
func (c *Core) countWithAssociates(f flavor) int64 {
	c.harvest(f)
	var n int64
	for _, g := range c.bigPrimes {
		if g.B == 0 || g.A == g.B {
			n += 4
		} else {
			n += 8
		}
	}
	return n
}

// interleaved flattens the harvest into [a0, b0, a1, b1, ...] for handoff to
// numerical consumers.
func (c *Core) interleaved(f flavor) []int64 {
	ps := c.primes(f, true)
	out := make([]int64, 0, 2*len(ps))
	for _, g := range ps {
		out = append(out, g.A, g.B)
	}
	return out
}

// writeBigPrimes persists the harvest to primes_<N>.csv in dir, one "a,b"
// line per prime, and returns the file path.
func (c *Core) writeBigPrimes(f flavor, dir string) (string, error) {
	ps := c.primes(f, true)
	path := fmt.Sprintf("primes_%d.csv", c.maxNorm)
	if dir != "" {
		path = dir + string(os.PathSeparator) + path
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(file)
	for _, g := range ps {
		fmt.Fprintf(w, "%d,%d\n", g.A, g.B)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}

// printPrimes writes "a b" pairs, one per line.
func (c *Core) printPrimes(f flavor, w io.Writer) {
	bw := bufio.NewWriter(w)
	for _, g := range c.primes(f, true) {
		fmt.Fprintf(bw, "%d %d\n", g.A, g.B)
	}
	bw.Flush()
}

// renderArray writes an ASCII view of a sieve region with the same
// orientation as the complex plane: '*' for a set cell, ' ' otherwise.
func renderArray(w io.Writer, width, height int64, at func(a, b int64) bool) {
	bw := bufio.NewWriter(w)
	for v := height - 1; v >= 0; v-- {
		var row strings.Builder
		for u := int64(0); u < width; u++ {
			if at(u, v) {
				row.WriteByte('*')
			} else {
				row.WriteByte(' ')
			}
		}
		fmt.Fprintln(bw, row.String())
	}
	bw.Flush()
}

// Bootstrap produces the Gaussian primes of norm at most bound, picking the
// cheapest flavor for the size: direct enumeration at the recursion floor,
// the plain octant sieve at mid range, the donut octant sieve above. The
// explicit table replaces mutual recursion between sieve variants.
func Bootstrap(bound int64) ([]gint.GaussInt, error) {
	switch {
	case bound < 2:
		return nil, nil
	case bound <= directBound:
		return gint.DirectOctantPrimes(bound), nil
	case bound <= plainBound:
		s, err := NewOctantSieve(bound, false)
		if err != nil {
			return nil, err
		}
		if err := s.Run(); err != nil {
			return nil, err
		}
		return s.Primes(true), nil
	default:
		s, err := NewOctantDonutSieve(bound, false)
		if err != nil {
			return nil, err
		}
		if err := s.Run(); err != nil {
			return nil, err
		}
		return s.Primes(true), nil
	}
}

// divFloor returns floor(n/m) for m > 0.
func divFloor(n, m int64) int64 {
	q := n / m
	if n%m != 0 && n < 0 {
		q--
	}
	return q
}

// divCeil returns ceil(n/m) for m > 0.
func divCeil(n, m int64) int64 {
	return -divFloor(-n, m)
}
