// Package moat explores the connectivity of Gaussian primes under bounded
// jumps: whether one can walk from the origin toward infinity stepping only
// on primes, each hop of Euclidean length at most jumpSize. Three explorers
// share the question: a flood fill over a fully sieved octant, a vertical
// block-sliding search along a fixed real part, and a segmented
// component counter with union-find across strip boundaries.
package moat

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/gausslab/gintsieve/gint"
	"github.com/gausslab/gintsieve/sieve"
)

var (
	// ErrDiverging reports ten consecutive right-steps of the vertical moat:
	// the component is likely infinite at this jump size.
	ErrDiverging = errors.New("moat: component likely infinite")

	// ErrWallPunch reports a flood fill escaping through a wall the block
	// geometry deems unreachable.
	ErrWallPunch = errors.New("moat: punched through wall")
)

// Stencil returns the neighbor offsets of a jump: all (u, v) with
// 0 < u^2 + v^2 <= jumpSize^2 and |u|, |v| of equal parity. Apart from
// 1 + i, every Gaussian prime has odd coordinate sum, so jumps between them
// have even component sum.
func Stencil(jumpSize float64) []gint.GaussInt {
	r := int64(jumpSize)
	limit := int64(math.Floor(jumpSize*jumpSize + 1e-9))
	var offsets []gint.GaussInt
	for u := -r; u <= r; u++ {
		for v := -r; v <= r; v++ {
			if (u != 0 || v != 0) && u*u+v*v <= limit && abs64(u)%2 == abs64(v)%2 {
				offsets = append(offsets, gint.GaussInt{A: u, B: v})
			}
		}
	}
	return offsets
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// OctantMoat sieves the whole first octant to normBound and answers
// reachability questions by flood fill. The sieve array doubles as the
// visited marker: exploration clears cells as it goes.
type OctantMoat struct {
	normBound int64
	jumpSize  float64
	verbose   bool
	arr       [][]bool
	neighbors []gint.GaussInt
	current   []gint.GaussInt
}

func NewOctantMoat(normBound int64, jumpSize float64, verbose bool) (*OctantMoat, error) {
	if jumpSize <= 0 {
		return nil, fmt.Errorf("moat: jump size %v must be positive", jumpSize)
	}
	s, err := sieve.NewOctantSieve(normBound, verbose)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return &OctantMoat{
		normBound: normBound,
		jumpSize:  jumpSize,
		verbose:   verbose,
		arr:       s.SieveArray(),
		neighbors: Stencil(jumpSize),
	}, nil
}

func (m *OctantMoat) isSet(a, b int64) bool {
	return a >= 0 && a < int64(len(m.arr)) && b >= 0 && b < int64(len(m.arr[a])) && m.arr[a][b]
}

// nearRamified reports whether 1 + i lies within jumpSize of p. The parity
// stencil never reaches the ramified prime, the one prime with even
// coordinate sum, so its edges are handled explicitly.
func (m *OctantMoat) nearRamified(p gint.GaussInt) bool {
	da, db := p.A-1, p.B-1
	return float64(da*da+db*db) <= m.jumpSize*m.jumpSize+1e-9
}

// ExploreComponent flood-fills from the given seed with an explicit work
// stack and returns the reached component. The octant is a fundamental
// domain: any full-plane walk folds into it step by step, since primes and
// the stencil are symmetric under conjugation and coordinate swap, so the
// guarded fill equals the full-plane component intersected with the octant.
func (m *OctantMoat) ExploreComponent(a, b int64) []gint.GaussInt {
	if !m.isSet(a, b) {
		return nil
	}
	m.current = m.current[:0]
	stack := []gint.GaussInt{{A: a, B: b}}
	m.arr[a][b] = false
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.current = append(m.current, p)

		fromRamified := p.A == 1 && p.B == 1
		for _, q := range m.neighbors {
			g := p.Add(q)
			if m.isSet(g.A, g.B) {
				m.arr[g.A][g.B] = false
				stack = append(stack, g)
			}
		}
		// Edges incident to 1 + i break the parity rule.
		if fromRamified {
			r := int64(m.jumpSize)
			for u := -r; u <= r; u++ {
				for v := -r; v <= r; v++ {
					if (u != 0 || v != 0) && float64(u*u+v*v) <= m.jumpSize*m.jumpSize+1e-9 && m.isSet(1+u, 1+v) {
						m.arr[1+u][1+v] = false
						stack = append(stack, gint.GaussInt{A: 1 + u, B: 1 + v})
					}
				}
			}
		} else if m.nearRamified(p) && m.isSet(1, 1) {
			m.arr[1][1] = false
			stack = append(stack, gint.GaussInt{A: 1, B: 1})
		}
	}
	component := make([]gint.GaussInt, len(m.current))
	copy(component, m.current)
	gint.Sort(component)
	if m.verbose {
		log.Infof("component from (%d, %d): %d primes", a, b, len(component))
	}
	return component
}

// ExploreAllComponents partitions every prime in the octant into connected
// components, in ascending cell order.
func (m *OctantMoat) ExploreAllComponents() [][]gint.GaussInt {
	var components [][]gint.GaussInt
	for a := int64(0); a < int64(len(m.arr)); a++ {
		for b := int64(0); b < int64(len(m.arr[a])); b++ {
			if m.arr[a][b] {
				components = append(components, m.ExploreComponent(a, b))
			}
		}
	}
	return components
}

// Unexplored returns the primes not reached by any exploration so far.
func (m *OctantMoat) Unexplored() []gint.GaussInt {
	var left []gint.GaussInt
	for a := int64(0); a < int64(len(m.arr)); a++ {
		for b := int64(0); b < int64(len(m.arr[a])); b++ {
			if m.arr[a][b] {
				left = append(left, gint.GaussInt{A: a, B: b})
			}
		}
	}
	return left
}

// CurrentComponent returns the most recently explored component, sorted.
func (m *OctantMoat) CurrentComponent() []gint.GaussInt {
	c := make([]gint.GaussInt, len(m.current))
	copy(c, m.current)
	gint.Sort(c)
	return c
}

// ComponentMax returns the (norm, A, B)-largest element of the most recent
// component.
func (m *OctantMoat) ComponentMax() (gint.GaussInt, bool) {
	if len(m.current) == 0 {
		return gint.GaussInt{}, false
	}
	best := m.current[0]
	for _, g := range m.current[1:] {
		if best.Less(g) {
			best = g
		}
	}
	return best, true
}
