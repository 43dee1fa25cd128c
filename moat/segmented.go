package moat

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/gausslab/gintsieve/gint"
	"github.com/gausslab/gintsieve/sieve"
)

// unionFind merges component ids across strip boundaries, accumulating
// component sizes at the roots.
type unionFind struct {
	parent []int32
	size   []int64
}

func (u *unionFind) makeSet() int32 {
	id := int32(len(u.parent))
	u.parent = append(u.parent, id)
	u.size = append(u.size, 0)
	return id
}

func (u *unionFind) find(id int32) int32 {
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}
	return id
}

func (u *unionFind) union(a, b int32) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
	u.size[rb] = 0
}

// boundaryPrime is a prime in a strip's wall columns together with its
// component id.
type boundaryPrime struct {
	g  gint.GaussInt
	id int32
}

// SegmentedMoat counts the connected components of the octant prime graph
// to normBound without holding the whole octant in memory: it sieves
// vertical strips left to right, flood-fills within each strip, and merges
// components that touch across strip boundaries with a union-find.
// Components that stop propagating need no further state.
type SegmentedMoat struct {
	normBound int64
	jumpSize  float64
	verbose   bool

	// StripDX is the strip width; it must be at least the jump size so that
	// no edge spans more than one boundary.
	StripDX int64

	fullNeighbors []gint.GaussInt
	sievingPrimes []gint.GaussInt
	dsu           unionFind
	originID      int32
}

// SegmentedMoatResult reports the component census of a run.
type SegmentedMoatResult struct {
	Components int64
	OriginSize int64
	Largest    int64
}

func NewSegmentedMoat(normBound int64, jumpSize float64, verbose bool) (*SegmentedMoat, error) {
	if jumpSize <= 0 {
		return nil, fmt.Errorf("moat: jump size %v must be positive", jumpSize)
	}
	dx := int64(100)
	if min := int64(math.Ceil(jumpSize)) * 4; dx < min {
		dx = min
	}
	m := &SegmentedMoat{
		normBound: normBound,
		jumpSize:  jumpSize,
		verbose:   verbose,
		StripDX:   dx,
		originID:  -1,
	}
	r := int64(jumpSize)
	limit := int64(math.Floor(jumpSize*jumpSize + 1e-9))
	for u := -r; u <= r; u++ {
		for v := -r; v <= r; v++ {
			if (u != 0 || v != 0) && u*u+v*v <= limit {
				m.fullNeighbors = append(m.fullNeighbors, gint.GaussInt{A: u, B: v})
			}
		}
	}
	return m, nil
}

// connects reports whether two primes are one jump apart. Edges incident to
// 1 + i are exempt from the parity rule.
func (m *SegmentedMoat) connects(p, q gint.GaussInt) bool {
	u, v := q.A-p.A, q.B-p.B
	if u == 0 && v == 0 {
		return false
	}
	if float64(u*u+v*v) > m.jumpSize*m.jumpSize+1e-9 {
		return false
	}
	if abs64(u)%2 == abs64(v)%2 {
		return true
	}
	return (p.A == 1 && p.B == 1) || (q.A == 1 && q.B == 1)
}

// exploreStrip flood-fills one strip. Cells are valid when they survived the
// block sieve, lie on or below the diagonal, and respect the norm bound.
// Returns the strip's right-wall boundary primes with their component ids.
func (m *SegmentedMoat) exploreStrip(x, x2 int64, arr [][]bool, left []boundaryPrime) []boundaryPrime {
	dx := x2 - x
	valid := func(a, b int64) bool {
		u := a - x
		return u >= 0 && u < dx && b >= 0 && b < int64(len(arr[u])) &&
			b <= a && a*a+b*b <= m.normBound && arr[u][b]
	}

	ids := make([][]int32, dx)
	for u := range ids {
		col := make([]int32, len(arr[u]))
		for i := range col {
			col[i] = -1
		}
		ids[u] = col
	}

	var right []boundaryPrime
	for u := int64(0); u < dx; u++ {
		a := x + u
		for b := int64(0); b < int64(len(arr[u])); b++ {
			if !valid(a, b) || ids[u][b] >= 0 {
				continue
			}
			id := m.dsu.makeSet()
			stack := []gint.GaussInt{{A: a, B: b}}
			ids[u][b] = id
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				m.dsu.size[id]++
				if p.A == 1 && p.B == 1 {
					m.originID = id
				}
				if float64(x2-1-p.A) < m.jumpSize {
					right = append(right, boundaryPrime{p, id})
				}
				// The full neighborhood is filtered through connects, which
				// admits odd-parity edges only at 1 + i.
				for _, q := range m.fullNeighbors {
					g := p.Add(q)
					if valid(g.A, g.B) && ids[g.A-x][g.B] < 0 && m.connects(p, g) {
						ids[g.A-x][g.B] = id
						stack = append(stack, g)
					}
				}
			}
		}
	}

	// Merge with the previous strip across the shared boundary.
	for u := int64(0); u < dx; u++ {
		a := x + u
		if float64(a-x) >= m.jumpSize {
			break
		}
		for b := int64(0); b < int64(len(arr[u])); b++ {
			if ids[u][b] < 0 {
				continue
			}
			p := gint.GaussInt{A: a, B: b}
			for _, lb := range left {
				if m.connects(lb.g, p) {
					m.dsu.union(lb.id, ids[u][b])
				}
			}
		}
	}
	return right
}

// Run sieves and explores every strip and returns the component census.
func (m *SegmentedMoat) Run() (*SegmentedMoatResult, error) {
	rt := gint.Isqrt(m.normBound)
	sievingBound := gint.Isqrt(2 * m.normBound)
	ps, err := sieve.Bootstrap(sievingBound)
	if err != nil {
		return nil, err
	}
	m.sievingPrimes = ps

	var left []boundaryPrime
	for x := int64(1); x <= rt; x += m.StripDX {
		x2 := min(x+m.StripDX, rt+1)
		if m.verbose {
			log.Infof("segmented moat strip [%d, %d)", x, x2)
		}
		s, err := sieve.NewBlockSieve(x, 0, x2-x, x2, false)
		if err != nil {
			return nil, err
		}
		if err := s.SetSmallPrimesFromList(m.sievingPrimes, sievingBound); err != nil {
			return nil, err
		}
		if err := s.Run(); err != nil {
			return nil, err
		}
		left = m.exploreStrip(x, x2, s.SieveArray(), left)
	}

	res := &SegmentedMoatResult{}
	for id := range m.dsu.parent {
		if m.dsu.find(int32(id)) == int32(id) && m.dsu.size[id] > 0 {
			res.Components++
			if m.dsu.size[id] > res.Largest {
				res.Largest = m.dsu.size[id]
			}
		}
	}
	if m.originID >= 0 {
		res.OriginSize = m.dsu.size[m.dsu.find(m.originID)]
	}
	if m.verbose {
		log.Infof("segmented moat: %d components, origin component %d, largest %d",
			res.Components, res.OriginSize, res.Largest)
	}
	return res, nil
}
