package moat

import (
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/gausslab/gintsieve/gint"
	"github.com/gausslab/gintsieve/sieve"
)

// VerticalMoat searches for a moat separating the real axis from the first
// octant's diagonal at a chosen real part: a rectangular block slides right
// or up until its flood fill can no longer cross it. A punch through the
// right wall moves the block right; otherwise the lowest prime the
// upper-wall exploration pushed against the right wall sets the next
// block's height. The moat closes when y reaches the diagonal.
type VerticalMoat struct {
	realPart int64
	jumpSize float64
	verbose  bool

	// Block dimensions; tall, narrow blocks keep the lower wall out of
	// reach of the upper-wall exploration.
	BlockDX int64
	BlockDY int64

	sievingPrimes []gint.GaussInt
	sievingBound  int64
	neighbors     []gint.GaussInt

	x, y  int64
	block *sieve.BlockSieve
	arr   [][]bool

	upperWallYPunch int64
	farthestRight   int64
	countVisited    int64
}

// VerticalMoatResult summarizes a completed run: the moat is present, the
// component bounded by it stayed left of FinalX and below FinalY.
type VerticalMoatResult struct {
	FinalX, FinalY int64
	Visited        int64
}

func NewVerticalMoat(realPart int64, jumpSize float64, verbose bool) (*VerticalMoat, error) {
	if realPart < 2 {
		return nil, fmt.Errorf("moat: real part %d too small", realPart)
	}
	if jumpSize <= 0 {
		return nil, fmt.Errorf("moat: jump size %v must be positive", jumpSize)
	}
	return &VerticalMoat{
		realPart: realPart,
		jumpSize: jumpSize,
		verbose:  verbose,
		BlockDX:  1000,
		BlockDY:  10000,
		x:        realPart,
		neighbors: Stencil(jumpSize),
	}, nil
}

// setSievingPrimes precomputes one prime list covering every block the run
// can touch. The factor 1.2 leaves room for moves to the right.
func (m *VerticalMoat) setSievingPrimes() error {
	bound := int64(1.2 * (math.Sqrt2*float64(m.realPart) + float64(m.BlockDX*m.BlockDY)))
	if m.verbose {
		log.Infof("precomputing sieving primes to norm %d", bound)
	}
	ps, err := sieve.Bootstrap(bound)
	if err != nil {
		return err
	}
	m.sievingPrimes = ps
	m.sievingBound = bound
	return nil
}

func (m *VerticalMoat) sieveBlock() error {
	s, err := sieve.NewBlockSieve(m.x, m.y, m.BlockDX, m.BlockDY, false)
	if err != nil {
		return err
	}
	if err := s.SetSmallPrimesFromList(m.sievingPrimes, m.sievingBound); err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	m.block = s
	m.arr = s.SieveArray()
	return nil
}

// exploreAt flood-fills from block-relative (a, b). In left-wall mode it
// reports a punch through the right wall and stops. In upper-wall mode a
// right-wall touch lowers upperWallYPunch, and escaping through the lower
// wall is a geometry violation.
func (m *VerticalMoat) exploreAt(a, b int64, upperWall bool) (bool, error) {
	stack := []gint.GaussInt{{A: a, B: b}}
	m.arr[a][b] = false
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.countVisited++
		for _, q := range m.neighbors {
			g := p.Add(q)
			if upperWall {
				if g.A >= m.BlockDX && p.B < m.upperWallYPunch {
					m.upperWallYPunch = p.B
				}
				if g.B < 0 {
					// Dump the block for debugging; visited cells show as
					// composites.
					fmt.Fprintf(os.Stderr, "punched through lower wall at (%d, %d); exploration began at (%d, %d)\n",
						g.A, g.B, a, b)
					m.block.PrintSieveArray(os.Stderr)
					return false, fmt.Errorf("%w: lower wall at (%d, %d), exploration began at (%d, %d)",
						ErrWallPunch, g.A, g.B, a, b)
				}
			} else if g.A >= m.BlockDX {
				if m.verbose {
					log.Infof("punched through right wall at (%d, %d); moving block right", g.A, g.B)
				}
				return true, nil
			}
			if g.A >= 0 && g.A < m.BlockDX && g.B >= 0 && g.B < m.BlockDY && m.arr[g.A][g.B] {
				m.arr[g.A][g.B] = false
				stack = append(stack, g)
				if !upperWall && g.A > m.farthestRight {
					m.farthestRight = g.A
				}
			}
		}
	}
	return false, nil
}

// exploreLeftWall walks every component rooted within jumpSize of the left
// wall; true means one of them punched through the right wall.
func (m *VerticalMoat) exploreLeftWall() (bool, error) {
	for a := int64(0); float64(a) < m.jumpSize; a++ {
		for b := int64(0); b < m.BlockDY; b++ {
			if m.arr[a][b] {
				punched, err := m.exploreAt(a, b, false)
				if err != nil || punched {
					return punched, err
				}
			}
		}
	}
	return false, nil
}

func (m *VerticalMoat) exploreUpperWall() error {
	for b := m.BlockDY - 1; float64(m.BlockDY-1-b) < m.jumpSize; b-- {
		for a := int64(0); a < m.BlockDX; a++ {
			if m.arr[a][b] {
				if _, err := m.exploreAt(a, b, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Run slides blocks until the moat closes at the diagonal or the component
// escapes. Ten consecutive right-steps abort the run as likely infinite.
func (m *VerticalMoat) Run() (*VerticalMoatResult, error) {
	if err := m.setSievingPrimes(); err != nil {
		return nil, err
	}
	consecutiveRight := 0
	for m.y < m.x {
		if m.verbose {
			log.Infof("working within block at (%d, %d)", m.x, m.y)
		}
		m.upperWallYPunch = m.BlockDY
		if err := m.sieveBlock(); err != nil {
			return nil, err
		}
		punched, err := m.exploreLeftWall()
		if err != nil {
			return nil, err
		}
		if !punched {
			if err := m.exploreUpperWall(); err != nil {
				return nil, err
			}
			// A zero punch height means the upper-wall component reaches the
			// right wall along the block's base; the block is too narrow to
			// make vertical progress, so step right as well.
			punched = m.upperWallYPunch == 0
		}
		if punched {
			consecutiveRight++
			if consecutiveRight > 10 {
				return nil, fmt.Errorf("%w: stepped right %d times in a row at jump size %v",
					ErrDiverging, consecutiveRight, m.jumpSize)
			}
			m.x += m.BlockDX
			continue
		}
		consecutiveRight = 0
		if m.verbose {
			log.Infof("farthest right reached from left wall: %d", m.farthestRight)
			log.Infof("visited primes so far: %d", m.countVisited)
		}
		m.y += m.upperWallYPunch
	}
	if m.verbose {
		log.Infof("Gaussian moat present from the real axis to the octant boundary; "+
			"the component arising from jump size %v is finite", m.jumpSize)
	}
	return &VerticalMoatResult{FinalX: m.x, FinalY: m.y, Visited: m.countVisited}, nil
}
