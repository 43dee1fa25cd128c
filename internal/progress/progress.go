package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressBar provides a simple terminal progress bar that writes to stderr.
// Totals are abstract work units, so callers with uneven work items (such as
// a sieve whose cross-off cost scales with 1/norm) can report fractional
// deltas.
type ProgressBar struct {
	total       float64
	completed   float64
	width       int
	startTime   time.Time
	description string
	mu          sync.Mutex
}

func NewProgressBar(total float64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		width:       40,
		description: description,
		startTime:   time.Now(),
	}
}

func (p *ProgressBar) Update(delta float64) {
	p.mu.Lock()
	p.completed += delta
	p.render()
	p.mu.Unlock()
}

func (p *ProgressBar) SetTotal(total float64) {
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
}

func (p *ProgressBar) Finish() {
	p.mu.Lock()
	p.completed = p.total
	p.render()
	fmt.Fprintln(os.Stderr)
	p.mu.Unlock()
}

func (p *ProgressBar) GetCompleted() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}

	percent := p.completed / p.total
	if percent > 1.0 {
		percent = 1.0
	}

	filled := int(percent * float64(p.width))
	elapsed := time.Since(p.startTime)

	fmt.Fprintf(os.Stderr, "\r%s: [%s%s] %3.0f%% | %.1fs",
		p.description,
		strings.Repeat("=", filled),
		strings.Repeat(" ", p.width-filled),
		percent*100,
		elapsed.Seconds())
}

func FormatNumber(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	} else if n >= 1_000_000 {
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	} else if n >= 1_000 {
		return fmt.Sprintf("%.2fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
