package shader

import (
	"math/rand/v2"

	"github.com/flavioheleno/udc/charbuf"
)

// Effect alters the buffer about to be rendered. It never touches the content
// producers wrote.
type Effect interface {
	Apply(t int64, buf *charbuf.Buffer)
}

// Glitch briefly replaces a few cells with random printable glyphs.
type Glitch struct {
	// Rate is the number of glitches per second.
	Rate float64 `json:"rate"`
	// Duration of one glitch, in microseconds.
	Duration int64 `json:"duration"`
	// Cells replaced per frame while a glitch is active.
	Cells int `json:"cells"`

	rng   *rand.Rand
	next  int64
	until int64
}

// NewGlitch returns a glitch effect drawing from rng.
func NewGlitch(rate float64, duration int64, cells int, rng *rand.Rand) *Glitch {
	return &Glitch{Rate: rate, Duration: duration, Cells: cells, rng: rng}
}

// Active reports whether a glitch is showing at t.
func (g *Glitch) Active(t int64) bool {
	return t < g.until
}

// Apply implements Effect.
func (g *Glitch) Apply(t int64, buf *charbuf.Buffer) {
	if g.Rate <= 0 || buf.Len() == 0 {
		return
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if t >= g.next {
		g.until = t + g.Duration
		interval := int64(1e6 / g.Rate)
		// Jitter the gap by up to half the mean interval either way.
		if interval > 1 {
			interval += g.rng.Int64N(interval) - interval/2
		}
		g.next = t + max(interval, g.Duration)
	}
	if !g.Active(t) {
		return
	}
	for range max(g.Cells, 1) {
		i := g.rng.IntN(buf.Len())
		buf.Chars[i] = byte('!' + g.rng.IntN('~'-'!'+1))
	}
}
