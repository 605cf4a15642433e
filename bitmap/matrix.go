package bitmap

import (
	"math/rand/v2"

	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

// MatrixParams configures the falling rain effect.
type MatrixParams struct {
	Color     hsv.RGB `json:"color"`
	Lead      hsv.RGB `json:"lead"`
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
	// Delays between steps of a column, in microseconds.
	MinDelay int64 `json:"min_delay"`
	MaxDelay int64 `json:"max_delay"`
}

// DefaultMatrix is green rain with white heads.
var DefaultMatrix = MatrixParams{
	Color:     hsv.RGB{G: 255},
	Lead:      hsv.RGB{R: 255, G: 255, B: 255},
	MinLength: 4,
	MaxLength: 12,
	MinDelay:  40_000,
	MaxDelay:  150_000,
}

// Column is the state of one pixel column of the rain.
type Column struct {
	// Position is the row of the top of the trail; it may be negative while
	// the trail enters the display.
	Position   int
	Length     int
	NextUpdate int64
	Delay      int64
}

// Matrix is the falling rain generator.
//
// Each column advances one row per Delay and wraps from the bottom back to
// -Length, so the trail enters again from above.
type Matrix struct {
	Params  MatrixParams
	Height  int
	Columns []Column
}

// NewMatrix initialises the state of a width x height display with randomised
// phases and speeds drawn from rng.
func NewMatrix(p MatrixParams, width, height int, rng *rand.Rand) *Matrix {
	if p.MinLength < 1 {
		p.MinLength = 1
	}
	if p.MaxLength < p.MinLength {
		p.MaxLength = p.MinLength
	}
	if p.MinDelay < 1 {
		p.MinDelay = 1
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	m := &Matrix{Params: p, Height: height, Columns: make([]Column, max(width, 0))}
	for i := range m.Columns {
		length := p.MinLength + rng.IntN(p.MaxLength-p.MinLength+1)
		m.Columns[i] = Column{
			Position: rng.IntN(height+length) - length,
			Length:   length,
			Delay:    p.MinDelay + rng.Int64N(p.MaxDelay-p.MinDelay+1),
		}
	}
	return m
}

// Step advances every column whose update time has come by exactly one row.
func (g *Matrix) Step(t int64) {
	for i := range g.Columns {
		c := &g.Columns[i]
		if t < c.NextUpdate {
			continue
		}
		c.Position++
		if c.Position >= g.Height {
			c.Position = -c.Length
		}
		c.NextUpdate = t + c.Delay
	}
}

// Color returns the colour of row y in column x.
func (g *Matrix) Color(x, y int) hsv.RGB {
	if x < 0 || x >= len(g.Columns) {
		return hsv.Black
	}
	c := g.Columns[x]
	k := y - c.Position
	switch {
	case k < 0 || k >= c.Length:
		return hsv.Black
	case k == c.Length-1:
		return g.Params.Lead
	}
	return hsv.Scale(g.Params.Color, uint8((k+1)*255/c.Length))
}

// Generate implements Generator.
func (g *Matrix) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	g.Step(t)
	for led, off := range m.Offsets {
		p := m.Point(led)
		dst.SetOffset(int(off), g.Color(p.X, p.Y))
	}
}
