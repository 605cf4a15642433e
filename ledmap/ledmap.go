// Package ledmap maps logical LEDs of a segment display onto byte offsets of
// the shared 24bpp pixel buffer.
//
// Logical LEDs are numbered in the order of the daisy chain: character cells
// row-major, then the 49 LEDs of each cell in segfont.Ranges order. A
// generator that paints the pixel buffer through the map lights exactly the
// pixels the hybrid renderer samples.
package ledmap

import (
	"errors"
	"fmt"
	"image"

	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/segfont"
)

// Geometry is the size of a segment display in character cells.
type Geometry struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Cells returns the number of character cells.
func (g Geometry) Cells() int {
	return g.Cols * g.Rows
}

// LEDs returns the number of logical LEDs.
func (g Geometry) LEDs() int {
	return g.Cells() * segfont.LEDsPerChar
}

// Bounds returns the pixel buffer rectangle covering the display.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Cols*segfont.CellWidth, g.Rows*segfont.CellHeight)
}

// Map is the logical LED to pixel buffer offset table.
type Map struct {
	Geometry
	// Rect, when set, replaces the bounds derived from Geometry. Grid maps
	// have no character geometry.
	Rect image.Rectangle
	// Offsets holds the byte offset of the red channel of every LED.
	Offsets []int32
}

// Grid returns a map with one LED per pixel of r, for pixel displays such as
// flipdot panels. LEDs follow the column-major order of the pixel buffer.
func Grid(r image.Rectangle) (*Map, error) {
	if r.Empty() {
		return nil, errors.New("ledmap: empty grid")
	}
	r = r.Sub(r.Min)
	m := &Map{Rect: r, Offsets: make([]int32, r.Dx()*r.Dy())}
	for i := range m.Offsets {
		m.Offsets[i] = int32(i * 3)
	}
	return m, nil
}

// Bounds returns the pixel buffer rectangle the map covers.
func (m *Map) Bounds() image.Rectangle {
	if !m.Rect.Empty() {
		return m.Rect
	}
	return m.Geometry.Bounds()
}

// New builds the map of g from segfont.Template.
func New(g Geometry) (*Map, error) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return nil, errors.New("ledmap: geometry must be at least 1x1")
	}
	buf := pixbuf.RGB{Rect: g.Bounds()}
	m := &Map{Geometry: g, Offsets: make([]int32, 0, g.LEDs())}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			origin := image.Pt(col*segfont.CellWidth, row*segfont.CellHeight)
			for _, p := range segfont.Template {
				q := origin.Add(p)
				m.Offsets = append(m.Offsets, int32(buf.Offset(q.X, q.Y)))
			}
		}
	}
	return m, nil
}

// FromOffsets wraps a fixed offset table, for harnesses whose LED placement
// does not follow the template.
func FromOffsets(g Geometry, offsets []int32) (*Map, error) {
	if len(offsets) != g.LEDs() {
		return nil, fmt.Errorf("ledmap: %d offsets for %d LEDs", len(offsets), g.LEDs())
	}
	limit := int32(g.Bounds().Dx() * g.Bounds().Dy() * 3)
	for i, off := range offsets {
		if off < 0 || off%3 != 0 || off >= limit {
			return nil, fmt.Errorf("ledmap: LED %d: invalid offset %d", i, off)
		}
	}
	return &Map{Geometry: g, Offsets: offsets}, nil
}

// ReferenceGeometry is the 21x2 character display of the reference harness.
var ReferenceGeometry = Geometry{Cols: 21, Rows: 2}

// Reference is the map of ReferenceGeometry.
var Reference = must(New(ReferenceGeometry))

func must(m *Map, err error) *Map {
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of logical LEDs.
func (m *Map) Len() int {
	return len(m.Offsets)
}

// Offset returns the byte offset of led, or -1 when led is out of range.
func (m *Map) Offset(led int) int {
	if led < 0 || led >= len(m.Offsets) {
		return -1
	}
	return int(m.Offsets[led])
}

// Point returns the pixel position of led.
func (m *Map) Point(led int) image.Point {
	off := m.Offset(led)
	if off < 0 {
		return image.Point{X: -1, Y: -1}
	}
	h := m.Bounds().Dy()
	i := off / 3
	return image.Point{X: i / h, Y: i % h}
}

// Cell splits led into its character cell and its index inside the cell.
func (m *Map) Cell(led int) (cell, index int) {
	return led / segfont.LEDsPerChar, led % segfont.LEDsPerChar
}

// NewBuffer returns a pixel buffer sized for the map.
func (m *Map) NewBuffer() *pixbuf.RGB {
	return pixbuf.NewRGB(m.Bounds())
}
