package pixbuf

import (
	"bytes"
	"image"
	"image/color"
)

// Gray is an 8bpp buffer, column-major, one byte per pixel.
type Gray struct {
	Pix  []byte
	Rect image.Rectangle
}

// NewGray creates a black Gray buffer.
func NewGray(r image.Rectangle) *Gray {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Gray{Rect: r}
	}
	return &Gray{Pix: make([]byte, w*h), Rect: r}
}

// ColorModel returns color.GrayModel.
func (p *Gray) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds returns the image bounds.
func (p *Gray) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the colour of the pixel at (x, y).
func (p *Gray) At(x, y int) color.Color {
	return p.GrayAt(x, y)
}

// GrayAt returns the grey level at (x, y).
func (p *Gray) GrayAt(x, y int) color.Gray {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.Gray{}
	}
	return color.Gray{Y: p.Pix[p.pixOffset(x, y)]}
}

// On reports whether the pixel is lit on a binary display.
func (p *Gray) On(x, y int) bool {
	return p.GrayAt(x, y).Y > 127
}

// Set sets the pixel at (x, y).
func (p *Gray) Set(x, y int, c color.Color) {
	p.SetGray(x, y, color.GrayModel.Convert(c).(color.Gray))
}

// SetGray sets the pixel at (x, y) without colour conversion.
func (p *Gray) SetGray(x, y int, c color.Gray) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.pixOffset(x, y)] = c.Y
}

func (p *Gray) pixOffset(x, y int) int {
	return (x-p.Rect.Min.X)*p.Rect.Dy() + (y - p.Rect.Min.Y)
}

// Equal reports whether both buffers have the same bounds and pixels.
func (p *Gray) Equal(o *Gray) bool {
	return p.Rect == o.Rect && bytes.Equal(p.Pix, o.Pix)
}

// Clone returns a deep copy of p.
func (p *Gray) Clone() *Gray {
	return &Gray{Pix: bytes.Clone(p.Pix), Rect: p.Rect}
}

// Clear sets every pixel to black.
func (p *Gray) Clear() {
	clear(p.Pix)
}
