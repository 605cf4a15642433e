package pixbuf

import (
	"bytes"
	"image"
	"image/color"

	"github.com/flavioheleno/udc/hsv"
)

// RGB is a 24bpp buffer, column-major, three bytes per pixel.
type RGB struct {
	Pix  []byte
	Rect image.Rectangle
}

// NewRGB creates a black RGB buffer.
func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &RGB{Rect: r}
	}
	return &RGB{Pix: make([]byte, w*h*3), Rect: r}
}

// ColorModel returns hsv.Model.
func (p *RGB) ColorModel() color.Model {
	return hsv.Model
}

// Bounds returns the image bounds.
func (p *RGB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the colour of the pixel at (x, y).
func (p *RGB) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

// RGBAt returns the colour of the pixel at (x, y).
func (p *RGB) RGBAt(x, y int) hsv.RGB {
	return p.AtOffset(p.Offset(x, y))
}

// Set sets the pixel at (x, y) from any colour.
func (p *RGB) Set(x, y int, c color.Color) {
	p.SetRGB(x, y, hsv.Model.Convert(c).(hsv.RGB))
}

// SetRGB sets the pixel at (x, y) without colour conversion.
func (p *RGB) SetRGB(x, y int, c hsv.RGB) {
	p.SetOffset(p.Offset(x, y), c)
}

// Offset returns the byte offset of the red channel of (x, y), or -1 when the
// point is outside the bounds.
func (p *RGB) Offset(x, y int) int {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return -1
	}
	return ((x-p.Rect.Min.X)*p.Rect.Dy() + (y - p.Rect.Min.Y)) * 3
}

// XY returns the point stored at byte offset off. It is the inverse of Offset.
func (p *RGB) XY(off int) image.Point {
	i := off / 3
	h := p.Rect.Dy()
	if h <= 0 {
		return p.Rect.Min
	}
	return image.Point{X: p.Rect.Min.X + i/h, Y: p.Rect.Min.Y + i%h}
}

// AtOffset returns the colour stored at off, black when off is invalid.
func (p *RGB) AtOffset(off int) hsv.RGB {
	if off < 0 || off+2 >= len(p.Pix) {
		return hsv.Black
	}
	return hsv.RGB{R: p.Pix[off], G: p.Pix[off+1], B: p.Pix[off+2]}
}

// SetOffset stores c at off, ignoring invalid offsets.
func (p *RGB) SetOffset(off int, c hsv.RGB) {
	if off < 0 || off+2 >= len(p.Pix) {
		return
	}
	p.Pix[off] = c.R
	p.Pix[off+1] = c.G
	p.Pix[off+2] = c.B
}

// Fill sets every pixel to c.
func (p *RGB) Fill(c hsv.RGB) {
	for i := 0; i+2 < len(p.Pix); i += 3 {
		p.Pix[i] = c.R
		p.Pix[i+1] = c.G
		p.Pix[i+2] = c.B
	}
}

// Equal reports whether both buffers have the same bounds and pixels.
func (p *RGB) Equal(o *RGB) bool {
	return p.Rect == o.Rect && bytes.Equal(p.Pix, o.Pix)
}

// Clone returns a deep copy of p.
func (p *RGB) Clone() *RGB {
	return &RGB{Pix: bytes.Clone(p.Pix), Rect: p.Rect}
}

// CopyFrom copies the pixels of src, reusing p's storage.
func (p *RGB) CopyFrom(src *RGB) {
	p.Rect = src.Rect
	p.Pix = append(p.Pix[:0], src.Pix...)
}

// Clear sets every pixel to black.
func (p *RGB) Clear() {
	clear(p.Pix)
}
