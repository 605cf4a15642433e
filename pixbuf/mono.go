package pixbuf

import (
	"bytes"
	"image"
	"image/color"
)

// Bit is a 1-bit colour.
type Bit bool

// RGBA converts the bit to black or white.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toBit thresholds any colour on its luma, above half intensity is on.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	return Bit(color.GrayModel.Convert(c).(color.Gray).Y > 127)
}

// BitModel converts colours to Bit.
var BitModel = color.ModelFunc(toBit)

// Mono is a 1bpp buffer, column-major with 8 rows packed per byte.
type Mono struct {
	Pix    []byte          // Pixel data
	Stride int             // Bytes per column, ceil(height/8)
	Rect   image.Rectangle // Image bounds
}

// NewMono creates a cleared Mono buffer with the specified bounds.
func NewMono(r image.Rectangle) *Mono {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Mono{Rect: r}
	}
	stride := (h + 7) / 8
	return &Mono{
		Pix:    make([]byte, stride*w),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns BitModel.
func (p *Mono) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *Mono) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the colour of the pixel at (x, y).
func (p *Mono) At(x, y int) color.Color {
	return Bit(p.BitAt(x, y))
}

// BitAt reports whether the pixel at (x, y) is on.
func (p *Mono) BitAt(x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return false
	}
	offset, mask := p.pixOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set sets the pixel at (x, y) from any colour.
func (p *Mono) Set(x, y int, c color.Color) {
	p.SetBit(x, y, bool(BitModel.Convert(c).(Bit)))
}

// SetBit sets the pixel at (x, y) without colour conversion.
func (p *Mono) SetBit(x, y int, on bool) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if on {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
func (p *Mono) pixOffset(x, y int) (offset int, mask byte) {
	x -= p.Rect.Min.X
	y -= p.Rect.Min.Y
	return x*p.Stride + y/8, 1 << uint(y%8)
}

// Equal reports whether both buffers have the same bounds and pixels.
func (p *Mono) Equal(o *Mono) bool {
	return p.Rect == o.Rect && bytes.Equal(p.Pix, o.Pix)
}

// Clone returns a deep copy of p.
func (p *Mono) Clone() *Mono {
	return &Mono{
		Pix:    bytes.Clone(p.Pix),
		Stride: p.Stride,
		Rect:   p.Rect,
	}
}

// CopyFrom makes p a copy of src, reusing p's storage.
func (p *Mono) CopyFrom(src *Mono) {
	p.Rect, p.Stride = src.Rect, src.Stride
	p.Pix = append(p.Pix[:0], src.Pix...)
}

// Clear turns every pixel off.
func (p *Mono) Clear() {
	clear(p.Pix)
}

// Threshold fills dst from any image, thresholding on luma.
func Threshold(dst *Mono, src image.Image) {
	b := dst.Rect.Intersect(src.Bounds())
	dst.Clear()
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}
