// Package shader holds the per-LED colour functions, the transitions between
// two character buffers and the text effects of the segment displays.
package shader

import (
	"image"

	"golang.org/x/image/math/fixed"

	"github.com/flavioheleno/udc/fx"
	"github.com/flavioheleno/udc/hsv"
)

// Shader colours a lit LED. cell is the character cell, led the LED index
// inside the cell and p its pixel position on the display.
type Shader interface {
	Shade(t int64, cell, led int, p image.Point) hsv.RGB
}

// Static lights every LED with one colour.
type Static struct {
	Color hsv.RGB `json:"color"`
}

// Shade implements Shader.
func (s Static) Shade(int64, int, int, image.Point) hsv.RGB {
	return s.Color
}

// DefaultStatic is the fallback shader, plain white.
var DefaultStatic = Static{Color: hsv.RGB{R: 255, G: 255, B: 255}}

// Rainbow sweeps the hue circle across the display. Speed is in degrees per
// second and Spread in degrees per pixel column.
type Rainbow struct {
	Speed  float64 `json:"speed"`
	Spread float64 `json:"spread"`
}

// Shade implements Shader.
func (s Rainbow) Shade(t int64, _, _ int, p image.Point) hsv.RGB {
	base := fx.MulWide(fx.Seconds(t), fx.FromFloat(s.Speed))
	pos := fx.Mul(fx.FromInt(p.X), fx.FromFloat(s.Spread))
	return hsv.Hue(fx.ModDegrees(base + fixed.Int52_12(pos)))
}

// Linear blends From at the left edge into To at the right edge of a display
// Width pixels wide.
type Linear struct {
	From  hsv.RGB `json:"from"`
	To    hsv.RGB `json:"to"`
	Width int     `json:"width"`
}

// Shade implements Shader.
func (s Linear) Shade(_ int64, _, _ int, p image.Point) hsv.RGB {
	if s.Width <= 1 {
		return s.From
	}
	x := min(max(p.X, 0), s.Width-1)
	return hsv.Lerp(s.From, s.To, uint8(x*255/(s.Width-1)))
}
