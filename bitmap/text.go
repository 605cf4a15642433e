package bitmap

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

// Face is the bitmap font used for text on pixel displays.
var Face font.Face = basicfont.Face7x13

// DrawText draws s onto dst with the top left corner of the first glyph at
// at. It works on any pixel buffer, including pixbuf.Mono.
func DrawText(dst draw.Image, s string, c color.Color, at image.Point) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: Face,
		Dot:  fixed.P(at.X, at.Y+Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(Face, s).Ceil()
}

// Text draws a string into the pixel buffer, optionally scrolling it from
// right to left at Speed pixels per second.
type Text struct {
	Text  string  `json:"text"`
	Color hsv.RGB `json:"color"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Speed float64 `json:"speed"`
}

// Generate implements Generator.
func (g Text) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	fill(dst, m, hsv.Black)
	x := g.X
	if g.Speed != 0 {
		w := dst.Bounds().Dx() + TextWidth(g.Text)
		if w > 0 {
			shift := int(float64(t) / 1e6 * g.Speed)
			x = dst.Bounds().Dx() - (shift%w+w)%w
		}
	}
	DrawText(dst, g.Text, g.Color, image.Pt(x, g.Y))
}
