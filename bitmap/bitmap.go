// Package bitmap implements the procedural generators that paint the shared
// 24bpp pixel buffer.
//
// A generator is a function of the timestamp in microseconds, its parameters
// and the display geometry. It writes the colour of every logical LED through
// the LED map, so only the pixels the renderer samples are touched. Matrix is
// the one stateful generator; its state lives in the value returned by
// NewMatrix.
package bitmap

import (
	"image"

	"golang.org/x/image/math/fixed"

	"github.com/flavioheleno/udc/fx"
	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

// Generator paints dst at time t (microseconds).
type Generator interface {
	Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map)
}

// None leaves the pixel buffer untouched. It is the fallback for invalid
// generator parameters.
type None struct{}

// Generate does nothing.
func (None) Generate(int64, *pixbuf.RGB, *ledmap.Map) {}

// Solid paints every LED with one colour.
type Solid struct {
	Color hsv.RGB `json:"color"`
}

// Generate implements Generator.
func (g Solid) Generate(_ int64, dst *pixbuf.RGB, m *ledmap.Map) {
	fill(dst, m, g.Color)
}

// RainbowTime cycles every LED through the hue circle, Speed degrees per
// second.
type RainbowTime struct {
	Speed float64 `json:"speed"`
}

// Generate implements Generator.
func (g RainbowTime) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	hue := fx.ModDegrees(fx.MulWide(fx.Seconds(t), fx.FromFloat(g.Speed)))
	fill(dst, m, hsv.Hue(hue))
}

// RainbowGradient spreads the hue circle across the display along the
// direction Angle (degrees) and scrolls it over time.
type RainbowGradient struct {
	Speed float64 `json:"speed"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

// Generate implements Generator.
func (g RainbowGradient) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	pr := newProjector(g.Angle, m.Bounds())
	base := fx.MulWide(fx.Seconds(t), fx.FromFloat(g.Speed*g.Scale))
	deg := fx.FromInt(360)
	for led, off := range m.Offsets {
		pos := fx.Mul(pr.at(m.Point(led)), deg)
		dst.SetOffset(int(off), hsv.Hue(fx.ModDegrees(base+fixed.Int52_12(pos))))
	}
}

// HardGradient splits the display into len(Colors) bands along the direction
// Angle. Bands scroll Speed band widths per second and are never blended.
type HardGradient struct {
	Colors []hsv.RGB `json:"colors"`
	Speed  float64   `json:"speed"`
	Angle  float64   `json:"angle"`
}

// Generate implements Generator.
func (g HardGradient) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	n := int64(len(g.Colors))
	if n == 0 {
		return
	}
	pr := newProjector(g.Angle, m.Bounds())
	shift := fx.MulWide(fx.Seconds(t), fx.FromFloat(g.Speed))
	for led, off := range m.Offsets {
		pos := fixed.Int52_12(pr.at(m.Point(led))) + shift
		band := (int64(pos) * n >> fx.Shift) % n
		if band < 0 {
			band += n
		}
		dst.SetOffset(int(off), g.Colors[band])
	}
}

func fill(dst *pixbuf.RGB, m *ledmap.Map, c hsv.RGB) {
	for _, off := range m.Offsets {
		dst.SetOffset(int(off), c)
	}
}

// projector maps a pixel onto the unit vector at a given angle, normalised by
// the diagonal of the display.
type projector struct {
	cos, sin, diag fx.Q12
}

func newProjector(angle float64, b image.Rectangle) projector {
	a := fx.Radians(fx.FromFloat(angle))
	return projector{
		cos:  fx.Cos(a),
		sin:  fx.Sin(a),
		diag: fx.Hypot(fx.FromInt(b.Dx()), fx.FromInt(b.Dy())),
	}
}

// at returns the normalised position of p, in [-1, 1].
func (pr projector) at(p image.Point) fx.Q12 {
	if pr.diag == 0 {
		return 0
	}
	proj := fx.Q12(p.X)*pr.cos + fx.Q12(p.Y)*pr.sin
	return fx.Div(proj, pr.diag)
}
