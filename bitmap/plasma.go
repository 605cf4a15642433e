package bitmap

import (
	"github.com/flavioheleno/udc/fx"
	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

// Plasma sums five sine waves, one along x, one along y, one diagonal, one
// radial around the centre and one whose direction rotates, and maps the sum
// to a hue. Speed is in radians per second, Scale multiplies the spatial
// frequency (1.0 is one period per 32 pixels).
type Plasma struct {
	Speed float64 `json:"speed"`
	Scale float64 `json:"scale"`
}

// Generate implements Generator.
func (g Plasma) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	phase := fx.Mod(fx.MulWide(fx.Seconds(t), fx.FromFloat(g.Speed)), fx.TwoPi)
	// phase/3 keeps rotating once per three cycles of the other terms.
	rot := phase / 3
	rc, rs := fx.Cos(rot), fx.Sin(rot)
	k := fx.Mul(fx.FromFloat(g.Scale), fx.TwoPi/32)

	b := m.Bounds()
	cx, cy := fx.FromInt(b.Dx())/2, fx.FromInt(b.Dy())/2
	for led, off := range m.Offsets {
		p := m.Point(led)
		x, y := fx.FromInt(p.X), fx.FromInt(p.Y)
		sum := fx.Sin(fx.Mul(x, k) + phase)
		sum += fx.Sin(fx.Mul(y, k) + phase/2)
		sum += fx.Sin(fx.Mul(x+y, k)/2 + phase)
		sum += fx.Sin(fx.Mul(fx.Hypot(x-cx, y-cy), k) - phase)
		sum += fx.Sin(fx.Mul(fx.Mul(x, rc)+fx.Mul(y, rs), k) + phase)
		// sum is in [-5, 5]; map it onto [0, 360).
		hue := fx.Mul(sum+5*fx.One, fx.FromInt(36))
		dst.SetOffset(int(off), hsv.Hue(hue))
	}
}
