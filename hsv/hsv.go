// Package hsv converts colours between RGB and HSV, in floating point and in
// Q20.12 fixed point, and applies gamma and brightness correction.
package hsv

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/flavioheleno/udc/fx"
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Model converts any colour to RGB, dropping alpha.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
})

// Black is (0, 0, 0).
var Black = RGB{}

// HSV is a colour with hue in degrees [0, 360) and saturation and value in
// [0, 1].
type HSV struct {
	H, S, V float64
}

// FixedHSV is HSV in Q20.12.
type FixedHSV struct {
	H, S, V fx.Q12
}

// RGBToHSV converts c to floating point HSV.
func RGBToHSV(c RGB) HSV {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	d := mx - mn
	out := HSV{V: mx}
	if mx > 0 {
		out.S = d / mx
	}
	if d == 0 {
		return out
	}
	switch mx {
	case r:
		out.H = 60 * math.Mod((g-b)/d, 6)
	case g:
		out.H = 60 * ((b-r)/d + 2)
	default:
		out.H = 60 * ((r-g)/d + 4)
	}
	out.H = normDegrees(out.H)
	return out
}

func normDegrees(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HSVToRGB converts c to RGB. Hue is normalised, saturation and value are
// clamped to [0, 1].
func HSVToRGB(c HSV) RGB {
	h := normDegrees(c.H)
	s := clamp01(c.S)
	v := clamp01(c.V)
	sector := int(math.Floor(h/60)) % 6
	f := h/60 - math.Floor(h/60)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	r, g, b := pick(sector, v, p, q, t)
	return RGB{to8f(r), to8f(g), to8f(b)}
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

func to8f(x float64) uint8 {
	return uint8(math.Round(x * 255))
}

func pick[T any](sector int, v, p, q, t T) (T, T, T) {
	switch sector {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

const (
	deg60  = 60 << fx.Shift
	deg360 = 360 << fx.Shift
	// recip60 is 2^22/60, so (x·recip60)>>22 divides a Q12 value by 60.
	recip60 = 69905

	one = int64(fx.One)
)

// RGBToFixed converts c to Q20.12 HSV.
func RGBToFixed(c RGB) FixedHSV {
	r, g, b := int64(c.R), int64(c.G), int64(c.B)
	mx := max(r, g, b)
	mn := min(r, g, b)
	d := mx - mn
	if mx == 0 {
		return FixedHSV{}
	}
	out := FixedHSV{
		V: fx.Q12((mx<<fx.Shift + 127) / 255),
		S: fx.Q12((d<<fx.Shift + mx/2) / mx),
	}
	if d == 0 {
		return out
	}
	var h int64
	switch mx {
	case r:
		h = deg60 * (g - b) / d
	case g:
		h = deg60*(b-r)/d + 2*deg60
	default:
		h = deg60*(r-g)/d + 4*deg60
	}
	if h < 0 {
		h += deg360
	}
	out.H = fx.Q12(h)
	return out
}

// FixedToRGB converts Q20.12 HSV to RGB using shifts and multiplies only.
func FixedToRGB(c FixedHSV) RGB {
	h := int64(c.H) % deg360
	if h < 0 {
		h += deg360
	}
	s := int64(min(max(c.S, 0), fx.One))
	v := int64(min(max(c.V, 0), fx.One))

	sector := int(h / deg60)
	rem := h - int64(sector)*deg60
	f := rem * recip60 >> 22

	p := v * (one - s) >> fx.Shift
	q := v * (one - s*f>>fx.Shift) >> fx.Shift
	t := v * (one - s*(one-f)>>fx.Shift) >> fx.Shift
	r, g, b := pick(sector, to8(v), to8(p), to8(q), to8(t))
	return RGB{r, g, b}
}

// to8 rounds a Q12 fraction in [0, 1] to a byte, half up.
func to8(x int64) uint8 {
	return uint8((x*255 + 2048) >> fx.Shift)
}

// Hue returns the fully saturated, full value colour of hue h degrees.
func Hue(h fx.Q12) RGB {
	return FixedToRGB(FixedHSV{H: h, S: fx.One, V: fx.One})
}

// Scale returns c with every channel multiplied by brightness/255.
func Scale(c RGB, brightness uint8) RGB {
	if brightness == 255 {
		return c
	}
	b := uint16(brightness)
	return RGB{
		R: uint8(uint16(c.R) * b / 255),
		G: uint8(uint16(c.G) * b / 255),
		B: uint8(uint16(c.B) * b / 255),
	}
}

// Lerp interpolates between a and b, w in [0, 255].
func Lerp(a, b RGB, w uint8) RGB {
	mix := func(x, y uint8) uint8 {
		return uint8((int(x)*(255-int(w)) + int(y)*int(w) + 127) / 255)
	}
	return RGB{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}

var errHexFormat = errors.New("hsv: colour must be #rrggbb")

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, errHexFormat
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("hsv: %q: %w", s, err)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
