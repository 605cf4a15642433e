// Package fx implements the Q20.12 fixed-point arithmetic used by the colour
// engine and the bitmap generators.
//
// Q12 carries 20 integer bits (sign included) and 12 fractional bits. Values
// that can outgrow 32 bits, such as timestamps in seconds, use the 64-bit
// fixed.Int52_12 type and are brought back to Q12 only once reduced.
package fx

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Q12 is a Q20.12 fixed-point number.
type Q12 int32

const (
	// Shift is the number of fractional bits.
	Shift = 12
	// One is 1.0.
	One Q12 = 1 << Shift
	// Half is 0.5.
	Half Q12 = One / 2

	// HalfPi is π/2 in Q12 radians.
	HalfPi Q12 = 6434
	// Pi is π in Q12 radians.
	Pi Q12 = 2 * HalfPi
	// TwoPi is 2π in Q12 radians.
	TwoPi Q12 = 4 * HalfPi
)

// FromInt converts an integer.
func FromInt(i int) Q12 {
	return Q12(i << Shift)
}

// FromFloat converts f, rounding to the nearest representable value.
func FromFloat(f float64) Q12 {
	return Q12(math.Round(f * float64(One)))
}

// Float returns q as a float64.
func (q Q12) Float() float64 {
	return float64(q) / float64(One)
}

// Floor returns the greatest integer not above q.
func (q Q12) Floor() int {
	return int(q >> Shift)
}

// Round returns q rounded half up to an integer.
func (q Q12) Round() int {
	return int((q + Half) >> Shift)
}

// Frac returns the fractional part of q, always in [0, One).
func (q Q12) Frac() Q12 {
	return q & (One - 1)
}

// Mul returns a·b.
func Mul(a, b Q12) Q12 {
	return Q12(int64(a) * int64(b) >> Shift)
}

// Div returns a/b. b must not be zero.
func Div(a, b Q12) Q12 {
	return Q12(int64(a) << Shift / int64(b))
}

// Polynomial coefficients of sin(x)/x = 1 - x²(c1 - c2·x²) over [0, π/2].
const (
	sinC1 = 682
	sinC2 = 32
)

// Sin returns the sine of x radians.
//
// The polynomial is evaluated on a quarter period only; x is folded into
// [0, π/2] by quadrant. The error is within a few parts in 4096.
func Sin(x Q12) Q12 {
	v := int64(x) % int64(TwoPi)
	if v < 0 {
		v += int64(TwoPi)
	}
	quadrant := v / int64(HalfPi)
	r := v - quadrant*int64(HalfPi)
	if quadrant&1 == 1 {
		r = int64(HalfPi) - r
	}
	r2 := r * r >> Shift
	inner := sinC1 - (sinC2 * r2 >> Shift)
	y := r - (r * (r2 * inner >> Shift) >> Shift)
	if quadrant >= 2 {
		y = -y
	}
	return Q12(y)
}

// Cos returns the cosine of x radians.
func Cos(x Q12) Q12 {
	return Sin(x + HalfPi)
}

// Sqrt returns the square root of q. Negative input returns 0.
func Sqrt(q Q12) Q12 {
	if q <= 0 {
		return 0
	}
	return Q12(isqrt(uint64(q) << Shift))
}

func isqrt(n uint64) uint64 {
	var res uint64
	bit := uint64(1) << 62
	for bit > n {
		bit >>= 2
	}
	for bit != 0 {
		if n >= res+bit {
			n -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}

// Hypot returns sqrt(a² + b²) without intermediate overflow for any Q12 input.
func Hypot(a, b Q12) Q12 {
	x, y := int64(a), int64(b)
	return Q12(isqrt(uint64(x*x + y*y)))
}

// Radians converts degrees to radians.
func Radians(deg Q12) Q12 {
	return Q12(int64(deg) * int64(TwoPi) / (360 << Shift))
}

// Seconds converts a microsecond timestamp to seconds.
func Seconds(us int64) fixed.Int52_12 {
	return fixed.Int52_12((us/1_000_000)<<Shift + (us%1_000_000)<<Shift/1_000_000)
}

// MulWide returns a·b for a wide operand, rounded to nearest. The product is
// formed in 128 bits, so it never overflows unless the result itself does.
func MulWide(a fixed.Int52_12, b Q12) fixed.Int52_12 {
	return a.Mul(fixed.Int52_12(b))
}

// ModDegrees reduces a to [0, 360).
func ModDegrees(a fixed.Int52_12) Q12 {
	return Q12(Mod(a, 360<<Shift))
}

// Mod reduces a to [0, m). m must be positive.
func Mod(a fixed.Int52_12, m Q12) Q12 {
	v := int64(a) % int64(m)
	if v < 0 {
		v += int64(m)
	}
	return Q12(v)
}

// Narrow truncates a wide value to Q12. Callers reduce a first.
func Narrow(a fixed.Int52_12) Q12 {
	return Q12(a)
}
