package fx

import (
	"math"
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestSinError(t *testing.T) {
	const tolerance = 5
	for x := Q12(-4 * TwoPi); x < 4*TwoPi; x += 7 {
		want := math.Sin(x.Float()) * float64(One)
		if got := float64(Sin(x)); math.Abs(got-want) > tolerance {
			t.Fatalf("Sin(%d) = %v, want %v", x, got, want)
		}
		want = math.Cos(x.Float()) * float64(One)
		if got := float64(Cos(x)); math.Abs(got-want) > tolerance {
			t.Fatalf("Cos(%d) = %v, want %v", x, got, want)
		}
	}
}

func TestSinPoints(t *testing.T) {
	tests := []struct {
		name string
		x    Q12
		want Q12
	}{
		{"zero", 0, 0},
		{"half pi", HalfPi, 4094},
		{"pi", Pi, 0},
		{"minus half pi", -HalfPi, -4094},
		{"two pi", TwoPi, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sin(tt.x); got != tt.want {
				t.Errorf("Sin(%d) = %d, want %d", tt.x, got, tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	if got := Mul(FromFloat(1.5), FromInt(3)); got != FromFloat(4.5) {
		t.Errorf("Mul = %v", got.Float())
	}
	if got := Div(FromInt(3), FromInt(4)); got != FromFloat(0.75) {
		t.Errorf("Div = %v", got.Float())
	}
	if got := FromFloat(-0.5).Floor(); got != -1 {
		t.Errorf("Floor(-0.5) = %d", got)
	}
	if got := FromFloat(2.5).Round(); got != 3 {
		t.Errorf("Round(2.5) = %d", got)
	}
	if got := FromFloat(-1.25).Frac(); got != FromFloat(0.75) {
		t.Errorf("Frac(-1.25) = %v", got.Float())
	}
	if got := Sqrt(FromInt(2)); got != 5792 {
		t.Errorf("Sqrt(2) = %d", got)
	}
	if got := Sqrt(FromInt(-4)); got != 0 {
		t.Errorf("Sqrt(-4) = %d", got)
	}
	if got := Hypot(FromInt(3), FromInt(4)); got != FromInt(5) {
		t.Errorf("Hypot = %v", got.Float())
	}
	if got := Radians(FromInt(180)); got < Pi-2 || got > Pi+2 {
		t.Errorf("Radians(180) = %d, want about %d", got, Pi)
	}
}

func TestWide(t *testing.T) {
	if got, want := Seconds(2_500_000), fixed.Int52_12(10240); got != want {
		t.Errorf("Seconds(2.5s) = %d, want %d", got, want)
	}
	// Ten years of microseconds times a speed of 300 must not overflow.
	const tenYears = int64(10 * 365 * 24 * 3600 * 1_000_000)
	s := Seconds(tenYears)
	got := MulWide(s, FromInt(300))
	if want := fixed.Int52_12(int64(s) * 300); got != want {
		t.Errorf("MulWide = %d, want %d", got, want)
	}
	// Half an LSB rounds up, and the sign is kept.
	if got := MulWide(1, One/2); got != 1 {
		t.Errorf("MulWide(1, 0.5) = %d, want 1", got)
	}
	if got := MulWide(-s, FromInt(2)); got != -2*s {
		t.Errorf("MulWide(-s, 2) = %d", got)
	}
	if got := ModDegrees(fixed.Int52_12(-90 << Shift)); got != FromInt(270) {
		t.Errorf("ModDegrees(-90) = %v", got.Float())
	}
	if got := ModDegrees(fixed.Int52_12(720<<Shift + 5)); got != 5 {
		t.Errorf("ModDegrees(720+) = %d", got)
	}
}
