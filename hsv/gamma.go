package hsv

import "math"

// Gamma is a per-channel power-law correction table.
type Gamma [256]uint8

// NewGamma builds the table lut[i] = round(i^γ / 255^(γ-1)). A non-positive γ
// is treated as 1.0, the identity.
func NewGamma(gamma float64) *Gamma {
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		gamma = 1
	}
	var g Gamma
	div := math.Pow(255, gamma-1)
	for i := range g {
		v := math.Round(math.Pow(float64(i), gamma) / div)
		g[i] = uint8(math.Min(255, math.Max(0, v)))
	}
	return &g
}

// Identity is the γ = 1.0 table.
var Identity = NewGamma(1)

// Apply corrects all three channels of c.
func (g *Gamma) Apply(c RGB) RGB {
	return RGB{g[c.R], g[c.G], g[c.B]}
}
