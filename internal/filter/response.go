package filter

import (
	"math"
	"math/cmplx"
)

const minMagnitudeDB = -300.0

// Response evaluates H(e^jω) at normalized frequency wn (1 = Nyquist).
func (c Coefficients) Response(wn float64) complex128 {
	z1 := cmplx.Exp(complex(0, -math.Pi*wn))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// Magnitude returns |H| at normalized frequency wn.
func (c Coefficients) Magnitude(wn float64) float64 {
	return cmplx.Abs(c.Response(wn))
}

// MagnitudeDB returns |H| in dB at normalized frequency wn, floored at -300 dB.
func (c Coefficients) MagnitudeDB(wn float64) float64 {
	m := c.Magnitude(wn)
	if m <= 0 {
		return minMagnitudeDB
	}
	return math.Max(20*math.Log10(m), minMagnitudeDB)
}

// Stable reports whether both poles lie inside the unit circle.
func (c Coefficients) Stable() bool {
	// Jury conditions for a monic second-order denominator.
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}
