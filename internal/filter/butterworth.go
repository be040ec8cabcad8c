package filter

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDesign is returned when a filter cannot be designed from the
// requested parameters.
var ErrInvalidDesign = errors.New("invalid filter design")

// Design constants
const (
	// Half the normalized angular frequency: cutoffs are given relative to
	// Nyquist, so the prewarped analog frequency is tan(π·wn/2).
	prewarpFactor = math.Pi / 2

	// Butterworth pole spacing for a second-order section (Q = 1/√2).
	butterworthDamping = math.Sqrt2
)

// Kind selects the response shape of a designed section.
type Kind int

const (
	// Lowpass passes frequencies below the cutoff.
	Lowpass Kind = iota

	// Highpass passes frequencies above the cutoff.
	Highpass
)

// String returns "lowpass" or "highpass".
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValidateCutoff checks that wn lies strictly inside (0, 1) of Nyquist.
func ValidateCutoff(wn float64) error {
	if math.IsNaN(wn) || wn <= 0 || wn >= 1 {
		return fmt.Errorf("%w: cutoff %g must be in (0, 1) of Nyquist", ErrInvalidDesign, wn)
	}
	return nil
}

// Butterworth designs a second-order Butterworth section of the given kind
// with normalized cutoff wn (1 = Nyquist), using the bilinear transform with
// frequency prewarping.
func Butterworth(kind Kind, wn float64) (Coefficients, error) {
	if err := ValidateCutoff(wn); err != nil {
		return Coefficients{}, err
	}

	k := math.Tan(prewarpFactor * wn)
	kk := k * k
	norm := 1 / (1 + butterworthDamping*k + kk)

	c := Coefficients{
		A1: 2 * (kk - 1) * norm,
		A2: (1 - butterworthDamping*k + kk) * norm,
	}

	switch kind {
	case Lowpass:
		c.B0 = kk * norm
		c.B1 = 2 * c.B0
		c.B2 = c.B0
	case Highpass:
		c.B0 = norm
		c.B1 = -2 * norm
		c.B2 = norm
	default:
		return Coefficients{}, fmt.Errorf("%w: unsupported kind %v", ErrInvalidDesign, kind)
	}

	return c, nil
}

// ButterworthLowpass designs a second-order Butterworth lowpass.
func ButterworthLowpass(wn float64) (Coefficients, error) {
	return Butterworth(Lowpass, wn)
}

// ButterworthHighpass designs a second-order Butterworth highpass.
func ButterworthHighpass(wn float64) (Coefficients, error) {
	return Butterworth(Highpass, wn)
}
