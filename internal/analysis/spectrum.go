// Package analysis measures rendered buffers: peak and RMS levels and how
// spectral energy is split across frequency bands.
package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Peak returns max |x[i]|, or 0 for an empty slice.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, math.Inf(1))
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}

// PowerSpectrum returns |X[k]|² for k in [0, len(x)/2] and the bin spacing in Hz.
func PowerSpectrum(x []float64, sampleRate float64) (power []float64, binHz float64) {
	if len(x) == 0 || sampleRate <= 0 {
		return nil, 0
	}

	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)

	power = make([]float64, len(coeffs))
	for k, c := range coeffs {
		m := cmplx.Abs(c)
		power[k] = m * m
	}
	return power, sampleRate / float64(len(x))
}

// BandEnergy sums spectral power for bins with frequency in [loHz, hiHz).
func BandEnergy(x []float64, sampleRate, loHz, hiHz float64) float64 {
	power, binHz := PowerSpectrum(x, sampleRate)

	var e float64
	for k, p := range power {
		f := float64(k) * binHz
		if f >= loHz && f < hiHz {
			e += p
		}
	}
	return e
}

// HighFrequencyRatio returns the share of spectral energy at or above
// splitHz. It returns 0 for silent input.
func HighFrequencyRatio(x []float64, sampleRate, splitHz float64) float64 {
	power, binHz := PowerSpectrum(x, sampleRate)

	var high, total float64
	for k, p := range power {
		total += p
		if float64(k)*binHz >= splitHz {
			high += p
		}
	}
	if total == 0 {
		return 0
	}
	return high / total
}
