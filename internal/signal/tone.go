// Package signal generates the mono source signals fed to the renderer.
package signal

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTone is returned for tone parameters that cannot produce a signal.
var ErrInvalidTone = errors.New("invalid tone parameters")

// Tone defaults
const (
	DefaultFrequency = 440.0 // Hz
	DefaultAmplitude = 0.5   // Peak amplitude
	maxAmplitude     = 1.0   // Samples must stay within [-1, 1]
)

// Tone describes a fixed-length sine tone.
type Tone struct {
	Frequency  float64 // Hz
	Amplitude  float64 // Peak amplitude in [0, 1]
	SampleRate float64 // Hz
	Samples    int     // Length N
}

// Validate checks that the tone can be generated.
func (t Tone) Validate() error {
	if t.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %g", ErrInvalidTone, t.SampleRate)
	}
	if t.Samples <= 0 {
		return fmt.Errorf("%w: samples must be > 0: %d", ErrInvalidTone, t.Samples)
	}
	if t.Frequency < 0 || math.IsNaN(t.Frequency) {
		return fmt.Errorf("%w: frequency must be >= 0: %g", ErrInvalidTone, t.Frequency)
	}
	if t.Amplitude < 0 || t.Amplitude > maxAmplitude || math.IsNaN(t.Amplitude) {
		return fmt.Errorf("%w: amplitude must be in [0, 1]: %g", ErrInvalidTone, t.Amplitude)
	}
	return nil
}

// Generate returns Amplitude·sin(2π·f·n/fs) for n in [0, Samples).
// The time axis excludes its endpoint, so the buffer loops cleanly when
// Samples covers a whole number of periods.
func (t Tone) Generate() ([]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, t.Samples)
	w := 2 * math.Pi * t.Frequency / t.SampleRate
	for n := range out {
		out[n] = t.Amplitude * math.Sin(w*float64(n))
	}
	return out, nil
}

// SamplesFor returns N = fs × duration, truncated to whole samples.
func SamplesFor(sampleRate, duration float64) int {
	return int(sampleRate * duration)
}

// Sine is a shorthand for Tone{...}.Generate.
func Sine(freq, amplitude, sampleRate float64, samples int) ([]float64, error) {
	return Tone{
		Frequency:  freq,
		Amplitude:  amplitude,
		SampleRate: sampleRate,
		Samples:    samples,
	}.Generate()
}
