package binaural

import (
	"fmt"

	"github.com/tphakala/go-binaural/internal/signal"
	"github.com/tphakala/go-binaural/internal/simdops"
)

// Common sample rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000
)

// Tone defaults.
const (
	// DefaultToneFrequency is the default test tone frequency in Hz.
	DefaultToneFrequency = signal.DefaultFrequency

	// DefaultToneAmplitude is the default test tone peak amplitude.
	DefaultToneAmplitude = signal.DefaultAmplitude
)

// Render is a convenience function for one-shot rendering. It builds a
// Renderer from params, renders mono at pos and discards the Renderer.
// Prefer New plus Renderer.Render when rendering more than once.
func Render(pos Position, mono []float64, params *Params) (*StereoBuffer, error) {
	r, err := New(params)
	if err != nil {
		return nil, err
	}
	return r.Render(pos, mono)
}

// ToneSignal generates a sine tone of params.Samples() samples at
// params.SampleRate.
func ToneSignal(params *Params, freq, amplitude float64) ([]float64, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params is nil", ErrInvalidParams)
	}
	return signal.Tone{
		Frequency:  freq,
		Amplitude:  amplitude,
		SampleRate: params.SampleRate,
		Samples:    params.Samples(),
	}.Generate()
}

// DefaultTone generates the default 440 Hz, 0.5 amplitude tone.
func DefaultTone(params *Params) ([]float64, error) {
	return ToneSignal(params, DefaultToneFrequency, DefaultToneAmplitude)
}

// RenderTone renders the default tone at pos.
func RenderTone(pos Position, params *Params) (*StereoBuffer, error) {
	r, err := New(params)
	if err != nil {
		return nil, err
	}

	mono, err := DefaultTone(params)
	if err != nil {
		return nil, err
	}

	return r.Render(pos, mono)
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	return simdops.Interleave(left, right)
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]float64, numSamples)
	right = make([]float64, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// SIMDInfo returns a short description of the SIMD features used for mixing.
func SIMDInfo() string {
	return simdops.CPUInfo()
}
