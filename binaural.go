package binaural

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-binaural/internal/filter"
	"github.com/tphakala/go-binaural/internal/signal"
	"github.com/tphakala/go-binaural/internal/spatial"
)

// Common errors returned by the renderer.
var (
	// ErrInvalidParams indicates invalid spatial parameters.
	ErrInvalidParams = errors.New("invalid spatial parameters")

	// ErrInvalidFilterDesign indicates a hemisphere filter cutoff outside
	// (0, 1) of Nyquist. It is only returned while building a Renderer.
	ErrInvalidFilterDesign = filter.ErrInvalidDesign

	// ErrDegenerateDistance indicates a source at (or within epsilon of) the
	// listener, where the inverse-square gain is undefined.
	ErrDegenerateDistance = spatial.ErrDegenerateDistance

	// ErrEmptySignal indicates a render request with no input samples.
	ErrEmptySignal = errors.New("empty mono signal")

	// ErrInvalidTone indicates tone parameters that cannot produce a signal.
	ErrInvalidTone = signal.ErrInvalidTone
)

// Params holds the process-wide spatial constants. A Renderer copies them
// at construction, so later changes to a Params value have no effect on it.
type Params struct {
	// SampleRate is the time base for ITD conversion and filter design, in Hz.
	SampleRate float64

	// Duration is the length of generated tone signals in seconds.
	Duration float64

	// HeadWidth is the ear-to-ear distance in meters.
	HeadWidth float64

	// SoundSpeed is the speed of sound in meters per second.
	SoundSpeed float64

	// ITDAmplification multiplies the physical ITD so it is audible.
	ITDAmplification float64

	// NearFieldThreshold is the distance below which both ears get the
	// same level.
	NearFieldThreshold float64

	// FrontCutoff is the front lowpass cutoff as a fraction of Nyquist.
	FrontCutoff float64

	// BackCutoff is the back highpass cutoff as a fraction of Nyquist.
	BackCutoff float64

	// Epsilon is the smallest usable source distance in meters.
	Epsilon float64
}

// DefaultParams returns the default spatial parameters.
func DefaultParams() Params {
	return Params{
		SampleRate:         DefaultSampleRate,
		Duration:           DefaultDuration,
		HeadWidth:          DefaultHeadWidth,
		SoundSpeed:         DefaultSoundSpeed,
		ITDAmplification:   DefaultITDAmplification,
		NearFieldThreshold: DefaultNearFieldThreshold,
		FrontCutoff:        DefaultFrontCutoff,
		BackCutoff:         DefaultBackCutoff,
		Epsilon:            DefaultEpsilon,
	}
}

// Validate checks if the parameters are usable. Cutoff failures wrap
// ErrInvalidFilterDesign; everything else wraps ErrInvalidParams.
func (p *Params) Validate() error {
	// Comparisons are written so NaN fails them.
	if !(p.SampleRate > 0) {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidParams)
	}

	if !(p.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidParams)
	}

	if !(p.HeadWidth >= 0) {
		return fmt.Errorf("%w: head width must be non-negative", ErrInvalidParams)
	}

	if !(p.SoundSpeed > 0) {
		return fmt.Errorf("%w: sound speed must be positive", ErrInvalidParams)
	}

	if !(p.ITDAmplification >= 0) {
		return fmt.Errorf("%w: ITD amplification must be non-negative", ErrInvalidParams)
	}

	if !(p.NearFieldThreshold >= 0) {
		return fmt.Errorf("%w: near-field threshold must be non-negative", ErrInvalidParams)
	}

	if !(p.Epsilon >= 0) {
		return fmt.Errorf("%w: epsilon must be non-negative", ErrInvalidParams)
	}

	if err := filter.ValidateCutoff(p.FrontCutoff); err != nil {
		return fmt.Errorf("front cutoff: %w", err)
	}

	if err := filter.ValidateCutoff(p.BackCutoff); err != nil {
		return fmt.Errorf("back cutoff: %w", err)
	}

	return nil
}

// Samples returns the tone length N = SampleRate × Duration.
func (p *Params) Samples() int {
	return signal.SamplesFor(p.SampleRate, p.Duration)
}

func (p *Params) model() spatial.Model {
	return spatial.Model{
		SampleRate:         p.SampleRate,
		HeadWidth:          p.HeadWidth,
		SoundSpeed:         p.SoundSpeed,
		ITDAmplification:   p.ITDAmplification,
		NearFieldThreshold: p.NearFieldThreshold,
		Epsilon:            p.Epsilon,
	}
}

// Position is a source location in meters relative to a listener at the
// origin facing +Y, with +X to the listener's right.
type Position struct {
	X, Y, Z float64
}

// PositionFromVec converts a gonum vector to a Position.
func PositionFromVec(v r3.Vec) Position {
	return Position{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec returns p as a gonum vector.
func (p Position) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Distance returns the Euclidean distance from the listener.
func (p Position) Distance() float64 {
	return r3.Norm(p.Vec())
}

// Scale returns p moved along its direction to f times the distance.
func (p Position) Scale(f float64) Position {
	return PositionFromVec(r3.Scale(f, p.Vec()))
}

// MirrorX reflects p across the median plane (left/right swap).
func (p Position) MirrorX() Position {
	return Position{X: -p.X, Y: p.Y, Z: p.Z}
}

// MirrorY reflects p across the interaural plane (front/back swap).
func (p Position) MirrorY() Position {
	return Position{X: p.X, Y: -p.Y, Z: p.Z}
}

// String formats p as "(x, y, z)" with millimeter precision.
func (p Position) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Hemisphere classifies a source as in front of (y >= 0) or behind the listener.
type Hemisphere = spatial.Hemisphere

// Hemisphere values.
const (
	Front = spatial.Front
	Back  = spatial.Back
)

// Cues are the spatial parameters derived from one position: distance gain,
// azimuth, hemisphere, per-ear gains and the ITD offset.
type Cues = spatial.Cues

// FilterCoefficients is one hemisphere's biquad transfer function.
type FilterCoefficients = filter.Coefficients
