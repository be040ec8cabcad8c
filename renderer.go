package binaural

import (
	"fmt"

	"github.com/tphakala/go-binaural/internal/analysis"
	"github.com/tphakala/go-binaural/internal/filter"
	"github.com/tphakala/go-binaural/internal/simdops"
	"github.com/tphakala/go-binaural/internal/spatial"
)

// Renderer turns a (position, mono signal) pair into a stereo buffer.
//
// Filter coefficients are designed once in New and never mutated. Each
// Render call allocates its own filter state and output, so a Renderer is
// safe for concurrent use by multiple goroutines.
type Renderer struct {
	params Params
	model  spatial.Model
	front  filter.Coefficients
	back   filter.Coefficients
}

// New validates params and designs both hemisphere filters.
// Invalid cutoffs fail here with ErrInvalidFilterDesign, never during Render.
func New(params *Params) (*Renderer, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params is nil", ErrInvalidParams)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	front, err := filter.ButterworthLowpass(params.FrontCutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to design front filter: %w", err)
	}

	back, err := filter.ButterworthHighpass(params.BackCutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to design back filter: %w", err)
	}

	return &Renderer{
		params: *params,
		model:  params.model(),
		front:  front,
		back:   back,
	}, nil
}

// Params returns a copy of the renderer's parameters.
func (r *Renderer) Params() Params {
	return r.params
}

// Filter returns the coefficients used for hemisphere h.
func (r *Renderer) Filter(h Hemisphere) FilterCoefficients {
	if h == Back {
		return r.back
	}
	return r.front
}

// Cues computes the spatial cues for a source at pos.
func (r *Renderer) Cues(pos Position) (Cues, error) {
	return r.model.Cues(pos.Vec())
}

// Render spatializes mono for a source fixed at pos for the whole buffer.
//
// Both output channels have len(mono) samples. The hemisphere filter runs
// once over the signal from zero state; each channel then receives the
// filtered signal times its gain. The ITD delays one channel by whole
// samples: a positive offset delays the left channel, a negative one the
// right. A filtered sample is written to both channels only when its delayed
// copy still fits, so with an offset of s the delayed channel starts with s
// silent samples and the undelayed channel ends with s silent samples.
// Nothing wraps around, and an offset of len(mono) or more yields silence.
func (r *Renderer) Render(pos Position, mono []float64) (*StereoBuffer, error) {
	if len(mono) == 0 {
		return nil, ErrEmptySignal
	}

	cues, err := r.Cues(pos)
	if err != nil {
		return nil, err
	}

	return r.renderCues(cues, mono), nil
}

// renderCues runs the per-sample pass. All guards have already passed.
func (r *Renderer) renderCues(c Cues, mono []float64) *StereoBuffer {
	n := len(mono)
	out := NewStereoBuffer(n)

	filtered := make([]float64, n)
	filter.NewSection(r.Filter(c.Hemisphere)).ProcessBlockTo(filtered, mono)

	var leftShift, rightShift int
	switch {
	case c.ITDSamples > 0:
		leftShift = c.ITDSamples
	case c.ITDSamples < 0:
		rightShift = -c.ITDSamples
	}

	// Samples whose delayed copy would fall past the end are skipped on
	// both channels.
	shift := max(leftShift, rightShift)
	if shift >= n {
		return out
	}
	live := filtered[:n-shift]

	scratch := make([]float64, len(live))
	simdops.AccumulateShifted(out.Left, live, scratch, c.LeftGain, leftShift)
	simdops.AccumulateShifted(out.Right, live, scratch, c.RightGain, rightShift)

	return out
}

// RenderFloat32 is like Render but for float32 samples.
// Processing runs in float64 and the result is converted back.
func (r *Renderer) RenderFloat32(pos Position, mono []float32) (left, right []float32, err error) {
	input64 := make([]float64, len(mono))
	for i, v := range mono {
		input64[i] = float64(v)
	}

	out, err := r.Render(pos, input64)
	if err != nil {
		return nil, nil, err
	}

	left, right = out.Float32()
	return left, right, nil
}

// StereoBuffer is the renderer's output: two channels of equal length.
// Each Render call returns a fresh buffer owned by the caller.
type StereoBuffer struct {
	Left  []float64
	Right []float64
}

// NewStereoBuffer returns a zeroed buffer of n samples per channel.
func NewStereoBuffer(n int) *StereoBuffer {
	return &StereoBuffer{
		Left:  make([]float64, n),
		Right: make([]float64, n),
	}
}

// Len returns the number of samples per channel.
func (b *StereoBuffer) Len() int {
	return len(b.Left)
}

// Interleaved returns [L0, R0, L1, R1, ...].
func (b *StereoBuffer) Interleaved() []float64 {
	return simdops.Interleave(b.Left, b.Right)
}

// Float32 converts both channels to float32.
func (b *StereoBuffer) Float32() (left, right []float32) {
	left = make([]float32, len(b.Left))
	right = make([]float32, len(b.Right))
	for i, v := range b.Left {
		left[i] = float32(v)
	}
	for i, v := range b.Right {
		right[i] = float32(v)
	}
	return left, right
}

// Peak returns the largest absolute sample across both channels.
func (b *StereoBuffer) Peak() float64 {
	return max(analysis.Peak(b.Left), analysis.Peak(b.Right))
}
