package binaural

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-binaural/internal/analysis"
	"github.com/tphakala/go-binaural/internal/filter"
	"github.com/tphakala/go-binaural/internal/signal"
	"github.com/tphakala/go-binaural/internal/testutil"
)

const (
	// Amplified ITD straight ahead/behind with default params:
	// 0.2 / 343 * 44100 * 10 = 257.14
	testMaxITD = 257

	testToneSamples = 100
	noiseSamples    = 4096
	spectralSplitHz = 5000.0
	sampleTolerance = 1e-12
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	params := DefaultParams()
	r, err := New(&params)
	require.NoError(t, err)
	return r
}

func testTone(t *testing.T, n int) []float64 {
	t.Helper()
	mono, err := signal.Sine(DefaultToneFrequency, DefaultToneAmplitude, DefaultSampleRate, n)
	require.NoError(t, err)
	return mono
}

func whiteNoise(n int) []float64 {
	rng := rand.New(rand.NewPCG(1, 2))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}
	return x
}

// referenceRender is the per-sample formulation: filter each sample in turn,
// then write both channels, shifting the delayed one forward. A sample whose
// delayed copy would land past the end is written to neither channel.
func referenceRender(r *Renderer, c Cues, mono []float64) (left, right []float64) {
	n := len(mono)
	left = make([]float64, n)
	right = make([]float64, n)
	section := filter.NewSection(r.Filter(c.Hemisphere))

	for i, x := range mono {
		y := section.ProcessSample(x)
		switch {
		case c.ITDSamples > 0:
			if j := i + c.ITDSamples; j < n {
				left[j] += y * c.LeftGain
				right[i] += y * c.RightGain
			}
		case c.ITDSamples < 0:
			if j := i - c.ITDSamples; j < n {
				right[j] += y * c.RightGain
				left[i] += y * c.LeftGain
			}
		default:
			left[i] += y * c.LeftGain
			right[i] += y * c.RightGain
		}
	}
	return left, right
}

func TestRender_MatchesPerSampleReference(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(1000)

	positions := []Position{
		{X: 1},
		{X: -1, Y: 1},
		{X: 1, Y: 1, Z: 0.5},
		{X: -1, Y: -1},
		{X: 0.5, Y: -2},
		{Y: 1},
		{Y: -1},
		{X: 0.2, Y: 0.1},
		{X: -0.1, Y: -0.3, Z: 0.1},
	}

	for _, pos := range positions {
		t.Run(pos.String(), func(t *testing.T) {
			cues, err := r.Cues(pos)
			require.NoError(t, err)

			out, err := r.Render(pos, mono)
			require.NoError(t, err)

			wantLeft, wantRight := referenceRender(r, cues, mono)
			assert.InDeltaSlice(t, wantLeft, out.Left, sampleTolerance)
			assert.InDeltaSlice(t, wantRight, out.Right, sampleTolerance)
		})
	}
}

func TestRender_OutputLength(t *testing.T) {
	r := newTestRenderer(t)

	for _, n := range []int{1, 2, 100, testMaxITD, testMaxITD + 1, 4410} {
		mono := whiteNoise(n)
		for _, pos := range []Position{{X: 1}, {Y: 1}, {Y: -1}, {X: -2, Y: 0.1, Z: 3}} {
			out, err := r.Render(pos, mono)
			require.NoError(t, err)
			testutil.AssertLengthEquals(t, out.Left, n)
			testutil.AssertLengthEquals(t, out.Right, n)
			assert.Equal(t, n, out.Len())
			testutil.AssertNoNaNOrInf(t, out.Left)
			testutil.AssertNoNaNOrInf(t, out.Right)
		}
	}
}

func TestRender_DegenerateDistance(t *testing.T) {
	r := newTestRenderer(t)
	mono := testTone(t, testToneSamples)

	out, err := r.Render(Position{}, mono)
	require.ErrorIs(t, err, ErrDegenerateDistance)
	assert.Nil(t, out)

	_, err = r.Render(Position{X: 1e-12}, mono)
	require.ErrorIs(t, err, ErrDegenerateDistance)
}

func TestRender_EmptySignal(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Render(Position{X: 1}, nil)
	require.ErrorIs(t, err, ErrEmptySignal)
}

// TestRender_Idempotent verifies identical inputs give bit-identical output.
func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(2048)
	pos := Position{X: -0.7, Y: -1.2, Z: 0.4}

	first, err := r.Render(pos, mono)
	require.NoError(t, err)
	second, err := r.Render(pos, mono)
	require.NoError(t, err)

	assert.Equal(t, first.Left, second.Left)
	assert.Equal(t, first.Right, second.Right)

	// A fresh renderer from the same params is also identical.
	params := DefaultParams()
	again, err := Render(pos, mono, &params)
	require.NoError(t, err)
	assert.Equal(t, first.Left, again.Left)
}

func TestRender_DoesNotModifyInput(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(512)
	orig := append([]float64(nil), mono...)

	_, err := r.Render(Position{X: 1, Y: -1}, mono)
	require.NoError(t, err)
	assert.Equal(t, orig, mono)
}

// TestRender_ITDShift checks the write-forward delay in both directions.
func TestRender_ITDShift(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(1000)

	// Straight ahead: equal gains up to cos(π/2) rounding, left delayed.
	front, err := r.Render(Position{Y: 1}, mono)
	require.NoError(t, err)
	testutil.AssertAllZero(t, front.Left[:testMaxITD])
	testutil.AssertAllZero(t, front.Right[len(mono)-testMaxITD:])
	assert.NotZero(t, front.Right[len(mono)-testMaxITD-1])
	for i := range len(mono) - testMaxITD {
		require.InDelta(t, front.Right[i], front.Left[i+testMaxITD], sampleTolerance, "sample %d", i)
	}

	// Straight behind: equal gains, right delayed.
	back, err := r.Render(Position{Y: -1}, mono)
	require.NoError(t, err)
	testutil.AssertAllZero(t, back.Right[:testMaxITD])
	testutil.AssertAllZero(t, back.Left[len(mono)-testMaxITD:])
	assert.NotZero(t, back.Left[len(mono)-testMaxITD-1])
	for i := range len(mono) - testMaxITD {
		require.InDelta(t, back.Left[i], back.Right[i+testMaxITD], sampleTolerance, "sample %d", i)
	}
}

// TestRender_DelayLongerThanBuffer verifies an ITD of at least the buffer
// length silences both channels rather than wrapping or growing the buffer.
func TestRender_DelayLongerThanBuffer(t *testing.T) {
	r := newTestRenderer(t)
	mono := testTone(t, testToneSamples)

	for _, pos := range []Position{{Y: 1}, {Y: -1}} {
		out, err := r.Render(pos, mono)
		require.NoError(t, err)

		assert.Equal(t, testToneSamples, out.Len())
		testutil.AssertAllZero(t, out.Left, "position %v", pos)
		testutil.AssertAllZero(t, out.Right, "position %v", pos)
	}
}

// TestRender_DelayLeavesSilentTail checks the undelayed channel stops where
// the delayed copy runs out of room.
func TestRender_DelayLeavesSilentTail(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(1000)
	n := len(mono)

	for _, pos := range []Position{{X: 1, Y: 1}, {X: -1, Y: -0.5}} {
		cues, err := r.Cues(pos)
		require.NoError(t, err)
		shift := cues.ITDSamples
		if shift < 0 {
			shift = -shift
		}
		require.Positive(t, shift)

		out, err := r.Render(pos, mono)
		require.NoError(t, err)

		delayed, undelayed := out.Left, out.Right
		if cues.ITDSamples < 0 {
			delayed, undelayed = out.Right, out.Left
		}
		testutil.AssertAllZero(t, delayed[:shift], "head of delayed channel at %v", pos)
		testutil.AssertAllZero(t, undelayed[n-shift:], "tail of undelayed channel at %v", pos)
		assert.Positive(t, analysis.Peak(undelayed[:n-shift]))
	}
}

func TestRender_MonotonicAttenuation(t *testing.T) {
	r := newTestRenderer(t)
	mono := testTone(t, 4410)

	prev := math.Inf(1)
	for _, d := range []float64{0.6, 1, 2, 4, 8} {
		out, err := r.Render(Position{X: d}, mono)
		require.NoError(t, err)
		peak := out.Peak()
		assert.Less(t, peak, prev, "peak at d=%v", d)
		prev = peak
	}

	near, err := r.Render(Position{X: 1}, mono)
	require.NoError(t, err)
	far, err := r.Render(Position{X: 2}, mono)
	require.NoError(t, err)
	testutil.AssertRelativeError(t, 4, near.Peak()/far.Peak(), 1e-9)
}

func TestRender_NearFieldEqualChannels(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(256)

	// On the interaural axis inside the near field: no ITD, equal gains.
	for _, pos := range []Position{{X: 0.3}, {X: -0.3}, {X: 0.1, Z: 0.2}} {
		out, err := r.Render(pos, mono)
		require.NoError(t, err)
		assert.Equal(t, out.Left, out.Right, "position %v", pos)
	}
}

func TestRender_MirrorSwapsChannels(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(512)

	// On the X axis there is no ITD, so mirroring swaps the channels exactly.
	right, err := r.Render(Position{X: 1}, mono)
	require.NoError(t, err)
	left, err := r.Render(Position{X: 1}.MirrorX(), mono)
	require.NoError(t, err)

	assert.InDeltaSlice(t, right.Right, left.Left, sampleTolerance)
	assert.InDeltaSlice(t, right.Left, left.Right, sampleTolerance)
	testutil.AssertAllZero(t, right.Left)
}

// TestRender_HemisphereSwitch verifies crossing y=0 swaps the lowpass for
// the highpass and moves energy toward high frequencies.
func TestRender_HemisphereSwitch(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(noiseSamples)
	fs := r.Params().SampleRate

	frontPos := Position{X: 1, Y: 0.5}
	backPos := frontPos.MirrorY()

	frontCues, err := r.Cues(frontPos)
	require.NoError(t, err)
	backCues, err := r.Cues(backPos)
	require.NoError(t, err)
	require.Equal(t, Front, frontCues.Hemisphere)
	require.Equal(t, Back, backCues.Hemisphere)

	front, err := r.Render(frontPos, mono)
	require.NoError(t, err)
	back, err := r.Render(backPos, mono)
	require.NoError(t, err)

	// Compare the undelayed channels: right for front (left delayed),
	// left for back (right delayed).
	frontRatio := analysis.HighFrequencyRatio(front.Right, fs, spectralSplitHz)
	backRatio := analysis.HighFrequencyRatio(back.Left, fs, spectralSplitHz)
	assert.Greater(t, backRatio, frontRatio)

	// Below the back cutoff the highpass removes most of the energy.
	frontLow := analysis.BandEnergy(front.Right, fs, 0, 1000) / (frontCues.RightGain * frontCues.RightGain)
	backLow := analysis.BandEnergy(back.Left, fs, 0, 1000) / (backCues.LeftGain * backCues.LeftGain)
	assert.Less(t, backLow, frontLow*0.1)
}

// TestRender_ToneScenario renders a 100-sample 440 Hz tone at (1, 0, 0).
// The source sits on the right interaural axis: azimuth 0, so no ITD, the
// front lowpass, and the whole distance gain in the right ear.
func TestRender_ToneScenario(t *testing.T) {
	r := newTestRenderer(t)
	mono := testTone(t, testToneSamples)
	pos := Position{X: 1}

	cues, err := r.Cues(pos)
	require.NoError(t, err)
	assert.Zero(t, cues.ITDSamples)
	assert.Equal(t, Front, cues.Hemisphere)
	assert.InDelta(t, 1.0, cues.Gain, sampleTolerance)
	assert.InDelta(t, 0.0, cues.LeftGain, sampleTolerance)
	assert.InDelta(t, 1.0, cues.RightGain, sampleTolerance)

	lowpass, err := filter.ButterworthLowpass(DefaultFrontCutoff)
	require.NoError(t, err)
	assert.Equal(t, lowpass, r.Filter(Front))

	out, err := r.Render(pos, mono)
	require.NoError(t, err)
	assert.Equal(t, testToneSamples, out.Len())
	testutil.AssertAllZero(t, out.Left)
	assert.InDelta(t, DefaultToneAmplitude*cues.RightGain, analysis.Peak(out.Right), testutil.PeakTolerance)
}

func TestRenderFloat32(t *testing.T) {
	r := newTestRenderer(t)
	mono := whiteNoise(300)
	mono32 := make([]float32, len(mono))
	for i, v := range mono {
		mono32[i] = float32(v)
	}

	left, right, err := r.RenderFloat32(Position{X: -1, Y: 0.2}, mono32)
	require.NoError(t, err)
	assert.Len(t, left, len(mono))
	assert.Len(t, right, len(mono))

	want, err := r.Render(Position{X: -1, Y: 0.2}, mono)
	require.NoError(t, err)
	for i := range want.Left {
		assert.InDelta(t, want.Left[i], float64(left[i]), 1e-5)
		assert.InDelta(t, want.Right[i], float64(right[i]), 1e-5)
	}

	_, _, err = r.RenderFloat32(Position{}, mono32)
	require.ErrorIs(t, err, ErrDegenerateDistance)
}

func TestStereoBuffer_Interleaved(t *testing.T) {
	b := &StereoBuffer{Left: []float64{1, 2}, Right: []float64{3, 4}}
	assert.Equal(t, []float64{1, 3, 2, 4}, b.Interleaved())
	assert.Equal(t, 4.0, b.Peak())

	l, r := b.Float32()
	assert.Equal(t, []float32{1, 2}, l)
	assert.Equal(t, []float32{3, 4}, r)
}

func TestNew_InvalidFilterDesign(t *testing.T) {
	tests := []struct {
		name  string
		front float64
		back  float64
	}{
		{"front_at_nyquist", 1, DefaultBackCutoff},
		{"front_zero", 0, DefaultBackCutoff},
		{"back_negative", DefaultFrontCutoff, -0.2},
		{"back_above_nyquist", DefaultFrontCutoff, 1.2},
		{"back_nan", DefaultFrontCutoff, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			params.FrontCutoff = tt.front
			params.BackCutoff = tt.back

			r, err := New(&params)
			require.ErrorIs(t, err, ErrInvalidFilterDesign)
			assert.Nil(t, r)
		})
	}
}

func TestNew_CustomCutoffs(t *testing.T) {
	params := DefaultParams()
	params.FrontCutoff = 0.5
	params.BackCutoff = 0.5

	r, err := New(&params)
	require.NoError(t, err)

	front := r.Filter(Front)
	back := r.Filter(Back)
	assert.InDelta(t, 1/math.Sqrt2, front.Magnitude(0.5), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, back.Magnitude(0.5), 1e-9)
	assert.InDelta(t, 1, front.Magnitude(0), 1e-9)
	assert.InDelta(t, 1, back.Magnitude(1), 1e-9)
}

func TestNew_NilParams(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidParams)
}

// TestNew_CopiesParams verifies later edits to the caller's Params do not
// reach an existing Renderer.
func TestNew_CopiesParams(t *testing.T) {
	params := DefaultParams()
	r, err := New(&params)
	require.NoError(t, err)

	params.ITDAmplification = 0
	cues, err := r.Cues(Position{Y: 1})
	require.NoError(t, err)
	assert.Equal(t, testMaxITD, cues.ITDSamples)
	assert.Equal(t, DefaultITDAmplification, r.Params().ITDAmplification)
}

func TestRender_ITDAmplificationParam(t *testing.T) {
	params := DefaultParams()
	params.ITDAmplification = 1
	r, err := New(&params)
	require.NoError(t, err)

	cues, err := r.Cues(Position{Y: 1})
	require.NoError(t, err)
	// 0.2 / 343 * 44100 = 25.71
	assert.Equal(t, 26, cues.ITDSamples)
}
