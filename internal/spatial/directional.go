package spatial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hemisphere classifies a source as in front of or behind the listener.
type Hemisphere int

const (
	// Front covers y >= 0, including the interaural axis.
	Front Hemisphere = iota

	// Back covers y < 0.
	Back
)

// String returns "front" or "back".
func (h Hemisphere) String() string {
	switch h {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("Hemisphere(%d)", int(h))
	}
}

// HemisphereOf selects the hemisphere from the source's y coordinate.
func HemisphereOf(y float64) Hemisphere {
	if y >= 0 {
		return Front
	}
	return Back
}

// Azimuth returns atan2(y, x) in radians, in (-π, π].
func Azimuth(x, y float64) float64 {
	return math.Atan2(y, x)
}

// ILDGains splits gain g between the ears for azimuth theta.
func ILDGains(h Hemisphere, theta, g float64) (left, right float64) {
	w := frontILDWeight
	if h == Back {
		w = backILDWeight
	}
	c := math.Cos(theta)
	return g * (w - w*c), g * (w + w*c)
}

// Model holds the physical constants the directional cues depend on.
// A Model is immutable and safe for concurrent use.
type Model struct {
	SampleRate         float64 // Hz
	HeadWidth          float64 // meters
	SoundSpeed         float64 // meters per second
	ITDAmplification   float64
	NearFieldThreshold float64 // meters
	Epsilon            float64 // meters
}

// DefaultModel returns a Model with the default physical constants.
func DefaultModel() Model {
	return Model{
		SampleRate:         DefaultSampleRate,
		HeadWidth:          DefaultHeadWidth,
		SoundSpeed:         DefaultSoundSpeed,
		ITDAmplification:   DefaultITDAmplification,
		NearFieldThreshold: DefaultNearFieldThreshold,
		Epsilon:            DefaultEpsilon,
	}
}

// Cues are the per-render spatial parameters derived from one position.
type Cues struct {
	Distance   float64    // meters
	Gain       float64    // inverse-square gain before ILD
	Azimuth    float64    // radians
	Hemisphere Hemisphere // selects ILD weights and filter
	NearField  bool       // ILD collapsed to equal loudness

	LeftGain  float64
	RightGain float64

	// ITD is the physical interaural delay in seconds (before amplification).
	ITD float64

	// ITDSamples is the amplified delay rounded to whole samples.
	// Positive delays the left channel, negative delays the right.
	ITDSamples int
}

// ITD returns the physical interaural time difference in seconds.
func (m Model) ITD(theta float64) float64 {
	return m.HeadWidth * math.Sin(theta) / m.SoundSpeed
}

// ITDSamples converts an ITD in seconds to an amplified whole-sample offset.
func (m Model) ITDSamples(itd float64) int {
	return int(math.Round(itd * m.SampleRate * m.ITDAmplification))
}

// Cues computes every cue for a source at p.
func (m Model) Cues(p r3.Vec) (Cues, error) {
	d := Distance(p)
	g, err := InverseSquareGain(d, m.Epsilon)
	if err != nil {
		return Cues{}, err
	}

	theta := Azimuth(p.X, p.Y)
	h := HemisphereOf(p.Y)

	c := Cues{
		Distance:   d,
		Gain:       g,
		Azimuth:    theta,
		Hemisphere: h,
	}

	if d < m.NearFieldThreshold {
		c.NearField = true
		c.LeftGain = g * nearFieldGainWeight
		c.RightGain = g * nearFieldGainWeight
	} else {
		c.LeftGain, c.RightGain = ILDGains(h, theta, g)
	}

	c.ITD = m.ITD(theta)
	c.ITDSamples = m.ITDSamples(c.ITD)

	return c, nil
}
