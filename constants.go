package binaural

import (
	"math"

	"github.com/tphakala/go-binaural/internal/spatial"
)

// Default spatial parameters
const (
	DefaultSampleRate         = spatial.DefaultSampleRate         // Hz
	DefaultDuration           = 1.0                               // seconds
	DefaultHeadWidth          = spatial.DefaultHeadWidth          // meters
	DefaultSoundSpeed         = spatial.DefaultSoundSpeed         // meters per second
	DefaultITDAmplification   = spatial.DefaultITDAmplification   // Multiplier on the physical ITD
	DefaultNearFieldThreshold = spatial.DefaultNearFieldThreshold // meters
	DefaultFrontCutoff        = 0.8                               // Lowpass cutoff, fraction of Nyquist
	DefaultBackCutoff         = 0.2                               // Highpass cutoff, fraction of Nyquist
	DefaultEpsilon            = spatial.DefaultEpsilon            // meters
)

// Continuous path defaults
const (
	DefaultCircleRadius = 1.0 // meters
	DefaultCircleStep   = 0.2 // radians between path steps
)

const (
	stereoChannels = 2
	fullTurn       = 2 * math.Pi
)
