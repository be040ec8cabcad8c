package spatial

// Interaural level difference weights. The back weight swings wider than the
// front one so rear sources are easier to place.
const (
	frontILDWeight = 0.5
	backILDWeight  = 0.8
)

// Near-field behaviour
const (
	nearFieldGainWeight = 0.5 // Equal per-ear weight inside the near-field radius
)

// Default physical constants
const (
	DefaultSampleRate         = 44100.0 // Hz
	DefaultHeadWidth          = 0.2     // meters
	DefaultSoundSpeed         = 343.0   // meters per second
	DefaultITDAmplification   = 10.0    // Multiplier on the physical ITD
	DefaultNearFieldThreshold = 0.5     // meters
	DefaultEpsilon            = 1e-9    // Smallest usable source distance in meters
)
