// Package spatial computes the distance and direction cues used by the
// binaural renderer: inverse-square attenuation, azimuth, interaural level
// difference (ILD) and interaural time difference (ITD).
//
// The listener sits at the origin facing +Y. +X is to the listener's right.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateDistance is returned when a source is too close to the
// listener for the inverse-square gain to be defined.
var ErrDegenerateDistance = errors.New("degenerate source distance")

// Distance returns the Euclidean distance of p from the listener.
func Distance(p r3.Vec) float64 {
	return r3.Norm(p)
}

// InverseSquareGain returns 1/d² for a source at distance d.
//
// Distances at or below epsilon (and NaN) fail with ErrDegenerateDistance.
// There is no upper bound on the returned gain.
func InverseSquareGain(d, epsilon float64) (float64, error) {
	if math.IsNaN(d) || d <= epsilon {
		return 0, fmt.Errorf("%w: distance %g is at or below %g", ErrDegenerateDistance, d, epsilon)
	}
	return 1 / (d * d), nil
}
