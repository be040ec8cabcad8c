package binaural

import "math"

// CirclePath samples a horizontal circle around the listener, starting on
// the +X axis and moving counter-clockwise (toward the front) by step
// radians until a full turn. It returns nil for a non-positive step.
func CirclePath(radius, step float64) []Position {
	if !(step > 0) {
		return nil
	}

	var path []Position
	for i := 0; ; i++ {
		angle := float64(i) * step
		if angle >= fullTurn {
			break
		}
		path = append(path, Position{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		})
	}
	return path
}

// DefaultCirclePath returns the one-meter circle in 0.2 rad steps.
func DefaultCirclePath() []Position {
	return CirclePath(DefaultCircleRadius, DefaultCircleStep)
}

// LinePath returns steps positions evenly spaced from from to to, both
// endpoints included. One step yields just from; fewer yields nil.
func LinePath(from, to Position, steps int) []Position {
	switch {
	case steps <= 0:
		return nil
	case steps == 1:
		return []Position{from}
	}

	path := make([]Position, steps)
	last := float64(steps - 1)
	for i := range path {
		f := float64(i) / last
		path[i] = Position{
			X: from.X + (to.X-from.X)*f,
			Y: from.Y + (to.Y-from.Y)*f,
			Z: from.Z + (to.Z-from.Z)*f,
		}
	}
	return path
}
