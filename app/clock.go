package app

import "math"

// orbitSpeed is in radians per second; one orbit takes 2π/1.5 ≈ 4.19 s.
const orbitSpeed = 1.5

// AngleAt maps milliseconds since start to the animation angle in [0, 2π).
func AngleAt(elapsedMillis uint64) float64 {
	seconds := float64(elapsedMillis) / 1000
	return math.Mod(seconds*orbitSpeed, 2*math.Pi)
}
