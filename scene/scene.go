// Package scene describes the fixed benchmark scene: three spheres orbiting
// above a bounded checkerboard floor, lit by one directional light.
package scene

import "math"

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	// Background is returned for rays that escape the scene.
	Background = Color{30, 40, 60}

	CheckerLight = Color{200, 200, 200}
	CheckerDark  = Color{100, 100, 100}
)

// LightDir is the unit direction towards the single directional light.
var LightDir = V(1, 1, 1).Normalize()

const (
	// FloorY is the height of the floor plane.
	FloorY = -2.0

	// NumSpheres is the fixed sphere count.
	NumSpheres = 3

	// The floor is only visible inside |x| < floorHalfX, |z-floorCenterZ| < floorHalfZ.
	floorHalfX   = 10.0
	floorHalfZ   = 10.0
	floorCenterZ = -5.0

	orbitRadius  = 2.0
	orbitCenterZ = -5.0
)

// Sphere is a shaded sphere primitive.
type Sphere struct {
	Center       Vec3
	Radius       float64
	Color        Color
	Reflectivity float64
}

// Scene is the per-frame geometry. It is a value; building a new frame never
// touches a previous one.
type Scene struct {
	Spheres [NumSpheres]Sphere
}

// angleGrid is the resolution Wrap snaps to, in radians.
const angleGrid = 1e-12

// Wrap reduces theta to [0, 2π) and snaps it to a 1e-12 rad grid, so theta
// and theta+2πk wrap to the same float64 and build identical scenes.
func Wrap(theta float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0
	}
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	theta = math.Round(theta/angleGrid) * angleGrid
	if theta >= 2*math.Pi {
		theta = 0
	}
	return theta
}

// Build places the spheres for animation angle theta (radians). Any finite
// theta is valid; the orbit has period 2π and theta is reduced with Wrap.
func Build(theta float64) Scene {
	sin, cos := math.Sincos(Wrap(theta))
	return Scene{
		Spheres: [NumSpheres]Sphere{
			{
				Center:       V(0, 0, orbitCenterZ),
				Radius:       1,
				Color:        Color{255, 0, 0},
				Reflectivity: 0.7,
			},
			{
				Center:       V(-orbitRadius*cos, 0, orbitCenterZ+orbitRadius*sin),
				Radius:       0.8,
				Color:        Color{0, 255, 0},
				Reflectivity: 0.6,
			},
			{
				Center:       V(orbitRadius*cos, 0, orbitCenterZ-orbitRadius*sin),
				Radius:       0.8,
				Color:        Color{0, 0, 255},
				Reflectivity: 0.6,
			},
		},
	}
}

// InFloorBounds reports whether a point on the floor plane lies in the
// visible rectangle.
func InFloorBounds(p Vec3) bool {
	return math.Abs(p.X) < floorHalfX && math.Abs(p.Z-floorCenterZ) < floorHalfZ
}

// Checker returns the floor color at p: light cells where ⌊x⌋+⌊z⌋ is even.
func Checker(p Vec3) Color {
	cell := int64(math.Floor(p.X)) + int64(math.Floor(p.Z))
	if cell&1 == 0 {
		return CheckerLight
	}
	return CheckerDark
}
