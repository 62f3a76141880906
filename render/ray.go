package render

import "orbit/scene"

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin scene.Vec3
	Dir    scene.Vec3
}

func (r Ray) At(t float64) scene.Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

type hitKind uint8

const (
	hitNone hitKind = iota
	hitFloor
	hitSphere
)

// hit is the nearest intersection along a ray. sphere indexes the scene's
// sphere slice when kind is hitSphere.
type hit struct {
	kind   hitKind
	t      float64
	point  scene.Vec3
	normal scene.Vec3
	sphere int
}

// PrimaryRay returns the camera ray through pixel (x, y) of a w×h image.
// The camera sits at the origin looking down -z. w and h must be positive.
func PrimaryRay(x, y, w, h int) Ray {
	fw := float64(w)
	fh := float64(h)
	aspect := fw / fh
	u := (2*float64(x)/fw - 1) * aspect
	v := -(2*float64(y)/fh - 1)
	return Ray{Dir: scene.V(u, v, -1).Normalize()}
}
