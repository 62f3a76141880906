package render

import (
	"math"

	"orbit/scene"
)

const (
	// epsilon rejects hits at the ray origin (surface acne).
	epsilon = 0.001

	// shadowMaxT bounds shadow rays.
	shadowMaxT = 10.0

	// minQuadA treats near-zero-length directions as misses.
	minQuadA = 1e-12
)

// IntersectSphere returns the near-root distance along r to s. The far root
// is never used: spheres are opaque and always seen from outside.
func IntersectSphere(r Ray, s *scene.Sphere) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	if !(a >= minQuadA) {
		return 0, false
	}
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if !validT(t) {
		return 0, false
	}
	return t, true
}

// IntersectFloor returns the distance along r to the visible part of the
// floor plane. Only descending rays can hit it.
func IntersectFloor(r Ray) (float64, bool) {
	if !(r.Dir.Y < 0) {
		return 0, false
	}
	t := (scene.FloorY - r.Origin.Y) / r.Dir.Y
	if !validT(t) {
		return 0, false
	}
	if !scene.InFloorBounds(r.At(t)) {
		return 0, false
	}
	return t, true
}

// validT also rejects NaN, which fails every comparison.
func validT(t float64) bool {
	return t > epsilon && !math.IsInf(t, 1)
}

// closest returns the globally nearest hit among the floor and spheres.
func closest(spheres []scene.Sphere, r Ray) (hit, bool) {
	best := hit{t: math.Inf(1)}
	if t, ok := IntersectFloor(r); ok {
		best.kind = hitFloor
		best.t = t
	}
	for i := range spheres {
		t, ok := IntersectSphere(r, &spheres[i])
		if !ok || t >= best.t {
			continue
		}
		best.kind = hitSphere
		best.t = t
		best.sphere = i
	}

	switch best.kind {
	case hitFloor:
		best.point = r.At(best.t)
		best.normal = scene.V(0, 1, 0)
	case hitSphere:
		s := &spheres[best.sphere]
		best.point = r.At(best.t)
		best.normal = best.point.Sub(s.Center).Scale(1 / s.Radius)
	default:
		return hit{}, false
	}
	return best, true
}

// InShadow reports whether any sphere blocks the light as seen from p.
// The floor never casts shadows.
func InShadow(spheres []scene.Sphere, p scene.Vec3) bool {
	r := Ray{Origin: p, Dir: scene.LightDir}
	for i := range spheres {
		if t, ok := IntersectSphere(r, &spheres[i]); ok && t < shadowMaxT {
			return true
		}
	}
	return false
}
