package render

import "orbit/scene"

// MaxDepth is the deepest recursion level that is still shaded. Deeper
// calls return the background.
const MaxDepth = 2

const (
	floorLit      = 0.8
	floorShadowed = 0.3
	floorBase     = 0.3
	floorMirror   = 0.7

	ambient     = 0.3
	diffuseGain = 0.7
	minDiffuse  = 0.2
	maxDiffuse  = 1.0
)

// rgb holds unclamped integer channels. Every scale truncates toward zero.
type rgb struct {
	r, g, b int
}

var background = fromColor(scene.Background)

func fromColor(c scene.Color) rgb { return rgb{int(c.R), int(c.G), int(c.B)} }

func (c rgb) scale(f float64) rgb {
	return rgb{int(float64(c.r) * f), int(float64(c.g) * f), int(float64(c.b) * f)}
}

func (c rgb) add(o rgb) rgb { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }

func (c rgb) clamp() rgb { return rgb{clampU8(c.r), clampU8(c.g), clampU8(c.b)} }

func clampU8(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// tracer shades rays against one frame's spheres. onTrace, when set, sees
// every trace call with its depth.
type tracer struct {
	spheres []scene.Sphere
	onTrace func(depth int)
}

func (tr *tracer) trace(r Ray, depth int) rgb {
	if tr.onTrace != nil {
		tr.onTrace(depth)
	}
	if depth > MaxDepth {
		return background
	}
	h, ok := closest(tr.spheres, r)
	if !ok {
		return background
	}
	if h.kind == hitFloor {
		return tr.shadeFloor(r, h, depth)
	}
	return tr.shadeSphere(r, h, depth)
}

func (tr *tracer) shadeFloor(r Ray, h hit, depth int) rgb {
	base := fromColor(scene.Checker(h.point))
	if InShadow(tr.spheres, h.point) {
		base = base.scale(floorShadowed)
	} else {
		base = base.scale(floorLit)
	}

	mirror := Ray{Origin: h.point, Dir: scene.V(r.Dir.X, -r.Dir.Y, r.Dir.Z).Normalize()}
	refl := tr.trace(mirror, depth+1)
	return base.scale(floorBase).add(refl.scale(floorMirror))
}

func (tr *tracer) shadeSphere(r Ray, h hit, depth int) rgb {
	s := &tr.spheres[h.sphere]

	diffuse := minDiffuse
	if !InShadow(tr.spheres, h.point) {
		diffuse = min(max(h.normal.Dot(scene.LightDir), minDiffuse), maxDiffuse)
	}
	// The conversion keeps the product from being fused into the add.
	base := fromColor(s.Color).scale(ambient + float64(diffuseGain*diffuse))
	if s.Reflectivity <= 0 {
		return base
	}

	mirror := Ray{Origin: h.point, Dir: r.Dir.Reflect(h.normal)}
	refl := tr.trace(mirror, depth+1)
	return base.scale(1 - s.Reflectivity).add(refl.scale(s.Reflectivity))
}
