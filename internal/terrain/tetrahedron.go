package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type corner struct {
	alt  float64
	seed float64
	pos  mgl64.Vec3
}

// tetrahedron holds corners a, b, c, d in that order.
type tetrahedron [4]corner

var sqrt3 = math.Sqrt(3)

// seedTetrahedron encloses the unit sphere. The corner offsets are slightly
// uneven so no edge pair ties in length.
func seedTetrahedron(alt float64, seeds [4]float64) tetrahedron {
	return tetrahedron{
		{alt: alt, seed: seeds[0], pos: mgl64.Vec3{-sqrt3 - 0.20, -sqrt3 - 0.22, -sqrt3 - 0.23}},
		{alt: alt, seed: seeds[1], pos: mgl64.Vec3{-sqrt3 - 0.19, sqrt3 + 0.18, sqrt3 + 0.17}},
		{alt: alt, seed: seeds[2], pos: mgl64.Vec3{sqrt3 + 0.21, -sqrt3 - 0.24, sqrt3 + 0.15}},
		{alt: alt, seed: seeds[3], pos: mgl64.Vec3{sqrt3 + 0.24, sqrt3 + 0.22, -sqrt3 - 0.25}},
	}
}

func dist2(u, v corner) float64 {
	d := u.pos.Sub(v.pos)
	return d.Dot(d)
}

// sameSide reports whether ref and p lie strictly on the same side of the
// plane through origin, u and v.
func sameSide(origin, u, v, ref, p mgl64.Vec3) bool {
	n := u.Sub(origin).Cross(v.Sub(origin))
	return n.Dot(ref.Sub(origin))*n.Dot(p.Sub(origin)) > 0
}

// contains reports whether p is strictly inside the tetrahedron. Points on a
// face count as outside.
func (t tetrahedron) contains(p mgl64.Vec3) bool {
	a, b, c, d := t[0].pos, t[1].pos, t[2].pos, t[3].pos
	return sameSide(a, b, c, d, p) &&
		sameSide(a, b, d, c, p) &&
		sameSide(a, d, c, b, p) &&
		sameSide(b, c, d, a, p)
}

// longestEdgeFirst permutes the corners so that a-b is the longest edge. The
// comparisons run in a fixed order and each permutation strictly lengthens
// a-b, so repeated calls settle. ok is false when no swap was needed.
func (t tetrahedron) longestEdgeFirst() (tetrahedron, bool) {
	a, b, c, d := t[0], t[1], t[2], t[3]
	lab := dist2(a, b)

	switch {
	case lab < dist2(a, c):
		return tetrahedron{a, c, b, d}, true
	case lab < dist2(a, d):
		return tetrahedron{a, d, b, c}, true
	case lab < dist2(b, c):
		return tetrahedron{b, c, a, d}, true
	case lab < dist2(b, d):
		return tetrahedron{b, d, a, c}, true
	case lab < dist2(c, d):
		return tetrahedron{c, d, a, b}, true
	}
	return t, false
}

func (t tetrahedron) average() float64 {
	return (t[0].alt + t[1].alt + t[2].alt + t[3].alt) / 4
}
