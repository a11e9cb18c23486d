package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	shadeMin = 10
	shadeMax = 255
	shadeMid = 128
)

// shadeOf lights the final tetrahedron's altitude gradient from the given
// angle, in degrees, in the tangent frame at p.
func shadeOf(t tetrahedron, p mgl64.Vec3, angle float64) uint8 {
	centre := t[0].pos.Add(t[1].pos).Add(t[2].pos).Add(t[3].pos).Mul(0.25)

	var grad mgl64.Vec3
	for _, c := range t {
		grad = grad.Add(centre.Sub(c.pos).Mul(c.alt))
	}
	l1 := grad.Len()
	if l1 == 0 {
		l1 = 1
	}

	x, y, z := p.X(), p.Y(), p.Z()
	tmp := math.Sqrt(math.Max(0, 1-y*y))
	if tmp < 0.0001 {
		tmp = 0.0001
	}
	y2 := -x*y/tmp*grad.X() + tmp*grad.Y() - z*y/tmp*grad.Z()
	z2 := -z/tmp*grad.X() + x/tmp*grad.Z()

	rad := angle * math.Pi / 180
	v := (-math.Sin(rad)*y2-math.Cos(rad)*z2)/l1*48 + shadeMid
	switch {
	case math.IsNaN(v):
		return shadeMid
	case v < shadeMin:
		return shadeMin
	case v > shadeMax:
		return shadeMax
	}
	return uint8(v)
}
