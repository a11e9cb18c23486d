package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cacheLevel is the depth at which the tetrahedron enclosing the last query
// is remembered. Nearby queries restart from there.
const cacheLevel = 11

// Generator computes a seeded fractal altitude for points on or near the unit
// sphere by repeatedly bisecting the longest edge of a tetrahedron.
//
// A Generator keeps the tetrahedron of its last query and the last shade
// value, so it must not be shared between goroutines.
type Generator struct {
	params Params
	root   tetrahedron

	cache  tetrahedron
	cached bool
	shade  uint8
}

func New(params Params) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		params: params,
		root:   seedTetrahedron(params.InitialAltitude, cornerSeeds(params.Seed)),
		shade:  shadeMid,
	}, nil
}

// AltitudeAt returns the altitude at (x, y, z). The result depends only on the
// parameters and the point.
func (g *Generator) AltitudeAt(x, y, z float64) float64 {
	p := mgl64.Vec3{x, y, z}
	if g.cached && g.cache.contains(p) {
		return g.subdivide(g.cache, p, cacheLevel)
	}
	return g.subdivide(g.root, p, g.params.Depth)
}

// AltitudeAtLatLon samples the unit sphere at a latitude and longitude in
// degrees. The y axis points to the north pole.
func (g *Generator) AltitudeAtLatLon(lat, lon float64) float64 {
	x, y, z := SpherePoint(lat, lon)
	return g.AltitudeAt(x, y, z)
}

// Shade returns the bump-map intensity of the last query, in [10, 255]. It
// is only updated when shading is enabled.
func (g *Generator) Shade() uint8 {
	return g.shade
}

func SpherePoint(lat, lon float64) (x, y, z float64) {
	phi := lat * math.Pi / 180
	theta := lon * math.Pi / 180
	return math.Cos(phi) * math.Cos(theta), math.Sin(phi), math.Cos(phi) * math.Sin(theta)
}

func (g *Generator) subdivide(t tetrahedron, p mgl64.Vec3, level int) float64 {
	for level > 0 {
		if level == cacheLevel {
			g.cache = t
			g.cached = true
		}
		if next, swapped := t.longestEdgeFirst(); swapped {
			t = next
			continue
		}
		t = g.bisect(t, p)
		level--
	}

	if g.params.Shade {
		g.shade = shadeOf(t, p, g.params.ShadeAngle)
	}
	return t.average()
}

// bisect cuts edge a-b near its middle and returns the half that holds p.
// Ties on the cutting plane go to the b half.
func (g *Generator) bisect(t tetrahedron, p mgl64.Vec3) tetrahedron {
	a, b, c, d := t[0], t[1], t[2], t[3]
	lab := dist2(a, b)

	es := rand2(a.seed, b.seed)
	es1 := rand2(es, es)
	es2 := 0.5 + 0.1*rand2(es1, es1)
	es3 := 1 - es2

	var pos mgl64.Vec3
	switch {
	case a.pos.X() < b.pos.X():
		pos = a.pos.Mul(es2).Add(b.pos.Mul(es3))
	case a.pos.X() > b.pos.X():
		pos = a.pos.Mul(es3).Add(b.pos.Mul(es2))
	default:
		pos = a.pos.Add(b.pos).Mul(0.5)
	}

	if lab > 1 {
		lab = math.Pow(lab, 0.75)
	}

	e := corner{
		alt: 0.5*(a.alt+b.alt) +
			es*g.params.AltitudeWeight*math.Abs(a.alt-b.alt) +
			es1*g.params.DistanceWeight*math.Pow(lab, g.params.Power),
		seed: es,
		pos:  pos,
	}

	if sameSide(e.pos, c.pos, d.pos, a.pos, p) {
		return tetrahedron{c, d, a, e}
	}
	return tetrahedron{c, d, b, e}
}
