package accretion

import (
	"math"
)

// Planet is a forming or finished body. Masses are in solar masses and
// distances in AU; the statistics block is filled in by ApplyStats.
type Planet struct {
	Number   int     `json:"number"`
	A        float64 `json:"a"`
	E        float64 `json:"e"`
	Mass     float64 `json:"mass"`
	DustMass float64 `json:"dust_mass"`
	GasMass  float64 `json:"gas_mass"`
	RMin     float64 `json:"r_min"`
	RMax     float64 `json:"r_max"`
	Reach    float64 `json:"reach"`
	GasGiant bool    `json:"gas_giant"`

	EarthMass      float64 `json:"earth_mass"`
	HighTemp       float64 `json:"high_temp"`
	LowTemp        float64 `json:"low_temp"`
	Density        float64 `json:"density"`
	Radius         float64 `json:"radius"`
	OrbitalPeriod  float64 `json:"orbital_period"`
	Day            float64 `json:"day"`
	Resonant       bool    `json:"resonant"`
	SurfaceAccel   float64 `json:"surface_accel"`
	SurfaceGravity float64 `json:"surface_gravity"`
	EscapeVelocity float64 `json:"escape_velocity"`
}

func (p *Planet) Perihelion() float64 {
	return p.A * (1 - p.E)
}

func (p *Planet) Aphelion() float64 {
	return p.A * (1 + p.E)
}

// updateLimits recomputes the gravitational reach and the swept interval
// [RMin, RMax] from the current orbit and mass.
func (p *Planet) updateLimits() {
	p.Reach = p.A * math.Pow(p.Mass/(1+p.Mass), 0.25)
	p.RMin = p.Perihelion() - p.Reach
	p.RMax = p.Aphelion() + p.Reach
}

// Overlaps reports whether the swept intervals of p and q intersect.
func (p *Planet) Overlaps(q *Planet) bool {
	return q.RMin < p.RMax && p.RMin < q.RMax
}

// InEcosphere reports whether the orbit lies within the star's habitable bounds.
func (p *Planet) InEcosphere(s *Star) bool {
	return p.A >= s.EcosphereInner && p.A <= s.EcosphereOuter
}

func (p *Planet) absorb(q *Planet) {
	mass := p.Mass + q.Mass
	p.A = mass / (p.Mass/p.A + q.Mass/q.A)
	p.E = math.Min(p.E, q.E)
	p.Mass = mass
	p.DustMass += q.DustMass
	p.GasMass += q.GasMass
	p.GasGiant = p.GasGiant || q.GasGiant
	p.updateLimits()
}
