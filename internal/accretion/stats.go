package accretion

import (
	"math"
)

// ApplyStats fills in the physical characteristics of a finished planet:
// temperatures, density, radius, day length, gravity and escape velocity.
// Masses on the planet stay in solar units.
func ApplyStats(star *Star, p *Planet) {
	p.HighTemp = blackBodyTemp(star.Luminosity, p.Perihelion())
	p.LowTemp = blackBodyTemp(star.Luminosity, p.Aphelion())

	p.EarthMass = p.Mass * SolarMassInEarthMasses
	if p.Mass > 0 && p.GasMass/p.Mass < MinGasFraction {
		p.GasGiant = false
	}

	p.Density = empiricalDensity(p.EarthMass, p.A, star.EcosphereRadius, p.GasGiant)
	p.Radius = volumeRadius(p.Mass, p.Density)
	p.OrbitalPeriod = orbitalPeriod(p.A, star.Mass)
	p.Day, p.Resonant = dayLength(star, p)

	radiusCm := p.Radius * CmPerKm
	p.SurfaceAccel = 4.0 / 3.0 * math.Pi * GravConstant * p.Density * radiusCm
	p.SurfaceGravity = p.SurfaceAccel / EarthAcceleration
	p.EscapeVelocity = math.Sqrt(2*GravConstant*p.Mass*SolarMassInGrams/radiusCm) / CmPerKm
}

// blackBodyTemp is the equilibrium temperature in kelvin at distance r AU.
func blackBodyTemp(luminosity, r float64) float64 {
	flux := SolarConstant * luminosity / (r * r)
	return math.Pow(flux/(4*StefanBoltzmann), 0.25)
}

// empiricalDensity is in g/cm^3 for a mass in Earth units.
func empiricalDensity(earthMass, a, ecosphere float64, gasGiant bool) float64 {
	d := math.Pow(earthMass, 1.0/8) * math.Pow(ecosphere/a, 0.25)
	if gasGiant {
		return d * GasGiantDensityFactor
	}
	return d * RockyDensityFactor
}

// volumeRadius returns the radius in km of a sphere of the given solar mass
// and density.
func volumeRadius(mass, density float64) float64 {
	volume := mass * SolarMassInGrams / density
	return math.Cbrt(3*volume/(4*math.Pi)) / CmPerKm
}

// orbitalPeriod is in Earth days.
func orbitalPeriod(a, starMass float64) float64 {
	return math.Sqrt(a*a*a/starMass) * DaysInYear
}

// dayLength returns the rotation period in hours. Tidal braking over the
// star's age slows the primordial spin; a body spun down to a stop or past
// its year locks to the year, or to a spin-orbit resonance on an eccentric
// orbit.
func dayLength(star *Star, p *Planet) (float64, bool) {
	massGrams := p.Mass * SolarMassInGrams
	radiusCm := p.Radius * CmPerKm
	year := p.OrbitalPeriod * HoursInDay

	k2 := RockyK2
	if p.GasGiant {
		k2 = GasGiantK2
	}

	base := math.Sqrt(AngularMomentumJ * massGrams / ((k2 / 2) * radiusCm * radiusCm))
	dw := ChangeInEarthAngVel *
		(p.Density / EarthDensity) *
		(radiusCm / EarthRadiusCm) *
		(EarthMassInGrams / massGrams) *
		star.Mass * star.Mass /
		math.Pow(p.A, 6)
	omega := base + dw*StellarAgeYears

	stopped := false
	if omega <= 0 {
		omega = 0
		stopped = true
	}

	day := year
	if !stopped {
		day = 2 * math.Pi / (SecondsPerHour * omega)
	}

	if stopped || day >= year {
		if p.E > ResonanceEccentricity {
			return (1 - p.E) / (1 + p.E) * year, true
		}
		return year, false
	}
	return day, false
}
