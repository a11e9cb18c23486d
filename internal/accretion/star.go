package accretion

import (
	"math"

	apperrors "planetgen/internal/shared/errors"
)

// Star hosts a planetary system. Planets is kept sorted by semi-major axis.
type Star struct {
	Mass            float64   `json:"mass"`
	Luminosity      float64   `json:"luminosity"`
	EcosphereRadius float64   `json:"ecosphere_radius"`
	EcosphereInner  float64   `json:"ecosphere_inner"`
	EcosphereOuter  float64   `json:"ecosphere_outer"`
	Planets         []*Planet `json:"planets"`
}

// NewStar builds a star, deriving luminosity from mass when luminosity <= 0.
func NewStar(mass, luminosity float64) (*Star, error) {
	s := &Star{Mass: mass, Luminosity: luminosity}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.derive()
	return s, nil
}

// Luminosity applies the mass-luminosity relation, in solar units.
func Luminosity(mass float64) float64 {
	var n float64
	if mass < 1 {
		n = 1.75*(mass-0.1) + 3.325
	} else {
		n = 0.5*(2-mass) + 4.4
	}
	return math.Pow(mass, n)
}

func (s *Star) validate() error {
	if math.IsNaN(s.Mass) || math.IsInf(s.Mass, 0) || s.Mass <= 0 {
		return apperrors.Validationf("star mass must be a positive finite number, got %g", s.Mass)
	}
	if math.IsNaN(s.Luminosity) || math.IsInf(s.Luminosity, 0) {
		return apperrors.Validationf("star luminosity must be finite, got %g", s.Luminosity)
	}
	return nil
}

func (s *Star) derive() {
	if s.Luminosity <= 0 {
		s.Luminosity = Luminosity(s.Mass)
	}
	s.EcosphereRadius = math.Sqrt(s.Luminosity)
	s.EcosphereInner = 0.93 * s.EcosphereRadius
	s.EcosphereOuter = 1.1 * s.EcosphereRadius
}

// DiskBounds returns the inner and outer radius of the protoplanetary disk, in AU.
func (s *Star) DiskBounds() (inner, outer float64) {
	scale := math.Pow(s.Mass, DiskMassExp)
	return InnerDiskFactor * scale, OuterDiskFactor * scale
}

// TotalMass sums the planet masses, in solar masses.
func (s *Star) TotalMass() float64 {
	var total float64
	for _, p := range s.Planets {
		total += p.Mass
	}
	return total
}
