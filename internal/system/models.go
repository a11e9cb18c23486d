package system

import (
	"time"

	"planetgen/internal/planet"
)

// System is a star with the planets accreted around it
type System struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Seed            int64           `json:"seed"`
	StarMass        float64         `json:"star_mass"`
	Luminosity      float64         `json:"luminosity"`
	EcosphereRadius float64         `json:"ecosphere_radius"`
	PlanetCount     int             `json:"planet_count"`
	TotalEarthMass  float64         `json:"total_earth_mass"`
	CreatedAt       time.Time       `json:"created_at"`
	Planets         []planet.Planet `json:"planets,omitempty"`
}

// CreateRequest is the body of a system generation request. A zero star mass
// uses the configured default, a non-positive luminosity is derived from the
// mass and a missing seed is derived from the name.
type CreateRequest struct {
	Name       string  `json:"name"`
	StarMass   float64 `json:"star_mass"`
	Luminosity float64 `json:"luminosity"`
	Seed       *int64  `json:"seed"`
}

const maxNameLength = 100
