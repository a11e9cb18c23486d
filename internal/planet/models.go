package planet

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"planetgen/internal/accretion"
)

type PlanetType string

const (
	PlanetTypeBarren      PlanetType = "barren"
	PlanetTypeTerrestrial PlanetType = "terrestrial"
	PlanetTypeGasGiant    PlanetType = "gas_giant"
	PlanetTypeIce         PlanetType = "ice"
	PlanetTypeVolcanic    PlanetType = "volcanic"
)

const (
	volcanicTemp        = 500.0
	iceTemp             = 200.0
	minTerrestrialEarth = 0.1
)

// Planet is a persisted accretion result. Distances are in AU, masses in
// Earth masses, temperatures in kelvin, periods in days and day length in hours.
type Planet struct {
	ID             int        `json:"id"`
	SystemID       int        `json:"system_id"`
	PlanetIndex    int        `json:"planet_index"`
	Name           string     `json:"name"`
	Type           PlanetType `json:"type"`
	A              float64    `json:"a"`
	E              float64    `json:"e"`
	EarthMass      float64    `json:"earth_mass"`
	DustFraction   float64    `json:"dust_fraction"`
	GasGiant       bool       `json:"gas_giant"`
	Radius         float64    `json:"radius"`
	Density        float64    `json:"density"`
	HighTemp       float64    `json:"high_temp"`
	LowTemp        float64    `json:"low_temp"`
	OrbitalPeriod  float64    `json:"orbital_period"`
	Day            float64    `json:"day"`
	Resonant       bool       `json:"resonant"`
	SurfaceGravity float64    `json:"surface_gravity"`
	EscapeVelocity float64    `json:"escape_velocity"`
	TerrainSeed    float64    `json:"terrain_seed"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Classify maps accretion output onto a planet type. Rules are checked in order.
func Classify(star *accretion.Star, p *accretion.Planet) PlanetType {
	switch {
	case p.GasGiant:
		return PlanetTypeGasGiant
	case p.HighTemp >= volcanicTemp:
		return PlanetTypeVolcanic
	case p.LowTemp < iceTemp:
		return PlanetTypeIce
	case p.InEcosphere(star) && p.EarthMass >= minTerrestrialEarth:
		return PlanetTypeTerrestrial
	default:
		return PlanetTypeBarren
	}
}

// TerrainSeed derives the terrain generator seed for the index-th planet of a
// system. The result lies strictly inside (0, 1).
func TerrainSeed(systemSeed int64, index int) float64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(systemSeed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	h := xxhash.Sum64(buf[:])
	return (float64(h>>11) + 0.5) / (1 << 53)
}

// FromAccretion converts the index-th finished body of star into a Planet
func FromAccretion(star *accretion.Star, p *accretion.Planet, systemName string, systemSeed int64, index int) Planet {
	dust := 1.0
	if p.Mass > 0 {
		dust = math.Min(1, p.DustMass/p.Mass)
	}

	return Planet{
		PlanetIndex:    index,
		Name:           fmt.Sprintf("%s %s", systemName, Numeral(index+1)),
		Type:           Classify(star, p),
		A:              p.A,
		E:              p.E,
		EarthMass:      p.EarthMass,
		DustFraction:   dust,
		GasGiant:       p.GasGiant,
		Radius:         p.Radius,
		Density:        p.Density,
		HighTemp:       p.HighTemp,
		LowTemp:        p.LowTemp,
		OrbitalPeriod:  p.OrbitalPeriod,
		Day:            p.Day,
		Resonant:       p.Resonant,
		SurfaceGravity: p.SurfaceGravity,
		EscapeVelocity: p.EscapeVelocity,
		TerrainSeed:    TerrainSeed(systemSeed, index),
	}
}

var numerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Numeral renders n as a Roman numeral for planet names
func Numeral(n int) string {
	var out []byte
	for _, num := range numerals {
		for n >= num.value {
			out = append(out, num.symbol...)
			n -= num.value
		}
	}
	return string(out)
}

// AltitudeSample is the terrain at one point of a planet's surface
type AltitudeSample struct {
	PlanetID int     `json:"planet_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Depth    int     `json:"depth"`
	Altitude float64 `json:"altitude"`
	Shade    uint8   `json:"shade"`
}
