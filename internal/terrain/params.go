package terrain

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	apperrors "planetgen/internal/shared/errors"
)

const (
	// MaxDepth bounds the recursion; each level bisects one edge.
	MaxDepth = 64

	DefaultSeed            = 0.123
	DefaultInitialAltitude = -0.02
	DefaultPower           = 0.47
	DefaultAltitudeWeight  = 0.45
	DefaultDistanceWeight  = 0.035
	DefaultDepth           = 24
	DefaultShadeAngle      = 150.0
)

// Params configures a Generator.
type Params struct {
	Seed            float64 `json:"seed"`
	InitialAltitude float64 `json:"initial_altitude"`
	Power           float64 `json:"power"`
	AltitudeWeight  float64 `json:"altitude_weight"`
	DistanceWeight  float64 `json:"distance_weight"`
	Depth           int     `json:"depth"`
	Shade           bool    `json:"shade"`
	ShadeAngle      float64 `json:"shade_angle"`
}

func DefaultParams() Params {
	return Params{
		Seed:            DefaultSeed,
		InitialAltitude: DefaultInitialAltitude,
		Power:           DefaultPower,
		AltitudeWeight:  DefaultAltitudeWeight,
		DistanceWeight:  DefaultDistanceWeight,
		Depth:           DefaultDepth,
		ShadeAngle:      DefaultShadeAngle,
	}
}

func (p Params) Validate() error {
	if p.Depth < 0 {
		return apperrors.Validationf("subdivision depth must not be negative, got %d", p.Depth)
	}
	if p.Depth > MaxDepth {
		return apperrors.Validationf("subdivision depth must be at most %d, got %d", MaxDepth, p.Depth)
	}

	fields := map[string]float64{
		"seed":             p.Seed,
		"initial_altitude": p.InitialAltitude,
		"power":            p.Power,
		"altitude_weight":  p.AltitudeWeight,
		"distance_weight":  p.DistanceWeight,
		"shade_angle":      p.ShadeAngle,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.Validationf("%s must be finite, got %g", name, v)
		}
	}
	return nil
}

// Fingerprint hashes every field that affects sampled altitudes or shades.
// Equal params give equal fingerprints.
func (p Params) Fingerprint() uint64 {
	var buf [8]byte
	d := xxhash.New()
	for _, v := range []float64{p.Seed, p.InitialAltitude, p.Power, p.AltitudeWeight, p.DistanceWeight, p.ShadeAngle} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(p.Depth))
	_, _ = d.Write(buf[:])
	if p.Shade {
		_, _ = d.Write([]byte{1})
	} else {
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// DepthFor returns the subdivision depth that resolves a map of the given
// pixel height at the given scale.
func DepthFor(scale float64, height int) int {
	if scale*float64(height) < 1 {
		return 6
	}
	return 3*int(math.Log2(scale*float64(height))) + 6
}
