package accretion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sun(t *testing.T) *Star {
	t.Helper()
	star, err := NewStar(1.0, 0)
	require.NoError(t, err)
	return star
}

func TestNewStarDerivesLuminosity(t *testing.T) {
	star := sun(t)
	assert.InDelta(t, 1.0, star.Luminosity, 1e-12)
	assert.InDelta(t, 1.0, star.EcosphereRadius, 1e-12)
	assert.InDelta(t, 0.93, star.EcosphereInner, 1e-12)
	assert.InDelta(t, 1.1, star.EcosphereOuter, 1e-12)

	bright, err := NewStar(1.0, 4.0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bright.EcosphereRadius, 1e-12)

	dim, err := NewStar(0.5, 0)
	require.NoError(t, err)
	assert.Less(t, dim.Luminosity, 1.0)

	_, err = NewStar(-1, 0)
	assert.Error(t, err)
}

func TestApplyStatsEarthLike(t *testing.T) {
	star := sun(t)
	p := &Planet{A: 1, E: 0.0167, Mass: 3e-6, DustMass: 3e-6}
	p.updateLimits()

	ApplyStats(star, p)

	assert.InDelta(t, 0.988, p.EarthMass, 0.01)
	assert.InDelta(t, 5.49, p.Density, 0.05)
	assert.InDelta(t, 6380, p.Radius, 30)
	assert.InDelta(t, 1.0, p.SurfaceGravity, 0.02)
	assert.InDelta(t, 11.17, p.EscapeVelocity, 0.1)
	assert.InDelta(t, 282.7, p.HighTemp, 1)
	assert.InDelta(t, 278.0, p.LowTemp, 1)
	assert.InDelta(t, 365.256, p.OrbitalPeriod, 1e-9)
	assert.InDelta(t, 16.0, p.Day, 1)
	assert.False(t, p.Resonant)
	assert.False(t, p.GasGiant)
	assert.True(t, p.InEcosphere(star))
}

func TestApplyStatsTidalLock(t *testing.T) {
	star := sun(t)

	tests := []struct {
		name     string
		e        float64
		resonant bool
		ratio    float64
	}{
		{"circular orbit locks to year", 0.05, false, 1},
		{"eccentric orbit resonates", 0.2, true, 0.8 / 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Planet{A: 0.05, E: tt.e, Mass: 3e-6, DustMass: 3e-6}
			ApplyStats(star, p)

			year := p.OrbitalPeriod * HoursInDay
			assert.Equal(t, tt.resonant, p.Resonant)
			assert.InDelta(t, tt.ratio*year, p.Day, 1e-9)
		})
	}
}

func TestApplyStatsReclassifiesThinAtmosphere(t *testing.T) {
	star := sun(t)

	thin := &Planet{A: 5, E: 0.05, Mass: 1e-4, DustMass: 0.95e-4, GasMass: 0.05e-4, GasGiant: true}
	ApplyStats(star, thin)
	assert.False(t, thin.GasGiant)

	giant := &Planet{A: 5.2, E: 0.05, Mass: 1e-3, DustMass: 1e-4, GasMass: 9e-4, GasGiant: true}
	ApplyStats(star, giant)
	assert.True(t, giant.GasGiant)
	assert.Less(t, giant.Density, 2.0)
	assert.Greater(t, giant.Radius, 40000.0)
}
