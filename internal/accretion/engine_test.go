package accretion

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetgen/internal/random"
	apperrors "planetgen/internal/shared/errors"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runSystem(t *testing.T, mass float64, seed int64, opts ...Option) (*Star, *Engine) {
	t.Helper()
	star, err := NewStar(mass, 0)
	require.NoError(t, err)

	engine := NewEngine(random.New(seed), append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, engine.CreateSystem(context.Background(), star))
	return star, engine
}

func TestCreateSystemSolarMass(t *testing.T) {
	star, engine := runSystem(t, 1.0, 42)

	require.NotEmpty(t, star.Planets)
	assert.Less(t, star.TotalMass(), InitialDiskMass(star))
	assert.True(t, engine.Disk().Dust.Empty())
	assert.Greater(t, engine.Nuclei(), 0)

	for i, p := range star.Planets {
		assert.Equal(t, i+1, p.Number)
		assert.Greater(t, p.Mass, NegligibleMass)
		for _, v := range []float64{p.A, p.E, p.Mass, p.DustMass, p.GasMass, p.Radius, p.Density, p.Day, p.EscapeVelocity} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "planet %d has a non-finite field", p.Number)
		}
	}
}

func TestCreateSystemInvariants(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		star, engine := runSystem(t, 1.0, seed)

		for i := 1; i < len(star.Planets); i++ {
			prev, cur := star.Planets[i-1], star.Planets[i]
			assert.Less(t, prev.A, cur.A, "seed %d: planets out of order", seed)
		}
		for i, p := range star.Planets {
			for _, q := range star.Planets[i+1:] {
				assert.False(t, p.Overlaps(q), "seed %d: planets %d and %d overlap", seed, p.Number, q.Number)
			}
		}

		disk := engine.Disk()
		assert.True(t, disk.Dust.Valid())
		assert.True(t, disk.Gas.Valid())
		assert.True(t, disk.Reserved.Valid())
	}
}

func TestCreateSystemDeterministic(t *testing.T) {
	first, _ := runSystem(t, 1.0, 42)
	second, _ := runSystem(t, 1.0, 42)

	require.Equal(t, len(first.Planets), len(second.Planets))
	for i := range first.Planets {
		assert.Equal(t, first.Planets[i].A, second.Planets[i].A)
		assert.Equal(t, first.Planets[i].E, second.Planets[i].E)
		assert.Equal(t, first.Planets[i].Mass, second.Planets[i].Mass)
	}
}

func TestCreateSystemReusesEngine(t *testing.T) {
	star, err := NewStar(1.0, 0)
	require.NoError(t, err)

	src := random.New(42)
	engine := NewEngine(src, WithLogger(quietLogger()))
	require.NoError(t, engine.CreateSystem(context.Background(), star))
	firstCount := len(star.Planets)

	src.Seed(42)
	require.NoError(t, engine.CreateSystem(context.Background(), star))
	assert.Len(t, star.Planets, firstCount)
}

func TestCreateSystemAfterWarmup(t *testing.T) {
	star, engine := runSystem(t, 0.8, 3, WithWarmupNuclei(0))

	assert.NotEmpty(t, star.Planets)
	assert.True(t, engine.Disk().Dust.Empty())
}

func TestCreateSystemRejectsBadStar(t *testing.T) {
	engine := NewEngine(random.New(1), WithLogger(quietLogger()))

	for _, mass := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := engine.CreateSystem(context.Background(), &Star{Mass: mass})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
	}

	err := engine.CreateSystem(context.Background(), nil)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
}

func TestCreateSystemNucleusLimit(t *testing.T) {
	star, err := NewStar(1.0, 0)
	require.NoError(t, err)

	engine := NewEngine(random.New(42), WithLogger(quietLogger()), WithMaxNuclei(1))
	err = engine.CreateSystem(context.Background(), star)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNucleusLimit)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetType(err))
}

func TestCreateSystemCancelled(t *testing.T) {
	star, err := NewStar(1.0, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = NewEngine(random.New(42), WithLogger(quietLogger())).CreateSystem(ctx, star)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlanetAbsorb(t *testing.T) {
	p := &Planet{A: 1, E: 0.1, Mass: 2e-6, DustMass: 2e-6}
	q := &Planet{A: 2, E: 0.05, Mass: 1e-6, DustMass: 5e-7, GasMass: 5e-7, GasGiant: true}

	p.absorb(q)

	assert.InDelta(t, 3e-6/(2e-6/1+1e-6/2), p.A, 1e-12)
	assert.Equal(t, 0.05, p.E)
	assert.InDelta(t, 3e-6, p.Mass, 1e-18)
	assert.InDelta(t, 2.5e-6, p.DustMass, 1e-18)
	assert.InDelta(t, 5e-7, p.GasMass, 1e-18)
	assert.True(t, p.GasGiant)
	assert.InDelta(t, p.A*(1-p.E)-p.Reach, p.RMin, 1e-12)
	assert.InDelta(t, p.A*(1+p.E)+p.Reach, p.RMax, 1e-12)
}

func TestCriticalMass(t *testing.T) {
	assert.InDelta(t, B, CriticalMass(1, 1), 1e-15)
	assert.Greater(t, CriticalMass(1, 0.5), CriticalMass(1, 5))
}
