package planet

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetgen/internal/shared/config"
	apperrors "planetgen/internal/shared/errors"
	"planetgen/internal/shared/redis"
	"planetgen/internal/terrain"
)

type memoryStore struct {
	planets map[int]Planet
}

func (m *memoryStore) GetPlanetByID(_ context.Context, id int) (*Planet, error) {
	p, ok := m.planets[id]
	if !ok {
		return nil, apperrors.NotFoundf("planet %d not found", id)
	}
	return &p, nil
}

func (m *memoryStore) GetPlanetsBySystemID(_ context.Context, systemID int) ([]Planet, error) {
	var out []Planet
	for _, p := range m.planets {
		if p.SystemID == systemID {
			out = append(out, p)
		}
	}
	return out, nil
}

func testTerrainConfig() config.TerrainConfig {
	return config.TerrainConfig{
		DefaultDepth:    18,
		AltitudeWeight:  terrain.DefaultAltitudeWeight,
		DistanceWeight:  terrain.DefaultDistanceWeight,
		Power:           terrain.DefaultPower,
		InitialAltitude: terrain.DefaultInitialAltitude,
		ShadeAngle:      terrain.DefaultShadeAngle,
		MaxGridCells:    64 * 32,
		Workers:         2,
	}
}

func newTestService() *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &memoryStore{planets: map[int]Planet{
		1: {ID: 1, SystemID: 10, Name: "Vega I", TerrainSeed: TerrainSeed(42, 0)},
		2: {ID: 2, SystemID: 10, Name: "Vega II", TerrainSeed: TerrainSeed(42, 1)},
	}}
	cache := redis.NewCache(nil, "heightmap", time.Minute, logger)
	return NewService(store, cache, testTerrainConfig(), logger)
}

func TestAltitudeMatchesGenerator(t *testing.T) {
	svc := newTestService()

	sample, err := svc.Altitude(context.Background(), 1, 0.6, 0.48, 0.64, nil)
	require.NoError(t, err)
	assert.Equal(t, 18, sample.Depth)

	params := terrain.DefaultParams()
	params.Seed = TerrainSeed(42, 0)
	params.Depth = 18
	gen, err := terrain.New(params)
	require.NoError(t, err)
	assert.Equal(t, gen.AltitudeAt(0.6, 0.48, 0.64), sample.Altitude)
}

func TestAltitudeDiffersBetweenPlanets(t *testing.T) {
	svc := newTestService()
	depth := 20

	a, err := svc.Altitude(context.Background(), 1, 1, 0, 0, &depth)
	require.NoError(t, err)
	b, err := svc.Altitude(context.Background(), 2, 1, 0, 0, &depth)
	require.NoError(t, err)
	assert.NotEqual(t, a.Altitude, b.Altitude)
}

func TestAltitudeErrors(t *testing.T) {
	svc := newTestService()
	negative := -1

	tests := []struct {
		name  string
		id    int
		x     float64
		depth *int
		want  apperrors.ErrorType
	}{
		{"missing planet", 99, 1, nil, apperrors.ErrorTypeNotFound},
		{"nan coordinate", 1, math.NaN(), nil, apperrors.ErrorTypeValidation},
		{"negative depth", 1, 1, &negative, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Altitude(context.Background(), tt.id, tt.x, 0, 0, tt.depth)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.GetType(err))
		})
	}
}

func TestHeightmap(t *testing.T) {
	svc := newTestService()
	depth := 15

	grid, err := svc.Heightmap(context.Background(), 1, HeightmapRequest{Width: 16, Height: 8, Depth: &depth, Shade: true})
	require.NoError(t, err)
	assert.Equal(t, 16, grid.Width)
	assert.Len(t, grid.Altitudes, 8)
	assert.Len(t, grid.Shades, 8)

	var streamed [][]float64
	err = svc.StreamHeightmap(context.Background(), 1, HeightmapRequest{Width: 16, Height: 8, Depth: &depth, Shade: true}, func(r terrain.Row) error {
		streamed = append(streamed, r.Altitudes)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, grid.Altitudes, streamed)
}

func TestHeightmapLimits(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		req  HeightmapRequest
	}{
		{"zero width", HeightmapRequest{Width: 0, Height: 8}},
		{"too many cells", HeightmapRequest{Width: 64, Height: 64}},
		{"overflowing width", HeightmapRequest{Width: 1 << 40, Height: 1 << 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Heightmap(context.Background(), 1, tt.req)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
		})
	}
}

func TestGridParamsDefaultDepth(t *testing.T) {
	svc := newTestService()
	p := &Planet{TerrainSeed: 0.5}

	params, err := svc.gridParams(p, HeightmapRequest{Width: 64, Height: 32})
	require.NoError(t, err)
	assert.Equal(t, terrain.DepthFor(1, 32), params.Depth)
	assert.Equal(t, 0.5, params.Seed)
}

func TestHeightmapKeyFollowsTerrainConfig(t *testing.T) {
	svc := newTestService()
	p := &Planet{TerrainSeed: 0.5}
	req := HeightmapRequest{Width: 16, Height: 8}

	params, err := svc.gridParams(p, req)
	require.NoError(t, err)
	key := svc.heightmapKey(1, req, params)
	assert.Equal(t, key, svc.heightmapKey(1, req, params))

	svc.terrain.Power = 0.6
	retuned, err := svc.gridParams(p, req)
	require.NoError(t, err)
	assert.NotEqual(t, key, svc.heightmapKey(1, req, retuned))
}
