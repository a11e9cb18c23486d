package system

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetgen/internal/accretion"
	"planetgen/internal/planet"
	"planetgen/internal/random"
	"planetgen/internal/shared/config"
	apperrors "planetgen/internal/shared/errors"
	"planetgen/internal/shared/redis"
)

type memoryStore struct {
	mu      sync.Mutex
	nextID  int
	systems map[int]System
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, systems: map[int]System{}}
}

func (m *memoryStore) CreateSystem(_ context.Context, sys *System, planets []planet.Planet) (*System, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *sys
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	created.Planets = make([]planet.Planet, len(planets))
	for i, p := range planets {
		p.ID = m.nextID*100 + i
		p.SystemID = created.ID
		created.Planets[i] = p
	}
	m.systems[created.ID] = created
	m.nextID++
	return &created, nil
}

func (m *memoryStore) ListSystems(context.Context) ([]System, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []System
	for _, s := range m.systems {
		s.Planets = nil
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStore) GetSystem(_ context.Context, id int) (*System, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.systems[id]
	if !ok {
		return nil, apperrors.NotFoundf("system %d not found", id)
	}
	return &s, nil
}

func (m *memoryStore) DeleteSystem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.systems[id]; !ok {
		return apperrors.NotFoundf("system %d not found", id)
	}
	delete(m.systems, id)
	return nil
}

type recordingPlanetCache struct {
	invalidated []int
}

func (r *recordingPlanetCache) Invalidate(_ context.Context, ids ...int) {
	r.invalidated = append(r.invalidated, ids...)
}

func testAccretionConfig() config.AccretionConfig {
	return config.AccretionConfig{
		MaxNuclei:       accretion.DefaultMaxNuclei,
		DefaultStarMass: 1,
		Timeout:         time.Minute,
	}
}

func newTestService(store Store, planets PlanetCache) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, planets, redis.NewCache(nil, "system", time.Minute, logger), testAccretionConfig(), logger)
}

func seed(v int64) *int64 { return &v }

func TestCreateSystem(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, &recordingPlanetCache{})

	created, err := svc.CreateSystem(context.Background(), CreateRequest{Name: "  Sol  ", Seed: seed(42)})
	require.NoError(t, err)

	assert.Equal(t, "Sol", created.Name)
	assert.Equal(t, int64(42), created.Seed)
	assert.Equal(t, 1.0, created.StarMass)
	assert.Equal(t, 1.0, created.Luminosity)
	assert.NotEmpty(t, created.Planets)
	assert.Equal(t, len(created.Planets), created.PlanetCount)

	var total float64
	for i, p := range created.Planets {
		assert.Equal(t, i, p.PlanetIndex)
		assert.Equal(t, planet.TerrainSeed(42, i), p.TerrainSeed)
		assert.Contains(t, []planet.PlanetType{
			planet.PlanetTypeBarren, planet.PlanetTypeTerrestrial, planet.PlanetTypeGasGiant,
			planet.PlanetTypeIce, planet.PlanetTypeVolcanic,
		}, p.Type)
		if i > 0 {
			assert.Greater(t, p.A, created.Planets[i-1].A)
		}
		total += p.EarthMass
	}
	assert.InDelta(t, total, created.TotalEarthMass, 1e-9)
}

func TestGenerateMatchesEngine(t *testing.T) {
	svc := newTestService(newMemoryStore(), &recordingPlanetCache{})

	sys, planets, err := svc.Generate(context.Background(), CreateRequest{Name: "Sol", Seed: seed(42)})
	require.NoError(t, err)

	star, err := accretion.NewStar(1, 0)
	require.NoError(t, err)
	engine := accretion.NewEngine(random.New(42), accretion.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, engine.CreateSystem(context.Background(), star))

	require.Len(t, planets, len(star.Planets))
	for i, body := range star.Planets {
		assert.Equal(t, body.A, planets[i].A)
		assert.Equal(t, body.EarthMass, planets[i].EarthMass)
	}
	assert.Equal(t, len(star.Planets), sys.PlanetCount)
}

func TestGenerateSeedsFromName(t *testing.T) {
	svc := newTestService(newMemoryStore(), &recordingPlanetCache{})

	a, planetsA, err := svc.Generate(context.Background(), CreateRequest{Name: "Vega"})
	require.NoError(t, err)
	b, planetsB, err := svc.Generate(context.Background(), CreateRequest{Name: "Vega"})
	require.NoError(t, err)

	assert.Equal(t, SeedFromName("Vega"), a.Seed)
	assert.Equal(t, a.Seed, b.Seed)
	assert.Equal(t, planetsA, planetsB)
	assert.NotEqual(t, SeedFromName("Vega"), SeedFromName("Altair"))
}

func TestGenerateValidation(t *testing.T) {
	svc := newTestService(newMemoryStore(), &recordingPlanetCache{})
	long := make([]byte, maxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"empty name", CreateRequest{Name: "   "}},
		{"long name", CreateRequest{Name: string(long)}},
		{"negative mass", CreateRequest{Name: "Sol", StarMass: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
		})
	}
}

func TestGenerateNucleusLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testAccretionConfig()
	cfg.MaxNuclei = 1
	svc := NewService(newMemoryStore(), &recordingPlanetCache{}, redis.NewCache(nil, "system", time.Minute, logger), cfg, logger)

	_, _, err := svc.Generate(context.Background(), CreateRequest{Name: "Sol", Seed: seed(42)})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Equal(t, `system "Sol" did not settle within 1 nuclei`, err.Error())
}

func TestGetAndDeleteSystem(t *testing.T) {
	store := newMemoryStore()
	planets := &recordingPlanetCache{}
	svc := newTestService(store, planets)
	ctx := context.Background()

	created, err := svc.CreateSystem(ctx, CreateRequest{Name: "Sol", Seed: seed(7)})
	require.NoError(t, err)

	got, err := svc.GetSystem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Planets, got.Planets)

	list, err := svc.ListSystems(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSystem(ctx, created.ID))
	assert.Len(t, planets.invalidated, len(created.Planets))

	_, err = svc.GetSystem(ctx, created.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetType(err))

	err = svc.DeleteSystem(ctx, created.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetType(err))
}
