package planet

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"planetgen/internal/shared/config"
	apperrors "planetgen/internal/shared/errors"
	"planetgen/internal/shared/redis"
	"planetgen/internal/terrain"
)

// Store is the persistence the planet service reads from
type Store interface {
	GetPlanetByID(ctx context.Context, id int) (*Planet, error)
	GetPlanetsBySystemID(ctx context.Context, systemID int) ([]Planet, error)
}

// HeightmapRequest selects the grid to sample. A nil Depth picks one from the grid height.
type HeightmapRequest struct {
	Width  int
	Height int
	Depth  *int
	Shade  bool
}

type Service struct {
	store   Store
	cache   *redis.Cache
	terrain config.TerrainConfig
	logger  *slog.Logger
}

func NewService(store Store, cache *redis.Cache, terrainConfig config.TerrainConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		store:   store,
		cache:   cache,
		terrain: terrainConfig,
		logger:  logger,
	}
}

func (s *Service) GetBySystemID(ctx context.Context, systemID int) ([]Planet, error) {
	return s.store.GetPlanetsBySystemID(ctx, systemID)
}

func (s *Service) GetByID(ctx context.Context, id int) (*Planet, error) {
	return s.store.GetPlanetByID(ctx, id)
}

// TerrainParams builds generator parameters for a planet from the configured defaults
func (s *Service) TerrainParams(p *Planet, depth int, shade bool) terrain.Params {
	return terrain.Params{
		Seed:            p.TerrainSeed,
		InitialAltitude: s.terrain.InitialAltitude,
		Power:           s.terrain.Power,
		AltitudeWeight:  s.terrain.AltitudeWeight,
		DistanceWeight:  s.terrain.DistanceWeight,
		Depth:           depth,
		Shade:           shade,
		ShadeAngle:      s.terrain.ShadeAngle,
	}
}

// Altitude evaluates one surface point. A nil depth uses the configured default.
func (s *Service) Altitude(ctx context.Context, id int, x, y, z float64, depth *int) (*AltitudeSample, error) {
	for _, v := range []float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.Validation("coordinates must be finite numbers")
		}
	}

	p, err := s.store.GetPlanetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := s.terrain.DefaultDepth
	if depth != nil {
		d = *depth
	}

	gen, err := terrain.New(s.TerrainParams(p, d, true))
	if err != nil {
		return nil, err
	}

	alt := gen.AltitudeAt(x, y, z)
	return &AltitudeSample{
		PlanetID: id,
		X:        x,
		Y:        y,
		Z:        z,
		Depth:    d,
		Altitude: alt,
		Shade:    gen.Shade(),
	}, nil
}

func (s *Service) gridParams(p *Planet, req HeightmapRequest) (terrain.Params, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return terrain.Params{}, apperrors.Validationf("grid size must be positive, got %dx%d", req.Width, req.Height)
	}
	if req.Width > s.terrain.MaxGridCells || req.Height > s.terrain.MaxGridCells || req.Width*req.Height > s.terrain.MaxGridCells {
		return terrain.Params{}, apperrors.Validationf("grid %dx%d exceeds the limit of %d cells", req.Width, req.Height, s.terrain.MaxGridCells)
	}

	depth := min(terrain.DepthFor(1, req.Height), terrain.MaxDepth)
	if req.Depth != nil {
		depth = *req.Depth
	}
	return s.TerrainParams(p, depth, req.Shade), nil
}

// Heightmap samples an equirectangular grid of a planet's altitudes. Results are cached per
// planet, size and generator parameters.
func (s *Service) Heightmap(ctx context.Context, id int, req HeightmapRequest) (*terrain.Grid, error) {
	logger := s.logger.With("component", "planet_service", "operation", "heightmap", "planet_id", id)

	p, err := s.store.GetPlanetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params, err := s.gridParams(p, req)
	if err != nil {
		return nil, err
	}

	key := s.heightmapKey(id, req, params)
	var cached terrain.Grid
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	logger.Debug("Sampling heightmap", "width", req.Width, "height", req.Height, "depth", params.Depth)
	grid, err := terrain.SampleGrid(ctx, params, req.Width, req.Height, s.terrain.Workers)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			return nil, err
		}
		return nil, apperrors.WrapInternal("failed to sample heightmap", err)
	}

	s.cache.Set(ctx, key, grid)
	logger.Info("Heightmap sampled", "width", grid.Width, "height", grid.Height, "min", grid.Min, "max", grid.Max)
	return grid, nil
}

func (s *Service) heightmapKey(id int, req HeightmapRequest, params terrain.Params) string {
	return s.cache.Key(id, fmt.Sprintf("%dx%d", req.Width, req.Height), fmt.Sprintf("d%d", params.Depth), fmt.Sprintf("%016x", params.Fingerprint()))
}

// StreamHeightmap samples the same grid as Heightmap and hands rows to emit in order
func (s *Service) StreamHeightmap(ctx context.Context, id int, req HeightmapRequest, emit func(terrain.Row) error) error {
	p, err := s.store.GetPlanetByID(ctx, id)
	if err != nil {
		return err
	}

	params, err := s.gridParams(p, req)
	if err != nil {
		return err
	}

	return terrain.SampleRows(ctx, params, req.Width, req.Height, emit)
}

// Invalidate drops cached heightmaps of the given planets
func (s *Service) Invalidate(ctx context.Context, ids ...int) {
	for _, id := range ids {
		s.cache.DeletePattern(ctx, s.cache.Key(id, "*"))
	}
}
