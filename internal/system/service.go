package system

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash/v2"

	"planetgen/internal/accretion"
	"planetgen/internal/planet"
	"planetgen/internal/random"
	"planetgen/internal/shared/config"
	apperrors "planetgen/internal/shared/errors"
	"planetgen/internal/shared/redis"
)

// Store is the persistence the system service writes to
type Store interface {
	CreateSystem(ctx context.Context, sys *System, planets []planet.Planet) (*System, error)
	ListSystems(ctx context.Context) ([]System, error)
	GetSystem(ctx context.Context, id int) (*System, error)
	DeleteSystem(ctx context.Context, id int) error
}

// PlanetCache drops derived planet data when a system goes away
type PlanetCache interface {
	Invalidate(ctx context.Context, ids ...int)
}

type Service struct {
	store     Store
	planets   PlanetCache
	cache     *redis.Cache
	accretion config.AccretionConfig
	logger    *slog.Logger
}

func NewService(store Store, planets PlanetCache, cache *redis.Cache, accretionConfig config.AccretionConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing system service")

	return &Service{
		store:     store,
		planets:   planets,
		cache:     cache,
		accretion: accretionConfig,
		logger:    logger,
	}
}

// SeedFromName derives a stable accretion seed from a system name
func SeedFromName(name string) int64 {
	return int64(xxhash.Sum64String(name))
}

// Generate runs accretion for the request without storing anything
func (s *Service) Generate(ctx context.Context, req CreateRequest) (*System, []planet.Planet, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, apperrors.Validation("system name is required")
	}
	if len(name) > maxNameLength {
		return nil, nil, apperrors.Validationf("system name must be at most %d characters", maxNameLength)
	}

	mass := req.StarMass
	if mass == 0 {
		mass = s.accretion.DefaultStarMass
	}
	seed := SeedFromName(name)
	if req.Seed != nil {
		seed = *req.Seed
	}

	logger := s.logger.With("component", "system_service", "operation", "generate", "name", name, "seed", seed)

	star, err := accretion.NewStar(mass, req.Luminosity)
	if err != nil {
		return nil, nil, err
	}

	if s.accretion.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.accretion.Timeout)
		defer cancel()
	}

	engine := accretion.NewEngine(random.New(seed),
		accretion.WithLogger(s.logger),
		accretion.WithMaxNuclei(s.accretion.MaxNuclei),
	)
	if err := engine.CreateSystem(ctx, star); err != nil {
		if errors.Is(err, accretion.ErrNucleusLimit) {
			return nil, nil, apperrors.Internalf("system %q did not settle within %d nuclei", name, s.accretion.MaxNuclei)
		}
		return nil, nil, err
	}

	sys := &System{
		Name:            name,
		Seed:            seed,
		StarMass:        star.Mass,
		Luminosity:      star.Luminosity,
		EcosphereRadius: star.EcosphereRadius,
		PlanetCount:     len(star.Planets),
	}
	planets := make([]planet.Planet, 0, len(star.Planets))
	for i, body := range star.Planets {
		p := planet.FromAccretion(star, body, name, seed, i)
		sys.TotalEarthMass += p.EarthMass
		planets = append(planets, p)
	}

	logger.Info("Accretion finished",
		"planets", sys.PlanetCount,
		"total_earth_mass", sys.TotalEarthMass,
		"nuclei", engine.Nuclei())
	return sys, planets, nil
}

// CreateSystem generates and stores a system
func (s *Service) CreateSystem(ctx context.Context, req CreateRequest) (*System, error) {
	sys, planets, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateSystem(ctx, sys, planets)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, s.cache.Key(created.ID), created)
	return created, nil
}

func (s *Service) ListSystems(ctx context.Context) ([]System, error) {
	return s.store.ListSystems(ctx)
}

// GetSystem returns a system with its planets, served from the cache when possible
func (s *Service) GetSystem(ctx context.Context, id int) (*System, error) {
	key := s.cache.Key(id)

	var cached System
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	sys, err := s.store.GetSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, sys)
	return sys, nil
}

func (s *Service) DeleteSystem(ctx context.Context, id int) error {
	logger := s.logger.With("component", "system_service", "operation", "delete_system", "system_id", id)

	sys, err := s.store.GetSystem(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSystem(ctx, id); err != nil {
		return err
	}

	ids := make([]int, 0, len(sys.Planets))
	for _, p := range sys.Planets {
		ids = append(ids, p.ID)
	}
	s.cache.Delete(ctx, s.cache.Key(id))
	s.planets.Invalidate(ctx, ids...)

	logger.Info("System deleted", "planets", len(ids))
	return nil
}
