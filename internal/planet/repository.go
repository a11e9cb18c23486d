package planet

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"

	"planetgen/internal/shared/database"
	apperrors "planetgen/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const planetColumns = `id, system_id, planet_index, name, type, a, e, earth_mass, dust_fraction, gas_giant,
	radius, density, high_temp, low_temp, orbital_period, day, resonant, surface_gravity, escape_velocity,
	terrain_seed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanet(row rowScanner, p *Planet) error {
	return row.Scan(
		&p.ID,
		&p.SystemID,
		&p.PlanetIndex,
		&p.Name,
		&p.Type,
		&p.A,
		&p.E,
		&p.EarthMass,
		&p.DustFraction,
		&p.GasGiant,
		&p.Radius,
		&p.Density,
		&p.HighTemp,
		&p.LowTemp,
		&p.OrbitalPeriod,
		&p.Day,
		&p.Resonant,
		&p.SurfaceGravity,
		&p.EscapeVelocity,
		&p.TerrainSeed,
		&p.CreatedAt,
	)
}

func (r *Repository) GetPlanetByID(ctx context.Context, id int) (*Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planet", "planet_id", id)

	query := `SELECT ` + planetColumns + ` FROM planets WHERE id = $1`

	var p Planet
	err := scanPlanet(r.db.QueryRowContext(ctx, query, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("planet %d not found", id)
	}
	if err != nil {
		logger.Error("Failed to query planet", "error", err)
		return nil, apperrors.WrapExternal("failed to query planet", err)
	}
	return &p, nil
}

func (r *Repository) GetPlanetsBySystemID(ctx context.Context, systemID int) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planets_by_system", "system_id", systemID)
	logger.Debug("Getting planets by system ID")

	query := `SELECT ` + planetColumns + ` FROM planets WHERE system_id = $1 ORDER BY planet_index`

	rows, err := r.db.QueryContext(ctx, query, systemID)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, apperrors.WrapExternal("failed to query planets", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	planets, err := collectPlanets(rows)
	if err != nil {
		logger.Error("Failed to read planet rows", "error", err)
		return nil, err
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

// CreatePlanetsBatch inserts every planet of a system in a single statement
func (r *Repository) CreatePlanetsBatch(ctx context.Context, systemID int, planets []Planet, tx *database.Tx) ([]Planet, error) {
	if len(planets) == 0 {
		return []Planet{}, nil
	}

	exec := r.getExecutor(tx)
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "create_planets_batch",
		"system_id", systemID,
		"count", len(planets),
	)

	planetsJSON, err := json.Marshal(planets)
	if err != nil {
		logger.Error("Failed to marshal planets to JSON", "error", err)
		return nil, apperrors.WrapInternal("failed to marshal planets", err)
	}

	query := `
		INSERT INTO planets (system_id, planet_index, name, type, a, e, earth_mass, dust_fraction, gas_giant,
			radius, density, high_temp, low_temp, orbital_period, day, resonant, surface_gravity, escape_velocity,
			terrain_seed)
		SELECT
			$1,
			(data->>'planet_index')::integer,
			data->>'name',
			(data->>'type')::planet_type,
			(data->>'a')::double precision,
			(data->>'e')::double precision,
			(data->>'earth_mass')::double precision,
			(data->>'dust_fraction')::double precision,
			(data->>'gas_giant')::boolean,
			(data->>'radius')::double precision,
			(data->>'density')::double precision,
			(data->>'high_temp')::double precision,
			(data->>'low_temp')::double precision,
			(data->>'orbital_period')::double precision,
			(data->>'day')::double precision,
			(data->>'resonant')::boolean,
			(data->>'surface_gravity')::double precision,
			(data->>'escape_velocity')::double precision,
			(data->>'terrain_seed')::double precision
		FROM json_array_elements($2::json) AS data
		RETURNING ` + planetColumns

	rows, err := exec.QueryContext(ctx, query, systemID, string(planetsJSON))
	if err != nil {
		logger.Error("Failed to batch create planets", "error", err)
		return nil, apperrors.WrapExternal("failed to batch create planets", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	created, err := collectPlanets(rows)
	if err != nil {
		logger.Error("Failed to read created planets", "error", err)
		return nil, err
	}

	slices.SortFunc(created, func(a, b Planet) int { return cmp.Compare(a.PlanetIndex, b.PlanetIndex) })
	logger.Debug("Planets batch created successfully", "count", len(created))
	return created, nil
}

func collectPlanets(rows *sql.Rows) ([]Planet, error) {
	var planets []Planet
	for rows.Next() {
		var p Planet
		if err := scanPlanet(rows, &p); err != nil {
			return nil, apperrors.WrapExternal("failed to scan planet", err)
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapExternal("error iterating planets", err)
	}
	return planets, nil
}
