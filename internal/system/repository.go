package system

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"planetgen/internal/planet"
	"planetgen/internal/shared/database"
	apperrors "planetgen/internal/shared/errors"
)

type Repository struct {
	db      *database.DB
	planets *planet.Repository
	logger  *slog.Logger
}

func NewRepository(db *database.DB, planets *planet.Repository, logger *slog.Logger) *Repository {
	logger.Debug("Initializing system repository")

	return &Repository{
		db:      db,
		planets: planets,
		logger:  logger,
	}
}

const systemColumns = `id, name, seed, star_mass, luminosity, ecosphere_radius, planet_count, total_earth_mass, created_at`

func scanSystem(row interface{ Scan(...any) error }, s *System) error {
	return row.Scan(
		&s.ID,
		&s.Name,
		&s.Seed,
		&s.StarMass,
		&s.Luminosity,
		&s.EcosphereRadius,
		&s.PlanetCount,
		&s.TotalEarthMass,
		&s.CreatedAt,
	)
}

// CreateSystem stores the system and its planets in one transaction
func (r *Repository) CreateSystem(ctx context.Context, sys *System, planets []planet.Planet) (*System, error) {
	logger := r.logger.With(
		"component", "system_repository",
		"operation", "create_system",
		"name", sys.Name,
		"planets", len(planets),
	)
	logger.Debug("Creating system")

	query := `
		INSERT INTO star_systems (name, seed, star_mass, luminosity, ecosphere_radius, planet_count, total_earth_mass)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + systemColumns

	var created System
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		err := scanSystem(tx.QueryRowContext(ctx, query,
			sys.Name, sys.Seed, sys.StarMass, sys.Luminosity, sys.EcosphereRadius, sys.PlanetCount, sys.TotalEarthMass,
		), &created)
		if err != nil {
			logger.Error("Failed to insert system", "error", err)
			return apperrors.WrapExternal("failed to create system", err)
		}

		created.Planets, err = r.planets.CreatePlanetsBatch(ctx, created.ID, planets, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("System created", "system_id", created.ID)
	return &created, nil
}

func (r *Repository) ListSystems(ctx context.Context) ([]System, error) {
	logger := r.logger.With("component", "system_repository", "operation", "list_systems")

	rows, err := r.db.QueryContext(ctx, `SELECT `+systemColumns+` FROM star_systems ORDER BY created_at DESC, id DESC`)
	if err != nil {
		logger.Error("Failed to query systems", "error", err)
		return nil, apperrors.WrapExternal("failed to query systems", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var systems []System
	for rows.Next() {
		var s System
		if err := scanSystem(rows, &s); err != nil {
			logger.Error("Failed to scan system row", "error", err)
			return nil, apperrors.WrapExternal("failed to scan system", err)
		}
		systems = append(systems, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, apperrors.WrapExternal("error iterating systems", err)
	}

	logger.Debug("Systems retrieved", "count", len(systems))
	return systems, nil
}

// GetSystem loads one system with its planets
func (r *Repository) GetSystem(ctx context.Context, id int) (*System, error) {
	logger := r.logger.With("component", "system_repository", "operation", "get_system", "system_id", id)

	var s System
	err := scanSystem(r.db.QueryRowContext(ctx, `SELECT `+systemColumns+` FROM star_systems WHERE id = $1`, id), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("system %d not found", id)
	}
	if err != nil {
		logger.Error("Failed to query system", "error", err)
		return nil, apperrors.WrapExternal("failed to query system", err)
	}

	s.Planets, err = r.planets.GetPlanetsBySystemID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSystem removes a system; planets go with it through the foreign key cascade
func (r *Repository) DeleteSystem(ctx context.Context, id int) error {
	logger := r.logger.With("component", "system_repository", "operation", "delete_system", "system_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM star_systems WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete system", "error", err)
		return apperrors.WrapExternal("failed to delete system", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapExternal("failed to read delete result", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("system %d not found", id)
	}

	logger.Info("System deleted")
	return nil
}
