package server

import (
	"log/slog"
	"net/http"

	"planetgen/internal/middleware"
	"planetgen/internal/planet"
	planetHandlers "planetgen/internal/planet/handlers"
	serverHandlers "planetgen/internal/server/handlers"
	"planetgen/internal/system"
	systemHandlers "planetgen/internal/system/handlers"
)

type Routes struct {
	db             serverHandlers.Pinger
	cache          serverHandlers.CachePinger
	systemService  *system.Service
	planetService  *planet.Service
	auth           *middleware.AuthMiddleware
	allowedOrigins []string
	logger         *slog.Logger
}

func NewRoutes(
	db serverHandlers.Pinger,
	cache serverHandlers.CachePinger,
	systemService *system.Service,
	planetService *planet.Service,
	auth *middleware.AuthMiddleware,
	allowedOrigins []string,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:             db,
		cache:          cache,
		systemService:  systemService,
		planetService:  planetService,
		auth:           auth,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache)
	systemHandler := systemHandlers.NewSystemHandler(r.systemService)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService, r.allowedOrigins...)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("GET /api/systems", systemHandler.GetSystems)
	mux.HandleFunc("GET /api/systems/{id}", systemHandler.GetSystem)
	mux.HandleFunc("GET /api/systems/{id}/planets", planetHandler.GetBySystemID)
	mux.HandleFunc("POST /api/systems/preview", systemHandler.PreviewSystem)
	mux.HandleFunc("GET /api/planets/{id}", planetHandler.GetByID)
	mux.HandleFunc("GET /api/planets/{id}/altitude", planetHandler.GetAltitude)
	mux.HandleFunc("GET /api/planets/{id}/heightmap", planetHandler.GetHeightmap)
	mux.HandleFunc("GET /api/planets/{id}/heightmap/stream", planetHandler.StreamHeightmap)

	// Admin-only endpoints
	mux.Handle("POST /api/systems", r.auth.RequireAdmin(http.HandlerFunc(systemHandler.CreateSystem)))
	mux.Handle("DELETE /api/systems/{id}", r.auth.RequireAdmin(http.HandlerFunc(systemHandler.DeleteSystem)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health", "/api/systems", "/api/systems/{id}", "/api/systems/{id}/planets",
			"/api/systems/preview", "/api/planets/{id}", "/api/planets/{id}/altitude",
			"/api/planets/{id}/heightmap", "/api/planets/{id}/heightmap/stream",
		},
		"admin_endpoints", []string{"POST /api/systems", "DELETE /api/systems/{id}"},
	)

	return mux
}

// Handler wraps the routes in the global middleware chain, outermost first
func Handler(mux http.Handler, cors *middleware.CORSMiddleware, limiter *middleware.RateLimiter) http.Handler {
	return middleware.RequestID(cors.Middleware(limiter.Middleware(mux)))
}
