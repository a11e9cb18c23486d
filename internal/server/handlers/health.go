package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"planetgen/internal/shared/redis"
	"planetgen/internal/shared/response"
)

// Pinger is anything whose liveness can be probed
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger reports redis liveness; redis.ErrDisabled means caching is off
type CachePinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type HealthHandler struct {
	db    Pinger
	cache CachePinger
	now   func() time.Time
}

func NewHealthHandler(db Pinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, now: time.Now}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Format(time.RFC3339),
		Database:  "connected",
		Cache:     "connected",
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		resp.Database = "disconnected"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	if err := h.cache.Ping(ctx); err != nil {
		if errors.Is(err, redis.ErrDisabled) {
			resp.Cache = "disabled"
		} else {
			logger.Warn("Redis ping failed", "error", err)
			resp.Cache = "disconnected"
		}
	}

	response.Success(w, status, resp)
}
