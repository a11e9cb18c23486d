package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"planetgen/internal/planet"
	"planetgen/internal/shared/errors"
	"planetgen/internal/shared/response"
	"planetgen/internal/terrain"
)

type PlanetHandler struct {
	service  *planet.Service
	upgrader websocket.Upgrader
}

// NewPlanetHandler accepts websocket upgrades only from the given origins
func NewPlanetHandler(service *planet.Service, allowedOrigins ...string) *PlanetHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &PlanetHandler{
		service: service,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *PlanetHandler) GetBySystemID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planets_by_system")

	systemID, err := pathID(r, "system")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planets, err := h.service.GetBySystemID(ctx, systemID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Planet{}
	}

	response.Success(w, http.StatusOK, planets)
}

func (h *PlanetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_planet")

	id, err := pathID(r, "planet")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

func (h *PlanetHandler) GetAltitude(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_altitude")

	id, err := pathID(r, "planet")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	q := r.URL.Query()
	var coords [3]float64
	for i, name := range []string{"x", "y", "z"} {
		coords[i], err = strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid "+name+" coordinate", err))
			return
		}
	}

	depth, err := optionalInt(r, "depth")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	sample, err := h.service.Altitude(r.Context(), id, coords[0], coords[1], coords[2], depth)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sample)
}

func (h *PlanetHandler) GetHeightmap(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_heightmap")

	id, req, err := heightmapRequest(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	grid, err := h.service.Heightmap(r.Context(), id, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, grid)
}

type streamDone struct {
	Done bool    `json:"done"`
	Rows int     `json:"rows"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type streamError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StreamHeightmap upgrades to a websocket and sends one message per sampled row,
// followed by a summary message.
func (h *PlanetHandler) StreamHeightmap(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "stream_heightmap")

	id, req, err := heightmapRequest(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		logger.Debug("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	done := streamDone{Done: true}
	err = h.service.StreamHeightmap(r.Context(), id, req, func(row terrain.Row) error {
		for i, v := range row.Altitudes {
			if done.Rows == 0 && i == 0 {
				done.Min, done.Max = v, v
			}
			done.Min = min(done.Min, v)
			done.Max = max(done.Max, v)
		}
		done.Rows++
		return conn.WriteJSON(row)
	})
	if err != nil {
		logger.Debug("Heightmap stream ended early", "planet_id", id, "error", err)
		_ = conn.WriteJSON(streamError{Error: string(errors.GetType(err)), Message: err.Error()})
		return
	}

	if err := conn.WriteJSON(done); err != nil {
		logger.Debug("Failed to send stream summary", "error", err)
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func heightmapRequest(r *http.Request) (int, planet.HeightmapRequest, error) {
	id, err := pathID(r, "planet")
	if err != nil {
		return 0, planet.HeightmapRequest{}, err
	}

	q := r.URL.Query()
	req := planet.HeightmapRequest{Width: 256, Height: 128, Shade: q.Get("shade") == "true"}
	if v := q.Get("width"); v != "" {
		if req.Width, err = strconv.Atoi(v); err != nil {
			return 0, req, errors.WrapValidation("invalid width", err)
		}
	}
	if v := q.Get("height"); v != "" {
		if req.Height, err = strconv.Atoi(v); err != nil {
			return 0, req, errors.WrapValidation("invalid height", err)
		}
	}
	if req.Depth, err = optionalInt(r, "depth"); err != nil {
		return 0, req, err
	}
	return id, req, nil
}

func pathID(r *http.Request, what string) (int, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, errors.Validationf("%s ID is required", what)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WrapValidation("invalid "+what+" ID format", err)
	}
	return id, nil
}

func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.WrapValidation("invalid "+name, err)
	}
	return &v, nil
}
