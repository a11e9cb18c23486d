package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"planetgen/internal/shared/errors"
	"planetgen/internal/shared/response"
	"planetgen/internal/system"
)

type SystemHandler struct {
	service *system.Service
}

func NewSystemHandler(service *system.Service) *SystemHandler {
	return &SystemHandler{service: service}
}

func (h *SystemHandler) CreateSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_system")

	var req system.CreateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	created, err := h.service.CreateSystem(ctx, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// PreviewSystem runs accretion for the request and returns the result without storing it
func (h *SystemHandler) PreviewSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "preview_system")

	var req system.CreateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	sys, planets, err := h.service.Generate(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	sys.Planets = planets

	response.Success(w, http.StatusOK, sys)
}

func (h *SystemHandler) GetSystems(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_systems")

	systems, err := h.service.ListSystems(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if systems == nil {
		systems = []system.System{}
	}

	response.Success(w, http.StatusOK, systems)
}

func (h *SystemHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_system")

	id, err := systemID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	sys, err := h.service.GetSystem(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sys)
}

func (h *SystemHandler) DeleteSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_system")

	id, err := systemID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteSystem(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func systemID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, errors.Validation("system ID is required")
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WrapValidation("invalid system ID format", err)
	}
	return id, nil
}
