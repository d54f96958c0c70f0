package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/indexinfo"
	"github.com/sprint-team6/findex/pkg/logger"
)

// IndexHandler handles index metadata API endpoints
// ⭐ SSOT: 지수 메타데이터 API 핸들러는 이 구조체에서만
type IndexHandler struct {
	service *indexinfo.Service
	logger  *logger.Logger
}

// NewIndexHandler creates a new index metadata handler
func NewIndexHandler(svc *indexinfo.Service, log *logger.Logger) *IndexHandler {
	return &IndexHandler{
		service: svc,
		logger:  log,
	}
}

// Register creates a new index
// POST /api/index-infos
func (h *IndexHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req indexinfo.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	idx, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to register index")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, idx)
}

// List returns every registered index
// GET /api/index-infos
func (h *IndexHandler) List(w http.ResponseWriter, r *http.Request) {
	indexes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list indexes")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, indexes)
}

// Get returns one index
// GET /api/index-infos/{id}
func (h *IndexHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	idx, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, idx)
}

// Update applies a partial-field patch to an index
// PATCH /api/index-infos/{id}
func (h *IndexHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var patch contracts.IndexPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	idx, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update index")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, idx)
}

// Delete removes an index
// DELETE /api/index-infos/{id}
func (h *IndexHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.WithError(err).Error("Failed to delete index")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAutoIntegration returns the ingestion switch of an index
// GET /api/index-infos/{id}/auto-integration
func (h *IndexHandler) GetAutoIntegration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	ai, err := h.service.AutoIntegration(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ai)
}

type setAutoIntegrationRequest struct {
	Enabled bool `json:"enabled"`
}

// SetAutoIntegration flips the ingestion switch of an index
// PATCH /api/index-infos/{id}/auto-integration
func (h *IndexHandler) SetAutoIntegration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var req setAutoIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ai, err := h.service.SetAutoIntegration(r.Context(), id, req.Enabled)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update auto integration")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ai)
}
