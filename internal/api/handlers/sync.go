package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/integration"
	"github.com/sprint-team6/findex/internal/scheduler"
	"github.com/sprint-team6/findex/pkg/logger"
)

// SyncHandler handles manual sync triggers and scheduler introspection
// ⭐ SSOT: 연동 API 핸들러는 이 구조체에서만
type SyncHandler struct {
	integration *integration.Service
	scheduler   *scheduler.Scheduler
	logger      *logger.Logger
}

// NewSyncHandler creates a new sync handler. The scheduler may be nil when
// the process runs without one (one-off CLI sync).
func NewSyncHandler(svc *integration.Service, sched *scheduler.Scheduler, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		integration: svc,
		scheduler:   sched,
		logger:      log,
	}
}

type triggerSyncRequest struct {
	IndexIDs  []int64 `json:"indexInfoIds"` // empty: 연동 대상 전체
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// Trigger runs a sync immediately. With indexInfoIds it syncs those indices
// over the requested window; without it syncs every opted-in index from its
// own watermark.
// POST /api/sync-jobs
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	// 본문 없는 요청은 전체 연동
	var req triggerSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.IndexIDs) == 0 {
		results, err := h.integration.SyncAll(r.Context())
		if err != nil {
			h.logger.WithError(err).Error("Sync failed")
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   err.Error(),
				"results": results,
			})
			return
		}
		respondJSON(w, http.StatusOK, results)
		return
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if req.StartDate != "" {
		t, err := time.Parse(contracts.DateLayout, req.StartDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid startDate: %q", req.StartDate))
			return
		}
		from = t
	}
	if req.EndDate != "" {
		t, err := time.Parse(contracts.DateLayout, req.EndDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid endDate: %q", req.EndDate))
			return
		}
		to = t
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "endDate precedes startDate")
		return
	}

	results := make([]integration.SyncResult, 0, len(req.IndexIDs))
	for _, id := range req.IndexIDs {
		result, err := h.integration.SyncIndex(r.Context(), id, from, to)
		if err != nil {
			h.logger.WithError(err).WithField("index_id", id).Error("Sync failed")
			respondServiceError(w, err)
			return
		}
		results = append(results, *result)
	}

	respondJSON(w, http.StatusOK, results)
}

// Stats returns scheduler job statistics
// GET /api/sync-jobs/stats
func (h *SyncHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not running")
		return
	}
	respondJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}
