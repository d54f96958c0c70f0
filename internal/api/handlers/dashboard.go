package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/indexdata"
	"github.com/sprint-team6/findex/pkg/logger"
	"github.com/sprint-team6/findex/pkg/redis"
)

// dashboardCacheTTL keeps dashboard answers hot between chart polls without
// masking a daily sync for long
const dashboardCacheTTL = 1 * time.Minute

// DashboardHandler handles performance and chart API endpoints
// ⭐ SSOT: 대시보드 API 핸들러는 이 구조체에서만
type DashboardHandler struct {
	service *indexdata.Service
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *indexdata.Service, cache *redis.Cache, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		cache:   cache,
		logger:  log,
	}
}

func queryPeriod(r *http.Request) (contracts.PeriodType, error) {
	raw := r.URL.Query().Get("periodType")
	if raw == "" {
		raw = string(contracts.PeriodDaily)
	}
	return contracts.ParsePeriodType(raw)
}

// FavoritePerformance returns the period performance of the favorite indices
// GET /api/index-data/performance/favorite
func (h *DashboardHandler) FavoritePerformance(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	cacheKey := fmt.Sprintf("perf:favorite:%s", period)
	var cached []contracts.PerformanceRecord
	if hit, err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	records, err := h.service.FavoritePerformance(r.Context(), period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute favorite performance")
		respondServiceError(w, err)
		return
	}

	if err := h.cache.Set(r.Context(), cacheKey, records, dashboardCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache favorite performance")
	}
	respondJSON(w, http.StatusOK, records)
}

// RankPerformance returns indices ranked by period fluctuation rate
// GET /api/index-data/performance/rank
func (h *DashboardHandler) RankPerformance(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var indexID *int64
	if raw := r.URL.Query().Get("indexInfoId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid indexInfoId: %q", raw))
			return
		}
		indexID = &id
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := h.service.RankPerformance(r.Context(), period, indexID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank performance")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ranked)
}

// Chart returns the close-price series of one index with MA5/MA20 overlays
// GET /api/index-data/{id}/chart
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	period, err := queryPeriod(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	cacheKey := fmt.Sprintf("chart:%d:%s", id, period)
	var cached contracts.ChartSeries
	if hit, err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	chart, err := h.service.Chart(r.Context(), period, id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build chart")
		respondServiceError(w, err)
		return
	}

	if err := h.cache.Set(r.Context(), cacheKey, chart, dashboardCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache chart")
	}
	respondJSON(w, http.StatusOK, chart)
}

// Charts returns chart series for a comma-separated list of index ids
// GET /api/index-data/charts?indexInfoIds=1,2,3
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	raw := r.URL.Query().Get("indexInfoIds")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "indexInfoIds is required")
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid indexInfoIds entry: %q", part))
			return
		}
		ids = append(ids, id)
	}

	series, err := h.service.Charts(r.Context(), period, ids)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build charts")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}
