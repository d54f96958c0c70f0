package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/indexdata"
	"github.com/sprint-team6/findex/pkg/logger"
)

// IndexDataHandler handles index observation API endpoints
// ⭐ SSOT: 지수 데이터 API 핸들러는 이 구조체에서만
type IndexDataHandler struct {
	service *indexdata.Service
	logger  *logger.Logger
}

// NewIndexDataHandler creates a new index data handler
func NewIndexDataHandler(svc *indexdata.Service, log *logger.Logger) *IndexDataHandler {
	return &IndexDataHandler{
		service: svc,
		logger:  log,
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// queryDate parses an optional yyyy-MM-dd query parameter
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(contracts.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &t, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}

// listQueryFromRequest parses the shared listing/export filters
func listQueryFromRequest(r *http.Request) (indexdata.ListQuery, error) {
	var q indexdata.ListQuery

	if raw := r.URL.Query().Get("indexInfoId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("invalid indexInfoId: %q", raw)
		}
		q.IndexID = &id
	}

	from, err := queryDate(r, "startDate")
	if err != nil {
		return q, err
	}
	to, err := queryDate(r, "endDate")
	if err != nil {
		return q, err
	}
	q.From = from
	q.To = to

	q.Cursor = r.URL.Query().Get("cursor")
	q.SortField = contracts.SortField(r.URL.Query().Get("sortField"))

	q.Direction = contracts.ParseSortDirection(r.URL.Query().Get("sortDirection"))

	size, err := queryInt(r, "size", 0)
	if err != nil {
		return q, err
	}
	q.Size = size

	return q, nil
}

// List returns one cursor page of index observations
// GET /api/index-data
func (h *IndexDataHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := listQueryFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list index data")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

type createIndexDataRequest struct {
	IndexID           int64           `json:"indexInfoId"`
	BaseDate          string          `json:"baseDate"`
	MarketPrice       decimal.Decimal `json:"marketPrice"`
	ClosingPrice      decimal.Decimal `json:"closingPrice"`
	HighPrice         decimal.Decimal `json:"highPrice"`
	LowPrice          decimal.Decimal `json:"lowPrice"`
	Versus            decimal.Decimal `json:"versus"`
	FluctuationRate   decimal.Decimal `json:"fluctuationRate"`
	TradingQuantity   int64           `json:"tradingQuantity"`
	TradingPrice      decimal.Decimal `json:"tradingPrice"`
	MarketTotalAmount decimal.Decimal `json:"marketTotalAmount"`
}

// Create registers a user-entered observation
// POST /api/index-data
func (h *IndexDataHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIndexDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	baseDate, err := time.Parse(contracts.DateLayout, req.BaseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid baseDate: %q", req.BaseDate))
		return
	}

	created, err := h.service.Create(r.Context(), indexdata.CreateRequest{
		IndexID:           req.IndexID,
		BaseDate:          baseDate,
		MarketPrice:       req.MarketPrice,
		ClosingPrice:      req.ClosingPrice,
		HighPrice:         req.HighPrice,
		LowPrice:          req.LowPrice,
		Versus:            req.Versus,
		FluctuationRate:   req.FluctuationRate,
		TradingQuantity:   req.TradingQuantity,
		TradingPrice:      req.TradingPrice,
		MarketTotalAmount: req.MarketTotalAmount,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to create index data")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Update applies a partial-field patch to an observation
// PATCH /api/index-data/{id}
func (h *IndexDataHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var patch contracts.IndexValuePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update index data")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes an observation
// DELETE /api/index-data/{id}
func (h *IndexDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.WithError(err).Error("Failed to delete index data")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV streams the selected observations as a CSV download
// GET /api/index-data/export/csv
func (h *IndexDataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	q, err := listQueryFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.IndexID == nil {
		respondError(w, http.StatusBadRequest, "indexInfoId is required")
		return
	}

	// 헤더를 내보내기 전에 정렬 필드 검증
	if _, err := contracts.ParseSortField(string(q.SortField)); err != nil {
		respondServiceError(w, err)
		return
	}

	params := indexdata.ExportParams{
		IndexID:   *q.IndexID,
		From:      q.From,
		To:        q.To,
		SortField: q.SortField,
		Direction: q.Direction,
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="index-data-%d.csv"`, params.IndexID))

	if err := h.service.ExportCSV(r.Context(), w, params); err != nil {
		// 헤더 전송 후에는 상태코드 변경 불가 - 로그만 남김
		h.logger.WithError(err).Error("CSV export aborted")
	}
}
