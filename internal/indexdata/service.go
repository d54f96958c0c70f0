package indexdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// openLowerBound stands in for a missing start date
var openLowerBound = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Service is the query/analytics engine over the index-value time series
// ⭐ SSOT: 지수 데이터 조회/분석 로직은 여기서만
type Service struct {
	values  contracts.IndexValueRepository
	indexes contracts.IndexRepository
	logger  *logger.Logger
}

// NewService creates a new index data service
func NewService(values contracts.IndexValueRepository, indexes contracts.IndexRepository, log *logger.Logger) *Service {
	return &Service{
		values:  values,
		indexes: indexes,
		logger:  log,
	}
}

// ListQuery is a logical page request over the index-value listing
type ListQuery struct {
	IndexID   *int64
	From      *time.Time
	To        *time.Time
	Cursor    string
	SortField contracts.SortField
	Direction contracts.SortDirection
	Size      int
}

// List returns one page of index values with a resume cursor.
//
// Without an index filter the listing is the global recency view: most
// recent observations across all indices, date filters ignored. With a
// filter it is the [from, to] range of that index ordered by the requested
// sort field, id as tie-breaker.
func (s *Service) List(ctx context.Context, q ListQuery) (contracts.CursorPage[contracts.IndexValue], error) {
	var empty contracts.CursorPage[contracts.IndexValue]

	size := q.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	sortField, err := contracts.ParseSortField(string(q.SortField))
	if err != nil {
		return empty, err
	}
	direction := q.Direction
	if direction == "" {
		direction = contracts.SortDesc
	}

	// 지수 필터가 없으면 최신 데이터 리턴 (전체 뷰)
	if q.IndexID == nil {
		return s.listLatest(ctx, q.Cursor, size)
	}

	from := openLowerBound
	if q.From != nil {
		from = *q.From
	}
	to := time.Now()
	if q.To != nil {
		to = *q.To
	}

	var rows []contracts.IndexValue
	if q.Cursor == "" {
		rows, err = s.values.FindPageFirst(ctx, *q.IndexID, from, to, sortField, direction, size+1)
	} else {
		var cursorValue string
		var cursorID int64
		cursorValue, cursorID, err = decodeCursor(q.Cursor)
		if err != nil {
			return empty, err
		}
		rows, err = s.values.FindPageAfterCursor(ctx, *q.IndexID, from, to, sortField, direction, cursorValue, cursorID, size+1)
	}
	if err != nil {
		return empty, fmt.Errorf("find index data page: %w", err)
	}

	return buildPage(rows, size, sortField), nil
}

// listLatest serves the unfiltered branch; it is always ordered by
// (base date desc, id desc) regardless of the requested sort
func (s *Service) listLatest(ctx context.Context, cursor string, size int) (contracts.CursorPage[contracts.IndexValue], error) {
	var empty contracts.CursorPage[contracts.IndexValue]

	var rows []contracts.IndexValue
	var err error
	if cursor == "" {
		rows, err = s.values.FindLatest(ctx, size+1)
	} else {
		var cursorValue string
		var cursorID int64
		cursorValue, cursorID, err = decodeCursor(cursor)
		if err != nil {
			return empty, err
		}
		rows, err = s.values.FindLatestAfterCursor(ctx, cursorValue, cursorID, size+1)
	}
	if err != nil {
		return empty, fmt.Errorf("find latest index data: %w", err)
	}

	return buildPage(rows, size, contracts.SortByBaseDate), nil
}

// buildPage trims the size+1 probe row and derives the next cursor from the
// last returned item
func buildPage(rows []contracts.IndexValue, size int, sortField contracts.SortField) contracts.CursorPage[contracts.IndexValue] {
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}

	page := contracts.CursorPage[contracts.IndexValue]{
		Items:   rows,
		HasNext: hasNext,
		Size:    size,
	}
	if hasNext {
		last := rows[len(rows)-1]
		page.NextCursor = encodeCursor(cursorValueOf(&last, sortField), last.ID)
	}
	return page
}

// cursorValueOf renders the sort-field value of an item for cursor encoding
func cursorValueOf(v *contracts.IndexValue, sortField contracts.SortField) string {
	if sortField == contracts.SortByClosingPrice {
		return v.ClosingPrice.String()
	}
	return v.BaseDate.Format(contracts.DateLayout)
}

// CreateRequest carries a user-entered observation
type CreateRequest struct {
	IndexID           int64
	BaseDate          time.Time
	MarketPrice       decimal.Decimal
	ClosingPrice      decimal.Decimal
	HighPrice         decimal.Decimal
	LowPrice          decimal.Decimal
	Versus            decimal.Decimal
	FluctuationRate   decimal.Decimal
	TradingQuantity   int64
	TradingPrice      decimal.Decimal
	MarketTotalAmount decimal.Decimal
}

// Create registers a user-entered observation for an existing index
func (s *Service) Create(ctx context.Context, req CreateRequest) (*contracts.IndexValue, error) {
	if _, err := s.indexes.GetByID(ctx, req.IndexID); err != nil {
		return nil, err
	}

	value := &contracts.IndexValue{
		IndexID:           req.IndexID,
		BaseDate:          req.BaseDate,
		SourceType:        contracts.SourceUser,
		MarketPrice:       req.MarketPrice,
		ClosingPrice:      req.ClosingPrice,
		HighPrice:         req.HighPrice,
		LowPrice:          req.LowPrice,
		Versus:            req.Versus,
		FluctuationRate:   req.FluctuationRate,
		TradingQuantity:   req.TradingQuantity,
		TradingPrice:      req.TradingPrice,
		MarketTotalAmount: req.MarketTotalAmount,
	}

	if err := s.values.Create(ctx, value); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"index_id":  value.IndexID,
		"base_date": value.BaseDate.Format(contracts.DateLayout),
	}).Info("Index data created")

	return value, nil
}

// Update applies a partial-field patch to an observation; nil fields are
// left unchanged
func (s *Service) Update(ctx context.Context, id int64, patch contracts.IndexValuePatch) (*contracts.IndexValue, error) {
	value, err := s.values.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(value)

	if err := s.values.Update(ctx, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes an observation by id
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.values.Delete(ctx, id)
}
