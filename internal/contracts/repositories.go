package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// IndexValueRepository manages daily index observations.
//
// Point lookups return ErrIndexValueNotFound when no row matches; range
// queries return an empty slice instead of erroring. Page queries order rows
// by (sort field, id) in the requested direction; the cursor variants return
// rows strictly after the cursor position, breaking sort-value ties on id.
type IndexValueRepository interface {
	GetByID(ctx context.Context, id int64) (*IndexValue, error)
	Create(ctx context.Context, value *IndexValue) error
	Update(ctx context.Context, value *IndexValue) error
	Delete(ctx context.Context, id int64) error

	// Upsert inserts or overwrites the observation for (index, base date).
	// Used by ingestion only.
	Upsert(ctx context.Context, value *IndexValue) error

	FindByIndexAndDateRange(ctx context.Context, indexID int64, from, to time.Time, sortField SortField, direction SortDirection) ([]IndexValue, error)
	FindByIndexesAndDateRange(ctx context.Context, indexIDs []int64, from, to time.Time) ([]IndexValue, error)

	FindPageFirst(ctx context.Context, indexID int64, from, to time.Time, sortField SortField, direction SortDirection, limit int) ([]IndexValue, error)
	FindPageAfterCursor(ctx context.Context, indexID int64, from, to time.Time, sortField SortField, direction SortDirection, cursorValue string, cursorID int64, limit int) ([]IndexValue, error)

	// Global recency view across all indices (base date desc, id desc)
	FindLatest(ctx context.Context, limit int) ([]IndexValue, error)
	FindLatestAfterCursor(ctx context.Context, cursorValue string, cursorID int64, limit int) ([]IndexValue, error)

	// Boundary-nearest lookups
	FindFirstAfter(ctx context.Context, indexID int64, date time.Time) (*IndexValue, error)
	FindFirstOnOrAfter(ctx context.Context, indexID int64, date time.Time) (*IndexValue, error)
	FindFirstBefore(ctx context.Context, indexID int64, date time.Time) (*IndexValue, error)
	FindFirstOnOrBefore(ctx context.Context, indexID int64, date time.Time) (*IndexValue, error)

	// ForEachByIndexAndDateRange streams rows one by one without
	// materializing the full range (export path).
	ForEachByIndexAndDateRange(ctx context.Context, indexID int64, from, to time.Time, sortField SortField, direction SortDirection, fn func(*IndexValue) error) error
}

// IndexRepository manages index metadata
type IndexRepository interface {
	GetByID(ctx context.Context, id int64) (*Index, error)
	FindAll(ctx context.Context) ([]Index, error)
	FindFavorites(ctx context.Context) ([]Index, error)
	Create(ctx context.Context, index *Index) error
	Update(ctx context.Context, index *Index) error
	Delete(ctx context.Context, id int64) error
	SetFavorite(ctx context.Context, id int64, favorite bool) error
}

// AutoIntegrationRepository manages per-index ingestion settings
type AutoIntegrationRepository interface {
	GetByIndexID(ctx context.Context, indexID int64) (*AutoIntegration, error)
	FindEnabled(ctx context.Context) ([]AutoIntegration, error)
	Save(ctx context.Context, integration *AutoIntegration) error
	SetEnabled(ctx context.Context, indexID int64, enabled bool) error
}
