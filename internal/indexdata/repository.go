package indexdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
)

// ValueRepository implements contracts.IndexValueRepository on PostgreSQL
// ⭐ SSOT: 지수 데이터 저장소는 여기서만
type ValueRepository struct {
	pool *pgxpool.Pool
}

// NewValueRepository creates a new index value repository
func NewValueRepository(pool *pgxpool.Pool) *ValueRepository {
	return &ValueRepository{pool: pool}
}

// Numeric columns travel as text and are parsed into decimals so that no
// float64 conversion can shave digits off a price.
const indexValueColumns = `
	id, index_id, base_date, source_type,
	market_price::text, closing_price::text, high_price::text, low_price::text,
	versus::text, fluctuation_rate::text, trading_quantity,
	trading_price::text, market_total_amount::text
`

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func scanIndexValue(row scanner) (*contracts.IndexValue, error) {
	var v contracts.IndexValue
	var market, closing, high, low, versus, fluct, trading, total string

	if err := row.Scan(
		&v.ID, &v.IndexID, &v.BaseDate, &v.SourceType,
		&market, &closing, &high, &low,
		&versus, &fluct, &v.TradingQuantity,
		&trading, &total,
	); err != nil {
		return nil, err
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&v.MarketPrice, market},
		{&v.ClosingPrice, closing},
		{&v.HighPrice, high},
		{&v.LowPrice, low},
		{&v.Versus, versus},
		{&v.FluctuationRate, fluct},
		{&v.TradingPrice, trading},
		{&v.MarketTotalAmount, total},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return nil, fmt.Errorf("parse numeric column: %w", err)
		}
		*f.dst = d
	}

	return &v, nil
}

// sortColumn maps a whitelisted sort field to its column
func sortColumn(field contracts.SortField) string {
	if field == contracts.SortByClosingPrice {
		return "closing_price"
	}
	return "base_date"
}

// cursorCast is the SQL cast for the cursor value of a sort field
func cursorCast(field contracts.SortField) string {
	if field == contracts.SortByClosingPrice {
		return "::numeric"
	}
	return "::date"
}

func orderClause(field contracts.SortField, direction contracts.SortDirection) string {
	dir := "DESC"
	if direction == contracts.SortAsc {
		dir = "ASC"
	}
	// id follows the sort direction so the (value, id) order is total
	return fmt.Sprintf("ORDER BY %s %s, id %s", sortColumn(field), dir, dir)
}

// GetByID retrieves one observation by its surrogate id
func (r *ValueRepository) GetByID(ctx context.Context, id int64) (*contracts.IndexValue, error) {
	query := `SELECT ` + indexValueColumns + ` FROM findex.index_values WHERE id = $1`

	v, err := scanIndexValue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, id)
		}
		return nil, err
	}
	return v, nil
}

// Create inserts a new observation and fills in its id
func (r *ValueRepository) Create(ctx context.Context, v *contracts.IndexValue) error {
	query := `
		INSERT INTO findex.index_values (
			index_id, base_date, source_type,
			market_price, closing_price, high_price, low_price,
			versus, fluctuation_rate, trading_quantity,
			trading_price, market_total_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		v.IndexID, v.BaseDate, v.SourceType,
		v.MarketPrice, v.ClosingPrice, v.HighPrice, v.LowPrice,
		v.Versus, v.FluctuationRate, v.TradingQuantity,
		v.TradingPrice, v.MarketTotalAmount,
	).Scan(&v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: index=%d date=%s",
				contracts.ErrDuplicateIndexValue, v.IndexID, v.BaseDate.Format(contracts.DateLayout))
		}
		return err
	}
	return nil
}

// Update overwrites the mutable fields of an observation
func (r *ValueRepository) Update(ctx context.Context, v *contracts.IndexValue) error {
	query := `
		UPDATE findex.index_values SET
			market_price = $2, closing_price = $3, high_price = $4, low_price = $5,
			versus = $6, fluctuation_rate = $7, trading_quantity = $8,
			trading_price = $9, market_total_amount = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		v.ID,
		v.MarketPrice, v.ClosingPrice, v.HighPrice, v.LowPrice,
		v.Versus, v.FluctuationRate, v.TradingQuantity,
		v.TradingPrice, v.MarketTotalAmount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, v.ID)
	}
	return nil
}

// Delete removes an observation by id
func (r *ValueRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM findex.index_values WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, id)
	}
	return nil
}

// Upsert inserts or overwrites the observation for (index, base date)
func (r *ValueRepository) Upsert(ctx context.Context, v *contracts.IndexValue) error {
	query := `
		INSERT INTO findex.index_values (
			index_id, base_date, source_type,
			market_price, closing_price, high_price, low_price,
			versus, fluctuation_rate, trading_quantity,
			trading_price, market_total_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (index_id, base_date) DO UPDATE SET
			source_type = EXCLUDED.source_type,
			market_price = EXCLUDED.market_price,
			closing_price = EXCLUDED.closing_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			versus = EXCLUDED.versus,
			fluctuation_rate = EXCLUDED.fluctuation_rate,
			trading_quantity = EXCLUDED.trading_quantity,
			trading_price = EXCLUDED.trading_price,
			market_total_amount = EXCLUDED.market_total_amount
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		v.IndexID, v.BaseDate, v.SourceType,
		v.MarketPrice, v.ClosingPrice, v.HighPrice, v.LowPrice,
		v.Versus, v.FluctuationRate, v.TradingQuantity,
		v.TradingPrice, v.MarketTotalAmount,
	).Scan(&v.ID)
}

func (r *ValueRepository) queryMany(ctx context.Context, query string, args ...any) ([]contracts.IndexValue, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []contracts.IndexValue
	for rows.Next() {
		v, err := scanIndexValue(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, *v)
	}
	return values, rows.Err()
}

// FindByIndexAndDateRange retrieves observations of one index within a range
func (r *ValueRepository) FindByIndexAndDateRange(ctx context.Context, indexID int64, from, to time.Time, sortField contracts.SortField, direction contracts.SortDirection) ([]contracts.IndexValue, error) {
	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		WHERE index_id = $1 AND base_date BETWEEN $2 AND $3
		` + orderClause(sortField, direction)

	return r.queryMany(ctx, query, indexID, from, to)
}

// FindByIndexesAndDateRange retrieves observations of several indices within
// a range, ordered by (index, date)
func (r *ValueRepository) FindByIndexesAndDateRange(ctx context.Context, indexIDs []int64, from, to time.Time) ([]contracts.IndexValue, error) {
	if len(indexIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		WHERE index_id = ANY($1) AND base_date BETWEEN $2 AND $3
		ORDER BY index_id ASC, base_date ASC
	`

	return r.queryMany(ctx, query, indexIDs, from, to)
}

// FindPageFirst retrieves the first page of a filtered listing
func (r *ValueRepository) FindPageFirst(ctx context.Context, indexID int64, from, to time.Time, sortField contracts.SortField, direction contracts.SortDirection, limit int) ([]contracts.IndexValue, error) {
	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		WHERE index_id = $1 AND base_date BETWEEN $2 AND $3
		` + orderClause(sortField, direction) + `
		LIMIT $4
	`

	return r.queryMany(ctx, query, indexID, from, to, limit)
}

// FindPageAfterCursor retrieves rows strictly after the cursor position:
// for descending order rows with a smaller sort value, or an equal value and
// a smaller id; ascending is the mirror.
func (r *ValueRepository) FindPageAfterCursor(ctx context.Context, indexID int64, from, to time.Time, sortField contracts.SortField, direction contracts.SortDirection, cursorValue string, cursorID int64, limit int) ([]contracts.IndexValue, error) {
	col := sortColumn(sortField)
	cast := cursorCast(sortField)

	cmp := "<"
	if direction == contracts.SortAsc {
		cmp = ">"
	}

	query := fmt.Sprintf(`
		SELECT `+indexValueColumns+`
		FROM findex.index_values
		WHERE index_id = $1 AND base_date BETWEEN $2 AND $3
		  AND (%[1]s %[2]s $4%[3]s OR (%[1]s = $4%[3]s AND id %[2]s $5))
		%[4]s
		LIMIT $6
	`, col, cmp, cast, orderClause(sortField, direction))

	return r.queryMany(ctx, query, indexID, from, to, cursorValue, cursorID, limit)
}

// FindLatest retrieves the most recent observations across all indices
func (r *ValueRepository) FindLatest(ctx context.Context, limit int) ([]contracts.IndexValue, error) {
	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		ORDER BY base_date DESC, id DESC
		LIMIT $1
	`

	return r.queryMany(ctx, query, limit)
}

// FindLatestAfterCursor continues the global recency view after a cursor
func (r *ValueRepository) FindLatestAfterCursor(ctx context.Context, cursorValue string, cursorID int64, limit int) ([]contracts.IndexValue, error) {
	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		WHERE base_date < $1::date OR (base_date = $1::date AND id < $2)
		ORDER BY base_date DESC, id DESC
		LIMIT $3
	`

	return r.queryMany(ctx, query, cursorValue, cursorID, limit)
}

func (r *ValueRepository) findBoundary(ctx context.Context, indexID int64, date time.Time, cmp, dir string) (*contracts.IndexValue, error) {
	query := fmt.Sprintf(`
		SELECT `+indexValueColumns+`
		FROM findex.index_values
		WHERE index_id = $1 AND base_date %s $2
		ORDER BY base_date %s
		LIMIT 1
	`, cmp, dir)

	v, err := scanIndexValue(r.pool.QueryRow(ctx, query, indexID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: index=%d boundary=%s",
				contracts.ErrIndexValueNotFound, indexID, date.Format(contracts.DateLayout))
		}
		return nil, err
	}
	return v, nil
}

// FindFirstAfter retrieves the earliest observation strictly after date
func (r *ValueRepository) FindFirstAfter(ctx context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(ctx, indexID, date, ">", "ASC")
}

// FindFirstOnOrAfter retrieves the earliest observation on or after date
func (r *ValueRepository) FindFirstOnOrAfter(ctx context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(ctx, indexID, date, ">=", "ASC")
}

// FindFirstBefore retrieves the latest observation strictly before date
func (r *ValueRepository) FindFirstBefore(ctx context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(ctx, indexID, date, "<", "DESC")
}

// FindFirstOnOrBefore retrieves the latest observation on or before date
func (r *ValueRepository) FindFirstOnOrBefore(ctx context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(ctx, indexID, date, "<=", "DESC")
}

// ForEachByIndexAndDateRange streams matching rows one by one. The export
// path uses this to avoid materializing multi-year ranges.
func (r *ValueRepository) ForEachByIndexAndDateRange(ctx context.Context, indexID int64, from, to time.Time, sortField contracts.SortField, direction contracts.SortDirection, fn func(*contracts.IndexValue) error) error {
	query := `
		SELECT ` + indexValueColumns + `
		FROM findex.index_values
		WHERE index_id = $1 AND base_date BETWEEN $2 AND $3
		` + orderClause(sortField, direction)

	rows, err := r.pool.Query(ctx, query, indexID, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanIndexValue(rows)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return rows.Err()
}
