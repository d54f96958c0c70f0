package indexinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sprint-team6/findex/internal/contracts"
)

const uniqueViolation = "23505"

// Repository implements contracts.IndexRepository on PostgreSQL
// ⭐ SSOT: 지수 메타데이터 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new index metadata repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves one index by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.Index, error) {
	query := `
		SELECT id, classification, name, favorite
		FROM findex.index_info
		WHERE id = $1
	`

	var idx contracts.Index
	err := r.pool.QueryRow(ctx, query, id).Scan(&idx.ID, &idx.Classification, &idx.Name, &idx.Favorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
		}
		return nil, err
	}
	return &idx, nil
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...any) ([]contracts.Index, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []contracts.Index
	for rows.Next() {
		var idx contracts.Index
		if err := rows.Scan(&idx.ID, &idx.Classification, &idx.Name, &idx.Favorite); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// FindAll retrieves every registered index ordered by (classification, name)
func (r *Repository) FindAll(ctx context.Context) ([]contracts.Index, error) {
	query := `
		SELECT id, classification, name, favorite
		FROM findex.index_info
		ORDER BY classification ASC, name ASC
	`
	return r.queryMany(ctx, query)
}

// FindFavorites retrieves the favorite indices
func (r *Repository) FindFavorites(ctx context.Context) ([]contracts.Index, error) {
	query := `
		SELECT id, classification, name, favorite
		FROM findex.index_info
		WHERE favorite
		ORDER BY classification ASC, name ASC
	`
	return r.queryMany(ctx, query)
}

// Create registers a new index and fills in its id. (classification, name)
// is unique.
func (r *Repository) Create(ctx context.Context, idx *contracts.Index) error {
	query := `
		INSERT INTO findex.index_info (classification, name, favorite)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, idx.Classification, idx.Name, idx.Favorite).Scan(&idx.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s/%s", contracts.ErrDuplicateIndex, idx.Classification, idx.Name)
		}
		return err
	}
	return nil
}

// Update overwrites the mutable fields of an index
func (r *Repository) Update(ctx context.Context, idx *contracts.Index) error {
	query := `
		UPDATE findex.index_info
		SET classification = $2, name = $3, favorite = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, idx.ID, idx.Classification, idx.Name, idx.Favorite)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s/%s", contracts.ErrDuplicateIndex, idx.Classification, idx.Name)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, idx.ID)
	}
	return nil
}

// Delete removes an index. Observations and the auto-integration row cascade
// at the schema level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM findex.index_info WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
	}
	return nil
}

// SetFavorite flips the favorite flag of an index
func (r *Repository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE findex.index_info SET favorite = $2 WHERE id = $1`, id, favorite)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
	}
	return nil
}

// AutoIntegrationRepository implements contracts.AutoIntegrationRepository on
// PostgreSQL
type AutoIntegrationRepository struct {
	pool *pgxpool.Pool
}

// NewAutoIntegrationRepository creates a new auto-integration repository
func NewAutoIntegrationRepository(pool *pgxpool.Pool) *AutoIntegrationRepository {
	return &AutoIntegrationRepository{pool: pool}
}

// GetByIndexID retrieves the auto-integration row of an index
func (r *AutoIntegrationRepository) GetByIndexID(ctx context.Context, indexID int64) (*contracts.AutoIntegration, error) {
	query := `
		SELECT id, index_id, enabled
		FROM findex.auto_integrations
		WHERE index_id = $1
	`

	var ai contracts.AutoIntegration
	err := r.pool.QueryRow(ctx, query, indexID).Scan(&ai.ID, &ai.IndexID, &ai.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: index=%d", contracts.ErrIndexNotFound, indexID)
		}
		return nil, err
	}
	return &ai, nil
}

// FindEnabled retrieves every index marked for scheduled ingestion
func (r *AutoIntegrationRepository) FindEnabled(ctx context.Context) ([]contracts.AutoIntegration, error) {
	query := `
		SELECT id, index_id, enabled
		FROM findex.auto_integrations
		WHERE enabled
		ORDER BY index_id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.AutoIntegration
	for rows.Next() {
		var ai contracts.AutoIntegration
		if err := rows.Scan(&ai.ID, &ai.IndexID, &ai.Enabled); err != nil {
			return nil, err
		}
		out = append(out, ai)
	}
	return out, rows.Err()
}

// Save inserts or refreshes the auto-integration row of an index
func (r *AutoIntegrationRepository) Save(ctx context.Context, ai *contracts.AutoIntegration) error {
	query := `
		INSERT INTO findex.auto_integrations (index_id, enabled)
		VALUES ($1, $2)
		ON CONFLICT (index_id) DO UPDATE SET enabled = EXCLUDED.enabled
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query, ai.IndexID, ai.Enabled).Scan(&ai.ID)
}

// SetEnabled flips the ingestion flag of an index
func (r *AutoIntegrationRepository) SetEnabled(ctx context.Context, indexID int64, enabled bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE findex.auto_integrations SET enabled = $2 WHERE index_id = $1`, indexID, enabled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: index=%d", contracts.ErrIndexNotFound, indexID)
	}
	return nil
}
