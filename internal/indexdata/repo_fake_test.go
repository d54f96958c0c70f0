package indexdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
)

// fakeValueRepo is an in-memory contracts.IndexValueRepository used by the
// engine tests. It mirrors the ordering and strict-cursor semantics the SQL
// repository promises.
type fakeValueRepo struct {
	values []contracts.IndexValue
	nextID int64
}

func newFakeValueRepo() *fakeValueRepo {
	return &fakeValueRepo{nextID: 1}
}

func (r *fakeValueRepo) add(v contracts.IndexValue) contracts.IndexValue {
	if v.ID == 0 {
		v.ID = r.nextID
		r.nextID++
	} else if v.ID >= r.nextID {
		r.nextID = v.ID + 1
	}
	r.values = append(r.values, v)
	return v
}

func (r *fakeValueRepo) GetByID(_ context.Context, id int64) (*contracts.IndexValue, error) {
	for i := range r.values {
		if r.values[i].ID == id {
			v := r.values[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, id)
}

func (r *fakeValueRepo) Create(_ context.Context, v *contracts.IndexValue) error {
	for i := range r.values {
		if r.values[i].IndexID == v.IndexID && sameDate(r.values[i].BaseDate, v.BaseDate) {
			return contracts.ErrDuplicateIndexValue
		}
	}
	v.ID = r.nextID
	r.nextID++
	r.values = append(r.values, *v)
	return nil
}

func (r *fakeValueRepo) Update(_ context.Context, v *contracts.IndexValue) error {
	for i := range r.values {
		if r.values[i].ID == v.ID {
			r.values[i] = *v
			return nil
		}
	}
	return fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, v.ID)
}

func (r *fakeValueRepo) Delete(_ context.Context, id int64) error {
	for i := range r.values {
		if r.values[i].ID == id {
			r.values = append(r.values[:i], r.values[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id=%d", contracts.ErrIndexValueNotFound, id)
}

func (r *fakeValueRepo) Upsert(_ context.Context, v *contracts.IndexValue) error {
	for i := range r.values {
		if r.values[i].IndexID == v.IndexID && sameDate(r.values[i].BaseDate, v.BaseDate) {
			v.ID = r.values[i].ID
			r.values[i] = *v
			return nil
		}
	}
	v.ID = r.nextID
	r.nextID++
	r.values = append(r.values, *v)
	return nil
}

func sameDate(a, b time.Time) bool {
	return a.Format(contracts.DateLayout) == b.Format(contracts.DateLayout)
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// compareValues orders by (sort field, id) ascending
func compareValues(a, b *contracts.IndexValue, field contracts.SortField) int {
	var c int
	if field == contracts.SortByClosingPrice {
		c = a.ClosingPrice.Cmp(b.ClosingPrice)
	} else {
		switch {
		case a.BaseDate.Before(b.BaseDate):
			c = -1
		case a.BaseDate.After(b.BaseDate):
			c = 1
		}
	}
	if c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func sortValues(values []contracts.IndexValue, field contracts.SortField, direction contracts.SortDirection) {
	sort.SliceStable(values, func(i, j int) bool {
		c := compareValues(&values[i], &values[j], field)
		if direction == contracts.SortAsc {
			return c < 0
		}
		return c > 0
	})
}

func (r *fakeValueRepo) selectRange(indexID int64, from, to time.Time) []contracts.IndexValue {
	var out []contracts.IndexValue
	for _, v := range r.values {
		if v.IndexID == indexID && inRange(v.BaseDate, from, to) {
			out = append(out, v)
		}
	}
	return out
}

func (r *fakeValueRepo) FindByIndexAndDateRange(_ context.Context, indexID int64, from, to time.Time, field contracts.SortField, direction contracts.SortDirection) ([]contracts.IndexValue, error) {
	out := r.selectRange(indexID, from, to)
	sortValues(out, field, direction)
	return out, nil
}

func (r *fakeValueRepo) FindByIndexesAndDateRange(_ context.Context, indexIDs []int64, from, to time.Time) ([]contracts.IndexValue, error) {
	var out []contracts.IndexValue
	for _, id := range indexIDs {
		out = append(out, r.selectRange(id, from, to)...)
	}
	return out, nil
}

func (r *fakeValueRepo) FindPageFirst(_ context.Context, indexID int64, from, to time.Time, field contracts.SortField, direction contracts.SortDirection, limit int) ([]contracts.IndexValue, error) {
	out := r.selectRange(indexID, from, to)
	sortValues(out, field, direction)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// afterCursor reports whether v sits strictly after the cursor position in
// sort order
func afterCursor(v *contracts.IndexValue, field contracts.SortField, direction contracts.SortDirection, cursorValue string, cursorID int64) (bool, error) {
	cursor := contracts.IndexValue{ID: cursorID}
	if field == contracts.SortByClosingPrice {
		d, err := decimal.NewFromString(cursorValue)
		if err != nil {
			return false, err
		}
		cursor.ClosingPrice = d
	} else {
		t, err := time.Parse(contracts.DateLayout, cursorValue)
		if err != nil {
			return false, err
		}
		cursor.BaseDate = t
	}

	c := compareValues(v, &cursor, field)
	if direction == contracts.SortAsc {
		return c > 0, nil
	}
	return c < 0, nil
}

func (r *fakeValueRepo) FindPageAfterCursor(_ context.Context, indexID int64, from, to time.Time, field contracts.SortField, direction contracts.SortDirection, cursorValue string, cursorID int64, limit int) ([]contracts.IndexValue, error) {
	var out []contracts.IndexValue
	for _, v := range r.selectRange(indexID, from, to) {
		ok, err := afterCursor(&v, field, direction, cursorValue, cursorID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	sortValues(out, field, direction)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeValueRepo) FindLatest(_ context.Context, limit int) ([]contracts.IndexValue, error) {
	out := append([]contracts.IndexValue(nil), r.values...)
	sortValues(out, contracts.SortByBaseDate, contracts.SortDesc)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeValueRepo) FindLatestAfterCursor(_ context.Context, cursorValue string, cursorID int64, limit int) ([]contracts.IndexValue, error) {
	var out []contracts.IndexValue
	for _, v := range r.values {
		ok, err := afterCursor(&v, contracts.SortByBaseDate, contracts.SortDesc, cursorValue, cursorID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	sortValues(out, contracts.SortByBaseDate, contracts.SortDesc)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeValueRepo) findBoundary(indexID int64, keep func(time.Time) bool, latest bool) (*contracts.IndexValue, error) {
	var out []contracts.IndexValue
	for _, v := range r.values {
		if v.IndexID == indexID && keep(v.BaseDate) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, contracts.ErrIndexValueNotFound
	}
	direction := contracts.SortAsc
	if latest {
		direction = contracts.SortDesc
	}
	sortValues(out, contracts.SortByBaseDate, direction)
	v := out[0]
	return &v, nil
}

func (r *fakeValueRepo) FindFirstAfter(_ context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(indexID, func(d time.Time) bool { return d.After(date) }, false)
}

func (r *fakeValueRepo) FindFirstOnOrAfter(_ context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(indexID, func(d time.Time) bool { return !d.Before(date) }, false)
}

func (r *fakeValueRepo) FindFirstBefore(_ context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(indexID, func(d time.Time) bool { return d.Before(date) }, true)
}

func (r *fakeValueRepo) FindFirstOnOrBefore(_ context.Context, indexID int64, date time.Time) (*contracts.IndexValue, error) {
	return r.findBoundary(indexID, func(d time.Time) bool { return !d.After(date) }, true)
}

func (r *fakeValueRepo) ForEachByIndexAndDateRange(ctx context.Context, indexID int64, from, to time.Time, field contracts.SortField, direction contracts.SortDirection, fn func(*contracts.IndexValue) error) error {
	out, err := r.FindByIndexAndDateRange(ctx, indexID, from, to, field, direction)
	if err != nil {
		return err
	}
	for i := range out {
		if err := fn(&out[i]); err != nil {
			return err
		}
	}
	return nil
}

// fakeIndexRepo is an in-memory contracts.IndexRepository
type fakeIndexRepo struct {
	indexes []contracts.Index
	nextID  int64
}

func newFakeIndexRepo(indexes ...contracts.Index) *fakeIndexRepo {
	r := &fakeIndexRepo{nextID: 1}
	for _, idx := range indexes {
		if idx.ID >= r.nextID {
			r.nextID = idx.ID + 1
		}
		r.indexes = append(r.indexes, idx)
	}
	return r
}

func (r *fakeIndexRepo) GetByID(_ context.Context, id int64) (*contracts.Index, error) {
	for i := range r.indexes {
		if r.indexes[i].ID == id {
			idx := r.indexes[i]
			return &idx, nil
		}
	}
	return nil, fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
}

func (r *fakeIndexRepo) FindAll(_ context.Context) ([]contracts.Index, error) {
	return append([]contracts.Index(nil), r.indexes...), nil
}

func (r *fakeIndexRepo) FindFavorites(_ context.Context) ([]contracts.Index, error) {
	var out []contracts.Index
	for _, idx := range r.indexes {
		if idx.Favorite {
			out = append(out, idx)
		}
	}
	return out, nil
}

func (r *fakeIndexRepo) Create(_ context.Context, idx *contracts.Index) error {
	idx.ID = r.nextID
	r.nextID++
	r.indexes = append(r.indexes, *idx)
	return nil
}

func (r *fakeIndexRepo) Update(_ context.Context, idx *contracts.Index) error {
	for i := range r.indexes {
		if r.indexes[i].ID == idx.ID {
			r.indexes[i] = *idx
			return nil
		}
	}
	return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, idx.ID)
}

func (r *fakeIndexRepo) Delete(_ context.Context, id int64) error {
	for i := range r.indexes {
		if r.indexes[i].ID == id {
			r.indexes = append(r.indexes[:i], r.indexes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
}

func (r *fakeIndexRepo) SetFavorite(_ context.Context, id int64, favorite bool) error {
	for i := range r.indexes {
		if r.indexes[i].ID == id {
			r.indexes[i].Favorite = favorite
			return nil
		}
	}
	return fmt.Errorf("%w: id=%d", contracts.ErrIndexNotFound, id)
}
