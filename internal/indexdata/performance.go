package indexdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/decimals"
)

// FavoritePerformance computes the period performance of every favorite
// index.
//
// The start and end points are the earliest and latest observations actually
// present in [lookback, now] - not the nominal boundary dates. An index with
// fewer than two distinct dates in range is silently excluded.
func (s *Service) FavoritePerformance(ctx context.Context, period contracts.PeriodType) ([]contracts.PerformanceRecord, error) {
	now := time.Now()
	start, err := period.LookbackStart(now)
	if err != nil {
		return nil, err
	}

	favorites, err := s.indexes.FindFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("find favorite indexes: %w", err)
	}

	records := make([]contracts.PerformanceRecord, 0, len(favorites))
	if len(favorites) == 0 {
		return records, nil
	}

	ids := make([]int64, len(favorites))
	for i, idx := range favorites {
		ids[i] = idx.ID
	}

	values, err := s.values.FindByIndexesAndDateRange(ctx, ids, start, now)
	if err != nil {
		return nil, fmt.Errorf("find favorite index data: %w", err)
	}

	// 지수별 가장 이른/늦은 관측치
	earliest := make(map[int64]contracts.IndexValue)
	latest := make(map[int64]contracts.IndexValue)
	for _, v := range values {
		if cur, ok := earliest[v.IndexID]; !ok || v.BaseDate.Before(cur.BaseDate) {
			earliest[v.IndexID] = v
		}
		if cur, ok := latest[v.IndexID]; !ok || v.BaseDate.After(cur.BaseDate) {
			latest[v.IndexID] = v
		}
	}

	for _, idx := range favorites {
		startData, okStart := earliest[idx.ID]
		endData, okEnd := latest[idx.ID]
		if !okStart || !okEnd || !startData.BaseDate.Before(endData.BaseDate) {
			// fewer than two distinct dates in range
			continue
		}

		record, err := performanceRecord(idx, &startData, &endData)
		if err != nil {
			if errors.Is(err, decimals.ErrZeroStartPrice) {
				// 성과 계산 불가 - 해당 지수만 제외
				s.logger.WithFields(map[string]interface{}{
					"index_id":  idx.ID,
					"base_date": startData.BaseDate.Format(contracts.DateLayout),
				}).Warn("Skipping favorite with zero start price")
				continue
			}
			return nil, err
		}
		records = append(records, *record)
	}

	return records, nil
}

// RankPerformance ranks all indices by descending fluctuation rate over the
// period.
//
// Boundaries here are nearest-to-boundary-date: the first observation
// strictly after the lookback start and the first strictly before now.
// Indices lacking either boundary are skipped. When indexID is set the
// result is filtered to that index with its global rank preserved;
// otherwise it is truncated to limit.
func (s *Service) RankPerformance(ctx context.Context, period contracts.PeriodType, indexID *int64, limit int) ([]contracts.RankedPerformanceRecord, error) {
	now := time.Now()
	start, err := period.LookbackStart(now)
	if err != nil {
		return nil, err
	}

	indexes, err := s.indexes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find indexes: %w", err)
	}

	records := make([]contracts.PerformanceRecord, 0, len(indexes))
	for _, idx := range indexes {
		startData, err := s.values.FindFirstAfter(ctx, idx.ID, start)
		if err != nil {
			if errors.Is(err, contracts.ErrIndexValueNotFound) {
				continue
			}
			return nil, err
		}
		endData, err := s.values.FindFirstBefore(ctx, idx.ID, now)
		if err != nil {
			if errors.Is(err, contracts.ErrIndexValueNotFound) {
				continue
			}
			return nil, err
		}

		record, err := performanceRecord(idx, startData, endData)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", idx.ID, err)
		}
		records = append(records, *record)
	}

	// Stable so that equal rates keep enumeration order
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FluctuationRate.GreaterThan(records[j].FluctuationRate)
	})

	ranked := make([]contracts.RankedPerformanceRecord, len(records))
	for i, record := range records {
		ranked[i] = contracts.RankedPerformanceRecord{
			Performance: record,
			Rank:        i + 1,
		}
	}

	if indexID != nil {
		filtered := make([]contracts.RankedPerformanceRecord, 0, 1)
		for _, r := range ranked {
			if r.Performance.IndexID == *indexID {
				filtered = append(filtered, r)
			}
		}
		return filtered, nil
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// performanceRecord derives the period performance from a start and end
// observation
func performanceRecord(idx contracts.Index, start, end *contracts.IndexValue) (*contracts.PerformanceRecord, error) {
	versus, rate, err := decimals.FluctuationRate(start.ClosingPrice, end.ClosingPrice)
	if err != nil {
		return nil, err
	}

	return &contracts.PerformanceRecord{
		IndexID:         idx.ID,
		Classification:  idx.Classification,
		Name:            idx.Name,
		Versus:          versus,
		FluctuationRate: rate,
		StartPrice:      start.ClosingPrice,
		EndPrice:        end.ClosingPrice,
	}, nil
}
