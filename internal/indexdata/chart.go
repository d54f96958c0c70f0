package indexdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/decimals"
)

// Moving-average windows of the chart overlays
const (
	maShortWindow = 5
	maLongWindow  = 20
)

// Chart returns the close-price series of one index over the period with
// MA5/MA20 overlays
func (s *Service) Chart(ctx context.Context, period contracts.PeriodType, indexID int64) (*contracts.ChartSeries, error) {
	now := time.Now()
	start, err := period.LookbackStart(now)
	if err != nil {
		return nil, err
	}

	idx, err := s.indexes.GetByID(ctx, indexID)
	if err != nil {
		return nil, err
	}

	values, err := s.values.FindByIndexAndDateRange(ctx, indexID, start, now, contracts.SortByBaseDate, contracts.SortAsc)
	if err != nil {
		return nil, fmt.Errorf("find chart data: %w", err)
	}

	points := make([]contracts.ChartDataPoint, len(values))
	for i, v := range values {
		points[i] = contracts.ChartDataPoint{BaseDate: v.BaseDate, Value: v.ClosingPrice}
	}

	return &contracts.ChartSeries{
		IndexID:        idx.ID,
		Classification: idx.Classification,
		Name:           idx.Name,
		PeriodType:     period,
		DataPoints:     points,
		MA5DataPoints:  movingAverage(points, maShortWindow),
		MA20DataPoints: movingAverage(points, maLongWindow),
	}, nil
}

// Charts computes the chart series for every requested index. An unknown
// identifier fails the whole request.
func (s *Service) Charts(ctx context.Context, period contracts.PeriodType, indexIDs []int64) ([]contracts.ChartSeries, error) {
	series := make([]contracts.ChartSeries, 0, len(indexIDs))
	for _, id := range indexIDs {
		chart, err := s.Chart(ctx, period, id)
		if err != nil {
			return nil, err
		}
		series = append(series, *chart)
	}
	return series, nil
}

// movingAverage emits one point per full window: output[i] is the mean of
// the window ending at input position i+window-1, so the output length is
// max(0, len(points)-window+1). The running sum stays exact; only the final
// division per point rounds.
func movingAverage(points []contracts.ChartDataPoint, window int) []contracts.ChartDataPoint {
	out := make([]contracts.ChartDataPoint, 0)
	if window <= 0 || len(points) < window {
		return out
	}

	size := decimal.NewFromInt(int64(window))
	sum := decimal.Decimal{}
	for i, p := range points {
		sum = sum.Add(p.Value)
		if i < window-1 {
			continue
		}
		out = append(out, contracts.ChartDataPoint{
			BaseDate: p.BaseDate,
			Value:    sum.DivRound(size, decimals.MAScale),
		})
		sum = sum.Sub(points[i-window+1].Value)
	}
	return out
}
