package indexdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/decimals"
)

func TestFavoritePerformance(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(
		contracts.Index{ID: 1, Classification: "KOSPI시리즈", Name: "코스피", Favorite: true},
		contracts.Index{ID: 2, Classification: "KOSDAQ시리즈", Name: "코스닥", Favorite: true},
		contracts.Index{ID: 3, Classification: "KOSPI시리즈", Name: "코스피 200", Favorite: false},
	)
	// index 1: 100 -> 110 over the month
	values.add(observation(1, 20, "100"))
	values.add(observation(1, 1, "110"))
	// index 2: single observation only
	values.add(observation(2, 10, "850"))
	// index 3 is not a favorite; data must not leak in
	values.add(observation(3, 20, "330"))
	values.add(observation(3, 1, "340"))

	svc := newTestService(values, indexes)

	records, err := svc.FavoritePerformance(context.Background(), contracts.PeriodMonthly)
	require.NoError(t, err)

	// index 2 is excluded: fewer than two distinct dates in range
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, int64(1), record.IndexID)
	assert.Equal(t, "코스피", record.Name)
	assert.Equal(t, "10", record.Versus.String())
	assert.Equal(t, "10", record.FluctuationRate.String())
	assert.Equal(t, "100", record.StartPrice.String())
	assert.Equal(t, "110", record.EndPrice.String())
}

func TestFavoritePerformanceUsesObservedExtremes(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(contracts.Index{ID: 1, Favorite: true})
	// the window nominally starts a week back; actual data begins later
	values.add(observation(1, 3, "200"))
	values.add(observation(1, 2, "195"))
	values.add(observation(1, 1, "210"))
	svc := newTestService(values, indexes)

	records, err := svc.FavoritePerformance(context.Background(), contracts.PeriodWeekly)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "200", records[0].StartPrice.String())
	assert.Equal(t, "210", records[0].EndPrice.String())
	assert.Equal(t, "5", records[0].FluctuationRate.String())
}

func TestFavoritePerformanceSkipsZeroStart(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(
		contracts.Index{ID: 1, Favorite: true},
		contracts.Index{ID: 2, Favorite: true},
	)
	values.add(observation(1, 20, "0"))
	values.add(observation(1, 1, "50"))
	values.add(observation(2, 20, "100"))
	values.add(observation(2, 1, "99"))
	svc := newTestService(values, indexes)

	records, err := svc.FavoritePerformance(context.Background(), contracts.PeriodMonthly)
	require.NoError(t, err)

	// the zero-start index is skipped, not fatal
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].IndexID)
	assert.Equal(t, "-1", records[0].FluctuationRate.String())
}

func TestFavoritePerformanceRejectsUnknownPeriod(t *testing.T) {
	svc := newTestService(newFakeValueRepo(), newFakeIndexRepo())

	_, err := svc.FavoritePerformance(context.Background(), contracts.PeriodType("FORTNIGHTLY"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInvalidPeriodType))
}

func seedRankData(t *testing.T) (*Service, *fakeValueRepo) {
	t.Helper()
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(
		contracts.Index{ID: 1, Name: "코스피"},
		contracts.Index{ID: 2, Name: "코스닥"},
		contracts.Index{ID: 3, Name: "코스피 200"},
		contracts.Index{ID: 4, Name: "KRX 100"}, // no data at all
	)
	// rates: index 1 +10%, index 2 -2%, index 3 +25%
	values.add(observation(1, 20, "100"))
	values.add(observation(1, 1, "110"))
	values.add(observation(2, 20, "850"))
	values.add(observation(2, 1, "833"))
	values.add(observation(3, 20, "320"))
	values.add(observation(3, 1, "400"))
	return newTestService(values, indexes), values
}

func TestRankPerformanceOrdersByRateDescending(t *testing.T) {
	svc, _ := seedRankData(t)

	ranked, err := svc.RankPerformance(context.Background(), contracts.PeriodMonthly, nil, 10)
	require.NoError(t, err)

	// index 4 has no observations and is skipped
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].Performance.IndexID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, int64(1), ranked[1].Performance.IndexID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, int64(2), ranked[2].Performance.IndexID)
	assert.Equal(t, 3, ranked[2].Rank)

	assert.Equal(t, "25", ranked[0].Performance.FluctuationRate.String())
	assert.Equal(t, "10", ranked[1].Performance.FluctuationRate.String())
	assert.Equal(t, "-2", ranked[2].Performance.FluctuationRate.String())
}

func TestRankPerformanceLimit(t *testing.T) {
	svc, _ := seedRankData(t)

	ranked, err := svc.RankPerformance(context.Background(), contracts.PeriodMonthly, nil, 2)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankPerformanceIndexFilterKeepsGlobalRank(t *testing.T) {
	svc, _ := seedRankData(t)

	id := int64(2)
	ranked, err := svc.RankPerformance(context.Background(), contracts.PeriodMonthly, &id, 1)
	require.NoError(t, err)

	// filter ignores the limit and keeps the rank from the full field
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(2), ranked[0].Performance.IndexID)
	assert.Equal(t, 3, ranked[0].Rank)
}

func TestRankPerformanceZeroStartFailsFast(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(contracts.Index{ID: 1})
	values.add(observation(1, 20, "0"))
	values.add(observation(1, 1, "50"))
	svc := newTestService(values, indexes)

	_, err := svc.RankPerformance(context.Background(), contracts.PeriodMonthly, nil, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, decimals.ErrZeroStartPrice))
}
