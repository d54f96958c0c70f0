package indexdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-team6/findex/internal/contracts"
)

func TestExportCSVEmptySelection(t *testing.T) {
	svc := newTestService(newFakeValueRepo(), newFakeIndexRepo())

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ExportParams{IndexID: 1})
	require.NoError(t, err)

	assert.Equal(t, "date,close,high,low,versus,fluctuationRate,volume,tradingAmount,marketCap\n", buf.String())
}

func TestExportCSVRows(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(contracts.Index{ID: 1})
	v := observation(1, 1, "2500.10")
	v.HighPrice = decimal.RequireFromString("2510.99")
	v.LowPrice = decimal.RequireFromString("2490.01")
	v.Versus = decimal.RequireFromString("-12.5")
	v.FluctuationRate = decimal.RequireFromString("-0.5")
	v.TradingQuantity = 123456
	v.TradingPrice = decimal.RequireFromString("987654321")
	v.MarketTotalAmount = decimal.RequireFromString("1234567890")
	values.add(v)
	values.add(observation(1, 2, "2480"))
	svc := newTestService(values, indexes)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ExportParams{IndexID: 1})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])
	// default ordering is date descending
	assert.Equal(t, []string{
		day(1).Format(contracts.DateLayout),
		"2500.1", "2510.99", "2490.01",
		"-12.5", "-0.5",
		"123456", "987654321", "1234567890",
	}, records[1])
	assert.Equal(t, day(2).Format(contracts.DateLayout), records[2][0])
}

func TestExportCSVRespectsRangeAndSort(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(contracts.Index{ID: 1})
	for i := 1; i <= 5; i++ {
		values.add(observation(1, i, "2500"))
	}
	svc := newTestService(values, indexes)

	from := day(3)
	to := day(2)
	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ExportParams{
		IndexID:   1,
		From:      &from,
		To:        &to,
		SortField: contracts.SortByBaseDate,
		Direction: contracts.SortAsc,
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, day(3).Format(contracts.DateLayout), records[1][0])
	assert.Equal(t, day(2).Format(contracts.DateLayout), records[2][0])
}

func TestExportCSVDefaultWindowIsOneYear(t *testing.T) {
	values := newFakeValueRepo()
	indexes := newFakeIndexRepo(contracts.Index{ID: 1})
	values.add(observation(1, 10, "2500"))
	old := observation(1, 400, "1800")
	old.BaseDate = time.Now().AddDate(-1, 0, -30)
	values.add(old)
	svc := newTestService(values, indexes)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ExportParams{IndexID: 1})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// the row outside the default one-year window is not exported
	require.Len(t, records, 2)
	assert.Equal(t, day(10).Format(contracts.DateLayout), records[1][0])
}

func TestExportCSVRejectsUnknownSortField(t *testing.T) {
	svc := newTestService(newFakeValueRepo(), newFakeIndexRepo())

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ExportParams{IndexID: 1, SortField: "volume"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInvalidSortField))
	assert.Zero(t, buf.Len())
}
