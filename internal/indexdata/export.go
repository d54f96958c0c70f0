package indexdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprint-team6/findex/internal/contracts"
)

// exportHeader is the fixed 9-column header of the CSV projection
var exportHeader = []string{
	"date", "close", "high", "low",
	"versus", "fluctuationRate",
	"volume", "tradingAmount", "marketCap",
}

// ExportParams selects and orders the rows of a CSV export
type ExportParams struct {
	IndexID   int64
	From      *time.Time
	To        *time.Time
	SortField contracts.SortField
	Direction contracts.SortDirection
}

// ExportCSV streams the selected rows as CSV. The header is always written,
// even for an empty selection; rows are flushed one by one so multi-year
// ranges never sit in memory. A storage error aborts the export and is
// surfaced to the caller instead of silently truncating the file.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, p ExportParams) error {
	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	if p.From != nil {
		from = *p.From
	}
	to := now
	if p.To != nil {
		to = *p.To
	}

	sortField, err := contracts.ParseSortField(string(p.SortField))
	if err != nil {
		return err
	}
	direction := p.Direction
	if direction == "" {
		direction = contracts.SortDesc
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	err = s.values.ForEachByIndexAndDateRange(ctx, p.IndexID, from, to, sortField, direction,
		func(v *contracts.IndexValue) error {
			record := []string{
				v.BaseDate.Format(contracts.DateLayout),
				v.ClosingPrice.String(),
				v.HighPrice.String(),
				v.LowPrice.String(),
				v.Versus.String(),
				v.FluctuationRate.String(),
				strconv.FormatInt(v.TradingQuantity, 10),
				v.TradingPrice.String(),
				v.MarketTotalAmount.String(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
			cw.Flush()
			return cw.Error()
		})
	if err != nil {
		s.logger.WithError(err).WithField("index_id", p.IndexID).Error("CSV export failed")
		return fmt.Errorf("csv export failed: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
