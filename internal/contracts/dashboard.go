package contracts

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceRecord is the derived period performance of a single index
// ⭐ SSOT: 성과 지표 타입은 여기서만 정의
type PerformanceRecord struct {
	IndexID         int64           `json:"indexInfoId"`
	Classification  string          `json:"indexClassification"`
	Name            string          `json:"indexName"`
	Versus          decimal.Decimal `json:"versus"`
	FluctuationRate decimal.Decimal `json:"fluctuationRate"`
	StartPrice      decimal.Decimal `json:"startPrice"`
	EndPrice        decimal.Decimal `json:"endPrice"`
}

// RankedPerformanceRecord pairs a performance record with its 1-based rank
// by descending fluctuation rate
type RankedPerformanceRecord struct {
	Performance PerformanceRecord `json:"performance"`
	Rank        int               `json:"rank"`
}

// ChartDataPoint is a (date, value) pair; derived, never persisted
type ChartDataPoint struct {
	BaseDate time.Time
	Value    decimal.Decimal
}

// MarshalJSON renders the base date in the wire date format
func (p ChartDataPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BaseDate string          `json:"baseDate"`
		Value    decimal.Decimal `json:"value"`
	}{
		BaseDate: p.BaseDate.Format(DateLayout),
		Value:    p.Value,
	})
}

// UnmarshalJSON accepts the same wire shape MarshalJSON emits
func (p *ChartDataPoint) UnmarshalJSON(data []byte) error {
	var wire struct {
		BaseDate string          `json:"baseDate"`
		Value    decimal.Decimal `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, wire.BaseDate)
	if err != nil {
		return err
	}
	p.BaseDate = t
	p.Value = wire.Value
	return nil
}

// ChartSeries is the close-price series of one index with moving-average
// overlays
type ChartSeries struct {
	IndexID        int64            `json:"indexInfoId"`
	Classification string           `json:"indexClassification"`
	Name           string           `json:"indexName"`
	PeriodType     PeriodType       `json:"periodType"`
	DataPoints     []ChartDataPoint `json:"dataPoints"`
	MA5DataPoints  []ChartDataPoint `json:"ma5DataPoints"`
	MA20DataPoints []ChartDataPoint `json:"ma20DataPoints"`
}
