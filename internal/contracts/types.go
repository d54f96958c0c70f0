package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for base dates.
const DateLayout = "2006-01-02"

// SourceType marks how an observation entered the system
type SourceType string

const (
	SourceOpenAPI SourceType = "OPEN_API" // 연동 데이터
	SourceUser    SourceType = "USER"     // 사용자 입력
)

// Index represents a tracked market index
// ⭐ SSOT: 지수 메타데이터 타입은 여기서만 정의
type Index struct {
	ID             int64  `json:"id"`
	Classification string `json:"indexClassification"`
	Name           string `json:"indexName"`
	Favorite       bool   `json:"favorite"`
}

// IndexValue is one daily observation of an index. There is at most one
// observation per (index, base date).
type IndexValue struct {
	ID                int64           `json:"id"`
	IndexID           int64           `json:"indexInfoId"`
	BaseDate          time.Time       `json:"baseDate"`
	SourceType        SourceType      `json:"sourceType"`
	MarketPrice       decimal.Decimal `json:"marketPrice"`
	ClosingPrice      decimal.Decimal `json:"closingPrice"`
	HighPrice         decimal.Decimal `json:"highPrice"`
	LowPrice          decimal.Decimal `json:"lowPrice"`
	Versus            decimal.Decimal `json:"versus"`
	FluctuationRate   decimal.Decimal `json:"fluctuationRate"`
	TradingQuantity   int64           `json:"tradingQuantity"`
	TradingPrice      decimal.Decimal `json:"tradingPrice"`
	MarketTotalAmount decimal.Decimal `json:"marketTotalAmount"`
}

// IndexValuePatch is a partial-field update for an IndexValue. A nil field
// means "unchanged", never "clear".
type IndexValuePatch struct {
	MarketPrice       *decimal.Decimal `json:"marketPrice"`
	ClosingPrice      *decimal.Decimal `json:"closingPrice"`
	HighPrice         *decimal.Decimal `json:"highPrice"`
	LowPrice          *decimal.Decimal `json:"lowPrice"`
	Versus            *decimal.Decimal `json:"versus"`
	FluctuationRate   *decimal.Decimal `json:"fluctuationRate"`
	TradingQuantity   *int64           `json:"tradingQuantity"`
	TradingPrice      *decimal.Decimal `json:"tradingPrice"`
	MarketTotalAmount *decimal.Decimal `json:"marketTotalAmount"`
}

// Apply copies the non-nil fields over the target observation
func (p *IndexValuePatch) Apply(v *IndexValue) {
	if p.MarketPrice != nil {
		v.MarketPrice = *p.MarketPrice
	}
	if p.ClosingPrice != nil {
		v.ClosingPrice = *p.ClosingPrice
	}
	if p.HighPrice != nil {
		v.HighPrice = *p.HighPrice
	}
	if p.LowPrice != nil {
		v.LowPrice = *p.LowPrice
	}
	if p.Versus != nil {
		v.Versus = *p.Versus
	}
	if p.FluctuationRate != nil {
		v.FluctuationRate = *p.FluctuationRate
	}
	if p.TradingQuantity != nil {
		v.TradingQuantity = *p.TradingQuantity
	}
	if p.TradingPrice != nil {
		v.TradingPrice = *p.TradingPrice
	}
	if p.MarketTotalAmount != nil {
		v.MarketTotalAmount = *p.MarketTotalAmount
	}
}

// IndexPatch is a partial-field update for an Index
type IndexPatch struct {
	Classification *string `json:"indexClassification"`
	Name           *string `json:"indexName"`
	Favorite       *bool   `json:"favorite"`
}

// Apply copies the non-nil fields over the target index
func (p *IndexPatch) Apply(idx *Index) {
	if p.Classification != nil {
		idx.Classification = *p.Classification
	}
	if p.Name != nil {
		idx.Name = *p.Name
	}
	if p.Favorite != nil {
		idx.Favorite = *p.Favorite
	}
}

// AutoIntegration marks an index for scheduled ingestion
type AutoIntegration struct {
	ID      int64 `json:"id"`
	IndexID int64 `json:"indexInfoId"`
	Enabled bool  `json:"enabled"`
}
