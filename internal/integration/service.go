package integration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/external/naver"
	"github.com/sprint-team6/findex/internal/external/openapi"
	"github.com/sprint-team6/findex/pkg/decimals"
	"github.com/sprint-team6/findex/pkg/logger"
)

// OpenAPISource fetches observations from the market index Open API
type OpenAPISource interface {
	FetchIndexData(ctx context.Context, indexName string, from, to time.Time) ([]openapi.Observation, error)
}

// NaverSource fetches daily quotes from Naver Finance
type NaverSource interface {
	FetchDailyQuotes(ctx context.Context, indexCode string, from, to time.Time) ([]naver.Quote, error)
}

// Service ingests external observations into storage
// ⭐ SSOT: 지수 데이터 연동 로직은 여기서만
type Service struct {
	values       contracts.IndexValueRepository
	indexes      contracts.IndexRepository
	integrations contracts.AutoIntegrationRepository
	openAPI      OpenAPISource
	naver        NaverSource
	logger       *logger.Logger
}

// NewService creates a new integration service
func NewService(
	values contracts.IndexValueRepository,
	indexes contracts.IndexRepository,
	integrations contracts.AutoIntegrationRepository,
	openAPI OpenAPISource,
	naverClient NaverSource,
	log *logger.Logger,
) *Service {
	return &Service{
		values:       values,
		indexes:      indexes,
		integrations: integrations,
		openAPI:      openAPI,
		naver:        naverClient,
		logger:       log,
	}
}

// naverCodes maps the index names Naver Finance can serve to their page codes
var naverCodes = map[string]string{
	"코스피":    "KOSPI",
	"코스닥":    "KOSDAQ",
	"코스피 200": "KPI200",
}

// SyncResult summarizes one index sync
type SyncResult struct {
	IndexID int64     `json:"indexInfoId"`
	Count   int       `json:"count"`
	Source  string    `json:"source"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// SyncIndex fetches and upserts the observations of one index in [from, to].
// The Open API is the primary source; for the indices Naver Finance carries,
// an empty Open API answer falls back to scraping.
func (s *Service) SyncIndex(ctx context.Context, indexID int64, from, to time.Time) (*SyncResult, error) {
	idx, err := s.indexes.GetByID(ctx, indexID)
	if err != nil {
		return nil, err
	}

	source := "OPEN_API"
	observations, err := s.openAPI.FetchIndexData(ctx, idx.Name, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch from open api: %w", err)
	}

	values := make([]contracts.IndexValue, 0, len(observations))
	for _, obs := range observations {
		values = append(values, obs.IndexValue(idx.ID))
	}

	if len(values) == 0 {
		if code, ok := naverCodes[idx.Name]; ok {
			source = "NAVER"
			quotes, err := s.naver.FetchDailyQuotes(ctx, code, from, to)
			if err != nil {
				return nil, fmt.Errorf("fetch from naver: %w", err)
			}
			for _, q := range quotes {
				values = append(values, contracts.IndexValue{
					IndexID:         idx.ID,
					BaseDate:        q.BaseDate,
					SourceType:      contracts.SourceOpenAPI,
					MarketPrice:     q.ClosingPrice,
					ClosingPrice:    q.ClosingPrice,
					HighPrice:       q.ClosingPrice,
					LowPrice:        q.ClosingPrice,
					Versus:          q.Versus,
					FluctuationRate: q.FluctuationRate,
					TradingQuantity: q.TradingQuantity,
					TradingPrice:    q.TradingPrice,
				})
			}
		}
	}

	if len(values) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"index_id": idx.ID,
			"name":     idx.Name,
		}).Warn("No external data for index")
		return &SyncResult{IndexID: idx.ID, Source: source, From: from, To: to}, nil
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].BaseDate.Before(values[j].BaseDate)
	})

	if err := s.fillDerivedFields(ctx, values); err != nil {
		return nil, err
	}

	for i := range values {
		if err := s.values.Upsert(ctx, &values[i]); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", values[i].BaseDate.Format(contracts.DateLayout), err)
		}
	}

	if err := s.recomputeSuccessor(ctx, &values[len(values)-1]); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"index_id": idx.ID,
		"name":     idx.Name,
		"count":    len(values),
		"source":   source,
	}).Info("Index synced")

	return &SyncResult{
		IndexID: idx.ID,
		Count:   len(values),
		Source:  source,
		From:    from,
		To:      to,
	}, nil
}

// fillDerivedFields computes versus and fluctuation rate where the source
// left them blank. The first row of the batch chains to the latest stored
// observation before it, if any.
func (s *Service) fillDerivedFields(ctx context.Context, values []contracts.IndexValue) error {
	var prevClose *contracts.IndexValue

	prior, err := s.values.FindFirstOnOrBefore(ctx, values[0].IndexID, values[0].BaseDate.AddDate(0, 0, -1))
	if err == nil {
		prevClose = prior
	} else if !errors.Is(err, contracts.ErrIndexValueNotFound) {
		return err
	}

	for i := range values {
		v := &values[i]
		if v.Versus.IsZero() && v.FluctuationRate.IsZero() && prevClose != nil {
			versus, rate, err := decimals.FluctuationRate(prevClose.ClosingPrice, v.ClosingPrice)
			if err != nil {
				if errors.Is(err, decimals.ErrZeroStartPrice) {
					prevClose = v
					continue
				}
				return err
			}
			v.Versus = versus
			v.FluctuationRate = rate
		}
		prevClose = v
	}
	return nil
}

// recomputeSuccessor refreshes the derived fields of the first stored row
// after the synced window, which chained to a close that may just have
// changed
func (s *Service) recomputeSuccessor(ctx context.Context, last *contracts.IndexValue) error {
	next, err := s.values.FindFirstOnOrAfter(ctx, last.IndexID, last.BaseDate.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, contracts.ErrIndexValueNotFound) {
			return nil
		}
		return err
	}

	versus, rate, err := decimals.FluctuationRate(last.ClosingPrice, next.ClosingPrice)
	if err != nil {
		if errors.Is(err, decimals.ErrZeroStartPrice) {
			return nil
		}
		return err
	}
	if next.Versus.Equal(versus) && next.FluctuationRate.Equal(rate) {
		return nil
	}

	next.Versus = versus
	next.FluctuationRate = rate
	return s.values.Update(ctx, next)
}

// SyncAll syncs every index whose ingestion switch is on. Each index gets its
// own window: from the day after its latest stored observation, or one month
// back when it has none. One failing index does not stop the rest.
func (s *Service) SyncAll(ctx context.Context) ([]SyncResult, error) {
	enabled, err := s.integrations.FindEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("find enabled integrations: %w", err)
	}

	now := time.Now()
	results := make([]SyncResult, 0, len(enabled))
	var failures int

	for _, ai := range enabled {
		from := now.AddDate(0, -1, 0)
		if latest, err := s.values.FindFirstOnOrBefore(ctx, ai.IndexID, now); err == nil {
			from = latest.BaseDate.AddDate(0, 0, 1)
		} else if !errors.Is(err, contracts.ErrIndexValueNotFound) {
			return results, err
		}
		if from.After(now) {
			continue
		}

		result, err := s.SyncIndex(ctx, ai.IndexID, from, now)
		if err != nil {
			failures++
			s.logger.WithError(err).WithField("index_id", ai.IndexID).Error("Index sync failed")
			continue
		}
		results = append(results, *result)
	}

	if failures > 0 {
		return results, fmt.Errorf("%d of %d index syncs failed", failures, len(enabled))
	}
	return results, nil
}
