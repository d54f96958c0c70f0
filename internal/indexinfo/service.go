package indexinfo

import (
	"context"
	"fmt"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/logger"
)

// Service manages index metadata and the per-index ingestion switch
// ⭐ SSOT: 지수 등록/수정 로직은 여기서만
type Service struct {
	indexes      contracts.IndexRepository
	integrations contracts.AutoIntegrationRepository
	logger       *logger.Logger
}

// NewService creates a new index metadata service
func NewService(indexes contracts.IndexRepository, integrations contracts.AutoIntegrationRepository, log *logger.Logger) *Service {
	return &Service{
		indexes:      indexes,
		integrations: integrations,
		logger:       log,
	}
}

// RegisterRequest carries a new index registration
type RegisterRequest struct {
	Classification string `json:"indexClassification"`
	Name           string `json:"indexName"`
	Favorite       bool   `json:"favorite"`
}

// Register creates an index together with its ingestion switch, which starts
// disabled so a fresh index never syncs before someone opts it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*contracts.Index, error) {
	if req.Classification == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: classification and name are required", contracts.ErrInvalidIndexInput)
	}

	idx := &contracts.Index{
		Classification: req.Classification,
		Name:           req.Name,
		Favorite:       req.Favorite,
	}
	if err := s.indexes.Create(ctx, idx); err != nil {
		return nil, err
	}

	ai := &contracts.AutoIntegration{IndexID: idx.ID, Enabled: false}
	if err := s.integrations.Save(ctx, ai); err != nil {
		return nil, fmt.Errorf("create auto integration: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"index_id": idx.ID,
		"name":     idx.Name,
	}).Info("Index registered")

	return idx, nil
}

// Get retrieves one index by id
func (s *Service) Get(ctx context.Context, id int64) (*contracts.Index, error) {
	return s.indexes.GetByID(ctx, id)
}

// List retrieves every registered index
func (s *Service) List(ctx context.Context) ([]contracts.Index, error) {
	return s.indexes.FindAll(ctx)
}

// Update applies a partial-field patch to an index; nil fields are left
// unchanged
func (s *Service) Update(ctx context.Context, id int64, patch contracts.IndexPatch) (*contracts.Index, error) {
	idx, err := s.indexes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(idx)

	if err := s.indexes.Update(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Delete removes an index and everything hanging off it
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.indexes.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("index_id", id).Info("Index deleted")
	return nil
}

// SetFavorite flips the favorite flag of an index
func (s *Service) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return s.indexes.SetFavorite(ctx, id, favorite)
}

// AutoIntegration retrieves the ingestion switch of an index
func (s *Service) AutoIntegration(ctx context.Context, indexID int64) (*contracts.AutoIntegration, error) {
	return s.integrations.GetByIndexID(ctx, indexID)
}

// SetAutoIntegration flips the ingestion switch of an index
func (s *Service) SetAutoIntegration(ctx context.Context, indexID int64, enabled bool) (*contracts.AutoIntegration, error) {
	if _, err := s.indexes.GetByID(ctx, indexID); err != nil {
		return nil, err
	}

	ai := &contracts.AutoIntegration{IndexID: indexID, Enabled: enabled}
	if err := s.integrations.Save(ctx, ai); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"index_id": indexID,
		"enabled":  enabled,
	}).Info("Auto integration updated")

	return ai, nil
}
