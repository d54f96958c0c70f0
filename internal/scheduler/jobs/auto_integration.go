package jobs

import (
	"context"

	"github.com/sprint-team6/findex/internal/integration"
	"github.com/sprint-team6/findex/pkg/config"
	"github.com/sprint-team6/findex/pkg/logger"
)

// AutoIntegrationJob syncs every opted-in index after market close
// ⭐ SSOT: 지수 연동 스케줄은 이 Job에서만
type AutoIntegrationJob struct {
	integration *integration.Service
	config      *config.Config
	logger      *logger.Logger
}

// NewAutoIntegrationJob creates a new auto-integration job
func NewAutoIntegrationJob(svc *integration.Service, cfg *config.Config, log *logger.Logger) *AutoIntegrationJob {
	return &AutoIntegrationJob{
		integration: svc,
		config:      cfg,
		logger:      log,
	}
}

// Name returns the job name
func (j *AutoIntegrationJob) Name() string {
	return "auto_integration"
}

// Schedule returns the cron schedule (매일 장 마감 후)
func (j *AutoIntegrationJob) Schedule() string {
	return j.config.Sync.Schedule
}

// Run syncs all opted-in indices
func (j *AutoIntegrationJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled index sync")

	results, err := j.integration.SyncAll(ctx)
	if err != nil {
		return err
	}

	var total int
	for _, r := range results {
		total += r.Count
	}
	j.logger.WithFields(map[string]interface{}{
		"indices": len(results),
		"rows":    total,
	}).Info("Scheduled index sync completed")
	return nil
}
