package commands

import (
	"time"

	"github.com/sprint-team6/findex/internal/external/naver"
	"github.com/sprint-team6/findex/internal/external/openapi"
	"github.com/sprint-team6/findex/internal/indexdata"
	"github.com/sprint-team6/findex/internal/indexinfo"
	"github.com/sprint-team6/findex/internal/integration"
	"github.com/sprint-team6/findex/pkg/config"
	"github.com/sprint-team6/findex/pkg/database"
	"github.com/sprint-team6/findex/pkg/httputil"
	"github.com/sprint-team6/findex/pkg/logger"
)

// app wires the shared service graph the commands run on
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB

	indexData   *indexdata.Service
	indexInfo   *indexinfo.Service
	integration *integration.Service
}

// newApp loads config, connects storage and builds the services
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	valueRepo := indexdata.NewValueRepository(db.Pool)
	indexRepo := indexinfo.NewRepository(db.Pool)
	integrationRepo := indexinfo.NewAutoIntegrationRepository(db.Pool)

	httpClient := httputil.New(log).
		WithTimeout(30 * time.Second).
		WithRateLimit(cfg.OpenAPI.RateLimit)
	openAPIClient := openapi.NewClient(httpClient, cfg.OpenAPI, log)
	naverClient := naver.NewClient(httpClient, cfg.Naver, log)

	return &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		indexData:   indexdata.NewService(valueRepo, indexRepo, log),
		indexInfo:   indexinfo.NewService(indexRepo, integrationRepo, log),
		integration: integration.NewService(valueRepo, indexRepo, integrationRepo, openAPIClient, naverClient, log),
	}, nil
}

// Close releases the app's connections
func (a *app) Close() {
	a.db.Close()
}
