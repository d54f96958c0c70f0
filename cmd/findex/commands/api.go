package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprint-team6/findex/internal/api"
	"github.com/sprint-team6/findex/internal/api/handlers"
	"github.com/sprint-team6/findex/internal/scheduler"
	"github.com/sprint-team6/findex/internal/scheduler/jobs"
	"github.com/sprint-team6/findex/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 지수/지수 데이터 CRUD, 대시보드, CSV 내보내기 엔드포인트 제공
- 연동 스케줄러 구동 (SYNC_ENABLED=true일 때)

Endpoints:
  GET    /health
  POST   /api/index-infos
  GET    /api/index-data
  GET    /api/index-data/performance/favorite
  GET    /api/index-data/{id}/chart
  GET    /api/index-data/export/csv
  POST   /api/sync-jobs

Example:
  go run ./cmd/findex api
  go run ./cmd/findex api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Findex API Server ===")

	application, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Close()

	cfg, log := application.cfg, application.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// Redis 캐시 (비활성화면 no-op)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "findex")

	// Scheduler
	var sched *scheduler.Scheduler
	if cfg.Sync.Enabled {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewAutoIntegrationJob(application.integration, cfg, log)); err != nil {
			return fmt.Errorf("schedule auto integration: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Handlers and router
	indexHandler := handlers.NewIndexHandler(application.indexInfo, log)
	dataHandler := handlers.NewIndexDataHandler(application.indexData, log)
	dashboardHandler := handlers.NewDashboardHandler(application.indexData, cache, log)
	syncHandler := handlers.NewSyncHandler(application.integration, sched, log)

	router := api.NewRouter(indexHandler, dataHandler, dashboardHandler, syncHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
