package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sprint-team6/findex/internal/api/handlers"
	"github.com/sprint-team6/findex/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	indexHandler *handlers.IndexHandler,
	dataHandler *handlers.IndexDataHandler,
	dashboardHandler *handlers.DashboardHandler,
	syncHandler *handlers.SyncHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Index metadata
	api.HandleFunc("/index-infos", indexHandler.Register).Methods("POST")
	api.HandleFunc("/index-infos", indexHandler.List).Methods("GET")
	api.HandleFunc("/index-infos/{id:[0-9]+}", indexHandler.Get).Methods("GET")
	api.HandleFunc("/index-infos/{id:[0-9]+}", indexHandler.Update).Methods("PATCH")
	api.HandleFunc("/index-infos/{id:[0-9]+}", indexHandler.Delete).Methods("DELETE")
	api.HandleFunc("/index-infos/{id:[0-9]+}/auto-integration", indexHandler.GetAutoIntegration).Methods("GET")
	api.HandleFunc("/index-infos/{id:[0-9]+}/auto-integration", indexHandler.SetAutoIntegration).Methods("PATCH")

	// Index data
	api.HandleFunc("/index-data", dataHandler.List).Methods("GET")
	api.HandleFunc("/index-data", dataHandler.Create).Methods("POST")
	api.HandleFunc("/index-data/{id:[0-9]+}", dataHandler.Update).Methods("PATCH")
	api.HandleFunc("/index-data/{id:[0-9]+}", dataHandler.Delete).Methods("DELETE")
	api.HandleFunc("/index-data/export/csv", dataHandler.ExportCSV).Methods("GET")

	// Dashboard
	api.HandleFunc("/index-data/performance/favorite", dashboardHandler.FavoritePerformance).Methods("GET")
	api.HandleFunc("/index-data/performance/rank", dashboardHandler.RankPerformance).Methods("GET")
	api.HandleFunc("/index-data/{id:[0-9]+}/chart", dashboardHandler.Chart).Methods("GET")
	api.HandleFunc("/index-data/charts", dashboardHandler.Charts).Methods("GET")

	// Sync
	api.HandleFunc("/sync-jobs", syncHandler.Trigger).Methods("POST")
	api.HandleFunc("/sync-jobs/stats", syncHandler.Stats).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "findex-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
