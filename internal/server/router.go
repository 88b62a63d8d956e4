package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/antagata/campaign-winners/internal/history"
	"github.com/antagata/campaign-winners/pkg/config"
	"github.com/antagata/campaign-winners/pkg/logger"
	"github.com/antagata/campaign-winners/pkg/metrics"
)

// NewRouter wires the static site, the JSON API, and the reload hub.
func NewRouter(cfg *config.Config, log *logger.Logger, hub *Hub) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/history", serveJSONFile(filepath.Join(cfg.History.Dir, history.HistoryFile), log)).Methods("GET")
	api.HandleFunc("/racechart", serveJSONFile(filepath.Join(cfg.History.Dir, history.RaceChartFile), log)).Methods("GET")
	api.HandleFunc("/winners", latestWinnersHandler(cfg, log)).Methods("GET")

	r.HandleFunc("/ws/reload", hub.Handle)

	// Everything else is the published static site.
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Output.Dir)))

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(rateLimitMiddleware(cfg.RateLimit))

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "campaign-winners",
	})
}

// serveJSONFile serves one of the history artifacts directly from disk,
// so the API always reflects the latest completed run.
func serveJSONFile(path string, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, `{"error":"no data yet"}`, http.StatusNotFound)
				return
			}
			log.WithError(err).Error("Failed to read history artifact")
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// latestWinnersHandler returns the most recent snapshot's top-15 list.
func latestWinnersHandler(cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	path := filepath.Join(cfg.History.Dir, history.HistoryFile)
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, `{"error":"no data yet"}`, http.StatusNotFound)
			return
		}

		var h history.History
		if err := json.Unmarshal(data, &h); err != nil {
			log.WithError(err).Error("History file does not parse")
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		if len(h.Snapshots) == 0 {
			http.Error(w, `{"error":"no snapshots yet"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Snapshots[len(h.Snapshots)-1])
	}
}

// loggingMiddleware logs requests and records latency metrics.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			elapsed := time.Since(start)
			metrics.HTTPRequestDuration.WithLabelValues(r.URL.Path).Observe(elapsed.Seconds())
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": elapsed,
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from handler panics.
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
						"error": "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware bounds overall request throughput.
func rateLimitMiddleware(cfg config.RateLimitConfig) mux.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
