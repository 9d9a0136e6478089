package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/readify/internal/logger"
)

//go:generate mockgen -source=health.go -destination=health_mock.go -package=handlers

// Pinger checks the database connection.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RootResponse describes the running API
// swagger:model RootResponse
type RootResponse struct {
	// default: Readify API is running
	Message string `json:"message"`
	Version string `json:"version"`
	// default: /swagger/index.html
	Docs string `json:"docs"`
}

// HealthResponse reports service health
// swagger:model HealthResponse
type HealthResponse struct {
	// default: healthy
	Status string `json:"status"`
}

// NewRootHandler returns an HTTP handler describing the API.
// @Summary API info
// @Tags health
// @Produce json
// @Success 200 {object} handlers.RootResponse "API info"
// @Router / [get]
func NewRootHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RootResponse{
			Message: "Readify API is running",
			Version: version,
			Docs:    "/swagger/index.html",
		})
	}
}

// NewHealthHandler returns an HTTP handler that reports whether the database is reachable.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Healthy"
// @Failure 503 {object} handlers.HealthResponse "Database unreachable"
// @Router /health [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Log.Errorw("database ping failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
	}
}
