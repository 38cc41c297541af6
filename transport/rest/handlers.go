package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/velha-games/velha-backend/internal/apperror"
	"github.com/velha-games/velha-backend/internal/entity"
)

type statsService interface {
	GetByUsername(ctx context.Context, username string) (*entity.Stats, error)
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	StatsHandler(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger *slog.Logger
	stats  statsService
}

func NewHandlers(logger *slog.Logger, stats statsService) Handlers {
	return &handlers{
		logger: logger,
		stats:  stats,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// StatsHandler - returns the aggregate results for one display name.
func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	stats, err := that.stats.GetByUsername(r.Context(), username)
	if errors.Is(err, apperror.ErrStatsNotFound) {
		http.Error(w, "stats not found", http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get stats", "username", username, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(stats); err != nil {
		that.logger.Error("failed to encode stats", "username", username, "error", err)
	}
}
