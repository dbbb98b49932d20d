// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/timetrial/timetrial/internal/adapters/repository"
	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/pkg/logger"
)

// maxBodyBytes caps POST bodies; anything larger fails decoding.
const maxBodyBytes = 1 << 20

// PlayersDependencies defines the interface for player submissions.
type PlayersDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (*model.PlayerRecord, error)
}

// PlayersHandler handles player submission requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleCreatePlayer handles POST /api/players requests.
func (h *PlayersHandler) HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	rec, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}

		// Internal causes are logged with the request context, never leaked.
		var serr *repository.StorageError
		if errors.As(err, &serr) {
			logger.Get().Error(r.Context(), "player save failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, msgSaveFailed)
			return
		}

		logger.Get().Error(r.Context(), "player submission failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeData(w, http.StatusCreated, rec)
}
