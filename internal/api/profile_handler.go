package api

import (
	"log/slog"
	"net/http"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/service"
)

// ProfileHandler serves the authenticated learner's profile.
type ProfileHandler struct {
	learnerService service.LearnerService
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler with the given dependencies.
func NewProfileHandler(learnerService service.LearnerService, log *slog.Logger) *ProfileHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileHandler{
		learnerService: learnerService,
		logger:         log.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	profile, err := h.learnerService.GetProfile(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
