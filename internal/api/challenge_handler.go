package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/service"
)

// ChallengeHandler serves the challenge catalog with current-period progress.
type ChallengeHandler struct {
	challengeService service.ChallengeService
	logger           *slog.Logger
}

// NewChallengeHandler creates a new ChallengeHandler with the given dependencies.
func NewChallengeHandler(challengeService service.ChallengeService, log *slog.Logger) *ChallengeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ChallengeHandler{
		challengeService: challengeService,
		logger:           log.With(slog.String("component", "challenge_handler")),
	}
}

// ListChallenges handles GET /challenges.
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	challenges, err := h.challengeService.ListChallenges(r.Context(), learnerID, time.Now().UTC())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, challenges)
}
