package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/service"
)

// ProgressionHandler handles unit listing, quiz submissions, and direct
// unit completions.
type ProgressionHandler struct {
	progressionService service.ProgressionService
	validator          *validator.Validate
	logger             *slog.Logger
}

// NewProgressionHandler creates a new ProgressionHandler with the given
// dependencies.
func NewProgressionHandler(
	progressionService service.ProgressionService,
	log *slog.Logger,
) *ProgressionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProgressionHandler{
		progressionService: progressionService,
		validator:          validator.New(),
		logger:             log.With(slog.String("component", "progression_handler")),
	}
}

// ListUnits handles GET /parents/{id}/units: the ordered units under a
// parent with the learner's gate status for each.
func (h *ProgressionHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	learnerID, parentID, ok := requireLearnerAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	units, err := h.progressionService.ListUnits(r.Context(), learnerID, parentID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, units)
}

// SubmitQuiz handles POST /units/{id}/quiz.
func (h *ProgressionHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	learnerID, unitID, ok := requireLearnerAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := h.progressionService.SubmitQuiz(r.Context(), learnerID, unitID, req.Answers)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// CompleteUnit handles POST /units/{id}/complete for units without a quiz.
func (h *ProgressionHandler) CompleteUnit(w http.ResponseWriter, r *http.Request) {
	learnerID, unitID, ok := requireLearnerAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	outcome, err := h.progressionService.CompleteUnit(r.Context(), learnerID, unitID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}
