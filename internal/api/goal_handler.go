package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/service"
)

// GoalHandler handles the savings goal endpoints.
type GoalHandler struct {
	goalService service.GoalService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewGoalHandler creates a new GoalHandler with the given dependencies.
func NewGoalHandler(goalService service.GoalService, log *slog.Logger) *GoalHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GoalHandler{
		goalService: goalService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "goal_handler")),
	}
}

// ListGoals handles GET /goals.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	goals, err := h.goalService.List(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// CreateGoal handles POST /goals.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	goal, err := h.goalService.Create(r.Context(), learnerID, req.Name, req.TargetAmount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// Contribute handles POST /goals/{id}/contribute.
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	learnerID, goalID, ok := requireLearnerAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req ContributeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.goalService.Contribute(r.Context(), learnerID, goalID, req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
