package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/service"
)

// BudgetHandler handles the budget scenario endpoints.
type BudgetHandler struct {
	budgetService service.BudgetService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewBudgetHandler creates a new BudgetHandler with the given dependencies.
func NewBudgetHandler(budgetService service.BudgetService, log *slog.Logger) *BudgetHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BudgetHandler{
		budgetService: budgetService,
		validator:     validator.New(),
		logger:        log.With(slog.String("component", "budget_handler")),
	}
}

// scenarioKind pulls the scenario path parameter. The service rejects
// unknown kinds with budget.ErrUnknownScenario, so no validation here.
func scenarioKind(r *http.Request) budget.ScenarioKind {
	return budget.ScenarioKind(chi.URLParam(r, "scenario"))
}

// ListScenarios handles GET /budget.
func (h *BudgetHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireLearner(w, r); !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.budgetService.ListScenarios(r.Context()))
}

// GetScenario handles GET /budget/{scenario}.
func (h *BudgetHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	view, err := h.budgetService.GetScenario(r.Context(), learnerID, scenarioKind(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SetCell handles PUT /budget/{scenario}/cells.
func (h *BudgetHandler) SetCell(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	var req SetCellRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.budgetService.SetCell(
		r.Context(), learnerID, scenarioKind(r),
		req.Month, budget.Category(req.Category), req.Value,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Confirm handles POST /budget/{scenario}/confirm.
func (h *BudgetHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	view, err := h.budgetService.Confirm(r.Context(), learnerID, scenarioKind(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}
