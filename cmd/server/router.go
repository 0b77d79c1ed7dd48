package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dchandra05/sprout-api/internal/api"
	apiMiddleware "github.com/dchandra05/sprout-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.learnerService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	profileHandler := api.NewProfileHandler(app.learnerService, app.logger)
	progressionHandler := api.NewProgressionHandler(app.progressionService, app.logger)
	challengeHandler := api.NewChallengeHandler(app.challengeService, app.logger)
	budgetHandler := api.NewBudgetHandler(app.budgetService, app.logger)
	goalHandler := api.NewGoalHandler(app.goalService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/profile", profileHandler.GetProfile)

			// Course progression endpoints
			r.Get("/parents/{id}/units", progressionHandler.ListUnits)
			r.Post("/units/{id}/quiz", progressionHandler.SubmitQuiz)
			r.Post("/units/{id}/complete", progressionHandler.CompleteUnit)

			// Challenge endpoints
			r.Get("/challenges", challengeHandler.ListChallenges)

			// Budget scenario endpoints
			r.Get("/budget", budgetHandler.ListScenarios)
			r.Get("/budget/{scenario}", budgetHandler.GetScenario)
			r.Put("/budget/{scenario}/cells", budgetHandler.SetCell)
			r.Post("/budget/{scenario}/confirm", budgetHandler.Confirm)

			// Savings goal endpoints
			r.Get("/goals", goalHandler.ListGoals)
			r.Post("/goals", goalHandler.CreateGoal)
			r.Post("/goals/{id}/contribute", goalHandler.Contribute)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
