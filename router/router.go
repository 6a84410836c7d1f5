// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"allocpoll/cliparse"
	"allocpoll/handlers"
	"allocpoll/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db, cfg)
	strategyHandler := handlers.NewStrategyHandler()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Strategy catalog
	mux.HandleFunc("GET /strategies", middleware.WithLogging(strategyHandler.ListStrategies))

	// Survey management (admin operations)
	mux.HandleFunc("POST /surveys", middleware.WithLogging(surveyHandler.CreateSurvey))
	mux.HandleFunc("GET /surveys/{id}/admin", middleware.WithLogging(surveyHandler.GetSurveyAdmin))
	mux.HandleFunc("POST /surveys/{id}/publish", middleware.WithLogging(surveyHandler.PublishSurvey))
	mux.HandleFunc("POST /surveys/{id}/close", middleware.WithLogging(surveyHandler.CloseSurvey))

	// Respondent operations (public)
	mux.HandleFunc("POST /surveys/{slug}/claim-respondent", middleware.WithLogging(responseHandler.ClaimRespondent))
	mux.HandleFunc("POST /surveys/{slug}/responses", middleware.WithLogging(responseHandler.StartResponse))
	mux.HandleFunc("POST /surveys/{slug}/responses/{id}/choices", middleware.WithLogging(responseHandler.SubmitChoice))
	mux.HandleFunc("GET /surveys/{slug}/my-response", middleware.WithLogging(responseHandler.GetMyResponse))

	// Reporting (public)
	mux.HandleFunc("GET /surveys/{slug}", middleware.WithLogging(surveyHandler.GetSurveyPublic))
	mux.HandleFunc("GET /surveys/{slug}/report", middleware.WithLogging(reportHandler.GetReport))
	mux.HandleFunc("GET /surveys/{slug}/response-count", middleware.WithLogging(reportHandler.GetResponseCount))
	mux.HandleFunc("GET /consistency", middleware.WithLogging(reportHandler.GetConsistency))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("allocpoll API v1"))
	})

	return mux
}
