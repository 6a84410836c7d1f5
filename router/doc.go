// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the allocpoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Strategy catalog:

	GET /strategies

Survey management (admin, requires X-Admin-Key):

	POST /surveys              - Create survey
	GET  /surveys/{id}/admin   - Get survey details
	POST /surveys/{id}/publish - Open for responses
	POST /surveys/{id}/close   - Stop accepting responses

Respondent flow (public, uses share slug and X-Respondent-Token):

	POST /surveys/{slug}/claim-respondent       - Claim respondent identity
	POST /surveys/{slug}/responses              - Start response, get pairs
	POST /surveys/{slug}/responses/{id}/choices - Answer one pair
	GET  /surveys/{slug}/my-response            - Resume an unfinished response

Reporting (public):

	GET /surveys/{slug}                - Survey info
	GET /surveys/{slug}/report         - Per-strategy statistics
	GET /surveys/{slug}/response-count - Response count
	GET /consistency                   - Cross-survey respondent consistency

# Handler Initialization

The router creates handler instances with dependency injection:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db, cfg)
	strategyHandler := handlers.NewStrategyHandler()

All database-backed handlers receive the connection and configuration.
*/
package router
