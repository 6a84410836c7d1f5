// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the allocpoll API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SurveyHandler: Survey lifecycle (create, publish, close)
  - ResponseHandler: Respondent claims, pair generation, choice submission
  - ReportHandler: Per-strategy statistics and cross-survey consistency
  - StrategyHandler: The compiled-in strategy catalog

Handlers are created via constructor functions that accept *sql.DB and Config:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)

# Survey Lifecycle

Surveys progress through three states: draft → open → closed

	POST /surveys              → CreateSurvey (returns admin_key)
	POST /surveys/{id}/publish → PublishSurvey (generates share_slug)
	POST /surveys/{id}/close   → CloseSurvey

Admin operations require the X-Admin-Key header.

# Response Flow

Respondents interact via the share slug:

	POST /surveys/{slug}/claim-respondent      → ClaimRespondent (returns respondent_token)
	POST /surveys/{slug}/responses             → StartResponse (ideal vector in, pairs out)
	POST /surveys/{slug}/responses/{id}/choices → SubmitChoice (one pair at a time)

Respondent operations require the X-Respondent-Token header. StartResponse
runs the survey's strategy against the respondent's ideal vector and persists
every generated pair as an unanswered choice row; SubmitChoice fills them in
and marks the response complete when none remain. An optional seed in the
StartResponse body makes generation reproducible.

# Reporting

	GET /surveys/{slug}/report → GetReport

The report always carries raw option percentages, plus one strategy-specific
section: metric attribution for optimization_metrics, the preference matrix
and transitivity analysis for extreme_vectors, group agreement for
cyclic_shift and linear_symmetry, tallies for triangle_inequality and mdsp,
and per-respondent deductions for preference_ranking.

GET /consistency classifies every completed response as sum- or
ratio-favoring and reports how many respondents stayed with one outcome
across surveys.
*/
package handlers
