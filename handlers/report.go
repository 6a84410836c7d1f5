// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"allocpoll/cliparse"
	"allocpoll/middleware"
	"allocpoll/models"
	"allocpoll/pairgen"
	"allocpoll/stats"
)

type ReportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewReportHandler(db *sql.DB, cfg cliparse.Config) *ReportHandler {
	return &ReportHandler{db: db, cfg: cfg}
}

// SurveyReport is the full analysis payload for one survey. Exactly one of
// the strategy-specific sections is populated, matching the survey's
// strategy; Choices is always present.
type SurveyReport struct {
	SurveyID       string `json:"survey_id"`
	Title          string `json:"title"`
	Strategy       string `json:"strategy"`
	Status         string `json:"status"`
	TotalResponses int    `json:"total_responses"`
	Completed      int    `json:"completed_responses"`
	LastResponse   string `json:"last_response,omitempty"`

	Choices stats.ChoiceSummary `json:"choices"`

	Metrics      *stats.MetricSummary      `json:"metrics,omitempty"`
	Extreme      *stats.ExtremeReport      `json:"extreme,omitempty"`
	Transitivity *stats.TransitivityReport `json:"transitivity,omitempty"`
	Groups       *stats.GroupReport        `json:"groups,omitempty"`
	Tally        *stats.TallyReport        `json:"tally,omitempty"`
	Ranking      *RankingAggregate         `json:"ranking,omitempty"`
}

// RankingAggregate summarizes per-respondent ranking deductions. Responses
// with missing or duplicate answers are counted but excluded from the
// per-cell reports.
type RankingAggregate struct {
	Complete   int                   `json:"complete_responses"`
	Incomplete int                   `json:"incomplete_responses"`
	Reports    []stats.RankingReport `json:"reports"`
}

// GetReport handles GET /surveys/:slug/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var report SurveyReport
	err := h.db.QueryRow(`
		SELECT id, title, strategy, status FROM survey WHERE share_slug = $1
	`, shareSlug).Scan(&report.SurveyID, &report.Title, &report.Strategy, &report.Status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.responseCounts(report.SurveyID, &report); err != nil {
		slog.Error("failed to count responses", "error", err, "survey_id", report.SurveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	records, err := loadChoiceRecords(h.db, report.SurveyID)
	if err != nil {
		slog.Error("failed to load choices", "error", err, "survey_id", report.SurveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	report.Choices = stats.OptionPercentages(records)

	switch report.Strategy {
	case pairgen.NameOptimizationMetrics:
		m := stats.MetricPercentages(records)
		report.Metrics = &m
	case pairgen.NameExtremeVectors:
		e := stats.ExtremeConsistency(records)
		t := stats.Transitivity(records)
		report.Extreme = &e
		report.Transitivity = &t
	case pairgen.NameCyclicShift:
		g := stats.CyclicConsistency(records)
		report.Groups = &g
	case pairgen.NameLinearSymmetry:
		g := stats.LinearConsistency(records)
		report.Groups = &g
	case pairgen.NameTriangleInequality:
		tl := stats.TriangleTally(records)
		report.Tally = &tl
	case pairgen.NameMDSP:
		tl := stats.MDSPTally(records)
		report.Tally = &tl
	case pairgen.NamePreferenceRanking:
		report.Ranking = rankingAggregate(records)
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// GetResponseCount handles GET /surveys/:slug/response-count
func (h *ReportHandler) GetResponseCount(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")

	var surveyID string
	err := h.db.QueryRow(`SELECT id FROM survey WHERE share_slug = $1`, shareSlug).Scan(&surveyID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var total, completed int
	err = h.db.QueryRow(`
		SELECT COUNT(*), COUNT(completed_at) FROM response WHERE survey_id = $1
	`, surveyID).Scan(&total, &completed)
	if err != nil {
		slog.Error("failed to count responses", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"total":     total,
		"completed": completed,
	})
}

// GetConsistency handles GET /consistency. It classifies every completed
// response on a metric-comparison survey as sum- or ratio-favoring, then
// reports what share of respondents who answered enough surveys stayed with
// one outcome.
func (h *ReportHandler) GetConsistency(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT survey.id, respondent_claim.username, response.id
		FROM response
		JOIN survey ON survey.id = response.survey_id
		JOIN respondent_claim ON respondent_claim.survey_id = response.survey_id
			AND respondent_claim.respondent_token = response.respondent_token
		WHERE survey.strategy = $1 AND response.completed_at IS NOT NULL
		ORDER BY response.started_at
	`, pairgen.NameOptimizationMetrics)
	if err != nil {
		slog.Error("failed to query responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	type completedResponse struct {
		surveyID, username, responseID string
	}
	var completed []completedResponse
	for rows.Next() {
		var c completedResponse
		if err := rows.Scan(&c.surveyID, &c.username, &c.responseID); err != nil {
			slog.Error("failed to scan response row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		completed = append(completed, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read response rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	recordsByResponse := make(map[string][]models.ChoiceRecord)
	loaded := make(map[string]bool)
	for _, c := range completed {
		if loaded[c.surveyID] {
			continue
		}
		loaded[c.surveyID] = true
		records, err := loadChoiceRecords(h.db, c.surveyID)
		if err != nil {
			slog.Error("failed to load choices", "error", err, "survey_id", c.surveyID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		for _, rec := range records {
			recordsByResponse[rec.ResponseID] = append(recordsByResponse[rec.ResponseID], rec)
		}
	}

	var outcomes []stats.UserOutcome
	for _, c := range completed {
		outcomes = append(outcomes, stats.UserOutcome{
			UserID:   c.username,
			SurveyID: c.surveyID,
			Outcome:  stats.SurveyOutcome(recordsByResponse[c.responseID]),
		})
	}

	report := stats.UserConsistency(outcomes, stats.DefaultConsistencyThreshold)
	middleware.JSONResponse(w, http.StatusOK, report)
}

func (h *ReportHandler) responseCounts(surveyID string, report *SurveyReport) error {
	var lastStarted sql.NullString
	err := h.db.QueryRow(`
		SELECT COUNT(*), COUNT(completed_at), MAX(started_at)
		FROM response WHERE survey_id = $1
	`, surveyID).Scan(&report.TotalResponses, &report.Completed, &lastStarted)
	if err != nil {
		return err
	}
	if lastStarted.Valid {
		if t, err := time.Parse(time.RFC3339, lastStarted.String); err == nil {
			report.LastResponse = humanize.Time(t)
		}
	}
	return nil
}

func rankingAggregate(records []models.ChoiceRecord) *RankingAggregate {
	byResponse := make(map[string][]models.ChoiceRecord)
	var order []string
	for _, rec := range records {
		if _, seen := byResponse[rec.ResponseID]; !seen {
			order = append(order, rec.ResponseID)
		}
		byResponse[rec.ResponseID] = append(byResponse[rec.ResponseID], rec)
	}

	agg := &RankingAggregate{}
	for _, id := range order {
		r, err := stats.RankingDeduction(byResponse[id])
		if errors.Is(err, stats.ErrIncompleteRanking) {
			agg.Incomplete++
			continue
		}
		if err != nil {
			slog.Warn("skipping ranking response", "response_id", id, "error", err)
			agg.Incomplete++
			continue
		}
		agg.Complete++
		agg.Reports = append(agg.Reports, r)
	}
	return agg
}
