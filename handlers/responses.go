// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	mathrand "math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"

	"allocpoll/auth"
	"allocpoll/cliparse"
	"allocpoll/middleware"
	"allocpoll/models"
	"allocpoll/pairgen"
)

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// ClaimRespondent handles POST /surveys/:slug/claim-respondent
func (h *ResponseHandler) ClaimRespondent(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.ClaimRespondentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Username) < 2 || len(req.Username) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 2-50 characters")
		return
	}

	surveyID, status, err := h.surveyBySlug(shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open")
		return
	}

	respondentToken, err := auth.GenerateRespondentToken()
	if err != nil {
		slog.Error("failed to generate respondent token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim username")
		return
	}

	// UNIQUE constraint rejects duplicate usernames per survey
	_, err = h.db.Exec(`
		INSERT INTO respondent_claim (survey_id, username, respondent_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, surveyID, req.Username, respondentToken, now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
			return
		}
		slog.Error("failed to insert respondent claim", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim username")
		return
	}

	// Hash the claimant's IP for abuse triage; raw addresses are never stored.
	slog.Info("username claimed", "survey_id", surveyID, "username", req.Username,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt))

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimRespondentResponse{
		RespondentToken: respondentToken,
	})
}

// StartResponse handles POST /surveys/:slug/responses. It validates the
// respondent's ideal vector, generates the survey's full pair set, persists
// one choice row per pair, and returns the pairs for presentation.
func (h *ResponseHandler) StartResponse(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	respondentToken := r.Header.Get("X-Respondent-Token")
	if respondentToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Respondent-Token header required")
		return
	}

	var req models.StartResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var surveyID, status, strategyName string
	var numPairs, vectorSize int
	err := h.db.QueryRow(`
		SELECT id, status, strategy, num_pairs, vector_size FROM survey WHERE share_slug = $1
	`, shareSlug).Scan(&surveyID, &status, &strategyName, &numPairs, &vectorSize)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open")
		return
	}

	if !h.claimExists(surveyID, respondentToken) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown respondent token")
		return
	}

	ideal := pairgen.Vector(req.IdealVector)

	strategy, err := pairgen.Lookup(strategyName)
	if err != nil {
		slog.Error("survey references unknown strategy", "survey_id", surveyID, "strategy", strategyName)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Survey misconfigured")
		return
	}

	pairs, err := strategy.GeneratePairs(newRng(req.Seed), ideal, numPairs, vectorSize)
	switch {
	case errors.Is(err, pairgen.ErrInvalidVector):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, pairgen.ErrUnsuitable):
		// The respondent can retry with a different ideal vector, or the
		// survey owner can offer a different strategy.
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.Error("pair generation failed", "error", err, "survey_id", surveyID, "strategy", strategyName)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate pairs")
		return
	}

	responseID := uuid.NewString()
	if err := h.persistResponse(responseID, surveyID, respondentToken, strategyName, ideal, pairs); err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Response already started for this survey")
			return
		}
		slog.Error("failed to persist response", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start response")
		return
	}

	slog.Info("response started", "survey_id", surveyID, "response_id", responseID,
		"strategy", strategyName, "pairs", len(pairs))

	middleware.JSONResponse(w, http.StatusCreated, models.StartResponseResponse{
		ResponseID: responseID,
		Strategy:   strategyName,
		Pairs:      pairs,
	})
}

// SubmitChoice handles POST /surveys/:slug/responses/:id/choices
func (h *ResponseHandler) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	responseID := r.PathValue("id")
	if shareSlug == "" || responseID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug and response id are required")
		return
	}

	respondentToken := r.Header.Get("X-Respondent-Token")
	if respondentToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Respondent-Token header required")
		return
	}

	var req models.SubmitChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Choice != 1 && req.Choice != 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice must be 1 or 2")
		return
	}
	if req.RawChoice != nil && *req.RawChoice != 1 && *req.RawChoice != 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "raw_choice must be 1 or 2")
		return
	}

	surveyStatus, err := h.responseOwner(shareSlug, responseID, respondentToken)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No such response")
		return
	}
	if err != nil {
		slog.Error("failed to query response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if surveyStatus != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is not open")
		return
	}

	// Respondents may revise an answer until the survey closes.
	result, err := h.db.Exec(`
		UPDATE choice SET user_choice = $1, raw_user_choice = $2, answered_at = $3
		WHERE response_id = $4 AND pair_number = $5
	`, req.Choice, req.RawChoice, now(), responseID, req.PairNumber)
	if err != nil {
		slog.Error("failed to record choice", "error", err, "response_id", responseID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record choice")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No such pair")
		return
	}

	var remaining int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM choice WHERE response_id = $1 AND user_choice IS NULL
	`, responseID).Scan(&remaining)
	if err != nil {
		slog.Error("failed to count remaining choices", "error", err, "response_id", responseID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if remaining == 0 {
		if _, err := h.db.Exec(`
			UPDATE response SET completed_at = $1 WHERE id = $2 AND completed_at IS NULL
		`, now(), responseID); err != nil {
			slog.Error("failed to mark response complete", "error", err, "response_id", responseID)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitChoiceResponse{
		ChoiceID:  responseID + ":" + itoa(req.PairNumber),
		Remaining: remaining,
	})
}

// GetMyResponse handles GET /surveys/:slug/my-response
func (h *ResponseHandler) GetMyResponse(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	respondentToken := r.Header.Get("X-Respondent-Token")
	if respondentToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Respondent-Token header required")
		return
	}

	var resp models.SurveyResponse
	var idealJSON, startedAt string
	var completedAt sql.NullString
	err := h.db.QueryRow(`
		SELECT response.id, response.survey_id, response.strategy, response.ideal_vector,
		       response.started_at, response.completed_at
		FROM response
		JOIN survey ON survey.id = response.survey_id
		WHERE survey.share_slug = $1 AND response.respondent_token = $2
	`, shareSlug, respondentToken).Scan(&resp.ID, &resp.SurveyID, &resp.Strategy,
		&idealJSON, &startedAt, &completedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No response in progress")
		return
	}
	if err != nil {
		slog.Error("failed to query response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := json.Unmarshal([]byte(idealJSON), &resp.IdealVector); err != nil {
		slog.Error("stored ideal vector is unreadable", "error", err, "response_id", resp.ID)
	}
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		resp.StartedAt = t
	}
	if completedAt.Valid {
		if t, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			resp.CompletedAt = &t
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// persistResponse writes the response row and one choice row per pair in a
// single transaction, so a half-written pair set never becomes visible.
func (h *ResponseHandler) persistResponse(responseID, surveyID, respondentToken, strategyName string,
	ideal pairgen.Vector, pairs []pairgen.Pair) error {

	idealJSON, err := json.Marshal(ideal)
	if err != nil {
		return err
	}

	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO response (id, survey_id, respondent_token, strategy, ideal_vector, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, responseID, surveyID, respondentToken, strategyName, string(idealJSON), now())
	if err != nil {
		return err
	}

	for _, p := range pairs {
		row, err := marshalPair(p)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO choice (response_id, pair_number, option_1, option_2,
				option1_strategy, option2_strategy, option1_tag, option2_tag,
				option1_differences, option2_differences, generation_metadata, is_biennial)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, responseID, p.PairNumber, row.option1, row.option2,
			p.Option1Label, p.Option2Label, row.tag1, row.tag2,
			row.diffs1, row.diffs2, row.metadata, boolToInt(p.IsBiennial))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (h *ResponseHandler) surveyBySlug(shareSlug string) (surveyID, status string, err error) {
	err = h.db.QueryRow(`
		SELECT id, status FROM survey WHERE share_slug = $1
	`, shareSlug).Scan(&surveyID, &status)
	return surveyID, status, err
}

func (h *ResponseHandler) claimExists(surveyID, respondentToken string) bool {
	var one int
	err := h.db.QueryRow(`
		SELECT 1 FROM respondent_claim WHERE survey_id = $1 AND respondent_token = $2
	`, surveyID, respondentToken).Scan(&one)
	return err == nil
}

// responseOwner verifies the response belongs to the slug's survey and to the
// caller's respondent token, returning the survey status. sql.ErrNoRows means
// any of the three did not line up; the caller treats that as not found.
func (h *ResponseHandler) responseOwner(shareSlug, responseID, respondentToken string) (surveyStatus string, err error) {
	err = h.db.QueryRow(`
		SELECT survey.status
		FROM response
		JOIN survey ON survey.id = response.survey_id
		WHERE survey.share_slug = $1 AND response.id = $2 AND response.respondent_token = $3
	`, shareSlug, responseID, respondentToken).Scan(&surveyStatus)
	return surveyStatus, err
}

// newRng builds the generator for one pair-generation run. An explicit seed
// makes the run reproducible; otherwise the seed comes from crypto/rand.
func newRng(seed *int64) *mathrand.Rand {
	if seed != nil {
		return mathrand.New(mathrand.NewPCG(uint64(*seed), 0x5eed))
	}
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fall back to the time-seeded global source.
		return mathrand.New(mathrand.NewPCG(mathrand.Uint64(), mathrand.Uint64()))
	}
	return mathrand.New(mathrand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	))
}
