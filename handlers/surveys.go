// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"allocpoll/auth"
	"allocpoll/cliparse"
	"allocpoll/middleware"
	"allocpoll/models"
	"allocpoll/pairgen"
)

type SurveyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}
	if _, err := pairgen.Lookup(req.Strategy); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"unknown strategy; known strategies: "+strings.Join(pairgen.Names(), ", "))
		return
	}
	if req.VectorSize == 0 {
		req.VectorSize = 3
	}
	if req.VectorSize < 2 || req.VectorSize > 10 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vector_size must be between 2 and 10")
		return
	}
	if req.NumPairs < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "num_pairs must not be negative")
		return
	}

	surveyID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate survey ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	adminKey := auth.GenerateAdminKey(surveyID, h.cfg.AdminKeySalt)

	_, err = h.db.Exec(`
		INSERT INTO survey (id, title, description, creator_name, strategy, num_pairs, vector_size, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, surveyID, req.Title, req.Description, req.CreatorName, req.Strategy, req.NumPairs,
		req.VectorSize, models.StatusDraft, now())

	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", surveyID, "strategy", req.Strategy, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID: surveyID,
		AdminKey: adminKey,
	})
}

// GetSurveyAdmin handles GET /surveys/:id/admin
func (h *SurveyHandler) GetSurveyAdmin(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	survey, err := h.querySurvey("id", surveyID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, survey)
}

// PublishSurvey handles POST /surveys/:id/publish
func (h *SurveyHandler) PublishSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var status string
	err := h.db.QueryRow("SELECT status FROM survey WHERE id = $1", surveyID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey is already published")
		return
	}

	shareSlug := auth.GenerateShareSlug(surveyID, h.cfg.SurveySlugSalt)

	_, err = h.db.Exec(`
		UPDATE survey SET status = $1, share_slug = $2 WHERE id = $3
	`, models.StatusOpen, shareSlug, surveyID)
	if err != nil {
		slog.Error("failed to publish survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish survey")
		return
	}

	slog.Info("survey published", "survey_id", surveyID, "share_slug", shareSlug)

	middleware.JSONResponse(w, http.StatusOK, models.PublishSurveyResponse{
		ShareSlug: shareSlug,
		ShareURL:  "/surveys/" + shareSlug,
	})
}

// CloseSurvey handles POST /surveys/:id/close
func (h *SurveyHandler) CloseSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var status string
	err := h.db.QueryRow("SELECT status FROM survey WHERE id = $1", surveyID).Scan(&status)
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
		middleware.ErrorResponse(w, http.StatusConflict, "Only open surveys can be closed")
		return
	}

	_, err = h.db.Exec(`
		UPDATE survey SET status = $1, closed_at = $2 WHERE id = $3
	`, models.StatusClosed, now(), surveyID)
	if err != nil {
		slog.Error("failed to close survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close survey")
		return
	}

	slog.Info("survey closed", "survey_id", surveyID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusClosed})
}

// GetSurveyPublic handles GET /surveys/:slug. Only published surveys have a
// share slug, so drafts are unreachable here by construction.
func (h *SurveyHandler) GetSurveyPublic(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	survey, err := h.querySurvey("share_slug", shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, survey)
}

// querySurvey loads one survey row by the given key column ("id" or
// "share_slug").
func (h *SurveyHandler) querySurvey(column, value string) (models.Survey, error) {
	return scanSurvey(h.db.QueryRow(`
		SELECT id, title, description, creator_name, strategy, num_pairs, vector_size,
		       status, share_slug, closed_at, created_at
		FROM survey WHERE `+column+` = $1
	`, value))
}

func scanSurvey(row *sql.Row) (models.Survey, error) {
	var s models.Survey
	var description, shareSlug, closedAt sql.NullString
	var createdAt string
	err := row.Scan(&s.ID, &s.Title, &description, &s.CreatorName, &s.Strategy,
		&s.NumPairs, &s.VectorSize, &s.Status, &shareSlug, &closedAt, &createdAt)
	if err != nil {
		return models.Survey{}, err
	}
	s.Description = description.String
	if shareSlug.Valid {
		s.ShareSlug = &shareSlug.String
	}
	if closedAt.Valid {
		if t, err := time.Parse(time.RFC3339, closedAt.String); err == nil {
			s.ClosedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = t
	}
	return s, nil
}

// now renders the current UTC time in the RFC3339 form the schema stores.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
