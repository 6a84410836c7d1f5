// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"allocpoll/auth"
	"allocpoll/cliparse"
	"allocpoll/db"
	"allocpoll/pairgen"
)

// SetupTestDB opens a fresh in-memory database with the full schema. Each
// call gets its own database, so tests never see each other's rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and avoids
	// locking between the handlers' overlapping statements.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		AdminKeySalt:   "test-admin-salt",
		SurveySlugSalt: "test-slug-salt",
	}
}

// CreateTestSurvey creates a survey in the database and returns its ID, admin
// key, and share slug. status should be "draft", "open", or "closed".
func CreateTestSurvey(t *testing.T, conn *sql.DB, cfg cliparse.Config, status, strategy string) (surveyID, adminKey, shareSlug string) {
	t.Helper()

	surveyID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(surveyID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(surveyID, cfg.SurveySlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *string
	if status == "closed" {
		s := time.Now().UTC().Format(time.RFC3339)
		closedAt = &s
	}

	_, err := conn.Exec(`
		INSERT INTO survey (id, title, description, creator_name, strategy, num_pairs,
			vector_size, status, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Survey', 'A test survey', 'TestUser', $2, 10, 3, $3, $4, $5, $6)
	`, surveyID, strategy, status, slug, closedAt, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	return surveyID, adminKey, shareSlug
}

// CreateTestRespondent claims a username on a survey and returns the
// respondent token
func CreateTestRespondent(t *testing.T, conn *sql.DB, surveyID, username string) string {
	t.Helper()

	respondentToken, _ := auth.GenerateRespondentToken()
	_, err := conn.Exec(`
		INSERT INTO respondent_claim (survey_id, username, respondent_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, surveyID, username, respondentToken, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test respondent: %v", err)
	}

	return respondentToken
}

// StartTestResponse inserts a response row with the given ideal vector and
// returns the response ID
func StartTestResponse(t *testing.T, conn *sql.DB, surveyID, respondentToken, strategy string, ideal pairgen.Vector) string {
	t.Helper()

	responseID := uuid.NewString()
	idealJSON, _ := json.Marshal(ideal)
	_, err := conn.Exec(`
		INSERT INTO response (id, survey_id, respondent_token, strategy, ideal_vector, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, responseID, surveyID, respondentToken, strategy, string(idealJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return responseID
}

// InsertTestPair writes one choice row for a response
func InsertTestPair(t *testing.T, conn *sql.DB, responseID string, p pairgen.Pair) {
	t.Helper()

	opt1, _ := json.Marshal(p.Option1)
	opt2, _ := json.Marshal(p.Option2)
	tag1, _ := json.Marshal(p.Option1Tag)
	tag2, _ := json.Marshal(p.Option2Tag)

	_, err := conn.Exec(`
		INSERT INTO choice (response_id, pair_number, option_1, option_2,
			option1_strategy, option2_strategy, option1_tag, option2_tag, is_biennial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, responseID, p.PairNumber, string(opt1), string(opt2),
		p.Option1Label, p.Option2Label, string(tag1), string(tag2), 0)
	if err != nil {
		t.Fatalf("Failed to insert test pair: %v", err)
	}
}

// AnswerTestPair records a choice on an existing pair
func AnswerTestPair(t *testing.T, conn *sql.DB, responseID string, pairNumber, choice int) {
	t.Helper()

	_, err := conn.Exec(`
		UPDATE choice SET user_choice = $1, answered_at = $2
		WHERE response_id = $3 AND pair_number = $4
	`, choice, time.Now().UTC().Format(time.RFC3339), responseID, pairNumber)
	if err != nil {
		t.Fatalf("Failed to answer test pair: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
