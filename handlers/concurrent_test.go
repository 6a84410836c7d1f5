// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"allocpoll/models"
	"allocpoll/pairgen"
	"allocpoll/testutil"
)

// TestConcurrentResponseStarts verifies that simultaneous response starts
// from different respondents don't corrupt the pair rows or duplicate
// responses
func TestConcurrentResponseStarts(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	responseHandler := NewResponseHandler(db, cfg)

	surveyID, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open", pairgen.NameIdentityAsymmetry)

	numRespondents := 10
	tokens := make([]string, numRespondents)

	// Pre-claim all usernames
	for i := 0; i < numRespondents; i++ {
		username := "ConcurrentUser" + string(rune('A'+i))
		tokens[i] = testutil.CreateTestRespondent(t, db, surveyID, username)
	}

	// Track results
	var successCount atomic.Int32
	var wg sync.WaitGroup

	// Start all responses concurrently
	for i := 0; i < numRespondents; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			startReq := models.StartResponseRequest{IdealVector: []int{30, 30, 40}}
			body, _ := json.Marshal(startReq)
			req := httptest.NewRequest("POST", "/surveys/"+shareSlug+"/responses", bytes.NewReader(body))
			req.SetPathValue("slug", shareSlug)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Respondent-Token", tokens[idx])
			w := httptest.NewRecorder()

			responseHandler.StartResponse(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	// All starts should succeed
	if int(successCount.Load()) != numRespondents {
		t.Errorf("Expected %d successful starts, got %d", numRespondents, successCount.Load())
	}

	// Exactly one response per respondent
	var responseCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM response WHERE survey_id = $1", surveyID).Scan(&responseCount); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	if responseCount != numRespondents {
		t.Errorf("Expected %d responses, got %d", numRespondents, responseCount)
	}

	// Every response carries the full pair set
	var choiceCount int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM choice
		JOIN response ON response.id = choice.response_id
		WHERE response.survey_id = $1
	`, surveyID).Scan(&choiceCount); err != nil {
		t.Fatalf("Failed to count choices: %v", err)
	}
	if choiceCount != numRespondents*10 {
		t.Errorf("Expected %d choice rows, got %d", numRespondents*10, choiceCount)
	}
}

// TestConcurrentUsernameClaims verifies that racing claims for the same
// username produce exactly one winner
func TestConcurrentUsernameClaims(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	responseHandler := NewResponseHandler(db, cfg)

	_, _, shareSlug := testutil.CreateTestSurvey(t, db, cfg, "open", pairgen.NameIdentityAsymmetry)

	numRacers := 8
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRacers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			claimReq := models.ClaimRespondentRequest{Username: "contested"}
			body, _ := json.Marshal(claimReq)
			req := httptest.NewRequest("POST", "/surveys/"+shareSlug+"/claim-respondent", bytes.NewReader(body))
			req.SetPathValue("slug", shareSlug)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			responseHandler.ClaimRespondent(w, req)

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 winning claim, got %d", successCount.Load())
	}
	if int(successCount.Load()+conflictCount.Load()) != numRacers {
		t.Errorf("Expected %d total outcomes, got %d successes and %d conflicts",
			numRacers, successCount.Load(), conflictCount.Load())
	}
}
