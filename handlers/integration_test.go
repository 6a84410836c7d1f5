// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"allocpoll/models"
	"allocpoll/pairgen"
	"allocpoll/testutil"
)

// TestFullSurveyWorkflow tests the complete end-to-end workflow:
// 1. Create survey
// 2. Publish survey
// 3. Respondents claim usernames
// 4. Respondents start responses and receive generated pairs
// 5. Respondents answer every pair
// 6. Close survey
// 7. Verify the report
func TestFullSurveyWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	surveyHandler := NewSurveyHandler(db, cfg)
	responseHandler := NewResponseHandler(db, cfg)
	reportHandler := NewReportHandler(db, cfg)

	// Step 1: Create a survey
	createReq := models.CreateSurveyRequest{
		Title:       "Integration Test Survey",
		Description: "Testing the full response workflow",
		CreatorName: "IntegrationTester",
		Strategy:    pairgen.NameIdentityAsymmetry,
		NumPairs:    10,
		VectorSize:  3,
	}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest("POST", "/surveys", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	surveyHandler.CreateSurvey(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create survey failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateSurveyResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	surveyID := createResp.SurveyID
	adminKey := createResp.AdminKey

	if surveyID == "" || adminKey == "" {
		t.Fatal("Step 1 - Missing survey_id or admin_key")
	}
	t.Logf("Step 1 - Created survey: %s", surveyID)

	// Step 2: Publish survey
	req = httptest.NewRequest("POST", "/surveys/"+surveyID+"/publish", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	surveyHandler.PublishSurvey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Publish failed: %d - %s", w.Code, w.Body.String())
	}

	var publishResp models.PublishSurveyResponse
	json.NewDecoder(w.Body).Decode(&publishResp)
	shareSlug := publishResp.ShareSlug

	if shareSlug == "" {
		t.Fatal("Step 2 - Missing share_slug")
	}
	t.Logf("Step 2 - Published survey with slug: %s", shareSlug)

	// Step 3: 2 respondents claim usernames
	respondents := []string{"Alice", "Bob"}
	tokens := make([]string, 0, len(respondents))

	for _, username := range respondents {
		claimReq := models.ClaimRespondentRequest{Username: username}
		body, _ := json.Marshal(claimReq)
		req := httptest.NewRequest("POST", "/surveys/"+shareSlug+"/claim-respondent", bytes.NewReader(body))
		req.SetPathValue("slug", shareSlug)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		responseHandler.ClaimRespondent(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 3 - Claim '%s' failed: %d - %s", username, w.Code, w.Body.String())
		}

		var claimResp models.ClaimRespondentResponse
		json.NewDecoder(w.Body).Decode(&claimResp)
		tokens = append(tokens, claimResp.RespondentToken)
	}
	t.Logf("Step 3 - Claimed %d usernames", len(tokens))

	// Steps 4-5: each respondent starts a response and answers every pair
	seed := int64(7)
	for i, token := range tokens {
		startReq := models.StartResponseRequest{IdealVector: []int{30, 30, 40}, Seed: &seed}
		body, _ := json.Marshal(startReq)
		req := httptest.NewRequest("POST", "/surveys/"+shareSlug+"/responses", bytes.NewReader(body))
		req.SetPathValue("slug", shareSlug)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Respondent-Token", token)
		w := httptest.NewRecorder()
		responseHandler.StartResponse(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Start response %d failed: %d - %s", i, w.Code, w.Body.String())
		}

		var startResp models.StartResponseResponse
		json.NewDecoder(w.Body).Decode(&startResp)
		if len(startResp.Pairs) == 0 {
			t.Fatal("Step 4 - No pairs generated")
		}

		for _, pair := range startResp.Pairs {
			choiceReq := models.SubmitChoiceRequest{PairNumber: pair.PairNumber, Choice: 1}
			body, _ := json.Marshal(choiceReq)
			req := httptest.NewRequest("POST",
				"/surveys/"+shareSlug+"/responses/"+startResp.ResponseID+"/choices", bytes.NewReader(body))
			req.SetPathValue("slug", shareSlug)
			req.SetPathValue("id", startResp.ResponseID)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Respondent-Token", token)
			w := httptest.NewRecorder()
			responseHandler.SubmitChoice(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Step 5 - Submit pair %d failed: %d - %s", pair.PairNumber, w.Code, w.Body.String())
			}
		}

		// Response should now be complete
		req = httptest.NewRequest("GET", "/surveys/"+shareSlug+"/my-response", nil)
		req.SetPathValue("slug", shareSlug)
		req.Header.Set("X-Respondent-Token", token)
		w = httptest.NewRecorder()
		responseHandler.GetMyResponse(w, req)

		var myResp models.SurveyResponse
		json.NewDecoder(w.Body).Decode(&myResp)
		if myResp.CompletedAt == nil {
			t.Errorf("Step 5 - Respondent %d response not marked complete", i)
		}
	}
	t.Log("Step 5 - All pairs answered")

	// Step 6: Close survey
	req = httptest.NewRequest("POST", "/surveys/"+surveyID+"/close", nil)
	req.SetPathValue("id", surveyID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	surveyHandler.CloseSurvey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Close failed: %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 6 - Survey closed")

	// Step 7: Verify the report
	req = httptest.NewRequest("GET", "/surveys/"+shareSlug+"/report", nil)
	req.SetPathValue("slug", shareSlug)
	w = httptest.NewRecorder()
	reportHandler.GetReport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Report failed: %d - %s", w.Code, w.Body.String())
	}

	var report SurveyReport
	json.NewDecoder(w.Body).Decode(&report)
	if report.TotalResponses != 2 || report.Completed != 2 {
		t.Errorf("Step 7 - Expected 2/2 responses, got %d/%d", report.TotalResponses, report.Completed)
	}
	if report.Choices.Total != 20 || report.Choices.Option1 != 20 {
		t.Errorf("Step 7 - Unexpected choice summary: %+v", report.Choices)
	}
	t.Logf("Step 7 - Report verified: %d choices", report.Choices.Total)
}
