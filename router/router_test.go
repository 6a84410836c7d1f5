// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"allocpoll/pairgen"
	"allocpoll/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "allocpoll API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Test that routes respond (handler is invoked)
	// Note: Some routes return 404 when data doesn't exist, which is valid handler behavior
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Strategy catalog
		{"GET", "/strategies"},

		// Survey management routes (these use {id} param and may return auth errors)
		{"POST", "/surveys"},
		{"GET", "/surveys/test-id/admin"},
		{"POST", "/surveys/test-id/publish"},
		{"POST", "/surveys/test-id/close"},

		// Respondent routes (these use {slug} param)
		{"POST", "/surveys/test-slug/claim-respondent"},
		{"POST", "/surveys/test-slug/responses"},
		{"POST", "/surveys/test-slug/responses/test-resp/choices"},
		{"GET", "/surveys/test-slug/my-response"},

		// Reporting routes
		{"GET", "/surveys/test-slug"},
		{"GET", "/surveys/test-slug/report"},
		{"GET", "/surveys/test-slug/response-count"},
		{"GET", "/consistency"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Route should be matched (not 405 Method Not Allowed for these specific routes)
			// 400, 401, 404 are all valid responses depending on handler logic
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Test that unsupported methods on defined routes return 405
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},                  // Only GET is defined
		{"DELETE", "/surveys/test-id/admin"}, // Only GET is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()

	// Create a test survey to verify path parameters work
	surveyID, adminKey, _ := testutil.CreateTestSurvey(t, db, cfg, "draft", pairgen.NameIdentityAsymmetry)

	mux := NewRouter(db, cfg)

	// Test that {id} parameter extracts correctly
	t.Run("survey ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/surveys/"+surveyID+"/admin", nil)
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		// Should not be 404 (route matched) and not 400 (ID extracted)
		if w.Code == http.StatusNotFound {
			t.Error("Route should have matched")
		}
		// With valid admin key and survey, should return 200
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with valid admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}

func TestStrategyCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/strategies", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
}
