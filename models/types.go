// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"allocpoll/pairgen"
)

// Survey status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Request types

type CreateSurveyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
	Strategy    string `json:"strategy"`
	NumPairs    int    `json:"num_pairs"`
	VectorSize  int    `json:"vector_size"`
}

type ClaimRespondentRequest struct {
	Username string `json:"username"`
}

// IdealVector is submitted once and anchors every generated pair.
type StartResponseRequest struct {
	IdealVector []int  `json:"ideal_vector"`
	Seed        *int64 `json:"seed,omitempty"`
}

// Choice is 1 or 2; raw_choice preserves the pre-randomization selection
// when the display order was swapped.
type SubmitChoiceRequest struct {
	PairNumber int  `json:"pair_number"`
	Choice     int  `json:"choice"`
	RawChoice  *int `json:"raw_choice,omitempty"`
}

// Response types

type CreateSurveyResponse struct {
	SurveyID string `json:"survey_id"`
	AdminKey string `json:"admin_key"`
}

type PublishSurveyResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type ClaimRespondentResponse struct {
	RespondentToken string `json:"respondent_token"`
}

type StartResponseResponse struct {
	ResponseID string         `json:"response_id"`
	Strategy   string         `json:"strategy"`
	Pairs      []pairgen.Pair `json:"pairs"`
}

type SubmitChoiceResponse struct {
	ChoiceID  string `json:"choice_id"`
	Remaining int    `json:"remaining"`
}

// Domain types

type Survey struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatorName string     `json:"creator_name"`
	Strategy    string     `json:"strategy"`
	NumPairs    int        `json:"num_pairs"`
	VectorSize  int        `json:"vector_size"`
	Status      string     `json:"status"`
	ShareSlug   *string    `json:"share_slug,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SurveyResponse struct {
	ID              string         `json:"id"`
	SurveyID        string         `json:"survey_id"`
	RespondentToken string         `json:"-"` // Never expose in JSON
	Strategy        string         `json:"strategy"`
	IdealVector     pairgen.Vector `json:"ideal_vector"`
	StartedAt       time.Time      `json:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

// ChoiceRecord is the persisted form of one answered pair, re-hydrated from
// storage for the statistics calculators. Option1Strategy/Option2Strategy
// carry the display labels; Option1Tag/Option2Tag the structured provenance.
// Calculators prefer tags and fall back to label matching for rows written
// before tags existed.
type ChoiceRecord struct {
	ResponseID        string         `json:"response_id"`
	Option1           pairgen.Vector `json:"option_1"`
	Option2           pairgen.Vector `json:"option_2"`
	Option1Strategy   string         `json:"option1_strategy"`
	Option2Strategy   string         `json:"option2_strategy"`
	Option1Tag        pairgen.Tag    `json:"option1_tag"`
	Option2Tag        pairgen.Tag    `json:"option2_tag"`
	OptimalAllocation pairgen.Vector `json:"optimal_allocation"`
	UserChoice        int            `json:"user_choice"`
	RawUserChoice     *int           `json:"raw_user_choice,omitempty"`
	PairNumber        int            `json:"pair_number"`
	IsBiennial        bool           `json:"is_biennial"`
}

// Chosen returns the vector the respondent picked, or nil when UserChoice is
// malformed.
func (c ChoiceRecord) Chosen() pairgen.Vector {
	switch c.UserChoice {
	case 1:
		return c.Option1
	case 2:
		return c.Option2
	default:
		return nil
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
