// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSurveyRequest: title, description, creator_name, strategy, num_pairs, vector_size
  - ClaimRespondentRequest: username
  - StartResponseRequest: ideal_vector, optional seed
  - SubmitChoiceRequest: pair_number, choice, optional raw_choice

# Response Types

Types for JSON responses:

  - CreateSurveyResponse: survey_id, admin_key
  - PublishSurveyResponse: share_slug, share_url
  - ClaimRespondentResponse: respondent_token
  - StartResponseResponse: response_id, strategy, pairs
  - SubmitChoiceResponse: choice_id, remaining
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Survey: survey metadata, strategy configuration, lifecycle state
  - SurveyResponse: one respondent's run through a survey
  - ChoiceRecord: a persisted answered pair, the input to the statistics
    calculators

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
*/
package models
