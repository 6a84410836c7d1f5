// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are stored as RFC3339 TEXT and written by the application, and
// booleans as INTEGER 0/1, so the same schema runs on both SQLite and
// PostgreSQL.
const schema = `
-- Surveys
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    creator_name TEXT NOT NULL,
    strategy TEXT NOT NULL,
    num_pairs INTEGER NOT NULL,
    vector_size INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    closed_at TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_survey_share_slug ON survey(share_slug);
CREATE INDEX IF NOT EXISTS idx_survey_status ON survey(status);

-- Username Claims
CREATE TABLE IF NOT EXISTS respondent_claim (
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    username TEXT NOT NULL,
    respondent_token TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (survey_id, respondent_token),
    UNIQUE (survey_id, username)
);

CREATE INDEX IF NOT EXISTS idx_respondent_claim_survey_id ON respondent_claim(survey_id);

-- Survey Responses
CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    respondent_token TEXT NOT NULL,
    strategy TEXT NOT NULL,
    ideal_vector TEXT NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    UNIQUE (survey_id, respondent_token)
);

CREATE INDEX IF NOT EXISTS idx_response_survey_id ON response(survey_id);
CREATE INDEX IF NOT EXISTS idx_response_token ON response(survey_id, respondent_token);

-- Choices (one row per generated pair; user_choice stays NULL until answered)
CREATE TABLE IF NOT EXISTS choice (
    response_id TEXT NOT NULL REFERENCES response(id) ON DELETE CASCADE,
    pair_number INTEGER NOT NULL,
    option_1 TEXT NOT NULL,
    option_2 TEXT NOT NULL,
    option1_strategy TEXT,
    option2_strategy TEXT,
    option1_tag TEXT,
    option2_tag TEXT,
    option1_differences TEXT,
    option2_differences TEXT,
    generation_metadata TEXT,
    is_biennial INTEGER NOT NULL DEFAULT 0,
    user_choice INTEGER,
    raw_user_choice INTEGER,
    answered_at TEXT,
    PRIMARY KEY (response_id, pair_number)
);

CREATE INDEX IF NOT EXISTS idx_choice_response_id ON choice(response_id);
`
