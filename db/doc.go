// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening a Connection

Open selects the driver from the configuration and verifies the connection:

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

DatabaseType "sqlite" uses the pure-Go modernc driver (WAL mode, foreign
keys on, one connection); "postgres" uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - survey: Survey metadata, strategy configuration, lifecycle state
  - respondent_claim: Maps usernames to respondent tokens
  - response: One response per respondent per survey, with the ideal vector
  - choice: One row per generated pair; filled in as the respondent answers

# Relationships

	survey 1──* respondent_claim
	survey 1──* response
	response 1──* choice

All foreign keys use ON DELETE CASCADE.

# Portability

The SQL sticks to the common subset of SQLite and PostgreSQL: timestamps are
RFC3339 TEXT written by the application, booleans are INTEGER 0/1, vectors
and tags are JSON TEXT, and placeholders use the $1 form both engines accept.

# Indexes

Performance indexes on:

  - survey.share_slug (unique)
  - survey.status
  - respondent_claim.survey_id
  - response.survey_id
  - response.(survey_id, respondent_token)
  - choice.response_id
*/
package db
