// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"allocpoll/models"
	"allocpoll/pairgen"
)

// pairRow holds the JSON-encoded columns for one choice insert.
type pairRow struct {
	option1, option2 string
	tag1, tag2       string
	diffs1, diffs2   sql.NullString
	metadata         sql.NullString
}

func marshalPair(p pairgen.Pair) (pairRow, error) {
	var row pairRow

	b, err := json.Marshal(p.Option1)
	if err != nil {
		return row, err
	}
	row.option1 = string(b)

	b, err = json.Marshal(p.Option2)
	if err != nil {
		return row, err
	}
	row.option2 = string(b)

	b, err = json.Marshal(p.Option1Tag)
	if err != nil {
		return row, err
	}
	row.tag1 = string(b)

	b, err = json.Marshal(p.Option2Tag)
	if err != nil {
		return row, err
	}
	row.tag2 = string(b)

	if p.Option1Differences != nil {
		b, err = json.Marshal(p.Option1Differences)
		if err != nil {
			return row, err
		}
		row.diffs1 = sql.NullString{String: string(b), Valid: true}
	}
	if p.Option2Differences != nil {
		b, err = json.Marshal(p.Option2Differences)
		if err != nil {
			return row, err
		}
		row.diffs2 = sql.NullString{String: string(b), Valid: true}
	}
	if p.Metadata != nil {
		b, err = json.Marshal(p.Metadata)
		if err != nil {
			return row, err
		}
		row.metadata = sql.NullString{String: string(b), Valid: true}
	}

	return row, nil
}

// loadChoiceRecords reads every answered choice across a survey's responses,
// decoding the JSON columns back into calculator inputs. Rows with unreadable
// JSON are logged and dropped rather than failing the whole report.
func loadChoiceRecords(db *sql.DB, surveyID string) ([]models.ChoiceRecord, error) {
	rows, err := db.Query(`
		SELECT choice.response_id, choice.pair_number, choice.option_1, choice.option_2,
		       choice.option1_strategy, choice.option2_strategy,
		       choice.option1_tag, choice.option2_tag,
		       choice.user_choice, choice.raw_user_choice, choice.is_biennial,
		       response.ideal_vector
		FROM choice
		JOIN response ON response.id = choice.response_id
		WHERE response.survey_id = $1 AND choice.user_choice IS NOT NULL
		ORDER BY choice.response_id, choice.pair_number
	`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ChoiceRecord
	for rows.Next() {
		var rec models.ChoiceRecord
		var opt1, opt2, idealJSON string
		var label1, label2, tag1, tag2 sql.NullString
		var userChoice sql.NullInt64
		var rawChoice sql.NullInt64
		var isBiennial int

		err := rows.Scan(&rec.ResponseID, &rec.PairNumber, &opt1, &opt2,
			&label1, &label2, &tag1, &tag2,
			&userChoice, &rawChoice, &isBiennial, &idealJSON)
		if err != nil {
			return nil, err
		}
		rec.Option1Strategy = label1.String
		rec.Option2Strategy = label2.String

		if err := json.Unmarshal([]byte(opt1), &rec.Option1); err != nil {
			slog.Warn("skipping choice with unreadable option", "response_id", rec.ResponseID,
				"pair_number", rec.PairNumber, "error", err)
			continue
		}
		if err := json.Unmarshal([]byte(opt2), &rec.Option2); err != nil {
			slog.Warn("skipping choice with unreadable option", "response_id", rec.ResponseID,
				"pair_number", rec.PairNumber, "error", err)
			continue
		}
		if err := json.Unmarshal([]byte(idealJSON), &rec.OptimalAllocation); err != nil {
			slog.Warn("skipping choice with unreadable ideal vector", "response_id", rec.ResponseID,
				"pair_number", rec.PairNumber, "error", err)
			continue
		}
		// Tags were introduced after the first deployments; rows written
		// before then decode to the zero Tag and the calculators fall back
		// to label parsing.
		if tag1.Valid && tag1.String != "" {
			if err := json.Unmarshal([]byte(tag1.String), &rec.Option1Tag); err != nil {
				slog.Warn("ignoring unreadable option tag", "response_id", rec.ResponseID,
					"pair_number", rec.PairNumber, "error", err)
			}
		}
		if tag2.Valid && tag2.String != "" {
			if err := json.Unmarshal([]byte(tag2.String), &rec.Option2Tag); err != nil {
				slog.Warn("ignoring unreadable option tag", "response_id", rec.ResponseID,
					"pair_number", rec.PairNumber, "error", err)
			}
		}

		if userChoice.Valid {
			rec.UserChoice = int(userChoice.Int64)
		}
		if rawChoice.Valid {
			v := int(rawChoice.Int64)
			rec.RawUserChoice = &v
		}
		rec.IsBiennial = isBiennial != 0

		records = append(records, rec)
	}
	return records, rows.Err()
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver. Neither driver exports a stable error type for
// this, so the check is textual, same as elsewhere in the handlers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func itoa(n int) string { return strconv.Itoa(n) }
