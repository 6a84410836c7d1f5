// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"log/slog"

	"allocpoll/models"
)

// Survey outcome labels for the optimization-metrics strategy. A respondent's
// run is summarized as leaning toward the sum metric, the ratio metric, or
// neither.
const (
	OutcomeSum   = "sum"
	OutcomeRatio = "ratio"
	OutcomeEqual = "equal"
)

// Default share of a user's surveys that must land on the same outcome for
// the user to count as consistent.
const DefaultConsistencyThreshold = 0.8

// SurveyOutcome summarizes one completed run: the outcome the respondent's
// choices leaned toward. Tallies use IsSumOptimized against each record's
// stored optimal allocation; ties on the metric are counted as neither side.
func SurveyOutcome(choices []models.ChoiceRecord) string {
	sum, ratio := 0, 0
	for _, c := range choices {
		sumOptimized, ok := IsSumOptimized(c.OptimalAllocation, c.Option1, c.Option2, c.UserChoice)
		if !ok {
			continue
		}
		if sumOptimized {
			sum++
		} else {
			ratio++
		}
	}
	switch {
	case sum > ratio:
		return OutcomeSum
	case ratio > sum:
		return OutcomeRatio
	default:
		return OutcomeEqual
	}
}

// UserOutcome is one (user, survey) result fed into UserConsistency.
type UserOutcome struct {
	UserID   string
	SurveyID string
	Outcome  string
}

// ConsistencyReport is the cross-survey consistency aggregate.
type ConsistencyReport struct {
	ConsistentPct   float64 `json:"consistent_pct"`
	ConsistentUsers int     `json:"consistent_users"`
	TotalUsers      int     `json:"total_users"`
	TotalSurveys    int     `json:"total_surveys"`
	MinSurveys      int     `json:"min_surveys"`
}

// UserConsistency measures how stable users are across surveys. Only users
// who completed at least max(2, ceil(totalSurveys/2)) distinct surveys
// qualify; a qualified user is consistent when the modal outcome covers at
// least threshold of their completed surveys. ConsistentPct is the share of
// consistent users among the qualified ones (zero when nobody qualifies).
// Pass threshold <= 0 for the default.
func UserConsistency(outcomes []UserOutcome, threshold float64) ConsistencyReport {
	if threshold <= 0 {
		threshold = DefaultConsistencyThreshold
	}

	surveys := make(map[string]bool)
	// userID -> surveyID -> outcome; a repeated (user, survey) pair keeps the
	// first outcome seen.
	byUser := make(map[string]map[string]string)
	for _, o := range outcomes {
		if o.UserID == "" || o.SurveyID == "" {
			slog.Warn("skipping outcome with missing identifiers",
				"user_id", o.UserID, "survey_id", o.SurveyID)
			continue
		}
		surveys[o.SurveyID] = true
		if byUser[o.UserID] == nil {
			byUser[o.UserID] = make(map[string]string)
		}
		if _, seen := byUser[o.UserID][o.SurveyID]; !seen {
			byUser[o.UserID][o.SurveyID] = o.Outcome
		}
	}

	totalSurveys := len(surveys)
	minSurveys := (totalSurveys + 1) / 2
	if minSurveys < 2 {
		minSurveys = 2
	}

	qualified, consistent := 0, 0
	for _, completed := range byUser {
		if len(completed) < minSurveys {
			continue
		}
		qualified++

		counts := make(map[string]int)
		modal := 0
		for _, outcome := range completed {
			counts[outcome]++
			if counts[outcome] > modal {
				modal = counts[outcome]
			}
		}
		if float64(modal)/float64(len(completed)) >= threshold {
			consistent++
		}
	}

	report := ConsistencyReport{
		ConsistentUsers: consistent,
		TotalUsers:      len(byUser),
		TotalSurveys:    totalSurveys,
		MinSurveys:      minSurveys,
	}
	if qualified > 0 {
		report.ConsistentPct = percent(consistent, qualified)
	}
	return report
}
