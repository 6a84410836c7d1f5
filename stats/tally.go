// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"log/slog"
	"strings"

	"allocpoll/models"
	"allocpoll/pairgen"
)

// TallyReport is the simple two-category breakdown used by the triangle and
// MDSP calculators: counts per category, percentages, and consistency as the
// majority share.
type TallyReport struct {
	Total          int     `json:"total"`
	First          int     `json:"first_count"`
	Second         int     `json:"second_count"`
	FirstPct       float64 `json:"first_pct"`
	SecondPct      float64 `json:"second_pct"`
	ConsistencyPct float64 `json:"consistency_pct"`
}

func (r *TallyReport) finish() {
	if r.Total == 0 {
		return
	}
	r.FirstPct = percent(r.First, r.Total)
	r.SecondPct = percent(r.Second, r.Total)
	r.ConsistencyPct = r.FirstPct
	if r.SecondPct > r.FirstPct {
		r.ConsistencyPct = r.SecondPct
	}
}

// TriangleTally counts concentrated vs distributed change preferences.
// First = concentrated.
func TriangleTally(choices []models.ChoiceRecord) TallyReport {
	var report TallyReport
	for _, c := range choices {
		tag := chosenTag(c)
		var concentrated bool
		switch {
		case tag.Role == pairgen.RoleConcentrated:
			concentrated = true
		case tag.Role == pairgen.RoleDistributed:
			concentrated = false
		case strings.HasPrefix(chosenLabel(c), "Concentrated"):
			concentrated = true
		case strings.HasPrefix(chosenLabel(c), "Distributed"):
			concentrated = false
		default:
			slog.Warn("skipping unparsable triangle choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber)
			continue
		}
		if concentrated {
			report.First++
		} else {
			report.Second++
		}
		report.Total++
	}
	report.finish()
	return report
}

// MDSPTally counts near vs far preferences. Closeness is recomputed from the
// stored vectors by L1 distance to the respondent's ideal rather than trusted
// from labels; records where the two options tie are skipped, not counted.
// First = near.
func MDSPTally(choices []models.ChoiceRecord) TallyReport {
	var report TallyReport
	for _, c := range choices {
		chosen := c.Chosen()
		if chosen == nil {
			slog.Warn("skipping choice with invalid user_choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber, "user_choice", c.UserChoice)
			continue
		}
		d1 := l1Distance(c.Option1, c.OptimalAllocation)
		d2 := l1Distance(c.Option2, c.OptimalAllocation)
		if d1 == d2 {
			continue
		}
		choseNear := (d1 < d2) == (c.UserChoice == 1)
		if choseNear {
			report.First++
		} else {
			report.Second++
		}
		report.Total++
	}
	report.finish()
	return report
}
