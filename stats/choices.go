// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"log/slog"
	"strings"

	"allocpoll/models"
	"allocpoll/pairgen"
)

// ChoiceSummary holds the generic option-1 vs option-2 split for a set of
// answered pairs.
type ChoiceSummary struct {
	Total      int     `json:"total"`
	Option1    int     `json:"option1_count"`
	Option2    int     `json:"option2_count"`
	Option1Pct float64 `json:"option1_pct"`
	Option2Pct float64 `json:"option2_pct"`
}

// OptionPercentages tallies which option respondents picked. Records with a
// malformed user_choice are logged and skipped rather than failing the whole
// aggregate.
func OptionPercentages(choices []models.ChoiceRecord) ChoiceSummary {
	var s ChoiceSummary
	for _, c := range choices {
		switch c.UserChoice {
		case 1:
			s.Option1++
		case 2:
			s.Option2++
		default:
			slog.Warn("skipping choice with invalid user_choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber, "user_choice", c.UserChoice)
			continue
		}
		s.Total++
	}
	if s.Total > 0 {
		s.Option1Pct = percent(s.Option1, s.Total)
		s.Option2Pct = percent(s.Option2, s.Total)
	}
	return s
}

// MetricSummary attributes choices of a ranking-based strategy to its two
// optimization metrics instead of raw option positions.
type MetricSummary struct {
	Total      int     `json:"total"`
	MetricA    int     `json:"metric_a_count"`
	MetricB    int     `json:"metric_b_count"`
	MetricAPct float64 `json:"metric_a_pct"`
	MetricBPct float64 `json:"metric_b_pct"`
}

// MetricPercentages attributes each choice to metric A (sum of differences)
// or metric B (minimal ratio). Attribution precedence, preserved exactly for
// legacy rows: structured tag role, then substring match of the metric's
// descriptive name inside the stored strategy label, then positional default
// (option 1 is metric A).
func MetricPercentages(choices []models.ChoiceRecord) MetricSummary {
	var s MetricSummary
	for _, c := range choices {
		var tag pairgen.Tag
		var label string
		switch c.UserChoice {
		case 1:
			tag, label = c.Option1Tag, c.Option1Strategy
		case 2:
			tag, label = c.Option2Tag, c.Option2Strategy
		default:
			slog.Warn("skipping choice with invalid user_choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber, "user_choice", c.UserChoice)
			continue
		}

		if isMetricA(tag, label, c.UserChoice) {
			s.MetricA++
		} else {
			s.MetricB++
		}
		s.Total++
	}
	if s.Total > 0 {
		s.MetricAPct = percent(s.MetricA, s.Total)
		s.MetricBPct = percent(s.MetricB, s.Total)
	}
	return s
}

func isMetricA(tag pairgen.Tag, label string, choice int) bool {
	switch tag.Role {
	case pairgen.RoleSumOptimized:
		return true
	case pairgen.RoleRatioOptimized:
		return false
	}
	if strings.Contains(label, pairgen.MetricSumName) {
		return true
	}
	if strings.Contains(label, pairgen.MetricRatioName) {
		return false
	}
	return choice == 1
}

// IsSumOptimized reports whether the respondent picked the option that sits
// strictly closer to the optimal allocation by sum of absolute differences.
// ok is false when the two options tie on that metric or the choice is
// malformed; callers treat such records as "equal" outcomes.
func IsSumOptimized(optimal, opt1, opt2 pairgen.Vector, choice int) (sumOptimized, ok bool) {
	if choice != 1 && choice != 2 {
		return false, false
	}
	d1 := l1Distance(opt1, optimal)
	d2 := l1Distance(opt2, optimal)
	if d1 == d2 {
		return false, false
	}
	betterIsOpt1 := d1 < d2
	return betterIsOpt1 == (choice == 1), true
}

func l1Distance(a, b pairgen.Vector) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

func percent(count, total int) float64 {
	return float64(count) / float64(total) * 100
}
