// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"log/slog"
	"regexp"

	"allocpoll/models"
	"allocpoll/pairgen"
)

var (
	cyclicLabelRe = regexp.MustCompile(`Cyclic Pattern ([AB]) \(shift (\d+)\)`)
	linearLabelRe = regexp.MustCompile(`Linear Pattern ([+-]) ([vw])(\d+)`)
)

// GroupReport scores strategies whose questions come in all-or-nothing
// groups: a group is consistent only when every answer in it picks the same
// variant, and the overall percentage is the share of fully consistent
// groups.
type GroupReport struct {
	Groups           int     `json:"groups"`
	ConsistentGroups int     `json:"consistent_groups"`
	ConsistencyPct   float64 `json:"consistency_pct"`
}

// CyclicConsistency checks whether a respondent sticks with the same
// perturbation pattern (A or B) across all three rotations of a group.
func CyclicConsistency(choices []models.ChoiceRecord) GroupReport {
	return groupAgreement(choices, func(c models.ChoiceRecord) (group int, variant string, ok bool) {
		tag := chosenTag(c)
		if tag.Pattern != "" {
			group = tag.Group
			if group == 0 {
				group = 1 + (c.PairNumber-1)/3
			}
			return group, tag.Pattern, true
		}
		m := cyclicLabelRe.FindStringSubmatch(chosenLabel(c))
		if m == nil {
			return 0, "", false
		}
		// Legacy rows carry no group column; pair numbers run three to a
		// group.
		return 1 + (c.PairNumber-1)/3, m[1], true
	})
}

// LinearConsistency checks whether the positive and negative mirror of a
// group pick the same distance vector (v or w).
func LinearConsistency(choices []models.ChoiceRecord) GroupReport {
	return groupAgreement(choices, func(c models.ChoiceRecord) (group int, variant string, ok bool) {
		tag := chosenTag(c)
		if tag.Pattern != "" {
			group = tag.Group
			if group == 0 {
				group = 1 + (c.PairNumber-1)/2
			}
			return group, tag.Pattern, true
		}
		m := linearLabelRe.FindStringSubmatch(chosenLabel(c))
		if m == nil {
			return 0, "", false
		}
		return 1 + (c.PairNumber-1)/2, m[2], true
	})
}

// groupAgreement buckets answers by group and counts groups whose variants
// all agree. Unparsable records are logged and skipped; a group that lost a
// record this way can still be consistent if its remaining answers agree.
func groupAgreement(choices []models.ChoiceRecord, extract func(models.ChoiceRecord) (int, string, bool)) GroupReport {
	variants := make(map[int][]string)
	for _, c := range choices {
		if c.UserChoice != 1 && c.UserChoice != 2 {
			slog.Warn("skipping choice with invalid user_choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber, "user_choice", c.UserChoice)
			continue
		}
		group, variant, ok := extract(c)
		if !ok {
			slog.Warn("skipping choice with unparsable variant",
				"response_id", c.ResponseID, "pair_number", c.PairNumber)
			continue
		}
		variants[group] = append(variants[group], variant)
	}

	var report GroupReport
	for _, vs := range variants {
		report.Groups++
		agreed := true
		for _, v := range vs[1:] {
			if v != vs[0] {
				agreed = false
				break
			}
		}
		if agreed {
			report.ConsistentGroups++
		}
	}
	if report.Groups > 0 {
		report.ConsistencyPct = percent(report.ConsistentGroups, report.Groups)
	}
	return report
}

func chosenTag(c models.ChoiceRecord) pairgen.Tag {
	if c.UserChoice == 2 {
		return c.Option2Tag
	}
	return c.Option1Tag
}

func chosenLabel(c models.ChoiceRecord) string {
	if c.UserChoice == 2 {
		return c.Option2Strategy
	}
	return c.Option1Strategy
}
