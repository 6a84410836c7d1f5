// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"log/slog"
	"regexp"
	"strconv"

	"allocpoll/models"
	"allocpoll/pairgen"
)

// Legacy label shapes from rows stored before structured tags.
var (
	coreLabelRe     = regexp.MustCompile(`Extreme Vector ([A-C])`)
	weightedLabelRe = regexp.MustCompile(`Weighted (\d+)% Extreme ([A-C])`)
)

// ExtremeGroup tracks one extreme-vs-extreme combination: the single core
// preference and how many of the weighted (25/50/75%) answers for the same
// combination agree with it.
type ExtremeGroup struct {
	First           int  `json:"first"`
	Second          int  `json:"second"`
	CorePreference  int  `json:"core_preference"` // -1 when the core pair is missing
	WeightedMatches int  `json:"weighted_matches"`
	WeightedTotal   int  `json:"weighted_total"`
}

// ExtremeReport aggregates extreme-vectors choices. Matrix[w][l] counts how
// often extreme w beat extreme l across both core and weighted pairs.
type ExtremeReport struct {
	Matrix         [3][3]int      `json:"matrix"`
	Groups         []ExtremeGroup `json:"groups"`
	Matches        int            `json:"matches"`
	Comparisons    int            `json:"comparisons"`
	ConsistencyPct float64        `json:"consistency_pct"`
}

// ExtremeConsistency builds the preference matrix and scores, per extreme
// combination, whether the interpolated answers match the corner answer.
// Each weighted answer is compared individually; there is no aggregate vote.
func ExtremeConsistency(choices []models.ChoiceRecord) ExtremeReport {
	type groupState struct {
		core     int
		weighted []int // winning index per weighted answer
	}
	groups := map[[2]int]*groupState{}

	var report ExtremeReport
	for _, c := range choices {
		idx1, core1, ok1 := extremeOption(c.Option1Tag, c.Option1Strategy)
		idx2, core2, ok2 := extremeOption(c.Option2Tag, c.Option2Strategy)
		if !ok1 || !ok2 || (c.UserChoice != 1 && c.UserChoice != 2) {
			slog.Warn("skipping unparsable extreme-vectors choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber)
			continue
		}

		winner, loser := idx1, idx2
		if c.UserChoice == 2 {
			winner, loser = idx2, idx1
		}
		if winner < 0 || winner > 2 || loser < 0 || loser > 2 {
			continue
		}
		report.Matrix[winner][loser]++

		key := [2]int{min(idx1, idx2), max(idx1, idx2)}
		st := groups[key]
		if st == nil {
			st = &groupState{core: -1}
			groups[key] = st
		}
		if core1 && core2 {
			st.core = winner
		} else {
			st.weighted = append(st.weighted, winner)
		}
	}

	for _, key := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		st := groups[key]
		if st == nil {
			continue
		}
		g := ExtremeGroup{First: key[0], Second: key[1], CorePreference: st.core}
		for _, w := range st.weighted {
			g.WeightedTotal++
			if st.core >= 0 && w == st.core {
				g.WeightedMatches++
			}
		}
		if st.core >= 0 {
			report.Matches += g.WeightedMatches
			report.Comparisons += g.WeightedTotal
		}
		report.Groups = append(report.Groups, g)
	}
	if report.Comparisons > 0 {
		report.ConsistencyPct = percent(report.Matches, report.Comparisons)
	}
	return report
}

// extremeOption recovers which extreme an option represents and whether it
// is a corner (core) or an interpolation. Tags win; label parsing covers
// legacy rows.
func extremeOption(tag pairgen.Tag, label string) (index int, core bool, ok bool) {
	switch tag.Role {
	case pairgen.RoleExtreme:
		return tag.Index, true, true
	case pairgen.RoleWeightedMix:
		return tag.Index, false, true
	}
	if m := coreLabelRe.FindStringSubmatch(label); m != nil {
		return int(m[1][0] - 'A'), true, true
	}
	if m := weightedLabelRe.FindStringSubmatch(label); m != nil {
		if _, err := strconv.Atoi(m[1]); err != nil {
			return 0, false, false
		}
		return int(m[2][0] - 'A'), false, true
	}
	return 0, false, false
}
