// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"fmt"
	"log/slog"
	"strings"

	"allocpoll/models"
)

// transitivityBuckets orders the report output: the corner comparisons first,
// then each interpolation level.
var transitivityBuckets = []string{"core", "25", "50", "75"}

// Preference is one observed pairwise statement: Winner beat Loser.
type Preference struct {
	Winner, Loser int
}

// TransitivityBucket is one comparison bucket with its deduced order, or a
// cycle description when no order fits.
type TransitivityBucket struct {
	Name       string `json:"name"`
	Order      string `json:"order"`
	Transitive bool   `json:"transitive"`
}

// TransitivityReport aggregates order consistency across the four buckets.
// OrderStabilityScore is meaningful only when StabilityKnown is true; it is
// the share of transitive buckets agreeing on the most common order, forced
// to zero when every transitive bucket produced a different order.
type TransitivityReport struct {
	Buckets             []TransitivityBucket `json:"buckets"`
	TransitivityRate    float64              `json:"transitivity_rate"`
	OrderStabilityScore float64              `json:"order_stability_score"`
	StabilityKnown      bool                 `json:"stability_known"`
}

// Transitivity groups extreme-vectors choices into core/25%/50%/75% buckets
// and checks each for a consistent total order over the three extremes.
func Transitivity(choices []models.ChoiceRecord) TransitivityReport {
	prefs := make(map[string][]Preference, len(transitivityBuckets))
	for _, c := range choices {
		idx1, core1, ok1 := extremeOption(c.Option1Tag, c.Option1Strategy)
		idx2, core2, ok2 := extremeOption(c.Option2Tag, c.Option2Strategy)
		if !ok1 || !ok2 || (c.UserChoice != 1 && c.UserChoice != 2) {
			slog.Warn("skipping unparsable extreme-vectors choice",
				"response_id", c.ResponseID, "pair_number", c.PairNumber)
			continue
		}
		bucket := extremeBucketName(c, core1 && core2)
		if bucket == "" {
			continue
		}

		p := Preference{Winner: idx1, Loser: idx2}
		if c.UserChoice == 2 {
			p.Winner, p.Loser = idx2, idx1
		}
		prefs[bucket] = append(prefs[bucket], p)
	}

	var report TransitivityReport
	orderCounts := make(map[string]int)
	transitive := 0
	for _, name := range transitivityBuckets {
		bucketPrefs, seen := prefs[name]
		if !seen {
			continue
		}
		order, ok := DeterminePreferenceOrder(bucketPrefs)
		report.Buckets = append(report.Buckets, TransitivityBucket{Name: name, Order: order, Transitive: ok})
		if ok {
			transitive++
			orderCounts[order]++
		}
	}

	if len(report.Buckets) > 0 {
		report.TransitivityRate = percent(transitive, len(report.Buckets))
	}
	if transitive > 0 {
		report.StabilityKnown = true
		modal := 0
		for _, n := range orderCounts {
			if n > modal {
				modal = n
			}
		}
		if modal == 1 && transitive > 1 {
			// Every transitive bucket disagrees.
			report.OrderStabilityScore = 0
		} else {
			report.OrderStabilityScore = float64(modal) / float64(transitive)
		}
	}
	return report
}

// DeterminePreferenceOrder tries the six orderings of the three extremes and
// returns the first one consistent with every observed pairwise preference,
// e.g. ("A>B>C", true). When no ordering fits, the observed statements form
// a cycle and are returned verbatim, e.g. ("A>B, B>C, C>A", false).
func DeterminePreferenceOrder(prefs []Preference) (string, bool) {
	permutations := [6][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range permutations {
		position := [3]int{}
		for pos, slot := range perm {
			position[slot] = pos
		}
		consistent := true
		for _, p := range prefs {
			if position[p.Winner] >= position[p.Loser] {
				consistent = false
				break
			}
		}
		if consistent {
			return fmt.Sprintf("%c>%c>%c", 'A'+perm[0], 'A'+perm[1], 'A'+perm[2]), true
		}
	}

	statements := make([]string, len(prefs))
	for i, p := range prefs {
		statements[i] = fmt.Sprintf("%c>%c", 'A'+p.Winner, 'A'+p.Loser)
	}
	return strings.Join(statements, ", "), false
}

// extremeBucketName sorts a choice into core or its interpolation level.
func extremeBucketName(c models.ChoiceRecord, core bool) string {
	if core {
		return "core"
	}
	weight := chosenTag(c).Weight
	if weight == 0 {
		if m := weightedLabelRe.FindStringSubmatch(chosenLabel(c)); m != nil {
			return m[1]
		}
		return ""
	}
	return fmt.Sprintf("%.0f", weight*100)
}
