// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

const (
	temporalSubSurveys      = 3
	temporalQuestionsPer    = 4
	temporalBalancedBudget  = 2000
	temporalRandomAttempts  = 200
	temporalBalancedMaxStep = 20
)

// DynamicTemporalStrategy runs three sub-surveys of four questions each.
// Sub-survey 1 pairs the ideal against four unique random allocations.
// Sub-surveys 2 and 3 reuse four "balanced" pairs (B, C) built so that
// (B+C)/2 equals the ideal exactly - B = ideal+d and C = ideal-d for a
// zero-sum d, so the average is exact by construction. Sub-survey 2 holds B
// fixed as the first option; sub-survey 3 holds C fixed.
//
// Balanced deltas are searched on the 5-grid first, then unrestricted.
type DynamicTemporalStrategy struct{}

func (s *DynamicTemporalStrategy) Name() string { return NameDynamicTemporal }

func (s *DynamicTemporalStrategy) OptionLabels() [2]string {
	return [2]string{"Option 1", "Option 2"}
}

func (s *DynamicTemporalStrategy) TableColumns() []Column {
	return []Column{
		{Key: "sub_survey", Label: "Sub-Survey"},
		{Key: "chosen", Label: "Chosen Option"},
	}
}

func (s *DynamicTemporalStrategy) RankingBased() bool { return false }

func (s *DynamicTemporalStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}

	var pairs []Pair

	// Sub-survey 1: ideal vs unique random allocations.
	seen := map[string]bool{ideal.Key(): true}
	for q := 1; q <= temporalQuestionsPer; q++ {
		random, ok := s.drawUniqueRandom(rng, vectorSize, seen)
		if !ok {
			return nil, fmt.Errorf("%w: %s could not draw unique random allocations", ErrExhausted, s.Name())
		}
		pairs = append(pairs, Pair{
			Option1:      ideal.Clone(),
			Option2:      random,
			Option1Label: "Your Ideal Budget",
			Option2Label: "Random Budget",
			Option1Tag:   Tag{Strategy: s.Name(), Role: RoleIdeal, SubSurvey: 1, Group: q},
			Option2Tag:   Tag{Strategy: s.Name(), Role: RoleRandom, SubSurvey: 1, Group: q},
			Option2Differences: differences(random, ideal),
			PairNumber:         len(pairs) + 1,
		})
	}

	// Four balanced pairs shared by sub-surveys 2 and 3.
	deltas, err := s.drawBalancedDeltas(rng, ideal)
	if err != nil {
		return nil, err
	}

	for sub := 2; sub <= temporalSubSurveys; sub++ {
		for q, d := range deltas {
			b := ideal.Add(d)
			c := ideal.Add(negated(d))
			opt1, opt2 := b, c
			pat1, pat2 := "B", "C"
			if sub == 3 {
				opt1, opt2 = c, b
				pat1, pat2 = "C", "B"
			}
			pairs = append(pairs, Pair{
				Option1:      opt1,
				Option2:      opt2,
				Option1Label: fmt.Sprintf("Balanced Option %s (sub-survey %d)", pat1, sub),
				Option2Label: fmt.Sprintf("Balanced Option %s (sub-survey %d)", pat2, sub),
				Option1Tag:   Tag{Strategy: s.Name(), Role: RoleBalanced, Pattern: pat1, SubSurvey: sub, Group: q + 1},
				Option2Tag:   Tag{Strategy: s.Name(), Role: RoleBalanced, Pattern: pat2, SubSurvey: sub, Group: q + 1},
				Option1Differences: differences(opt1, ideal),
				Option2Differences: differences(opt2, ideal),
				PairNumber:         len(pairs) + 1,
			})
		}
	}
	return pairs, nil
}

func (s *DynamicTemporalStrategy) drawUniqueRandom(rng *rand.Rand, vectorSize int, seen map[string]bool) (Vector, bool) {
	for attempt := 0; attempt < temporalRandomAttempts; attempt++ {
		v := NewRandomVector(rng, vectorSize)
		key := v.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		return v, true
	}
	return nil, false
}

// drawBalancedDeltas finds four unique zero-sum deltas with both ideal+d and
// ideal-d in range, preferring the 5-grid and falling back to unrestricted
// integers when the grid search stalls.
func (s *DynamicTemporalStrategy) drawBalancedDeltas(rng *rand.Rand, ideal Vector) ([][]int, error) {
	size := len(ideal)
	seen := make(map[string]bool, temporalQuestionsPer)
	var deltas [][]int

	for _, aligned := range []bool{true, false} {
		for attempt := 0; attempt < temporalBalancedBudget && len(deltas) < temporalQuestionsPer; attempt++ {
			d := make([]int, size)
			sum := 0
			for i := 0; i < size-1; i++ {
				step := rng.IntN(2*temporalBalancedMaxStep+1) - temporalBalancedMaxStep
				if aligned {
					step = (step / Granularity) * Granularity
				}
				d[i] = step
				sum += step
			}
			d[size-1] = -sum

			if isZero(d) {
				continue
			}
			if !ideal.Add(d).InRange() || !ideal.Add(negated(d)).InRange() {
				continue
			}
			// A delta and its negation build the same balanced pair.
			key := sortedPairedKey(d)
			if seen[key] {
				continue
			}
			seen[key] = true
			deltas = append(deltas, d)
		}
		if len(deltas) == temporalQuestionsPer {
			break
		}
	}
	if len(deltas) < temporalQuestionsPer {
		return nil, fmt.Errorf("%w: %s found %d of %d balanced pairs",
			ErrExhausted, s.Name(), len(deltas), temporalQuestionsPer)
	}
	return deltas, nil
}

// sortedPairedKey canonicalizes d and -d to one key.
func sortedPairedKey(d []int) string {
	k1, k2 := diffKey(d), diffKey(negated(d))
	if k2 < k1 {
		return k2
	}
	return k1
}
