// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// rankingComparisons lists the option index pairs compared inside each
// magnitude/sign cell: A-B, A-C, B-C.
var rankingComparisons = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// PreferenceRankingStrategy derives three options A, B, C per question as
// cyclic rotations of a base difference vector (+2X, -X, -X), at two
// magnitudes X1 = max(1, round(0.2*min)) and X2 = max(1, round(0.4*min)) and
// both signs, and asks all three pairwise comparisons per cell: 4 cells x 3
// comparisons = 12 pairs, numbered 1-12.
//
// Deterministic given the ideal; the rng is unused. Requires a zero-free
// ideal so the magnitudes are meaningful.
type PreferenceRankingStrategy struct{}

func (s *PreferenceRankingStrategy) Name() string { return NamePreferenceRanking }

func (s *PreferenceRankingStrategy) OptionLabels() [2]string {
	return [2]string{"Option 1", "Option 2"}
}

func (s *PreferenceRankingStrategy) TableColumns() []Column {
	return []Column{
		{Key: "magnitude", Label: "Magnitude"},
		{Key: "sign", Label: "Direction"},
		{Key: "chosen", Label: "Chosen Option"},
	}
}

func (s *PreferenceRankingStrategy) RankingBased() bool { return false }

func (s *PreferenceRankingStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if vectorSize != 3 {
		return nil, fmt.Errorf("%w: %s is defined for 3 categories, got %d", ErrInvalidVector, s.Name(), vectorSize)
	}
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs a zero-free ideal vector", ErrUnsuitable, s.Name())
	}

	minValue := ideal[0]
	for _, x := range ideal {
		if x < minValue {
			minValue = x
		}
	}
	x1 := magnitudeFor(minValue, 0.2)
	x2 := magnitudeFor(minValue, 0.4)

	cells := []struct {
		magnitude int
		sign      int
	}{
		{x1, 1}, {x1, -1}, {x2, 1}, {x2, -1},
	}

	var pairs []Pair
	for cellIdx, cell := range cells {
		base := scaled([]int{2 * cell.magnitude, -cell.magnitude, -cell.magnitude}, cell.sign)

		options := make([]Vector, vectorSize)
		for r := 0; r < vectorSize; r++ {
			options[r] = ideal.Add(rotated(base, r))
			if !options[r].InRange() {
				return nil, fmt.Errorf("%w: %s rotation leaves the allocation out of range", ErrUnsuitable, s.Name())
			}
		}

		signChar := "+"
		if cell.sign < 0 {
			signChar = "-"
		}
		for _, cmp := range rankingComparisons {
			a, b := cmp[0], cmp[1]
			pairs = append(pairs, Pair{
				Option1:      options[a],
				Option2:      options[b],
				Option1Label: fmt.Sprintf("Option %c (magnitude %d, %s)", 'A'+a, cell.magnitude, signChar),
				Option2Label: fmt.Sprintf("Option %c (magnitude %d, %s)", 'A'+b, cell.magnitude, signChar),
				Option1Tag: Tag{Strategy: s.Name(), Role: RoleRanked, Index: a,
					Magnitude: cell.magnitude, Sign: cell.sign, Group: cellIdx + 1},
				Option2Tag: Tag{Strategy: s.Name(), Role: RoleRanked, Index: b,
					Magnitude: cell.magnitude, Sign: cell.sign, Group: cellIdx + 1},
				Option1Differences: differences(options[a], ideal),
				Option2Differences: differences(options[b], ideal),
				Metadata:           map[string]float64{"magnitude": float64(cell.magnitude), "sign": float64(cell.sign)},
				PairNumber:         len(pairs) + 1,
			})
		}
	}
	return pairs, nil
}

func magnitudeFor(minValue int, fraction float64) int {
	m := int(math.Round(fraction * float64(minValue)))
	if m < 1 {
		m = 1
	}
	return m
}
