// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

// extremeBlendWeights are the interpolation points between the ideal and each
// corner vector.
var extremeBlendWeights = []float64{0.25, 0.5, 0.75}

// ExtremeVectorsStrategy compares "corner" allocations (one dominant
// category, the rest pinned at 10) against each other, then compares
// interpolations of the ideal toward each corner at matching weights. The
// weighted pairs test whether corner preferences survive interpolation.
//
// For 3 categories this yields C(3,2) = 3 corner pairs plus 3 weights x 3
// combinations = 9 weighted pairs, 12 in total. Generation is fully
// deterministic; the rng is unused.
type ExtremeVectorsStrategy struct{}

func (s *ExtremeVectorsStrategy) Name() string { return NameExtremeVectors }

func (s *ExtremeVectorsStrategy) OptionLabels() [2]string {
	return [2]string{"Option 1", "Option 2"}
}

func (s *ExtremeVectorsStrategy) TableColumns() []Column {
	return []Column{
		{Key: "group", Label: "Comparison"},
		{Key: "weight", Label: "Blend Weight"},
		{Key: "chosen", Label: "Chosen Vector"},
	}
}

func (s *ExtremeVectorsStrategy) RankingBased() bool { return false }

// ExtremeVector returns the corner allocation for the given category index:
// the index gets TotalBudget - 10*(size-1), every other category gets 10.
func ExtremeVector(index, size int) Vector {
	v := make(Vector, size)
	for i := range v {
		v[i] = 10
	}
	v[index] = TotalBudget - 10*(size-1)
	return v
}

func (s *ExtremeVectorsStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if TotalBudget-10*(vectorSize-1) <= 10 {
		return nil, fmt.Errorf("%w: no dominant corner exists for %d categories", ErrUnsuitable, vectorSize)
	}

	extremes := make([]Vector, vectorSize)
	for i := range extremes {
		extremes[i] = ExtremeVector(i, vectorSize)
	}

	var pairs []Pair

	// Corner vs corner.
	for i := 0; i < vectorSize; i++ {
		for j := i + 1; j < vectorSize; j++ {
			pairs = append(pairs, Pair{
				Option1:      extremes[i],
				Option2:      extremes[j],
				Option1Label: fmt.Sprintf("Extreme Vector %c", 'A'+i),
				Option2Label: fmt.Sprintf("Extreme Vector %c", 'A'+j),
				Option1Tag:   Tag{Strategy: s.Name(), Role: RoleExtreme, Index: i},
				Option2Tag:   Tag{Strategy: s.Name(), Role: RoleExtreme, Index: j},
				PairNumber:   len(pairs) + 1,
			})
		}
	}

	// Matching-weight interpolations across different corners.
	for _, w := range extremeBlendWeights {
		blends := make([]Vector, vectorSize)
		for i := range blends {
			blends[i] = blendToward(ideal, extremes[i], w)
		}
		for i := 0; i < vectorSize; i++ {
			for j := i + 1; j < vectorSize; j++ {
				pairs = append(pairs, Pair{
					Option1:      blends[i],
					Option2:      blends[j],
					Option1Label: fmt.Sprintf("Weighted %d%% Extreme %c", int(w*100), 'A'+i),
					Option2Label: fmt.Sprintf("Weighted %d%% Extreme %c", int(w*100), 'A'+j),
					Option1Tag:   Tag{Strategy: s.Name(), Role: RoleWeightedMix, Index: i, Weight: w},
					Option2Tag:   Tag{Strategy: s.Name(), Role: RoleWeightedMix, Index: j, Weight: w},
					Option1Differences: differences(blends[i], ideal),
					Option2Differences: differences(blends[j], ideal),
					Metadata:           map[string]float64{"weight": w},
					PairNumber:         len(pairs) + 1,
				})
			}
		}
	}

	return pairs, nil
}

// blendToward interpolates w parts extreme with (1-w) parts ideal, closing
// the sum on the final component.
func blendToward(ideal, extreme Vector, w float64) Vector {
	size := len(ideal)
	out := make(Vector, size)
	sum := 0
	for i := 0; i < size-1; i++ {
		out[i] = roundHalfUp(w*float64(extreme[i]) + (1-w)*float64(ideal[i]))
		sum += out[i]
	}
	out[size-1] = TotalBudget - sum
	return out
}
