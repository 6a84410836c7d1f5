// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

// blendWeights is the fixed blend schedule; 0.5 appears twice so the midpoint
// is probed twice per survey.
var blendWeights = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.5, 0.6, 0.7, 0.8, 0.9}

const weightedAttemptsPerSlot = 100

// WeightedAverageStrategy pairs a fresh random allocation against its blend
// with the respondent's ideal. The blend keeps the sum exact by letting the
// final component absorb rounding error; the Rounded variant additionally
// snaps every component to the 5-grid and repairs the sum on the largest
// component.
type WeightedAverageStrategy struct {
	Rounded bool
}

func (s *WeightedAverageStrategy) Name() string {
	if s.Rounded {
		return NameRoundedWeightedAverage
	}
	return NameWeightedAverage
}

func (s *WeightedAverageStrategy) OptionLabels() [2]string {
	return [2]string{"Weighted Average", "Random Vector"}
}

func (s *WeightedAverageStrategy) TableColumns() []Column {
	return []Column{
		{Key: "weight", Label: "Ideal Weight"},
		{Key: "chosen", Label: "Chosen Option"},
	}
}

func (s *WeightedAverageStrategy) RankingBased() bool { return false }

func (s *WeightedAverageStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(blendWeights))
	pairs := make([]Pair, 0, len(blendWeights))
	for _, w := range blendWeights {
		pair, err := s.buildPair(rng, ideal, w, vectorSize, used)
		if err != nil {
			return nil, err
		}
		pair.PairNumber = len(pairs) + 1
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (s *WeightedAverageStrategy) buildPair(rng *rand.Rand, ideal Vector, w float64, vectorSize int, used map[string]bool) (Pair, error) {
	for attempt := 0; attempt < weightedAttemptsPerSlot; attempt++ {
		random := NewRandomVector(rng, vectorSize)
		blend, ok := s.blend(ideal, random, w)
		if !ok {
			continue
		}
		if blend.Equal(random) {
			continue
		}
		key := pairKey(blend, random)
		if used[key] {
			continue
		}
		used[key] = true

		return Pair{
			Option1:      blend,
			Option2:      random,
			Option1Label: fmt.Sprintf("Weighted Average (%d%% ideal)", int(w*100)),
			Option2Label: "Random Vector",
			Option1Tag:   Tag{Strategy: s.Name(), Role: RoleBlend, Weight: w},
			Option2Tag:   Tag{Strategy: s.Name(), Role: RoleRandom, Weight: w},
			Option1Differences: differences(blend, ideal),
			Option2Differences: differences(random, ideal),
			Metadata:           map[string]float64{"weight": w},
		}, nil
	}
	return Pair{}, fmt.Errorf("%w: %s could not place a valid blend at weight %.1f",
		ErrExhausted, s.Name(), w)
}

// blend mixes w parts ideal with (1-w) parts random. All but the last
// component are rounded; the last is forced to close the sum at exactly
// TotalBudget.
func (s *WeightedAverageStrategy) blend(ideal, random Vector, w float64) (Vector, bool) {
	size := len(ideal)
	out := make(Vector, size)
	sum := 0
	for i := 0; i < size-1; i++ {
		out[i] = roundHalfUp(w*float64(ideal[i]) + (1-w)*float64(random[i]))
		sum += out[i]
	}
	out[size-1] = TotalBudget - sum
	if !out.InRange() {
		return nil, false
	}

	if s.Rounded {
		out = snapToGrid(out)
		if out == nil {
			return nil, false
		}
	}
	return out, true
}

// snapToGrid rounds every component to the nearest multiple of Granularity
// and restores the exact sum by adjusting the maximum-valued component.
func snapToGrid(v Vector) Vector {
	out := make(Vector, len(v))
	sum := 0
	maxIdx := 0
	for i, x := range v {
		out[i] = roundHalfUp(float64(x)/Granularity) * Granularity
		sum += out[i]
		if out[i] > out[maxIdx] {
			maxIdx = i
		}
	}
	out[maxIdx] += TotalBudget - sum
	if !out.InRange() {
		return nil
	}
	return out
}
