// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// IdentityAsymmetryStrategy tests whether a respondent treats two equally
// funded categories symmetrically. It finds the pair of indices sharing the
// largest equal value >= n (ties broken by the lowest index pair), then for
// step i = 1..n transfers round(value/n * i) between them in both
// directions.
//
// Deterministic given the ideal; the rng is unused.
type IdentityAsymmetryStrategy struct{}

func (s *IdentityAsymmetryStrategy) Name() string { return NameIdentityAsymmetry }

func (s *IdentityAsymmetryStrategy) OptionLabels() [2]string {
	return [2]string{"Favors First Category", "Favors Second Category"}
}

func (s *IdentityAsymmetryStrategy) TableColumns() []Column {
	return []Column{
		{Key: "magnitude", Label: "Transfer Size"},
		{Key: "chosen", Label: "Favored Category"},
	}
}

func (s *IdentityAsymmetryStrategy) RankingBased() bool { return false }

func (s *IdentityAsymmetryStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = defaultPairCount
	}

	i, j, value, ok := largestEqualPair(ideal, n)
	if !ok {
		return nil, fmt.Errorf("%w: %s needs two equal components of at least %d", ErrUnsuitable, s.Name(), n)
	}

	step := float64(value) / float64(n)
	pairs := make([]Pair, 0, n)
	for k := 1; k <= n; k++ {
		magnitude := int(math.Round(step * float64(k)))
		if magnitude < 1 {
			magnitude = 1
		}

		opt1 := ideal.Clone()
		opt1[i] -= magnitude
		opt1[j] += magnitude
		opt2 := ideal.Clone()
		opt2[i] += magnitude
		opt2[j] -= magnitude
		if !opt1.InRange() || !opt2.InRange() {
			return nil, fmt.Errorf("%w: transfer of %d leaves the allocation out of range", ErrInvalidVector, magnitude)
		}

		pairs = append(pairs, Pair{
			Option1:      opt1,
			Option2:      opt2,
			Option1Label: fmt.Sprintf("Favors Category %c (transfer %d)", 'A'+j, magnitude),
			Option2Label: fmt.Sprintf("Favors Category %c (transfer %d)", 'A'+i, magnitude),
			Option1Tag:   Tag{Strategy: s.Name(), Role: RoleFavors, Index: j, Magnitude: magnitude},
			Option2Tag:   Tag{Strategy: s.Name(), Role: RoleFavors, Index: i, Magnitude: magnitude},
			Option1Differences: differences(opt1, ideal),
			Option2Differences: differences(opt2, ideal),
			Metadata:           map[string]float64{"step": step, "magnitude": float64(magnitude)},
			PairNumber:         k,
		})
	}
	return pairs, nil
}

// largestEqualPair scans for index pairs holding the same value >= minValue.
// The largest value wins; among equals the lowest index pair wins (pairs are
// scanned in index order, so only a strictly larger value replaces the
// current best).
func largestEqualPair(v Vector, minValue int) (i, j, value int, ok bool) {
	bestValue := -1
	for a := 0; a < len(v); a++ {
		for b := a + 1; b < len(v); b++ {
			if v[a] == v[b] && v[a] >= minValue && v[a] > bestValue {
				i, j, bestValue = a, b, v[a]
			}
		}
	}
	if bestValue < 0 {
		return 0, 0, 0, false
	}
	return i, j, bestValue, true
}
