// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

const (
	linearGroups        = 6
	linearGroupAttempts = 2000
	linearMaxStep       = 20
)

// LinearSymmetryStrategy probes mirror consistency. Each of 6 groups draws
// two zero-sum distance vectors v1 and v2, both survivable in either
// direction from the ideal, and emits the positive pair
// (ideal+v1, ideal+v2) and the negative pair (ideal-v1, ideal-v2).
//
// Uniqueness is tracked by the distance-vector combination rather than the
// resulting allocations, preserving the designed +/- symmetry. Distance
// vectors whose sorted absolute values coincide (one a permutation or
// sign-flip of the other) are rejected as trivially symmetric.
type LinearSymmetryStrategy struct{}

func (s *LinearSymmetryStrategy) Name() string { return NameLinearSymmetry }

func (s *LinearSymmetryStrategy) OptionLabels() [2]string {
	return [2]string{"Vector v", "Vector w"}
}

func (s *LinearSymmetryStrategy) TableColumns() []Column {
	return []Column{
		{Key: "group", Label: "Group"},
		{Key: "sign", Label: "Direction"},
		{Key: "chosen", Label: "Chosen Vector"},
	}
}

func (s *LinearSymmetryStrategy) RankingBased() bool { return false }

func (s *LinearSymmetryStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if vectorSize != 3 {
		return nil, fmt.Errorf("%w: %s is defined for 3 categories, got %d", ErrInvalidVector, s.Name(), vectorSize)
	}
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs a zero-free ideal vector", ErrUnsuitable, s.Name())
	}

	usedCombos := make(map[string]bool, linearGroups)
	usedPairs := make(map[string]bool, linearGroups*2)
	var pairs []Pair
	for group := 1; group <= linearGroups; group++ {
		groupPairs, ok := s.buildGroup(rng, ideal, group, usedCombos, usedPairs)
		if !ok {
			return nil, fmt.Errorf("%w: %s could not assemble 12 unique pairs", ErrExhausted, s.Name())
		}
		for i := range groupPairs {
			groupPairs[i].PairNumber = len(pairs) + i + 1
		}
		pairs = append(pairs, groupPairs...)
	}
	return pairs, nil
}

func (s *LinearSymmetryStrategy) buildGroup(rng *rand.Rand, ideal Vector, group int, usedCombos, usedPairs map[string]bool) ([]Pair, bool) {
	for attempt := 0; attempt < linearGroupAttempts; attempt++ {
		v1, ok := s.drawDistance(rng, ideal)
		if !ok {
			continue
		}
		v2, ok := s.drawDistance(rng, ideal)
		if !ok {
			continue
		}
		if diffKey(v1) == diffKey(v2) {
			continue
		}
		// A permutation/sign-flip of v1 would make the +/- pair trivially
		// symmetric.
		if sortedAbsKey(v1) == sortedAbsKey(v2) {
			continue
		}

		combo := comboKey(v1, v2)
		if usedCombos[combo] {
			continue
		}

		groupPairs := make([]Pair, 0, 2)
		keys := make([]string, 0, 2)
		valid := true
		for _, sign := range []int{1, -1} {
			opt1 := ideal.Add(scaled(v1, sign))
			opt2 := ideal.Add(scaled(v2, sign))
			if opt1.Equal(opt2) {
				valid = false
				break
			}
			key := pairKey(opt1, opt2)
			if usedPairs[key] {
				valid = false
				break
			}
			keys = append(keys, key)

			signChar := "+"
			if sign < 0 {
				signChar = "-"
			}
			groupPairs = append(groupPairs, Pair{
				Option1:      opt1,
				Option2:      opt2,
				Option1Label: fmt.Sprintf("Linear Pattern %s v%d", signChar, group),
				Option2Label: fmt.Sprintf("Linear Pattern %s w%d", signChar, group),
				Option1Tag:   Tag{Strategy: s.Name(), Role: RoleSymmetric, Pattern: "v", Sign: sign, Group: group},
				Option2Tag:   Tag{Strategy: s.Name(), Role: RoleSymmetric, Pattern: "w", Sign: sign, Group: group},
				Option1Differences: scaled(v1, sign),
				Option2Differences: scaled(v2, sign),
			})
		}
		if !valid {
			continue
		}

		usedCombos[combo] = true
		for _, key := range keys {
			usedPairs[key] = true
		}
		return groupPairs, true
	}
	return nil, false
}

// drawDistance samples a nonzero zero-sum vector v with both ideal+v and
// ideal-v in range.
func (s *LinearSymmetryStrategy) drawDistance(rng *rand.Rand, ideal Vector) ([]int, bool) {
	size := len(ideal)
	snap := !ideal.Contains(Granularity)

	v := make([]int, size)
	sum := 0
	for i := 0; i < size-1; i++ {
		step := rng.IntN(2*linearMaxStep+1) - linearMaxStep
		if snap {
			step = (step / Granularity) * Granularity
		}
		v[i] = step
		sum += step
	}
	v[size-1] = -sum

	if isZero(v) {
		return nil, false
	}
	if !ideal.Add(v).InRange() || !ideal.Add(negated(v)).InRange() {
		return nil, false
	}
	return v, true
}

// comboKey canonicalizes an unordered distance-vector combination.
func comboKey(v1, v2 []int) string {
	k1, k2 := diffKey(v1), diffKey(v2)
	if k2 < k1 {
		k1, k2 = k2, k1
	}
	return k1 + "|" + k2
}

func isZero(v []int) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
