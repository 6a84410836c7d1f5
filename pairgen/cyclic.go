// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

const (
	cyclicGroups        = 4
	cyclicGroupAttempts = 500
	cyclicMaxStep       = 20
)

// CyclicShiftStrategy probes rotational consistency. Each of 4 groups draws a
// zero-sum perturbation pair (diff1, diff2 = a shuffled negation of diff1)
// and emits 3 pairs by applying 0-, 1-, and 2-position right rotations to
// both diffs at once. Within a group, pair k's stored difference vectors are
// exact k-rotations of pair 1's.
//
// The ideal must be zero-free; diffs stay on the 5-grid unless the ideal
// contains a bare 5-unit category, and every rotation of both diffs must
// keep the resulting allocations in range.
type CyclicShiftStrategy struct{}

func (s *CyclicShiftStrategy) Name() string { return NameCyclicShift }

func (s *CyclicShiftStrategy) OptionLabels() [2]string {
	return [2]string{"Pattern A", "Pattern B"}
}

func (s *CyclicShiftStrategy) TableColumns() []Column {
	return []Column{
		{Key: "group", Label: "Group"},
		{Key: "shift", Label: "Shift"},
		{Key: "chosen", Label: "Chosen Pattern"},
	}
}

func (s *CyclicShiftStrategy) RankingBased() bool { return false }

func (s *CyclicShiftStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if vectorSize != 3 {
		return nil, fmt.Errorf("%w: %s is defined for 3 categories, got %d", ErrInvalidVector, s.Name(), vectorSize)
	}
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs a zero-free ideal vector", ErrUnsuitable, s.Name())
	}

	used := make(map[string]bool, cyclicGroups*vectorSize)
	var pairs []Pair
	for group := 1; group <= cyclicGroups; group++ {
		groupPairs, ok := s.buildGroup(rng, ideal, group, used)
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

// buildGroup retries perturbation draws until one survives all three
// rotations: in-range options, no collapsed pair, no duplicate of an earlier
// group's pair.
func (s *CyclicShiftStrategy) buildGroup(rng *rand.Rand, ideal Vector, group int, used map[string]bool) ([]Pair, bool) {
	size := len(ideal)
	for attempt := 0; attempt < cyclicGroupAttempts; attempt++ {
		diff1, diff2, ok := s.drawDiffPair(rng, ideal)
		if !ok {
			continue
		}

		groupPairs := make([]Pair, 0, size)
		keys := make([]string, 0, size)
		valid := true
		for shift := 0; shift < size; shift++ {
			d1 := rotated(diff1, shift)
			d2 := rotated(diff2, shift)
			opt1 := ideal.Add(d1)
			opt2 := ideal.Add(d2)
			if !opt1.InRange() || !opt2.InRange() || opt1.Equal(opt2) {
				valid = false
				break
			}
			key := pairKey(opt1, opt2)
			if used[key] {
				valid = false
				break
			}
			keys = append(keys, key)

			groupPairs = append(groupPairs, Pair{
				Option1:      opt1,
				Option2:      opt2,
				Option1Label: fmt.Sprintf("Cyclic Pattern A (shift %d)", shift),
				Option2Label: fmt.Sprintf("Cyclic Pattern B (shift %d)", shift),
				Option1Tag:   Tag{Strategy: s.Name(), Role: RoleShifted, Pattern: "A", Shift: shift, Group: group},
				Option2Tag:   Tag{Strategy: s.Name(), Role: RoleShifted, Pattern: "B", Shift: shift, Group: group},
				Option1Differences: d1,
				Option2Differences: d2,
			})
		}
		if !valid {
			continue
		}

		for _, key := range keys {
			used[key] = true
		}
		return groupPairs, true
	}
	return nil, false
}

// drawDiffPair samples diff1 (zero-sum, at least one component of magnitude
// >= 5, every rotation in range) and diff2 as a shuffled negation of diff1
// meeting the same rotation constraint.
func (s *CyclicShiftStrategy) drawDiffPair(rng *rand.Rand, ideal Vector) (diff1, diff2 []int, ok bool) {
	size := len(ideal)
	// Diffs stay on the 5-grid unless the ideal already spends a bare 5 on
	// some category, in which case finer steps are allowed.
	snap := !ideal.Contains(Granularity)

	diff1 = make([]int, size)
	sum := 0
	for i := 0; i < size-1; i++ {
		step := rng.IntN(2*cyclicMaxStep+1) - cyclicMaxStep
		if snap {
			step = (step / Granularity) * Granularity
		}
		diff1[i] = step
		sum += step
	}
	diff1[size-1] = -sum

	if !hasMagnitude(diff1, Granularity) {
		return nil, nil, false
	}
	if !allRotationsInRange(ideal, diff1) {
		return nil, nil, false
	}

	diff2 = negated(diff1)
	for shuffle := 0; shuffle < 10; shuffle++ {
		rng.Shuffle(len(diff2), func(a, b int) {
			diff2[a], diff2[b] = diff2[b], diff2[a]
		})
		if diffKey(diff2) == diffKey(diff1) {
			continue
		}
		if allRotationsInRange(ideal, diff2) {
			return diff1, diff2, true
		}
	}
	return nil, nil, false
}

// hasMagnitude reports whether any component's absolute value reaches min.
func hasMagnitude(diff []int, min int) bool {
	for _, x := range diff {
		if x >= min || x <= -min {
			return true
		}
	}
	return false
}

// allRotationsInRange checks ideal plus every rotation of diff stays within
// [0, TotalBudget].
func allRotationsInRange(ideal Vector, diff []int) bool {
	for shift := 0; shift < len(ideal); shift++ {
		if !ideal.Add(rotated(diff, shift)).InRange() {
			return false
		}
	}
	return true
}
