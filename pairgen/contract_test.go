// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allUserVectors enumerates every zero-free 3-element user vector on the
// 5-grid: components in {5,...,90} summing to 100. There are 171 of them.
func allUserVectors() []Vector {
	var vectors []Vector
	for a := 5; a <= 90; a += 5 {
		for b := 5; a+b <= 95; b += 5 {
			c := TotalBudget - a - b
			if c >= 5 {
				vectors = append(vectors, Vector{a, b, c})
			}
		}
	}
	return vectors
}

func TestAllUserVectorsCount(t *testing.T) {
	assert.Len(t, allUserVectors(), 171)
}

// checkPairs asserts the structural contract shared by every strategy:
// options sum to 100 per year, stay in range, carry labels and tags, and (by
// default) no pair repeats within the call by canonical sorted vector pair.
func checkPairs(t *testing.T, strategyName string, pairs []Pair, allowCross bool) {
	t.Helper()
	seen := make(map[string]bool)
	for idx, p := range pairs {
		require.Equal(t, idx+1, p.PairNumber, "%s: pair numbers must be 1-based and sequential", strategyName)
		for side, opt := range []Vector{p.Option1, p.Option2} {
			years := 1
			if p.IsBiennial {
				years = 2
			}
			require.Len(t, opt, 3*years, "%s pair %d option %d", strategyName, idx+1, side+1)
			for y := 0; y < years; y++ {
				year := opt[y*3 : (y+1)*3]
				assert.Equal(t, TotalBudget, year.Sum(),
					"%s pair %d option %d year %d sum", strategyName, idx+1, side+1, y+1)
			}
			assert.True(t, opt.InRange(), "%s pair %d option %d out of range: %v", strategyName, idx+1, side+1, opt)
		}
		assert.NotEmpty(t, p.Option1Label)
		assert.NotEmpty(t, p.Option2Label)
		assert.Equal(t, strategyName, p.Option1Tag.Strategy)
		assert.Equal(t, strategyName, p.Option2Tag.Strategy)
		assert.False(t, p.Option1.Equal(p.Option2), "%s pair %d options collapsed", strategyName, idx+1)

		if !allowCross {
			key := pairKey(p.Option1, p.Option2)
			assert.False(t, seen[key], "%s pair %d duplicates an earlier pair", strategyName, idx+1)
			seen[key] = true
		}
	}
}

// TestStrategySweep runs the strategies that must succeed for every zero-free
// user vector across all 171 of them.
func TestStrategySweep(t *testing.T) {
	sweep := []struct {
		name       string
		count      int
		allowCross bool // dynamic temporal reuses balanced pairs across sub-surveys
	}{
		{NameWeightedAverage, 10, false},
		{NameRoundedWeightedAverage, 10, false},
		{NameExtremeVectors, 12, false},
		{NameCyclicShift, 12, false},
		{NamePreferenceRanking, 12, false},
		{NameDynamicTemporal, 12, true},
		{NameAsymmetricLoss, 12, false},
	}

	for _, tc := range sweep {
		t.Run(tc.name, func(t *testing.T) {
			strategy, err := Lookup(tc.name)
			require.NoError(t, err)
			for i, ideal := range allUserVectors() {
				rng := newTestRng(uint64(1000 + i))
				pairs, err := strategy.GeneratePairs(rng, ideal, 0, 3)
				require.NoError(t, err, "%s failed for ideal %v", tc.name, ideal)
				require.Len(t, pairs, tc.count, "%s count for ideal %v", tc.name, ideal)
				checkPairs(t, tc.name, pairs, tc.allowCross)
			}
		})
	}
}

// TestStrategySweepModerate covers the strategies whose constructions need
// headroom around every component.
func TestStrategySweepModerate(t *testing.T) {
	moderate := func() []Vector {
		var out []Vector
		for _, v := range allUserVectors() {
			min, max := v[0], v[0]
			for _, x := range v {
				if x < min {
					min = x
				}
				if x > max {
					max = x
				}
			}
			if min >= 15 && max <= 70 {
				out = append(out, v)
			}
		}
		return out
	}()
	require.NotEmpty(t, moderate)

	for _, name := range []string{NameLinearSymmetry, NameTriangleInequality} {
		t.Run(name, func(t *testing.T) {
			strategy, err := Lookup(name)
			require.NoError(t, err)
			for i, ideal := range moderate {
				rng := newTestRng(uint64(2000 + i))
				pairs, err := strategy.GeneratePairs(rng, ideal, 0, 3)
				require.NoError(t, err, "%s failed for ideal %v", name, ideal)
				require.Len(t, pairs, 12)
				checkPairs(t, name, pairs, false)
			}
		})
	}
}

func TestStrategiesRejectMalformedInput(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			strategy, err := Lookup(name)
			require.NoError(t, err)
			rng := newTestRng(7)

			_, err = strategy.GeneratePairs(rng, Vector{60, 40}, 0, 3)
			assert.ErrorIs(t, err, ErrInvalidVector, "wrong length")

			_, err = strategy.GeneratePairs(rng, Vector{60, 25, 10}, 0, 3)
			assert.ErrorIs(t, err, ErrInvalidVector, "wrong sum")

			_, err = strategy.GeneratePairs(rng, Vector{61, 24, 15}, 0, 3)
			assert.ErrorIs(t, err, ErrInvalidVector, "off the 5-grid")
		})
	}
}

func TestZeroFreeStrategiesRejectZeros(t *testing.T) {
	withZero := Vector{50, 50, 0}
	for _, name := range []string{
		NameOptimizationMetrics,
		NameCyclicShift,
		NameLinearSymmetry,
		NameTriangleInequality,
		NamePreferenceRanking,
		NameAsymmetricLoss,
	} {
		t.Run(name, func(t *testing.T) {
			strategy, err := Lookup(name)
			require.NoError(t, err)
			_, err = strategy.GeneratePairs(newTestRng(8), withZero, 0, 3)
			assert.ErrorIs(t, err, ErrUnsuitable)
		})
	}
}

func TestStochasticStrategiesAreSeedDeterministic(t *testing.T) {
	ideal := Vector{60, 25, 15}
	for _, name := range []string{NameCyclicShift, NameMDSP, NameWeightedAverage} {
		t.Run(name, func(t *testing.T) {
			strategy, err := Lookup(name)
			require.NoError(t, err)
			first, err := strategy.GeneratePairs(newTestRng(99), ideal, 10, 3)
			require.NoError(t, err)
			second, err := strategy.GeneratePairs(newTestRng(99), ideal, 10, 3)
			require.NoError(t, err)
			require.Equal(t, fmt.Sprint(first), fmt.Sprint(second))
		})
	}
}
