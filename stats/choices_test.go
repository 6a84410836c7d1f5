// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocpoll/models"
	"allocpoll/pairgen"
)

func TestOptionPercentages(t *testing.T) {
	choices := []models.ChoiceRecord{
		{UserChoice: 1}, {UserChoice: 1}, {UserChoice: 2},
		{UserChoice: 0}, // malformed, skipped
	}
	s := OptionPercentages(choices)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Option1)
	assert.Equal(t, 1, s.Option2)
	assert.InDelta(t, 66.67, s.Option1Pct, 0.01)
	assert.InDelta(t, 33.33, s.Option2Pct, 0.01)
}

func TestOptionPercentagesEmpty(t *testing.T) {
	s := OptionPercentages(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.Option1Pct)
}

func TestMetricPercentagesPrecedence(t *testing.T) {
	choices := []models.ChoiceRecord{
		// Tag wins even when the label says otherwise.
		{
			UserChoice:      1,
			Option1Tag:      pairgen.Tag{Strategy: pairgen.NameOptimizationMetrics, Role: pairgen.RoleRatioOptimized},
			Option1Strategy: "Best " + pairgen.MetricSumName,
		},
		// No tag: the label substring decides.
		{
			UserChoice:      2,
			Option2Strategy: "Best " + pairgen.MetricSumName,
		},
		// No tag, no recognizable label: position decides (option 1 = A).
		{
			UserChoice:      1,
			Option1Strategy: "something else",
		},
		{
			UserChoice:      2,
			Option2Strategy: "something else",
		},
	}
	s := MetricPercentages(choices)
	assert.Equal(t, 4, s.Total)
	// ratio(tag) + sum(label) + sum(position 1) + ratio(position 2)
	assert.Equal(t, 2, s.MetricA)
	assert.Equal(t, 2, s.MetricB)
	assert.Equal(t, 50.0, s.MetricAPct)
}

func TestIsSumOptimized(t *testing.T) {
	optimal := pairgen.Vector{30, 30, 40}
	near := pairgen.Vector{30, 35, 35} // distance 10
	far := pairgen.Vector{10, 50, 40}  // distance 40

	got, ok := IsSumOptimized(optimal, near, far, 1)
	require.True(t, ok)
	assert.True(t, got)

	got, ok = IsSumOptimized(optimal, near, far, 2)
	require.True(t, ok)
	assert.False(t, got)

	// Swapping options and choice together preserves the answer.
	direct, ok := IsSumOptimized(optimal, near, far, 1)
	require.True(t, ok)
	mirror, ok := IsSumOptimized(optimal, far, near, 2)
	require.True(t, ok)
	assert.Equal(t, direct, mirror)
}

func TestIsSumOptimizedAmbiguous(t *testing.T) {
	optimal := pairgen.Vector{30, 30, 40}
	a := pairgen.Vector{25, 35, 40}
	b := pairgen.Vector{35, 25, 40} // same distance as a

	_, ok := IsSumOptimized(optimal, a, b, 1)
	assert.False(t, ok)

	_, ok = IsSumOptimized(optimal, a, b, 3)
	assert.False(t, ok, "invalid choice is never resolvable")
}
