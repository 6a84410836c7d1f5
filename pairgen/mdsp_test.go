// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnambiguouslyCloser(t *testing.T) {
	peak := Vector{30, 30, 40}

	cases := []struct {
		near, far Vector
		want      bool
	}{
		// Closer in every dimension.
		{Vector{31, 29, 40}, Vector{35, 25, 40}, true},
		// Equal in one dimension, strictly closer elsewhere.
		{Vector{35, 25, 40}, Vector{35, 24, 41}, true},
		// Deviation flips sign in dimension 0.
		{Vector{28, 32, 40}, Vector{35, 25, 40}, false},
		// Farther in dimension 1.
		{Vector{31, 24, 45}, Vector{35, 27, 38}, false},
		// Identical vectors are not strictly closer.
		{Vector{35, 25, 40}, Vector{35, 25, 40}, false},
		// Near hits the peak exactly while far does not.
		{Vector{30, 30, 40}, Vector{20, 40, 40}, true},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, tc.want, unambiguouslyCloser(tc.near, tc.far, peak))
		})
	}
}

func TestMDSPPairs(t *testing.T) {
	strategy := &MDSPStrategy{}
	ideal := Vector{30, 30, 40}
	pairs, err := strategy.GeneratePairs(newTestRng(51), ideal, 10, 3)
	require.NoError(t, err)
	require.Len(t, pairs, 10)
	checkPairs(t, strategy.Name(), pairs, false)

	for _, p := range pairs {
		assert.True(t, unambiguouslyCloser(p.Option2, p.Option1, ideal),
			"pair %d: option 2 must be unambiguously closer", p.PairNumber)
		farDist := sumAbsDiff(p.Option1, ideal)
		nearDist := sumAbsDiff(p.Option2, ideal)
		assert.Less(t, nearDist, farDist, "pair %d", p.PairNumber)
		assert.Equal(t, float64(farDist), p.Metadata["far_distance"])
		assert.Equal(t, float64(nearDist), p.Metadata["near_distance"])
		assert.Equal(t, RoleFar, p.Option1Tag.Role)
		assert.Equal(t, RoleNear, p.Option2Tag.Role)
	}
}

func TestMDSPUniquePairs(t *testing.T) {
	strategy := &MDSPStrategy{}
	pairs, err := strategy.GeneratePairs(newTestRng(52), Vector{20, 30, 50}, 10, 3)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, p := range pairs {
		key := p.Option1.Key() + "|" + p.Option2.Key()
		assert.False(t, seen[key], "duplicate ordered pair %s", key)
		seen[key] = true
	}
}
