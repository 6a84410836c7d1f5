// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleInequalityDecomposition(t *testing.T) {
	strategy := &TriangleInequalityStrategy{}
	ideal := Vector{60, 25, 15}
	pairs, err := strategy.GeneratePairs(newTestRng(31), ideal, 0, 3)
	require.NoError(t, err)
	require.Len(t, pairs, 12)
	checkPairs(t, strategy.Name(), pairs, false)

	for i, p := range pairs {
		require.True(t, p.IsBiennial, "pair %d must be biennial", i+1)
		require.Len(t, p.Option1, 6)
		require.Len(t, p.Option2, 6)

		// Concentrated: year one is the untouched ideal.
		assert.Equal(t, ideal, p.Option1[:3], "pair %d concentrated year 1", i+1)

		// q = (concentrated year 2) - ideal must equal q1 + q2 recovered
		// from the distributed option, with neither part zero.
		q := differences(p.Option1[3:], ideal)
		q1 := differences(p.Option2[:3], ideal)
		q2 := differences(p.Option2[3:], ideal)
		for j := range q {
			assert.Equal(t, q[j], q1[j]+q2[j], "pair %d: q != q1+q2 at %d", i+1, j)
		}
		assert.False(t, isZero(q1), "pair %d has a zero q1", i+1)
		assert.False(t, isZero(q2), "pair %d has a zero q2", i+1)

		assert.Equal(t, RoleConcentrated, p.Option1Tag.Role)
		assert.Equal(t, RoleDistributed, p.Option2Tag.Role)
	}

	// 2 bases x 3 rotations x 2 signs.
	counts := make(map[[3]int]int)
	for _, p := range pairs {
		counts[[3]int{p.Option1Tag.Group, p.Option1Tag.Shift, p.Option1Tag.Sign}]++
	}
	assert.Len(t, counts, 12, "every (base, shift, sign) combination appears exactly once")
}

func TestTriangleInequalitySignMirror(t *testing.T) {
	strategy := &TriangleInequalityStrategy{}
	ideal := Vector{30, 30, 40}
	pairs, err := strategy.GeneratePairs(newTestRng(32), ideal, 0, 3)
	require.NoError(t, err)

	// Index pairs by (group, shift, sign) for cross-checks.
	byKey := make(map[[3]int]Pair)
	for _, p := range pairs {
		byKey[[3]int{p.Option1Tag.Group, p.Option1Tag.Shift, p.Option1Tag.Sign}] = p
	}
	for group := 1; group <= 2; group++ {
		for shift := 0; shift < 3; shift++ {
			plus, okP := byKey[[3]int{group, shift, 1}]
			minus, okM := byKey[[3]int{group, shift, -1}]
			require.True(t, okP && okM)
			qPlus := differences(plus.Option1[3:], ideal)
			qMinus := differences(minus.Option1[3:], ideal)
			assert.Equal(t, negated(qPlus), qMinus)
		}
	}
}

func TestTriangleInequalityUnsuitable(t *testing.T) {
	strategy := &TriangleInequalityStrategy{}
	_, err := strategy.GeneratePairs(newTestRng(33), Vector{50, 50, 0}, 0, 3)
	assert.ErrorIs(t, err, ErrUnsuitable)
}
