// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x5eed))
}

func TestNewRandomVector(t *testing.T) {
	rng := newTestRng(1)
	for i := 0; i < 500; i++ {
		v := NewRandomVector(rng, 3)
		require.Len(t, v, 3)
		assert.Equal(t, TotalBudget, v.Sum())
		assert.True(t, v.InRange())
		assert.True(t, v.Aligned(), "vector %v not on the 5-grid", v)
	}
}

func TestNewRandomVectorOtherSizes(t *testing.T) {
	rng := newTestRng(2)
	for _, size := range []int{2, 4, 6} {
		for i := 0; i < 100; i++ {
			v := NewRandomVector(rng, size)
			require.Len(t, v, size)
			assert.Equal(t, TotalBudget, v.Sum())
			assert.True(t, v.Aligned())
		}
	}
}

func TestNewUnrestrictedVector(t *testing.T) {
	rng := newTestRng(3)
	sawUnaligned := false
	for i := 0; i < 500; i++ {
		v := NewUnrestrictedVector(rng, 3)
		require.Len(t, v, 3)
		assert.Equal(t, TotalBudget, v.Sum())
		assert.True(t, v.InRange())
		if !v.Aligned() {
			sawUnaligned = true
		}
	}
	assert.True(t, sawUnaligned, "unrestricted vectors should leave the 5-grid")
}

func TestNewVectorPool(t *testing.T) {
	rng := newTestRng(4)
	pool := NewVectorPool(rng, 50, 3)
	assert.Len(t, pool, 50)

	seen := make(map[string]bool)
	for _, v := range pool {
		require.Equal(t, TotalBudget, v.Sum())
		key := v.Key()
		assert.False(t, seen[key], "duplicate vector %v in pool", v)
		seen[key] = true
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		vector Vector
		size   int
		ok     bool
	}{
		{"valid", Vector{60, 25, 15}, 3, true},
		{"valid with zero", Vector{50, 50, 0}, 3, true},
		{"wrong length", Vector{60, 40}, 3, false},
		{"sum too low", Vector{60, 25, 10}, 3, false},
		{"sum too high", Vector{60, 25, 20}, 3, false},
		{"negative component", Vector{110, -5, -5}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.vector, tt.size)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidVector)
			}
		})
	}
}

func TestValidateUserVector(t *testing.T) {
	assert.NoError(t, ValidateUserVector(Vector{60, 25, 15}, 3))
	assert.ErrorIs(t, ValidateUserVector(Vector{61, 24, 15}, 3), ErrInvalidVector)
}

func TestRotated(t *testing.T) {
	v := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2, 3}, rotated(v, 0))
	assert.Equal(t, []int{3, 1, 2}, rotated(v, 1))
	assert.Equal(t, []int{2, 3, 1}, rotated(v, 2))
	assert.Equal(t, []int{1, 2, 3}, rotated(v, 3))
}

func TestSortedAbsKey(t *testing.T) {
	assert.Equal(t, sortedAbsKey([]int{5, -10, 5}), sortedAbsKey([]int{-5, 10, -5}))
	assert.NotEqual(t, sortedAbsKey([]int{5, -5, 0}), sortedAbsKey([]int{10, -5, -5}))
}

func TestPairKeyCanonical(t *testing.T) {
	a := Vector{60, 25, 15}
	b := Vector{10, 80, 10}
	assert.Equal(t, pairKey(a, b), pairKey(b, a))
}
