// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizationMetricsTradeOff(t *testing.T) {
	strategy := &OptimizationMetricsStrategy{}
	for _, ideal := range []Vector{{60, 25, 15}, {30, 30, 40}, {20, 45, 35}} {
		for seed := uint64(1); seed <= 5; seed++ {
			pairs, err := strategy.GeneratePairs(newTestRng(seed), ideal, 10, 3)
			require.NoError(t, err, "ideal %v seed %d", ideal, seed)
			require.Len(t, pairs, 10)
			checkPairs(t, strategy.Name(), pairs, false)

			for i, p := range pairs {
				// Option 1 wins the sum metric, option 2 the ratio metric,
				// strictly in both directions.
				sum1, sum2 := sumAbsDiff(p.Option1, ideal), sumAbsDiff(p.Option2, ideal)
				ratio1, ratio2 := minRatio(p.Option1, ideal), minRatio(p.Option2, ideal)
				assert.Less(t, sum1, sum2, "pair %d sum dominance", i+1)
				assert.Less(t, ratio1, ratio2, "pair %d ratio dominance", i+1)

				assert.Equal(t, RoleSumOptimized, p.Option1Tag.Role)
				assert.Equal(t, RoleRatioOptimized, p.Option2Tag.Role)
			}
		}
	}
}

func TestOptimizationMetricsIsRankingBased(t *testing.T) {
	strategy := &OptimizationMetricsStrategy{}
	assert.True(t, strategy.RankingBased())
	cols := strategy.TableColumns()
	require.Len(t, cols, 2)
	assert.Equal(t, MetricSumName, cols[0].Label)
	assert.Equal(t, MetricRatioName, cols[1].Label)
}

func TestOptimizationMetricsRejectsZero(t *testing.T) {
	strategy := &OptimizationMetricsStrategy{}
	_, err := strategy.GeneratePairs(newTestRng(1), Vector{95, 5, 0}, 10, 3)
	assert.ErrorIs(t, err, ErrUnsuitable)
}
