// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

// Descriptive metric names. These appear inside option labels, and the stats
// layer falls back to substring-matching them for records stored before
// structured tags existed.
const (
	MetricSumName   = "Sum of Differences"
	MetricRatioName = "Minimal Ratio"
)

const (
	optimizationBasePool = 60
	optimizationAttempts = 3
	defaultPairCount     = 10
)

// OptimizationMetricsStrategy samples a pool of random allocations and keeps
// only pairs that force a genuine trade-off: one option strictly better on
// total change (lower sum of absolute differences from the ideal) and
// strictly worse on balance (lower minimal component ratio), and vice versa.
//
// The pool grows with each attempt; after optimizationAttempts failed rounds
// the search gives up with ErrExhausted rather than returning fewer pairs.
type OptimizationMetricsStrategy struct{}

func (s *OptimizationMetricsStrategy) Name() string { return NameOptimizationMetrics }

func (s *OptimizationMetricsStrategy) OptionLabels() [2]string {
	return [2]string{"Best " + MetricSumName, "Best " + MetricRatioName}
}

func (s *OptimizationMetricsStrategy) TableColumns() []Column {
	return []Column{
		{Key: "sum", Label: MetricSumName},
		{Key: "ratio", Label: MetricRatioName},
	}
}

func (s *OptimizationMetricsStrategy) RankingBased() bool { return true }

func (s *OptimizationMetricsStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs strictly positive components for the ratio metric", ErrUnsuitable, s.Name())
	}
	if n <= 0 {
		n = defaultPairCount
	}

	for attempt := 1; attempt <= optimizationAttempts; attempt++ {
		pool := NewVectorPool(rng, optimizationBasePool*attempt, vectorSize)
		pairs := s.collect(rng, pool, ideal, n)
		if len(pairs) == n {
			return pairs, nil
		}
	}
	return nil, fmt.Errorf("%w: %s found too few trade-off pairs after %d attempts",
		ErrExhausted, s.Name(), optimizationAttempts)
}

// collect scans candidate pairs from the pool in random order and keeps
// trade-off pairs until n are found or the pool is spent.
func (s *OptimizationMetricsStrategy) collect(rng *rand.Rand, pool []Vector, ideal Vector, n int) []Pair {
	type candidate struct{ i, j int }
	candidates := make([]candidate, 0, len(pool)*(len(pool)-1)/2)
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			candidates = append(candidates, candidate{i, j})
		}
	}
	rng.Shuffle(len(candidates), func(a, b int) {
		candidates[a], candidates[b] = candidates[b], candidates[a]
	})

	used := make(map[string]bool, n)
	pairs := make([]Pair, 0, n)
	for _, c := range candidates {
		if len(pairs) == n {
			break
		}
		a, b := pool[c.i], pool[c.j]

		sumA, sumB := sumAbsDiff(a, ideal), sumAbsDiff(b, ideal)
		ratioA, ratioB := minRatio(a, ideal), minRatio(b, ideal)

		// A trade-off requires strict dominance in one metric each.
		var bySum, byRatio Vector
		var sumScore int
		var ratioScore float64
		switch {
		case sumA < sumB && ratioA < ratioB:
			bySum, byRatio = a, b
			sumScore, ratioScore = sumA, ratioB
		case sumB < sumA && ratioB < ratioA:
			bySum, byRatio = b, a
			sumScore, ratioScore = sumB, ratioA
		default:
			continue
		}

		key := pairKey(bySum, byRatio)
		if used[key] {
			continue
		}
		used[key] = true

		pairs = append(pairs, Pair{
			Option1:      bySum,
			Option2:      byRatio,
			Option1Label: "Best " + MetricSumName,
			Option2Label: "Best " + MetricRatioName,
			Option1Tag:   Tag{Strategy: s.Name(), Role: RoleSumOptimized},
			Option2Tag:   Tag{Strategy: s.Name(), Role: RoleRatioOptimized},
			Option1Differences: differences(bySum, ideal),
			Option2Differences: differences(byRatio, ideal),
			Metadata: map[string]float64{
				"sum_score":   float64(sumScore),
				"ratio_score": ratioScore,
			},
			PairNumber: len(pairs) + 1,
		})
	}
	return pairs
}
