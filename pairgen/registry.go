// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"sort"
)

// Registry keys for the built-in strategies.
const (
	NameOptimizationMetrics    = "optimization_metrics"
	NameWeightedAverage        = "weighted_average_vector"
	NameRoundedWeightedAverage = "rounded_weighted_average_vector"
	NameExtremeVectors         = "extreme_vectors"
	NameCyclicShift            = "cyclic_shift"
	NameLinearSymmetry         = "linear_symmetry"
	NameTriangleInequality     = "triangle_inequality"
	NameIdentityAsymmetry      = "identity_asymmetry"
	NameMDSP                   = "mdsp"
	NamePreferenceRanking      = "preference_ranking"
	NameDynamicTemporal        = "dynamic_temporal"
	NameAsymmetricLoss         = "asymmetric_loss"
)

// builtin maps strategy names to constructors. Populated once here and never
// mutated afterwards; every Lookup returns a fresh instance.
var builtin = map[string]func() Strategy{
	NameOptimizationMetrics:    func() Strategy { return &OptimizationMetricsStrategy{} },
	NameWeightedAverage:        func() Strategy { return &WeightedAverageStrategy{} },
	NameRoundedWeightedAverage: func() Strategy { return &WeightedAverageStrategy{Rounded: true} },
	NameExtremeVectors:         func() Strategy { return &ExtremeVectorsStrategy{} },
	NameCyclicShift:            func() Strategy { return &CyclicShiftStrategy{} },
	NameLinearSymmetry:         func() Strategy { return &LinearSymmetryStrategy{} },
	NameTriangleInequality:     func() Strategy { return &TriangleInequalityStrategy{} },
	NameIdentityAsymmetry:      func() Strategy { return &IdentityAsymmetryStrategy{} },
	NameMDSP:                   func() Strategy { return &MDSPStrategy{} },
	NamePreferenceRanking:      func() Strategy { return &PreferenceRankingStrategy{} },
	NameDynamicTemporal:        func() Strategy { return &DynamicTemporalStrategy{} },
	NameAsymmetricLoss:         func() Strategy { return &AsymmetricLossStrategy{} },
}

// Lookup resolves a strategy name to a fresh instance.
func Lookup(name string) (Strategy, error) {
	ctor, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return ctor(), nil
}

// Names returns all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
