// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const asymmetricLevels = 4

// AsymmetricLossStrategy contrasts concentrating a loss on one target
// category against spreading the equivalent gain. For each of the 3 targets
// and 4 magnitude levels (base unit = max(1, round(min/10)), levels
// base*1..base*4) it first tries a Type A pair: (target -2x, others +x each)
// vs (target +2x, others -x each). When Type A leaves an allocation out of
// range it falls back to the Type B table: the loss shrinks to x and the
// counterweight splits across the other two categories, rotated to the
// target index.
//
// Deterministic given the ideal; the rng is unused. Requires a zero-free
// ideal.
type AsymmetricLossStrategy struct{}

func (s *AsymmetricLossStrategy) Name() string { return NameAsymmetricLoss }

func (s *AsymmetricLossStrategy) OptionLabels() [2]string {
	return [2]string{"Target Loses", "Target Gains"}
}

func (s *AsymmetricLossStrategy) TableColumns() []Column {
	return []Column{
		{Key: "target", Label: "Target Category"},
		{Key: "magnitude", Label: "Magnitude"},
		{Key: "chosen", Label: "Chosen Direction"},
	}
}

func (s *AsymmetricLossStrategy) RankingBased() bool { return false }

func (s *AsymmetricLossStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if vectorSize != 3 {
		return nil, fmt.Errorf("%w: %s is defined for 3 categories, got %d", ErrInvalidVector, s.Name(), vectorSize)
	}
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs a zero-free ideal vector", ErrUnsuitable, s.Name())
	}

	minValue := ideal[0]
	for _, x := range ideal {
		if x < minValue {
			minValue = x
		}
	}
	baseUnit := int(math.Round(float64(minValue) / 10))
	if baseUnit < 1 {
		baseUnit = 1
	}

	var pairs []Pair
	for target := 0; target < vectorSize; target++ {
		for level := 1; level <= asymmetricLevels; level++ {
			x := baseUnit * level

			opt1, opt2, variant, ok := s.buildOptions(ideal, target, x)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no in-range pair for target %d at magnitude %d",
					ErrUnsuitable, s.Name(), target, x)
			}

			pairs = append(pairs, Pair{
				Option1:      opt1,
				Option2:      opt2,
				Option1Label: fmt.Sprintf("Category %c Loses (magnitude %d)", 'A'+target, x),
				Option2Label: fmt.Sprintf("Category %c Gains (magnitude %d)", 'A'+target, x),
				Option1Tag: Tag{Strategy: s.Name(), Role: RoleTargetLoss, Index: target,
					Magnitude: x, Pattern: variant},
				Option2Tag: Tag{Strategy: s.Name(), Role: RoleTargetGain, Index: target,
					Magnitude: x, Pattern: variant},
				Option1Differences: differences(opt1, ideal),
				Option2Differences: differences(opt2, ideal),
				Metadata:           map[string]float64{"magnitude": float64(x), "base_unit": float64(baseUnit)},
				PairNumber:         len(pairs) + 1,
			})
		}
	}
	return pairs, nil
}

// buildOptions applies the Type A transfer and falls back to Type B near the
// range boundary.
func (s *AsymmetricLossStrategy) buildOptions(ideal Vector, target, x int) (opt1, opt2 Vector, variant string, ok bool) {
	d1 := rotated(typeADiff(x), target)
	opt1 = ideal.Add(d1)
	opt2 = ideal.Add(negated(d1))
	if opt1.InRange() && opt2.InRange() {
		return opt1, opt2, "A", true
	}

	d1 = rotated(typeBDiff(x), target)
	opt1 = ideal.Add(d1)
	opt2 = ideal.Add(negated(d1))
	if opt1.InRange() && opt2.InRange() {
		return opt1, opt2, "B", true
	}
	return nil, nil, "", false
}

// typeADiff is the target-at-index-0 Type A difference: the target loses 2x,
// both others gain x.
func typeADiff(x int) []int {
	return []int{-2 * x, x, x}
}

// typeBDiff halves the concentration for boundary cases: the target loses x
// and the counterweight splits across the other two.
func typeBDiff(x int) []int {
	return []int{-x, (x + 1) / 2, x / 2}
}
