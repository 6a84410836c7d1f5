// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

const (
	triangleBases            = 2
	triangleAlignedAttempts  = 400
	triangleFallbackAttempts = 800
	triangleMaxStep          = 20
)

// TriangleInequalityStrategy builds biennial pairs contrasting a
// "concentrated" change (all of q applied in year two) with a "distributed"
// one (q split as q1+q2 across both years, q1 = [x1,0,-x1], q2 = [0,x2,-x2]).
// Two base change vectors, three coordinate rotations, and both signs give
// exactly 12 pairs.
//
// Bases are searched on the 5-grid first and fall back to unrestricted
// integers. A base is only accepted when every rotation and sign keeps all
// derived allocations in range, so emission never fails midway. Degenerate
// decompositions (x1, x2, or x3 zero) collapse the two options and are
// rejected.
type TriangleInequalityStrategy struct{}

func (s *TriangleInequalityStrategy) Name() string { return NameTriangleInequality }

func (s *TriangleInequalityStrategy) OptionLabels() [2]string {
	return [2]string{"Concentrated Change", "Distributed Change"}
}

func (s *TriangleInequalityStrategy) TableColumns() []Column {
	return []Column{
		{Key: "group", Label: "Base Vector"},
		{Key: "sign", Label: "Direction"},
		{Key: "chosen", Label: "Chosen Change"},
	}
}

func (s *TriangleInequalityStrategy) RankingBased() bool { return false }

func (s *TriangleInequalityStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if vectorSize != 3 {
		return nil, fmt.Errorf("%w: %s is defined for 3 categories, got %d", ErrInvalidVector, s.Name(), vectorSize)
	}
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if ideal.ContainsZero() {
		return nil, fmt.Errorf("%w: %s needs a zero-free ideal vector", ErrUnsuitable, s.Name())
	}

	bases := s.findBases(rng, ideal, true, triangleAlignedAttempts, nil)
	if len(bases) < triangleBases {
		bases = s.findBases(rng, ideal, false, triangleFallbackAttempts, bases)
	}
	if len(bases) < triangleBases {
		return nil, fmt.Errorf("%w: %s found no usable base change vectors", ErrUnsuitable, s.Name())
	}

	var pairs []Pair
	for b, q := range bases {
		q1, q2 := decompose(q)
		for shift := 0; shift < vectorSize; shift++ {
			for _, sign := range []int{1, -1} {
				qr := scaled(rotated(q, shift), sign)
				q1r := scaled(rotated(q1, shift), sign)
				q2r := scaled(rotated(q2, shift), sign)

				concentrated := concat(ideal, ideal.Add(qr))
				distributed := concat(ideal.Add(q1r), ideal.Add(q2r))

				signChar := "+"
				if sign < 0 {
					signChar = "-"
				}
				pairs = append(pairs, Pair{
					Option1:      concentrated,
					Option2:      distributed,
					Option1Label: fmt.Sprintf("Concentrated Change (%s, shift %d)", signChar, shift),
					Option2Label: fmt.Sprintf("Distributed Change (%s, shift %d)", signChar, shift),
					Option1Tag:   Tag{Strategy: s.Name(), Role: RoleConcentrated, Sign: sign, Shift: shift, Group: b + 1},
					Option2Tag:   Tag{Strategy: s.Name(), Role: RoleDistributed, Sign: sign, Shift: shift, Group: b + 1},
					PairNumber:   len(pairs) + 1,
					IsBiennial:   true,
				})
			}
		}
	}
	return pairs, nil
}

// findBases extends seed with random base vectors until triangleBases are
// collected or the attempt budget runs out. Distinct bases must differ in
// their absolute component multiset so no rotation or sign flip of one can
// reproduce a pair of the other.
func (s *TriangleInequalityStrategy) findBases(rng *rand.Rand, ideal Vector, aligned bool, attempts int, seed [][]int) [][]int {
	bases := seed
	for attempt := 0; attempt < attempts && len(bases) < triangleBases; attempt++ {
		q, ok := s.drawBase(rng, ideal, aligned)
		if !ok {
			continue
		}
		duplicate := false
		for _, prev := range bases {
			if sortedAbsKey(prev) == sortedAbsKey(q) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		bases = append(bases, q)
	}
	return bases
}

// drawBase samples q = [x1, x2, -x1-x2] with all components nonzero and
// every rotation and sign of q, q1, and q2 in range from the ideal.
func (s *TriangleInequalityStrategy) drawBase(rng *rand.Rand, ideal Vector, aligned bool) ([]int, bool) {
	x1 := s.drawStep(rng, aligned)
	x2 := s.drawStep(rng, aligned)
	x3 := -x1 - x2
	if x1 == 0 || x2 == 0 || x3 == 0 {
		return nil, false
	}
	q := []int{x1, x2, x3}
	q1, q2 := decompose(q)

	for _, d := range [][]int{q, q1, q2} {
		for _, sign := range []int{1, -1} {
			if !allRotationsInRange(ideal, scaled(d, sign)) {
				return nil, false
			}
		}
	}
	return q, true
}

func (s *TriangleInequalityStrategy) drawStep(rng *rand.Rand, aligned bool) int {
	if aligned {
		steps := triangleMaxStep / Granularity // magnitudes per sign
		x := rng.IntN(2*steps+1) - steps
		return x * Granularity
	}
	return rng.IntN(2*triangleMaxStep+1) - triangleMaxStep
}

// decompose splits q into q1 = [x1, 0, -x1] and q2 = [0, x2, -x2], so
// q1 + q2 == q exactly.
func decompose(q []int) (q1, q2 []int) {
	q1 = []int{q[0], 0, -q[0]}
	q2 = []int{0, q[1], -q[1]}
	return q1, q2
}
