// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math/rand/v2"
)

// mdspMaxAttempts bounds the rejection-sampling loop.
const mdspMaxAttempts = 10000

// MDSPStrategy (multi-dimensional single-peaked) rejection-samples pairs of
// fully random allocations and keeps a (far, near) pair only when near is
// unambiguously closer to the respondent's peak: weakly closer in every
// dimension (same deviation sign, no larger magnitude) and strictly closer
// in at least one. Sampled vectors use unrestricted granularity.
type MDSPStrategy struct{}

func (s *MDSPStrategy) Name() string { return NameMDSP }

func (s *MDSPStrategy) OptionLabels() [2]string {
	return [2]string{"Farther Option", "Closer Option"}
}

func (s *MDSPStrategy) TableColumns() []Column {
	return []Column{
		{Key: "distance_1", Label: "Option 1 Distance"},
		{Key: "distance_2", Label: "Option 2 Distance"},
		{Key: "chosen", Label: "Chosen Option"},
	}
}

func (s *MDSPStrategy) RankingBased() bool { return false }

func (s *MDSPStrategy) GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error) {
	if err := ValidateUserVector(ideal, vectorSize); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = defaultPairCount
	}

	used := make(map[string]bool, n)
	pairs := make([]Pair, 0, n)
	for attempt := 0; attempt < mdspMaxAttempts && len(pairs) < n; attempt++ {
		a := NewUnrestrictedVector(rng, vectorSize)
		b := NewUnrestrictedVector(rng, vectorSize)

		var far, near Vector
		switch {
		case unambiguouslyCloser(b, a, ideal):
			far, near = a, b
		case unambiguouslyCloser(a, b, ideal):
			far, near = b, a
		default:
			continue
		}

		key := far.Key() + "|" + near.Key()
		if used[key] {
			continue
		}
		used[key] = true

		pairs = append(pairs, Pair{
			Option1:      far,
			Option2:      near,
			Option1Label: "Farther Option",
			Option2Label: "Closer Option",
			Option1Tag:   Tag{Strategy: s.Name(), Role: RoleFar},
			Option2Tag:   Tag{Strategy: s.Name(), Role: RoleNear},
			Option1Differences: differences(far, ideal),
			Option2Differences: differences(near, ideal),
			Metadata: map[string]float64{
				"far_distance":  float64(sumAbsDiff(far, ideal)),
				"near_distance": float64(sumAbsDiff(near, ideal)),
			},
			PairNumber: len(pairs) + 1,
		})
	}
	if len(pairs) < n {
		return nil, fmt.Errorf("%w: %s found %d of %d unique pairs in %d attempts",
			ErrExhausted, s.Name(), len(pairs), n, mdspMaxAttempts)
	}
	return pairs, nil
}

// unambiguouslyCloser reports whether near is weakly closer to peak than far
// in every dimension and strictly closer in at least one. Weakly closer
// means the deviation keeps the same sign (or vanishes) with no larger
// magnitude.
func unambiguouslyCloser(near, far, peak Vector) bool {
	strict := false
	for i := range peak {
		dn := near[i] - peak[i]
		df := far[i] - peak[i]
		if dn == 0 {
			if df != 0 {
				strict = true
			}
			continue
		}
		if dn > 0 != (df > 0) {
			return false
		}
		an, af := abs(dn), abs(df)
		if an > af {
			return false
		}
		if an < af {
			strict = true
		}
	}
	return strict
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
