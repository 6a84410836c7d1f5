// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import "math/rand/v2"

// Role identifies what part an option plays inside its strategy's
// construction. Together with the other Tag fields it fully describes an
// option's provenance, so downstream calculators never have to parse the
// human-readable labels.
type Role string

const (
	RoleIdeal          Role = "ideal"
	RoleRandom         Role = "random"
	RoleBlend          Role = "blend"
	RoleSumOptimized   Role = "sum_optimized"
	RoleRatioOptimized Role = "ratio_optimized"
	RoleExtreme        Role = "extreme"
	RoleWeightedMix    Role = "weighted_mix"
	RoleShifted        Role = "shifted"
	RoleSymmetric      Role = "symmetric"
	RoleConcentrated   Role = "concentrated"
	RoleDistributed    Role = "distributed"
	RoleFavors         Role = "favors"
	RoleNear           Role = "near"
	RoleFar            Role = "far"
	RoleRanked         Role = "ranked"
	RoleBalanced       Role = "balanced"
	RoleTargetLoss     Role = "target_loss"
	RoleTargetGain     Role = "target_gain"
)

// Tag is the structured provenance attached to every generated option.
// Fields that do not apply to a given strategy stay at their zero value and
// are omitted from the stored JSON.
type Tag struct {
	Strategy  string  `json:"strategy"`
	Role      Role    `json:"role"`
	Index     int     `json:"index,omitempty"`      // extreme/target/favored index, 0-based
	Weight    float64 `json:"weight,omitempty"`     // blend weight
	Shift     int     `json:"shift,omitempty"`      // cyclic rotation amount
	Sign      int     `json:"sign,omitempty"`       // +1 or -1
	Pattern   string  `json:"pattern,omitempty"`    // "A"/"B" (cyclic), "v"/"w" (linear)
	Magnitude int     `json:"magnitude,omitempty"`  // transfer size
	Group     int     `json:"group,omitempty"`      // 1-based group number
	SubSurvey int     `json:"sub_survey,omitempty"` // dynamic temporal sub-survey
}

// Pair is a single comparison presented to a respondent. Option order is the
// generation order; the web layer may swap display order and records the
// pre-swap selection as the raw choice.
type Pair struct {
	Option1 Vector `json:"option_1"`
	Option2 Vector `json:"option_2"`

	// Display labels for the presentation layer. Never parsed by the
	// calculators when tags are present.
	Option1Label string `json:"option1_strategy"`
	Option2Label string `json:"option2_strategy"`

	Option1Tag Tag `json:"option1_tag"`
	Option2Tag Tag `json:"option2_tag"`

	// Differences against the ideal vector, when the construction defines
	// them.
	Option1Differences []int `json:"option1_differences,omitempty"`
	Option2Differences []int `json:"option2_differences,omitempty"`

	// Metadata carries strategy-specific generation numbers (scores, step
	// sizes, magnitudes).
	Metadata map[string]float64 `json:"generation_metadata,omitempty"`

	PairNumber int  `json:"pair_number"` // 1-based
	IsBiennial bool `json:"is_biennial"` // 6-element two-year pairs
}

// Column describes one table column the reporting layer renders for a
// strategy. Content is cosmetic; only the shape of the contract matters here.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Strategy generates comparison pairs anchored at a respondent's ideal
// allocation. Implementations are stateless; all randomness comes from the
// rng argument so generation is reproducible under a fixed seed.
type Strategy interface {
	// GeneratePairs validates ideal and returns the strategy's full pair
	// set. n is the requested pair count for strategies with a variable
	// count; fixed-count strategies ignore it. Errors wrap ErrInvalidVector,
	// ErrUnsuitable, or ErrExhausted.
	GeneratePairs(rng *rand.Rand, ideal Vector, n, vectorSize int) ([]Pair, error)

	// Name is the stable registry key.
	Name() string

	// OptionLabels returns the two generic option headings for result
	// tables.
	OptionLabels() [2]string

	// TableColumns returns the per-strategy result table layout.
	TableColumns() []Column

	// RankingBased reports whether choices should be attributed to the
	// strategy's two optimization metrics rather than to raw options.
	RankingBased() bool
}
