// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import "errors"

var (
	// ErrInvalidVector indicates a vector that violates the allocation
	// contract: wrong length, sum != 100 per year, or a component outside
	// [0, 100].
	ErrInvalidVector = errors.New("pairgen: invalid allocation vector")

	// ErrUnsuitable indicates an ideal vector that is mathematically
	// incompatible with the requested strategy (a zero component where the
	// construction needs strictly positive values, no qualifying equal-value
	// pair, no usable base decomposition). Callers should offer the
	// respondent a different strategy.
	ErrUnsuitable = errors.New("pairgen: ideal vector unsuitable for strategy")

	// ErrExhausted indicates the bounded random search could not assemble
	// the required number of unique, valid pairs. Partial results are never
	// returned.
	ErrExhausted = errors.New("pairgen: pair generation attempt budget exhausted")

	// ErrUnknownStrategy indicates a registry lookup for a name that was
	// never registered.
	ErrUnknownStrategy = errors.New("pairgen: unknown strategy")
)
