// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pairgen generates budget-allocation comparison pairs.

Every survey anchors on a respondent's ideal allocation: an ordered vector of
non-negative integers summing to 100 (per year), entered in multiples of 5.
A strategy turns that ideal into a fixed set of comparison pairs, each pair
two alternative allocations the respondent must choose between.

# Strategies

Strategies are registered under stable string names and resolved through
Lookup:

	strategy, err := pairgen.Lookup(pairgen.NameCyclicShift)
	if err != nil { ... }
	pairs, err := strategy.GeneratePairs(rng, ideal, 0, 3)

Each strategy documents its own construction and pair count. All randomness
flows through the *rand.Rand argument, so a fixed seed reproduces a full
generation.

# Errors

Three sentinel errors discriminate failure modes:

  - ErrInvalidVector: the input violates the allocation contract. Never
    retried.
  - ErrUnsuitable: the ideal is mathematically incompatible with the
    strategy (zero components, no equal-value pair, no usable base
    decomposition). The caller should offer a different strategy.
  - ErrExhausted: the bounded random search ran out of attempts before
    assembling the full unique pair set. Partial results are never returned.

# Provenance

Every generated option carries a Tag describing exactly how it was built
(role, index, weight, shift, sign, pattern, magnitude, group). The stats
package consumes tags directly; the human-readable labels exist only for
display.
*/
package pairgen
