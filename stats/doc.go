// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stats computes consistency statistics over persisted choice records.

Everything here is a pure function from []models.ChoiceRecord (plus
parameters) to a report struct; nothing reads the database or holds state
between calls. Reports are recomputed on demand from stored choices.

# Calculators

  - OptionPercentages: generic option-1 vs option-2 split
  - MetricPercentages: attribution to the two optimization metrics for
    ranking-based strategies
  - SurveyOutcome, UserConsistency: cross-survey stability of a user's
    metric leaning
  - ExtremeConsistency: 3x3 preference matrix plus corner-vs-interpolation
    matching
  - CyclicConsistency, LinearConsistency: all-or-nothing group agreement
  - TriangleTally, MDSPTally: majority-share tallies; MDSP recomputes
    near/far from L1 distances and skips ties
  - RankingDeduction: per-cell preference orders and the 0-3 agreement score
  - Transitivity: total-order detection per comparison bucket with cycle
    reporting

# Provenance

Calculators read the structured provenance tags attached to each option.
Rows stored before tags existed fall back to parsing the display labels, and
then to positional defaults, in that fixed precedence order. Records that
cannot be interpreted at all are logged and skipped so one bad row never
poisons an aggregate.
*/
package stats
