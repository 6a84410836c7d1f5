// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"allocpoll/models"
	"allocpoll/pairgen"
)

func cyclicChoice(group, pairNumber, choice int) models.ChoiceRecord {
	return models.ChoiceRecord{
		PairNumber: pairNumber,
		Option1Tag: pairgen.Tag{Strategy: pairgen.NameCyclicShift, Pattern: "A", Group: group},
		Option2Tag: pairgen.Tag{Strategy: pairgen.NameCyclicShift, Pattern: "B", Group: group},
		UserChoice: choice,
	}
}

func TestCyclicConsistency(t *testing.T) {
	choices := []models.ChoiceRecord{
		// Group 1: all three rotations pick pattern A.
		cyclicChoice(1, 1, 1), cyclicChoice(1, 2, 1), cyclicChoice(1, 3, 1),
		// Group 2: mixed.
		cyclicChoice(2, 4, 1), cyclicChoice(2, 5, 2), cyclicChoice(2, 6, 1),
	}
	report := CyclicConsistency(choices)
	assert.Equal(t, 2, report.Groups)
	assert.Equal(t, 1, report.ConsistentGroups)
	assert.Equal(t, 50.0, report.ConsistencyPct)
}

func TestCyclicConsistencyLegacyLabels(t *testing.T) {
	choices := []models.ChoiceRecord{
		{PairNumber: 1, Option1Strategy: "Cyclic Pattern A (shift 0)", Option2Strategy: "Cyclic Pattern B (shift 0)", UserChoice: 2},
		{PairNumber: 2, Option1Strategy: "Cyclic Pattern A (shift 1)", Option2Strategy: "Cyclic Pattern B (shift 1)", UserChoice: 2},
		{PairNumber: 3, Option1Strategy: "Cyclic Pattern A (shift 2)", Option2Strategy: "Cyclic Pattern B (shift 2)", UserChoice: 2},
	}
	report := CyclicConsistency(choices)
	assert.Equal(t, 1, report.Groups)
	assert.Equal(t, 1, report.ConsistentGroups)
	assert.Equal(t, 100.0, report.ConsistencyPct)
}

func linearChoice(group, pairNumber, sign, choice int) models.ChoiceRecord {
	return models.ChoiceRecord{
		PairNumber: pairNumber,
		Option1Tag: pairgen.Tag{Strategy: pairgen.NameLinearSymmetry, Pattern: "v", Sign: sign, Group: group},
		Option2Tag: pairgen.Tag{Strategy: pairgen.NameLinearSymmetry, Pattern: "w", Sign: sign, Group: group},
		UserChoice: choice,
	}
}

func TestLinearConsistency(t *testing.T) {
	choices := []models.ChoiceRecord{
		// Group 1: + and - both pick v.
		linearChoice(1, 1, 1, 1), linearChoice(1, 2, -1, 1),
		// Group 2: the mirror flips to w.
		linearChoice(2, 3, 1, 1), linearChoice(2, 4, -1, 2),
		// Group 3: both pick w.
		linearChoice(3, 5, 1, 2), linearChoice(3, 6, -1, 2),
	}
	report := LinearConsistency(choices)
	assert.Equal(t, 3, report.Groups)
	assert.Equal(t, 2, report.ConsistentGroups)
	assert.InDelta(t, 66.67, report.ConsistencyPct, 0.01)
}

func TestLinearConsistencyLegacyLabels(t *testing.T) {
	choices := []models.ChoiceRecord{
		{PairNumber: 1, Option1Strategy: "Linear Pattern + v1", Option2Strategy: "Linear Pattern + w1", UserChoice: 1},
		{PairNumber: 2, Option1Strategy: "Linear Pattern - v1", Option2Strategy: "Linear Pattern - w1", UserChoice: 2},
	}
	report := LinearConsistency(choices)
	assert.Equal(t, 1, report.Groups)
	assert.Zero(t, report.ConsistentGroups)
}

func TestGroupConsistencySkipsMalformed(t *testing.T) {
	choices := []models.ChoiceRecord{
		cyclicChoice(1, 1, 1),
		{PairNumber: 2, Option1Strategy: "garbage", UserChoice: 1},
		{PairNumber: 3, UserChoice: 7},
	}
	report := CyclicConsistency(choices)
	assert.Equal(t, 1, report.Groups)
	assert.Equal(t, 1, report.ConsistentGroups)
}
