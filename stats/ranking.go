// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"errors"
	"fmt"
	"sort"

	"allocpoll/models"
)

// ErrIncompleteRanking is returned when a response does not carry exactly
// one choice for each of the 12 ranking pair numbers. Partial responses
// cannot be scored.
var ErrIncompleteRanking = errors.New("ranking deduction needs all 12 choices")

// rankingPairs maps a within-cell question index to the two option slots it
// compares: A-B, A-C, B-C.
var rankingPairs = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// RankingCell is one (magnitude, sign) question cell with its deduced
// per-option win counts and the resulting order.
type RankingCell struct {
	Magnitude int    `json:"magnitude"`
	Sign      int    `json:"sign"`
	Wins      [3]int `json:"wins"`
	Order     string `json:"order"`
}

// RankingReport is the outcome of the preference-ranking deduction: an order
// per cell plus a 0-3 score counting how many of the three pairwise
// comparisons agree across all four cells.
type RankingReport struct {
	Cells      [4]RankingCell `json:"cells"`
	FinalScore int            `json:"final_score"`
}

// RankingDeduction reconstructs a respondent's preference order among the
// three rotated options from exactly 12 choices numbered 1-12. Question
// cells run three pairs each in pair-number order. Negative-sign cells store
// their preference with the direction swapped, so the winner is inverted
// back before scoring.
func RankingDeduction(choices []models.ChoiceRecord) (RankingReport, error) {
	var report RankingReport
	if len(choices) != 12 {
		return report, fmt.Errorf("%w: got %d", ErrIncompleteRanking, len(choices))
	}

	byNumber := make(map[int]models.ChoiceRecord, 12)
	for _, c := range choices {
		if c.PairNumber < 1 || c.PairNumber > 12 {
			return report, fmt.Errorf("%w: pair number %d out of range", ErrIncompleteRanking, c.PairNumber)
		}
		if _, dup := byNumber[c.PairNumber]; dup {
			return report, fmt.Errorf("%w: duplicate pair number %d", ErrIncompleteRanking, c.PairNumber)
		}
		byNumber[c.PairNumber] = c
	}

	// winners[cell][question] is the option slot (0..2) preferred in that
	// comparison after sign normalization.
	var winners [4][3]int
	for number := 1; number <= 12; number++ {
		c := byNumber[number]
		if c.UserChoice != 1 && c.UserChoice != 2 {
			return report, fmt.Errorf("%w: pair %d has user_choice %d", ErrIncompleteRanking, number, c.UserChoice)
		}
		cell := (number - 1) / 3
		question := (number - 1) % 3

		a, b := rankingOptions(c, question)
		winner := a
		if c.UserChoice == 2 {
			winner = b
		}
		if rankingSign(c, cell) < 0 {
			if winner == a {
				winner = b
			} else {
				winner = a
			}
		}

		if winner < 0 || winner > 2 {
			return report, fmt.Errorf("%w: pair %d names option slot %d", ErrIncompleteRanking, number, winner)
		}

		winners[cell][question] = winner
		report.Cells[cell].Magnitude = chosenTag(c).Magnitude
		report.Cells[cell].Sign = rankingSign(c, cell)
		report.Cells[cell].Wins[winner]++
	}

	for cell := range report.Cells {
		report.Cells[cell].Order = winOrder(report.Cells[cell].Wins)
	}

	// A comparison counts toward the final score only when every cell
	// resolved it the same way.
	for question := 0; question < 3; question++ {
		agreed := true
		for cell := 1; cell < 4; cell++ {
			if winners[cell][question] != winners[0][question] {
				agreed = false
				break
			}
		}
		if agreed {
			report.FinalScore++
		}
	}
	return report, nil
}

// rankingOptions returns the option slots compared by a question, from tags
// when present and from the fixed question layout otherwise.
func rankingOptions(c models.ChoiceRecord, question int) (int, int) {
	if c.Option1Tag.Strategy != "" || c.Option2Tag.Strategy != "" {
		return c.Option1Tag.Index, c.Option2Tag.Index
	}
	return rankingPairs[question][0], rankingPairs[question][1]
}

// rankingSign reads the cell's direction, falling back to the fixed cell
// layout (+, -, +, -) for untagged rows.
func rankingSign(c models.ChoiceRecord, cell int) int {
	if s := chosenTag(c).Sign; s != 0 {
		return s
	}
	if cell%2 == 1 {
		return -1
	}
	return 1
}

// winOrder sorts option slots by descending win count, lower slot first on
// ties, and renders them as e.g. "A>B>C".
func winOrder(wins [3]int) string {
	slots := []int{0, 1, 2}
	sort.SliceStable(slots, func(i, j int) bool {
		return wins[slots[i]] > wins[slots[j]]
	})
	out := make([]byte, 0, 5)
	for i, s := range slots {
		if i > 0 {
			out = append(out, '>')
		}
		out = append(out, byte('A'+s))
	}
	return string(out)
}
