// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// TotalBudget is the sum every single-year allocation vector must reach.
const TotalBudget = 100

// Granularity is the step user-entered allocations are quantized to.
const Granularity = 5

// Vector is an ordered budget allocation: non-negative integers summing to
// TotalBudget per year. Biennial pairs concatenate two such vectors.
type Vector []int

// Sum returns the total of all components.
func (v Vector) Sum() int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports component-wise equality.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string form used for dedup sets.
func (v Vector) Key() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ",")
}

// Add returns v with diff applied component-wise.
func (v Vector) Add(diff []int) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + diff[i]
	}
	return out
}

// InRange reports whether every component lies in [0, TotalBudget].
func (v Vector) InRange() bool {
	for _, x := range v {
		if x < 0 || x > TotalBudget {
			return false
		}
	}
	return true
}

// ContainsZero reports whether any component is exactly zero.
func (v Vector) ContainsZero() bool {
	return v.Contains(0)
}

// Contains reports whether any component equals x.
func (v Vector) Contains(x int) bool {
	for _, c := range v {
		if c == x {
			return true
		}
	}
	return false
}

// Aligned reports whether every component is a multiple of Granularity.
func (v Vector) Aligned() bool {
	for _, x := range v {
		if x%Granularity != 0 {
			return false
		}
	}
	return true
}

// Validate fails when the vector cannot be a single-year allocation of the
// given size: wrong length, sum != TotalBudget, or out-of-range component.
func Validate(v Vector, size int) error {
	if len(v) != size {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidVector, len(v), size)
	}
	if s := v.Sum(); s != TotalBudget {
		return fmt.Errorf("%w: sum %d, want %d", ErrInvalidVector, s, TotalBudget)
	}
	if !v.InRange() {
		return fmt.Errorf("%w: component outside [0, %d]", ErrInvalidVector, TotalBudget)
	}
	return nil
}

// ValidateUserVector applies Validate plus the user-entry quantization rule:
// every component must be a multiple of Granularity.
func ValidateUserVector(v Vector, size int) error {
	if err := Validate(v, size); err != nil {
		return err
	}
	if !v.Aligned() {
		return fmt.Errorf("%w: components must be multiples of %d", ErrInvalidVector, Granularity)
	}
	return nil
}

// NewRandomVector produces size non-negative multiples of Granularity summing
// to exactly TotalBudget. Construction picks size-1 breakpoints on the
// 5-unit grid and takes differences, so both invariants hold without
// after-the-fact rounding.
func NewRandomVector(rng *rand.Rand, size int) Vector {
	units := TotalBudget / Granularity
	cuts := make([]int, size+1)
	for i := 1; i < size; i++ {
		cuts[i] = rng.IntN(units + 1)
	}
	cuts[size] = units
	sort.Ints(cuts)

	v := make(Vector, size)
	for i := 0; i < size; i++ {
		v[i] = (cuts[i+1] - cuts[i]) * Granularity
	}
	return v
}

// NewUnrestrictedVector produces size non-negative integers summing to
// TotalBudget with no granularity constraint.
func NewUnrestrictedVector(rng *rand.Rand, size int) Vector {
	cuts := make([]int, size+1)
	for i := 1; i < size; i++ {
		cuts[i] = rng.IntN(TotalBudget + 1)
	}
	cuts[size] = TotalBudget
	sort.Ints(cuts)

	v := make(Vector, size)
	for i := 0; i < size; i++ {
		v[i] = cuts[i+1] - cuts[i]
	}
	return v
}

// NewVectorPool generates up to poolSize pairwise-distinct random vectors.
// The search is bounded; callers that need a guaranteed count must check the
// returned length.
func NewVectorPool(rng *rand.Rand, poolSize, vectorSize int) []Vector {
	seen := make(map[string]bool, poolSize)
	pool := make([]Vector, 0, poolSize)
	for attempt := 0; attempt < poolSize*20 && len(pool) < poolSize; attempt++ {
		v := NewRandomVector(rng, vectorSize)
		key := v.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		pool = append(pool, v)
	}
	return pool
}

// rotated returns v cyclically right-rotated by k positions.
func rotated(v []int, k int) []int {
	n := len(v)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = v[(i-k%n+n)%n]
	}
	return out
}

// negated returns -v.
func negated(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

// scaled returns sign*v.
func scaled(v []int, sign int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = sign * x
	}
	return out
}

// sumAbsDiff is the L1 distance between two vectors of equal length.
func sumAbsDiff(a, b Vector) int {
	total := 0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// minRatio returns the smallest component-wise ratio v[i]/ideal[i]. The ideal
// must be zero-free.
func minRatio(v, ideal Vector) float64 {
	minimum := math.Inf(1)
	for i := range v {
		r := float64(v[i]) / float64(ideal[i])
		if r < minimum {
			minimum = r
		}
	}
	return minimum
}

// differences returns v - ideal component-wise.
func differences(v, ideal Vector) []int {
	out := make([]int, len(v))
	for i := range v {
		out[i] = v[i] - ideal[i]
	}
	return out
}

// concat joins two single-year vectors into one biennial vector.
func concat(year1, year2 Vector) Vector {
	out := make(Vector, 0, len(year1)+len(year2))
	out = append(out, year1...)
	out = append(out, year2...)
	return out
}

// pairKey canonicalizes an unordered option pair for dedup: the two vector
// keys joined in sorted order.
func pairKey(a, b Vector) string {
	ka, kb := a.Key(), b.Key()
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// sortedAbsKey canonicalizes a difference vector by the multiset of its
// absolute component values.
func sortedAbsKey(v []int) string {
	abs := make([]int, len(v))
	for i, x := range v {
		if x < 0 {
			x = -x
		}
		abs[i] = x
	}
	sort.Ints(abs)
	parts := make([]string, len(abs))
	for i, x := range abs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ",")
}

// diffKey is the canonical string form of a difference vector.
func diffKey(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ",")
}

// roundHalfUp matches the rounding the survey has always used for blended
// components.
func roundHalfUp(x float64) int {
	return int(math.Round(x))
}
