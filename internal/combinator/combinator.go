package combinator

import (
	"sort"
	"strconv"
	"strings"
)

// Group is a labeled collection of item labels derived from one element of
// the input size list. The first size becomes group "A" with items A1..An,
// the second "B", and so on.
type Group struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// Combination is one selection of exactly `length` items, each drawn from a
// distinct group. Immutable once produced.
type Combination []string

// GroupLabel returns the label of the i-th group (0-indexed): A..Z, then
// AA, AB, ... using bijective base-26 so labels never collide.
func GroupLabel(i int) string {
	label := ""
	n := i + 1
	for n > 0 {
		n--
		label = string(rune('A'+n%26)) + label
		n /= 26
	}
	return label
}

// Label expands a list of group sizes into labeled groups. Sizes of zero
// produce no group: a group without items never participates in a
// combination, so it is dropped here rather than filtered downstream.
// Input order determines labeling and is preserved in the result.
func Label(items []int) []Group {
	groups := make([]Group, 0, len(items))
	for i, count := range items {
		if count <= 0 {
			continue
		}
		label := GroupLabel(i)
		members := make([]string, count)
		for j := 0; j < count; j++ {
			members[j] = label + strconv.Itoa(j+1)
		}
		groups = append(groups, Group{Label: label, Items: members})
	}
	return groups
}

// Choose enumerates every size-k subsequence of labels, preserving the
// relative order of labels within each subsequence. Produces exactly
// C(len(labels), k) results; empty when k exceeds len(labels).
func Choose(labels []string, k int) [][]string {
	if k > len(labels) {
		return nil
	}

	result := make([][]string, 0)
	current := make([]string, 0, k)

	var backtrack func(start int)
	backtrack = func(start int) {
		if len(current) == k {
			picked := make([]string, k)
			copy(picked, current)
			result = append(result, picked)
			return
		}
		// Not enough labels left to fill the subsequence.
		if len(labels)-start < k-len(current) {
			return
		}
		for i := start; i < len(labels); i++ {
			current = append(current, labels[i])
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}

	backtrack(0)
	return result
}

// Cartesian computes the cross-product of the given item sequences: one
// output tuple per way of picking a single item from every sequence, with
// tuple[i] always drawn from groups[i]. An empty input yields a single
// empty tuple, the identity element of the product.
func Cartesian(groups [][]string) [][]string {
	total := 1
	for _, g := range groups {
		total *= len(g)
	}

	result := make([][]string, 0, total)
	current := make([]string, 0, len(groups))

	var backtrack func(depth int)
	backtrack = func(depth int) {
		if depth == len(groups) {
			tuple := make([]string, len(current))
			copy(tuple, current)
			result = append(result, tuple)
			return
		}
		for _, item := range groups[depth] {
			current = append(current, item)
			backtrack(depth + 1)
			current = current[:len(current)-1]
		}
	}

	backtrack(0)
	return result
}

// Generate enumerates every valid combination: for each size-`length` subset
// of groups, the cross-product of the member items, concatenated in the
// order Choose produced the subsets.
//
// Callers are responsible for the empty short-circuit when length exceeds
// the number of groups; called within that precondition this never returns
// an empty result.
func Generate(groups []Group, length int) []Combination {
	labels := make([]string, len(groups))
	itemsByLabel := make(map[string][]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		itemsByLabel[g.Label] = g.Items
	}

	var all []Combination
	for _, subset := range Choose(labels, length) {
		members := make([][]string, len(subset))
		for i, label := range subset {
			members[i] = itemsByLabel[label]
		}
		for _, tuple := range Cartesian(members) {
			all = append(all, Combination(tuple))
		}
	}
	return all
}

// Key returns the order-independent identity of a combination's item set:
// labels sorted and joined. Two combinations holding the same items in a
// different order share a key. Used only for storage deduplication, never
// to drop entries from an in-memory result.
func (c Combination) Key() string {
	sorted := make([]string, len(c))
	copy(sorted, c)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
