package kgraph

import "strings"

// Category is the semantic class of a node. Nodes only merge during chain
// collapsing when they share a category.
type Category string

// Known categories. Any other label is treated as [CategoryUnknown].
const (
	CategoryPrepare    Category = "prepare"
	CategoryAction     Category = "action"
	CategoryMetabol    Category = "metabol"
	CategoryExcretion  Category = "excretion"
	CategoryAbsorbtion Category = "absorbtion"
	CategoryMechanism  Category = "mechanism"
	CategoryGroup      Category = "group"
	CategoryNoun       Category = "noun"
	CategorySideEffect Category = "side_e"
	CategoryUnknown    Category = "unknown"
)

var knownCategories = []Category{
	CategoryPrepare,
	CategoryAction,
	CategoryMetabol,
	CategoryExcretion,
	CategoryAbsorbtion,
	CategoryMechanism,
	CategoryGroup,
	CategoryNoun,
	CategorySideEffect,
}

// Categories returns the known categories in their canonical order.
func Categories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// ParseCategory maps a raw label onto a Category. Matching is exact after
// trimming surrounding whitespace; unrecognized labels yield CategoryUnknown.
func ParseCategory(label string) Category {
	label = strings.TrimSpace(label)
	for _, c := range knownCategories {
		if string(c) == label {
			return c
		}
	}
	return CategoryUnknown
}

// Known reports whether c is one of the fixed categories.
func (c Category) Known() bool { return ParseCategory(string(c)) == c && c != CategoryUnknown }
