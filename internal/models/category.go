// Package models defines core data structures for categories, outcomes, and batch summaries.
package models

import "strings"

// Category is one of the fixed classification labels.
type Category string

const (
	CategoryFinancial Category = "financial"
	CategoryLegal     Category = "legal"
	CategoryHR        Category = "hr"
	CategoryTechnical Category = "technical"
	// CategoryGeneral is the zero-hit default; it has no keywords of its own.
	CategoryGeneral Category = "general"
)

// CategoryPriority is the fixed tie-break order for keyword scoring:
// when two categories tie on the highest nonzero hit count, the earliest wins.
func CategoryPriority() []Category {
	return []Category{CategoryFinancial, CategoryLegal, CategoryHR, CategoryTechnical}
}

// AllCategories returns every assignable category, priority order first,
// general last.
func AllCategories() []Category {
	return append(CategoryPriority(), CategoryGeneral)
}

// CategoryStrings returns all categories as plain strings, for schema enums
// and report headers.
func CategoryStrings() []string {
	cats := AllCategories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func (c Category) String() string { return string(c) }

// ParseCategory returns the category matching s (case-insensitive, surrounding
// space ignored) and whether it is one of the fixed labels.
func ParseCategory(s string) (Category, bool) {
	norm := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range AllCategories() {
		if c == norm {
			return c, true
		}
	}
	return CategoryGeneral, false
}
