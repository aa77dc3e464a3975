package classify

import "github.com/hyperjump/bunrui/internal/models"

// DefaultKeywords returns the built-in keyword table. Matching is by whole
// lowercase token, so every entry is a single lowercase word. "general" has
// no keywords; it is the zero-hit default, not a scored category.
func DefaultKeywords() map[models.Category][]string {
	return map[models.Category][]string{
		models.CategoryFinancial: {"invoice", "payment", "receipt", "budget", "financial", "cost", "price", "total", "amount"},
		models.CategoryLegal:     {"contract", "agreement", "legal", "terms", "policy", "clause", "liability", "copyright"},
		models.CategoryHR:        {"resume", "cv", "employee", "hr", "payroll", "benefits", "hiring", "interview"},
		models.CategoryTechnical: {"technical", "specification", "manual", "guide", "documentation", "api", "software"},
	}
}
