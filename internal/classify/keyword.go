package classify

import (
	"context"
	"strings"
	"unicode"

	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/pkg/utils"
)

// KeywordClassifier scores documents by whole-word keyword frequency. It is
// deterministic, never fails, and needs no network.
type KeywordClassifier struct {
	keywords map[models.Category]map[string]struct{}
}

// NewKeywordClassifier builds a classifier over the given keyword table.
// A nil or empty table uses DefaultKeywords.
func NewKeywordClassifier(keywords map[models.Category][]string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	sets := make(map[models.Category]map[string]struct{}, len(keywords))
	for cat, words := range keywords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		sets[cat] = set
	}
	return &KeywordClassifier{keywords: sets}
}

// Name returns the classifier name.
func (*KeywordClassifier) Name() string { return "keyword" }

// Classify counts, per category, how many tokens of the text plus the
// filename hint fall in that category's keyword set and picks the highest
// count. Ties resolve by the fixed category priority. Zero text words or
// zero hits mean "general" with confidence 0. Confidence is the winning
// count over the text word count, clamped to [0,1].
func (c *KeywordClassifier) Classify(_ context.Context, req Request) (Result, error) {
	words := len(strings.Fields(req.Text))
	if words == 0 {
		return Result{Category: models.CategoryGeneral}, nil
	}
	tokens := tokenize(req.Text)
	tokens = append(tokens, tokenizeName(req.Name)...)

	scores := make(map[models.Category]int, len(c.keywords))
	for _, tok := range tokens {
		for cat, set := range c.keywords {
			if _, ok := set[tok]; ok {
				scores[cat]++
			}
		}
	}

	best := models.CategoryGeneral
	bestScore := 0
	for _, cat := range models.CategoryPriority() {
		if s := scores[cat]; s > bestScore {
			best, bestScore = cat, s
		}
	}
	if bestScore == 0 {
		return Result{Category: models.CategoryGeneral, Words: words}, nil
	}
	return Result{
		Category:   best,
		Confidence: utils.Clamp01(float64(bestScore) / float64(words)),
		Hits:       bestScore,
		Words:      words,
	}, nil
}

// tokenize lowercases text and splits on whitespace, trimming punctuation
// from token edges. Hyphens and underscores survive trimming so hyphenated
// terms stay whole.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) && r != '-' && r != '_'
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// tokenizeName splits a filename on every non-alphanumeric boundary, so
// "invoice_2024.pdf" contributes the tokens invoice, 2024 and pdf.
func tokenizeName(name string) []string {
	if name == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
