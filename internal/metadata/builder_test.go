package metadata

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuild_counts(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("one two  three\nfour")
	if got.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", got.WordCount)
	}
	if got.CharCount != utf8.RuneCountInString("one two  three\nfour") {
		t.Errorf("CharCount = %d", got.CharCount)
	}
}

func TestBuild_charCountIsRunes(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("日本語")
	if got.CharCount != 3 {
		t.Errorf("CharCount = %d, want 3", got.CharCount)
	}
	if got.WordCount != 1 {
		t.Errorf("WordCount = %d, want 1", got.WordCount)
	}
}

func TestBuild_emptyText(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("")
	if got.WordCount != 0 || got.CharCount != 0 || got.Summary != "" || got.Preview != "" {
		t.Errorf("got %+v, want all zero values", got)
	}
}

func TestBuild_summaryKeepsFirstSentences(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("First. Second! Third? Fourth.")
	if got.Summary != "First. Second! Third?" {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestBuild_summaryWithFewerSentences(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("No terminator here")
	if got.Summary != "No terminator here" {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestBuild_summaryCapped(t *testing.T) {
	b := NewBuilder(Options{})
	long := strings.Repeat("a", 300)
	got := b.Build(long)
	if !strings.HasSuffix(got.Summary, "...") {
		t.Errorf("Summary not marked truncated: %q", got.Summary)
	}
	if n := utf8.RuneCountInString(got.Summary); n != DefaultSummaryMaxChars+3 {
		t.Errorf("Summary rune length = %d, want %d", n, DefaultSummaryMaxChars+3)
	}
}

func TestBuild_previewTruncated(t *testing.T) {
	b := NewBuilder(Options{})
	long := strings.Repeat("b", 300)
	got := b.Build(long)
	if !strings.HasSuffix(got.Preview, "...") {
		t.Errorf("Preview not marked truncated: %q", got.Preview)
	}
	if n := utf8.RuneCountInString(got.Preview); n != DefaultPreviewChars+3 {
		t.Errorf("Preview rune length = %d, want %d", n, DefaultPreviewChars+3)
	}
}

func TestBuild_shortTextNotMarked(t *testing.T) {
	b := NewBuilder(Options{})
	got := b.Build("Short text.")
	if got.Preview != "Short text." {
		t.Errorf("Preview = %q", got.Preview)
	}
	if got.Summary != "Short text." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestNewBuilder_previewClampedBelowSummaryCap(t *testing.T) {
	b := NewBuilder(Options{SummaryMaxChars: 100, PreviewChars: 150})
	got := b.Build(strings.Repeat("c", 200))
	if n := utf8.RuneCountInString(got.Preview); n != 99+3 {
		t.Errorf("Preview rune length = %d, want %d", n, 99+3)
	}
}

func TestNewBuilder_customSentenceCount(t *testing.T) {
	b := NewBuilder(Options{SummarySentences: 1})
	got := b.Build("Alpha. Beta. Gamma.")
	if got.Summary != "Alpha." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"mixed terminators", "One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"trailing fragment", "Done. And more", []string{"Done.", "And more"}},
		{"no terminator", "just words", []string{"just words"}},
		{"extra whitespace", "A.   B.", []string{"A.", "B."}},
		{"empty", "", nil},
		{"only punctuation spacing", " . ", []string{"."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
