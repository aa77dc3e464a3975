package e2e

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/bunrui/internal/classify"
	"github.com/hyperjump/bunrui/internal/models"
)

// The corpus must be self-consistent: every successful document's content has
// to classify as the category the corpus claims, or batch assertions are
// testing the corpus rather than the pipeline.
func TestBuildCorpus_selfConsistent(t *testing.T) {
	corpus := BuildCorpus()
	if len(corpus.Documents) == 0 {
		t.Fatal("corpus has no documents")
	}

	seen := make(map[string]bool)
	c := classify.NewKeywordClassifier(nil)
	for _, d := range corpus.Documents {
		if seen[d.Name] {
			t.Errorf("duplicate corpus file name %q", d.Name)
		}
		seen[d.Name] = true

		if d.Status != models.StatusSuccess {
			continue
		}
		res, err := c.Classify(context.Background(), classify.Request{Text: d.Content, Name: d.Name})
		if err != nil {
			t.Fatalf("Classify(%q): %v", d.Name, err)
		}
		if res.Category != d.Category {
			t.Errorf("document %q classifies as %s, corpus expects %s", d.Name, res.Category, d.Category)
		}
	}
}

func TestBuildCorpus_coversAllOutcomePaths(t *testing.T) {
	corpus := BuildCorpus()
	byStatus := corpus.CountByStatus()

	total := 0
	for _, n := range byStatus {
		total += n
	}
	if total != len(corpus.Documents) {
		t.Errorf("status counts sum to %d, corpus has %d documents", total, len(corpus.Documents))
	}
	if byStatus[models.StatusFailed] == 0 {
		t.Error("corpus has no document expected to fail")
	}
	if byStatus[models.StatusSkipped] == 0 {
		t.Error("corpus has no document expected to be skipped")
	}

	byCat := corpus.SuccessByCategory()
	for _, cat := range models.AllCategories() {
		if byCat[cat] == 0 {
			t.Errorf("corpus has no successful document for category %s", cat)
		}
	}
}

func TestBuildCorpus_fixturesBuildable(t *testing.T) {
	corpus := BuildCorpus()
	for _, d := range corpus.Documents {
		if d.Status != models.StatusSuccess {
			continue
		}
		if _, err := WriteMinimalFile(filepath.Ext(d.Name), d.Content); err != nil {
			t.Errorf("no fixture for %q: %v", d.Name, err)
		}
	}
}
