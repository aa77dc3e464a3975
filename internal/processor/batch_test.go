package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/bunrui/internal/models"
)

func TestProcessBatch_mixedStatuses(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "invoice payment amount")
	unsupported := writeFile(t, dir, "b.xyz", "whatever")
	corrupt := writeFile(t, dir, "c.pdf", "not a pdf")

	p := newTestProcessor()
	summary := p.ProcessBatch(context.Background(), []string{good, unsupported, corrupt})

	if summary.Total != 3 || summary.Succeeded != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("counts = total %d / ok %d / skip %d / fail %d, want 3/1/1/1",
			summary.Total, summary.Succeeded, summary.Skipped, summary.Failed)
	}
	if len(summary.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(summary.Outcomes))
	}
	wantStatus := []models.Status{models.StatusSuccess, models.StatusSkipped, models.StatusFailed}
	for i, want := range wantStatus {
		if summary.Outcomes[i].Status != want {
			t.Errorf("outcome[%d] status = %q, want %q", i, summary.Outcomes[i].Status, want)
		}
	}
	if summary.ID == "" {
		t.Error("summary must carry an id")
	}
	if summary.StartedAt.IsZero() {
		t.Error("started_at not recorded")
	}
}

// One bad file never aborts the rest of the batch.
func TestProcessBatch_failureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	corrupt := writeFile(t, dir, "bad.pdf", "garbage")
	good := writeFile(t, dir, "good.txt", "contract terms")

	p := newTestProcessor()
	summary := p.ProcessBatch(context.Background(), []string{corrupt, good})

	if summary.Failed != 1 || summary.Succeeded != 1 {
		t.Fatalf("counts = ok %d / fail %d, want 1/1", summary.Succeeded, summary.Failed)
	}
	if summary.Outcomes[1].Status != models.StatusSuccess {
		t.Errorf("second outcome = %q, want success", summary.Outcomes[1].Status)
	}
}

func TestProcessBatch_empty(t *testing.T) {
	p := newTestProcessor()
	summary := p.ProcessBatch(context.Background(), nil)

	if summary.Total != 0 || summary.Succeeded != 0 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Errorf("counts must all be zero, got total %d / ok %d / fail %d / skip %d",
			summary.Total, summary.Succeeded, summary.Failed, summary.Skipped)
	}
	if summary.Outcomes == nil {
		t.Error("outcomes must be an empty list, not nil")
	}
	if len(summary.Outcomes) != 0 {
		t.Errorf("outcomes = %d, want 0", len(summary.Outcomes))
	}
}

func TestProcessBatch_parallelPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("f%02d.txt", i)
		paths = append(paths, writeFile(t, dir, name, fmt.Sprintf("invoice number %d", i)))
	}

	p := newTestProcessor(WithWorkers(4))
	summary := p.ProcessBatch(context.Background(), paths)

	if summary.Succeeded != len(paths) {
		t.Fatalf("succeeded = %d, want %d", summary.Succeeded, len(paths))
	}
	for i, o := range summary.Outcomes {
		if o.Path != paths[i] {
			t.Fatalf("outcome[%d] path = %q, want %q", i, o.Path, paths[i])
		}
	}
}

func TestProcessBatch_parallelMixedCounts(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.txt", "payroll benefits"),
		writeFile(t, dir, "b.xyz", ""),
		writeFile(t, dir, "c.pdf", "broken"),
		writeFile(t, dir, "d.txt", "api documentation"),
	}

	p := newTestProcessor(WithWorkers(3))
	summary := p.ProcessBatch(context.Background(), paths)

	if summary.Total != 4 || summary.Succeeded != 2 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("counts = total %d / ok %d / skip %d / fail %d, want 4/2/1/1",
			summary.Total, summary.Succeeded, summary.Skipped, summary.Failed)
	}
}

func TestProcessBatch_canceledContext(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.txt", "one"),
		writeFile(t, dir, "b.txt", "two"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, p := range map[string]*Processor{
		"sequential": newTestProcessor(),
		"parallel":   newTestProcessor(WithWorkers(2)),
	} {
		summary := p.ProcessBatch(ctx, paths)
		if summary.Total != 0 || len(summary.Outcomes) != 0 {
			t.Errorf("%s: got %d outcomes after cancellation, want 0", name, len(summary.Outcomes))
		}
	}
}
