package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/bunrui/internal/models"
)

// ProcessBatch runs the pipeline over paths in their given order. One
// document's failure never aborts the batch. Outcomes preserve input order
// whether the run is sequential or parallel: parallel workers write to the
// slot matching their input index. A canceled context abandons queued
// paths while in-flight files finish; the summary reports completed
// outcomes only. Empty input yields zero counts and an empty list.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) *models.BatchSummary {
	start := time.Now()
	summary := &models.BatchSummary{
		ID:        uuid.New().String(),
		StartedAt: start,
		Outcomes:  make([]*models.Outcome, 0, len(paths)),
	}

	results := make([]*models.Outcome, len(paths))
	if p.workers > 1 && len(paths) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				results[i] = p.ProcessFile(gctx, path)
				return nil
			})
		}
		// Workers never return errors; Wait is the join point.
		_ = g.Wait()
	} else {
		for i, path := range paths {
			if ctx.Err() != nil {
				break
			}
			results[i] = p.ProcessFile(ctx, path)
		}
	}

	for _, o := range results {
		summary.Add(o)
	}
	summary.DurationMS = time.Since(start).Milliseconds()
	if p.logger != nil {
		p.logger.Info("batch complete",
			zap.Int("total", summary.Total),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
			zap.Int64("duration_ms", summary.DurationMS))
	}
	return summary
}
