package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Desync deletes every listed event whose name matches a source row, undoing
// what earlier runs mirrored.
func (r *Reconciler) Desync(ctx context.Context) (*Report, error) {
	report := newReport(r.now())
	err := r.desync(ctx, report)
	report.FinishedAt = r.now()
	report.Err = err
	return report, err
}

func (r *Reconciler) desync(ctx context.Context, report *Report) error {
	source, err := r.source.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	sink, err := r.ListSinkEvents(ctx)
	if err != nil {
		return err
	}

	names := sourceNames(source)
	for _, event := range sink {
		if !names[event.Name] {
			continue
		}
		if err := r.deleteEvent(ctx, event); err != nil {
			if abortErr := r.itemFailed(ctx, report, StageDesync, event.Name, event.ID, err); abortErr != nil {
				return abortErr
			}
			continue
		}
		r.logger.Info("✅ Mirrored event deleted", zap.String("name", event.Name))
		report.done(StageDesync, event.Name, event.ID)
	}
	return nil
}
