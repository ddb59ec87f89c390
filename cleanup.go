package main

import (
	"context"
)

// Cleanup runs only the past-event deletion stage.
func (r *Reconciler) Cleanup(ctx context.Context) (*Report, error) {
	report := newReport(r.now())
	err := r.cleanup(ctx, report)
	report.FinishedAt = r.now()
	report.Err = err
	return report, err
}

func (r *Reconciler) cleanup(ctx context.Context, report *Report) error {
	sink, err := r.ListSinkEvents(ctx)
	if err != nil {
		return err
	}
	_, err = r.DeletePast(ctx, sink, report)
	return err
}
