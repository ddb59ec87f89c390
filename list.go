package main

import (
	"database/sql"
	"fmt"
	"io"
	"time"
)

func saveReport(db *sql.DB, report *Report) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runErr string
	if report.Err != nil {
		runErr = report.Err.Error()
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO sync_runs
		(run_id, started_at, finished_at, inserted, deleted, skipped, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		report.Inserted(),
		report.Deleted(),
		report.Count("", OutcomeSkipped),
		report.Count("", OutcomeFailed),
		runErr)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}

	for i, result := range report.Results {
		_, err = tx.Exec(`INSERT INTO sync_actions
			(run_id, seq, stage, event_name, event_id, outcome, error_kind, detail)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, string(result.Stage), result.Name, result.EventID,
			string(result.Outcome), string(result.Kind), result.Detail)
		if err != nil {
			return fmt.Errorf("inserting sync action: %w", err)
		}
	}
	return tx.Commit()
}

func listHistory(db *sql.DB, w io.Writer, limit int) error {
	fmt.Fprintln(w, "📋 Recent synchronization runs:")

	rows, err := db.Query(`SELECT run_id, started_at, inserted, deleted, skipped, failed, error
		FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return fmt.Errorf("retrieving sync runs from database: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var runID, startedAt, runErr string
		var inserted, deleted, skipped, failed int
		if err := rows.Scan(&runID, &startedAt, &inserted, &deleted, &skipped, &failed, &runErr); err != nil {
			return fmt.Errorf("unable to read sync run record: %w", err)
		}
		status := "✅"
		if runErr != "" {
			status = "❌"
		}
		fmt.Fprintf(w, "  %s %s (%s) ➕ %d 🗑 %d ⏭ %d ❗️ %d\n", status, startedAt, runID, inserted, deleted, skipped, failed)
		if runErr != "" {
			fmt.Fprintf(w, "      %s\n", runErr)
		}
	}
	return rows.Err()
}

func listSinkEvents(w io.Writer, calendarID string, events []SinkEvent) {
	fmt.Fprintf(w, "📅 Events in calendar %s:\n", calendarID)
	for _, event := range events {
		fmt.Fprintf(w, "  %s  %s (%s)\n", event.Date, event.Name, event.ID)
	}
}

func listSourceEvents(w io.Writer, events []SourceEvent) {
	for _, event := range events {
		fmt.Fprintf(w, "Event: %s, Date: %s\n", event.Name, event.Date)
	}
}
