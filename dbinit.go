package main

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func dbInit(db *sql.DB) error {
	var dbVersion int
	err := db.QueryRow("SELECT version FROM db_version WHERE name='notion2gcal'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			return fmt.Errorf("creating db_version table: %w", err)
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO db_version (name, version) VALUES ('notion2gcal', 0)`)
		if err != nil {
			return fmt.Errorf("initializing db_version table: %w", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			return fmt.Errorf("creating tokens table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT,
			finished_at TEXT,
			inserted INTEGER,
			deleted INTEGER,
			skipped INTEGER,
			failed INTEGER,
			error TEXT
		)`)
		if err != nil {
			return fmt.Errorf("creating sync_runs table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_actions (
			run_id TEXT,
			seq INTEGER,
			stage TEXT,
			event_name TEXT,
			event_id TEXT,
			outcome TEXT,
			error_kind TEXT,
			detail TEXT,
			PRIMARY KEY (run_id, seq)
		)`)
		if err != nil {
			return fmt.Errorf("creating sync_actions table: %w", err)
		}

		dbVersion = schemaVersion
		_, err = db.Exec(`UPDATE db_version SET version = ? WHERE name = 'notion2gcal'`, dbVersion)
		if err != nil {
			return fmt.Errorf("updating db_version table: %w", err)
		}
	}
	return nil
}
