// Package storage provides a SQLite-backed journal of dispatched alerts.
// The journal is an audit surface for the console view; in-cycle
// de-duplication never consults it, so losing the file only loses history.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

// Storage wraps a SQLite database for alert journaling.
type Storage struct {
	db        *sql.DB
	maxAlerts int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/smart-money-alert/data.db.
func New(maxAlerts int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "smart-money-alert", "data.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxAlerts: maxAlerts}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alerts (
			id            TEXT PRIMARY KEY,
			identity      TEXT NOT NULL,
			league        TEXT,
			date_text     TEXT,
			time_text     TEXT,
			home          TEXT NOT NULL,
			away          TEXT NOT NULL,
			norm_date     TEXT NOT NULL,
			norm_home     TEXT NOT NULL,
			norm_away     TEXT NOT NULL,
			outcome       TEXT NOT NULL,
			smart_pct     REAL NOT NULL,
			drop_pct      REAL NOT NULL,
			detected_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_detected_at ON alerts(detected_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_identity ON alerts(identity)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordAlert appends a dispatched alert to the journal and trims the journal
// to the configured cap, oldest entries first.
func (s *Storage) RecordAlert(alert *models.Alert) error {
	if err := alert.Validate(); err != nil {
		return fmt.Errorf("invalid alert: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO alerts
			(id, identity, league, date_text, time_text, home, away,
			 norm_date, norm_home, norm_away, outcome, smart_pct, drop_pct, detected_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), alert.Identity(), alert.League, alert.Date, alert.Time,
		alert.Home, alert.Away,
		alert.Key.Date, alert.Key.Home, alert.Key.Away,
		string(alert.Outcome), alert.SmartPct, alert.DropPct,
		alert.DetectedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	if _, err = tx.Exec(`
		DELETE FROM alerts WHERE id NOT IN (
			SELECT id FROM alerts ORDER BY detected_at DESC, id LIMIT ?
		)`, s.maxAlerts); err != nil {
		return fmt.Errorf("failed to enforce alert cap: %w", err)
	}

	return tx.Commit()
}

// RecentAlerts returns the newest k journaled alerts, most recent first.
func (s *Storage) RecentAlerts(k int) ([]models.Alert, error) {
	rows, err := s.db.Query(`
		SELECT league, date_text, time_text, home, away,
		       norm_date, norm_home, norm_away, outcome, smart_pct, drop_pct, detected_at
		FROM alerts ORDER BY detected_at DESC, id LIMIT ?`, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var outcome string
		var detectedAtNano int64

		err := rows.Scan(
			&a.League, &a.Date, &a.Time, &a.Home, &a.Away,
			&a.Key.Date, &a.Key.Home, &a.Key.Away,
			&outcome, &a.SmartPct, &a.DropPct, &detectedAtNano,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.Outcome = models.Outcome(outcome)
		a.DetectedAt = time.Unix(0, detectedAtNano)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// CountAlerts returns the journal size.
func (s *Storage) CountAlerts() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return n, nil
}
