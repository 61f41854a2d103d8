package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// SQLiteRecorder persists rating history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 단일 writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if log != nil {
		log.WithField("path", dbPath).Info("SQLite rating recorder opened")
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rating_snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id      TEXT NOT NULL,
			product_id       TEXT NOT NULL,
			timestamp        INTEGER NOT NULL,
			rating           INTEGER NOT NULL,
			confidence_index REAL,
			coverage_factor  REAL,
			sample_factor    REAL,
			composite_z      REAL,
			status_label     TEXT,
			algo_version     TEXT,
			phase            INTEGER,
			pillars          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_product_ts ON rating_snapshots(product_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS status_transitions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			product_id      TEXT NOT NULL,
			product_name    TEXT,
			from_label      TEXT,
			to_label        TEXT,
			previous_rating INTEGER,
			rating          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_ts ON status_transitions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record stores one snapshot
func (r *SQLiteRecorder) Record(ctx context.Context, snap contracts.RatingSnapshot) error {
	pillars, err := json.Marshal(snap.Pillars())
	if err != nil {
		return fmt.Errorf("marshal pillars: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rating_snapshots (
			snapshot_id, product_id, timestamp, rating, confidence_index,
			coverage_factor, sample_factor, composite_z, status_label,
			algo_version, phase, pillars
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.ProductID, snap.Timestamp.UnixMilli(), snap.Rating, snap.ConfidenceIndex,
		snap.CoverageFactor, snap.SampleFactor, snap.CompositeZ, string(snap.StatusLabel),
		snap.AlgoVersion, int(snap.Phase), string(pillars),
	)
	if err != nil {
		return fmt.Errorf("insert rating snapshot: %w", err)
	}
	return nil
}

// RecordTransition stores a status label change
func (r *SQLiteRecorder) RecordTransition(ctx context.Context, t contracts.StatusTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO status_transitions (
			timestamp, product_id, product_name, from_label, to_label, previous_rating, rating
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.At.UnixMilli(), t.ProductID, t.ProductName, string(t.From), string(t.To), t.PreviousRating, t.Rating,
	)
	if err != nil {
		return fmt.Errorf("insert status transition: %w", err)
	}
	return nil
}

// History returns the newest snapshots of a product first
func (r *SQLiteRecorder) History(ctx context.Context, productID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT snapshot_id, product_id, timestamp, rating, confidence_index,
		       status_label, algo_version, phase
		FROM rating_snapshots
		WHERE product_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			ts    int64
			label string
			phase int
		)
		if err := rows.Scan(&e.SnapshotID, &e.ProductID, &ts, &e.Rating, &e.ConfidenceIndex,
			&label, &e.AlgoVersion, &phase); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.StatusLabel = contracts.StatusLabel(label)
		e.Phase = contracts.Phase(phase)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Transitions returns the newest status transitions first
func (r *SQLiteRecorder) Transitions(ctx context.Context, limit int) ([]contracts.StatusTransition, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT timestamp, product_id, product_name, from_label, to_label, previous_rating, rating
		FROM status_transitions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []contracts.StatusTransition
	for rows.Next() {
		var (
			t        contracts.StatusTransition
			ts       int64
			from, to string
		)
		if err := rows.Scan(&ts, &t.ProductID, &t.ProductName, &from, &to, &t.PreviousRating, &t.Rating); err != nil {
			return nil, err
		}
		t.At = time.UnixMilli(ts).UTC()
		t.From = contracts.StatusLabel(from)
		t.To = contracts.StatusLabel(to)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Prune deletes snapshots and transitions older than before
func (r *SQLiteRecorder) Prune(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := before.UnixMilli()
	var total int64
	for _, table := range []string{"rating_snapshots", "status_transitions"} {
		res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", cutoff)
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// Close closes the database
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
