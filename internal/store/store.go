// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists screening runs and their results in SQLite, with
// an FTS5 index over rationales, and caches embeddings between runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperscreen/pkg/types"
)

const dbFile = "paperscreen.db"

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/paperscreen.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			dataset TEXT,
			model TEXT,
			verdict_source TEXT,
			references_count INTEGER,
			unclassified_count INTEGER,
			failed_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			publishable INTEGER NOT NULL,
			conference TEXT NOT NULL,
			matched_with TEXT NOT NULL,
			similarity REAL NOT NULL,
			plagiarism INTEGER NOT NULL,
			rationale TEXT NOT NULL,
			verdict_source TEXT NOT NULL,
			UNIQUE(run_id, filename)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_conference ON results(conference)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			key TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			dim INTEGER NOT NULL,
			vector BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE results_fts USING fts5(rationale, content=results, content_rowid=rowid)`,
		`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
			INSERT INTO results_fts(rowid, rationale) VALUES (new.rowid, new.rationale);
		END`,
		`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, rationale) VALUES('delete', old.rowid, old.rationale);
		END`,
		`CREATE TRIGGER results_au AFTER UPDATE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, rationale) VALUES('delete', old.rowid, old.rationale);
			INSERT INTO results_fts(rowid, rationale) VALUES (new.rowid, new.rationale);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Run describes one screening run.
type Run struct {
	ID            string              `json:"id" yaml:"id"`
	StartedAt     time.Time           `json:"started_at" yaml:"started_at"`
	Dataset       string              `json:"dataset" yaml:"dataset"`
	Model         string              `json:"model" yaml:"model"`
	VerdictSource types.VerdictSource `json:"verdict_source" yaml:"verdict_source"`
	References    int                 `json:"references" yaml:"references"`
	Unclassified  int                 `json:"unclassified" yaml:"unclassified"`
	Failed        int                 `json:"failed" yaml:"failed"`
	Matched       int                 `json:"matched" yaml:"matched"`
}

// RecordRun stores run and its results in one transaction. Each result's
// RunID is set to run.ID.
func (s *Store) RecordRun(ctx context.Context, run Run, results []types.ClassificationResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, dataset, model, verdict_source, references_count, unclassified_count, failed_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Dataset, run.Model,
		string(run.VerdictSource), run.References, run.Unclassified, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, filename, publishable, conference, matched_with, similarity, plagiarism, rationale, verdict_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx,
			run.ID, r.Filename, r.PredictedPublishable, r.PredictedConference,
			r.MatchedReferenceID, r.SimilarityScore, r.PlagiarismFlag, r.Rationale,
			string(r.VerdictSource),
		)
		if err != nil {
			return fmt.Errorf("inserting result %s: %w", r.Filename, err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.dataset, r.model, r.verdict_source,
			r.references_count, r.unclassified_count, r.failed_count,
			(SELECT count(*) FROM results WHERE run_id = r.id)
		 FROM runs r
		 ORDER BY r.started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
			source  string
		)
		if err := rows.Scan(&r.ID, &started, &r.Dataset, &r.Model, &source,
			&r.References, &r.Unclassified, &r.Failed, &r.Matched); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.VerdictSource = types.VerdictSource(source)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
