// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists BibTeX entries in a SQLite database so they can
// be listed, filtered and converted to MSBib in bulk.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/msbib-engine/internal/bibtex"
	"github.com/pdiddy/msbib-engine/internal/entry"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

const (
	defaultDBPath     = "library.db"
	defaultMaxResults = 50
)

// ErrNotFound is returned by Get for unknown citation keys.
var ErrNotFound = errors.New("entry not found")

// Store manages the entry library database.
type Store struct {
	db         *sql.DB
	maxResults int
	log        logrus.FieldLogger
}

// NewStore opens or creates the library database at cfg.DBPath and creates
// the schema if it does not exist. A nil log discards diagnostics.
func NewStore(cfg types.LibraryConfig, log logrus.FieldLogger) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &Store{
		db:         db,
		maxResults: maxResults,
		log:        log.WithField("db", dbPath),
	}

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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT,
			fields TEXT NOT NULL,
			source TEXT,
			imported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(type COLLATE NOCASE)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from one import run.
type ImportSummary struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of entries processed.
func (s ImportSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped + s.Failed
}

// Import reads a BibTeX file, optionally gzip or zstd compressed, and
// stores its entries. Progress lines are written to w.
func (s *Store) Import(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	entries, err := bibtex.ParseFile(path)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportEntries(ctx, entries, path, w)
}

// ImportEntries stores entries, recording source as their origin. Entries
// without a citation key are given a random UUID key. An entry whose type
// and fields are unchanged is skipped.
func (s *Store) ImportEntries(ctx context.Context, entries []*entry.Entry, source string, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary
	now := time.Now().UTC().Format(time.RFC3339)

	for _, e := range entries {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if e.Key() == "" {
			e.SetKey(uuid.NewString())
			s.log.WithField("key", e.Key()).Debug("assigned key to keyless entry")
		}

		fieldsJSON, err := json.Marshal(e.Fields())
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", e.Key(), err)
			summary.Failed++
			continue
		}

		var storedType, storedFields string
		err = s.db.QueryRowContext(ctx,
			`SELECT type, fields FROM entries WHERE key = ?`, e.Key(),
		).Scan(&storedType, &storedFields)
		switch {
		case err == nil && storedType == e.Type() && storedFields == string(fieldsJSON):
			fmt.Fprintf(w, "skipped  %s\n", e.Key())
			summary.Skipped++
			continue
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			fmt.Fprintf(w, "failed   %s: %v\n", e.Key(), err)
			summary.Failed++
			continue
		}
		isUpdate := err == nil

		title, _ := e.LatexFreeField("title")
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO entries (key, type, title, fields, source, imported_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET
				type=excluded.type, title=excluded.title, fields=excluded.fields,
				source=excluded.source, imported_at=excluded.imported_at`,
			e.Key(), e.Type(), title, string(fieldsJSON), source, now,
		)
		if err != nil {
			s.log.WithError(err).WithField("key", e.Key()).Warn("storing entry failed")
			fmt.Fprintf(w, "failed   %s: %v\n", e.Key(), err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated  %s\n", e.Key())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "inserted %s\n", e.Key())
			summary.Inserted++
		}
	}

	fmt.Fprintf(w, "\ninserted: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Inserted, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// Get returns the entry stored under key.
func (s *Store) Get(ctx context.Context, key string) (*entry.Entry, error) {
	var typ, fieldsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT type, fields FROM entries WHERE key = ?`, key,
	).Scan(&typ, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry %s: %w", key, err)
	}
	return decodeEntry(key, typ, fieldsJSON)
}

func decodeEntry(key, typ, fieldsJSON string) (*entry.Entry, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("decoding fields of %s: %w", key, err)
	}
	e := entry.New(typ, key)
	for k, v := range fields {
		e.Set(k, v)
	}
	return e, nil
}
