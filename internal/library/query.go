// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/msbib-engine/internal/entry"
)

// QueryOptions filters library listings.
type QueryOptions struct {
	// Type matches the entry type, ignoring case.
	Type string

	// Query matches a substring of the citation key or title, ignoring case.
	Query string

	// MaxResults limits result count. Zero uses the store default; a
	// negative value removes the limit.
	MaxResults int
}

// IsEmpty reports whether no filter is set.
func (q QueryOptions) IsEmpty() bool {
	return q.Type == "" && q.Query == ""
}

// Summary is one row of a library listing.
type Summary struct {
	Key        string `json:"key" yaml:"key"`
	Type       string `json:"type" yaml:"type"`
	Title      string `json:"title" yaml:"title"`
	Source     string `json:"source" yaml:"source"`
	ImportedAt string `json:"imported_at" yaml:"imported_at"`
}

// List returns matching entries ordered by key.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Summary, error) {
	query, args := s.buildQuery(`key, type, COALESCE(title, ''), COALESCE(source, ''), imported_at`, opts)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var r Summary
		if err := rows.Scan(&r.Key, &r.Type, &r.Title, &r.Source, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Entries returns matching entries ordered by key.
func (s *Store) Entries(ctx context.Context, opts QueryOptions) ([]*entry.Entry, error) {
	query, args := s.buildQuery(`key, type, fields`, opts)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var out []*entry.Entry
	for rows.Next() {
		var key, typ, fieldsJSON string
		if err := rows.Scan(&key, &typ, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e, err := decodeEntry(key, typ, fieldsJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) buildQuery(columns string, opts QueryOptions) (string, []any) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + columns + ` FROM entries WHERE 1=1`)

	if opts.Type != "" {
		qb.WriteString(` AND type = ? COLLATE NOCASE`)
		args = append(args, opts.Type)
	}
	if opts.Query != "" {
		qb.WriteString(` AND (key LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(opts.Query) + "%"
		args = append(args, pattern, pattern)
	}

	qb.WriteString(` ORDER BY key`)

	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}
	if maxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, maxResults)
	}
	return qb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
