// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/msbib-engine/internal/msbib"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

// Converter converts one entry to MSBib.
type Converter interface {
	Convert(rec msbib.Record) (types.MSBibEntry, error)
}

// ExportSummary holds counts from one export run.
type ExportSummary struct {
	Converted int
	Failed    int
}

// Export converts every matching entry and writes the results to w in the
// given format. Entries that fail to convert are logged and left out; each
// conversion is all-or-nothing, so no partial record is written.
func (s *Store) Export(ctx context.Context, conv Converter, opts QueryOptions, format types.OutputFormat, w io.Writer) (ExportSummary, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = -1
	}
	entries, err := s.Entries(ctx, opts)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("querying for export: %w", err)
	}

	var (
		summary ExportSummary
		out     = make([]types.MSBibEntry, 0, len(entries))
	)
	for _, e := range entries {
		rec, err := conv.Convert(e)
		if err != nil {
			s.log.WithError(err).WithField("key", e.Key()).Warn("conversion failed")
			summary.Failed++
			continue
		}
		out = append(out, rec)
		summary.Converted++
	}

	if err := msbib.Format(w, format, out); err != nil {
		return summary, fmt.Errorf("writing export: %w", err)
	}
	return summary, nil
}
