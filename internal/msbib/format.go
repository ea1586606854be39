// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/msbib-engine/pkg/types"
)

// FormatYAML writes entries as a YAML list to w.
func FormatYAML(w io.Writer, entries []types.MSBibEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(entries)
}

// FormatJSON writes entries as an indented JSON array to w.
func FormatJSON(w io.Writer, entries []types.MSBibEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Format dispatches on the configured output format.
func Format(w io.Writer, format types.OutputFormat, entries []types.MSBibEntry) error {
	switch format {
	case types.OutputYAML, "":
		return FormatYAML(w, entries)
	case types.OutputJSON:
		return FormatJSON(w, entries)
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}
