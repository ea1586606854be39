// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/msbib-engine/internal/library"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the entry library (import, list, export)",
	Long: `Library keeps BibTeX entries in a local SQLite database. Use subcommands
to import .bib files, list stored entries, or export them as MSBib records.`,
}

// --- import subcommand ---

var libraryImportCmd = &cobra.Command{
	Use:   "import <file.bib>...",
	Short: "Import BibTeX files into the library",
	Long: `Import parses each file and stores its entries keyed by citation key.
Unchanged entries are skipped on subsequent runs; changed entries are
updated. Entries without a key are stored under a generated UUID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLibraryImport,
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	var failed int
	for _, path := range args {
		summary, err := store.Import(context.Background(), path, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		failed += summary.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d entry(ies) failed to import", failed)
	}
	return nil
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List library entries",
	Long: `List prints stored entries ordered by citation key. A query matches a
substring of the key or title; --type filters by entry type.`,
	RunE: runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.List(context.Background(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(cmd.OutOrStdout(), rows, jsonOutput)
}

func formatListOutput(w io.Writer, rows []library.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-16s  %s\n", "Key", "Type", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range rows {
		fmt.Fprintf(w, "%-24s  %-16s  %s\n", truncate(r.Key, 24), truncate(r.Type, 16), truncate(r.Title, 46))
	}
	fmt.Fprintf(w, "\n%d entries\n", len(rows))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export library entries as MSBib records",
	Long: `Export converts stored entries to MSBib and writes them to standard
output as YAML or JSON. Accepts the same filters as list; without a
--limit every matching entry is exported.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}
	store, err := library.NewStore(cfg.Library, log)
	if err != nil {
		return err
	}
	defer store.Close()

	format := cfg.Output.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = types.OutputFormat(f)
	}

	summary, err := store.Export(context.Background(), conv, queryOptsFromFlags(cmd, args), format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	log.WithField("converted", summary.Converted).WithField("failed", summary.Failed).Info("export finished")
	if summary.Failed > 0 {
		return fmt.Errorf("%d entry(ies) failed conversion", summary.Failed)
	}
	return nil
}

// --- shared helpers ---

func openLibrary() (*library.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return library.NewStore(cfg.Library, log)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	entryType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Type:       entryType,
		Query:      queryText,
		MaxResults: limit,
	}
}

func init() {
	libraryCmd.PersistentFlags().String("db", "", "library database file (default from config)")
	viper.BindPFlag("library.db_path", libraryCmd.PersistentFlags().Lookup("db"))

	// List flags.
	libraryListCmd.Flags().String("query", "", "substring of key or title")
	libraryListCmd.Flags().String("type", "", "filter by entry type")
	libraryListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	libraryListCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("query", "", "substring of key or title for partial export")
	libraryExportCmd.Flags().String("type", "", "filter by entry type for partial export")
	libraryExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")
	libraryExportCmd.Flags().String("format", "", "export format: yaml or json (default from config)")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
