// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/msbib-engine/internal/bibtex"
	"github.com/pdiddy/msbib-engine/internal/msbib"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.bib>",
	Short: "Convert a BibTeX file to MSBib records",
	Long: `Convert reads a BibTeX or biblatex file and writes one MSBib record per
entry to standard output as YAML or JSON. Files ending in .gz or .zst are
decompressed; "-" reads standard input.

Entries that fail to convert are reported and left out of the output.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}

	entries, err := bibtex.ParseFile(args[0])
	if err != nil {
		return err
	}
	log.WithField("entries", len(entries)).Debug("parsed bibtex file")

	var (
		out    = make([]types.MSBibEntry, 0, len(entries))
		failed int
	)
	for _, e := range entries {
		rec, err := conv.Convert(e)
		if err != nil {
			log.WithError(err).WithField("key", e.Key()).Warn("conversion failed")
			failed++
			continue
		}
		out = append(out, rec)
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump && log.IsLevelEnabled(logrus.DebugLevel) {
		log.Debug(spew.Sdump(out))
	}

	format := cfg.Output.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = types.OutputFormat(f)
	}
	if err := msbib.Format(cmd.OutOrStdout(), format, out); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d entry(ies) failed conversion", failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("format", "", "output format: yaml or json (default from config)")
	convertCmd.Flags().Bool("dump", false, "dump converted records at debug log level")

	rootCmd.AddCommand(convertCmd)
}
