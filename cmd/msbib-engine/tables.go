// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the effective conversion tables",
	Long: `Tables prints the conversion tables after merging the tables section of
the config file onto the built-in defaults. The output can be pasted back
into a config file as a starting point for overrides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conv, err := newConverter(cfg)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"tables": conv.Tables().Config()}); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
