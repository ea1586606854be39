// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the msbib-engine CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/msbib-engine/internal/msbib"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log receives diagnostics; command output goes to the command's writer.
var log = logrus.New()

// rootCmd is the base command for the msbib-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "msbib-engine",
	Short: "Convert BibTeX bibliographies to Microsoft Office MSBib records",
	Long: `msbib-engine reads BibTeX and biblatex databases and converts their
entries into MSBib records, the bibliography model used by Microsoft Word.

Use convert for one-off conversions, or library to keep entries in a local
SQLite database and export them in bulk. Conversion tables can be extended
through the tables section of the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		log.SetLevel(level)
		if used := viper.ConfigFileUsed(); used != "" {
			log.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./msbib-engine.yaml or $XDG_CONFIG_HOME/msbib-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("msbib-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "msbib-engine"))
	}

	viper.SetDefault("library.db_path", filepath.Join(xdg.DataHome, "msbib-engine", "library.db"))
	viper.SetDefault("library.max_results", 50)
	viper.SetDefault("output.format", string(types.OutputYAML))

	viper.SetEnvPrefix("MSBIB_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.WithError(err).Warn("reading config file")
		}
	}
}

// loadConfig decodes the merged flag, environment and file settings.
func loadConfig() (types.EngineConfig, error) {
	var cfg types.EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// newConverter builds a converter from the configured table overrides.
func newConverter(cfg types.EngineConfig) (*msbib.Converter, error) {
	tables, err := msbib.TablesFromConfig(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return msbib.NewConverter(tables, nil), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
