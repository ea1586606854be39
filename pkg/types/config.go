// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TablesConfig holds overrides for the conversion tables. Each map is merged
// onto the built-in MSBib tables; an override wins over the default entry of
// the same key.
type TablesConfig struct {
	// Fields maps BibTeX field names to MSBib element names
	// (e.g. "note: Comments").
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`

	// Types maps BibTeX entry types to MSBib SourceType names
	// (e.g. "online: InternetSite").
	Types map[string]string `json:"types,omitempty" yaml:"types,omitempty" mapstructure:"types"`

	// DefaultType is the SourceType used for unmapped entry types (default "Misc").
	DefaultType string `json:"default_type,omitempty" yaml:"default_type,omitempty" mapstructure:"default_type"`

	// LCIDs maps language names to Windows locale identifiers.
	LCIDs map[string]int `json:"lcids,omitempty" yaml:"lcids,omitempty" mapstructure:"lcids"`

	// DefaultLCID is used for languages missing from LCIDs (default 1033).
	DefaultLCID int `json:"default_lcid,omitempty" yaml:"default_lcid,omitempty" mapstructure:"default_lcid"`

	// ThesisTypes maps techreport, mastersthesis, phdthesis and unpublished
	// to the thesis type label used when no explicit type field exists.
	ThesisTypes map[string]string `json:"thesis_types,omitempty" yaml:"thesis_types,omitempty" mapstructure:"thesis_types"`
}

// LibraryConfig holds settings for the SQLite entry library.
type LibraryConfig struct {
	// DBPath is the SQLite database file (default "library.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MaxResults bounds list queries (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// OutputFormat selects how converted records are dumped.
type OutputFormat string

const (
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
)

// OutputConfig holds settings for conversion output.
type OutputConfig struct {
	// Format is yaml or json.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// EngineConfig groups every configuration section read from msbib-engine.yaml.
type EngineConfig struct {
	Tables   TablesConfig  `json:"tables" yaml:"tables" mapstructure:"tables"`
	Library  LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Output   OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	LogLevel string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}
