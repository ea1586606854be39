// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

import (
	"fmt"
	"maps"
	"strings"

	"github.com/pdiddy/msbib-engine/pkg/types"
)

const (
	msbibPrefix  = "msbib-"
	bibtexPrefix = "BIBTEX_"
)

// Aliases lists the ordered candidate fields for values that have more
// than one BibTeX or biblatex spelling.
type Aliases struct {
	Day     []types.FieldAlias
	Month   []types.FieldAlias
	Year    []types.FieldAlias
	Journal []types.FieldAlias
	Address []types.FieldAlias
}

// Tables is the immutable configuration of a Converter. Build one with
// DefaultTables or TablesFromConfig and do not modify it after handing it
// to NewConverter.
type Tables struct {
	// Fields maps lowercase BibTeX field names to MSBib element names.
	Fields map[string]string
	// Types maps lowercase BibTeX entry types to MSBib classifications.
	Types map[string]types.SourceType
	// DefaultType classifies entry types missing from Types.
	DefaultType types.SourceType
	// LCIDs maps lowercase language names to Windows locale identifiers.
	LCIDs map[string]int
	// DefaultLCID is used for languages missing from LCIDs.
	DefaultLCID int
	// ThesisTypes labels report-like entry kinds without a type field.
	ThesisTypes map[types.EntryKind]string
	Aliases     Aliases
}

// DefaultTables returns a fresh copy of the built-in BibTeX to MSBib tables.
func DefaultTables() Tables {
	return Tables{
		Fields: map[string]string{
			"bibtexkey":   "Tag",
			"title":       "Title",
			"year":        "Year",
			"volume":      "Volume",
			"language":    types.FieldLCID,
			"edition":     "Edition",
			"publisher":   "Publisher",
			"booktitle":   "BookTitle",
			"shorttitle":  "ShortTitle",
			"note":        "Comments",
			"volumes":     "NumberVolumes",
			"chapter":     "ChapterNumber",
			"issue":       "Issue",
			"school":      "Department",
			"institution": "Institution",
			"doi":         "DOI",
			"url":         "URL",

			// BibTeX-only fields survive a round trip under the BIBTEX_ prefix.
			"series":       bibtexPrefix + "Series",
			"abstract":     bibtexPrefix + "Abstract",
			"keywords":     bibtexPrefix + "KeyWords",
			"crossref":     bibtexPrefix + "CrossRef",
			"howpublished": bibtexPrefix + "HowPublished",
			"pubstate":     bibtexPrefix + "Pubstate",
			"affiliation":  bibtexPrefix + "Affiliation",
			"contents":     bibtexPrefix + "Contents",
			"copyright":    bibtexPrefix + "Copyright",
			"price":        bibtexPrefix + "Price",
			"size":         bibtexPrefix + "Size",
			"intype":       bibtexPrefix + "InType",
			"paper":        bibtexPrefix + "Paper",
			"key":          bibtexPrefix + "Key",

			msbibPrefix + "numberofvolume":        "NumberVolumes",
			msbibPrefix + "periodical":            "PeriodicalTitle",
			msbibPrefix + "day":                   "Day",
			msbibPrefix + "accessed":              "Accessed",
			msbibPrefix + "medium":                "Medium",
			msbibPrefix + "recordingnumber":       "RecordingNumber",
			msbibPrefix + "theater":               "Theater",
			msbibPrefix + "distributor":           "Distributor",
			msbibPrefix + "broadcaster":           "Broadcaster",
			msbibPrefix + "station":               "Station",
			msbibPrefix + "type":                  "Type",
			msbibPrefix + "court":                 "Court",
			msbibPrefix + "reporter":              "Reporter",
			msbibPrefix + "casenumber":            "CaseNumber",
			msbibPrefix + "abbreviatedcasenumber": "AbbreviatedCaseNumber",
			msbibPrefix + "productioncompany":     "ProductionCompany",
		},
		Types: map[string]types.SourceType{
			"book":          types.Book,
			"inbook":        types.BookSection,
			"booklet":       types.BookSection,
			"incollection":  types.BookSection,
			"collection":    types.BookSection,
			"article":       types.JournalArticle,
			"inproceedings": types.ConferenceProceedings,
			"conference":    types.ConferenceProceedings,
			"proceedings":   types.ConferenceProceedings,
			"techreport":    types.Report,
			"mastersthesis": types.Report,
			"phdthesis":     types.Report,
			"unpublished":   types.Report,
			"patent":        types.Patent,
			"manual":        types.Misc,
			"misc":          types.Misc,
			"electronic":    types.Misc,
			"online":        types.Misc,
		},
		DefaultType: types.Misc,
		LCIDs: map[string]int{
			"english": 1033,
		},
		DefaultLCID: 1033,
		ThesisTypes: map[types.EntryKind]string{
			types.KindTechReport:    "Tech. rep.",
			types.KindMastersThesis: "Master's thesis",
			types.KindPhdThesis:     "Ph.D. dissertation",
			types.KindUnpublished:   "unpublished",
		},
		Aliases: Aliases{
			Day: []types.FieldAlias{
				{Field: "day"},
				{Field: "date", Part: types.DateDay},
			},
			Month: []types.FieldAlias{
				{Field: "month"},
				{Field: "date", Part: types.DateMonth},
			},
			Year: []types.FieldAlias{
				{Field: "year"},
				{Field: "date", Part: types.DateYear},
			},
			Journal: []types.FieldAlias{
				{Field: "journal"},
				{Field: "journaltitle"},
			},
			Address: []types.FieldAlias{
				{Field: "address"},
				{Field: "location"},
			},
		},
	}
}

// TablesFromConfig merges cfg onto DefaultTables. Unknown MSBib type names
// and thesis kinds are rejected.
func TablesFromConfig(cfg types.TablesConfig) (Tables, error) {
	t := DefaultTables()

	for k, v := range cfg.Fields {
		k = strings.ToLower(strings.TrimSpace(k))
		if v == "" {
			delete(t.Fields, k)
			continue
		}
		t.Fields[k] = v
	}

	for k, v := range cfg.Types {
		st, ok := types.ParseSourceType(v)
		if !ok {
			return Tables{}, fmt.Errorf("tables.types[%s]: unknown MSBib type %q", k, v)
		}
		t.Types[strings.ToLower(strings.TrimSpace(k))] = st
	}

	if cfg.DefaultType != "" {
		st, ok := types.ParseSourceType(cfg.DefaultType)
		if !ok {
			return Tables{}, fmt.Errorf("tables.default_type: unknown MSBib type %q", cfg.DefaultType)
		}
		t.DefaultType = st
	}

	for k, v := range cfg.LCIDs {
		if v <= 0 {
			return Tables{}, fmt.Errorf("tables.lcids[%s]: invalid locale id %d", k, v)
		}
		t.LCIDs[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if cfg.DefaultLCID > 0 {
		t.DefaultLCID = cfg.DefaultLCID
	}

	for k, v := range cfg.ThesisTypes {
		kind := types.ParseEntryKind(k)
		if kind == types.KindOther || kind == types.KindPatent {
			return Tables{}, fmt.Errorf("tables.thesis_types: %q is not a report entry type", k)
		}
		t.ThesisTypes[kind] = v
	}

	return t, nil
}

// Config renders t in configuration form, the inverse of TablesFromConfig.
func (t Tables) Config() types.TablesConfig {
	cfg := types.TablesConfig{
		Fields:      maps.Clone(t.Fields),
		Types:       make(map[string]string, len(t.Types)),
		DefaultType: t.DefaultType.String(),
		LCIDs:       maps.Clone(t.LCIDs),
		DefaultLCID: t.DefaultLCID,
		ThesisTypes: make(map[string]string, len(t.ThesisTypes)),
	}
	for k, v := range t.Types {
		cfg.Types[k] = v.String()
	}
	for k, v := range t.ThesisTypes {
		cfg.ThesisTypes[k.String()] = v
	}
	return cfg
}

// Classify maps a BibTeX entry type to its MSBib classification. Types
// missing from the table fall back to DefaultType.
func (t Tables) Classify(entryType string) types.SourceType {
	if st, ok := t.Types[strings.ToLower(strings.TrimSpace(entryType))]; ok {
		return st
	}
	return t.DefaultType
}

// LCID returns the locale identifier for a language name.
func (t Tables) LCID(language string) int {
	if id, ok := t.LCIDs[strings.ToLower(strings.TrimSpace(language))]; ok {
		return id
	}
	return t.DefaultLCID
}
