// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the msbib-engine
// converter: the MSBib target record, its enumerations, and the
// configuration sections read by the CLI.
package types

import (
	"strconv"
	"strings"
)

// SourceType is the MSBib citation kind written to the SourceType element.
type SourceType int

const (
	Misc SourceType = iota
	Book
	BookSection
	JournalArticle
	ArticleInAPeriodical
	ConferenceProceedings
	Report
	SoundRecording
	Performance
	Art
	DocumentFromInternetSite
	InternetSite
	Film
	Interview
	Patent
	ElectronicSource
	Case
)

var sourceTypeNames = [...]string{
	Misc:                     "Misc",
	Book:                     "Book",
	BookSection:              "BookSection",
	JournalArticle:           "JournalArticle",
	ArticleInAPeriodical:     "ArticleInAPeriodical",
	ConferenceProceedings:    "ConferenceProceedings",
	Report:                   "Report",
	SoundRecording:           "SoundRecording",
	Performance:              "Performance",
	Art:                      "Art",
	DocumentFromInternetSite: "DocumentFromInternetSite",
	InternetSite:             "InternetSite",
	Film:                     "Film",
	Interview:                "Interview",
	Patent:                   "Patent",
	ElectronicSource:         "ElectronicSource",
	Case:                     "Case",
}

// SourceTypes lists every MSBib citation kind in declaration order.
func SourceTypes() []SourceType {
	out := make([]SourceType, len(sourceTypeNames))
	for i := range sourceTypeNames {
		out[i] = SourceType(i)
	}
	return out
}

// String returns the MSBib element value, e.g. "JournalArticle".
func (t SourceType) String() string {
	if t < 0 || int(t) >= len(sourceTypeNames) {
		return "SourceType(" + strconv.Itoa(int(t)) + ")"
	}
	return sourceTypeNames[t]
}

// ParseSourceType resolves an MSBib type name, ignoring case.
func ParseSourceType(name string) (SourceType, bool) {
	for i, n := range sourceTypeNames {
		if strings.EqualFold(n, name) {
			return SourceType(i), true
		}
	}
	return Misc, false
}

// MarshalText implements encoding.TextMarshaler so dumps show the name.
func (t SourceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// PersonName is one parsed author or editor. A corporate name carries the
// whole organization in Last.
type PersonName struct {
	First     string `json:"first,omitempty" yaml:"first,omitempty"`
	Middle    string `json:"middle,omitempty" yaml:"middle,omitempty"`
	Last      string `json:"last,omitempty" yaml:"last,omitempty"`
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Corporate bool   `json:"corporate,omitempty" yaml:"corporate,omitempty"`
}

// PageRange holds a parsed pages field. End is empty for single pages and
// free-form values.
type PageRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// String renders the range as "start-end" or just the start value.
func (p PageRange) String() string {
	if p.End == "" {
		return p.Start
	}
	return p.Start + "-" + p.End
}

// Reserved keys in MSBibEntry.Fields.
const (
	// FieldBibTeXEntry records the original entry type.
	FieldBibTeXEntry = "BIBTEX_Entry"
	// FieldSourceType records the derived MSBib classification.
	FieldSourceType = "SourceType"
	// FieldLCID holds the numeric locale code of the language field.
	FieldLCID = "LCID"
)

// MSBibEntry is a converted citation record. Empty strings and nil values
// mean the slot is unset. At most one of AlbumTitle, BroadcastTitle,
// InternetSiteTitle and PublicationTitle is set.
type MSBibEntry struct {
	// SourceType is the MSBib classification derived from the entry type.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// Fields holds generically translated fields keyed by MSBib element name,
	// plus the BIBTEX_Entry, SourceType and LCID keys.
	Fields map[string]string `json:"fields" yaml:"fields"`

	AlbumTitle        string `json:"album_title,omitempty" yaml:"album_title,omitempty"`
	BroadcastTitle    string `json:"broadcast_title,omitempty" yaml:"broadcast_title,omitempty"`
	InternetSiteTitle string `json:"internet_site_title,omitempty" yaml:"internet_site_title,omitempty"`
	PublicationTitle  string `json:"publication_title,omitempty" yaml:"publication_title,omitempty"`

	Authors []PersonName `json:"authors,omitempty" yaml:"authors,omitempty"`
	Editors []PersonName `json:"editors,omitempty" yaml:"editors,omitempty"`

	Pages          *PageRange `json:"pages,omitempty" yaml:"pages,omitempty"`
	DateAccessed   string     `json:"date_accessed,omitempty" yaml:"date_accessed,omitempty"`
	ConferenceName string     `json:"conference_name,omitempty" yaml:"conference_name,omitempty"`
	ThesisType     string     `json:"thesis_type,omitempty" yaml:"thesis_type,omitempty"`
	Address        string     `json:"address,omitempty" yaml:"address,omitempty"`
	JournalName    string     `json:"journal_name,omitempty" yaml:"journal_name,omitempty"`

	Day   string `json:"day,omitempty" yaml:"day,omitempty"`
	Month string `json:"month,omitempty" yaml:"month,omitempty"`
	Year  string `json:"year,omitempty" yaml:"year,omitempty"`

	// Number and PatentNumber are never both set.
	Number         string `json:"number,omitempty" yaml:"number,omitempty"`
	PatentNumber   string `json:"patent_number,omitempty" yaml:"patent_number,omitempty"`
	StandardNumber string `json:"standard_number,omitempty" yaml:"standard_number,omitempty"`
}

// Field returns a passthrough field and whether it is present.
func (e MSBibEntry) Field(name string) (string, bool) {
	v, ok := e.Fields[name]
	return v, ok
}
