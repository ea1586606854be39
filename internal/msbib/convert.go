// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package msbib converts BibTeX entries into MSBib citation records, the
// bibliography schema of word-processor reference tooling.
//
// A Converter applies its Tables in one pass: classification, generic field
// translation, type-conditional overrides, alias resolution, person name
// parsing and standard number synthesis. Converters hold no mutable state
// and are safe for concurrent use.
package msbib

import (
	"maps"
	"strconv"

	"github.com/pdiddy/msbib-engine/internal/authors"
	"github.com/pdiddy/msbib-engine/internal/entry"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

// Record is the generic bibliographic entry read by the converter.
type Record interface {
	// Type returns the entry type, e.g. "article".
	Type() string
	// Key returns the citation key, or "".
	Key() string
	// Field returns the value of name and whether it is present.
	Field(name string) (string, bool)
	// LatexFreeField returns the value of name without LaTeX markup.
	LatexFreeField(name string) (string, bool)
	// FieldOrAlias returns the first present candidate.
	FieldOrAlias(candidates []types.FieldAlias) (string, bool)
	// FieldNames lists the present field names.
	FieldNames() []string
}

// Source field names read directly by the converter.
const (
	fieldAuthor    = "author"
	fieldEditor    = "editor"
	fieldBooktitle = "booktitle"
	fieldPages     = "pages"
	fieldAccessed  = msbibPrefix + "accessed"
	fieldNumber    = "number"
	fieldYear      = "year"
	fieldLanguage  = "language"
	fieldType      = "type"
	fieldTitle     = "title"
)

// Converter turns Records into MSBib entries.
type Converter struct {
	tables Tables
	names  *authors.ListParser
}

// NewConverter returns a Converter using tables and the given name-list
// grammar. A nil parser selects authors.BibTeXParser.
func NewConverter(tables Tables, parser authors.NameParser) *Converter {
	return &Converter{
		tables: tables,
		names:  authors.NewListParser(parser),
	}
}

// Tables returns the tables the converter was built with.
func (c *Converter) Tables() Tables { return c.tables }

// builder collects the slots of one conversion before they are frozen into
// a types.MSBibEntry.
type builder struct {
	types.MSBibEntry
}

// Convert maps rec to an MSBib entry. A missing field never fails; the only
// error is the name parser's, returned as is for a malformed author or
// editor list, in which case no entry is returned.
func (c *Converter) Convert(rec Record) (types.MSBibEntry, error) {
	var b builder
	t := c.tables

	// Classification and bookkeeping. The entry kind replaces repeated
	// string comparisons against the raw type below.
	b.SourceType = t.Classify(rec.Type())
	kind := types.ParseEntryKind(rec.Type())

	b.Fields = t.Translate(rec)
	b.Fields[types.FieldBibTeXEntry] = rec.Type()
	b.Fields[types.FieldSourceType] = b.SourceType.String()

	// Dedicated slots read the same markup-free text as the passthrough map,
	// so a slot and its Fields counterpart always agree. Only the name lists
	// below see raw values, since corporate detection needs the braces.

	// Also present as BookTitle in Fields.
	if v, ok := rec.LatexFreeField(fieldBooktitle); ok {
		b.ConferenceName = v
	}
	if v, ok := rec.LatexFreeField(fieldPages); ok {
		pages := ParsePages(v)
		b.Pages = &pages
	}
	if v, ok := rec.LatexFreeField(fieldAccessed); ok {
		b.DateAccessed = v
	}

	if v, ok := rec.LatexFreeField(fieldNumber); ok {
		switch kind {
		case types.KindPatent:
			b.PatentNumber = v
		default:
			b.Number = v
		}
	}

	b.Day = aliasValue(rec, t.Aliases.Day)
	b.Month = aliasValue(rec, t.Aliases.Month)
	if _, ok := rec.Field(fieldYear); !ok {
		b.Year = aliasValue(rec, t.Aliases.Year)
	}
	b.JournalName = aliasValue(rec, t.Aliases.Journal)
	b.Address = aliasValue(rec, t.Aliases.Address)

	if lang, ok := rec.LatexFreeField(fieldLanguage); ok {
		b.Fields[types.FieldLCID] = strconv.Itoa(t.LCID(lang))
	}

	b.StandardNumber = StandardNumber(rec)

	if v, ok := rec.LatexFreeField(fieldType); ok {
		b.ThesisType = v
	} else {
		b.ThesisType = t.ThesisTypes[kind]
	}

	title, _ := rec.LatexFreeField(fieldTitle)
	b.setTitle(title)

	var err error
	if b.Authors, err = c.parseNames(rec, fieldAuthor); err != nil {
		return types.MSBibEntry{}, err
	}
	if b.Editors, err = c.parseNames(rec, fieldEditor); err != nil {
		return types.MSBibEntry{}, err
	}

	return b.freeze(), nil
}

// setTitle fills the single title slot that belongs to the classification.
func (b *builder) setTitle(title string) {
	switch b.SourceType {
	case types.SoundRecording:
		b.AlbumTitle = title
	case types.Interview:
		b.BroadcastTitle = title
	case types.InternetSite, types.DocumentFromInternetSite:
		b.InternetSiteTitle = title
	case types.ElectronicSource, types.Art, types.Misc:
		b.PublicationTitle = title
	case types.Book, types.BookSection, types.JournalArticle,
		types.ArticleInAPeriodical, types.ConferenceProceedings,
		types.Report, types.Performance, types.Film, types.Patent,
		types.Case:
		// Title only travels through Fields.
	}
}

// aliasValue resolves candidates and strips markup from the match.
func aliasValue(rec Record, candidates []types.FieldAlias) string {
	v, ok := rec.FieldOrAlias(candidates)
	if !ok {
		return ""
	}
	return entry.LatexFree(v)
}

func (c *Converter) parseNames(rec Record, field string) ([]types.PersonName, error) {
	raw, ok := rec.Field(field)
	if !ok {
		return nil, nil
	}
	return c.names.Parse(raw)
}

// freeze copies the builder into a value that shares no memory with it.
func (b *builder) freeze() types.MSBibEntry {
	out := b.MSBibEntry
	out.Fields = maps.Clone(b.Fields)
	if b.Pages != nil {
		p := *b.Pages
		out.Pages = &p
	}
	return out
}
