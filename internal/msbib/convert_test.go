// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/msbib-engine/internal/authors"
	"github.com/pdiddy/msbib-engine/internal/entry"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

// --- test helpers ---

func newEntry(entryType string, fields map[string]string) *entry.Entry {
	e := entry.New(entryType, "")
	for k, v := range fields {
		e.Set(k, v)
	}
	return e
}

func convert(t *testing.T, e *entry.Entry) types.MSBibEntry {
	t.Helper()
	got, err := NewConverter(DefaultTables(), nil).Convert(e)
	require.NoError(t, err)
	return got
}

// titleSlots returns the four type-conditional title slots in a fixed order.
func titleSlots(e types.MSBibEntry) []string {
	return []string{e.AlbumTitle, e.BroadcastTitle, e.InternetSiteTitle, e.PublicationTitle}
}

// --- tests ---

func TestConvertEmptyEntry(t *testing.T) {
	got := convert(t, newEntry("article", nil))

	want := types.MSBibEntry{
		SourceType: types.JournalArticle,
		Fields: map[string]string{
			types.FieldBibTeXEntry: "article",
			types.FieldSourceType:  "JournalArticle",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertNumberRouting(t *testing.T) {
	tests := []struct {
		entryType  string
		wantNumber string
		wantPatent string
	}{
		{"Patent", "", "US1234"},
		{"patent", "", "US1234"},
		{"PATENT", "", "US1234"},
		{"Book", "US1234", ""},
		{"techreport", "US1234", ""},
	}
	for _, tt := range tests {
		t.Run(tt.entryType, func(t *testing.T) {
			got := convert(t, newEntry(tt.entryType, map[string]string{"number": "US1234"}))
			assert.Equal(t, tt.wantNumber, got.Number)
			assert.Equal(t, tt.wantPatent, got.PatentNumber)
		})
	}
}

func TestConvertBookNumber(t *testing.T) {
	got := convert(t, newEntry("Book", map[string]string{"number": "7"}))
	assert.Equal(t, "7", got.Number)
	assert.Empty(t, got.PatentNumber)
	assert.Equal(t, types.Book, got.SourceType)
}

func TestConvertLiteralYearWins(t *testing.T) {
	got := convert(t, newEntry("article", map[string]string{
		"year": "2001",
		"date": "1999-05-02",
	}))

	assert.Empty(t, got.Year, "alias lookup must not run when year is present")
	assert.Equal(t, "2001", got.Fields["Year"])
	assert.Equal(t, "5", got.Month)
	assert.Equal(t, "2", got.Day)
}

func TestConvertYearFromDateAlias(t *testing.T) {
	got := convert(t, newEntry("article", map[string]string{"date": "1999-05"}))

	assert.Equal(t, "1999", got.Year)
	assert.Equal(t, "5", got.Month)
	assert.Empty(t, got.Day)
	_, ok := got.Fields["Year"]
	assert.False(t, ok)
}

func TestConvertMonthFieldBeforeDate(t *testing.T) {
	got := convert(t, newEntry("article", map[string]string{
		"month": "jun",
		"date":  "1999-05-02",
	}))
	assert.Equal(t, "jun", got.Month)
	assert.Equal(t, "1999", got.Year)
}

func TestConvertJournalAndAddressAliases(t *testing.T) {
	got := convert(t, newEntry("article", map[string]string{
		"journaltitle": "Journal of Tests",
		"location":     "Berlin",
	}))
	assert.Equal(t, "Journal of Tests", got.JournalName)
	assert.Equal(t, "Berlin", got.Address)

	got = convert(t, newEntry("article", map[string]string{
		"journal":      "Primary",
		"journaltitle": "Secondary",
		"address":      "Paris",
		"location":     "Berlin",
	}))
	assert.Equal(t, "Primary", got.JournalName)
	assert.Equal(t, "Paris", got.Address)

	got = convert(t, newEntry("article", map[string]string{
		"journaltitle": `{ACM} \emph{Queue}`,
		"location":     `Z{\"u}rich`,
	}))
	assert.Equal(t, "ACM Queue", got.JournalName)
	assert.Equal(t, "Zürich", got.Address)
}

func TestConvertBooktitleIsDuplicated(t *testing.T) {
	tests := []struct {
		name      string
		booktitle string
		want      string
	}{
		{"plain", "Proceedings of Testing", "Proceedings of Testing"},
		{"markup", `Proc. of {IEEE} \emph{ICSE}`, "Proc. of IEEE ICSE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convert(t, newEntry("inproceedings", map[string]string{
				"booktitle": tt.booktitle,
			}))
			assert.Equal(t, tt.want, got.ConferenceName)
			assert.Equal(t, got.ConferenceName, got.Fields["BookTitle"])
		})
	}
}

func TestConvertSlotsMatchPassthroughFields(t *testing.T) {
	got := convert(t, newEntry("patent", map[string]string{
		"title":  `The {Light} \textbf{Bulb}`,
		"number": `US\_223898`,
		"type":   `{Utility} patent`,
		"isbn":   `{0-201}-13447-0`,
	}))
	assert.Equal(t, "US_223898", got.PatentNumber)
	assert.Equal(t, "Utility patent", got.ThesisType)
	assert.Equal(t, "ISBN: 0-201-13447-0", got.StandardNumber)
	assert.Equal(t, "The Light Bulb", got.Fields["Title"])

	tables := DefaultTables()
	tables.Types["patent"] = types.InternetSite
	got, err := NewConverter(tables, nil).Convert(newEntry("patent", map[string]string{
		"title": `The {Light} \textbf{Bulb}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, got.Fields["Title"], got.InternetSiteTitle)
}

func TestConvertPagesAndAccessed(t *testing.T) {
	got := convert(t, newEntry("article", map[string]string{
		"pages":          "12--34",
		"msbib-accessed": "2024-01-31",
	}))
	require.NotNil(t, got.Pages)
	assert.Equal(t, types.PageRange{Start: "12", End: "34"}, *got.Pages)
	assert.Equal(t, "2024-01-31", got.DateAccessed)
	assert.Equal(t, "2024-01-31", got.Fields["Accessed"])
}

func TestConvertLanguage(t *testing.T) {
	got := convert(t, newEntry("book", map[string]string{"language": "English"}))
	assert.Equal(t, "1033", got.Fields[types.FieldLCID])

	tables := DefaultTables()
	tables.LCIDs["german"] = 1031
	got, err := NewConverter(tables, nil).Convert(newEntry("book", map[string]string{"language": "German"}))
	require.NoError(t, err)
	assert.Equal(t, "1031", got.Fields[types.FieldLCID])

	got = convert(t, newEntry("book", map[string]string{"language": "Klingon"}))
	assert.Equal(t, "1033", got.Fields[types.FieldLCID], "unknown languages use the default LCID")
}

func TestConvertThesisType(t *testing.T) {
	tests := []struct {
		entryType string
		fields    map[string]string
		want      string
	}{
		{"techreport", nil, "Tech. rep."},
		{"TechReport", nil, "Tech. rep."},
		{"mastersthesis", nil, "Master's thesis"},
		{"phdthesis", nil, "Ph.D. dissertation"},
		{"Unpublished", nil, "unpublished"},
		{"article", nil, ""},
		{"phdthesis", map[string]string{"type": "Habilitation"}, "Habilitation"},
		{"misc", map[string]string{"type": "Data set"}, "Data set"},
	}
	for _, tt := range tests {
		t.Run(tt.entryType+"/"+tt.want, func(t *testing.T) {
			got := convert(t, newEntry(tt.entryType, tt.fields))
			assert.Equal(t, tt.want, got.ThesisType)
		})
	}
}

func TestConvertTitleSlotPerClassification(t *testing.T) {
	tests := []struct {
		sourceType types.SourceType
		slot       int // index into titleSlots, -1 for none
	}{
		{types.SoundRecording, 0},
		{types.Interview, 1},
		{types.InternetSite, 2},
		{types.DocumentFromInternetSite, 2},
		{types.ElectronicSource, 3},
		{types.Art, 3},
		{types.Misc, 3},
		{types.Book, -1},
		{types.JournalArticle, -1},
		{types.Patent, -1},
		{types.Film, -1},
	}
	for _, tt := range tests {
		t.Run(tt.sourceType.String(), func(t *testing.T) {
			tables := DefaultTables()
			tables.Types = map[string]types.SourceType{"custom": tt.sourceType}

			got, err := NewConverter(tables, nil).Convert(newEntry("custom", map[string]string{"title": `A {Title}`}))
			require.NoError(t, err)
			assert.Equal(t, tt.sourceType, got.SourceType)

			filled := 0
			for i, v := range titleSlots(got) {
				if v == "" {
					continue
				}
				filled++
				assert.Equal(t, tt.slot, i)
				assert.Equal(t, "A Title", v)
			}
			if tt.slot < 0 {
				assert.Zero(t, filled)
			} else {
				assert.Equal(t, 1, filled)
			}
			assert.Equal(t, "A Title", got.Fields["Title"])
		})
	}
}

func TestConvertEveryClassificationFillsAtMostOneTitle(t *testing.T) {
	for _, st := range types.SourceTypes() {
		tables := DefaultTables()
		tables.DefaultType = st
		got, err := NewConverter(tables, nil).Convert(newEntry("unmapped", map[string]string{"title": "T"}))
		require.NoError(t, err)

		filled := 0
		for _, v := range titleSlots(got) {
			if v != "" {
				filled++
			}
		}
		assert.LessOrEqual(t, filled, 1, "classification %s", st)
	}
}

func TestConvertAuthorsAndEditors(t *testing.T) {
	got := convert(t, newEntry("book", map[string]string{
		"author": "Smith, John and Doe, Jane",
		"editor": "{Big Corporation}",
	}))
	assert.Equal(t, []types.PersonName{
		{First: "John", Last: "Smith"},
		{First: "Jane", Last: "Doe"},
	}, got.Authors)
	assert.Equal(t, []types.PersonName{{Last: "Big Corporation", Corporate: true}}, got.Editors)
}

func TestConvertMalformedAuthorFails(t *testing.T) {
	got, err := NewConverter(DefaultTables(), nil).Convert(newEntry("book", map[string]string{
		"title":  "Broken",
		"author": "Smith, {John",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, authors.ErrMalformedNames)
	assert.Nil(t, got.Fields, "no partial entry is returned")
}

type failingParser struct{ err error }

func (p failingParser) Parse(string) ([]authors.Name, error) { return nil, p.err }

func TestConvertReturnsParserErrorUnchanged(t *testing.T) {
	want := errors.New("grammar exploded")
	_, err := NewConverter(DefaultTables(), failingParser{err: want}).
		Convert(newEntry("book", map[string]string{"editor": "x"}))
	assert.Same(t, want, err)
}

func TestConvertTranslatesKnownFieldsOnly(t *testing.T) {
	e := newEntry("book", map[string]string{
		"title":     `An \emph{Emphasized} {TCP/IP} Guide`,
		"publisher": "Addison--Wesley",
		"frobnitz":  "dropped",
		"abstract":  "About TeX.",
	})
	e.SetKey("knuth1984")

	got := convert(t, e)

	assert.Equal(t, map[string]string{
		"Tag":                  "knuth1984",
		"Title":                "An Emphasized TCP/IP Guide",
		"Publisher":            "Addison–Wesley",
		"BIBTEX_Abstract":      "About TeX.",
		types.FieldBibTeXEntry: "book",
		types.FieldSourceType:  "Book",
	}, got.Fields)
}

func TestConvertIsDeterministic(t *testing.T) {
	e := newEntry("inproceedings", map[string]string{
		"author":    "Smith, John and Doe, Jane",
		"editor":    "Roe, Richard",
		"title":     "Deterministic Conversion",
		"booktitle": "Proc. Tests",
		"pages":     "1-10",
		"isbn":      "111",
		"issn":      "222",
		"date":      "2020-02-29",
		"language":  "english",
		"location":  "Vienna",
	})
	c := NewConverter(DefaultTables(), nil)

	first, err := c.Convert(e)
	require.NoError(t, err)
	second, err := c.Convert(e)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Convert() differs (-first +second):\n%s", diff)
	}
}

func TestConvertResultDoesNotAliasBuilderState(t *testing.T) {
	c := NewConverter(DefaultTables(), nil)
	e := newEntry("article", map[string]string{"pages": "3-4", "title": "X"})

	first, err := c.Convert(e)
	require.NoError(t, err)
	first.Fields["Title"] = "mutated"
	first.Pages.Start = "99"

	second, err := c.Convert(e)
	require.NoError(t, err)
	assert.Equal(t, "X", second.Fields["Title"])
	assert.Equal(t, "3", second.Pages.Start)
}
