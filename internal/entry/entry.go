// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entry implements the generic BibTeX record consumed by the MSBib
// converter: an entry type, a citation key and a set of named text fields
// with alias-aware lookup.
package entry

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/pdiddy/msbib-engine/pkg/types"
)

// Entry is a BibTeX or biblatex entry. Field names are case-insensitive and
// stored lowercase. An Entry is not safe for concurrent mutation; the
// converter only reads it.
type Entry struct {
	typ    string
	key    string
	fields map[string]string
}

// New returns an empty entry of the given type.
func New(entryType, key string) *Entry {
	return &Entry{
		typ:    entryType,
		key:    key,
		fields: make(map[string]string),
	}
}

// Type returns the entry type as written in the source, e.g. "Article".
func (e *Entry) Type() string { return e.typ }

// Key returns the citation key.
func (e *Entry) Key() string { return e.key }

// SetKey replaces the citation key.
func (e *Entry) SetKey(key string) { e.key = key }

// Set stores a field value. Setting an empty value removes the field.
func (e *Entry) Set(name, value string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if value == "" {
		delete(e.fields, name)
		return
	}
	e.fields[name] = value
}

// Field returns the stored value of name. Inner braces are kept, so a
// corporate author such as "{Big Corporation}" is returned as written.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(name)]
	return v, ok
}

// LatexFreeField returns the value of name with LaTeX markup removed.
func (e *Entry) LatexFreeField(name string) (string, bool) {
	v, ok := e.Field(name)
	if !ok {
		return "", false
	}
	return LatexFree(v), true
}

// FieldNames returns the names of all present fields in sorted order.
func (e *Entry) FieldNames() []string {
	return slices.Sorted(maps.Keys(e.fields))
}

// Fields returns a copy of the field map.
func (e *Entry) Fields() map[string]string {
	return maps.Clone(e.fields)
}

// FieldOrAlias returns the value of the first candidate that is present.
// Date-part candidates only match when the date can be parsed and carries
// the requested component.
func (e *Entry) FieldOrAlias(candidates []types.FieldAlias) (string, bool) {
	for _, c := range candidates {
		v, ok := e.Field(c.Field)
		if !ok {
			continue
		}
		if c.Part == types.WholeValue {
			return v, true
		}
		if part, ok := datePart(v, c.Part); ok {
			return part, true
		}
	}
	return "", false
}

var isoDate = regexp.MustCompile(`^(\d{4})(?:-(\d{1,2})(?:-(\d{1,2}))?)?(?:[T/ ].*)?$`)

// datePart extracts one component from a biblatex date. ISO-8601 prefixes
// (YYYY, YYYY-MM, YYYY-MM-DD) keep their precision; other spellings fall
// back to dateparse, which always yields a full date. A month outside 1-12
// or a day outside 1-31 counts as absent.
func datePart(raw string, part types.DatePart) (string, bool) {
	raw = strings.TrimSpace(raw)
	if m := isoDate.FindStringSubmatch(raw); m != nil {
		var (
			s      string
			maxVal int
		)
		switch part {
		case types.DateYear:
			s = m[1]
		case types.DateMonth:
			s, maxVal = m[2], 12
		case types.DateDay:
			s, maxVal = m[3], 31
		}
		if s == "" {
			return "", false
		}
		n, err := strconv.Atoi(s)
		if err != nil || (maxVal > 0 && (n < 1 || n > maxVal)) {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return "", false
	}
	switch part {
	case types.DateYear:
		return strconv.Itoa(t.Year()), true
	case types.DateMonth:
		return strconv.Itoa(int(t.Month())), true
	case types.DateDay:
		return strconv.Itoa(t.Day()), true
	}
	return "", false
}
