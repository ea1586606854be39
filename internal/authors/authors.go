// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authors turns raw BibTeX author and editor fields into structured
// MSBib person names, flagging corporate authors written inside one pair of
// braces.
package authors

import (
	"strings"

	"github.com/pdiddy/msbib-engine/pkg/types"
)

// ListParser converts author and editor fields into PersonNames.
type ListParser struct {
	names NameParser
}

// NewListParser returns a ListParser backed by p. A nil p selects
// BibTeXParser.
func NewListParser(p NameParser) *ListParser {
	if p == nil {
		p = BibTeXParser{}
	}
	return &ListParser{names: p}
}

// Parse returns the names in raw in source order. The corporate flag is
// decided on the raw string before grammar parsing and applied to every
// resulting name. Errors from the NameParser are returned unchanged.
func (lp *ListParser) Parse(raw string) ([]types.PersonName, error) {
	corporate := IsCorporate(raw)
	names, err := lp.names.Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]types.PersonName, 0, len(names))
	for _, n := range names {
		out = append(out, toPersonName(n, corporate))
	}
	return out, nil
}

// IsCorporate reports whether raw is wrapped, from its first to its last
// character, in a single matching pair of braces.
func IsCorporate(raw string) bool {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(raw)-1
			}
		}
	}
	return false
}

func toPersonName(n Name, corporate bool) types.PersonName {
	last := n.Last
	if n.Von != "" {
		last = n.Von + " " + n.Last
	}
	if corporate {
		return types.PersonName{Last: strings.TrimSpace(joinNonEmpty(n.First, last)), Corporate: true}
	}
	first, middle, _ := strings.Cut(n.First, " ")
	return types.PersonName{
		First:  first,
		Middle: strings.TrimSpace(middle),
		Last:   last,
		Suffix: n.Jr,
	}
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
