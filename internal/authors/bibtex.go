// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authors

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/msbib-engine/internal/entry"
)

// ErrMalformedNames is returned when a name list cannot be parsed.
var ErrMalformedNames = errors.New("malformed name list")

// Name is one name token produced by a NameParser. Brace groups are already
// resolved to plain text.
type Name struct {
	First string
	Von   string
	Last  string
	Jr    string
}

// NameParser splits a raw author or editor field into names, preserving
// source order.
type NameParser interface {
	Parse(raw string) ([]Name, error)
}

// BibTeXParser implements the BibTeX name-list grammar: names are separated
// by the word "and" outside braces and each name is written as
// "First von Last", "von Last, First" or "von Last, Jr, First".
type BibTeXParser struct{}

// Parse implements NameParser.
func (BibTeXParser) Parse(raw string) ([]Name, error) {
	if err := checkBraces(raw); err != nil {
		return nil, err
	}
	parts := splitNames(raw)
	names := make([]Name, 0, len(parts))
	for i, part := range parts {
		n, err := parseName(part)
		if err != nil {
			return nil, fmt.Errorf("name %d %q: %w", i+1, part, err)
		}
		names = append(names, n)
	}
	return names, nil
}

func checkBraces(s string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected '}' at offset %d", ErrMalformedNames, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %d unclosed '{'", ErrMalformedNames, depth)
	}
	return nil
}

// splitNames cuts s on the word "and" at brace depth zero. Empty segments
// are dropped.
func splitNames(s string) []string {
	words := tokenize(s, isSpace)
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, w := range words {
		if strings.EqualFold(w, "and") {
			flush()
			continue
		}
		cur = append(cur, w)
	}
	flush()
	return out
}

// tokenize splits s at runes matching sep when they occur outside braces.
// A backslash escapes the rune after it. Separators are not returned and
// empty tokens are skipped.
func tokenize(s string, sep func(rune) bool) []string {
	var out []string
	depth, start := 0, 0
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			depth++
		case r == '}':
			depth--
		case depth == 0 && sep(r):
			if tok := strings.TrimSpace(s[start:i]); tok != "" {
				out = append(out, tok)
			}
			start = i + utf8.RuneLen(r)
		}
	}
	if tok := strings.TrimSpace(s[start:]); tok != "" {
		out = append(out, tok)
	}
	return out
}

func isSpace(r rune) bool { return unicode.IsSpace(r) || r == '~' }

// splitCommas cuts a name at top-level commas, keeping empty parts so that
// "Last, , First" keeps its shape.
func splitCommas(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func parseName(s string) (Name, error) {
	parts := splitCommas(s)
	switch len(parts) {
	case 1:
		words := tokenize(parts[0], isSpace)
		return firstVonLast(words), nil
	case 2:
		von, last := vonLast(tokenize(parts[0], isSpace))
		return Name{First: plain(parts[1]), Von: von, Last: last}, nil
	case 3:
		von, last := vonLast(tokenize(parts[0], isSpace))
		return Name{First: plain(parts[2]), Von: von, Last: last, Jr: plain(parts[1])}, nil
	default:
		return Name{}, fmt.Errorf("%w: %d commas", ErrMalformedNames, len(parts)-1)
	}
}

// firstVonLast handles the comma-free form. The von part starts at the first
// lowercase word that is not the final word; the last word is always Last.
func firstVonLast(words []string) Name {
	switch len(words) {
	case 0:
		return Name{}
	case 1:
		return Name{Last: plain(words[0])}
	}
	vonStart, vonEnd := -1, -1
	for i, w := range words[:len(words)-1] {
		if isLowerWord(w) {
			if vonStart < 0 {
				vonStart = i
			}
			vonEnd = i + 1
		}
	}
	if vonStart < 0 {
		return Name{
			First: joinPlain(words[:len(words)-1]),
			Last:  plain(words[len(words)-1]),
		}
	}
	return Name{
		First: joinPlain(words[:vonStart]),
		Von:   joinPlain(words[vonStart:vonEnd]),
		Last:  joinPlain(words[vonEnd:]),
	}
}

// vonLast splits the part before the first comma: leading lowercase words
// form von, the rest is Last. The final word always belongs to Last.
func vonLast(words []string) (string, string) {
	end := 0
	for end < len(words)-1 && isLowerWord(words[end]) {
		end++
	}
	return joinPlain(words[:end]), joinPlain(words[end:])
}

// isLowerWord reports whether the first letter outside braces is lowercase.
// Brace groups count as uppercase, so "{van} Gogh" keeps "van" in Last.
func isLowerWord(w string) bool {
	for _, r := range w {
		switch {
		case r == '{':
			return false
		case unicode.IsLetter(r):
			return unicode.IsLower(r)
		}
	}
	return false
}

func plain(s string) string {
	return entry.LatexFree(s)
}

func joinPlain(words []string) string {
	return plain(strings.Join(words, " "))
}
