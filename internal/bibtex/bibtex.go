// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex reads BibTeX and biblatex databases into entries.
//
// Field values keep their inner braces so that downstream code can still see
// protected groups such as corporate author names; only the outer delimiters
// are removed. @string macros and # concatenation are expanded, @comment and
// @preamble blocks are skipped.
package bibtex

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/msbib-engine/internal/entry"
)

// SyntaxError reports malformed input with the line it was found on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bibtex: line %d: %s", e.Line, e.Msg)
}

var monthMacros = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// Parse reads every entry from r in source order.
func Parse(r io.Reader) ([]*entry.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bibtex input: %w", err)
	}
	p := &parser{src: string(data), line: 1, macros: make(map[string]string)}
	return p.parse()
}

type parser struct {
	src    string
	pos    int
	line   int
	macros map[string]string
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.peek())) {
		p.next()
	}
}

func (p *parser) parse() ([]*entry.Entry, error) {
	var entries []*entry.Entry
	for {
		// Text outside entries is a comment.
		for !p.eof() && p.peek() != '@' {
			p.next()
		}
		if p.eof() {
			return entries, nil
		}
		p.next()
		p.skipSpace()
		typ := p.ident()
		if typ == "" {
			return nil, p.errorf("missing entry type after '@'")
		}
		p.skipSpace()
		if p.eof() || (p.peek() != '{' && p.peek() != '(') {
			return nil, p.errorf("expected '{' or '(' after @%s", typ)
		}
		open := p.next()
		closer := byte('}')
		if open == '(' {
			closer = ')'
		}

		switch strings.ToLower(typ) {
		case "comment", "preamble":
			if err := p.skipBlock(closer); err != nil {
				return nil, err
			}
		case "string":
			if err := p.parseString(closer); err != nil {
				return nil, err
			}
		default:
			e, err := p.parseEntry(typ, closer)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
}

// ident reads an entry type, key, field or macro name.
func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if unicode.IsSpace(rune(c)) || strings.IndexByte(`{}(),=#"@`, c) >= 0 {
			break
		}
		p.next()
	}
	return p.src[start:p.pos]
}

func (p *parser) skipBlock(closer byte) error {
	depth := 1
	for !p.eof() {
		c := p.next()
		switch {
		case c == '{' || (c == '(' && closer == ')'):
			depth++
		case c == '}' || (c == ')' && closer == ')'):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return p.errorf("unterminated block")
}

func (p *parser) parseString(closer byte) error {
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return p.errorf("@string without name")
	}
	p.skipSpace()
	if p.eof() || p.next() != '=' {
		return p.errorf("expected '=' in @string %s", name)
	}
	v, err := p.value()
	if err != nil {
		return err
	}
	p.macros[strings.ToLower(name)] = v
	p.skipSpace()
	if p.eof() || p.next() != closer {
		return p.errorf("expected %q after @string %s", closer, name)
	}
	return nil
}

func (p *parser) parseEntry(typ string, closer byte) (*entry.Entry, error) {
	startLine := p.line
	p.skipSpace()
	key := p.ident()
	e := entry.New(typ, key)
	for {
		p.skipSpace()
		if p.eof() {
			return nil, &SyntaxError{Line: startLine, Msg: fmt.Sprintf("unterminated entry %q", key)}
		}
		switch c := p.peek(); {
		case c == closer:
			p.next()
			return e, nil
		case c == ',':
			p.next()
			continue
		}
		name := p.ident()
		if name == "" {
			return nil, p.errorf("expected field name in entry %q, found %q", key, p.peek())
		}
		p.skipSpace()
		if p.eof() || p.next() != '=' {
			return nil, p.errorf("expected '=' after field %s in entry %q", name, key)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		e.Set(name, v)
	}
}

// value reads a '#'-joined sequence of braced, quoted, numeric or macro
// parts.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		if p.eof() {
			return "", p.errorf("missing field value")
		}
		switch c := p.peek(); {
		case c == '{':
			p.next()
			s, err := p.delimited('}')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			p.next()
			s, err := p.delimited('"')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		default:
			name := p.ident()
			if name == "" {
				return "", p.errorf("unexpected %q in field value", c)
			}
			b.WriteString(p.expand(name))
		}
		p.skipSpace()
		if p.peek() != '#' {
			return collapse(b.String()), nil
		}
		p.next()
	}
}

// delimited reads up to the unnested end delimiter, keeping inner braces.
func (p *parser) delimited(end byte) (string, error) {
	start, line := p.pos, p.line
	depth := 0
	for !p.eof() {
		c := p.next()
		switch {
		case c == '\\' && !p.eof():
			p.next()
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == end && depth == 0:
			return p.src[start : p.pos-1], nil
		case c == '}':
			return "", p.errorf("unbalanced '}' in field value")
		}
	}
	return "", &SyntaxError{Line: line, Msg: "unterminated field value"}
}

func (p *parser) expand(name string) string {
	if isDigits(name) {
		return name
	}
	key := strings.ToLower(name)
	if v, ok := p.macros[key]; ok {
		return v
	}
	if v, ok := monthMacros[key]; ok {
		return v
	}
	// Undefined macros are kept by name, as BibTeX warns but continues.
	return name
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
