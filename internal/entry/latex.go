// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entry

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Placeholders keep escaped braces alive through brace stripping.
const (
	openBrace  = '\uE000'
	closeBrace = '\uE001'
)

var (
	escapes = strings.NewReplacer(
		`\&`, "&",
		`\%`, "%",
		`\$`, "$",
		`\#`, "#",
		`\_`, "_",
		`\{`, string(openBrace),
		`\}`, string(closeBrace),
		`\textendash`, "\u2013",
		`\textemdash`, "\u2014",
		`---`, "\u2014",
		`--`, "\u2013",
	)

	accentCmd  = regexp.MustCompile(`\\([\x60'^"~=.]|[cuvHkr](?:\s|\{))\s*\{?\s*([A-Za-z])\s*\}?`)
	letterCmd  = regexp.MustCompile(`\\(ss|ae|AE|oe|OE|aa|AA|o|O|l|L)(?:\{\}|\b\s*)`)
	argCmd     = regexp.MustCompile(`\\[A-Za-z]+\*?\s*\{`)
	bareCmd    = regexp.MustCompile(`\\[A-Za-z]+\*?\s*`)
	whitespace = regexp.MustCompile(`\s+`)
)

var combining = map[string]string{
	"`": "\u0300",
	"'": "\u0301",
	"^": "\u0302",
	"~": "\u0303",
	"=": "\u0304",
	"u": "\u0306",
	".": "\u0307",
	`"`: "\u0308",
	"r": "\u030A",
	"H": "\u030B",
	"v": "\u030C",
	"c": "\u0327",
	"k": "\u0328",
}

var letters = map[string]string{
	"ss": "ß", "ae": "æ", "AE": "Æ", "oe": "œ", "OE": "Œ",
	"aa": "å", "AA": "Å", "o": "ø", "O": "Ø", "l": "ł", "L": "Ł",
}

// LatexFree converts a BibTeX field value to plain Unicode text: escapes and
// accent commands are resolved, other commands and braces are dropped and
// whitespace is collapsed.
func LatexFree(s string) string {
	if !strings.ContainsAny(s, `\{}~`) && !strings.Contains(s, "--") {
		return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	}
	s = escapes.Replace(s)
	s = accentCmd.ReplaceAllStringFunc(s, func(m string) string {
		sub := accentCmd.FindStringSubmatch(m)
		mark := combining[strings.TrimRight(sub[1], " \t\n{")]
		return sub[2] + mark
	})
	s = letterCmd.ReplaceAllStringFunc(s, func(m string) string {
		return letters[letterCmd.FindStringSubmatch(m)[1]]
	})
	s = argCmd.ReplaceAllString(s, "{")
	s = bareCmd.ReplaceAllString(s, "")
	s = strings.NewReplacer("{", "", "}", "", "~", " ").Replace(s)
	s = strings.NewReplacer(string(openBrace), "{", string(closeBrace), "}").Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	return norm.NFC.String(strings.TrimSpace(s))
}
