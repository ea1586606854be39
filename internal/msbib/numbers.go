// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

import "strings"

// standardNumberParts lists the identifier fields folded into the MSBib
// StandardNumber element, in output order.
var standardNumberParts = []struct {
	field string
	label string
}{
	{"isbn", "ISBN"},
	{"issn", "ISSN"},
	{"lccn", "LCCN"},
	{"mrnumber", "MRN"},
}

// StandardNumber joins the ISBN, ISSN, LCCN and MR number of rec as
// markup-free "LABEL: value" fragments separated by single spaces. It returns "" when
// none of them is present.
func StandardNumber(rec Record) string {
	var parts []string
	for _, p := range standardNumberParts {
		if v, ok := rec.LatexFreeField(p.field); ok {
			parts = append(parts, p.label+": "+v)
		}
	}
	return strings.Join(parts, " ")
}
