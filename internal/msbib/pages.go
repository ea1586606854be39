// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

import (
	"regexp"
	"strings"

	"github.com/pdiddy/msbib-engine/pkg/types"
)

var pageRange = regexp.MustCompile(`^\s*(\S+?)\s*(?:-{1,3}|\x{2013}|\x{2014})\s*(\S+)\s*$`)

// ParsePages reads a BibTeX pages field. "12--34", "12-34" and "12–34"
// become a start/end range; anything else is kept as a single value.
func ParsePages(raw string) types.PageRange {
	if m := pageRange.FindStringSubmatch(raw); m != nil {
		return types.PageRange{Start: m[1], End: m[2]}
	}
	return types.PageRange{Start: strings.TrimSpace(raw)}
}
