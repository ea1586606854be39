// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// EntryKind tags the BibTeX entry types the converter treats specially.
// It is computed once per conversion from the case-insensitive entry type.
type EntryKind int

const (
	KindOther EntryKind = iota
	KindPatent
	KindTechReport
	KindMastersThesis
	KindPhdThesis
	KindUnpublished
)

// ParseEntryKind classifies a BibTeX entry type such as "PhDThesis".
func ParseEntryKind(entryType string) EntryKind {
	switch strings.ToLower(strings.TrimSpace(entryType)) {
	case "patent":
		return KindPatent
	case "techreport":
		return KindTechReport
	case "mastersthesis":
		return KindMastersThesis
	case "phdthesis":
		return KindPhdThesis
	case "unpublished":
		return KindUnpublished
	default:
		return KindOther
	}
}

// String returns the lowercase BibTeX type name, or "other".
func (k EntryKind) String() string {
	switch k {
	case KindPatent:
		return "patent"
	case KindTechReport:
		return "techreport"
	case KindMastersThesis:
		return "mastersthesis"
	case KindPhdThesis:
		return "phdthesis"
	case KindUnpublished:
		return "unpublished"
	default:
		return "other"
	}
}

// DatePart selects a component of a date-valued field.
type DatePart int

const (
	// WholeValue uses the field value verbatim.
	WholeValue DatePart = iota
	DateYear
	DateMonth
	DateDay
)

// FieldAlias is one candidate in an ordered alias list. When Part is not
// WholeValue, the candidate field is read as a date and only that component
// is returned.
type FieldAlias struct {
	Field string   `json:"field" yaml:"field"`
	Part  DatePart `json:"part,omitempty" yaml:"part,omitempty"`
}
