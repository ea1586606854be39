// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msbib

// keyField is the pseudo field name under which the citation key is looked
// up in Tables.Fields.
const keyField = "bibtexkey"

// Translate maps every present field of rec with a known MSBib name into a
// new map, using the markup-free field value. Fields without a table entry
// are dropped.
func (t Tables) Translate(rec Record) map[string]string {
	out := make(map[string]string)
	if key := rec.Key(); key != "" {
		if target, ok := t.Fields[keyField]; ok {
			out[target] = key
		}
	}
	for _, name := range rec.FieldNames() {
		target, ok := t.Fields[name]
		if !ok {
			continue
		}
		v, _ := rec.LatexFreeField(name)
		out[target] = v
	}
	return out
}
