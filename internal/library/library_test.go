// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/msbib-engine/internal/msbib"
	"github.com/pdiddy/msbib-engine/pkg/types"
)

// --- test helpers ---

const sampleBib = `@book{knuth1984,
  author = {Donald E. Knuth},
  title = {The {TeX}book},
  year = 1984,
  isbn = {0-201-13447-0}
}

@patent{edison1880,
  author = {Edison, Thomas},
  title = {Electric Lamp},
  number = {US223898}
}

@article{broken2020,
  author = {Smith, Jr, John, Extra},
  title = {Unbalanced Author}
}
`

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.LibraryConfig{
		DBPath:     filepath.Join(tmpDir, "index", "library.db"),
		MaxResults: 20,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func writeBib(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- tests ---

func TestImportIsIncremental(t *testing.T) {
	store, dir := testStore(t)
	path := writeBib(t, dir, "refs.bib", sampleBib)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := store.Import(ctx, path, &out)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Inserted: 3}, summary)
	assert.Contains(t, out.String(), "inserted knuth1984")

	out.Reset()
	summary, err = store.Import(ctx, path, &out)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Skipped: 3}, summary)
	assert.Equal(t, 3, summary.Total())

	changed := strings.Replace(sampleBib, "year = 1984", "year = 1986", 1)
	writeBib(t, dir, "refs.bib", changed)
	summary, err = store.Import(ctx, path, &out)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Updated: 1, Skipped: 2}, summary)

	e, err := store.Get(ctx, "knuth1984")
	require.NoError(t, err)
	year, _ := e.Field("year")
	assert.Equal(t, "1986", year)
}

func TestImportCompressed(t *testing.T) {
	store, dir := testStore(t)

	var gz bytes.Buffer
	zw := pgzip.NewWriter(&gz)
	_, err := zw.Write([]byte(sampleBib))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gzPath := writeBib(t, dir, "refs.bib.gz", gz.String())

	summary, err := store.Import(context.Background(), gzPath, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Inserted)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := writeBib(t, dir, "more.bib.zst",
		string(enc.EncodeAll([]byte(`@misc{zst1, title = {Compressed}}`), nil)))
	require.NoError(t, enc.Close())

	summary, err = store.Import(context.Background(), zstPath, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
}

func TestImportAssignsKeyToKeylessEntries(t *testing.T) {
	store, dir := testStore(t)
	path := writeBib(t, dir, "keyless.bib", `@misc{, title = {No Key}}`)

	_, err := store.Import(context.Background(), path, &bytes.Buffer{})
	require.NoError(t, err)

	rows, err := store.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, err = uuid.Parse(rows[0].Key)
	assert.NoError(t, err, "key %q should be a UUID", rows[0].Key)
	assert.Equal(t, "No Key", rows[0].Title)
	assert.Equal(t, path, rows[0].Source)
}

func TestImportMissingFile(t *testing.T) {
	store, dir := testStore(t)
	_, err := store.Import(context.Background(), filepath.Join(dir, "nope.bib"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	store, dir := testStore(t)
	path := writeBib(t, dir, "refs.bib", sampleBib)
	ctx := context.Background()
	_, err := store.Import(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all", QueryOptions{}, []string{"broken2020", "edison1880", "knuth1984"}},
		{"type ignores case", QueryOptions{Type: "PATENT"}, []string{"edison1880"}},
		{"title substring", QueryOptions{Query: "texbook"}, []string{"knuth1984"}},
		{"key substring", QueryOptions{Query: "2020"}, []string{"broken2020"}},
		{"like wildcards are literal", QueryOptions{Query: "%"}, nil},
		{"limit", QueryOptions{MaxResults: 1}, []string{"broken2020"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.List(ctx, tt.opts)
			require.NoError(t, err)
			var keys []string
			for _, r := range rows {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExport(t *testing.T) {
	store, dir := testStore(t)
	path := writeBib(t, dir, "refs.bib", sampleBib)
	ctx := context.Background()
	_, err := store.Import(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	conv := msbib.NewConverter(msbib.DefaultTables(), nil)

	var out bytes.Buffer
	summary, err := store.Export(ctx, conv, QueryOptions{}, types.OutputYAML, &out)
	require.NoError(t, err)
	assert.Equal(t, ExportSummary{Converted: 2, Failed: 1}, summary)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)

	// Ordered by key: edison1880, knuth1984.
	assert.Equal(t, "Patent", got[0]["source_type"])
	assert.Equal(t, "US223898", got[0]["patent_number"])
	assert.Nil(t, got[0]["number"])
	assert.Equal(t, "Book", got[1]["source_type"])
	assert.Equal(t, "ISBN: 0-201-13447-0", got[1]["standard_number"])
}

func TestExportJSONFiltered(t *testing.T) {
	store, dir := testStore(t)
	path := writeBib(t, dir, "refs.bib", sampleBib)
	ctx := context.Background()
	_, err := store.Import(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	summary, err := store.Export(ctx, msbib.NewConverter(msbib.DefaultTables(), nil),
		QueryOptions{Type: "book"}, types.OutputJSON, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Converted)
	assert.Contains(t, out.String(), `"Tag": "knuth1984"`)
}
