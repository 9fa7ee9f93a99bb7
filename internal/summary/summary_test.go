package summary_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/postprocess/internal/fields"
	"github.com/unbound-force/postprocess/internal/record"
	"github.com/unbound-force/postprocess/internal/summary"
)

func testWriter() summary.Writer {
	return summary.Writer{
		Extractor:    fields.Extractor{NonComparable: []string{"ast"}},
		Indent:       "    ",
		ManifestFile: "fields_summary.json",
	}
}

func sampleRecords(t *testing.T) []record.Record {
	t.Helper()
	records, err := record.Read(strings.NewReader(strings.Join([]string{
		`{"name":"f1","body":"a < b && c","ast":"null"}`,
		`{"name":"f2","body":null,"ast":{"k":1}}`,
		`{"name":"f1","body":"a < b && c","ast":{"k":1}}`,
	}, "\n")))
	if err != nil {
		t.Fatalf("reading records: %v", err)
	}
	return records
}

// dumpFile mirrors the JSON layout of a field dump for decoding in
// tests.
type dumpFile struct {
	FieldName string            `json:"field_name"`
	IsUniq    bool              `json:"is_uniq"`
	Count     int               `json:"count"`
	Items     []json.RawMessage `json:"items"`
}

func readDump(t *testing.T, path string) dumpFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var d dumpFile
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return d
}

func TestWriteFields_UniqDumps(t *testing.T) {
	dir := t.TempDir()
	w := testWriter()

	manifest, err := w.WriteFields(sampleRecords(t), []string{"name", "body", "ast"}, dir, true)
	if err != nil {
		t.Fatalf("WriteFields() error: %v", err)
	}

	names := readDump(t, filepath.Join(dir, "names_uniq.json"))
	if !names.IsUniq || names.Count != 2 || len(names.Items) != 2 {
		t.Errorf("unexpected names dump: %+v", names)
	}

	bodies := readDump(t, filepath.Join(dir, "bodys_uniq.json"))
	if bodies.Count != 1 {
		t.Errorf("expected 1 distinct body, got %d", bodies.Count)
	}

	asts := readDump(t, filepath.Join(dir, "asts_uniq.json"))
	if asts.Count != 2 {
		t.Errorf("ast must not be deduplicated: expected 2, got %d", asts.Count)
	}

	if len(manifest) != 3 {
		t.Fatalf("expected 3 manifest entries, got %d", len(manifest))
	}
	if manifest[0].FieldName != "name" || manifest[2].FieldName != "ast" {
		t.Errorf("manifest not in field order: %+v", manifest)
	}
}

func TestWriteFields_FullDumpsAndManifestFile(t *testing.T) {
	dir := t.TempDir()
	w := testWriter()

	want, err := w.WriteFields(sampleRecords(t), []string{"name", "doc"}, dir, false)
	if err != nil {
		t.Fatalf("WriteFields() error: %v", err)
	}

	names := readDump(t, filepath.Join(dir, "names.json"))
	if names.IsUniq || names.Count != 3 {
		t.Errorf("unexpected full names dump: %+v", names)
	}

	docs := readDump(t, filepath.Join(dir, "docs.json"))
	if docs.Count != 0 || docs.Items == nil {
		t.Errorf("expected empty items array for absent field, got %+v", docs)
	}

	got, err := summary.ReadManifest(filepath.Join(dir, "fields_summary.json"))
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("manifest length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "fields_summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "items") {
		t.Error("manifest must not contain items")
	}
}

func TestWriteFields_CountEqualsItems(t *testing.T) {
	dir := t.TempDir()
	names := []string{"name", "body", "ast"}
	for _, dedup := range []bool{true, false} {
		if _, err := testWriter().WriteFields(sampleRecords(t), names, dir, dedup); err != nil {
			t.Fatal(err)
		}
		for _, n := range names {
			d := readDump(t, filepath.Join(dir, fields.FileName(n, dedup)))
			if d.Count != len(d.Items) {
				t.Errorf("%s dedup=%v: count %d != %d items", n, dedup, d.Count, len(d.Items))
			}
			for _, item := range d.Items {
				if string(item) == "null" || string(item) == `"null"` {
					t.Errorf("%s dedup=%v: null value leaked into items", n, dedup)
				}
			}
		}
	}
}

func TestWritePretty_Verbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "methods_pretty.json")
	records := sampleRecords(t)
	if err := testWriter().WritePretty(records, path); err != nil {
		t.Fatalf("WritePretty() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "[\n    {\n        \"name\": \"f1\"") {
		t.Errorf("unexpected pretty layout:\n%s", out)
	}
	// Null values and the sentinel are kept verbatim.
	if !strings.Contains(out, `"body": null`) || !strings.Contains(out, `"ast": "null"`) {
		t.Errorf("pretty dump must not filter values:\n%s", out)
	}
	if !strings.Contains(out, "a < b && c") {
		t.Errorf("expected unescaped HTML characters:\n%s", out)
	}

	var parsed []map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("pretty dump is not valid JSON: %v", err)
	}
	if len(parsed) != len(records) {
		t.Errorf("expected %d records, got %d", len(records), len(parsed))
	}
}

func TestWritePretty_NoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "methods_pretty.json")
	if err := testWriter().WritePretty(nil, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %q", data)
	}
}

func TestReadManifest_Missing(t *testing.T) {
	if _, err := summary.ReadManifest(filepath.Join(t.TempDir(), "fields_summary.json")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestFingerprint(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	w := testWriter()
	for _, dir := range []string{a, b} {
		if _, err := w.WriteFields(sampleRecords(t), []string{"name", "ast"}, dir, true); err != nil {
			t.Fatal(err)
		}
	}

	fa, err := summary.Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	fb, err := summary.Fingerprint(b)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if fa != fb {
		t.Errorf("identical trees should share a fingerprint: %s vs %s", fa, fb)
	}

	if err := os.WriteFile(filepath.Join(b, "names_uniq.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := summary.Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if fc == fa {
		t.Error("changed content should change the fingerprint")
	}
}
