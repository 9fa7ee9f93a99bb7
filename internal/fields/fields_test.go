package fields_test

import (
	"strings"
	"testing"

	"github.com/unbound-force/postprocess/internal/fields"
	"github.com/unbound-force/postprocess/internal/record"
)

var extractor = fields.Extractor{NonComparable: []string{"ast"}}

func mustRead(t *testing.T, lines ...string) []record.Record {
	t.Helper()
	records, err := record.Read(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("reading records: %v", err)
	}
	return records
}

func texts(items []record.Value) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = v.Text()
	}
	return out
}

func TestExtract_ExampleFromAnalyzerOutput(t *testing.T) {
	records := mustRead(t,
		`{"name":"f1","ast":"null"}`,
		`{"name":"f2","ast":{"k":1}}`,
	)

	names := extractor.Extract(records, "name", true)
	if got := strings.Join(texts(names), ","); got != "f1,f2" {
		t.Errorf("expected names f1,f2, got %s", got)
	}

	for _, dedup := range []bool{true, false} {
		asts := extractor.Extract(records, "ast", dedup)
		if len(asts) != 1 {
			t.Fatalf("dedup=%v: expected 1 ast, got %d", dedup, len(asts))
		}
		if asts[0].Text() != `{"k":1}` {
			t.Errorf("dedup=%v: unexpected ast %s", dedup, asts[0].Text())
		}
	}
}

func TestExtract_FiltersNullAndSentinel(t *testing.T) {
	records := mustRead(t,
		`{"doc":null}`,
		`{"doc":"null"}`,
		`{}`,
		`{"doc":"real"}`,
	)

	for _, dedup := range []bool{true, false} {
		items := extractor.Extract(records, "doc", dedup)
		if len(items) != 1 || items[0].Text() != "real" {
			t.Errorf("dedup=%v: expected [real], got %v", dedup, texts(items))
		}
	}
}

func TestExtract_NotDeduplicatedKeepsOrderAndDuplicates(t *testing.T) {
	records := mustRead(t,
		`{"file":"b.java"}`,
		`{"file":"a.java"}`,
		`{"file":"b.java"}`,
	)

	items := extractor.Extract(records, "file", false)
	if got := strings.Join(texts(items), ","); got != "b.java,a.java,b.java" {
		t.Errorf("unexpected items: %s", got)
	}
}

func TestExtract_DeduplicatedHasNoRepeats(t *testing.T) {
	records := mustRead(t,
		`{"file":"b.java"}`,
		`{"file":"a.java"}`,
		`{"file":"b.java"}`,
		`{"file":"a.java"}`,
	)

	items := extractor.Extract(records, "file", true)
	seen := map[string]bool{}
	for _, v := range items {
		if seen[v.Key()] {
			t.Errorf("duplicate value %q in deduplicated items", v.Text())
		}
		seen[v.Key()] = true
	}
	if len(items) != 2 {
		t.Errorf("expected 2 distinct files, got %d", len(items))
	}
}

func TestExtract_DeduplicatesEqualNumbers(t *testing.T) {
	records := mustRead(t,
		`{"doc":1}`,
		`{"doc":1.0}`,
		`{"doc":"1"}`,
		`{"doc":2}`,
	)

	items := extractor.Extract(records, "doc", true)
	if got := strings.Join(texts(items), ","); got != "1,1,2" {
		t.Errorf("expected first-seen 1, string \"1\" and 2, got %s", got)
	}
	if items[1].Kind() != record.KindString {
		t.Errorf("expected second item to be the string \"1\", got %s", items[1].Kind())
	}
}

func TestExtract_NonComparableNeverDeduplicated(t *testing.T) {
	records := mustRead(t,
		`{"ast":{"k":1}}`,
		`{"ast":{"k":1}}`,
	)

	uniq := extractor.Extract(records, "ast", true)
	full := extractor.Extract(records, "ast", false)
	if len(uniq) != 2 || len(full) != 2 {
		t.Fatalf("expected ast values to be kept twice, got uniq=%d full=%d", len(uniq), len(full))
	}
	for i := range full {
		if uniq[i].Key() != full[i].Key() {
			t.Errorf("item %d differs between modes", i)
		}
	}
}

func TestExtract_MissingFieldYieldsEmpty(t *testing.T) {
	records := mustRead(t, `{"name":"a"}`)
	items := extractor.Extract(records, "comment", true)
	if items == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestNewDump_CountMatchesItems(t *testing.T) {
	records := mustRead(t, `{"name":"a"}`, `{"name":"a"}`, `{"name":null}`)
	for _, dedup := range []bool{true, false} {
		d := fields.NewDump("name", dedup, extractor.Extract(records, "name", dedup))
		if d.Count != len(d.Items) {
			t.Errorf("dedup=%v: count %d != len(items) %d", dedup, d.Count, len(d.Items))
		}
	}

	empty := fields.NewDump("doc", false, nil)
	if empty.Items == nil || empty.Count != 0 {
		t.Errorf("expected empty dump with non-nil items, got %+v", empty)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		field string
		uniq  bool
		want  string
	}{
		{"name", true, "names_uniq.json"},
		{"name", false, "names.json"},
		{"full_name", false, "full_names.json"},
		{"ast", true, "asts_uniq.json"},
	}
	for _, tt := range tests {
		if got := fields.FileName(tt.field, tt.uniq); got != tt.want {
			t.Errorf("FileName(%q, %v) = %q, want %q", tt.field, tt.uniq, got, tt.want)
		}
	}
}

func TestManifest_TotalAndLookup(t *testing.T) {
	m := fields.Manifest{
		{FieldName: "name", Count: 3},
		{FieldName: "ast", Count: 2},
	}
	if m.Total() != 5 {
		t.Errorf("expected total 5, got %d", m.Total())
	}
	if e, ok := m.Lookup("ast"); !ok || e.Count != 2 {
		t.Errorf("unexpected lookup result: %+v %v", e, ok)
	}
	if _, ok := m.Lookup("body"); ok {
		t.Error("expected lookup of absent field to fail")
	}
}
