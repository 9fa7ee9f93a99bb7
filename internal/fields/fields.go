// Package fields projects tracked record fields into per-field value
// lists and defines the dump and manifest shapes written for them.
package fields

import (
	"github.com/unbound-force/postprocess/internal/record"
)

// Extractor projects field values out of records.
type Extractor struct {
	// NonComparable lists fields whose values are never
	// deduplicated (opaque nested structures such as "ast").
	NonComparable []string
}

// Comparable reports whether values of field may be deduplicated.
func (e Extractor) Comparable(field string) bool {
	for _, f := range e.NonComparable {
		if f == field {
			return false
		}
	}
	return true
}

// Extract returns the value of field for every record, skipping null
// and the "null" sentinel. When deduplicate is set and the field is
// comparable, only the first occurrence of each distinct value is
// kept. A field absent from all records yields an empty, non-nil
// slice.
func (e Extractor) Extract(records []record.Record, field string, deduplicate bool) []record.Value {
	items := make([]record.Value, 0, len(records))
	for _, r := range records {
		v := r.Get(field)
		if v.IsAbsent() {
			continue
		}
		items = append(items, v)
	}

	if !deduplicate || !e.Comparable(field) {
		return items
	}
	return distinct(items)
}

func distinct(items []record.Value) []record.Value {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, v := range items {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
