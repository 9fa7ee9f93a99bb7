package fields

import (
	"github.com/unbound-force/postprocess/internal/record"
)

// Dump is the aggregated value list of one field. Count always
// equals len(Items); build dumps with NewDump.
type Dump struct {
	FieldName string         `json:"field_name"`
	IsUniq    bool           `json:"is_uniq"`
	Count     int            `json:"count"`
	Items     []record.Value `json:"items"`
}

// NewDump builds a Dump for items.
func NewDump(field string, uniq bool, items []record.Value) Dump {
	if items == nil {
		items = []record.Value{}
	}
	return Dump{
		FieldName: field,
		IsUniq:    uniq,
		Count:     len(items),
		Items:     items,
	}
}

// Entry returns the manifest entry describing d.
func (d Dump) Entry() ManifestEntry {
	return ManifestEntry{
		FieldName: d.FieldName,
		IsUniq:    d.IsUniq,
		Count:     d.Count,
	}
}

// ManifestEntry describes one Dump without its items.
type ManifestEntry struct {
	FieldName string `json:"field_name"`
	IsUniq    bool   `json:"is_uniq"`
	Count     int    `json:"count"`
}

// Manifest lists the dumps written into one folder, in field order.
type Manifest []ManifestEntry

// Total returns the sum of all entry counts.
func (m Manifest) Total() int {
	n := 0
	for _, e := range m {
		n += e.Count
	}
	return n
}

// Lookup returns the entry for field.
func (m Manifest) Lookup(field string) (ManifestEntry, bool) {
	for _, e := range m {
		if e.FieldName == field {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// FileName returns the dump file name for field: the field name
// pluralized with "s", then "_uniq" for deduplicated dumps.
func FileName(field string, uniq bool) string {
	name := field + "s"
	if uniq {
		name += "_uniq"
	}
	return name + ".json"
}
