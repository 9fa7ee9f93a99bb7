// Package summary writes field dumps, manifests, and pretty record
// copies as indented JSON files.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unbound-force/postprocess/internal/fields"
	"github.com/unbound-force/postprocess/internal/fsutil"
	"github.com/unbound-force/postprocess/internal/record"
)

// Writer serializes records and their field dumps.
type Writer struct {
	// Extractor computes the value list of each field.
	Extractor fields.Extractor

	// Indent is the per-level JSON indentation.
	Indent string

	// ManifestFile is the name of the manifest written into each
	// dump folder.
	ManifestFile string
}

// WriteFields writes one dump file per field into dir, then the
// manifest describing them. Existing files are overwritten.
func (w Writer) WriteFields(records []record.Record, names []string, dir string, deduplicate bool) (fields.Manifest, error) {
	manifest := make(fields.Manifest, 0, len(names))

	for _, name := range names {
		items := w.Extractor.Extract(records, name, deduplicate)
		dump := fields.NewDump(name, deduplicate, items)

		path := filepath.Join(dir, fields.FileName(name, deduplicate))
		if err := WriteJSON(path, dump, w.Indent); err != nil {
			return nil, err
		}
		manifest = append(manifest, dump.Entry())
	}

	if err := WriteJSON(filepath.Join(dir, w.ManifestFile), manifest, w.Indent); err != nil {
		return nil, err
	}
	return manifest, nil
}

// WritePretty writes all records, unfiltered and in load order, as
// an indented JSON array.
func (w Writer) WritePretty(records []record.Record, path string) error {
	if records == nil {
		records = []record.Record{}
	}
	return WriteJSON(path, records, w.Indent)
}

// WriteJSON encodes v as indented JSON into path. HTML characters
// are written as-is.
func WriteJSON(path string, v any, indent string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return fsutil.WriteFile(path, buf.Bytes())
}

// ReadManifest reads a manifest written by WriteFields.
func ReadManifest(path string) (fields.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m fields.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
