// Package report renders post-processing results as JSON and as
// human-readable text, and documents the summary file formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/postprocess/internal/postprocess"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version string                  `json:"version"`
	Results []postprocess.DirResult `json:"results"`
}

// WriteJSON writes directory results as formatted JSON to the writer.
func WriteJSON(w io.Writer, results []postprocess.DirResult, version string) error {
	if results == nil {
		results = []postprocess.DirResult{}
	}
	report := JSONReport{
		Version: version,
		Results: results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
