// Package record loads line-delimited JSON method records.
package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotFound is returned by Load when the record file does not exist.
var ErrNotFound = errors.New("record file not found")

// ParseError reports a line of the record file that is not valid JSON.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is one line of the record file. Records are read-only once
// loaded.
type Record struct {
	raw    json.RawMessage
	fields map[string]Value
}

// Parse decodes a single JSON value into a Record. Values other than
// objects are accepted; they simply have no fields.
func Parse(line []byte) (Record, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, line); err != nil {
		return Record{}, err
	}
	raw := buf.Bytes()

	rec := Record{raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &rec.fields); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// Get returns the value of field name, or null when the key is
// missing.
func (r Record) Get(name string) Value {
	return r.fields[name]
}

// Raw returns the record's compacted JSON text, keys in source order.
func (r Record) Raw() json.RawMessage { return r.raw }

// MarshalJSON writes the record back verbatim.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Load reads every line of path as one Record, in file order. Any
// malformed line aborts the load with a *ParseError; no partial
// result is returned.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Read decodes line-delimited JSON from r. Lines may be arbitrarily
// long.
func Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var records []Record
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadBytes('\n')
		if len(line) == 0 && errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		rec, perr := Parse(line)
		if perr != nil {
			return nil, &ParseError{Line: lineNo, Err: perr}
		}
		records = append(records, rec)

		if errors.Is(err, io.EOF) {
			break
		}
	}
	return records, nil
}
