// Package config defines the immutable configuration value that
// drives discovery and summarization, and loads overrides from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file name written by `postprocess init`.
const DefaultFileName = ".postprocess.yaml"

// Config holds the naming constants and the tracked field set.
// A Config is built once per invocation and never mutated afterwards.
type Config struct {
	// Fields lists the record fields summarized for every
	// Analysis Directory, in output order.
	Fields []string `yaml:"fields"`

	// NonComparable lists fields whose values are opaque nested
	// structures. These are never deduplicated.
	NonComparable []string `yaml:"non_comparable"`

	// RepoDelimiter must occur in a directory path for it to be
	// considered an Analysis Directory (e.g. "owner__repo").
	RepoDelimiter string `yaml:"repo_delimiter"`

	// InputFile is the line-delimited JSON record file name.
	InputFile string `yaml:"input_file"`

	// PrettyFile is the name of the indented copy of all records.
	PrettyFile string `yaml:"pretty_file"`

	// OutputDir is the summary folder created inside each
	// Analysis Directory. It is deleted and rebuilt on every run.
	OutputDir string `yaml:"output_dir"`

	// UniqDir and FullDir hold the deduplicated and the full
	// field dumps respectively.
	UniqDir string `yaml:"uniq_dir"`
	FullDir string `yaml:"full_dir"`

	// ManifestFile is written into both UniqDir and FullDir.
	ManifestFile string `yaml:"manifest_file"`

	// Indent is the per-level indentation of every JSON output.
	Indent string `yaml:"indent"`

	// Discovery tunes the directory walk.
	Discovery Discovery `yaml:"discovery"`
}

// Discovery configures which parts of the tree are walked.
type Discovery struct {
	// Exclude holds glob patterns, relative to the walk root, of
	// directories that are not descended into. "dir/**" matches a
	// directory and everything below it.
	Exclude []string `yaml:"exclude"`
}

// DefaultConfig returns the configuration matching the layout
// produced by the repository analyzer.
func DefaultConfig() *Config {
	return &Config{
		Fields:        []string{"name", "full_name", "file", "body", "comment", "doc", "ast"},
		NonComparable: []string{"ast"},
		RepoDelimiter: "__",
		InputFile:     "methods.jsonl",
		PrettyFile:    "methods_pretty.json",
		OutputDir:     "post_process_summary",
		UniqDir:       "fields_uniq",
		FullDir:       "fields_not_uniq",
		ManifestFile:  "fields_summary.json",
		Indent:        "    ",
	}
}

// Load reads a YAML config file. Keys absent from the file keep
// their DefaultConfig values. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first problem that would make the
// configured layout ambiguous or unwritable.
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		return errors.New("no fields configured")
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if strings.TrimSpace(f) == "" {
			return errors.New("empty field name")
		}
		if strings.ContainsAny(f, `/\`) {
			return fmt.Errorf("field name %q contains a path separator", f)
		}
		if seen[f] {
			return fmt.Errorf("duplicate field %q", f)
		}
		seen[f] = true
	}

	names := []struct{ key, val string }{
		{"input_file", c.InputFile},
		{"pretty_file", c.PrettyFile},
		{"output_dir", c.OutputDir},
		{"uniq_dir", c.UniqDir},
		{"full_dir", c.FullDir},
		{"manifest_file", c.ManifestFile},
	}
	for _, n := range names {
		if n.val == "" {
			return fmt.Errorf("%s must not be empty", n.key)
		}
		if strings.ContainsAny(n.val, `/\`) || n.val == "." || n.val == ".." {
			return fmt.Errorf("%s %q must be a plain name", n.key, n.val)
		}
	}

	if c.OutputDir == c.InputFile {
		return fmt.Errorf("output_dir must differ from input_file (both %q)", c.OutputDir)
	}
	if c.UniqDir == c.FullDir {
		return fmt.Errorf("uniq_dir and full_dir must differ (both %q)", c.UniqDir)
	}
	for _, d := range []string{c.UniqDir, c.FullDir} {
		if d == c.PrettyFile {
			return fmt.Errorf("%q is used both as pretty_file and as a dump folder", d)
		}
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("indent %q may only contain spaces and tabs", c.Indent)
	}
	if c.RepoDelimiter == "" {
		return errors.New("repo_delimiter must not be empty")
	}
	return nil
}
