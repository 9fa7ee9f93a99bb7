// Package scaffold writes a default postprocess configuration file
// into a target directory.
package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/unbound-force/postprocess/internal/config"
)

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the directory to write the config file into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites an existing config file when true.
	// When false, an existing file is skipped.
	Force bool

	// Version is the postprocess version string embedded in the
	// version marker comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did.
type Result struct {
	// Path is the config file location.
	Path string

	// Created is true when the file did not exist before.
	Created bool

	// Skipped is true when the file existed and Force was false.
	Skipped bool

	// Overwritten is true when an existing file was replaced.
	Overwritten bool
}

// versionMarker returns the comment line prepended to the file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# scaffolded by postprocess %s\n", version)
}

// Render returns the default config as YAML, preceded by the version
// marker comment.
func Render(version string) ([]byte, error) {
	body, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	return append([]byte(versionMarker(version)), body...), nil
}

// Run writes config.DefaultFileName into opts.TargetDir. If the file
// already exists and opts.Force is false, it is left untouched.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	path := filepath.Join(opts.TargetDir, config.DefaultFileName)
	result := &Result{Path: path}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	if exists && !opts.Force {
		result.Skipped = true
		printSummary(opts.Stdout, result)
		return result, nil
	}

	content, err := Render(opts.Version)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("creating %s: %w", config.DefaultFileName, err)
	}

	if exists {
		result.Overwritten = true
	} else {
		result.Created = true
	}
	printSummary(opts.Stdout, result)
	return result, nil
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	switch {
	case r.Created:
		fmt.Fprintf(w, "  created: %s\n", r.Path)
	case r.Overwritten:
		fmt.Fprintf(w, "  overwritten: %s\n", r.Path)
	case r.Skipped:
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", r.Path)
		fmt.Fprintln(w, "1 file skipped (use --force to overwrite).")
	}
}
