// Package postprocess discovers Analysis Directories below a root
// path and rebuilds their summary folders from the method records
// they hold.
package postprocess

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/postprocess/internal/config"
	"github.com/unbound-force/postprocess/internal/fields"
	"github.com/unbound-force/postprocess/internal/fsutil"
	"github.com/unbound-force/postprocess/internal/record"
	"github.com/unbound-force/postprocess/internal/summary"
)

// ErrPathNotFound is returned when the root path does not exist.
var ErrPathNotFound = errors.New("path not found")

// Options configures a Run.
type Options struct {
	// Config supplies field list and naming constants. If nil,
	// DefaultConfig() is used.
	Config *config.Config

	// Single processes the root itself as the only Analysis
	// Directory instead of walking the tree.
	Single bool

	// KeepGoing logs and skips a failing directory instead of
	// aborting the run. All failures are returned together.
	KeepGoing bool

	// Stdout receives one progress line per directory.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

// Layout holds the paths of one Analysis Directory and its summary
// folder.
type Layout struct {
	Dir    string
	Input  string
	Output string
	Pretty string
	Uniq   string
	Full   string
}

// NewLayout computes the Layout of dir under cfg.
func NewLayout(dir string, cfg *config.Config) Layout {
	out := filepath.Join(dir, cfg.OutputDir)
	return Layout{
		Dir:    dir,
		Input:  filepath.Join(dir, cfg.InputFile),
		Output: out,
		Pretty: filepath.Join(out, cfg.PrettyFile),
		Uniq:   filepath.Join(out, cfg.UniqDir),
		Full:   filepath.Join(out, cfg.FullDir),
	}
}

// DirResult describes one processed Analysis Directory.
type DirResult struct {
	Path        string          `json:"path"`
	Name        string          `json:"name"`
	SizeKB      int64           `json:"size_kb"`
	Records     int             `json:"records"`
	Uniq        fields.Manifest `json:"uniq"`
	Full        fields.Manifest `json:"full"`
	Fingerprint string          `json:"fingerprint,omitempty"`
}

// Result is the outcome of a Run.
type Result struct {
	Root string      `json:"root"`
	Dirs []DirResult `json:"dirs"`
}

// Run processes every Analysis Directory below root, sequentially in
// walk order. Unless opts.KeepGoing is set, the first failure aborts
// the run; the returned Result then holds the directories completed
// before it.
func Run(root string, opts Options) (*Result, error) {
	opts = withDefaults(opts)

	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}

	var dirs []string
	if opts.Single {
		dirs = []string{root}
	} else {
		found, err := Discover(root, opts.Config)
		if err != nil {
			return nil, fmt.Errorf("discovering analysis directories: %w", err)
		}
		dirs = found
	}
	opts.Logger.Debug("discovery complete", "root", root, "dirs", len(dirs))

	result := &Result{Root: root, Dirs: []DirResult{}}
	var failures []error
	for _, dir := range dirs {
		dr, err := Process(dir, opts)
		if err != nil {
			if !opts.KeepGoing {
				return result, err
			}
			opts.Logger.Error("postprocess failed", "dir", dir, "err", err)
			failures = append(failures, err)
			continue
		}
		result.Dirs = append(result.Dirs, *dr)
	}

	if len(failures) > 0 {
		return result, fmt.Errorf("%d of %d directories failed: %w",
			len(failures), len(dirs), errors.Join(failures...))
	}
	return result, nil
}

// Process rebuilds the summary folder of a single Analysis Directory:
// it removes any previous output, recreates the folder layout, prints
// the progress line, and writes the pretty dump and both field-dump
// sets.
func Process(dir string, opts Options) (*DirResult, error) {
	opts = withDefaults(opts)
	cfg := opts.Config
	layout := NewLayout(dir, cfg)

	if opts.Single && !fsutil.IsFile(layout.Input) {
		return nil, fmt.Errorf("%w: %s", record.ErrNotFound, layout.Input)
	}

	if err := fsutil.RemoveIfExists(layout.Output); err != nil {
		return nil, err
	}
	for _, d := range []string{layout.Output, layout.Uniq, layout.Full} {
		if err := fsutil.CreateDir(d); err != nil {
			return nil, err
		}
	}

	dr := &DirResult{
		Path:   dir,
		Name:   filepath.Base(dir),
		SizeKB: fsutil.SizeKB(layout.Input),
	}
	fmt.Fprintf(opts.Stdout, "> postprocess [%d KB] /%s\n", dr.SizeKB, dr.Name)

	records, err := record.Load(layout.Input)
	if err != nil {
		return nil, err
	}
	dr.Records = len(records)

	w := summary.Writer{
		Extractor:    fields.Extractor{NonComparable: cfg.NonComparable},
		Indent:       cfg.Indent,
		ManifestFile: cfg.ManifestFile,
	}
	if err := w.WritePretty(records, layout.Pretty); err != nil {
		return nil, err
	}
	if dr.Uniq, err = w.WriteFields(records, cfg.Fields, layout.Uniq, true); err != nil {
		return nil, err
	}
	if dr.Full, err = w.WriteFields(records, cfg.Fields, layout.Full, false); err != nil {
		return nil, err
	}

	fp, err := summary.Fingerprint(layout.Output)
	if err != nil {
		return nil, err
	}
	dr.Fingerprint = fp

	opts.Logger.Debug("summary written",
		"dir", dr.Name,
		"records", dr.Records,
		"uniq_items", dr.Uniq.Total(),
		"items", dr.Full.Total(),
		"fingerprint", fp)

	return dr, nil
}

func withDefaults(opts Options) Options {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
