package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/postprocess/internal/config"
	"github.com/unbound-force/postprocess/internal/fsutil"
	"github.com/unbound-force/postprocess/internal/postprocess"
	"github.com/unbound-force/postprocess/internal/report"
	"github.com/unbound-force/postprocess/internal/scaffold"
)

// Set by build flags.
var version = "dev"

// errArgumentCount is returned when the command is not given exactly
// one path.
var errArgumentCount = errors.New("wrong number of arguments")

func main() {
	root := newRootCmd()
	root.SetArgs(pathArgs(root, os.Args[1:]))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the application logger (no timestamps). Verbose
// enables debug records.
func newLogger(w io.Writer, verbose bool) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	return logger
}

// exactlyOnePath is a cobra.PositionalArgs that reports errArgumentCount.
func exactlyOnePath(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected 1 path, got %d", errArgumentCount, len(args))
	}
	return nil
}

// pathArgs turns a lone argument that names both a subcommand and an
// existing directory into a ./ path, so the directory is scanned.
// cobra adds help and completion only at Execute time.
func pathArgs(root *cobra.Command, args []string) []string {
	if len(args) != 1 || !fsutil.IsDir(args[0]) {
		return args
	}
	name := args[0]
	reserved := name == "help" || name == "completion"
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			reserved = true
		}
	}
	if !reserved {
		return args
	}
	return []string{"." + string(filepath.Separator) + name}
}

// loadConfig returns the config at path, or the defaults when path
// is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		single     bool
		keepGoing  bool
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "postprocess <path>",
		Short: "Summarize extracted method records per repository",
		Long: `Postprocess walks a tree of repository analysis results, finds every
directory whose path contains the repository delimiter and which holds
methods.jsonl, and rebuilds its post_process_summary folder: a pretty copy
of all records plus unique and full value dumps for each tracked field.

A directory named like a subcommand (report, schema, init) is scanned
when it is the only argument; ./report works as well.`,
		Version:       version,
		Args:          exactlyOnePath,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostprocess(runParams{
				path:       args[0],
				configPath: configPath,
				single:     single,
				keepGoing:  keepGoing,
				verbose:    verbose,
				stdout:     cmd.OutOrStdout(),
				stderr:     cmd.ErrOrStderr(),
			})
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (default: built-in layout)")
	root.Flags().BoolVar(&single, "single", false,
		"treat <path> as a single repository result directory")
	root.Flags().BoolVar(&keepGoing, "keep-going", false,
		"skip directories that fail instead of aborting the run")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(newReportCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	return root
}

// runParams holds the parsed flags for the root command.
type runParams struct {
	path       string
	configPath string
	single     bool
	keepGoing  bool
	verbose    bool
	stdout     io.Writer
	stderr     io.Writer
}

// runPostprocess is the extracted, testable body of the root command.
func runPostprocess(p runParams) error {
	logger := newLogger(p.stderr, p.verbose)

	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}

	logger.Debug("scanning", "root", p.path, "single", p.single)
	result, err := postprocess.Run(p.path, postprocess.Options{
		Config:    cfg,
		Single:    p.single,
		KeepGoing: p.keepGoing,
		Stdout:    p.stdout,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if len(result.Dirs) == 0 {
		logger.Warn("no analysis directories found", "root", p.path)
		return nil
	}
	logger.Debug("postprocess complete", "dirs", len(result.Dirs))
	return nil
}

// reportParams holds the parsed flags for the report command.
type reportParams struct {
	path        string
	configPath  string
	format      string
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// runReport is the extracted, testable body of the report command.
func runReport(p reportParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}

	logger := newLogger(p.stderr, false)
	results, err := postprocess.Collect(p.path, cfg)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		logger.Warn("no summaries found; run postprocess first", "root", p.path)
	}

	if p.interactive {
		return runInteractiveReport(results)
	}

	switch p.format {
	case "json":
		return report.WriteJSON(p.stdout, results, version)
	default:
		return report.WriteText(p.stdout, results)
	}
}

func newReportCmd() *cobra.Command {
	var (
		configPath  string
		format      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "report <path>",
		Short: "Show the field summaries already written below a path",
		Long: `Read back the fields_summary.json manifests of every summarized
repository below <path> and print unique and total value counts per field.`,
		Args: exactlyOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(reportParams{
				path:        args[0],
				configPath:  configPath,
				format:      format,
				interactive: interactive,
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (default: built-in layout)")
	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing summaries")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var manifest bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for field dump files",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the structure
of the per-field dump files. With --manifest, print the schema of
fields_summary.json instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if manifest {
				schema = report.ManifestSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&manifest, "manifest", false,
		"print the fields_summary.json schema")

	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.DefaultFileName,
		Long: `Write the built-in configuration to ` + config.DefaultFileName + ` in the
current directory so it can be edited and passed back with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing config file")

	return cmd
}
