package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/config"
	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/yfm"
)

// app carries the state shared by all commands.
type app struct {
	cfg    config.Config
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	styled bool

	configPath           string
	journalPath          string
	verbose              bool
	yfmErrors            document.Policy
	requireLeadingMarker string
}

// Execute runs the eln command line and returns the exit code.
func Execute(args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, styled: isTerminal(out)}

	root := &cobra.Command{
		Use:   "eln",
		Short: "Electronic lab notebook tools for markdown journals",
		Long: `eln works on a journal of markdown documents that start with a YAML
front matter block. It lists experiments by status, reports documents
with broken front matter, renders documents to HTML, keeps a searchable
index and serves a journal browser over SSH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	pf.StringVarP(&a.journalPath, "journal", "j", "", "journal directory")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")
	pf.Var(&a.yfmErrors, "yfm-errors", "front matter error policy: raise, warn, ignore or skip-file")
	pf.StringVar(&a.requireLeadingMarker, "require-leading-marker", "", "missing opening marker: raise, warn or off")

	root.AddCommand(
		newStartedCmd(a),
		newUnfinishedCmd(a),
		newYFMIssuesCmd(a),
		newMDToHTMLCmd(a),
		newShowCmd(a),
		newIndexCmd(a),
		newSearchCmd(a),
		newNewCmd(a),
		newBrowseCmd(a),
		newServeCmd(a),
		newInitCmd(a),
	)
	return root
}

// setup merges the config file and flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()

	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	existed, err := config.LoadFileFrom(&a.cfg, path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if !existed && a.configPath != "" {
		return fmt.Errorf("load config: %s does not exist", path)
	}

	flags := cmd.Flags()
	if flags.Changed("journal") {
		a.cfg.JournalPath = a.journalPath
	}
	if flags.Changed("yfm-errors") {
		a.cfg.YFMErrors = a.yfmErrors.String()
	}
	if flags.Changed("require-leading-marker") {
		if _, err := yfm.ParseRequirement(a.requireLeadingMarker); err != nil {
			return err
		}
		a.cfg.RequireLeadingMarker = a.requireLeadingMarker
	}
	a.cfg.JournalPath = absPath(config.ExpandHome(a.cfg.JournalPath))

	a.logger = log.NewWithOptions(a.errOut, log.Options{Prefix: "eln"})
	level, err := log.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger.SetLevel(level)
	a.logger.Debug("config", "path", path, "loaded", existed, "journal", a.cfg.JournalPath)
	return nil
}

// basedir returns the directory argument, or the journal when there is none.
func (a *app) basedir(args []string) (string, error) {
	dir := a.cfg.JournalPath
	if len(args) > 0 {
		dir = absPath(config.ExpandHome(args[0]))
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
