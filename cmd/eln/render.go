package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/index"
	"github.com/zepto-eln/eln/internal/journal"
	"github.com/zepto-eln/eln/internal/pico"
	"github.com/zepto-eln/eln/internal/render"
)

type renderFlags struct {
	outputFn      string
	parser        string
	extensions    []string
	template      string
	templateDir   string
	applyTemplate bool
	pico          bool
	picoErrors    string
	watch         bool
}

func newMDToHTMLCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "md-to-html <file>...",
		Short: "Render markdown documents to HTML",
		Long: `Render markdown documents to HTML.

Each document's front matter is parsed, %key% placeholders in the body are
replaced with metadata values, the body is converted to HTML and wrapped in
a page template. Templates (*.jinja, *.html) are looked up by name in the
template directory, by default <journal>/.eln/templates.

The output file name is a format string over the document's file info and
metadata. Use "-" to write to stdout.

Examples:
  eln md-to-html "RS123 ligation.md"
  eln md-to-html --outputfn "html/{expid}.html" *.md
  eln md-to-html --outputfn - --apply-template=false notes.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.renderOptions(cmd, f)
			if err != nil {
				return err
			}

			paths := make([]string, len(args))
			for i, arg := range args {
				paths[i] = absPath(arg)
			}

			results, err := render.CompileAll(paths, opts)
			for _, res := range results {
				a.logResult(res)
			}
			if err != nil {
				return err
			}

			if f.watch {
				return a.watchAndRender(cmd.Context(), paths, opts)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.outputFn, "outputfn", "o", "", "output file name format, - for stdout")
	fl.StringVar(&f.parser, "parser", "", "markdown parser")
	fl.StringSliceVar(&f.extensions, "extensions", nil, "markdown extensions, e.g. tables,footnote")
	fl.StringVarP(&f.template, "template", "t", "", "template name or file")
	fl.StringVar(&f.templateDir, "template-dir", "", "template directory")
	fl.BoolVar(&f.applyTemplate, "apply-template", true, "wrap the HTML in a page template")
	fl.BoolVar(&f.pico, "pico", true, "substitute %key% placeholders")
	fl.StringVar(&f.picoErrors, "pico-errors", "", "missing placeholder handling: raise, print or pass")
	fl.BoolVarP(&f.watch, "watch", "w", false, "re-render files when they change")
	return cmd
}

func (a *app) renderOptions(cmd *cobra.Command, f renderFlags) (render.Options, error) {
	opts, err := a.cfg.RenderOptions(a.logger)
	if err != nil {
		return opts, err
	}

	changed := cmd.Flags().Changed
	if changed("outputfn") {
		opts.OutputFn = f.outputFn
	}
	if changed("parser") {
		opts.Parser = f.parser
	}
	if changed("extensions") {
		opts.Extensions = f.extensions
	}
	if changed("template") {
		opts.Template = f.template
	}
	if changed("template-dir") {
		opts.TemplateDir = absPath(f.templateDir)
	}
	if changed("apply-template") {
		opts.ApplyTemplate = f.applyTemplate
	}
	if changed("pico") {
		opts.PicoSubstitution = f.pico
	}
	if changed("pico-errors") {
		mode, err := pico.ParseMode(f.picoErrors)
		if err != nil {
			return opts, err
		}
		opts.PicoMode = mode
	}
	if opts.TemplateDir == "" {
		opts.TemplateDir = journal.New(a.cfg.JournalPath).TemplateDir()
	}
	opts.Stdout = a.out
	return opts, nil
}

func (a *app) logResult(res *render.Result) {
	switch res.OutputPath {
	case "", render.Stdout:
		return
	}
	a.logger.Info("rendered", "path", res.Document.Path, "out", res.OutputPath)
}

// watchAndRender re-renders paths whenever one of them changes, until
// interrupted.
func (a *app) watchAndRender(ctx context.Context, paths []string, opts render.Options) error {
	wanted := make(map[string]bool, len(paths))
	for _, p := range paths {
		wanted[p] = true
	}

	handler := func(path string, removed bool) error {
		if removed || !wanted[path] {
			return nil
		}
		res, err := render.Compile(path, opts)
		if err != nil {
			return err
		}
		a.logResult(res)
		return nil
	}

	dir := commonDir(paths)
	w, err := index.NewWatcher(dir, handler, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("watching", "dir", dir, "files", len(paths))
	return runUntilSignal(ctx, w.Run)
}

// commonDir returns the deepest directory containing all paths.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for !strings.HasPrefix(p, dir+string(filepath.Separator)) && dir != filepath.Dir(dir) {
			dir = filepath.Dir(dir)
		}
	}
	return dir
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func runUntilSignal(ctx context.Context, run func(context.Context) error) error {
	ctx, stop := signalContext(ctx)
	defer stop()
	return run(ctx)
}
