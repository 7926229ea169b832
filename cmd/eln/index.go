package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/index"
)

func (a *app) openIndex(root string) (*index.DB, error) {
	path := index.DefaultPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	return index.Open(path)
}

func newIndexCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "index [basedir]",
		Short: "Build or update the journal's search index",
		Long: `Build or update the search index in <basedir>/.eln/index.db.

Unchanged documents are skipped and documents that no longer exist are
removed. Documents with broken front matter are indexed with their error so
that "eln search --issues" can list them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.basedir(args)
			if err != nil {
				return err
			}
			opts, err := a.cfg.DocumentOptions(document.PolicyRaise, a.logger)
			if err != nil {
				return err
			}

			db, err := a.openIndex(root)
			if err != nil {
				return err
			}
			defer db.Close()

			idx := index.NewIndexer(db, root, opts)
			stats, err := idx.IndexAll()
			if err != nil {
				return err
			}
			a.logger.Info("indexed", "root", root, "changed", stats.Indexed, "unchanged", stats.Unchanged,
				"removed", stats.Removed, "issues", stats.Issues)

			if !watch {
				return nil
			}
			w, err := index.NewWatcher(root, func(path string, removed bool) error {
				a.logger.Debug("reindex", "path", path, "removed", removed)
				return idx.Handle(path, removed)
			}, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("watching", "dir", root)
			return runUntilSignal(cmd.Context(), w.Run)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep the index updated as files change")
	return cmd
}

type searchFlags struct {
	status   string
	tag      string
	expid    string
	issues   bool
	headings bool
	limit    int
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the journal index",
		Long: `Search the journal index built by "eln index".

The query uses SQLite FTS5 syntax over titles, bodies, tags and headings.
Without a query, the filter flags list matching documents.

Examples:
  eln search ligation
  eln search --status started
  eln search --tag cloning
  eln search --headings results`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openIndex(a.cfg.JournalPath)
			if err != nil {
				return err
			}
			defer db.Close()

			var rows [][]string
			if f.headings {
				if len(args) == 0 {
					return errors.New("--headings needs a query")
				}
				hs, err := db.SearchHeadings(args[0], f.limit)
				if err != nil {
					return err
				}
				for _, h := range hs {
					rows = append(rows, []string{fmt.Sprintf("%s:%d", h.Path, h.Line), h.Text})
				}
				a.printTable(rows)
				return nil
			}

			var entries []index.Entry
			switch {
			case len(args) == 1:
				results, err := db.Search(args[0], f.limit)
				if err != nil {
					return err
				}
				for _, r := range results {
					entries = append(entries, r.Entry)
				}
			case f.issues:
				entries, err = db.ListIssues()
			case f.status != "":
				entries, err = db.ListByStatus(f.status)
			case f.tag != "":
				entries, err = db.ListByTag(f.tag)
			case f.expid != "":
				entries, err = db.FindByExpID(f.expid)
			default:
				entries, err = db.ListAll()
			}
			if err != nil {
				return err
			}

			for _, e := range entries {
				if f.issues {
					rows = append(rows, []string{e.Path, e.YFMError})
					continue
				}
				rows = append(rows, []string{e.ExpID, e.Status, e.Title, e.Path})
			}
			a.printTable(rows)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.status, "status", "", "list documents with this status")
	fl.StringVar(&f.tag, "tag", "", "list documents with this tag")
	fl.StringVar(&f.expid, "expid", "", "list documents with this experiment id")
	fl.BoolVar(&f.issues, "issues", false, "list documents with front matter errors")
	fl.BoolVar(&f.headings, "headings", false, "search headings instead of documents")
	fl.IntVarP(&f.limit, "limit", "n", 50, "maximum number of search results")
	return cmd
}

// printTable writes rows as borderless aligned columns.
func (a *app) printTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Rows(rows...)
	fmt.Fprintln(a.out, t.String())
}
