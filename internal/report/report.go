// Package report lists experiments by status and documents with broken
// front matter.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zepto-eln/eln/internal/strfmt"
	"github.com/zepto-eln/eln/internal/theme"
	"github.com/zepto-eln/eln/internal/yfm"
)

const (
	StartedRowFmt    = "{status:^10}: {expid:<10} {titledesc}"
	UnfinishedRowFmt = "{status:^10}: {expid:<10} {titledesc:<40}  [enddate: {enddate}]"
)

// TitleDesc returns the "titledesc" key if set, otherwise title and
// description joined with ": ", or whichever of the two exists.
func TitleDesc(meta yfm.Metadata) string {
	if td := meta.String("titledesc"); td != "" {
		return td
	}
	title, desc := meta.String("title"), meta.String("description")
	switch {
	case title != "" && desc != "":
		return title + ": " + desc
	case title != "":
		return title
	default:
		return desc
	}
}

// FormatRow fills rowfmt from meta. Missing keys render empty.
func FormatRow(rowfmt string, meta yfm.Metadata) (string, error) {
	vars := strfmt.Map(meta)
	lookup := func(name string) (string, bool) {
		if name == "titledesc" {
			return TitleDesc(meta), true
		}
		return vars(name)
	}
	return strfmt.Format(rowfmt, lookup, false)
}

// Started returns the experiments whose status is "started".
func Started(metas []yfm.Metadata) []yfm.Metadata {
	return filter(metas, func(status string) bool {
		return strings.EqualFold(status, "started")
	})
}

// Unfinished returns the experiments that have a status which is not one of
// theme.FinishedStatuses.
func Unfinished(metas []yfm.Metadata) []yfm.Metadata {
	return filter(metas, func(status string) bool {
		return status != "" && !theme.IsFinished(status)
	})
}

func filter(metas []yfm.Metadata, keep func(status string) bool) []yfm.Metadata {
	var out []yfm.Metadata
	for _, m := range metas {
		if keep(strings.TrimSpace(m.String("status"))) {
			out = append(out, m)
		}
	}
	return out
}

// Printer writes report lines.
type Printer struct {
	W io.Writer
	// Styled colors rows by status.
	Styled bool
	Theme  theme.Theme
}

func NewPrinter(w io.Writer, styled bool) *Printer {
	return &Printer{W: w, Styled: styled, Theme: theme.DefaultTheme()}
}

// PrintRows writes one formatted row per metadata entry.
func (p *Printer) PrintRows(metas []yfm.Metadata, rowfmt string) error {
	for _, m := range metas {
		row, err := FormatRow(rowfmt, m)
		if err != nil {
			return err
		}
		if p.Styled {
			row = p.Theme.StatusStyle(m.String("status")).Render(row)
		}
		if _, err := fmt.Fprintln(p.W, row); err != nil {
			return err
		}
	}
	return nil
}

// PrintIssues writes one line per issue, path first.
func (p *Printer) PrintIssues(issues []Issue) error {
	pathStyle := lipgloss.NewStyle().Foreground(p.Theme.Accent)
	errStyle := lipgloss.NewStyle().Foreground(p.Theme.Error)
	for _, is := range issues {
		path, msg := is.Path, is.Message()
		if p.Styled {
			path, msg = pathStyle.Render(path), errStyle.Render(msg)
		}
		if _, err := fmt.Fprintf(p.W, "%s: %s\n", path, msg); err != nil {
			return err
		}
	}
	return nil
}
