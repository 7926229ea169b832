package main

import (
	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/journal"
	"github.com/zepto-eln/eln/internal/report"
	"github.com/zepto-eln/eln/internal/yfm"
)

func newStartedCmd(a *app) *cobra.Command {
	var rowfmt string
	cmd := &cobra.Command{
		Use:   "started [basedir]",
		Short: "List experiments with status started",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := a.loadMetadata(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rowfmt") {
				rowfmt = a.cfg.StartedRowFmt
			}
			return report.NewPrinter(a.out, a.styled).PrintRows(report.Started(metas), rowfmt)
		},
	}
	cmd.Flags().StringVar(&rowfmt, "rowfmt", report.StartedRowFmt, "row format, {key} fields with optional :<N :^N :>N alignment")
	return cmd
}

func newUnfinishedCmd(a *app) *cobra.Command {
	var rowfmt string
	cmd := &cobra.Command{
		Use:   "unfinished [basedir]",
		Short: "List experiments that are not finished",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := a.loadMetadata(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rowfmt") {
				rowfmt = a.cfg.UnfinishedRowFmt
			}
			return report.NewPrinter(a.out, a.styled).PrintRows(report.Unfinished(metas), rowfmt)
		},
	}
	cmd.Flags().StringVar(&rowfmt, "rowfmt", report.UnfinishedRowFmt, "row format, {key} fields with optional :<N :^N :>N alignment")
	return cmd
}

func newYFMIssuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "yfm-issues [basedir]",
		Short: "Report documents whose front matter is broken or empty",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.basedir(args)
			if err != nil {
				return err
			}
			opts, err := a.cfg.JournalOptions(a.logger)
			if err != nil {
				return err
			}
			issues, err := report.YFMIssues(dir, opts.Document)
			if err != nil {
				return err
			}
			a.logger.Debug("scanned journal", "dir", dir, "issues", len(issues))
			return report.NewPrinter(a.out, a.styled).PrintIssues(issues)
		},
	}
}

func (a *app) loadMetadata(args []string) ([]yfm.Metadata, error) {
	dir, err := a.basedir(args)
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.JournalOptions(a.logger)
	if err != nil {
		return nil, err
	}
	return journal.LoadAllMetadata(dir, opts)
}
