package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/journal"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		tags     []string
		template string
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "new <expid> <title>",
		Short: "Create an experiment document",
		Long: `Create an experiment document named "<expid> <title-slug>.md" in the
journal. Without --template the document gets expid, title, status and
startdate front matter. Templates are markdown files in
<journal>/.eln/templates and may use {{expid}}, {{title}}, {{date}},
{{datetime}} and {{slug}}.

Examples:
  eln new RS123 "Ligation test" --tag cloning
  eln new RS124 "Colony PCR" --template pcr
  eln new --list-templates`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			j := journal.New(a.cfg.JournalPath)

			if list {
				templates, err := j.LoadTemplates()
				if err != nil {
					return err
				}
				for _, t := range templates {
					fmt.Fprintln(a.out, t.Name)
				}
				return nil
			}

			expid, title := args[0], args[1]
			now := time.Now()

			var (
				path string
				err  error
			)
			if template != "" {
				t, ferr := j.FindTemplate(template)
				if ferr != nil {
					return ferr
				}
				path, err = j.CreateFromTemplate(t, expid, title, now)
			} else {
				path, err = j.CreateExperiment(expid, title, tags, now)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "experiment tags")
	cmd.Flags().StringVarP(&template, "template", "t", "", "journal template name")
	cmd.Flags().BoolVar(&list, "list-templates", false, "list journal templates")
	return cmd
}
