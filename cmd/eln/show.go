package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/markdown"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		metaOnly bool
		headings bool
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a document's parsed metadata and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.DocumentOptions(document.PolicyRaise, a.logger)
			if err != nil {
				return err
			}
			doc, err := document.Load(absPath(args[0]), opts)
			if err != nil {
				return err
			}

			meta := []byte("{}\n")
			if doc.Meta != nil {
				if meta, err = yaml.Marshal(map[string]any(doc.Meta)); err != nil {
					return fmt.Errorf("encode metadata: %w", err)
				}
			}
			fmt.Fprintf(a.out, "---\n%s---\n", meta)

			switch {
			case headings:
				for _, h := range markdown.ExtractHeadings([]byte(doc.Content)) {
					fmt.Fprintf(a.out, "%4d %s %s\n", h.Line, strings.Repeat("#", h.Level), h.Text)
				}
			case !metaOnly:
				fmt.Fprint(a.out, doc.Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&metaOnly, "meta", "m", false, "print only the metadata")
	cmd.Flags().BoolVar(&headings, "headings", false, "print the body's headings instead of the body")
	return cmd
}
