package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zepto-eln/eln/internal/browse"
	"github.com/zepto-eln/eln/internal/config"
	"github.com/zepto-eln/eln/internal/journal"
	"github.com/zepto-eln/eln/internal/session"
	"github.com/zepto-eln/eln/internal/ssh"
	"github.com/zepto-eln/eln/internal/theme"
)

// browseLoader loads browser items from root. Front matter diagnostics are
// dropped since they would draw over the interface.
func (a *app) browseLoader(root string) (browse.LoadFunc, error) {
	opts, err := a.cfg.JournalOptions(nil)
	if err != nil {
		return nil, err
	}
	return func() ([]browse.Item, error) {
		docs, err := journal.LoadAll(root, opts)
		if err != nil {
			return nil, err
		}
		return browse.ItemsFromDocuments(docs, root), nil
	}, nil
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [basedir]",
		Short: "Browse the journal interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.basedir(args)
			if err != nil {
				return err
			}
			load, err := a.browseLoader(root)
			if err != nil {
				return err
			}

			store := session.NewStore(root)
			state, err := store.Load()
			if err != nil {
				a.logger.Warn("ignoring browser state", "err", err)
			}

			m := browse.New(nil, load, theme.DefaultTheme())
			m.Restore(state.Filter, state.Selected)
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}

			if fm, ok := final.(browse.Model); ok {
				state = session.State{Filter: fm.Query()}
				if it, ok := fm.Selected(); ok {
					state.Selected = it.Path
				}
				if err := store.Save(state); err != nil {
					a.logger.Warn("save browser state", "err", err)
				}
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal browser over SSH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.basedir(nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				a.cfg.Listen = listen
			}
			load, err := a.browseLoader(root)
			if err != nil {
				return err
			}

			keyPath := ssh.HostKeyPath(root)
			if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
				return fmt.Errorf("create host key dir: %w", err)
			}
			s, err := ssh.New(a.cfg.Listen, keyPath, load, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			go func() {
				<-ctx.Done()
				if err := s.Close(); err != nil {
					a.logger.Error("close server", "err", err)
				}
			}()

			a.logger.Info("serving journal", "addr", s.Addr(), "journal", root)
			return s.ListenAndServe()
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :2323)")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Choose the journal directory and save it to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.RunSetup(a.cfg.JournalPath)
			if err != nil {
				return err
			}
			if res.Cancelled {
				return nil
			}
			fmt.Fprintf(a.out, "journal: %s\nconfig:  %s\n", res.JournalPath, config.ConfigPath())
			return nil
		},
	}
}
