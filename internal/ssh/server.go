// Package ssh serves the journal browser over SSH.
package ssh

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/zepto-eln/eln/internal/browse"
)

// HostKeyPath returns where the server keeps its host key inside a journal.
func HostKeyPath(journalRoot string) string {
	return filepath.Join(journalRoot, ".eln", "ssh_host_key")
}

// Server wraps a Wish SSH server.
type Server struct {
	server *ssh.Server
	addr   string
}

// New creates an SSH server listening on addr. Every session gets its own
// browser with items from load.
func New(addr, hostKeyPath string, load browse.LoadFunc, logger *log.Logger) (*Server, error) {
	s, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bts.Middleware(NewHandler(load)),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}

	return &Server{server: s, addr: addr}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe starts the SSH server. It returns nil once Close is called.
func (s *Server) ListenAndServe() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the SSH server.
func (s *Server) Close() error {
	return s.server.Close()
}
