// Package server serves the tiling demo over SSH. Every session gets its
// own desktop sized to the client's terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/demo"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ssh",
	})
}

// SetLogLevel sets the logging level for the server package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Windows is the number of windows every session starts with.
	Windows int
	// Config configures every session. Nil means the defaults.
	Config *config.UserConfig
}

// HostKeyPath returns the host key location: KeyPath when set, otherwise
// a key in the user's .ssh directory.
func (c *SSHServerConfig) HostKeyPath() (string, error) {
	if c.KeyPath != "" {
		return c.KeyPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "tuitile_host_key"), nil
}

// StartSSHServer runs the SSH server until ctx is done.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	hostKeyPath, err := cfg.HostKeyPath()
	if err != nil {
		return err
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler(cfg)),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", server.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("SSH server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// teaHandler creates a demo desktop for each SSH session.
func teaHandler(cfg *SSHServerConfig) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, active := sshSession.Pty()
		if !active {
			wish.Fatalln(sshSession, "tuitile needs a terminal, connect with ssh -t")
			return nil, nil
		}
		logger.Debug("session started", "user", sshSession.User(),
			"width", pty.Window.Width, "height", pty.Window.Height)

		model := demo.New(cfg.Config, cfg.Windows)
		model.Desktop().Resize(pty.Window.Width, pty.Window.Height)
		return model, nil
	}
}

const shutdownTimeout = 5 * time.Second
