package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/demo"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func newWebCmd() *cobra.Command {
	var (
		webPort           string
		webHost           string
		webReadOnly       bool
		webMaxConnections int
		windows           int
	)

	webCmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the demo in the browser",
		Long: `Serve the demo through the browser

Powered by sip (github.com/Gaurav-Gosain/sip): WebTransport with a
WebSocket fallback and xterm.js rendering. Every browser tab gets its own
desktop.`,
		Example: `  # Serve on the default port
  tuitile web

  # Let others watch without input
  tuitile web --host 0.0.0.0 --read-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(log.InfoLevel)

			// The server's stdout is no terminal; keep the colors anyway.
			lipgloss.Writer.Profile = colorprofile.TrueColor
			_ = os.Setenv("TERM", "xterm-256color")
			_ = os.Setenv("COLORTERM", "truecolor")

			cfg := loadConfig()
			name := themeName
			if name == "" {
				name = cfg.Appearance.Theme
			}
			if err := theme.Initialize(name); err != nil {
				log.Warn("theme not found, using default", "theme", name)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(c)
			go func() {
				select {
				case <-c:
					cancel()
				case <-ctx.Done():
				}
			}()

			sipConfig := sip.DefaultConfig()
			sipConfig.Host = webHost
			sipConfig.Port = webPort
			sipConfig.ReadOnly = webReadOnly
			sipConfig.MaxConnections = webMaxConnections
			sipConfig.Debug = debugMode

			server := sip.NewServer(sipConfig)
			return server.Serve(ctx, webHandler(cfg, windows))
		},
	}

	webCmd.Flags().StringVar(&webPort, "port", "7681", "Web server port")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "Web server host")
	webCmd.Flags().BoolVar(&webReadOnly, "read-only", false, "Disallow input from clients")
	webCmd.Flags().IntVar(&webMaxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	webCmd.Flags().IntVar(&windows, "windows", 2, "Number of windows every session starts with")
	return webCmd
}

// webHandler creates a demo desktop for each browser session.
func webHandler(cfg *config.UserConfig, windows int) func(sip.Session) (tea.Model, []tea.ProgramOption) {
	return func(sess sip.Session) (tea.Model, []tea.ProgramOption) {
		pty := sess.Pty()
		model := demo.New(cfg, windows)
		model.Desktop().Resize(pty.Width, pty.Height)
		return model, []tea.ProgramOption{tea.WithFilter(filterMouseMotion)}
	}
}
