// Package main implements tuitile, a terminal playground for an
// automatic tiling engine. Two simulated monitors share the terminal;
// windows are tiled, dragged between tiles and outputs, resized and moved
// across a grid of workspaces with the mouse and keyboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/demo"
	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/resize"
	"github.com/Gaurav-Gosain/tuitile/internal/retile"
	"github.com/Gaurav-Gosain/tuitile/internal/server"
	"github.com/Gaurav-Gosain/tuitile/internal/tape"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
	"github.com/Gaurav-Gosain/tuitile/internal/tile"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode bool
	themeName string
)

func main() {
	var windows int
	var watch bool
	var record string

	rootCmd := &cobra.Command{
		Use:   "tuitile",
		Short: "Automatic tiling playground for the terminal",
		Long: `tuitile - automatic tiling in the terminal

Runs a tiling window manager engine against two simulated monitors drawn
side by side in the terminal. Drag tiles with the left button to retile
them, resize with the right button, and use the keyboard for focus,
fullscreen and workspaces.`,
		Example: `  # Run the demo
  tuitile

  # Start with four windows and reload the config on change
  tuitile demo --windows 4 --watch

  # Record a session and replay it without a terminal
  tuitile demo --record session.tape
  tuitile tape run session.tape --print

  # Print the tree of a demo workspace
  tuitile layout print --windows 3

  # List all keybindings
  tuitile keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), windows, watch, record)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme (see 'tuitile themes')")
	rootCmd.Flags().IntVar(&windows, "windows", 2, "Number of windows to open at start")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Reload the configuration file when it changes")
	rootCmd.Flags().StringVar(&record, "record", "", "Record the session as a tape file")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo",
		Long:  `Run the interactive tiling demo in the alternate screen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), windows, watch, record)
		},
	}
	demoCmd.Flags().IntVar(&windows, "windows", 2, "Number of windows to open at start")
	demoCmd.Flags().BoolVar(&watch, "watch", false, "Reload the configuration file when it changes")
	demoCmd.Flags().StringVar(&record, "record", "", "Record the session as a tape file")

	var sshHost, sshPort, sshKeyPath string
	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve the demo over SSH",
		Long: `Serve the demo over SSH

Every connection gets its own desktop. The server generates a host key
automatically if not specified.`,
		Example: `  # Start SSH server on default port
  tuitile ssh

  # Connect to it
  ssh -p 2222 -t localhost`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(log.InfoLevel)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.StartSSHServer(ctx, &server.SSHServerConfig{
				Host:    sshHost,
				Port:    sshPort,
				KeyPath: sshKeyPath,
				Windows: windows,
				Config:  loadConfig(),
			})
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&windows, "windows", 2, "Number of windows every session starts with")

	rootCmd.AddCommand(demoCmd, sshCmd, newWebCmd(), newConfigCmd(), newKeybindsCmd(), newLayoutCmd(), newTapeCmd(), newThemesCmd())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// setupLogging sets the level of every package logger, or debug with
// --debug. Logs go to stderr; redirect it to keep them out of the demo
// screen.
func setupLogging(level log.Level) {
	if debugMode {
		level = log.DebugLevel
	}
	for _, set := range []func(log.Level){
		config.SetLogLevel,
		demo.SetLogLevel,
		drag.SetLogLevel,
		resize.SetLogLevel,
		retile.SetLogLevel,
		server.SetLogLevel,
		tape.SetLogLevel,
		tile.SetLogLevel,
		wset.SetLogLevel,
	} {
		set(level)
	}
	log.SetLevel(level)
}

// loadConfig reads the user configuration, falling back to the defaults.
func loadConfig() *config.UserConfig {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		return config.DefaultConfig()
	}
	return cfg
}

// filterMouseMotion drops pointer motion while no drag or resize is
// running.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	m, ok := model.(*demo.Model)
	if !ok || m.Desktop().Interacting() {
		return msg
	}
	return nil
}

func runDemo(ctx context.Context, windows int, watch bool, record string) error {
	setupLogging(log.ErrorLevel)

	cfg := loadConfig()
	name := themeName
	if name == "" {
		name = cfg.Appearance.Theme
	}
	if err := theme.Initialize(name); err != nil {
		log.Warn("theme not found, using default", "theme", name)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var recorder *tape.Recorder
	model := demo.New(cfg, windows)
	if record != "" {
		// Record the initial windows too so the tape replays from scratch.
		model = demo.New(cfg, 0)
		recorder = tape.NewRecorder()
		recorder.Attach(model)
		for range windows {
			model.RunAction("new_window")
		}
	}
	if watch {
		path, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("could not determine config path: %w", err)
		}
		model.WatchConfig(ctx, path)
	}

	p := tea.NewProgram(
		model,
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	if recorder != nil {
		recorder.Stop()
		if err := recorder.WriteToFile(record, "tuitile "+version); err != nil {
			return fmt.Errorf("writing tape: %w", err)
		}
		fmt.Printf("Recorded %d commands to %s\n", recorder.CommandCount(), record)
	}
	return nil
}
