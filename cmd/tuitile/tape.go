package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/demo"
	"github.com/Gaurav-Gosain/tuitile/internal/tape"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func newTapeCmd() *cobra.Command {
	tapeCmd := &cobra.Command{
		Use:   "tape",
		Short: "Run and check scripted demo sessions",
		Long: `Run and check tape files

A tape drives the demo without a terminal: window actions, key presses,
pointer drags, layouts and geometry expectations, one command per line.
Record one with 'tuitile demo --record session.tape'.`,
	}

	var (
		windows    int
		realTime   bool
		printFrame bool
	)
	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Play a tape against a fresh desktop",
		Long: `Play a tape against a fresh desktop, reading stdin when the file is "-"
or missing. Fails at the first command that errors or expectation that
does not hold.`,
		Example: `  # Replay a recording and show where it ended
  tuitile tape run session.tape --print`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(log.WarnLevel)
			if err := theme.Initialize(themeName); err != nil {
				log.Warn("theme not found, using default", "theme", themeName)
			}
			cmds, err := loadTape(args)
			if err != nil {
				return err
			}

			r := tape.NewRunner(demo.New(loadConfig(), windows), cmds)
			r.SetRealTime(realTime)
			if err := r.Run(cmd.Context()); err != nil {
				return err
			}

			for i, shot := range r.Screenshots() {
				fmt.Printf("%s\n%s\n", title(fmt.Sprintf("Screenshot %d", i+1)), shot)
			}
			if printFrame {
				fmt.Println(r.Frame())
			}
			fmt.Println(dim(r.Summary()))
			return nil
		},
	}
	runCmd.Flags().IntVar(&windows, "windows", 0, "Number of windows to open before playing")
	runCmd.Flags().BoolVar(&realTime, "real-time", false, "Honor Sleep commands")
	runCmd.Flags().BoolVar(&printFrame, "print", false, "Print the final frame")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a tape for errors without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := loadTape(args)
			if err != nil {
				return err
			}
			fmt.Printf("%s %d commands\n", title("Tape is valid:"), len(cmds))
			return nil
		},
	}

	tapeCmd.AddCommand(runCmd, validateCmd)
	return tapeCmd
}

// loadTape reads and validates the tape named by args.
func loadTape(args []string) ([]tape.Command, error) {
	data, err := readInput(args)
	if err != nil {
		return nil, err
	}
	cmds, errs := tape.ValidateScript(string(data))
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid tape:\n  %s", strings.Join(errs, "\n  "))
	}
	return cmds, nil
}
