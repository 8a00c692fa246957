package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/demo"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/tile"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
)

func newLayoutCmd() *cobra.Command {
	var width, height, windows int

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Export and apply tiling layouts",
		Long: `Export and apply tiling layouts in JSON

Layouts describe one workspace as nested horizontal-split and
vertical-split lists of weighted children, with window ids at the leaves.
A horizontal split stacks its children top to bottom, a vertical split
places them side by side.`,
	}

	layoutPrintCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the layout of a demo workspace",
		Long: `Tile the given number of windows on one output and print the resulting
tree as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(log.ErrorLevel)
			d := newLayoutDesktop(width, height)
			for i := range windows {
				d.MapWindow("", fmt.Sprintf("term %d", i+1))
			}
			out, err := d.LayoutJSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	layoutPrintCmd.Flags().IntVar(&windows, "windows", 3, "Number of windows to tile")

	layoutApplyCmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Apply a layout and print the window geometry",
		Long: `Read a JSON layout from a file, or stdin when the file is "-" or
missing, map one window for every id it names and print where each window
ends up`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(log.ErrorLevel)
			data, err := readInput(args)
			if err != nil {
				return err
			}
			return applyLayout(data, width, height)
		},
	}

	layoutCmd.PersistentFlags().IntVar(&width, "width", 1920, "Output width")
	layoutCmd.PersistentFlags().IntVar(&height, "height", 1080, "Output height")
	layoutCmd.AddCommand(layoutPrintCmd, layoutApplyCmd)
	return layoutCmd
}

// newLayoutDesktop returns a desktop whose left output has the given size,
// tiled with the gaps of the user configuration.
func newLayoutDesktop(width, height int) *demo.Desktop {
	opts := loadConfig().TileOptions()
	opts.TileByDefault = tile.TileAll
	return demo.NewDesktop(2*width, height+1, opts)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	// #nosec G304 - the file is named on the command line
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

func applyLayout(data []byte, width, height int) error {
	var ln tree.LayoutNode
	if err := json.Unmarshal(data, &ln); err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	ids, err := tree.VerifyLayout(ln, geom.Dimensions{Width: width, Height: height}, nil)
	if err != nil {
		return err
	}

	d := newLayoutDesktop(width, height)
	for _, id := range ids {
		d.MapWindow(id, string(id))
	}
	if err := d.ApplyLayout(data); err != nil {
		return err
	}

	t := newTable("Window", "X", "Y", "Width", "Height")
	for _, id := range ids {
		w, ok := d.Shell().Window(id)
		if !ok {
			continue
		}
		r := d.LayoutBox(w)
		t.Row(string(id), strconv.Itoa(r.X), strconv.Itoa(r.Y), strconv.Itoa(r.Width), strconv.Itoa(r.Height))
	}
	fmt.Println(t.Render())
	return nil
}
