package main

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func newThemesCmd() *cobra.Command {
	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range theme.Themes() {
				fmt.Println(name)
			}
			return nil
		},
	}

	themesShowCmd := &cobra.Command{
		Use:   "show [theme]",
		Short: "Show the colors the demo uses with a theme",
		Long: `Show the colors the demo uses with a theme

Without an argument the --theme flag is used. With neither, the built-in
colors are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := themeName
			if len(args) == 1 {
				name = args[0]
			}
			if err := theme.Initialize(name); err != nil {
				return err
			}

			if theme.IsEnabled() {
				fmt.Println(title("Theme: " + name))
			} else {
				fmt.Println(title("Built-in colors"))
			}
			t := newTable("Role", "Color", "")
			for _, row := range paletteRows() {
				t.Row(row...)
			}
			fmt.Println(t)
			return nil
		},
	}

	themesCmd.AddCommand(themesShowCmd)
	return themesCmd
}

// paletteRows returns one row per demo color: role, hex value and a swatch.
func paletteRows() [][]string {
	roles := []struct {
		name string
		c    color.Color
	}{
		{"Desktop", theme.DesktopBg()},
		{"Text", theme.DesktopFg()},
		{"Floating border", theme.BorderFloating()},
		{"Tiled border", theme.BorderTiled()},
		{"Focused border", theme.BorderFocused()},
		{"Fullscreen border", theme.BorderFullscreen()},
		{"Drag ghost", theme.DragGhost()},
		{"Drop preview", theme.PreviewBorder()},
		{"Status bar", theme.StatusBg()},
	}

	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		swatch := lipgloss.NewStyle().Background(r.c).Render("    ")
		rows = append(rows, []string{r.name, theme.ColorToString(r.c), swatch})
	}
	return rows
}
