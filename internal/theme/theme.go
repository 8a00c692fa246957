// Package theme provides the colors of the tuitile demo and CLI.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming is disabled and standard terminal colors
// are used. Unknown names fall back to the default tint.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// current returns the active theme, or nil if theming is disabled.
func current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Themes lists the ids of every known theme.
func Themes() []string {
	tint.NewDefaultRegistry()
	return tint.TintIDs()
}

// Desktop colors
func DesktopBg() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#1e1e2e")
	}
	return t.Bg
}

func DesktopFg() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#a0a0a8")
	}
	return t.Fg
}

// Window border colors
func BorderFloating() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#FAAAAA")
	}
	return t.Red
}

func BorderTiled() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#8888cc")
	}
	return t.Blue
}

func BorderFocused() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

func BorderFullscreen() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#ffd75f")
	}
	return t.BrightYellow
}

// Drag feedback colors
func DragGhost() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#808090")
	}
	return t.BrightBlack
}

func PreviewFill() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#2f4f4f")
	}
	return t.Cyan
}

func PreviewBorder() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#AAFFAA")
	}
	return t.BrightGreen
}

// Status bar colors
func StatusBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func StatusFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func StatusHighlight() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.BrightGreen
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("8")
}

func CLITableTitle() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns values in range 0-65535, convert to 0-255
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
