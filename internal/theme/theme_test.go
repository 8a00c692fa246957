package theme_test

import (
	"slices"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func TestDisabledThemeUsesFallbacks(t *testing.T) {
	if err := theme.Initialize(""); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if theme.IsEnabled() {
		t.Fatal("theming enabled without a theme name")
	}
	if got := theme.ColorToString(theme.BorderFloating()); got != "#faaaaa" {
		t.Errorf("floating border = %s", got)
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	defer theme.Initialize("")

	if err := theme.Initialize("no-such-theme-anywhere"); err == nil {
		t.Error("unknown theme accepted silently")
	}
	if !theme.IsEnabled() {
		t.Fatal("fallback theme not active")
	}
	if theme.ColorToString(theme.BorderFloating()) == "#faaaaa" {
		t.Error("fallback theme still uses the built-in colors")
	}
}

func TestThemesAreSelectable(t *testing.T) {
	defer theme.Initialize("")

	ids := theme.Themes()
	if len(ids) == 0 {
		t.Fatal("no themes registered")
	}
	if slices.Contains(ids, "") {
		t.Error("theme without an id")
	}
	if err := theme.Initialize(ids[len(ids)-1]); err != nil {
		t.Errorf("listed theme %q rejected: %v", ids[len(ids)-1], err)
	}
}

func TestColorToString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#000000", "#000000"},
		{"#AFFFFF", "#afffff"},
		{"#1e1e2e", "#1e1e2e"},
	}
	for _, tt := range tests {
		if got := theme.ColorToString(lipgloss.Color(tt.in)); got != tt.want {
			t.Errorf("ColorToString(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if got := theme.ColorToString(nil); got != "#000000" {
		t.Errorf("nil color = %s", got)
	}
}
