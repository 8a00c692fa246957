package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect tuitile keybinding configuration`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long: `Display only keybindings that differ from defaults

Shows a comparison of default and custom keybindings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCustomKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)
	return keybindsCmd
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableTitle()).Render(s)
}

func dim(s string) string {
	return lipgloss.NewStyle().Foreground(theme.CLITableDim()).Italic(true).Render(s)
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}
	printKeybindingsTable(config.NewKeybindRegistry(userConfig))
	return nil
}

func printKeybindingsTable(registry *config.KeybindRegistry) {
	fmt.Println()
	fmt.Println(title("tuitile keybindings"))
	fmt.Println()

	for _, section := range config.GetKeybindings(registry) {
		if len(section.Bindings) == 0 {
			continue
		}
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Println(title(section.Title))
		fmt.Println(t.Render())
		fmt.Println()
	}

	fmt.Println(dim("Keys are read from the [keybindings] tables of the config file."))
	fmt.Println()
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	customizations := findCustomizations(userConfig, config.DefaultConfig())
	if len(customizations) == 0 {
		fmt.Println(dim("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Println()
		fmt.Println("Run 'tuitile keybinds list' to see all keybindings.")
		return nil
	}

	t := newTable("Action", "Default", "Custom")
	for _, c := range customizations {
		t.Row(c.Action, c.DefaultKeys, c.CustomKeys)
	}

	fmt.Println()
	fmt.Println(title("Custom keybindings"))
	fmt.Println()
	fmt.Println(t.Render())
	fmt.Println()
	fmt.Println(dim(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
	fmt.Println()
	return nil
}

// Customization represents a customized keybinding
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// findCustomizations finds all keybindings that differ from defaults
func findCustomizations(userCfg, defaultCfg *config.UserConfig) []Customization {
	var customizations []Customization

	compareSections := func(userSection, defaultSection map[string][]string) {
		actions := make([]string, 0, len(defaultSection))
		for action := range defaultSection {
			actions = append(actions, action)
		}
		slices.Sort(actions)
		for _, action := range actions {
			userKeys, exists := userSection[action]
			if !exists || slices.Equal(userKeys, defaultSection[action]) {
				continue
			}
			customizations = append(customizations, Customization{
				Action:      formatActionName(action),
				DefaultKeys: strings.Join(defaultSection[action], ", "),
				CustomKeys:  strings.Join(userKeys, ", "),
			})
		}
	}

	compareSections(userCfg.Keybindings.Windows, defaultCfg.Keybindings.Windows)
	compareSections(userCfg.Keybindings.Tiling, defaultCfg.Keybindings.Tiling)
	compareSections(userCfg.Keybindings.Workspaces, defaultCfg.Keybindings.Workspaces)
	compareSections(userCfg.Keybindings.System, defaultCfg.Keybindings.System)
	return customizations
}

// formatActionName formats an action name for display
func formatActionName(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}
