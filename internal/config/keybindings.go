package config

import "fmt"

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns all keybinding sections for the help overlay.
// With a nil registry the built-in defaults are described.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	windows := KeybindingSection{Title: "WINDOWS"}
	addBinding(&windows, registry, "new_window")
	addBinding(&windows, registry, "close_window")
	addBinding(&windows, registry, "minimize_window")
	addBinding(&windows, registry, "restore_all")
	addBinding(&windows, registry, "next_window")

	tiling := KeybindingSection{Title: "TILING"}
	addBinding(&tiling, registry, "toggle_tiling")
	addBinding(&tiling, registry, "toggle_fullscreen")
	addBinding(&tiling, registry, "focus_left")
	addBinding(&tiling, registry, "focus_right")
	addBinding(&tiling, registry, "focus_up")
	addBinding(&tiling, registry, "focus_down")
	addBinding(&tiling, registry, "cycle_gaps")
	addBinding(&tiling, registry, "print_layout")

	workspaces := KeybindingSection{Title: "WORKSPACES"}
	for i := 1; i <= 9; i++ {
		addBinding(&workspaces, registry, fmt.Sprintf("switch_workspace_%d", i))
	}
	for i := 1; i <= 9; i++ {
		addBinding(&workspaces, registry, fmt.Sprintf("move_to_workspace_%d", i))
	}

	system := KeybindingSection{Title: "SYSTEM"}
	addBinding(&system, registry, "toggle_help")
	addBinding(&system, registry, "quit")

	var sections []KeybindingSection
	for _, s := range []KeybindingSection{windows, tiling, workspaces, system} {
		if len(s.Bindings) > 0 {
			sections = append(sections, s)
		}
	}
	return append(sections, getStaticHelpSections()...)
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	keys := registry.GetKeysForDisplay(action)
	if keys == "" {
		return
	}
	desc := ActionDescriptions[action]
	if desc == "" {
		desc = action
	}
	section.Bindings = append(section.Bindings, Keybinding{Key: keys, Description: desc})
}

// getStaticHelpSections describes the pointer bindings, which are not
// configurable.
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "MOUSE",
			Bindings: []Keybinding{
				{"Left drag on a tile", "Move; drop on an edge to split, in the middle to swap"},
				{"Right drag on a tile", "Resize the tiles around the pointer"},
				{"Left drag on a floating window", "Move it, across outputs too"},
			},
		},
	}
}
