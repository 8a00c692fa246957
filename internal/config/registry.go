package config

import (
	"fmt"
	"slices"
	"strings"
)

// ActionDescriptions maps every bindable action to its help text.
var ActionDescriptions = map[string]string{
	"new_window":        "New window",
	"close_window":      "Close window",
	"minimize_window":   "Minimize window",
	"restore_all":       "Restore all windows",
	"next_window":       "Focus next window",
	"toggle_tiling":     "Toggle tiling of the focused window",
	"toggle_fullscreen": "Toggle fullscreen",
	"focus_left":        "Focus tile on the left",
	"focus_right":       "Focus tile on the right",
	"focus_up":          "Focus tile above",
	"focus_down":        "Focus tile below",
	"cycle_gaps":        "Cycle gap sizes",
	"print_layout":      "Show layout of the workspace",
	"toggle_help":       "Toggle help",
	"quit":              "Quit",
}

func init() {
	for i := 1; i <= 9; i++ {
		ActionDescriptions[fmt.Sprintf("switch_workspace_%d", i)] = fmt.Sprintf("Switch to workspace %d", i)
		ActionDescriptions[fmt.Sprintf("move_to_workspace_%d", i)] = fmt.Sprintf("Move window to workspace %d", i)
	}
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionKeys map[string][]string
	keyAction  map[string]string
	normalizer *KeyNormalizer
}

// NewKeybindRegistry builds a registry from the keybindings of cfg. When a
// key is bound twice the first section wins.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionKeys: make(map[string][]string),
		keyAction:  make(map[string]string),
		normalizer: NewKeyNormalizer(),
	}
	for _, section := range cfg.Keybindings.sections() {
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		slices.Sort(actions)
		for _, action := range actions {
			keys := section[action]
			r.actionKeys[action] = append(r.actionKeys[action], keys...)
			for _, key := range keys {
				for _, variant := range r.normalizer.NormalizeKey(key) {
					if _, taken := r.keyAction[variant]; !taken {
						r.keyAction[variant] = action
					}
				}
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if a, ok := r.keyAction[key]; ok {
		return a
	}
	for _, variant := range r.normalizer.NormalizeKey(key) {
		if a, ok := r.keyAction[variant]; ok {
			return a
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys of action joined for help screens.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = formatKeyForDisplay(k)
	}
	return strings.Join(display, ", ")
}

// Actions returns every bound action, sorted.
func (r *KeybindRegistry) Actions() []string {
	out := make([]string, 0, len(r.actionKeys))
	for a, keys := range r.actionKeys {
		if len(keys) > 0 {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

func formatKeyForDisplay(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"opt":     "alt",
	"option":  "alt",
	"meta":    "alt",
	"shift":   "shift",
	"super":   "super",
	"cmd":     "super",
	"hyper":   "hyper",
}

var keyAliases = map[string][]string{
	"return": {"enter"},
	"enter":  {"return"},
	"esc":    {"escape"},
	"escape": {"esc"},
	"space":  {" "},
}

var namedKeys = []string{
	"enter", "return", "esc", "escape", "tab", "space", "backspace", "delete",
	"up", "down", "left", "right", "home", "end", "pgup", "pgdown",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
}

// KeyNormalizer turns user-written key names into the strings the terminal
// reports.
type KeyNormalizer struct{}

// NewKeyNormalizer returns a normalizer.
func NewKeyNormalizer() *KeyNormalizer { return &KeyNormalizer{} }

// NormalizeKey returns the canonical form of key first, followed by its
// aliases. Modifiers are lower-cased; a lone character keeps its case.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	parts := strings.Split(key, "+")
	if key == "+" {
		parts = []string{"+"}
	}
	base := parts[len(parts)-1]
	mods := parts[:len(parts)-1]

	canonMods := make([]string, len(mods))
	for i, m := range mods {
		lm := strings.ToLower(m)
		if alias, ok := modifierAliases[lm]; ok {
			lm = alias
		}
		canonMods[i] = lm
	}
	if len(mods) > 0 || len(base) > 1 {
		base = strings.ToLower(base)
	}

	join := func(b string) string {
		return strings.Join(append(slices.Clone(canonMods), b), "+")
	}
	out := []string{join(base)}
	for _, alias := range keyAliases[base] {
		out = append(out, join(alias))
	}
	return out
}

// ValidateKey reports whether key can ever be produced, with the reason
// when it cannot.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if strings.TrimSpace(key) == "" {
		return false, "empty key"
	}
	if key == "+" {
		return true, ""
	}
	parts := strings.Split(key, "+")
	base := parts[len(parts)-1]
	if base == "" {
		return false, "missing key after modifier"
	}
	for _, m := range parts[:len(parts)-1] {
		if _, ok := modifierAliases[strings.ToLower(m)]; !ok {
			return false, fmt.Sprintf("unknown modifier %q", m)
		}
	}
	if len([]rune(base)) > 1 && !slices.Contains(namedKeys, strings.ToLower(base)) {
		return false, fmt.Sprintf("unknown key name %q", base)
	}
	return true, ""
}
