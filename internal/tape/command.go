package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandType names a tape command.
type CommandType string

const (
	CommandType_Sleep    CommandType = "Sleep"
	CommandType_Key      CommandType = "Key"
	CommandType_KeyCombo CommandType = "KeyCombo"

	CommandType_Action           CommandType = "Action"
	CommandType_NewWindow        CommandType = "NewWindow"
	CommandType_CloseWindow      CommandType = "CloseWindow"
	CommandType_NextWindow       CommandType = "NextWindow"
	CommandType_MinimizeWindow   CommandType = "MinimizeWindow"
	CommandType_RestoreWindows   CommandType = "RestoreWindows"
	CommandType_ToggleTiling     CommandType = "ToggleTiling"
	CommandType_ToggleFullscreen CommandType = "ToggleFullscreen"
	CommandType_Focus            CommandType = "Focus"
	CommandType_CycleGaps        CommandType = "CycleGaps"
	CommandType_SwitchWS         CommandType = "SwitchWorkspace"
	CommandType_MoveToWS         CommandType = "MoveToWorkspace"

	CommandType_Press   CommandType = "Press"
	CommandType_Move    CommandType = "Move"
	CommandType_Release CommandType = "Release"
	CommandType_Drag    CommandType = "Drag"

	CommandType_OpenWindow CommandType = "OpenWindow"
	CommandType_Resize     CommandType = "Resize"
	CommandType_Layout     CommandType = "Layout"
	CommandType_Expect     CommandType = "Expect"
	CommandType_Screenshot CommandType = "Screenshot"
	CommandType_Output     CommandType = "Output"
)

// simpleActions maps argument-free commands to keybinding actions.
var simpleActions = map[CommandType]string{
	CommandType_NewWindow:        "new_window",
	CommandType_CloseWindow:      "close_window",
	CommandType_NextWindow:       "next_window",
	CommandType_MinimizeWindow:   "minimize_window",
	CommandType_RestoreWindows:   "restore_all",
	CommandType_ToggleTiling:     "toggle_tiling",
	CommandType_ToggleFullscreen: "toggle_fullscreen",
	CommandType_CycleGaps:        "cycle_gaps",
}

// Command is one parsed tape command.
type Command struct {
	Type     CommandType
	Args     []string
	Duration time.Duration
	Line     int
	Raw      string
}

// String returns the command as it would be written in a tape.
func (c *Command) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return strings.TrimSpace(string(c.Type) + " " + strings.Join(c.Args, " "))
}

// Int returns argument i as an integer. Parsed commands carry validated
// numbers so errors read as zero.
func (c *Command) Int(i int) int {
	if i >= len(c.Args) {
		return 0
	}
	n, _ := strconv.Atoi(c.Args[i])
	return n
}

// Arg returns argument i or "".
func (c *Command) Arg(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Repeat returns how often an action command runs.
func (c *Command) Repeat() int {
	if len(c.Args) == 0 {
		return 1
	}
	return max(c.Int(0), 1)
}

// Action returns the keybinding action the command triggers, if it is an
// action command.
func (c *Command) Action() (string, bool) {
	if a, ok := simpleActions[c.Type]; ok {
		return a, true
	}
	switch c.Type {
	case CommandType_Action:
		return c.Arg(0), true
	case CommandType_Focus:
		return "focus_" + strings.ToLower(c.Arg(0)), true
	case CommandType_SwitchWS:
		return "switch_workspace_" + c.Arg(0), true
	case CommandType_MoveToWS:
		return "move_to_workspace_" + c.Arg(0), true
	}
	return "", false
}

// KeyCombo is a key with modifiers, such as Alt+Shift+3.
type KeyCombo struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Key   string
}

// String returns the combo in the form key events print, e.g. "alt+shift+3".
func (kc *KeyCombo) String() string {
	var sb strings.Builder
	if kc.Ctrl {
		sb.WriteString("ctrl+")
	}
	if kc.Alt {
		sb.WriteString("alt+")
	}
	if kc.Shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(strings.ToLower(kc.Key))
	return sb.String()
}

// ParseKeyCombo parses combos like "Ctrl+B" or "Alt+Shift+1".
func ParseKeyCombo(s string) (*KeyCombo, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '+' })
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty key combo")
	}
	kc := &KeyCombo{Key: parts[len(parts)-1]}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl":
			kc.Ctrl = true
		case "alt":
			kc.Alt = true
		case "shift":
			kc.Shift = true
		default:
			return nil, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return kc, nil
}
