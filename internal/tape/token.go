// Package tape implements a small scripting language for driving the
// tiling demo without a terminal. A tape is a list of line-oriented
// commands:
//
//	# comments start with a hash
//	Resize 120 41
//	NewWindow 2
//	Drag 15 20 90 20
//	Expect "term 1" 60 0 60 40
//	Alt+Shift+3
//	Screenshot
package tape

// TokenType identifies a lexical token.
type TokenType string

const (
	TOKEN_EOF        TokenType = "EOF"
	TOKEN_NEWLINE    TokenType = "NEWLINE"
	TOKEN_ILLEGAL    TokenType = "ILLEGAL"
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"
	TOKEN_PLUS       TokenType = "+"

	// Timing
	TOKEN_SLEEP TokenType = "Sleep"

	// Keys
	TOKEN_KEY   TokenType = "Key"
	TOKEN_CTRL  TokenType = "Ctrl"
	TOKEN_ALT   TokenType = "Alt"
	TOKEN_SHIFT TokenType = "Shift"

	// Window management
	TOKEN_ACTION          TokenType = "Action"
	TOKEN_NEW_WINDOW      TokenType = "NewWindow"
	TOKEN_CLOSE_WINDOW    TokenType = "CloseWindow"
	TOKEN_NEXT_WINDOW     TokenType = "NextWindow"
	TOKEN_MINIMIZE_WINDOW TokenType = "MinimizeWindow"
	TOKEN_RESTORE_WINDOWS TokenType = "RestoreWindows"
	TOKEN_TOGGLE_TILING   TokenType = "ToggleTiling"
	TOKEN_TOGGLE_FULLSCRN TokenType = "ToggleFullscreen"
	TOKEN_FOCUS           TokenType = "Focus"
	TOKEN_CYCLE_GAPS      TokenType = "CycleGaps"
	TOKEN_SWITCH_WS       TokenType = "SwitchWorkspace"
	TOKEN_MOVE_TO_WS      TokenType = "MoveToWorkspace"

	// Pointer
	TOKEN_PRESS   TokenType = "Press"
	TOKEN_MOVE    TokenType = "Move"
	TOKEN_RELEASE TokenType = "Release"
	TOKEN_DRAG    TokenType = "Drag"

	// Desktop
	TOKEN_OPEN_WINDOW TokenType = "OpenWindow"
	TOKEN_RESIZE      TokenType = "Resize"
	TOKEN_LAYOUT      TokenType = "Layout"
	TOKEN_EXPECT      TokenType = "Expect"
	TOKEN_SCREENSHOT  TokenType = "Screenshot"
	TOKEN_OUTPUT      TokenType = "Output"

	// Arguments
	TOKEN_LEFT_ARG  TokenType = "Left"
	TOKEN_RIGHT_ARG TokenType = "Right"
	TOKEN_UP_ARG    TokenType = "Up"
	TOKEN_DOWN_ARG  TokenType = "Down"
)

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsModifier reports whether the token starts a key combo.
func (tt TokenType) IsModifier() bool {
	switch tt {
	case TOKEN_CTRL, TOKEN_ALT, TOKEN_SHIFT:
		return true
	}
	return false
}

// IsDirection reports whether the token names a focus direction.
func (tt TokenType) IsDirection() bool {
	switch tt {
	case TOKEN_LEFT_ARG, TOKEN_RIGHT_ARG, TOKEN_UP_ARG, TOKEN_DOWN_ARG:
		return true
	}
	return false
}

// KeywordTokenMap maps keywords to their token types.
var KeywordTokenMap = map[string]TokenType{
	"Sleep": TOKEN_SLEEP,

	"Key":   TOKEN_KEY,
	"Ctrl":  TOKEN_CTRL,
	"Alt":   TOKEN_ALT,
	"Shift": TOKEN_SHIFT,

	"Action":           TOKEN_ACTION,
	"NewWindow":        TOKEN_NEW_WINDOW,
	"CloseWindow":      TOKEN_CLOSE_WINDOW,
	"NextWindow":       TOKEN_NEXT_WINDOW,
	"MinimizeWindow":   TOKEN_MINIMIZE_WINDOW,
	"RestoreWindows":   TOKEN_RESTORE_WINDOWS,
	"ToggleTiling":     TOKEN_TOGGLE_TILING,
	"ToggleFullscreen": TOKEN_TOGGLE_FULLSCRN,
	"Focus":            TOKEN_FOCUS,
	"CycleGaps":        TOKEN_CYCLE_GAPS,
	"SwitchWorkspace":  TOKEN_SWITCH_WS,
	"MoveToWorkspace":  TOKEN_MOVE_TO_WS,

	"Press":   TOKEN_PRESS,
	"Move":    TOKEN_MOVE,
	"Release": TOKEN_RELEASE,
	"Drag":    TOKEN_DRAG,

	"OpenWindow": TOKEN_OPEN_WINDOW,
	"Resize":     TOKEN_RESIZE,
	"Layout":     TOKEN_LAYOUT,
	"Expect":     TOKEN_EXPECT,
	"Screenshot": TOKEN_SCREENSHOT,
	"Output":     TOKEN_OUTPUT,

	"Left":  TOKEN_LEFT_ARG,
	"Right": TOKEN_RIGHT_ARG,
	"Up":    TOKEN_UP_ARG,
	"Down":  TOKEN_DOWN_ARG,
}

// LookupKeyword returns the token type of ident, or TOKEN_IDENTIFIER.
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
