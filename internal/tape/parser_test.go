package tape

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		typ   CommandType
		args  []string
		raw   string
	}{
		{"sleep", "Sleep 250ms", CommandType_Sleep, []string{"250ms"}, "Sleep 250ms"},
		{"key", `Key "alt+1"`, CommandType_Key, []string{"alt+1"}, `Key "alt+1"`},
		{"combo", "Alt+Shift+3", CommandType_KeyCombo, []string{"alt+shift+3"}, "Alt+Shift+3"},
		{"ctrl letter", "Ctrl+B", CommandType_KeyCombo, []string{"ctrl+b"}, "Ctrl+B"},
		{"action", "Action print_layout", CommandType_Action, []string{"print_layout"}, "Action print_layout"},
		{"repeat", "NewWindow 3", CommandType_NewWindow, []string{"3"}, "NewWindow 3"},
		{"bare", "ToggleTiling", CommandType_ToggleTiling, nil, "ToggleTiling"},
		{"focus", "Focus Up", CommandType_Focus, []string{"Up"}, "Focus Up"},
		{"workspace", "SwitchWorkspace 4", CommandType_SwitchWS, []string{"4"}, "SwitchWorkspace 4"},
		{"press", "Press 10 5", CommandType_Press, []string{"10", "5"}, "Press 10 5"},
		{"right press", "Press 10 5 Right", CommandType_Press, []string{"10", "5", "Right"}, "Press 10 5 Right"},
		{"release", "Release", CommandType_Release, nil, "Release"},
		{"drag", "Drag 1 2 3 4", CommandType_Drag, []string{"1", "2", "3", "4"}, "Drag 1 2 3 4"},
		{"expect", `Expect "term 1" 0 0 60 40`, CommandType_Expect, []string{"term 1", "0", "0", "60", "40"}, `Expect "term 1" 0 0 60 40`},
		{"output", `Output 'frame.txt'`, CommandType_Output, []string{"frame.txt"}, `Output "frame.txt"`},
		{"screenshot", "Screenshot", CommandType_Screenshot, nil, "Screenshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, errs := ParseFile(tt.input)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if len(cmds) != 1 {
				t.Fatalf("got %d commands, want 1", len(cmds))
			}
			cmd := cmds[0]
			if cmd.Type != tt.typ {
				t.Errorf("type = %v, want %v", cmd.Type, tt.typ)
			}
			if !slices.Equal(cmd.Args, tt.args) {
				t.Errorf("args = %q, want %q", cmd.Args, tt.args)
			}
			if cmd.String() != tt.raw {
				t.Errorf("String() = %q, want %q", cmd.String(), tt.raw)
			}
		})
	}
}

func TestParseSleepDuration(t *testing.T) {
	cmds, errs := ParseFile("Sleep 1.5s")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cmds[0].Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v, want 1.5s", cmds[0].Duration)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown command", "Jump 3", `unexpected token: "Jump"`},
		{"missing argument", "Press 10", "Press expects a number"},
		{"wrong argument", "Focus Sideways", "Focus expects Left, Right, Up or Down"},
		{"extra argument", "ToggleTiling now", `unexpected argument to ToggleTiling: "now"`},
		{"fractional number", "Move 1.5 2", "Move expects a number"},
		{"bad duration", "Sleep 5parsecs", "invalid duration"},
		{"half release", "Release 4", "Release expects both coordinates"},
		{"combo without key", "Ctrl+", "expected key after modifier"},
		{"combo without plus", "Ctrl B", "expected + after Ctrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, errs := ParseFile(tt.input)
			if len(cmds) != 0 {
				t.Errorf("got commands %v, want none", cmds)
			}
			if len(errs) != 1 || !strings.Contains(errs[0], tt.want) {
				t.Errorf("errors = %v, want one containing %q", errs, tt.want)
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	input := "NewWindow\nPress nowhere\n\nFocus Left\n"
	cmds, errs := ParseFile(input)

	if len(errs) != 1 || !strings.HasPrefix(errs[0], "line 2:") {
		t.Errorf("errors = %v, want one on line 2", errs)
	}
	var types []CommandType
	for _, c := range cmds {
		types = append(types, c.Type)
	}
	want := []CommandType{CommandType_NewWindow, CommandType_Focus}
	if !slices.Equal(types, want) {
		t.Errorf("commands = %v, want %v", types, want)
	}
	if cmds[1].Line != 4 {
		t.Errorf("Focus on line %d, want 4", cmds[1].Line)
	}
}

func TestCommandAction(t *testing.T) {
	tests := []struct {
		input  string
		action string
		ok     bool
	}{
		{"NewWindow", "new_window", true},
		{"RestoreWindows", "restore_all", true},
		{"Focus Down", "focus_down", true},
		{"SwitchWorkspace 2", "switch_workspace_2", true},
		{"MoveToWorkspace 9", "move_to_workspace_9", true},
		{"Action toggle_help", "toggle_help", true},
		{"Press 1 1", "", false},
		{"Screenshot", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmds, errs := ParseFile(tt.input)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			action, ok := cmds[0].Action()
			if action != tt.action || ok != tt.ok {
				t.Errorf("Action() = %q, %v, want %q, %v", action, ok, tt.action, tt.ok)
			}
		})
	}
}

func TestCommandRepeat(t *testing.T) {
	cmds, _ := ParseFile("NewWindow\nNewWindow 3\nNewWindow 0")
	want := []int{1, 3, 1}
	for i, c := range cmds {
		if got := c.Repeat(); got != want[i] {
			t.Errorf("%s: Repeat() = %d, want %d", c.String(), got, want[i])
		}
	}
}

func TestParseKeyCombo(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Ctrl+B", "ctrl+b", false},
		{"Alt+Shift+3", "alt+shift+3", false},
		{"Shift+Alt+Ctrl+Enter", "ctrl+alt+shift+enter", false},
		{"q", "q", false},
		{"Meta+x", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kc, err := ParseKeyCombo(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", kc)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := kc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlayer(t *testing.T) {
	cmds, _ := ParseFile("NewWindow\nCloseWindow\nScreenshot")
	p := NewPlayer(cmds)

	if p.IsFinished() || p.Progress() != 0 {
		t.Fatalf("fresh player finished=%v progress=%d", p.IsFinished(), p.Progress())
	}
	for i := range cmds {
		if got := p.NextCommand(); got.Type != cmds[i].Type {
			t.Errorf("command %d = %v, want %v", i, got.Type, cmds[i].Type)
		}
		p.Advance()
	}
	if !p.IsFinished() || p.NextCommand() != nil || p.Progress() != 100 {
		t.Errorf("after playback finished=%v progress=%d", p.IsFinished(), p.Progress())
	}

	if p.CurrentIndex() != p.TotalCommands() {
		t.Errorf("index %d, want %d", p.CurrentIndex(), p.TotalCommands())
	}

	stopped := NewPlayer(cmds)
	stopped.Stop()
	if !stopped.IsFinished() {
		t.Error("Stop did not finish playback")
	}
	if !NewPlayer(nil).IsFinished() {
		t.Error("empty player should be finished")
	}
}
