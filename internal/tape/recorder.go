package tape

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tuitile/internal/demo"
)

// minSleep is the shortest pause worth writing as a Sleep command.
const minSleep = 100 * time.Millisecond

// actionCommands maps keybinding actions back to their tape commands.
var actionCommands = map[string]string{
	"new_window":        "NewWindow",
	"close_window":      "CloseWindow",
	"next_window":       "NextWindow",
	"minimize_window":   "MinimizeWindow",
	"restore_all":       "RestoreWindows",
	"toggle_tiling":     "ToggleTiling",
	"toggle_fullscreen": "ToggleFullscreen",
	"cycle_gaps":        "CycleGaps",
	"focus_left":        "Focus Left",
	"focus_right":       "Focus Right",
	"focus_up":          "Focus Up",
	"focus_down":        "Focus Down",
}

type recorded struct {
	raw   string
	delay time.Duration
}

// Recorder turns the inputs of a demo session into a tape.
type Recorder struct {
	mu            sync.Mutex
	commands      []recorded
	startTime     time.Time
	lastEventTime time.Time
	enabled       bool
	now           func() time.Time
}

// NewRecorder returns a stopped recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Start begins a fresh recording.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = true
	r.startTime = r.now()
	r.lastEventTime = r.startTime
	r.commands = nil
}

// Stop ends the recording.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
}

// IsRecording reports whether inputs are being recorded.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Attach starts recording the inputs of m.
func (r *Recorder) Attach(m *demo.Model) {
	m.Observe(r.Record)
	r.Start()
}

// Record appends one input. Quick runs of pointer motion collapse into
// their first and last positions.
func (r *Recorder) Record(in demo.Input) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}

	raw, ok := inputCommand(in)
	if !ok {
		return
	}
	now := r.now()
	delay := now.Sub(r.lastEventTime)
	r.lastEventTime = now

	if in.Kind == demo.InputMotion && delay < minSleep && r.inMotionRun() {
		r.commands[len(r.commands)-1].raw = raw
		return
	}
	r.commands = append(r.commands, recorded{raw: raw, delay: delay})
}

// inMotionRun reports whether the last two commands are moves. The first
// move after a press is kept so drags start where they did live.
func (r *Recorder) inMotionRun() bool {
	n := len(r.commands)
	return n >= 2 &&
		strings.HasPrefix(r.commands[n-1].raw, "Move ") &&
		strings.HasPrefix(r.commands[n-2].raw, "Move ")
}

func inputCommand(in demo.Input) (string, bool) {
	switch in.Kind {
	case demo.InputResize:
		return fmt.Sprintf("Resize %d %d", in.Width, in.Height), true
	case demo.InputPress:
		if in.Right {
			return fmt.Sprintf("Press %d %d Right", in.At.X, in.At.Y), true
		}
		return fmt.Sprintf("Press %d %d", in.At.X, in.At.Y), true
	case demo.InputMotion:
		return fmt.Sprintf("Move %d %d", in.At.X, in.At.Y), true
	case demo.InputRelease:
		return fmt.Sprintf("Release %d %d", in.At.X, in.At.Y), true
	}

	switch {
	case in.Action == "" || in.Action == "quit":
		return "", false
	case strings.HasPrefix(in.Action, "switch_workspace_"):
		return "SwitchWorkspace " + strings.TrimPrefix(in.Action, "switch_workspace_"), true
	case strings.HasPrefix(in.Action, "move_to_workspace_"):
		return "MoveToWorkspace " + strings.TrimPrefix(in.Action, "move_to_workspace_"), true
	}
	if raw, ok := actionCommands[in.Action]; ok {
		return raw, true
	}
	return "Action " + in.Action, true
}

// CommandCount returns the number of recorded commands.
func (r *Recorder) CommandCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// String renders the recording as tape source. Pauses of at least
// minSleep become Sleep commands.
func (r *Recorder) String(header string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	if header != "" {
		fmt.Fprintf(&sb, "# %s\n", header)
		fmt.Fprintf(&sb, "# Recorded: %s\n\n", r.startTime.Format(time.RFC3339))
	}
	for _, c := range r.commands {
		if c.delay >= minSleep {
			fmt.Fprintf(&sb, "Sleep %dms\n", c.delay.Milliseconds())
		}
		sb.WriteString(c.raw)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteToFile saves the recording to filename.
func (r *Recorder) WriteToFile(filename, header string) error {
	return os.WriteFile(filename, []byte(r.String(header)), 0o644)
}
