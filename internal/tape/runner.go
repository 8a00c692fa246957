package tape

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/demo"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tape",
	})
}

// SetLogLevel sets the level of the package logger.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// dragSteps is the number of motion events a Drag command sends.
const dragSteps = 4

// Runner plays commands against a demo model without a terminal.
type Runner struct {
	model    *demo.Model
	player   *Player
	realTime bool

	pointer     geom.Point
	output      string
	screenshots []string
}

// NewRunner returns a runner that plays commands against m.
func NewRunner(m *demo.Model, commands []Command) *Runner {
	return &Runner{model: m, player: NewPlayer(commands)}
}

// SetRealTime makes Sleep commands actually wait.
func (r *Runner) SetRealTime(realTime bool) {
	r.realTime = realTime
}

// Run plays every command. It stops at the first failing command, at a
// quit action, or when ctx is done. If the tape named an Output file the
// final frame is written there.
func (r *Runner) Run(ctx context.Context) error {
	for !r.player.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd := r.player.NextCommand()
		logger.Debug("command", "line", cmd.Line, "cmd", cmd.String())
		if err := r.exec(ctx, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.String(), err)
		}
		r.player.Advance()
	}
	if r.output != "" {
		if err := os.WriteFile(r.output, []byte(r.Frame()+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		logger.Info("frame written", "path", r.output)
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, cmd *Command) error {
	if action, ok := cmd.Action(); ok {
		if _, known := config.ActionDescriptions[action]; !known {
			return fmt.Errorf("unknown action %q", action)
		}
		for range cmd.Repeat() {
			r.finishIf(r.model.RunAction(action))
		}
		return nil
	}

	switch cmd.Type {
	case CommandType_Sleep:
		if !r.realTime {
			return nil
		}
		select {
		case <-time.After(cmd.Duration):
		case <-ctx.Done():
			return ctx.Err()
		}

	case CommandType_Key, CommandType_KeyCombo:
		r.finishIf(r.model.HandleKey(cmd.Arg(0)))

	case CommandType_Press:
		r.pointer = geom.Point{X: cmd.Int(0), Y: cmd.Int(1)}
		r.model.Press(r.pointer, cmd.Arg(2) == "Right")

	case CommandType_Move:
		r.pointer = geom.Point{X: cmd.Int(0), Y: cmd.Int(1)}
		r.model.Motion(r.pointer)

	case CommandType_Release:
		if len(cmd.Args) == 2 {
			r.pointer = geom.Point{X: cmd.Int(0), Y: cmd.Int(1)}
		}
		r.model.Release(r.pointer)

	case CommandType_Drag:
		from := geom.Point{X: cmd.Int(0), Y: cmd.Int(1)}
		to := geom.Point{X: cmd.Int(2), Y: cmd.Int(3)}
		r.drag(from, to, cmd.Arg(4) == "Right")

	case CommandType_Resize:
		if cmd.Int(0) <= 0 || cmd.Int(1) <= 1 {
			return fmt.Errorf("size %dx%d is too small", cmd.Int(0), cmd.Int(1))
		}
		r.model.Update(tea.WindowSizeMsg{Width: cmd.Int(0), Height: cmd.Int(1)})

	case CommandType_OpenWindow:
		id := shell.WindowID(cmd.Arg(0))
		if _, exists := r.model.Desktop().Shell().Window(id); exists {
			return fmt.Errorf("window %q already exists", id)
		}
		r.model.Desktop().MapWindow(id, cmd.Arg(0))

	case CommandType_Layout:
		return r.model.Desktop().ApplyLayout([]byte(cmd.Arg(0)))

	case CommandType_Expect:
		return r.expect(cmd.Arg(0), geom.Rect{X: cmd.Int(1), Y: cmd.Int(2), Width: cmd.Int(3), Height: cmd.Int(4)})

	case CommandType_Screenshot:
		r.screenshots = append(r.screenshots, r.Frame())

	case CommandType_Output:
		r.output = cmd.Arg(0)

	default:
		return fmt.Errorf("unsupported command")
	}
	return nil
}

// finishIf stops playback when the model asked to quit.
func (r *Runner) finishIf(cmd tea.Cmd) {
	if cmd != nil {
		logger.Debug("quit requested", "at", r.player.CurrentIndex())
		r.player.Stop()
	}
}

func (r *Runner) drag(from, to geom.Point, right bool) {
	r.model.Press(from, right)
	for i := 1; i <= dragSteps; i++ {
		r.pointer = geom.Point{
			X: from.X + (to.X-from.X)*i/dragSteps,
			Y: from.Y + (to.Y-from.Y)*i/dragSteps,
		}
		r.model.Motion(r.pointer)
	}
	r.model.Release(to)
}

func (r *Runner) expect(title string, want geom.Rect) error {
	d := r.model.Desktop()
	for _, w := range d.Shell().Windows() {
		if w.Title != title {
			continue
		}
		if got := d.LayoutBox(w); got != want {
			return fmt.Errorf("%q is at %+v, want %+v", title, got, want)
		}
		return nil
	}
	return fmt.Errorf("no window titled %q", title)
}

// Frame returns the current frame as plain text.
func (r *Runner) Frame() string {
	scr := r.model.Frame()
	lines := make([]string, scr.Bounds().Height)
	for y := range lines {
		lines[y] = strings.TrimRight(scr.Line(y), " ")
	}
	return strings.Join(lines, "\n")
}

// Screenshots returns the frames captured by Screenshot commands.
func (r *Runner) Screenshots() []string {
	return r.screenshots
}

// Summary describes how far playback got, e.g. "3 of 4 commands played (75%)".
func (r *Runner) Summary() string {
	return fmt.Sprintf("%d of %d commands played (%d%%)",
		r.player.CurrentIndex(), r.player.TotalCommands(), r.player.Progress())
}

// Player returns the underlying player.
func (r *Runner) Player() *Player {
	return r.player
}

// ValidateScript parses content and checks the actions it names. It
// returns the commands together with every problem found.
func ValidateScript(content string) ([]Command, []string) {
	commands, errs := ParseFile(content)
	for _, cmd := range commands {
		action, ok := cmd.Action()
		if !ok {
			continue
		}
		if _, known := config.ActionDescriptions[action]; !known {
			errs = append(errs, fmt.Sprintf("line %d: unknown action %q", cmd.Line, action))
		}
	}
	return commands, errs
}
