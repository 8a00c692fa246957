package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuitile/internal/config"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
)

// Default terminal size used until the first WindowSizeMsg arrives.
const (
	DefaultWidth  = 120
	DefaultHeight = 40
)

// ConfigReloadedMsg carries a configuration read again from disk.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
	Err    error
}

// Model is the bubbletea model of the demo.
type Model struct {
	desk *Desktop
	cfg  *config.UserConfig
	keys *config.KeybindRegistry

	showHelp bool
	overlay  string
	status   string

	reloads chan ConfigReloadedMsg
	observe func(Input)
}

// New returns a model over a fresh desktop configured by cfg. The desktop
// starts with the given number of windows.
func New(cfg *config.UserConfig, windows int) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Model{
		desk: NewDesktop(DefaultWidth, DefaultHeight, CellOptions(cfg.TileOptions())),
		cfg:  cfg,
		keys: config.NewKeybindRegistry(cfg),
	}
	for range windows {
		m.desk.NewWindow()
	}
	m.status = "press " + m.keys.GetKeysForDisplay("toggle_help") + " for help"
	return m
}

// Desktop returns the simulated desktop.
func (m *Model) Desktop() *Desktop { return m.desk }

// WatchConfig reloads the configuration whenever path changes, until ctx
// is done. The reload channel is closed once watching stops.
func (m *Model) WatchConfig(ctx context.Context, path string) {
	ch := make(chan ConfigReloadedMsg, 1)
	m.reloads = ch
	go func() {
		defer close(ch)
		err := config.Watch(ctx, path, func(cfg *config.UserConfig, err error) {
			select {
			case ch <- ConfigReloadedMsg{Config: cfg, Err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("config watch stopped", "path", path, "err", err)
		}
	}()
}

// listenForReloads waits for the next configuration reload. The command
// yields nil once the channel is closed.
func listenForReloads(ch <-chan ConfigReloadedMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return listenForReloads(m.reloads)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.notify(Input{Kind: InputResize, Width: msg.Width, Height: msg.Height})
		m.desk.Resize(msg.Width, msg.Height)
		return m, nil

	case ConfigReloadedMsg:
		m.ApplyConfig(msg.Config, msg.Err)
		return m, listenForReloads(m.reloads)

	case tea.KeyPressMsg:
		return m, m.HandleKey(msg.String())

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		switch mouse.Button {
		case tea.MouseLeft:
			m.Press(geom.Point{X: mouse.X, Y: mouse.Y}, false)
		case tea.MouseRight:
			m.Press(geom.Point{X: mouse.X, Y: mouse.Y}, true)
		}
		return m, nil

	case tea.MouseMotionMsg:
		mouse := msg.Mouse()
		m.Motion(geom.Point{X: mouse.X, Y: mouse.Y})
		return m, nil

	case tea.MouseReleaseMsg:
		mouse := msg.Mouse()
		m.Release(geom.Point{X: mouse.X, Y: mouse.Y})
		return m, nil
	}
	return m, nil
}

// ApplyConfig switches to a reloaded configuration. Errors keep the
// current one.
func (m *Model) ApplyConfig(cfg *config.UserConfig, err error) {
	if err != nil {
		m.status = "config not reloaded: " + err.Error()
		logger.Warn("config reload failed", "err", err)
		return
	}
	if err := m.desk.Manager().SetOptions(CellOptions(cfg.TileOptions())); err != nil {
		m.status = "config not applied: " + err.Error()
		return
	}
	m.cfg = cfg
	m.keys = config.NewKeybindRegistry(cfg)
	m.status = "config reloaded"
	logger.Info("config reloaded")
}

// HandleKey runs the action bound to key.
func (m *Model) HandleKey(key string) tea.Cmd {
	action := m.keys.GetAction(key)
	if action == "" {
		return nil
	}
	defer m.desk.sh.ResetEvents()
	return m.RunAction(action)
}

// Observe registers fn to receive every input the model acts on.
func (m *Model) Observe(fn func(Input)) { m.observe = fn }

func (m *Model) notify(in Input) {
	if m.observe != nil {
		m.observe(in)
	}
}

// Press starts a pointer interaction at p.
func (m *Model) Press(p geom.Point, right bool) {
	m.overlay = ""
	m.notify(Input{Kind: InputPress, At: p, Right: right})
	m.desk.Press(p, right)
}

// Motion moves the pointer to p.
func (m *Model) Motion(p geom.Point) {
	if !m.desk.Interacting() {
		return
	}
	m.notify(Input{Kind: InputMotion, At: p})
	m.desk.Motion(p)
}

// Release ends the pointer interaction at p.
func (m *Model) Release(p geom.Point) {
	m.notify(Input{Kind: InputRelease, At: p})
	m.desk.Release()
}

// RunAction runs a named action.
func (m *Model) RunAction(action string) tea.Cmd {
	m.notify(Input{Kind: InputAction, Action: action})
	if n, ok := workspaceAction(action, "switch_workspace_"); ok {
		m.report(m.desk.SwitchWorkspace(n), fmt.Sprintf("workspace %d", n))
		return nil
	}
	if n, ok := workspaceAction(action, "move_to_workspace_"); ok {
		m.report(m.desk.MoveToWorkspace(n), fmt.Sprintf("moved to workspace %d", n))
		return nil
	}

	d := m.desk
	switch action {
	case "quit":
		return tea.Quit
	case "toggle_help":
		m.showHelp = !m.showHelp
		m.overlay = ""
	case "new_window":
		w := d.NewWindow()
		m.status = "opened " + w.Title
	case "close_window":
		m.report(d.CloseFocused(), "closed")
	case "minimize_window":
		m.report(d.MinimizeFocused(), "minimized")
	case "restore_all":
		m.status = fmt.Sprintf("restored %d", d.RestoreAll())
	case "next_window":
		d.NextWindow()
	case "toggle_tiling":
		m.report(d.ToggleTiling(), "tiling toggled")
	case "toggle_fullscreen":
		m.report(d.ToggleFullscreen(), "fullscreen toggled")
	case "focus_left":
		d.FocusSide(tree.SideLeft)
	case "focus_right":
		d.FocusSide(tree.SideRight)
	case "focus_up":
		d.FocusSide(tree.SideAbove)
	case "focus_down":
		d.FocusSide(tree.SideBelow)
	case "cycle_gaps":
		m.status = fmt.Sprintf("inner gap %d", d.CycleGaps())
	case "print_layout":
		if m.overlay != "" {
			m.overlay = ""
			break
		}
		layout, err := d.LayoutJSON()
		if err != nil {
			m.status = err.Error()
			break
		}
		m.overlay = layout
		m.showHelp = false
	}
	return nil
}

func (m *Model) report(ok bool, done string) {
	if ok {
		m.status = done
	} else {
		m.status = "nothing to do"
	}
}

func workspaceAction(action, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(action, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

// Render draws the whole frame.
func (m *Model) Render() string {
	return m.Frame().Render()
}

// Frame draws the whole frame into a screen.
func (m *Model) Frame() *Screen {
	scr := m.desk.Draw()
	m.drawStatus(scr)
	switch {
	case m.showHelp:
		m.drawHelp(scr)
	case m.overlay != "":
		drawOverlay(scr, "layout", strings.Split(m.overlay, "\n"))
	}
	return scr
}

func (m *Model) drawStatus(scr *Screen) {
	w, h := m.desk.Size()
	y := h - 1
	scr.Fill(geom.Rect{Y: y, Width: w, Height: 1}, ' ', theme.StatusFg(), theme.StatusBg())

	visible, tiled, minimized := m.desk.Counts()
	left := fmt.Sprintf(" tuitile  windows %d  tiled %d  minimized %d  gap %d ",
		visible, tiled, minimized, m.desk.Manager().Options().InnerGap)
	scr.Text(0, y, left, theme.StatusHighlight(), theme.StatusBg())
	scr.Text(len([]rune(left)), y, truncate(m.status, w-len([]rune(left))), theme.StatusFg(), theme.StatusBg())
}

func (m *Model) drawHelp(scr *Screen) {
	var lines []string
	for _, section := range config.GetKeybindings(m.keys) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.Title)
		for _, b := range section.Bindings {
			lines = append(lines, fmt.Sprintf("  %-16s %s", b.Key, b.Description))
		}
	}
	drawOverlay(scr, "help", lines)
}

// drawOverlay draws lines in a framed box centred on the screen. Lines
// that do not fit are cut.
func drawOverlay(scr *Screen, title string, lines []string) {
	bounds := scr.Bounds()
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	box := geom.Rect{
		Width:  min(width+4, bounds.Width),
		Height: min(len(lines)+2, bounds.Height-1),
	}
	box.X = (bounds.Width - box.Width) / 2
	box.Y = max((bounds.Height-1-box.Height)/2, 0)

	scr.Frame(box, title, theme.HelpBorder(), theme.DesktopFg(), theme.DesktopBg())
	for i, l := range lines {
		if i >= box.Height-2 {
			break
		}
		fg := theme.DesktopFg()
		if l != "" && !strings.HasPrefix(l, " ") && title == "help" {
			fg = theme.HelpKeyBadge()
		}
		scr.Text(box.X+2, box.Y+1+i, truncate(l, box.Width-4), fg, theme.DesktopBg())
	}
}
