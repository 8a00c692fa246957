// Package demo runs the tiling engine inside a terminal: a simulated shell
// with two outputs side by side, driven by mouse and keyboard through
// bubbletea.
package demo

import (
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
	"github.com/Gaurav-Gosain/tuitile/internal/tile"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "demo",
	})
}

// SetLogLevel sets the logging level for the demo package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Output ids of the two simulated monitors.
const (
	LeftOutput  shell.OutputID = "left"
	RightOutput shell.OutputID = "right"
)

// statusRows is the number of terminal rows below the outputs.
const statusRows = 1

// CellOptions adapts tiling options to a terminal, where one unit is one
// character cell rather than one pixel.
func CellOptions(opts tile.Options) tile.Options {
	opts.InnerGap = min(opts.InnerGap, 2)
	opts.OuterHorizGap = min(opts.OuterHorizGap, 2)
	opts.OuterVertGap = min(opts.OuterVertGap, 1)
	opts.StartThreshold = min(opts.StartThreshold, 1)
	opts.SnapOffThreshold = min(opts.SnapOffThreshold, 4)
	opts.MinSize = min(opts.MinSize, 6)
	return opts
}

// Desktop is a simulated shell managed by a tile.Manager.
type Desktop struct {
	sh      *sim.Shell
	m       *tile.Manager
	outputs []*sim.Output

	width, height int
	seq           int
}

// NewDesktop returns a desktop filling a terminal of the given size.
func NewDesktop(width, height int, opts tile.Options) *Desktop {
	d := &Desktop{
		outputs: []*sim.Output{
			sim.NewOutput(LeftOutput, geom.Rect{}),
			sim.NewOutput(RightOutput, geom.Rect{}),
		},
	}
	d.placeOutputs(width, height)
	d.sh = sim.NewShell(d.outputs...)
	d.m = tile.NewManager(tile.Env{
		Layout:    d.sh.Layout,
		Scene:     d.sh.Scene,
		WM:        d.sh,
		Notifier:  d.sh,
		Focuser:   d.sh,
		Committer: txn.CommitterFunc(d.commit),
		Lookup:    d.sh.Lookup,
	}, opts)
	d.sh.FullscreenHook = d.m.HandleFullscreenRequest
	d.sh.TileHook = d.m.HandleTileRequest
	d.sh.WorkspaceHook = d.m.ChangeWorkspace
	for _, o := range d.outputs {
		d.m.AddOutput(o)
	}
	d.sh.FocusOutput(LeftOutput)
	return d
}

func (d *Desktop) commit(b *txn.Batch) {
	for _, w := range b.WindowWrites() {
		if win, ok := d.sh.Lookup(w.Window); ok {
			win.SetGeometry(w.Rect)
		}
	}
}

// placeOutputs splits the terminal above the status row between the two
// outputs.
func (d *Desktop) placeOutputs(width, height int) {
	d.width, d.height = max(width, 2), max(height, statusRows+1)
	h := d.height - statusRows
	lw := d.width / 2
	rects := []geom.Rect{
		{Width: lw, Height: h},
		{X: lw, Width: d.width - lw, Height: h},
	}
	for i, o := range d.outputs {
		o.SetLayoutRect(rects[i])
		o.SetWorkarea(geom.Rect{Width: rects[i].Width, Height: rects[i].Height})
	}
}

// Resize follows a terminal resize and lays every tree out again.
func (d *Desktop) Resize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.m.StopAll()
	d.placeOutputs(width, height)
	for _, p := range d.m.Plugins() {
		p.Store().UpdateRootSizes()
	}
	logger.Debug("resized", "width", d.width, "height", d.height)
}

// Size returns the terminal size the desktop fills.
func (d *Desktop) Size() (width, height int) { return d.width, d.height }

// Manager returns the tiling manager.
func (d *Desktop) Manager() *tile.Manager { return d.m }

// Shell returns the simulated shell.
func (d *Desktop) Shell() *sim.Shell { return d.sh }

// Outputs returns the simulated outputs, left first.
func (d *Desktop) Outputs() []*sim.Output { return d.outputs }

// Store returns the workspace store of output o.
func (d *Desktop) Store(o shell.OutputID) *wset.Store {
	p, ok := d.m.Plugin(o)
	if !ok {
		return nil
	}
	return p.Store()
}

// Focused returns the focused window.
func (d *Desktop) Focused() (*sim.Window, bool) {
	return d.sh.Window(d.sh.Focused())
}

// FocusedOutput returns the output of the focused window, or the focused
// output when no window has focus.
func (d *Desktop) FocusedOutput() *sim.Output {
	id := d.sh.FocusedOutput()
	if w, ok := d.Focused(); ok {
		id = w.Output()
	}
	if o, ok := d.sh.Layout.Output(id); ok {
		return o
	}
	return d.outputs[0]
}

// visible reports whether w is shown on its output's visible cell.
func (d *Desktop) visible(w *sim.Window) bool {
	if !w.IsMapped() || w.Minimized() {
		return false
	}
	s := d.Store(w.Output())
	if s == nil {
		return false
	}
	if c, ok := s.CellOf(w.ID()); ok {
		return c == s.CurrentCell()
	}
	return w.Cell == s.CurrentCell()
}

// LayoutBox returns where w is drawn, in terminal coordinates.
func (d *Desktop) LayoutBox(w *sim.Window) geom.Rect {
	s := d.Store(w.Output())
	if s == nil {
		return w.BoundingBox()
	}
	if w.PendingFullscreen() && !d.m.IsTiled(w.ID()) {
		return s.ToLayout(s.FullscreenRect(s.CurrentCell()))
	}
	return s.ToLayout(w.BoundingBox())
}

// Stack returns the visible windows, bottom to top: tiled windows first,
// fullscreen tiled windows above them and floating windows on top.
func (d *Desktop) Stack() []*sim.Window {
	var tiled, fullscreen, floating []*sim.Window
	for _, p := range d.m.Plugins() {
		for _, w := range p.Store().CurrentWindows() {
			sw, ok := d.sh.Window(w.ID())
			if !ok || !d.visible(sw) {
				continue
			}
			if sw.PendingFullscreen() {
				fullscreen = append(fullscreen, sw)
			} else {
				tiled = append(tiled, sw)
			}
		}
	}
	for _, id := range d.sh.Scene.Floating() {
		if w, ok := d.sh.Window(id); ok && !d.m.IsTiled(id) && d.visible(w) {
			floating = append(floating, w)
		}
	}
	return slices.Concat(tiled, fullscreen, floating)
}

// WindowAt returns the topmost visible window under p.
func (d *Desktop) WindowAt(p geom.Point) (*sim.Window, bool) {
	stack := d.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if d.LayoutBox(stack[i]).Contains(p) {
			return stack[i], true
		}
	}
	return nil, false
}

// Focus raises and focuses w.
func (d *Desktop) Focus(w *sim.Window) {
	if !d.m.IsTiled(w.ID()) {
		d.sh.Scene.Reinsert(w.ID())
	}
	d.sh.RaiseAndFocus(w.ID())
	d.sh.FocusOutput(w.Output())
	d.m.FocusChanged(w)
}

func (d *Desktop) focusTop() {
	stack := d.Stack()
	if len(stack) == 0 {
		d.sh.SetFocused("")
		return
	}
	d.Focus(stack[len(stack)-1])
}

// NewWindow maps a new window on the visible cell of the focused output.
func (d *Desktop) NewWindow() *sim.Window {
	d.seq++
	return d.MapWindow("", fmt.Sprintf("term %d", d.seq))
}

// MapWindow maps a window with the given id on the visible cell of the
// focused output. An empty id gets a random one.
func (d *Desktop) MapWindow(id shell.WindowID, title string) *sim.Window {
	o := d.FocusedOutput()
	s := d.Store(o.ID())

	area := o.Workarea()
	shift := max(d.seq-1, 0) % 5
	box := geom.Rect{
		X:      area.X + 2 + 2*shift,
		Y:      area.Y + 1 + shift,
		Width:  max(area.Width/2, 12),
		Height: max(area.Height/2, 5),
	}.Translate(s.CellOffset(s.CurrentCell()))

	var w *sim.Window
	if id == "" {
		w = sim.NewWindow(title, box, o.ID())
	} else {
		w = sim.NewWindowWithID(id, title, box, o.ID())
	}
	w.Cell = s.CurrentCell()
	d.sh.AddWindow(w)
	d.m.WindowMapped(w)
	d.Focus(w)
	logger.Debug("window mapped", "window", w.ID(), "title", w.Title, "output", o.ID())
	return w
}

// CloseFocused unmaps and forgets the focused window.
func (d *Desktop) CloseFocused() bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	w.SetMapped(false)
	d.m.WindowUnmapped(w)
	d.sh.RemoveWindow(w.ID())
	d.focusTop()
	return true
}

// MinimizeFocused hides the focused window.
func (d *Desktop) MinimizeFocused() bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	w.SetMinimized(true)
	d.m.WindowMinimized(w, true)
	d.focusTop()
	return true
}

// RestoreAll brings every minimized window back.
func (d *Desktop) RestoreAll() int {
	n := 0
	for _, w := range d.sh.Windows() {
		if !w.Minimized() {
			continue
		}
		w.SetMinimized(false)
		d.m.WindowMinimized(w, false)
		n++
	}
	return n
}

// NextWindow focuses the bottom of the visible stack, cycling through it.
func (d *Desktop) NextWindow() bool {
	stack := d.Stack()
	if len(stack) < 2 {
		return false
	}
	cur, _ := d.Focused()
	for _, w := range stack {
		if w != cur {
			d.Focus(w)
			return true
		}
	}
	return false
}

// ToggleTiling tiles or untiles the focused window.
func (d *Desktop) ToggleTiling() bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	p, ok := d.m.Plugin(w.Output())
	if !ok {
		return false
	}
	return p.ToggleTiled(w)
}

// ToggleFullscreen flips the fullscreen state of the focused window.
func (d *Desktop) ToggleFullscreen() bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	d.sh.FullscreenRequest(w, w.Output(), !w.PendingFullscreen(), shell.CurrentWorkspace)
	return true
}

// FocusSide moves focus to the tiled neighbour of the focused window.
func (d *Desktop) FocusSide(side tree.Side) bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	p, ok := d.m.Plugin(w.Output())
	if !ok || !p.FocusAdjacent(w, side) {
		return false
	}
	d.sh.FocusOutput(w.Output())
	return true
}

// WorkspaceCell returns the cell of the n-th workspace, counted from 1 in
// row-major order.
func (d *Desktop) WorkspaceCell(o shell.OutputID, n int) (geom.Point, bool) {
	s := d.Store(o)
	if s == nil || n < 1 {
		return geom.Point{}, false
	}
	g := s.GridSize()
	c := geom.Point{X: (n - 1) % g.Width, Y: (n - 1) / g.Width}
	return c, s.ValidCell(c)
}

// SwitchWorkspace shows the n-th workspace of the focused output.
func (d *Desktop) SwitchWorkspace(n int) bool {
	o := d.FocusedOutput()
	c, ok := d.WorkspaceCell(o.ID(), n)
	if !ok {
		return false
	}
	d.m.StopAll()
	d.Store(o.ID()).SetCurrentCell(c)
	d.sh.FocusOutput(o.ID())
	if w, ok := d.Focused(); !ok || !d.visible(w) {
		d.focusTop()
	}
	return true
}

// MoveToWorkspace sends the focused window to the n-th workspace of its
// output.
func (d *Desktop) MoveToWorkspace(n int) bool {
	w, ok := d.Focused()
	if !ok {
		return false
	}
	c, ok := d.WorkspaceCell(w.Output(), n)
	if !ok {
		return false
	}
	if !d.m.IsTiled(w.ID()) {
		s := d.Store(w.Output())
		from, to := s.CellOffset(w.Cell), s.CellOffset(c)
		box := w.BoundingBox().Translate(to.Sub(from))
		w.Move(box.X, box.Y)
	}
	d.sh.MoveToWorkspace(w, w.Output(), c)
	d.focusTop()
	return true
}

// CycleGaps steps the inner gap through 0, 1 and 2 cells.
func (d *Desktop) CycleGaps() int {
	opts := d.m.Options()
	opts.InnerGap = (opts.InnerGap + 1) % 3
	if err := d.m.SetOptions(opts); err != nil {
		logger.Warn("gap change rejected", "err", err)
	}
	return d.m.Options().InnerGap
}

// LayoutJSON returns the tree of the visible cell of the focused output.
func (d *Desktop) LayoutJSON() (string, error) {
	o := d.FocusedOutput()
	p, ok := d.m.Plugin(o.ID())
	if !ok {
		return "", fmt.Errorf("no tiling on output %s", o.ID())
	}
	data, err := p.GetLayoutJSON(p.Store().CurrentCell())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ApplyLayout replaces the tree of the visible cell of the focused output
// with the JSON layout in data.
func (d *Desktop) ApplyLayout(data []byte) error {
	o := d.FocusedOutput()
	p, ok := d.m.Plugin(o.ID())
	if !ok {
		return fmt.Errorf("no tiling on output %s", o.ID())
	}
	return p.SetLayout(p.Store().CurrentCell(), data)
}

// Press starts a session for a button press at p. The left button moves the
// window under p, the right button resizes tiled windows.
func (d *Desktop) Press(p geom.Point, right bool) bool {
	w, ok := d.WindowAt(p)
	if !ok {
		if o, ok := d.sh.Layout.OutputAt(p); ok {
			d.sh.FocusOutput(o.ID())
		}
		return false
	}
	d.Focus(w)

	pl, ok := d.m.Plugin(w.Output())
	if !ok {
		return false
	}
	tiled := d.m.IsTiled(w.ID())
	switch {
	case right && tiled:
		return pl.ButtonResize(p)
	case right:
		return false
	case tiled:
		return pl.ButtonMove(p)
	default:
		return d.m.MoveFloating(w, p)
	}
}

// Motion feeds pointer motion to the running session.
func (d *Desktop) Motion(p geom.Point) { d.m.Motion(p) }

// Release ends the running session.
func (d *Desktop) Release() {
	d.m.Release()
	d.sh.ResetEvents()
}

// Interacting reports whether pointer motion drives a session: a drag, a
// resize or a floating move waiting to start.
func (d *Desktop) Interacting() bool {
	ctx := d.m.Drag()
	if ctx.Active() || ctx.Pending() {
		return true
	}
	for _, p := range d.m.Plugins() {
		if p.Active() {
			return true
		}
	}
	return false
}

// Counts returns how many windows are visible, tiled and minimized.
func (d *Desktop) Counts() (visible, tiled, minimized int) {
	for _, w := range d.sh.Windows() {
		if d.m.IsTiled(w.ID()) {
			tiled++
		}
		if w.Minimized() {
			minimized++
		}
	}
	return len(d.Stack()), tiled, minimized
}
