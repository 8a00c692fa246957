package tile

import (
	"encoding/json"
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/resize"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

// Plugin is the tiling front end of one output.
type Plugin struct {
	m          *Manager
	output     shell.Output
	store      *wset.Store
	controller controller
}

// Output returns the output of the plugin.
func (p *Plugin) Output() shell.Output { return p.output }

// Store returns the workspace grid of the output.
func (p *Plugin) Store() *wset.Store { return p.store }

// Active reports whether a move or resize session is running.
func (p *Plugin) Active() bool { return p.controller != nil }

// CanTile reports whether w may ever be tiled: dialogs and fixed-size
// windows may not.
func CanTile(w shell.Window) bool {
	if w.Parent() != "" {
		return false
	}
	lo, hi := w.SizeLimits()
	if lo == hi && lo.Width > 0 && lo.Height > 0 {
		return false
	}
	return true
}

func (p *Plugin) tileByDefault(w shell.Window) bool {
	return p.m.opts.TileByDefault == TileAll && CanTile(w)
}

// tiledAt returns the tiled window under p on the visible cell.
func (p *Plugin) tiledAt(pt geom.Point) (shell.Window, bool) {
	a := p.m.group.Arena()
	leaf, ok := a.FindNodeAt(p.store.CurrentRoot(), p.store.ToGrid(pt))
	if !ok {
		return nil, false
	}
	return p.store.Window(a.Window(leaf))
}

func (p *Plugin) canStart(pt geom.Point) (shell.Window, bool) {
	if p.controller != nil || p.store.HasFullscreen() {
		return nil, false
	}
	return p.tiledAt(pt)
}

// ButtonMove starts dragging the tiled window under pt, in output-layout
// coordinates. It reports whether a session started.
func (p *Plugin) ButtonMove(pt geom.Point) bool {
	w, ok := p.canStart(pt)
	if !ok || p.m.ctx.Active() {
		return false
	}
	ctx := p.m.ctx
	ctx.SetPending(pt)
	ctx.Start(w, p.store.ToLayout(w.BoundingBox()), drag.Options{
		InitialScale:     p.m.opts.InitialScale,
		EnableSnapOff:    true,
		SnapOffThreshold: p.m.opts.SnapOffThreshold,
	})
	p.controller = &moveController{ctx: ctx}
	logger.Debug("move started", "output", p.output.ID(), "window", w.ID())
	return true
}

// ButtonResize starts resizing around the tiled window under pt.
func (p *Plugin) ButtonResize(pt geom.Point) bool {
	w, ok := p.canStart(pt)
	if !ok {
		return false
	}
	rc := resize.Begin(p.m.group.Arena(), p.store.CurrentRoot(), p.store.ToGrid(pt), p.m.group,
		resize.Options{MinSize: p.m.opts.MinSize})
	p.controller = &resizeController{store: p.store, rc: rc}
	logger.Debug("resize started", "output", p.output.ID(), "window", w.ID())
	return true
}

// Motion feeds pointer motion to the running session.
func (p *Plugin) Motion(pt geom.Point) {
	if p.controller != nil {
		p.controller.motion(pt)
	}
}

// Release ends the running session normally.
func (p *Plugin) Release() { p.stopController(false) }

// Cancel force-stops the running session.
func (p *Plugin) Cancel() { p.stopController(true) }

func (p *Plugin) stopController(force bool) {
	c := p.controller
	if c == nil {
		return
	}
	p.controller = nil
	c.release(force)
	logger.Debug("session stopped", "output", p.output.ID(), "force", force)
}

func (p *Plugin) attach(w shell.Window, cell *geom.Point) {
	p.stopController(true)
	if cell != nil {
		p.store.AttachWindowAt(w, *cell)
		return
	}
	p.store.AttachWindow(w)
}

func (p *Plugin) detach(w shell.Window, reinsert bool) {
	p.stopController(true)
	if s, ok := p.m.group.StoreOf(w.ID()); ok {
		s.DetachWindows([]shell.WindowID{w.ID()}, reinsert)
	}
}

// conditioned reports whether a key action on w may run: w must be on this
// output, tiled when needTiled is set, and no session may be running.
func (p *Plugin) conditioned(w shell.Window, needTiled bool) bool {
	if w == nil || w.Output() != p.output.ID() || p.controller != nil {
		return false
	}
	return !needTiled || p.m.IsTiled(w.ID())
}

// ToggleTiled untiles a tiled w or tiles a floating one.
func (p *Plugin) ToggleTiled(w shell.Window) bool {
	if !p.conditioned(w, false) {
		return false
	}
	if p.m.IsTiled(w.ID()) {
		p.detach(w, true)
	} else {
		p.attach(w, nil)
	}
	return true
}

// FocusAdjacent focuses the tiled window next to w on the given side. A
// fullscreen w hands fullscreen over when configured to.
func (p *Plugin) FocusAdjacent(w shell.Window, side tree.Side) bool {
	if !p.conditioned(w, true) {
		return false
	}
	a := p.m.group.Arena()
	leaf, _ := a.LeafOf(w.ID())
	adj, ok := a.FindFirstInDirection(leaf, side)
	if !ok {
		return true
	}
	next, ok := p.m.group.Lookup(a.Window(adj))
	if !ok {
		return true
	}

	wasFullscreen := w.PendingFullscreen()
	if f := p.m.env.Focuser; f != nil {
		f.RaiseAndFocus(next.ID())
	}
	p.m.FocusChanged(next)
	if wasFullscreen && p.m.opts.KeepFullscreenOnAdjacent {
		if wm := p.m.env.WM; wm != nil {
			wm.FullscreenRequest(next, p.output.ID(), true, shell.CurrentWorkspace)
		}
	}
	logger.Debug("focus moved", "from", w.ID(), "to", next.ID(), "side", side)
	return true
}

// WindowMapped tiles w when tiling by default applies to it.
func (p *Plugin) WindowMapped(w shell.Window) {
	if p.tileByDefault(w) {
		p.attach(w, nil)
	}
}

// WindowUnmapped untiles w.
func (p *Plugin) WindowUnmapped(w shell.Window) {
	if p.m.IsTiled(w.ID()) {
		p.detach(w, true)
	}
}

// WindowMinimized untiles a minimised window and tiles it again on
// restore.
func (p *Plugin) WindowMinimized(w shell.Window, minimized bool) {
	tiled := p.m.IsTiled(w.ID())
	if minimized && tiled {
		p.detach(w, true)
	}
	if !minimized && !tiled && p.tileByDefault(w) {
		p.attach(w, nil)
	}
}

// FullscreenRequest applies a fullscreen request to a tiled window and
// reports whether it did.
func (p *Plugin) FullscreenRequest(w shell.Window, state bool) bool {
	s, ok := p.m.group.StoreOf(w.ID())
	if !ok {
		return false
	}
	s.SetWindowFullscreen(w, state)
	return true
}

// ChangeWorkspace moves a tiled window to the tree of another cell.
func (p *Plugin) ChangeWorkspace(w shell.Window, cell geom.Point) {
	if !p.m.IsTiled(w.ID()) || !p.store.ValidCell(cell) {
		return
	}
	if c, _ := p.store.CellOf(w.ID()); c == cell {
		return
	}
	p.detach(w, true)
	p.attach(w, &cell)
}

// GetLayout describes the tree of a cell.
func (p *Plugin) GetLayout(cell geom.Point) (tree.LayoutNode, error) {
	return p.store.GetLayout(cell)
}

// GetLayoutJSON is GetLayout encoded as JSON.
func (p *Plugin) GetLayoutJSON(cell geom.Point) ([]byte, error) {
	ln, err := p.GetLayout(cell)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ln, "", "  ")
}

// SetLayout replaces the tree of a cell with the JSON layout in data.
func (p *Plugin) SetLayout(cell geom.Point, data []byte) error {
	var ln tree.LayoutNode
	if err := json.Unmarshal(data, &ln); err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	p.stopController(true)
	return p.store.SetLayout(cell, ln)
}
