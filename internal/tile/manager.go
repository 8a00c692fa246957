// Package tile ties the tiling engine to a window shell: one Plugin per
// output turns pointer and key input into move and resize sessions, and
// the Manager routes window lifecycle events and relocations to the right
// output.
package tile

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/retile"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tile",
	})
}

// SetLogLevel sets the logging level for the tile package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Env holds the shell services the manager needs. Elastic and Renderer are
// optional.
type Env struct {
	Layout    shell.OutputLayout
	Scene     shell.Scene
	WM        shell.WindowManager
	Notifier  shell.Notifier
	Focuser   shell.Focuser
	Elastic   shell.Elastic
	Renderer  shell.DragRenderer
	Committer txn.Committer
	Lookup    func(id shell.WindowID) (shell.Window, bool)
}

// Manager owns the workspace group, the drag context and one Plugin per
// output.
type Manager struct {
	env  Env
	opts Options

	group   *wset.Group
	ctx     *drag.Context
	engine  *retile.Engine
	retile  *retile.Manager
	plugins []*Plugin

	// windows detached on their way to another output
	autoTile map[shell.WindowID]bool
	// non-tiled window waiting for a move to start
	floating shell.Window
}

// NewManager returns a manager without outputs. Invalid options are
// replaced by the defaults.
func NewManager(env Env, opts Options) *Manager {
	if err := opts.Validate(); err != nil {
		logger.Warn("invalid tiling options, using defaults", "err", err)
		opts = DefaultOptions()
	}
	m := &Manager{
		env:      env,
		opts:     opts,
		autoTile: make(map[shell.WindowID]bool),
	}
	m.group = wset.NewGroup(wset.Collaborators{
		Committer: env.Committer,
		Scene:     env.Scene,
		WM:        env.WM,
		Notifier:  env.Notifier,
		Lookup:    env.Lookup,
	})
	m.ctx = drag.NewContext(drag.Env{
		Layout:   env.Layout,
		Focuser:  env.Focuser,
		Elastic:  env.Elastic,
		Renderer: env.Renderer,
	})
	m.ctx.StartThreshold = opts.StartThreshold
	m.engine = retile.NewEngine(m.group, env.Focuser)
	m.engine.Sensitivity = opts.Sensitivity
	m.retile = retile.NewManager(m.engine, m.ctx, m.placement())
	m.retile.CanActivate = m.canActivate
	m.ctx.Subscribe(drag.ObserverFunc(m.handleFloatingDrag))
	return m
}

func (m *Manager) placement() drag.Placement {
	return drag.Placement{
		WM:       m.env.WM,
		Notifier: m,
		Focuser:  m.env.Focuser,
		Grid: func(o shell.OutputID) (drag.Grid, bool) {
			s, ok := m.group.Store(o)
			if !ok {
				return nil, false
			}
			return s, true
		},
	}
}

// Group returns the workspace group.
func (m *Manager) Group() *wset.Group { return m.group }

// Drag returns the drag context.
func (m *Manager) Drag() *drag.Context { return m.ctx }

// Retile returns the drop manager, which holds the drop preview.
func (m *Manager) Retile() *retile.Manager { return m.retile }

// Options returns the options in effect.
func (m *Manager) Options() Options { return m.opts }

// SetOptions applies new options to every output. Gap changes relayout all
// trees at once.
func (m *Manager) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	m.opts = opts
	m.ctx.StartThreshold = opts.StartThreshold
	m.engine.Sensitivity = opts.Sensitivity
	g := m.gaps()
	for _, p := range m.plugins {
		p.store.SetGaps(g)
	}
	logger.Debug("options applied", "tile_by_default", opts.TileByDefault, "inner_gap", opts.InnerGap)
	return nil
}

func (m *Manager) gaps() tree.Gaps {
	return wset.GapsFromSizes(m.opts.InnerGap, m.opts.OuterHorizGap, m.opts.OuterVertGap)
}

// AddOutput creates the store and plugin of output o.
func (m *Manager) AddOutput(o shell.Output) *Plugin {
	s := m.group.NewStore(o, m.opts.Grid)
	s.SetGaps(m.gaps())
	p := &Plugin{m: m, output: o, store: s}
	m.plugins = append(m.plugins, p)
	logger.Debug("output added", "output", o.ID(), "grid", m.opts.Grid)
	return p
}

// RemoveOutput stops any session on o and hands its tiled windows back to
// the non-tiled layer.
func (m *Manager) RemoveOutput(o shell.OutputID) {
	for i, p := range m.plugins {
		if p.output.ID() != o {
			continue
		}
		p.stopController(true)
		m.ctx.OutputRemoved(o)
		m.group.RemoveStore(p.store)
		m.plugins = append(m.plugins[:i], m.plugins[i+1:]...)
		logger.Debug("output removed", "output", o)
		return
	}
}

// Plugin returns the plugin of output o.
func (m *Manager) Plugin(o shell.OutputID) (*Plugin, bool) {
	for _, p := range m.plugins {
		if p.output.ID() == o {
			return p, true
		}
	}
	return nil, false
}

// Plugins returns every plugin in output creation order.
func (m *Manager) Plugins() []*Plugin {
	return append([]*Plugin(nil), m.plugins...)
}

// StopAll force-stops the sessions of every output.
func (m *Manager) StopAll() {
	for _, p := range m.plugins {
		p.stopController(true)
	}
}

func (m *Manager) canActivate(o shell.OutputID) bool {
	p, ok := m.Plugin(o)
	if !ok {
		return false
	}
	_, moving := p.controller.(*moveController)
	return p.controller == nil || moving
}

// IsTiled reports whether w is in a tiling tree.
func (m *Manager) IsTiled(w shell.WindowID) bool {
	_, ok := m.group.StoreOf(w)
	return ok
}

func (m *Manager) pluginFor(w shell.Window) (*Plugin, bool) {
	if s, ok := m.group.StoreOf(w.ID()); ok {
		return m.Plugin(s.OutputID())
	}
	return m.Plugin(w.Output())
}

// WindowMapped tiles w when tiling by default applies to it.
func (m *Manager) WindowMapped(w shell.Window) {
	if p, ok := m.Plugin(w.Output()); ok {
		p.WindowMapped(w)
	}
}

// WindowUnmapped untiles w and ends a drag of it.
func (m *Manager) WindowUnmapped(w shell.Window) {
	if dw := m.ctx.Window(); dw != nil && dw.ID() == w.ID() {
		m.ctx.Cancel()
	}
	if m.floating != nil && m.floating.ID() == w.ID() {
		m.floating = nil
	}
	if p, ok := m.pluginFor(w); ok {
		p.WindowUnmapped(w)
	}
}

// WindowMinimized untiles or retiles w.
func (m *Manager) WindowMinimized(w shell.Window, minimized bool) {
	if p, ok := m.pluginFor(w); ok {
		p.WindowMinimized(w, minimized)
	}
}

// HandleFullscreenRequest carries out a fullscreen request for a tiled
// window. It reports false for windows tiling does not manage.
func (m *Manager) HandleFullscreenRequest(w shell.Window, state bool) bool {
	if p, ok := m.pluginFor(w); ok {
		return p.FullscreenRequest(w, state)
	}
	return false
}

// HandleTileRequest swallows tile requests for tiled windows, whose edges
// tiling manages itself.
func (m *Manager) HandleTileRequest(w shell.Window, edges geom.Edges) bool {
	return m.IsTiled(w.ID())
}

// ChangeWorkspace moves a tiled w to the tree of cell.
func (m *Manager) ChangeWorkspace(w shell.Window, cell geom.Point) {
	if p, ok := m.pluginFor(w); ok {
		p.ChangeWorkspace(w, cell)
	}
}

// FocusChanged drops fullscreen from the tiled windows around a newly
// focused tiled window.
func (m *Manager) FocusChanged(w shell.Window) {
	if s, ok := m.group.StoreOf(w.ID()); ok {
		s.ConsiderExitFullscreen(w)
	}
}

// PreRelocate implements shell.Notifier. A tiled window leaving its output
// outside of a drop is untiled and tiled again on arrival.
func (m *Manager) PreRelocate(w shell.WindowID, from, to shell.OutputID) {
	if s, ok := m.group.StoreOf(w); ok && !m.retile.Dropping() {
		m.autoTile[w] = true
		if p, ok := m.Plugin(s.OutputID()); ok {
			p.stopController(true)
		}
		s.DetachWindows([]shell.WindowID{w}, true)
	}
	if m.env.Notifier != nil {
		m.env.Notifier.PreRelocate(w, from, to)
	}
}

// PostRelocate implements shell.Notifier.
func (m *Manager) PostRelocate(w shell.WindowID, from, to shell.OutputID) {
	if m.env.Notifier != nil {
		m.env.Notifier.PostRelocate(w, from, to)
	}
	if !m.autoTile[w] {
		return
	}
	delete(m.autoTile, w)
	win, ok := m.group.Lookup(w)
	if !ok {
		return
	}
	if p, ok := m.Plugin(to); ok {
		p.attach(win, nil)
	}
}

// Motion routes pointer motion, in output-layout coordinates, to the
// active session.
func (m *Manager) Motion(p geom.Point) {
	for _, pl := range m.plugins {
		if pl.controller != nil {
			pl.Motion(p)
			return
		}
	}
	m.floatingMotion(p)
}

// Release ends the active session.
func (m *Manager) Release() {
	for _, pl := range m.plugins {
		if pl.controller != nil {
			pl.Release()
			return
		}
	}
	m.floating = nil
	m.ctx.Release()
}

// MoveFloating arms a move of a window tiling does not manage. The drag
// starts once the pointer travels past the start threshold.
func (m *Manager) MoveFloating(w shell.Window, p geom.Point) bool {
	if m.ctx.Active() || m.IsTiled(w.ID()) || !w.IsMapped() {
		return false
	}
	m.floating = w
	m.ctx.SetPending(p)
	return true
}

func (m *Manager) floatingMotion(p geom.Point) {
	w := m.floating
	if w != nil && !m.ctx.Active() && m.ctx.ShouldStart(p) {
		opts := drag.Options{
			InitialScale:     m.opts.InitialScale,
			EnableSnapOff:    w.PendingFullscreen() || w.PendingTiledEdges() != geom.EdgesNone,
			SnapOffThreshold: m.opts.SnapOffThreshold,
		}
		m.ctx.Start(w, m.layoutBox(w), opts)
	}
	m.ctx.Motion(p)
}

// layoutBox returns the bounding box of w in output-layout coordinates.
func (m *Manager) layoutBox(w shell.Window) geom.Rect {
	box := w.BoundingBox()
	if s, ok := m.group.Store(w.Output()); ok {
		return s.ToLayout(box)
	}
	return box
}

func (m *Manager) handleFloatingDrag(ev drag.Event) {
	switch ev := ev.(type) {
	case drag.SnapOffEvent:
		if !m.IsTiled(ev.Window.ID()) && m.env.WM != nil {
			drag.AdjustOnSnapOff(ev.Window, m.env.WM)
		}
	case drag.DoneEvent:
		if m.floating != nil && m.floating.ID() == ev.Window.ID() {
			m.floating = nil
		}
		if !m.IsTiled(ev.Window.ID()) {
			drag.AdjustOnOutput(ev, m.placement())
		}
	}
}
