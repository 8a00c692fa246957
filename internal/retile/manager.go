package retile

import (
	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Preview is the area a dragged window would take if dropped now, in the
// grid coordinates of Output.
type Preview struct {
	Output    shell.OutputID
	Rect      geom.Rect
	Target    shell.WindowID
	Insertion Insertion
}

// Manager follows drags of tiled windows, keeps a drop preview up to date
// and performs the drop on release.
type Manager struct {
	engine    *Engine
	ctx       *drag.Context
	placement drag.Placement

	preview    Preview
	hasPreview bool
	dropping   bool

	// CanActivate, when set, reports whether tiling may act on an output.
	CanActivate func(o shell.OutputID) bool
}

// NewManager returns a manager subscribed to ctx. Drops of tiled windows
// on another output that are not retiles fall back to drag.AdjustOnOutput
// with p.
func NewManager(e *Engine, ctx *drag.Context, p drag.Placement) *Manager {
	m := &Manager{engine: e, ctx: ctx, placement: p}
	ctx.Subscribe(m)
	return m
}

// Preview returns the current drop preview.
func (m *Manager) Preview() (Preview, bool) {
	return m.preview, m.hasPreview
}

// Dropping reports whether a drop is being carried out. Relocations seen
// meanwhile are part of the drop.
func (m *Manager) Dropping() bool { return m.dropping }

func (m *Manager) shouldShowPreview(w shell.Window, o shell.Output) bool {
	if w == nil || o == nil || !m.engine.IsTiled(w.ID()) {
		return false
	}
	return m.CanActivate == nil || m.CanActivate(o.ID())
}

// HandleDrag implements drag.Observer.
func (m *Manager) HandleDrag(ev drag.Event) {
	switch ev := ev.(type) {
	case drag.MotionEvent:
		if o := m.ctx.CurrentOutput(); m.shouldShowPreview(ev.Window, o) {
			m.updatePreview(o.ID(), ev.Window.ID(), ev.Position)
		}
	case drag.FocusOutputEvent:
		if m.shouldShowPreview(ev.Window, ev.Focus) {
			m.ctx.SetScale(2, 0.5)
			m.updatePreview(ev.Focus.ID(), ev.Window.ID(), ev.Pointer)
		}
	case drag.DoneEvent:
		m.handleDone(ev)
	}
}

func (m *Manager) handleDone(ev drag.DoneEvent) {
	defer m.hidePreview()
	if !m.shouldShowPreview(ev.Window, ev.Output) {
		return
	}

	m.dropping = true
	handled := m.engine.HandleDrop(ev.Window.ID(), ev.Output.ID(), ev.Pointer)
	m.dropping = false

	if !handled && ev.Window.Output() != ev.Output.ID() {
		drag.AdjustOnOutput(ev, m.placement)
	}
}

func (m *Manager) updatePreview(o shell.OutputID, dragged shell.WindowID, p geom.Point) {
	target, ins := m.engine.Classify(o, p, dragged)
	if target.IsNil() {
		m.hidePreview()
		return
	}
	a := m.engine.Group().Arena()
	m.preview = Preview{
		Output:    o,
		Rect:      SplitPreview(a.Geometry(target), ins),
		Target:    a.Window(target),
		Insertion: ins,
	}
	m.hasPreview = true
}

func (m *Manager) hidePreview() {
	m.preview = Preview{}
	m.hasPreview = false
}
