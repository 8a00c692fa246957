// Package sim provides in-memory implementations of the shell contracts. It
// backs the tests of the engine packages and the terminal demo.
package sim

import (
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Window is a simulated toplevel.
type Window struct {
	id     shell.WindowID
	Title  string
	box    geom.Rect
	output shell.OutputID
	parent shell.WindowID

	fullscreen bool
	tiled      geom.Edges
	mapped     bool
	minimized  bool
	minSize    geom.Dimensions
	maxSize    geom.Dimensions

	// Cell is the workspace the window was last moved to.
	Cell geom.Point
	// Commits counts the geometry commits applied to the window.
	Commits int
}

// NewWindow returns a mapped window with a fresh random id.
func NewWindow(title string, box geom.Rect, output shell.OutputID) *Window {
	return NewWindowWithID(shell.WindowID(uuid.NewString()), title, box, output)
}

// NewWindowWithID is NewWindow with a caller-chosen id, handy in tests.
func NewWindowWithID(id shell.WindowID, title string, box geom.Rect, output shell.OutputID) *Window {
	return &Window{
		id:     id,
		Title:  title,
		box:    box,
		output: output,
		mapped: true,
	}
}

func (w *Window) ID() shell.WindowID { return w.id }
func (w *Window) BoundingBox() geom.Rect { return w.box }
func (w *Window) Move(x, y int) { w.box.X, w.box.Y = x, y }
func (w *Window) SetFullscreen(fs bool) { w.fullscreen = fs }
func (w *Window) PendingFullscreen() bool { return w.fullscreen }
func (w *Window) SetTiledEdges(e geom.Edges) { w.tiled = e }
func (w *Window) PendingTiledEdges() geom.Edges { return w.tiled }
func (w *Window) IsMapped() bool { return w.mapped }
func (w *Window) Parent() shell.WindowID { return w.parent }
func (w *Window) Output() shell.OutputID { return w.output }
func (w *Window) SetOutput(o shell.OutputID) { w.output = o }

// SetGeometry applies a committed geometry.
func (w *Window) SetGeometry(r geom.Rect) {
	w.box = r
	w.Commits++
}

// SizeLimits returns the configured min and max size.
func (w *Window) SizeLimits() (min, max geom.Dimensions) {
	return w.minSize, w.maxSize
}

// SetSizeLimits configures the size hints.
func (w *Window) SetSizeLimits(min, max geom.Dimensions) {
	w.minSize, w.maxSize = min, max
}

// SetParent makes w a dialog of parent.
func (w *Window) SetParent(parent shell.WindowID) { w.parent = parent }

// SetMapped changes the mapped state.
func (w *Window) SetMapped(mapped bool) { w.mapped = mapped }

// Minimized reports the minimized state.
func (w *Window) Minimized() bool { return w.minimized }

// SetMinimized changes the minimized state.
func (w *Window) SetMinimized(m bool) { w.minimized = m }
