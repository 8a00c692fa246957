// Package shell declares the narrow contracts through which the tiling engine
// talks to the surrounding window shell. Nothing in here is implemented by the
// engine itself; see package sim for in-memory doubles.
package shell

import "github.com/Gaurav-Gosain/tuitile/internal/geom"

// WindowID is an opaque handle to an externally owned, mapped window.
type WindowID string

// OutputID identifies an output (monitor).
type OutputID string

// Window is a toplevel window owned by the shell.
type Window interface {
	ID() WindowID
	// BoundingBox returns the window geometry in the grid coordinates of its
	// output: output-local, with workspace cell (i, j) starting at
	// (i*width, j*height).
	BoundingBox() geom.Rect
	// Move places the window origin, in the same coordinates as BoundingBox.
	Move(x, y int)
	// SetGeometry applies a committed tile geometry.
	SetGeometry(r geom.Rect)
	SetFullscreen(fullscreen bool)
	PendingFullscreen() bool
	SetTiledEdges(edges geom.Edges)
	PendingTiledEdges() geom.Edges
	IsMapped() bool
	// Parent returns the parent window id for dialogs, "" for toplevels.
	Parent() WindowID
	// SizeLimits returns the min and max size hints; zero means unset.
	SizeLimits() (min, max geom.Dimensions)
	Output() OutputID
	SetOutput(o OutputID)
}

// Output is one monitor together with its workspace grid geometry.
type Output interface {
	ID() OutputID
	// Workarea is the usable area in output-local coordinates.
	Workarea() geom.Rect
	// LayoutRect is the output rectangle in the shared output-layout space.
	LayoutRect() geom.Rect
}

// OutputLayout resolves points in the shared coordinate space to outputs.
type OutputLayout interface {
	OutputAt(p geom.Point) (Output, bool)
	Outputs() []Output
}

// Sublayer is the rendering sublayer holding the tiled windows of one cell.
type Sublayer interface {
	Add(w WindowID)
	Remove(w WindowID)
	Windows() []WindowID
}

// Scene creates and destroys per-cell sublayers and owns the non-tiled layer.
type Scene interface {
	NewSublayer(o OutputID, cell geom.Point) Sublayer
	// DestroySublayer tears down s, moving its windows to the non-tiled layer.
	DestroySublayer(s Sublayer)
	// Reinsert hands w back to the non-tiled layer of its output.
	Reinsert(w WindowID)
}

// CurrentWorkspace passed as a cell means the workspace the window is on.
var CurrentWorkspace = geom.Point{X: -1, Y: -1}

// WindowManager carries out placement requests on behalf of the engine.
type WindowManager interface {
	FullscreenRequest(w Window, o OutputID, state bool, cell geom.Point)
	TileRequest(w Window, edges geom.Edges, cell geom.Point)
	MoveToWorkspace(w Window, o OutputID, cell geom.Point)
}

// Notifier receives relocation notifications around cross-grid moves.
type Notifier interface {
	PreRelocate(w WindowID, from, to OutputID)
	PostRelocate(w WindowID, from, to OutputID)
}

// Elastic is the optional wobbly-window deformation hook.
type Elastic interface {
	Begin(w WindowID, anchor geom.PointF)
	SetAnchor(w WindowID, p geom.Point)
	// SetTiled pins the deformation to the window edges while held in place.
	SetTiled(w WindowID, tiled bool)
	End(w WindowID)
}

// DragRenderer receives the scale-around-grab transform of a dragged window.
type DragRenderer interface {
	SetTransform(w WindowID, grab geom.Point, relative geom.PointF, scale, alpha float64)
	ClearTransform(w WindowID)
}

// Focuser raises and focuses windows and outputs.
type Focuser interface {
	RaiseAndFocus(w WindowID)
	FocusOutput(o OutputID)
}
