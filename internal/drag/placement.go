package drag

import (
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Grid is the workspace grid of one output.
type Grid interface {
	CurrentCell() geom.Point
	GridSize() geom.Dimensions
	// CellOffset returns the origin of cell c in grid coordinates.
	CellOffset(c geom.Point) geom.Point
}

// Placement holds what AdjustOnOutput needs to put a dropped window down.
type Placement struct {
	WM       shell.WindowManager
	Notifier shell.Notifier
	Focuser  shell.Focuser
	// Grid resolves the workspace grid of an output. Outputs without one
	// behave as a single cell.
	Grid func(o shell.OutputID) (Grid, bool)
}

type singleCell struct{}

func (singleCell) CurrentCell() geom.Point            { return geom.Point{} }
func (singleCell) GridSize() geom.Dimensions          { return geom.Dimensions{Width: 1, Height: 1} }
func (singleCell) CellOffset(c geom.Point) geom.Point { return geom.Point{} }

// TargetCell returns the workspace cell under grab, a point local to the
// output of the given size, clamped to the grid.
func TargetCell(grab geom.Point, size geom.Dimensions, g Grid) geom.Point {
	cur := g.CurrentCell()
	dims := g.GridSize()
	c := geom.Point{
		X: floorDiv(grab.X, size.Width) + cur.X,
		Y: floorDiv(grab.Y, size.Height) + cur.Y,
	}
	c.X = geom.Clamp(c.X, 0, dims.Width-1)
	c.Y = geom.Clamp(c.Y, 0, dims.Height-1)
	return c
}

func floorDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// AdjustOnOutput moves a dropped window to the output and workspace under
// the drop point, keeping its fullscreen or tiled state, and focuses it.
// Unmapped windows and drops outside every output are ignored.
func AdjustOnOutput(ev DoneEvent, p Placement) {
	w := ev.Window
	if w == nil || !w.IsMapped() || ev.Output == nil {
		return
	}
	to := ev.Output.ID()
	from := w.Output()
	changeOutput := from != to

	if changeOutput {
		if p.Notifier != nil {
			p.Notifier.PreRelocate(w.ID(), from, to)
		}
		w.SetOutput(to)
	}

	var g Grid = singleCell{}
	if p.Grid != nil {
		if og, ok := p.Grid(to); ok {
			g = og
		}
	}

	lr := ev.Output.LayoutRect()
	grab := ev.GrabPosition.Sub(lr.Origin())
	target := TargetCell(grab, lr.Dimensions(), g)

	box := FindGeometryAround(w.BoundingBox().Dimensions(), grab, ev.RelativeGrab)
	box = box.Translate(g.CellOffset(g.CurrentCell()))
	w.Move(box.X, box.Y)

	if p.WM != nil {
		if w.PendingFullscreen() {
			p.WM.FullscreenRequest(w, to, true, target)
		} else if edges := w.PendingTiledEdges(); edges != geom.EdgesNone {
			p.WM.TileRequest(w, edges, target)
		}
		p.WM.MoveToWorkspace(w, to, target)
	}

	if changeOutput && p.Notifier != nil {
		p.Notifier.PostRelocate(w.ID(), from, to)
	}
	if p.Focuser != nil {
		p.Focuser.RaiseAndFocus(w.ID())
	}
	logger.Debug("window placed", "window", w.ID(), "output", to, "cell", target, "at", box.Origin())
}

// AdjustOnSnapOff untiles a window that was snapped off its place, unless
// it is fullscreen.
func AdjustOnSnapOff(w shell.Window, wm shell.WindowManager) {
	if w.PendingTiledEdges() != geom.EdgesNone && !w.PendingFullscreen() {
		wm.TileRequest(w, geom.EdgesNone, shell.CurrentWorkspace)
	}
}
