package demo

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

// Draw paints the desktop, the drag ghost and the drop preview.
func (d *Desktop) Draw() *Screen {
	scr := NewScreen(d.width, d.height, theme.DesktopFg(), theme.DesktopBg())
	for _, o := range d.outputs {
		d.drawOutput(scr, o)
	}

	focused := d.sh.Focused()
	for _, w := range d.Stack() {
		d.drawWindow(scr, w, w.ID() == focused)
	}
	d.drawPreview(scr)
	d.drawGhost(scr)
	return scr
}

func (d *Desktop) drawOutput(scr *Screen, o *sim.Output) {
	s := d.Store(o.ID())
	if s == nil {
		return
	}
	r := o.LayoutRect()
	label := fmt.Sprintf("%s %d/%d", o.ID(), workspaceNumber(s.CurrentCell(), s.GridSize().Width),
		s.GridSize().Width*s.GridSize().Height)
	y := r.Y + r.Height - 1
	scr.Text(r.X+r.Width-len(label)-1, y, label, theme.HelpGray(), theme.DesktopBg())
	if r.X > 0 {
		for row := r.Y; row < r.Y+r.Height; row++ {
			scr.Set(r.X, row, '┊', theme.HelpGray(), theme.DesktopBg())
		}
	}
}

func workspaceNumber(c geom.Point, width int) int {
	return c.Y*width + c.X + 1
}

func (d *Desktop) drawWindow(scr *Screen, w *sim.Window, focused bool) {
	border := theme.BorderFloating()
	switch {
	case w.PendingFullscreen():
		border = theme.BorderFullscreen()
	case focused:
		border = theme.BorderFocused()
	case d.m.IsTiled(w.ID()):
		border = theme.BorderTiled()
	}
	box := d.LayoutBox(w)
	scr.Frame(box, w.Title, border, theme.DesktopFg(), theme.DesktopBg())

	var state []string
	if d.m.IsTiled(w.ID()) {
		state = append(state, "tiled")
	} else {
		state = append(state, "floating")
	}
	if w.PendingFullscreen() {
		state = append(state, "fullscreen")
	}
	scr.Text(box.X+2, box.Y+1, truncate(strings.Join(state, " "), box.Width-4), theme.HelpGray(), theme.DesktopBg())
	scr.Text(box.X+2, box.Y+2, truncate(fmt.Sprintf("%dx%d", box.Width, box.Height), box.Width-4),
		theme.HelpGray(), theme.DesktopBg())
}

func (d *Desktop) drawPreview(scr *Screen) {
	pv, ok := d.m.Retile().Preview()
	if !ok {
		return
	}
	s := d.Store(pv.Output)
	if s == nil {
		return
	}
	r := s.ToLayout(pv.Rect)
	scr.Fill(r, '░', theme.PreviewBorder(), theme.PreviewFill())
	scr.Frame(r, pv.Insertion.String(), theme.PreviewBorder(), theme.PreviewBorder(), theme.PreviewFill())
}

// ghost returns where the dragged window is drawn, in terminal coordinates.
func (d *Desktop) ghost() (geom.Rect, *sim.Window, bool) {
	ctx := d.m.Drag()
	if !ctx.Active() || ctx.HeldInPlace() {
		return geom.Rect{}, nil, false
	}
	w, ok := d.sh.Window(ctx.Window().ID())
	if !ok {
		return geom.Rect{}, nil, false
	}
	size := d.LayoutBox(w).Dimensions()
	if scale, _ := ctx.Scale(); scale > 1 {
		size.Width = max(int(float64(size.Width)/scale), 4)
		size.Height = max(int(float64(size.Height)/scale), 3)
	}
	return drag.FindGeometryAround(size, ctx.GrabPosition(), ctx.RelativeGrab()), w, true
}

func (d *Desktop) drawGhost(scr *Screen) {
	r, w, ok := d.ghost()
	if !ok {
		return
	}
	scr.Frame(r, w.Title, theme.DragGhost(), theme.DragGhost(), theme.DesktopBg())
}
