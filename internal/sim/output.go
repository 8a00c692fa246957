package sim

import (
	"slices"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Output is a simulated monitor.
type Output struct {
	id       shell.OutputID
	layout   geom.Rect
	workarea geom.Rect
}

// NewOutput returns an output placed at layout whose work area is the whole
// output.
func NewOutput(id shell.OutputID, layout geom.Rect) *Output {
	return &Output{
		id:       id,
		layout:   layout,
		workarea: geom.Rect{Width: layout.Width, Height: layout.Height},
	}
}

func (o *Output) ID() shell.OutputID { return o.id }
func (o *Output) Workarea() geom.Rect { return o.workarea }
func (o *Output) LayoutRect() geom.Rect { return o.layout }
func (o *Output) SetWorkarea(r geom.Rect) { o.workarea = r }

// SetLayoutRect moves or resizes the output.
func (o *Output) SetLayoutRect(r geom.Rect) { o.layout = r }

// Layout is a simulated output layout.
type Layout struct {
	outputs []*Output
}

// NewLayout returns a layout made of outs.
func NewLayout(outs ...*Output) *Layout {
	return &Layout{outputs: outs}
}

// OutputAt returns the output containing p.
func (l *Layout) OutputAt(p geom.Point) (shell.Output, bool) {
	for _, o := range l.outputs {
		if o.layout.Contains(p) {
			return o, true
		}
	}
	return nil, false
}

// Outputs returns every output in insertion order.
func (l *Layout) Outputs() []shell.Output {
	out := make([]shell.Output, 0, len(l.outputs))
	for _, o := range l.outputs {
		out = append(out, o)
	}
	return out
}

// Add appends an output.
func (l *Layout) Add(o *Output) { l.outputs = append(l.outputs, o) }

// Remove drops the output with the given id.
func (l *Layout) Remove(id shell.OutputID) {
	l.outputs = slices.DeleteFunc(l.outputs, func(o *Output) bool { return o.id == id })
}

// Output returns the output with the given id.
func (l *Layout) Output(id shell.OutputID) (*Output, bool) {
	for _, o := range l.outputs {
		if o.id == id {
			return o, true
		}
	}
	return nil, false
}
