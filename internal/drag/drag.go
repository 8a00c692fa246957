// Package drag implements the interactive move of a single window across
// outputs: a pending grab that turns into a drag past a small threshold, an
// optional held-in-place phase until the pointer snaps the window off, and a
// final drop delivered to observers.
package drag

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "drag",
	})
}

// SetLogLevel sets the logging level for the drag package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

const (
	// DefaultStartThreshold is how far the pointer must travel before a
	// pending grab becomes a drag.
	DefaultStartThreshold = 5.0
	// DefaultSnapOffThreshold is how far the pointer must travel before a
	// window held in place is released.
	DefaultSnapOffThreshold = 20.0
)

// Options configures one drag.
type Options struct {
	// InitialScale shrinks the window by this factor while dragged. Zero
	// means 1.
	InitialScale float64
	// EnableSnapOff keeps the window in place until the pointer has moved
	// SnapOffThreshold away from the grab origin.
	EnableSnapOff    bool
	SnapOffThreshold float64
}

// Env holds the collaborators of a drag. Every field except Layout is
// optional.
type Env struct {
	Layout   shell.OutputLayout
	Focuser  shell.Focuser
	Elastic  shell.Elastic
	Renderer shell.DragRenderer
}

// Context owns all drag state. There is at most one drag per Context.
type Context struct {
	env Env

	// StartThreshold is used by ShouldStart.
	StartThreshold float64

	pending *geom.Point
	pointer geom.Point

	window   shell.Window
	opts     Options
	relative geom.PointF
	grab     geom.Point
	scale    float64
	alpha    float64
	held     bool
	current  shell.Output

	observers []Observer
}

// NewContext returns an idle drag context.
func NewContext(env Env) *Context {
	return &Context{env: env, StartThreshold: DefaultStartThreshold}
}

// Subscribe registers o for every subsequent drag event.
func (c *Context) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *Context) emit(ev Event) {
	for _, o := range c.observers {
		o.HandleDrag(ev)
	}
}

// SetPending records the pointer position at which a drag may start.
func (c *Context) SetPending(p geom.Point) {
	c.pending = &p
	c.pointer = p
}

// Pending reports whether a grab origin is recorded.
func (c *Context) Pending() bool { return c.pending != nil }

// ShouldStart reports whether the pointer at p is far enough from the
// pending grab origin to start dragging.
func (c *Context) ShouldStart(p geom.Point) bool {
	if c.pending == nil {
		return false
	}
	return c.distanceToOrigin(p) > c.StartThreshold
}

func (c *Context) distanceToOrigin(p geom.Point) float64 {
	return geom.Distance(p, *c.pending)
}

// Start begins dragging w, whose bounding box in output-layout coordinates
// is box. SetPending must have been called and no drag may be active.
func (c *Context) Start(w shell.Window, box geom.Rect, opts Options) {
	if c.pending == nil {
		panic("drag: start without a pending grab")
	}
	if c.window != nil {
		panic(fmt.Sprintf("drag: %s is already being dragged", c.window.ID()))
	}
	if !w.IsMapped() {
		panic(fmt.Sprintf("drag: window %s is not mapped", w.ID()))
	}
	if opts.InitialScale <= 0 {
		opts.InitialScale = 1
	}
	if opts.SnapOffThreshold <= 0 {
		opts.SnapOffThreshold = DefaultSnapOffThreshold
	}

	c.window = w
	c.opts = opts
	c.relative = FindRelativeGrab(box, *c.pending)
	c.grab = *c.pending
	c.scale, c.alpha = opts.InitialScale, 1
	c.updateTransform()

	if e := c.env.Elastic; e != nil {
		e.Begin(w.ID(), c.relative)
	}
	if opts.EnableSnapOff {
		if e := c.env.Elastic; e != nil {
			e.SetTiled(w.ID(), true)
		}
		c.held = true
	}
	logger.Debug("drag started", "window", w.ID(), "grab", c.grab, "snap_off", opts.EnableSnapOff)
}

func (c *Context) updateTransform() {
	if r := c.env.Renderer; r != nil && c.window != nil {
		r.SetTransform(c.window.ID(), c.grab, c.relative, c.scale, c.alpha)
	}
}

// Motion moves the drag to p, in output-layout coordinates.
func (c *Context) Motion(p geom.Point) {
	if c.window == nil {
		return
	}
	id := c.window.ID()
	c.pointer = p

	if c.held && c.distanceToOrigin(p) >= c.opts.SnapOffThreshold {
		c.held = false
		if e := c.env.Elastic; e != nil {
			e.SetTiled(id, false)
		}
		logger.Debug("window snapped off", "window", id)
		c.emit(SnapOffEvent{Window: c.window, FocusOutput: c.current})
	}

	// The elastic anchor follows the pointer even while the window is held
	// in place; it is pinned to the edges then.
	if e := c.env.Elastic; e != nil {
		e.SetAnchor(id, p)
	}
	if !c.held {
		c.grab = p
		c.updateTransform()
	}

	c.updateCurrentOutput(p)
	c.emit(MotionEvent{Window: c.window, Position: p})
}

func (c *Context) updateCurrentOutput(p geom.Point) {
	var o shell.Output
	if c.env.Layout != nil {
		o, _ = c.env.Layout.OutputAt(p)
	}
	c.setCurrentOutput(o)
}

func (c *Context) setCurrentOutput(o shell.Output) {
	if outputID(o) == outputID(c.current) {
		return
	}
	ev := FocusOutputEvent{Window: c.window, Previous: c.current, Focus: o, Pointer: c.pointer}
	c.current = o
	if o != nil && c.env.Focuser != nil {
		c.env.Focuser.FocusOutput(o.ID())
	}
	logger.Debug("drag output focus", "from", outputID(ev.Previous), "to", outputID(o))
	c.emit(ev)
}

// OutputRemoved forgets the current output if it is o.
func (c *Context) OutputRemoved(o shell.OutputID) {
	if c.current != nil && c.current.ID() == o {
		c.setCurrentOutput(nil)
	}
}

// Release ends the drag and notifies observers of the drop. Without an
// active drag it only clears the pending grab.
func (c *Context) Release() {
	if c.window == nil {
		c.pending = nil
		return
	}
	done := DoneEvent{
		Window:       c.window,
		Output:       c.current,
		GrabPosition: c.grab,
		RelativeGrab: c.relative,
		Pointer:      c.pointer,
	}
	c.teardown()
	logger.Debug("drag done", "window", done.Window.ID(), "output", outputID(done.Output), "grab", done.GrabPosition)
	c.emit(done)
	c.held = false
	c.pending = nil
}

// Cancel ends the drag without a drop, for example when the dragged window
// goes away.
func (c *Context) Cancel() {
	if c.window != nil {
		logger.Debug("drag cancelled", "window", c.window.ID())
		c.teardown()
	}
	c.held = false
	c.pending = nil
}

func (c *Context) teardown() {
	id := c.window.ID()
	if r := c.env.Renderer; r != nil {
		r.ClearTransform(id)
	}
	if e := c.env.Elastic; e != nil {
		e.End(id)
	}
	c.window = nil
	c.current = nil
}

// SetScale changes the scale-down factor and opacity of the dragged window.
func (c *Context) SetScale(scale, alpha float64) {
	c.scale, c.alpha = scale, alpha
	c.updateTransform()
}

// Scale returns the current scale factor and opacity.
func (c *Context) Scale() (scale, alpha float64) { return c.scale, c.alpha }

// HeldInPlace reports whether the window waits for snap-off.
func (c *Context) HeldInPlace() bool { return c.held }

// Active reports whether a window is being dragged.
func (c *Context) Active() bool { return c.window != nil }

// Window returns the dragged window, nil when idle.
func (c *Context) Window() shell.Window { return c.window }

// CurrentOutput returns the output under the pointer, nil if none.
func (c *Context) CurrentOutput() shell.Output { return c.current }

// GrabPosition returns the point the window is anchored at, in
// output-layout coordinates.
func (c *Context) GrabPosition() geom.Point { return c.grab }

// Pointer returns the last pointer position seen by the context.
func (c *Context) Pointer() geom.Point { return c.pointer }

// RelativeGrab returns where inside the window it was grabbed.
func (c *Context) RelativeGrab() geom.PointF { return c.relative }

// FindRelativeGrab returns the position of p inside box as fractions of its
// size.
func FindRelativeGrab(box geom.Rect, p geom.Point) geom.PointF {
	var rel geom.PointF
	if box.Width > 0 {
		rel.X = float64(p.X-box.X) / float64(box.Width)
	}
	if box.Height > 0 {
		rel.Y = float64(p.Y-box.Y) / float64(box.Height)
	}
	return rel
}

// FindGeometryAround places a rectangle of the given size so that the
// relative point rel lands on grab.
func FindGeometryAround(size geom.Dimensions, grab geom.Point, rel geom.PointF) geom.Rect {
	return geom.Rect{
		X:      grab.X - int(math.Floor(rel.X*float64(size.Width))),
		Y:      grab.Y - int(math.Floor(rel.Y*float64(size.Height))),
		Width:  size.Width,
		Height: size.Height,
	}
}

func outputID(o shell.Output) shell.OutputID {
	if o == nil {
		return ""
	}
	return o.ID()
}
