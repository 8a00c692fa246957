package drag

import (
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Event is one of MotionEvent, FocusOutputEvent, SnapOffEvent or DoneEvent.
type Event interface {
	dragEvent()
}

// Observer receives drag events in the order they happen.
type Observer interface {
	HandleDrag(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// HandleDrag calls f(ev).
func (f ObserverFunc) HandleDrag(ev Event) { f(ev) }

// MotionEvent follows every pointer motion during a drag.
type MotionEvent struct {
	Window   shell.Window
	Position geom.Point
}

// FocusOutputEvent is sent when the pointer moves to another output, or off
// every output.
type FocusOutputEvent struct {
	Window   shell.Window
	Previous shell.Output
	Focus    shell.Output
	Pointer  geom.Point
}

// SnapOffEvent is sent once when a held window is released from its place.
type SnapOffEvent struct {
	Window      shell.Window
	FocusOutput shell.Output
}

// DoneEvent describes the drop at the end of a drag.
type DoneEvent struct {
	Window shell.Window
	// Output is the output under the pointer at release, nil if none.
	Output shell.Output
	// GrabPosition is in output-layout coordinates.
	GrabPosition geom.Point
	RelativeGrab geom.PointF
	// Pointer is the pointer position at release. It differs from
	// GrabPosition while the window is held in place.
	Pointer geom.Point
}

func (MotionEvent) dragEvent()      {}
func (FocusOutputEvent) dragEvent() {}
func (SnapOffEvent) dragEvent()     {}
func (DoneEvent) dragEvent()        {}
