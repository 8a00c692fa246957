package sim

import (
	"fmt"
	"slices"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// EventKind names a recorded collaborator call.
type EventKind string

const (
	EventFullscreen      EventKind = "fullscreen"
	EventTile            EventKind = "tile"
	EventMoveToWorkspace EventKind = "move-to-workspace"
	EventPreRelocate     EventKind = "pre-relocate"
	EventPostRelocate    EventKind = "post-relocate"
	EventRaiseFocus      EventKind = "raise-focus"
	EventFocusOutput     EventKind = "focus-output"
	EventElasticBegin    EventKind = "elastic-begin"
	EventElasticAnchor   EventKind = "elastic-anchor"
	EventElasticTiled    EventKind = "elastic-tiled"
	EventElasticEnd      EventKind = "elastic-end"
	EventTransform       EventKind = "transform"
	EventClearTransform  EventKind = "clear-transform"
)

// Event is one recorded call.
type Event struct {
	Kind   EventKind
	Window shell.WindowID
	From   shell.OutputID
	To     shell.OutputID
	Cell   geom.Point
	Point  geom.Point
	Edges  geom.Edges
	State  bool
	Scale  float64
	Alpha  float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s %s->%s", e.Kind, e.Window, e.From, e.To)
}

// Shell is a window registry that implements every collaborator contract of
// the engine and records the calls it receives.
type Shell struct {
	Layout *Layout
	Scene  *Scene

	windows map[shell.WindowID]*Window
	order   []shell.WindowID
	events  []Event

	focused       shell.WindowID
	focusedOutput shell.OutputID

	// FullscreenHook, when set, is offered every fullscreen request first.
	// Returning true means the request was carried out elsewhere.
	FullscreenHook func(w shell.Window, state bool) bool
	// TileHook, like FullscreenHook, intercepts tile requests.
	TileHook func(w shell.Window, edges geom.Edges) bool
	// WorkspaceHook is told about every workspace move after it happened.
	WorkspaceHook func(w shell.Window, cell geom.Point)
}

// NewShell returns a shell over the given outputs.
func NewShell(outputs ...*Output) *Shell {
	return &Shell{
		Layout:  NewLayout(outputs...),
		Scene:   NewScene(),
		windows: make(map[shell.WindowID]*Window),
	}
}

// AddWindow registers w and puts it on the non-tiled layer.
func (s *Shell) AddWindow(w *Window) {
	if _, ok := s.windows[w.ID()]; !ok {
		s.order = append(s.order, w.ID())
	}
	s.windows[w.ID()] = w
	s.Scene.Reinsert(w.ID())
}

// RemoveWindow forgets w.
func (s *Shell) RemoveWindow(id shell.WindowID) {
	delete(s.windows, id)
	s.order = slices.DeleteFunc(s.order, func(x shell.WindowID) bool { return x == id })
	s.Scene.Forget(id)
	if s.focused == id {
		s.focused = ""
	}
}

// Window returns the registered window with the given id.
func (s *Shell) Window(id shell.WindowID) (*Window, bool) {
	w, ok := s.windows[id]
	return w, ok
}

// Lookup adapts Window to the shell.Window interface.
func (s *Shell) Lookup(id shell.WindowID) (shell.Window, bool) {
	w, ok := s.windows[id]
	if !ok {
		return nil, false
	}
	return w, true
}

// Windows returns every registered window in creation order.
func (s *Shell) Windows() []*Window {
	out := make([]*Window, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.windows[id])
	}
	return out
}

// Events returns the recorded calls.
func (s *Shell) Events() []Event { return slices.Clone(s.events) }

// EventsOf returns the recorded calls of the given kind.
func (s *Shell) EventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ResetEvents drops the recorded calls.
func (s *Shell) ResetEvents() { s.events = nil }

// Focused returns the focused window.
func (s *Shell) Focused() shell.WindowID { return s.focused }

// SetFocused focuses w without recording an event.
func (s *Shell) SetFocused(w shell.WindowID) { s.focused = w }

// FocusedOutput returns the focused output.
func (s *Shell) FocusedOutput() shell.OutputID { return s.focusedOutput }

func (s *Shell) record(e Event) { s.events = append(s.events, e) }

// FullscreenRequest implements shell.WindowManager.
func (s *Shell) FullscreenRequest(w shell.Window, o shell.OutputID, state bool, cell geom.Point) {
	s.record(Event{Kind: EventFullscreen, Window: w.ID(), To: o, State: state, Cell: cell})
	if s.FullscreenHook != nil && s.FullscreenHook(w, state) {
		return
	}
	w.SetFullscreen(state)
}

// TileRequest implements shell.WindowManager.
func (s *Shell) TileRequest(w shell.Window, edges geom.Edges, cell geom.Point) {
	s.record(Event{Kind: EventTile, Window: w.ID(), Edges: edges, Cell: cell})
	if s.TileHook != nil && s.TileHook(w, edges) {
		return
	}
	w.SetTiledEdges(edges)
}

// MoveToWorkspace implements shell.WindowManager.
func (s *Shell) MoveToWorkspace(w shell.Window, o shell.OutputID, cell geom.Point) {
	s.record(Event{Kind: EventMoveToWorkspace, Window: w.ID(), To: o, Cell: cell})
	if sw, ok := s.windows[w.ID()]; ok {
		sw.Cell = cell
	}
	if s.WorkspaceHook != nil {
		s.WorkspaceHook(w, cell)
	}
}

// PreRelocate implements shell.Notifier.
func (s *Shell) PreRelocate(w shell.WindowID, from, to shell.OutputID) {
	s.record(Event{Kind: EventPreRelocate, Window: w, From: from, To: to})
}

// PostRelocate implements shell.Notifier.
func (s *Shell) PostRelocate(w shell.WindowID, from, to shell.OutputID) {
	s.record(Event{Kind: EventPostRelocate, Window: w, From: from, To: to})
}

// RaiseAndFocus implements shell.Focuser.
func (s *Shell) RaiseAndFocus(w shell.WindowID) {
	s.record(Event{Kind: EventRaiseFocus, Window: w})
	s.focused = w
}

// FocusOutput implements shell.Focuser.
func (s *Shell) FocusOutput(o shell.OutputID) {
	s.record(Event{Kind: EventFocusOutput, To: o})
	s.focusedOutput = o
}

// Begin implements shell.Elastic.
func (s *Shell) Begin(w shell.WindowID, anchor geom.PointF) {
	s.record(Event{Kind: EventElasticBegin, Window: w})
}

// SetAnchor implements shell.Elastic.
func (s *Shell) SetAnchor(w shell.WindowID, p geom.Point) {
	s.record(Event{Kind: EventElasticAnchor, Window: w, Point: p})
}

// SetTiled implements shell.Elastic.
func (s *Shell) SetTiled(w shell.WindowID, tiled bool) {
	s.record(Event{Kind: EventElasticTiled, Window: w, State: tiled})
}

// End implements shell.Elastic.
func (s *Shell) End(w shell.WindowID) {
	s.record(Event{Kind: EventElasticEnd, Window: w})
}

// SetTransform implements shell.DragRenderer.
func (s *Shell) SetTransform(w shell.WindowID, grab geom.Point, relative geom.PointF, scale, alpha float64) {
	s.record(Event{Kind: EventTransform, Window: w, Point: grab, Scale: scale, Alpha: alpha})
}

// ClearTransform implements shell.DragRenderer.
func (s *Shell) ClearTransform(w shell.WindowID) {
	s.record(Event{Kind: EventClearTransform, Window: w})
}

var (
	_ shell.WindowManager = (*Shell)(nil)
	_ shell.Notifier      = (*Shell)(nil)
	_ shell.Focuser       = (*Shell)(nil)
	_ shell.Elastic       = (*Shell)(nil)
	_ shell.DragRenderer  = (*Shell)(nil)
	_ shell.Scene         = (*Scene)(nil)
	_ shell.OutputLayout  = (*Layout)(nil)
	_ shell.Window        = (*Window)(nil)
	_ shell.Output        = (*Output)(nil)
)
