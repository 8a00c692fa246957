package drag_test

import (
	"testing"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
)

type fixture struct {
	sh     *sim.Shell
	ctx    *drag.Context
	w      *sim.Window
	events []drag.Event
}

// newFixture lays out two 1920x1080 outputs side by side and a 200x100
// window at (100, 100) on the first.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	main := sim.NewOutput("main", geom.Rect{Width: 1920, Height: 1080})
	second := sim.NewOutput("second", geom.Rect{X: 1920, Width: 1920, Height: 1080})
	sh := sim.NewShell(main, second)

	w := sim.NewWindowWithID("w", "editor", geom.Rect{X: 100, Y: 100, Width: 200, Height: 100}, "main")
	sh.AddWindow(w)

	f := &fixture{sh: sh, w: w}
	f.ctx = drag.NewContext(drag.Env{
		Layout:   sh.Layout,
		Focuser:  sh,
		Elastic:  sh,
		Renderer: sh,
	})
	f.ctx.Subscribe(drag.ObserverFunc(func(ev drag.Event) {
		f.events = append(f.events, ev)
	}))
	return f
}

func (f *fixture) start(opts drag.Options) {
	f.ctx.SetPending(geom.Point{X: 150, Y: 125})
	f.ctx.Start(f.w, f.w.BoundingBox(), opts)
}

func TestShouldStart(t *testing.T) {
	f := newFixture(t)
	if f.ctx.ShouldStart(geom.Point{X: 500, Y: 500}) {
		t.Fatal("drag should not start without a pending grab")
	}

	f.ctx.SetPending(geom.Point{X: 100, Y: 100})
	tests := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Point{X: 100, Y: 100}, false},
		{geom.Point{X: 103, Y: 104}, false},
		{geom.Point{X: 105, Y: 100}, false},
		{geom.Point{X: 104, Y: 104}, true},
		{geom.Point{X: 90, Y: 100}, true},
	}
	for _, tt := range tests {
		if got := f.ctx.ShouldStart(tt.p); got != tt.want {
			t.Errorf("ShouldStart(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestStartComputesRelativeGrab(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{})

	if !f.ctx.Active() {
		t.Fatal("drag not active after Start")
	}
	if got := f.ctx.RelativeGrab(); got != (geom.PointF{X: 0.25, Y: 0.25}) {
		t.Errorf("relative grab = %+v", got)
	}
	if f.ctx.HeldInPlace() {
		t.Error("window held in place without snap-off")
	}
	if scale, alpha := f.ctx.Scale(); scale != 1 || alpha != 1 {
		t.Errorf("scale = %v, alpha = %v, want 1, 1", scale, alpha)
	}
	if n := len(f.sh.EventsOf(sim.EventElasticBegin)); n != 1 {
		t.Errorf("elastic begin sent %d times", n)
	}
}

func TestStartMisuse(t *testing.T) {
	t.Run("without pending grab", func(t *testing.T) {
		f := newFixture(t)
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		f.ctx.Start(f.w, f.w.BoundingBox(), drag.Options{})
	})
	t.Run("twice", func(t *testing.T) {
		f := newFixture(t)
		f.start(drag.Options{})
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		f.start(drag.Options{})
	})
}

func TestSnapOff(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{EnableSnapOff: true, SnapOffThreshold: 20})
	if !f.ctx.HeldInPlace() {
		t.Fatal("window should be held in place")
	}

	f.ctx.Motion(geom.Point{X: 160, Y: 125})
	if !f.ctx.HeldInPlace() {
		t.Error("snapped off below the threshold")
	}
	if got := f.ctx.GrabPosition(); got != (geom.Point{X: 150, Y: 125}) {
		t.Errorf("held window moved to %v", got)
	}
	if n := len(f.sh.EventsOf(sim.EventElasticAnchor)); n != 1 {
		t.Errorf("elastic anchor should follow the pointer while held, got %d updates", n)
	}

	f.ctx.Motion(geom.Point{X: 170, Y: 125})
	if f.ctx.HeldInPlace() {
		t.Fatal("window still held at the threshold")
	}
	if got := f.ctx.GrabPosition(); got != (geom.Point{X: 170, Y: 125}) {
		t.Errorf("grab position = %v after snap-off", got)
	}

	var snaps int
	for _, ev := range f.events {
		if _, ok := ev.(drag.SnapOffEvent); ok {
			snaps++
		}
	}
	if snaps != 1 {
		t.Errorf("got %d snap-off events, want 1", snaps)
	}
	tiled := f.sh.EventsOf(sim.EventElasticTiled)
	if len(tiled) != 2 || !tiled[0].State || tiled[1].State {
		t.Errorf("elastic tiled events = %v", tiled)
	}
}

func TestFocusOutputEvents(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{})

	f.ctx.Motion(geom.Point{X: 200, Y: 200})
	f.ctx.Motion(geom.Point{X: 300, Y: 200})
	f.ctx.Motion(geom.Point{X: 2000, Y: 200})
	f.ctx.Motion(geom.Point{X: 5000, Y: 200})

	var got [][2]shell.OutputID
	for _, ev := range f.events {
		if fo, ok := ev.(drag.FocusOutputEvent); ok {
			got = append(got, [2]shell.OutputID{id(fo.Previous), id(fo.Focus)})
		}
	}
	want := [][2]shell.OutputID{{"", "main"}, {"main", "second"}, {"second", ""}}
	if len(got) != len(want) {
		t.Fatalf("focus events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("focus event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if f.sh.FocusedOutput() != "second" {
		t.Errorf("focused output = %q", f.sh.FocusedOutput())
	}
}

func TestRelease(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{})
	f.ctx.Motion(geom.Point{X: 2100, Y: 300})
	f.ctx.Release()

	if f.ctx.Active() || f.ctx.Pending() {
		t.Fatal("drag state not reset after release")
	}
	done, ok := f.events[len(f.events)-1].(drag.DoneEvent)
	if !ok {
		t.Fatalf("last event is %T, want DoneEvent", f.events[len(f.events)-1])
	}
	if done.Window.ID() != "w" || id(done.Output) != "second" {
		t.Errorf("done = %+v", done)
	}
	if done.GrabPosition != (geom.Point{X: 2100, Y: 300}) {
		t.Errorf("grab position = %v", done.GrabPosition)
	}
	if n := len(f.sh.EventsOf(sim.EventClearTransform)); n != 1 {
		t.Errorf("transform cleared %d times", n)
	}

	// releasing again is harmless
	f.ctx.Release()
}

func TestCancelSkipsDrop(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{})
	f.ctx.Cancel()

	for _, ev := range f.events {
		if _, ok := ev.(drag.DoneEvent); ok {
			t.Fatal("cancel must not deliver a drop")
		}
	}
	if f.ctx.Active() {
		t.Error("drag still active")
	}
	if n := len(f.sh.EventsOf(sim.EventElasticEnd)); n != 1 {
		t.Errorf("elastic ended %d times", n)
	}
}

func TestSetScale(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{InitialScale: 1})
	f.ctx.SetScale(2, 0.5)

	tr := f.sh.EventsOf(sim.EventTransform)
	last := tr[len(tr)-1]
	if last.Scale != 2 || last.Alpha != 0.5 {
		t.Errorf("transform = %+v", last)
	}
}

func TestOutputRemoved(t *testing.T) {
	f := newFixture(t)
	f.start(drag.Options{})
	f.ctx.Motion(geom.Point{X: 200, Y: 200})

	f.ctx.OutputRemoved("main")
	if f.ctx.CurrentOutput() != nil {
		t.Error("current output not cleared")
	}
}

func TestFindGeometryAround(t *testing.T) {
	tests := []struct {
		name string
		size geom.Dimensions
		grab geom.Point
		rel  geom.PointF
		want geom.Rect
	}{
		{"centre", geom.Dimensions{Width: 100, Height: 50}, geom.Point{X: 500, Y: 500}, geom.PointF{X: 0.5, Y: 0.5}, geom.Rect{X: 450, Y: 475, Width: 100, Height: 50}},
		{"floors", geom.Dimensions{Width: 100, Height: 50}, geom.Point{X: 10, Y: 10}, geom.PointF{X: 0.255, Y: 0.5}, geom.Rect{X: -15, Y: -15, Width: 100, Height: 50}},
		{"corner", geom.Dimensions{Width: 80, Height: 60}, geom.Point{X: 0, Y: 0}, geom.PointF{}, geom.Rect{Width: 80, Height: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drag.FindGeometryAround(tt.size, tt.grab, tt.rel); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindRelativeGrabRoundTrip(t *testing.T) {
	box := geom.Rect{X: 40, Y: 60, Width: 200, Height: 100}
	p := geom.Point{X: 90, Y: 85}
	rel := drag.FindRelativeGrab(box, p)
	if got := drag.FindGeometryAround(box.Dimensions(), p, rel); got != box {
		t.Errorf("round trip = %v, want %v", got, box)
	}
}

func id(o shell.Output) shell.OutputID {
	if o == nil {
		return ""
	}
	return o.ID()
}
