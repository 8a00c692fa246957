package drag_test

import (
	"testing"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
)

type grid struct {
	current geom.Point
	size    geom.Dimensions
	output  geom.Dimensions
}

func (g grid) CurrentCell() geom.Point   { return g.current }
func (g grid) GridSize() geom.Dimensions { return g.size }
func (g grid) CellOffset(c geom.Point) geom.Point {
	return geom.Point{X: c.X * g.output.Width, Y: c.Y * g.output.Height}
}

func TestTargetCell(t *testing.T) {
	out := geom.Dimensions{Width: 1920, Height: 1080}
	g := grid{current: geom.Point{X: 1, Y: 1}, size: geom.Dimensions{Width: 3, Height: 3}, output: out}
	tests := []struct {
		grab geom.Point
		want geom.Point
	}{
		{geom.Point{X: 10, Y: 10}, geom.Point{X: 1, Y: 1}},
		{geom.Point{X: 1920, Y: 10}, geom.Point{X: 2, Y: 1}},
		{geom.Point{X: -1, Y: -1}, geom.Point{X: 0, Y: 0}},
		{geom.Point{X: 9000, Y: -5000}, geom.Point{X: 2, Y: 0}},
	}
	for _, tt := range tests {
		if got := drag.TargetCell(tt.grab, out, g); got != tt.want {
			t.Errorf("TargetCell(%v) = %v, want %v", tt.grab, got, tt.want)
		}
	}
}

func placementFixture(t *testing.T) (*sim.Shell, *sim.Window, drag.Placement) {
	t.Helper()
	main := sim.NewOutput("main", geom.Rect{Width: 1920, Height: 1080})
	second := sim.NewOutput("second", geom.Rect{X: 1920, Width: 1920, Height: 1080})
	sh := sim.NewShell(main, second)
	w := sim.NewWindowWithID("w", "editor", geom.Rect{X: 0, Y: 0, Width: 200, Height: 100}, "main")
	sh.AddWindow(w)

	grids := map[shell.OutputID]drag.Grid{
		"second": grid{size: geom.Dimensions{Width: 3, Height: 1}, output: geom.Dimensions{Width: 1920, Height: 1080}},
	}
	p := drag.Placement{
		WM:       sh,
		Notifier: sh,
		Focuser:  sh,
		Grid: func(o shell.OutputID) (drag.Grid, bool) {
			g, ok := grids[o]
			return g, ok
		},
	}
	return sh, w, p
}

func TestAdjustOnOutputMovesAcrossOutputs(t *testing.T) {
	sh, w, p := placementFixture(t)
	w.SetTiledEdges(geom.EdgesAll)
	second, _ := sh.Layout.Output("second")

	drag.AdjustOnOutput(drag.DoneEvent{
		Window:       w,
		Output:       second,
		GrabPosition: geom.Point{X: 1920 + 2500, Y: 500},
		RelativeGrab: geom.PointF{X: 0.5, Y: 0.5},
	}, p)

	if got := w.BoundingBox().Origin(); got != (geom.Point{X: 2400, Y: 450}) {
		t.Errorf("window moved to %v", got)
	}
	if w.Output() != "second" {
		t.Errorf("window output = %q", w.Output())
	}

	var kinds []sim.EventKind
	for _, e := range sh.Events() {
		kinds = append(kinds, e.Kind)
	}
	want := []sim.EventKind{
		sim.EventPreRelocate, sim.EventTile, sim.EventMoveToWorkspace,
		sim.EventPostRelocate, sim.EventRaiseFocus,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
	if tile := sh.EventsOf(sim.EventTile)[0]; tile.Cell != (geom.Point{X: 1, Y: 0}) || tile.Edges != geom.EdgesAll {
		t.Errorf("tile request = %+v", tile)
	}
	if w.Cell != (geom.Point{X: 1, Y: 0}) {
		t.Errorf("window workspace = %v", w.Cell)
	}
}

func TestAdjustOnOutputSameOutput(t *testing.T) {
	sh, w, p := placementFixture(t)
	w.SetFullscreen(true)
	main, _ := sh.Layout.Output("main")

	drag.AdjustOnOutput(drag.DoneEvent{
		Window:       w,
		Output:       main,
		GrabPosition: geom.Point{X: 300, Y: 300},
		RelativeGrab: geom.PointF{X: 0.1, Y: 0.1},
	}, p)

	if n := len(sh.EventsOf(sim.EventPreRelocate)) + len(sh.EventsOf(sim.EventPostRelocate)); n != 0 {
		t.Errorf("relocation sent for a drop on the same output")
	}
	fs := sh.EventsOf(sim.EventFullscreen)
	if len(fs) != 1 || !fs[0].State {
		t.Errorf("fullscreen requests = %v", fs)
	}
	if len(sh.EventsOf(sim.EventTile)) != 0 {
		t.Error("fullscreen window also got a tile request")
	}
	if got := w.BoundingBox().Origin(); got != (geom.Point{X: 280, Y: 290}) {
		t.Errorf("window moved to %v", got)
	}
}

func TestAdjustOnOutputIgnoresUnmapped(t *testing.T) {
	sh, w, p := placementFixture(t)
	w.SetMapped(false)
	main, _ := sh.Layout.Output("main")

	drag.AdjustOnOutput(drag.DoneEvent{Window: w, Output: main}, p)
	drag.AdjustOnOutput(drag.DoneEvent{Window: w}, p)
	if len(sh.Events()) != 0 {
		t.Errorf("unexpected events %v", sh.Events())
	}
}

func TestAdjustOnSnapOff(t *testing.T) {
	tests := []struct {
		name       string
		edges      geom.Edges
		fullscreen bool
		wantTile   bool
	}{
		{"tiled", geom.EdgesAll, false, true},
		{"floating", geom.EdgesNone, false, false},
		{"fullscreen", geom.EdgesAll, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, w, _ := placementFixture(t)
			w.SetTiledEdges(tt.edges)
			w.SetFullscreen(tt.fullscreen)

			drag.AdjustOnSnapOff(w, sh)
			tiles := sh.EventsOf(sim.EventTile)
			if (len(tiles) == 1) != tt.wantTile {
				t.Fatalf("tile requests = %v", tiles)
			}
			if tt.wantTile && (tiles[0].Edges != geom.EdgesNone || w.PendingTiledEdges() != geom.EdgesNone) {
				t.Errorf("window still tiled: %+v", tiles[0])
			}
		})
	}
}
