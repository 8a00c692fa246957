package retile_test

import (
	"slices"
	"testing"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/retile"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

func TestClassifyDrop(t *testing.T) {
	a := tree.NewArena()
	n := a.NewLeaf("w")
	a.SetGeometry(n, geom.Rect{Width: 100, Height: 100}, txn.NewBatch())

	tests := []struct {
		p    geom.Point
		want retile.Insertion
	}{
		{geom.Point{X: 10, Y: 50}, retile.Left},
		{geom.Point{X: 50, Y: 50}, retile.Swap},
		{geom.Point{X: -5, Y: 50}, retile.None},
		{geom.Point{X: 95, Y: 10}, retile.Right},
		{geom.Point{X: 50, Y: 90}, retile.Below},
		{geom.Point{X: 50, Y: 5}, retile.Above},
		// ties go to the first edge in left, above, right, below order
		{geom.Point{X: 10, Y: 10}, retile.Left},
		{geom.Point{X: 75, Y: 25}, retile.Above},
		{geom.Point{X: 100, Y: 50}, retile.None},
	}
	for _, tt := range tests {
		if got := retile.ClassifyDrop(a, n, tt.p, retile.DefaultSensitivity); got != tt.want {
			t.Errorf("ClassifyDrop(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}

	a.Free(n)
	if got := retile.ClassifyDrop(a, n, geom.Point{X: 50, Y: 50}, retile.DefaultSensitivity); got != retile.None {
		t.Errorf("stale node classified as %s", got)
	}
}

func TestSplitPreview(t *testing.T) {
	r := geom.Rect{X: 30, Y: 60, Width: 300, Height: 90}
	tests := []struct {
		ins  retile.Insertion
		want geom.Rect
	}{
		{retile.Left, geom.Rect{X: 30, Y: 60, Width: 100, Height: 90}},
		{retile.Right, geom.Rect{X: 230, Y: 60, Width: 100, Height: 90}},
		{retile.Above, geom.Rect{X: 30, Y: 60, Width: 300, Height: 30}},
		{retile.Below, geom.Rect{X: 30, Y: 120, Width: 300, Height: 30}},
		{retile.Swap, r},
		{retile.None, r},
	}
	for _, tt := range tests {
		t.Run(tt.ins.String(), func(t *testing.T) {
			if got := retile.SplitPreview(r, tt.ins); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type fixture struct {
	sh     *sim.Shell
	rec    *txn.Recorder
	group  *wset.Group
	main   *wset.Store
	second *wset.Store
	engine *retile.Engine
	a, b   *sim.Window
}

// newFixture tiles a and b side by side on "main" and leaves "second",
// to the right of it, empty.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mainOut := sim.NewOutput("main", geom.Rect{Width: 1920, Height: 1080})
	secondOut := sim.NewOutput("second", geom.Rect{X: 1920, Width: 1920, Height: 1080})
	sh := sim.NewShell(mainOut, secondOut)
	rec := &txn.Recorder{Lookup: sh.Lookup}
	g := wset.NewGroup(wset.Collaborators{
		Committer: rec,
		Scene:     sh.Scene,
		WM:        sh,
		Notifier:  sh,
		Lookup:    sh.Lookup,
	})
	f := &fixture{
		sh:     sh,
		rec:    rec,
		group:  g,
		main:   g.NewStore(mainOut, geom.Dimensions{Width: 1, Height: 1}),
		second: g.NewStore(secondOut, geom.Dimensions{Width: 1, Height: 1}),
	}
	f.engine = retile.NewEngine(g, sh)
	f.a = f.tile(f.main, "a")
	f.b = f.tile(f.main, "b")
	sh.ResetEvents()
	rec.Reset()
	return f
}

func (f *fixture) tile(s *wset.Store, id string) *sim.Window {
	w := sim.NewWindowWithID(shell.WindowID(id), id, geom.Rect{Width: 100, Height: 100}, s.OutputID())
	f.sh.AddWindow(w)
	s.AttachWindow(w)
	return w
}

func (f *fixture) leaf(t *testing.T, w *sim.Window) tree.NodeID {
	t.Helper()
	n, ok := f.group.Arena().LeafOf(w.ID())
	if !ok {
		t.Fatalf("window %s is not tiled", w.ID())
	}
	return n
}

func (f *fixture) validate(t *testing.T) {
	t.Helper()
	a := f.group.Arena()
	for _, s := range []*wset.Store{f.main, f.second} {
		if err := a.Validate(s.CurrentRoot()); err != nil {
			t.Fatalf("tree of %s invalid: %v\n%s", s.OutputID(), err, a.Dump(s.CurrentRoot()))
		}
	}
}

func (f *fixture) count(kind sim.EventKind, w shell.WindowID) int {
	n := 0
	for _, e := range f.sh.EventsOf(kind) {
		if e.Window == w {
			n++
		}
	}
	return n
}

func TestMoveRetileIntoMatchingSplit(t *testing.T) {
	f := newFixture(t)
	c := f.tile(f.second, "c")
	f.rec.Reset()
	f.sh.ResetEvents()
	a := f.group.Arena()
	root := f.main.CurrentRoot()
	before := a.NumChildren(root)

	f.engine.MoveRetile(c.ID(), f.b.ID(), retile.Right)
	f.validate(t)

	if got := a.NumChildren(root); got != before+1 {
		t.Errorf("root has %d children, want %d", got, before+1)
	}
	want := []tree.NodeID{f.leaf(t, f.a), f.leaf(t, f.b), f.leaf(t, c)}
	if got := a.Children(root); !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	if got := a.Geometry(f.leaf(t, c)); got != (geom.Rect{X: 1280, Width: 640, Height: 1080}) {
		t.Errorf("c geometry = %v", got)
	}
	if a.NumChildren(f.second.CurrentRoot()) != 0 {
		t.Error("second output still holds a tile")
	}

	if !f.main.Owns(c.ID()) || f.second.Owns(c.ID()) || c.Output() != "main" {
		t.Error("window registry not moved to the target output")
	}
	if f.count(sim.EventPreRelocate, c.ID()) != 1 || f.count(sim.EventPostRelocate, c.ID()) != 1 {
		t.Errorf("relocation events = %v", f.sh.Events())
	}
	if len(f.rec.Batches) != 1 {
		t.Errorf("retile committed %d batches, want 1", len(f.rec.Batches))
	}
	if f.sh.Focused() != c.ID() {
		t.Errorf("focused %q, want c", f.sh.Focused())
	}
}

func TestMoveRetileCreatesSplit(t *testing.T) {
	f := newFixture(t)
	c := f.tile(f.second, "c")
	a := f.group.Arena()
	root := f.main.CurrentRoot()

	f.engine.MoveRetile(c.ID(), f.b.ID(), retile.Above)
	f.validate(t)

	children := a.Children(root)
	if len(children) != 2 || children[0] != f.leaf(t, f.a) {
		t.Fatalf("root children = %v", children)
	}
	split := children[1]
	if !a.IsSplit(split) || a.Direction(split) != tree.Vertical {
		t.Fatalf("b's slot holds %s %v", a.Kind(split), a.Direction(split))
	}
	if got, want := a.Children(split), []tree.NodeID{f.leaf(t, c), f.leaf(t, f.b)}; !slices.Equal(got, want) {
		t.Errorf("split children = %v, want %v", got, want)
	}
	if got := a.Geometry(f.leaf(t, c)); got != (geom.Rect{X: 960, Width: 960, Height: 540}) {
		t.Errorf("c geometry = %v", got)
	}
	if got := a.Geometry(f.leaf(t, f.b)); got != (geom.Rect{X: 960, Y: 540, Width: 960, Height: 540}) {
		t.Errorf("b geometry = %v", got)
	}
	if c.BoundingBox() != a.Geometry(f.leaf(t, c)) {
		t.Errorf("committed geometry %v differs from the tree", c.BoundingBox())
	}
}

func TestMoveRetileRejectsNonEdges(t *testing.T) {
	f := newFixture(t)
	for _, ins := range []retile.Insertion{retile.None, retile.Swap} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("MoveRetile with %s did not panic", ins)
				}
			}()
			f.engine.MoveRetile(f.a.ID(), f.b.ID(), ins)
		}()
	}
}

func TestSwapSameTree(t *testing.T) {
	f := newFixture(t)
	a := f.group.Arena()
	ga, gb := a.Geometry(f.leaf(t, f.a)), a.Geometry(f.leaf(t, f.b))

	f.engine.Swap(f.a.ID(), f.b.ID())
	f.validate(t)

	if a.Geometry(f.leaf(t, f.a)) != gb || a.Geometry(f.leaf(t, f.b)) != ga {
		t.Error("geometries were not exchanged")
	}
	if got := len(a.Leaves(f.main.CurrentRoot())); got != 2 {
		t.Errorf("leaf count = %d after swap", got)
	}
	if len(f.sh.EventsOf(sim.EventPreRelocate)) != 0 {
		t.Error("swap inside one tree sent relocation events")
	}
	if f.sh.Focused() != f.a.ID() {
		t.Errorf("focused %q, want a", f.sh.Focused())
	}
}

func TestSwapAcrossOutputs(t *testing.T) {
	f := newFixture(t)
	c := f.tile(f.second, "c")
	f.rec.Reset()
	f.sh.ResetEvents()
	a := f.group.Arena()
	ga, gc := a.Geometry(f.leaf(t, f.a)), a.Geometry(f.leaf(t, c))

	f.engine.Swap(f.a.ID(), c.ID())
	f.validate(t)

	if a.Geometry(f.leaf(t, f.a)) != gc || a.Geometry(f.leaf(t, c)) != ga {
		t.Error("geometries were not exchanged")
	}
	for _, w := range []shell.WindowID{f.a.ID(), c.ID()} {
		if f.count(sim.EventPreRelocate, w) != 1 || f.count(sim.EventPostRelocate, w) != 1 {
			t.Errorf("window %s: want one pre and one post relocation, events %v", w, f.sh.Events())
		}
	}
	if !f.second.Owns(f.a.ID()) || !f.main.Owns(c.ID()) {
		t.Error("windows not moved between stores")
	}
	if f.a.Output() != "second" || c.Output() != "main" {
		t.Errorf("outputs = %q, %q", f.a.Output(), c.Output())
	}
	if len(f.rec.Batches) != 1 {
		t.Errorf("swap committed %d batches, want 1", len(f.rec.Batches))
	}
}

func TestHandleDrop(t *testing.T) {
	t.Run("below", func(t *testing.T) {
		f := newFixture(t)
		a := f.group.Arena()
		if !f.engine.HandleDrop(f.a.ID(), "main", geom.Point{X: 1440, Y: 1050}) {
			t.Fatal("drop not handled")
		}
		f.validate(t)
		root := f.main.CurrentRoot()
		if a.Direction(root) != tree.Vertical {
			t.Errorf("root direction = %v, want vertical", a.Direction(root))
		}
		if got, want := a.Children(root), []tree.NodeID{f.leaf(t, f.b), f.leaf(t, f.a)}; !slices.Equal(got, want) {
			t.Errorf("children = %v, want %v", got, want)
		}
		if got := f.a.BoundingBox(); got != (geom.Rect{Y: 540, Width: 1920, Height: 540}) {
			t.Errorf("a geometry = %v", got)
		}
	})
	t.Run("swap", func(t *testing.T) {
		f := newFixture(t)
		if !f.engine.HandleDrop(f.a.ID(), "main", geom.Point{X: 1440, Y: 540}) {
			t.Fatal("drop not handled")
		}
		if f.a.BoundingBox().X != 960 {
			t.Errorf("a not swapped: %v", f.a.BoundingBox())
		}
	})
	t.Run("rejected", func(t *testing.T) {
		f := newFixture(t)
		tests := []struct {
			name   string
			w      shell.WindowID
			output shell.OutputID
			p      geom.Point
		}{
			{"onto itself", f.a.ID(), "main", geom.Point{X: 480, Y: 540}},
			{"empty output", f.a.ID(), "second", geom.Point{X: 2500, Y: 540}},
			{"unknown output", f.a.ID(), "nowhere", geom.Point{X: 480, Y: 540}},
			{"untiled window", "ghost", "main", geom.Point{X: 1440, Y: 540}},
		}
		for _, tt := range tests {
			if f.engine.HandleDrop(tt.w, tt.output, tt.p) {
				t.Errorf("%s: drop handled", tt.name)
			}
		}
		if len(f.rec.Batches) != 0 {
			t.Error("rejected drops committed geometry")
		}
	})
}

func newDrag(f *fixture) (*drag.Context, *retile.Manager) {
	ctx := drag.NewContext(drag.Env{Layout: f.sh.Layout, Focuser: f.sh, Renderer: f.sh})
	m := retile.NewManager(f.engine, ctx, drag.Placement{
		WM:       f.sh,
		Notifier: f.sh,
		Focuser:  f.sh,
		Grid: func(o shell.OutputID) (drag.Grid, bool) {
			return f.group.Store(o)
		},
	})
	return ctx, m
}

func TestManagerPreviewAndDrop(t *testing.T) {
	f := newFixture(t)
	ctx, m := newDrag(f)

	ctx.SetPending(geom.Point{X: 480, Y: 540})
	ctx.Start(f.a, f.a.BoundingBox(), drag.Options{EnableSnapOff: true})

	ctx.Motion(geom.Point{X: 1440, Y: 540})
	p, ok := m.Preview()
	if !ok || p.Insertion != retile.Swap || p.Target != f.b.ID() || p.Rect != f.b.BoundingBox() {
		t.Fatalf("preview = %+v, %v", p, ok)
	}
	if scale, alpha := ctx.Scale(); scale != 2 || alpha != 0.5 {
		t.Errorf("entering a tiling output should shrink the window, got %v %v", scale, alpha)
	}

	ctx.Motion(geom.Point{X: 1900, Y: 540})
	if p, _ := m.Preview(); p.Insertion != retile.Right {
		t.Errorf("preview insertion = %s, want right", p.Insertion)
	}

	ctx.Release()
	if _, ok := m.Preview(); ok {
		t.Error("preview still shown after drop")
	}
	f.validate(t)
	a := f.group.Arena()
	if got, want := a.Children(f.main.CurrentRoot()), []tree.NodeID{f.leaf(t, f.b), f.leaf(t, f.a)}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestManagerHidesPreviewOffTiles(t *testing.T) {
	f := newFixture(t)
	ctx, m := newDrag(f)

	ctx.SetPending(geom.Point{X: 480, Y: 540})
	ctx.Start(f.a, f.a.BoundingBox(), drag.Options{})
	ctx.Motion(geom.Point{X: 1440, Y: 540})
	if _, ok := m.Preview(); !ok {
		t.Fatal("no preview over b")
	}
	ctx.Motion(geom.Point{X: 480, Y: 540})
	if _, ok := m.Preview(); ok {
		t.Error("preview shown over the dragged window itself")
	}
}

func TestManagerFallsBackToPlacement(t *testing.T) {
	f := newFixture(t)
	ctx, _ := newDrag(f)

	ctx.SetPending(geom.Point{X: 480, Y: 540})
	ctx.Start(f.a, f.a.BoundingBox(), drag.Options{})
	ctx.Motion(geom.Point{X: 2500, Y: 540})
	ctx.Release()

	if f.count(sim.EventPreRelocate, f.a.ID()) != 1 || f.count(sim.EventMoveToWorkspace, f.a.ID()) != 1 {
		t.Errorf("drop on another output was not placed: %v", f.sh.Events())
	}
	if f.a.Output() != "second" {
		t.Errorf("window output = %q", f.a.Output())
	}
}
