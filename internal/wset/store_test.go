package wset_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/sim"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

type fixture struct {
	sh    *sim.Shell
	rec   *txn.Recorder
	group *wset.Group
	out   *sim.Output
	store *wset.Store
}

func newFixture(t *testing.T, grid geom.Dimensions) *fixture {
	t.Helper()
	out := sim.NewOutput("main", geom.Rect{Width: 1920, Height: 1080})
	sh := sim.NewShell(out)
	rec := &txn.Recorder{Lookup: sh.Lookup}
	g := wset.NewGroup(wset.Collaborators{
		Committer: rec,
		Scene:     sh.Scene,
		WM:        sh,
		Notifier:  sh,
		Lookup:    sh.Lookup,
	})
	return &fixture{sh: sh, rec: rec, group: g, out: out, store: g.NewStore(out, grid)}
}

func (f *fixture) window(id string) *sim.Window {
	w := sim.NewWindowWithID(shell.WindowID(id), id, geom.Rect{Width: 100, Height: 100}, f.out.ID())
	f.sh.AddWindow(w)
	return w
}

func (f *fixture) validate(t *testing.T, c geom.Point) {
	t.Helper()
	a := f.group.Arena()
	if err := a.Validate(f.store.Root(c)); err != nil {
		t.Fatalf("tree invalid: %v\n%s", err, a.Dump(f.store.Root(c)))
	}
}

func TestNewStoreSizesRoots(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 2, Height: 2})
	a := f.group.Arena()

	tests := []struct {
		cell geom.Point
		want geom.Rect
	}{
		{geom.Point{}, geom.Rect{Width: 1920, Height: 1080}},
		{geom.Point{X: 1}, geom.Rect{X: 1920, Width: 1920, Height: 1080}},
		{geom.Point{Y: 1}, geom.Rect{Y: 1080, Width: 1920, Height: 1080}},
		{geom.Point{X: 1, Y: 1}, geom.Rect{X: 1920, Y: 1080, Width: 1920, Height: 1080}},
	}
	for _, tt := range tests {
		if got := a.Geometry(f.store.Root(tt.cell)); got != tt.want {
			t.Errorf("root %v geometry = %v, want %v", tt.cell, got, tt.want)
		}
		if a.Direction(f.store.Root(tt.cell)) != wset.DefaultDirection {
			t.Errorf("root %v has the wrong direction", tt.cell)
		}
	}
	if n := len(f.sh.Scene.Sublayers()); n != 4 {
		t.Errorf("scene has %d sublayers, want 4", n)
	}
}

func TestNilOutputUsesDefaultResolution(t *testing.T) {
	g := wset.NewGroup(wset.Collaborators{})
	s := g.NewStore(nil, geom.Dimensions{Width: 2, Height: 1})
	if got := g.Arena().Geometry(s.Root(geom.Point{X: 1})); got != wset.DefaultResolution.Translate(geom.Point{X: 1920}) {
		t.Errorf("root geometry = %v, want default resolution shifted by one output", got)
	}
}

func TestAttachWindowCommitsOncePerCall(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a, b := f.window("a"), f.window("b")

	before := len(f.rec.Batches)
	f.store.AttachWindow(a)
	f.store.AttachWindow(b)
	if got := len(f.rec.Batches) - before; got != 2 {
		t.Errorf("attaching two windows produced %d commits, want 2", got)
	}

	if got := a.BoundingBox(); got != (geom.Rect{Width: 960, Height: 1080}) {
		t.Errorf("a geometry = %v", got)
	}
	if got := b.BoundingBox(); got != (geom.Rect{X: 960, Width: 960, Height: 1080}) {
		t.Errorf("b geometry = %v", got)
	}
	if got := f.store.Sublayer(geom.Point{}).Windows(); !slices.Equal(got, []shell.WindowID{"a", "b"}) {
		t.Errorf("sublayer = %v, want [a b]", got)
	}
	if len(f.sh.Scene.Floating()) != 0 {
		t.Errorf("tiled windows still on the floating layer: %v", f.sh.Scene.Floating())
	}
	f.validate(t, geom.Point{})
}

func TestDetachWindowsReinserts(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a, b := f.window("a"), f.window("b")
	f.store.AttachWindow(a)
	f.store.AttachWindow(b)

	f.store.DetachWindows([]shell.WindowID{"a"}, true)

	if f.store.Owns("a") {
		t.Error("a still owned by the store")
	}
	if !slices.Contains(f.sh.Scene.Floating(), shell.WindowID("a")) {
		t.Error("a was not handed back to the floating layer")
	}
	if got := b.BoundingBox(); got != (geom.Rect{Width: 1920, Height: 1080}) {
		t.Errorf("b geometry = %v, want the whole work area", got)
	}
	f.validate(t, geom.Point{})
}

func TestDetachWithoutReinsert(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a := f.window("a")
	f.store.AttachWindow(a)
	f.sh.Scene.Forget("a")

	f.store.DetachWindows([]shell.WindowID{"a"}, false)
	if slices.Contains(f.sh.Scene.Floating(), shell.WindowID("a")) {
		t.Error("a should not be reinserted")
	}
}

func TestDetachingUntiledWindowPanics(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	f.store.DetachWindows([]shell.WindowID{"ghost"}, true)
}

func TestFullscreenTakesWholeOutput(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 2, Height: 1})
	f.store.SetCurrentCell(geom.Point{X: 1})
	f.out.SetWorkarea(geom.Rect{Y: 30, Width: 1920, Height: 1050})
	f.store.UpdateRootSizes()

	a, b := f.window("a"), f.window("b")
	f.store.AttachWindow(a)
	f.store.AttachWindow(b)

	f.store.SetWindowFullscreen(a, true)
	if got := a.BoundingBox(); got != (geom.Rect{X: 1920, Width: 1920, Height: 1080}) {
		t.Errorf("fullscreen geometry = %v, want the whole output of cell (1,0)", got)
	}
	if got := b.BoundingBox(); got != (geom.Rect{X: 2880, Y: 30, Width: 960, Height: 1050}) {
		t.Errorf("b geometry = %v", got)
	}
	if !f.store.HasFullscreen() {
		t.Error("HasFullscreen() = false")
	}

	// attaching a non-fullscreen window lowers the fullscreen one
	c := f.window("c")
	f.store.AttachWindow(c)
	if a.PendingFullscreen() {
		t.Error("a is still fullscreen after c was attached")
	}
	if got := a.BoundingBox(); got != (geom.Rect{X: 1920, Y: 30, Width: 640, Height: 1050}) {
		t.Errorf("a geometry = %v, want its tile back", got)
	}
}

func TestDetachingFullscreenWindowRequestsExit(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a := f.window("a")
	f.store.AttachWindow(a)
	f.store.SetWindowFullscreen(a, true)
	f.sh.ResetEvents()

	f.store.DetachWindows([]shell.WindowID{"a"}, true)

	events := f.sh.EventsOf(sim.EventFullscreen)
	if len(events) != 1 || events[0].State {
		t.Fatalf("fullscreen events = %v, want one exit request", events)
	}
	if a.PendingFullscreen() {
		t.Error("a is still fullscreen")
	}
}

func TestResizeGridDropsCells(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 2, Height: 1})
	x := f.window("x")
	f.store.AttachWindowAt(x, geom.Point{X: 1})
	f.store.SetCurrentCell(geom.Point{X: 1})

	f.store.ResizeGrid(geom.Dimensions{Width: 1, Height: 1})

	if f.store.Owns("x") {
		t.Error("x still tiled after its cell was removed")
	}
	if !slices.Contains(f.sh.Scene.Floating(), shell.WindowID("x")) {
		t.Error("x was dropped instead of reinserted")
	}
	if n := len(f.sh.Scene.Sublayers()); n != 1 {
		t.Errorf("scene has %d sublayers, want 1", n)
	}
	if c := f.store.CurrentCell(); c != (geom.Point{}) {
		t.Errorf("current cell = %v, want it clamped to (0,0)", c)
	}

	f.store.ResizeGrid(geom.Dimensions{Width: 3, Height: 2})
	if got := f.group.Arena().Geometry(f.store.Root(geom.Point{X: 2, Y: 1})); got != (geom.Rect{X: 3840, Y: 1080, Width: 1920, Height: 1080}) {
		t.Errorf("new cell root geometry = %v", got)
	}
}

func TestSetGapsRelayouts(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a, b := f.window("a"), f.window("b")
	f.store.AttachWindow(a)
	f.store.AttachWindow(b)

	before := len(f.rec.Batches)
	f.store.SetGaps(wset.GapsFromSizes(10, 20, 5))
	if got := len(f.rec.Batches) - before; got != 1 {
		t.Errorf("SetGaps produced %d commits, want 1", got)
	}

	if got := a.BoundingBox(); got != (geom.Rect{X: 20, Y: 5, Width: 935, Height: 1070}) {
		t.Errorf("a geometry = %v", got)
	}
	if got := b.BoundingBox(); got != (geom.Rect{X: 965, Y: 5, Width: 935, Height: 1070}) {
		t.Errorf("b geometry = %v", got)
	}
	f.validate(t, geom.Point{})
}

func TestWorkareaChange(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a := f.window("a")
	f.store.AttachWindow(a)

	f.out.SetWorkarea(geom.Rect{Y: 32, Width: 1920, Height: 1048})
	f.store.UpdateRootSizes()

	if got := a.BoundingBox(); got != (geom.Rect{Y: 32, Width: 1920, Height: 1048}) {
		t.Errorf("a geometry = %v", got)
	}
}

func TestToGrid(t *testing.T) {
	left := sim.NewOutput("left", geom.Rect{Width: 1920, Height: 1080})
	right := sim.NewOutput("right", geom.Rect{X: 1920, Width: 1280, Height: 1024})
	g := wset.NewGroup(wset.Collaborators{})
	g.NewStore(left, geom.Dimensions{Width: 1, Height: 1})
	s := g.NewStore(right, geom.Dimensions{Width: 2, Height: 2})
	s.SetCurrentCell(geom.Point{X: 1, Y: 1})

	got := s.ToGrid(geom.Point{X: 2000, Y: 10})
	if want := (geom.Point{X: 80 + 1280, Y: 10 + 1024}); got != want {
		t.Errorf("ToGrid = %v, want %v", got, want)
	}
	if st, ok := g.Store("right"); !ok || st != s {
		t.Error("Store(right) did not return the right store")
	}
}

func TestRemoveStoreReinsertsWindows(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 2, Height: 1})
	a := f.window("a")
	f.store.AttachWindow(a)

	f.group.RemoveStore(f.store)

	if _, ok := f.group.StoreOf("a"); ok {
		t.Error("a still tiled")
	}
	if len(f.group.Stores()) != 0 {
		t.Error("store still registered")
	}
	if !slices.Contains(f.sh.Scene.Floating(), shell.WindowID("a")) {
		t.Error("a was not reinserted")
	}
}

func TestSetLayout(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a, b, c, d := f.window("a"), f.window("b"), f.window("c"), f.window("d")
	for _, w := range []*sim.Window{a, b, c, d} {
		f.store.AttachWindow(w)
	}

	ln := tree.LayoutNode{HorizontalSplit: []tree.LayoutNode{
		{Window: "a", Weight: 1},
		{Weight: 1, VerticalSplit: []tree.LayoutNode{
			{Window: "b", Weight: 1},
			{Window: "c", Weight: 3},
		}},
	}}
	if err := f.store.SetLayout(geom.Point{}, ln); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	f.validate(t, geom.Point{})

	tests := []struct {
		w    *sim.Window
		want geom.Rect
	}{
		{a, geom.Rect{Width: 1920, Height: 540}},
		{b, geom.Rect{Y: 540, Width: 480, Height: 540}},
		{c, geom.Rect{X: 480, Y: 540, Width: 1440, Height: 540}},
	}
	for _, tt := range tests {
		if got := tt.w.BoundingBox(); got != tt.want {
			t.Errorf("%s geometry = %v, want %v", tt.w.ID(), got, tt.want)
		}
	}
	if f.store.Owns("d") {
		t.Error("d is not in the layout and should have been untiled")
	}
	if !slices.Contains(f.sh.Scene.Floating(), shell.WindowID("d")) {
		t.Error("d was not reinserted")
	}

	got, err := f.store.GetLayout(geom.Point{})
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if len(got.HorizontalSplit) != 2 || got.HorizontalSplit[0].Window != "a" || got.HorizontalSplit[0].Percent != 0.5 {
		t.Errorf("GetLayout = %+v", got)
	}
}

func TestSetLayoutRejectsBadInput(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	a, b := f.window("a"), f.window("b")
	f.store.AttachWindow(a)
	f.store.AttachWindow(b)
	hidden := f.window("hidden")
	hidden.SetMapped(false)

	tests := []struct {
		name string
		ln   tree.LayoutNode
		want error
	}{
		{"unknown window", tree.LayoutNode{HorizontalSplit: []tree.LayoutNode{{Window: "zzz", Weight: 1}}}, tree.ErrUnknownWindow},
		{"unmapped window", tree.LayoutNode{HorizontalSplit: []tree.LayoutNode{{Window: "hidden", Weight: 1}}}, tree.ErrBadLayout},
		{"tiled twice", tree.LayoutNode{HorizontalSplit: []tree.LayoutNode{{Window: "a", Weight: 1}, {Window: "a", Weight: 1}}}, tree.ErrTiledTwice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.store.SetLayout(geom.Point{}, tt.ln)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SetLayout error = %v, want %v", err, tt.want)
			}
			if !f.store.Owns("a") || !f.store.Owns("b") {
				t.Error("a failed SetLayout must not untile anything")
			}
		})
	}

	if err := f.store.SetLayout(geom.Point{X: 3}, tree.LayoutNode{}); err == nil {
		t.Error("expected an error for a cell outside the grid")
	}
}

func TestSetLayoutMovesWindowsBetweenOutputs(t *testing.T) {
	f := newFixture(t, geom.Dimensions{Width: 1, Height: 1})
	other := sim.NewOutput("other", geom.Rect{X: 1920, Width: 1280, Height: 1024})
	f.sh.Layout.Add(other)
	second := f.group.NewStore(other, geom.Dimensions{Width: 1, Height: 1})

	a := f.window("a")
	f.store.AttachWindow(a)
	w := sim.NewWindowWithID("w", "w", geom.Rect{Width: 10, Height: 10}, "other")
	f.sh.AddWindow(w)
	second.AttachWindow(w)
	f.sh.ResetEvents()

	ln := tree.LayoutNode{HorizontalSplit: []tree.LayoutNode{{Window: "a", Weight: 1}, {Window: "w", Weight: 1}}}
	if err := f.store.SetLayout(geom.Point{}, ln); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}

	if !f.store.Owns("w") || second.Owns("w") {
		t.Fatal("w should now be tiled on main")
	}
	if w.Output() != "main" {
		t.Errorf("w output = %s, want main", w.Output())
	}
	pre, post := f.sh.EventsOf(sim.EventPreRelocate), f.sh.EventsOf(sim.EventPostRelocate)
	if len(pre) != 1 || len(post) != 1 || pre[0].From != "other" || post[0].To != "main" {
		t.Errorf("relocation events pre=%v post=%v", pre, post)
	}
	if got := w.BoundingBox(); got != (geom.Rect{X: 960, Width: 960, Height: 1080}) {
		t.Errorf("w geometry = %v", got)
	}
	if err := f.group.Arena().Validate(second.CurrentRoot()); err != nil {
		t.Errorf("other tree invalid: %v", err)
	}
}
