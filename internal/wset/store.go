package wset

import (
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
)

type tiledWindow struct {
	w    shell.Window
	cell geom.Point
}

// Store is the workspace grid of one output.
type Store struct {
	group  *Group
	output shell.Output

	grid    geom.Dimensions
	current geom.Point

	// indexed [x][y]
	roots     [][]tree.NodeID
	sublayers [][]shell.Sublayer

	gaps    tree.Gaps
	windows map[shell.WindowID]tiledWindow
}

// NewStore creates the store of output o with a grid of the given size. The
// output may be nil, in which case DefaultResolution is used.
func (g *Group) NewStore(o shell.Output, grid geom.Dimensions) *Store {
	s := &Store{
		group:   g,
		output:  o,
		windows: make(map[shell.WindowID]tiledWindow),
	}
	g.stores = append(g.stores, s)
	s.ResizeGrid(grid)
	return s
}

// Output returns the attached output, nil if detached.
func (s *Store) Output() shell.Output { return s.output }

// OutputID returns the id of the attached output, "" if detached.
func (s *Store) OutputID() shell.OutputID {
	if s.output == nil {
		return ""
	}
	return s.output.ID()
}

// AttachOutput moves the store to another output and resizes every root.
func (s *Store) AttachOutput(o shell.Output) {
	s.output = o
	for id, tw := range s.windows {
		if o != nil {
			tw.w.SetOutput(o.ID())
		}
		s.windows[id] = tw
	}
	s.UpdateRootSizes()
}

// GridSize returns the workspace grid dimensions.
func (s *Store) GridSize() geom.Dimensions { return s.grid }

// CurrentCell returns the visible workspace cell.
func (s *Store) CurrentCell() geom.Point { return s.current }

// SetCurrentCell switches the visible workspace cell.
func (s *Store) SetCurrentCell(c geom.Point) {
	s.checkCell(c)
	s.current = c
}

// ValidCell reports whether c lies inside the grid.
func (s *Store) ValidCell(c geom.Point) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.grid.Width && c.Y < s.grid.Height
}

func (s *Store) checkCell(c geom.Point) {
	if !s.ValidCell(c) {
		panic(fmt.Sprintf("wset: cell %v outside grid %dx%d", c, s.grid.Width, s.grid.Height))
	}
}

// Root returns the tree root of cell c.
func (s *Store) Root(c geom.Point) tree.NodeID {
	s.checkCell(c)
	return s.roots[c.X][c.Y]
}

// CurrentRoot returns the tree root of the visible cell.
func (s *Store) CurrentRoot() tree.NodeID { return s.Root(s.current) }

// Sublayer returns the tiled sublayer of cell c.
func (s *Store) Sublayer(c geom.Point) shell.Sublayer {
	s.checkCell(c)
	return s.sublayers[c.X][c.Y]
}

// Gaps returns the configured gaps.
func (s *Store) Gaps() tree.Gaps { return s.gaps }

// Owns reports whether w is tiled in this store.
func (s *Store) Owns(w shell.WindowID) bool {
	_, ok := s.windows[w]
	return ok
}

// Window returns a tiled window of this store.
func (s *Store) Window(id shell.WindowID) (shell.Window, bool) {
	tw, ok := s.windows[id]
	if !ok {
		return nil, false
	}
	return tw.w, true
}

// CellOf returns the cell whose tree holds w.
func (s *Store) CellOf(w shell.WindowID) (geom.Point, bool) {
	tw, ok := s.windows[w]
	return tw.cell, ok
}

// CurrentWindows returns the tiled windows of the visible cell, depth first.
func (s *Store) CurrentWindows() []shell.Window {
	var out []shell.Window
	s.group.arena.ForEachWindow(s.CurrentRoot(), func(id shell.WindowID) {
		if tw, ok := s.windows[id]; ok {
			out = append(out, tw.w)
		}
	})
	return out
}

func (s *Store) outputSize() geom.Dimensions {
	if s.output != nil {
		if d := s.output.LayoutRect().Dimensions(); d.Width > 0 && d.Height > 0 {
			return d
		}
	}
	return DefaultResolution.Dimensions()
}

func (s *Store) workarea() geom.Rect {
	if s.output != nil {
		return s.output.Workarea()
	}
	return DefaultResolution
}

// CellOffset returns the origin of cell c in grid coordinates.
func (s *Store) CellOffset(c geom.Point) geom.Point {
	size := s.outputSize()
	return geom.Point{X: c.X * size.Width, Y: c.Y * size.Height}
}

// CellRect returns the work area of cell c in grid coordinates.
func (s *Store) CellRect(c geom.Point) geom.Rect {
	return s.workarea().Translate(s.CellOffset(c))
}

// FullscreenRect returns the whole output area of cell c.
func (s *Store) FullscreenRect(c geom.Point) geom.Rect {
	size := s.outputSize()
	return geom.Rect{Width: size.Width, Height: size.Height}.Translate(s.CellOffset(c))
}

// ToGrid converts a point in output-layout coordinates into the grid
// coordinates of the visible cell.
func (s *Store) ToGrid(p geom.Point) geom.Point {
	if s.output != nil {
		p = p.Sub(s.output.LayoutRect().Origin())
	}
	return p.Add(s.CellOffset(s.current))
}

// ToLayout is the inverse of ToGrid for rectangles on the visible cell.
func (s *Store) ToLayout(r geom.Rect) geom.Rect {
	off := s.CellOffset(s.current)
	r = r.Translate(geom.Point{X: -off.X, Y: -off.Y})
	if s.output != nil {
		r = r.Translate(s.output.LayoutRect().Origin())
	}
	return r
}

func (s *Store) targetGeometry(w shell.WindowID, r geom.Rect) geom.Rect {
	tw, ok := s.windows[w]
	if !ok || !tw.w.PendingFullscreen() {
		return r
	}
	return s.FullscreenRect(tw.cell)
}

// ResizeGrid grows or shrinks the workspace grid. Cells that disappear hand
// their windows back to the non-tiled layer; new cells get an empty root.
func (s *Store) ResizeGrid(dims geom.Dimensions) {
	if dims.Width < 1 || dims.Height < 1 {
		panic(fmt.Sprintf("wset: invalid grid size %dx%d", dims.Width, dims.Height))
	}
	a := s.group.arena

	for x := range s.roots {
		for y := range s.roots[x] {
			if x < dims.Width && y < dims.Height {
				continue
			}
			s.dropCell(geom.Point{X: x, Y: y})
		}
	}

	roots := make([][]tree.NodeID, dims.Width)
	sublayers := make([][]shell.Sublayer, dims.Width)
	for x := range dims.Width {
		roots[x] = make([]tree.NodeID, dims.Height)
		sublayers[x] = make([]shell.Sublayer, dims.Height)
		for y := range dims.Height {
			if x < len(s.roots) && y < len(s.roots[x]) {
				roots[x][y] = s.roots[x][y]
				sublayers[x][y] = s.sublayers[x][y]
				continue
			}
			roots[x][y] = a.NewSplit(DefaultDirection)
			a.SetGaps(roots[x][y], s.gaps)
			if sc := s.group.c.Scene; sc != nil {
				sublayers[x][y] = sc.NewSublayer(s.OutputID(), geom.Point{X: x, Y: y})
			}
		}
	}

	s.roots, s.sublayers, s.grid = roots, sublayers, dims
	s.current = geom.Point{
		X: geom.Clamp(s.current.X, 0, dims.Width-1),
		Y: geom.Clamp(s.current.Y, 0, dims.Height-1),
	}
	logger.Debug("grid resized", "output", s.OutputID(), "width", dims.Width, "height", dims.Height)

	s.UpdateRootSizes()
	s.group.autocommit(s.updateGaps)
}

func (s *Store) dropCell(c geom.Point) {
	a := s.group.arena
	root := s.roots[c.X][c.Y]

	var ids []shell.WindowID
	a.ForEachWindow(root, func(id shell.WindowID) { ids = append(ids, id) })
	s.group.autocommit(func(b *txn.Batch) {
		for _, id := range ids {
			s.detach(b, id, true)
		}
	})

	if sl := s.sublayers[c.X][c.Y]; sl != nil && s.group.c.Scene != nil {
		s.group.c.Scene.DestroySublayer(sl)
	}
	a.Free(root)
}

func (s *Store) teardown() {
	for x := range s.roots {
		for y := range s.roots[x] {
			s.dropCell(geom.Point{X: x, Y: y})
		}
	}
	s.roots, s.sublayers = nil, nil
	s.grid = geom.Dimensions{}
}

// UpdateRootSizes lays out every root over its cell rectangle in a single
// batch.
func (s *Store) UpdateRootSizes() {
	a := s.group.arena
	s.group.autocommit(func(b *txn.Batch) {
		for x := range s.roots {
			for y := range s.roots[x] {
				c := geom.Point{X: x, Y: y}
				a.SetGeometry(s.roots[x][y], s.CellRect(c), b)
			}
		}
	})
}

// SetGaps applies new gaps to every root and relays them out.
func (s *Store) SetGaps(g tree.Gaps) {
	s.gaps = g
	s.group.autocommit(s.updateGaps)
}

func (s *Store) updateGaps(b *txn.Batch) {
	a := s.group.arena
	for x := range s.roots {
		for y := range s.roots[x] {
			root := s.roots[x][y]
			a.SetGaps(root, s.gaps)
			a.Relayout(root, b)
		}
	}
}

func (s *Store) flattenRoots(b *txn.Batch) {
	for x := range s.roots {
		for y := range s.roots[x] {
			s.group.arena.Flatten(s.roots[x][y], b)
		}
	}
}

// Refresh flattens every root and re-applies gaps, writing into b.
func (s *Store) Refresh(b *txn.Batch) {
	s.flattenRoots(b)
	s.updateGaps(b)
}

// AttachWindow tiles w in the visible cell.
func (s *Store) AttachWindow(w shell.Window) {
	s.AttachWindowAt(w, s.current)
}

// AttachWindowAt tiles w at the end of the root of cell c.
func (s *Store) AttachWindowAt(w shell.Window, c geom.Point) {
	s.checkCell(c)
	a := s.group.arena
	s.AdoptWindow(w, c)
	leaf := a.NewLeaf(w.ID())
	s.group.autocommit(func(b *txn.Batch) {
		a.AddChild(s.roots[c.X][c.Y], leaf, b, -1)
	})
	logger.Debug("window attached", "window", w.ID(), "output", s.OutputID(), "cell", c)

	s.ConsiderExitFullscreen(w)
}

// AdoptWindow registers w as tiled in cell c without touching any tree. It is
// used when tree surgery moves a leaf in from another store.
func (s *Store) AdoptWindow(w shell.Window, c geom.Point) {
	s.checkCell(c)
	s.windows[w.ID()] = tiledWindow{w: w, cell: c}
	if sl := s.sublayers[c.X][c.Y]; sl != nil {
		sl.Add(w.ID())
	}
	if s.output != nil {
		w.SetOutput(s.output.ID())
	}
	w.SetTiledEdges(geom.EdgesAll)
}

// ReleaseWindow forgets w without touching any tree and returns it.
func (s *Store) ReleaseWindow(id shell.WindowID) shell.Window {
	tw, ok := s.windows[id]
	if !ok {
		panic(fmt.Sprintf("wset: window %s is not tiled on %q", id, s.OutputID()))
	}
	if sl := s.sublayers[tw.cell.X][tw.cell.Y]; sl != nil {
		sl.Remove(id)
	}
	delete(s.windows, id)
	return tw.w
}

// DetachWindows removes the given windows from tiling. With reinsert set
// they are handed back to the non-tiled layer. Roots are flattened and
// resized afterwards.
func (s *Store) DetachWindows(ids []shell.WindowID, reinsert bool) {
	s.group.autocommit(func(b *txn.Batch) {
		for _, id := range ids {
			s.detach(b, id, reinsert)
		}
	})
	s.group.autocommit(s.flattenRoots)
	s.UpdateRootSizes()
}

func (s *Store) detach(b *txn.Batch, id shell.WindowID, reinsert bool) {
	a := s.group.arena
	leaf, ok := a.LeafOf(id)
	if !ok || !s.Owns(id) {
		panic(fmt.Sprintf("wset: detaching untiled window %s", id))
	}
	cell := s.windows[id].cell
	a.Free(a.RemoveChild(leaf, b))
	w := s.ReleaseWindow(id)
	w.SetTiledEdges(geom.EdgesNone)

	if w.PendingFullscreen() && w.IsMapped() && s.group.c.WM != nil {
		s.group.c.WM.FullscreenRequest(w, w.Output(), false, cell)
	}
	if reinsert && w.Output() != "" && s.group.c.Scene != nil {
		s.group.c.Scene.Reinsert(id)
	}
	logger.Debug("window detached", "window", id, "output", s.OutputID(), "reinsert", reinsert)
}

// ConsiderExitFullscreen drops fullscreen from the tiled windows of the
// visible cell when a non-fullscreen tiled window w gains focus or is
// attached.
func (s *Store) ConsiderExitFullscreen(w shell.Window) {
	if !s.Owns(w.ID()) || w.PendingFullscreen() {
		return
	}
	for _, v := range s.CurrentWindows() {
		if v.PendingFullscreen() {
			s.SetWindowFullscreen(v, false)
		}
	}
}

// SetWindowFullscreen changes the fullscreen state of a tiled window and
// resizes every root so the change is committed.
func (s *Store) SetWindowFullscreen(w shell.Window, fullscreen bool) {
	w.SetFullscreen(fullscreen)
	s.UpdateRootSizes()
}

// HasFullscreen reports whether a tiled window of the visible cell is
// fullscreen.
func (s *Store) HasFullscreen() bool {
	for _, w := range s.CurrentWindows() {
		if w.PendingFullscreen() {
			return true
		}
	}
	return false
}

// Resync recomputes the cell of every tiled window after tree surgery that
// may have moved leaves between cells.
func (s *Store) Resync() {
	a := s.group.arena
	for x := range s.roots {
		for y := range s.roots[x] {
			c := geom.Point{X: x, Y: y}
			a.ForEachWindow(s.roots[x][y], func(id shell.WindowID) {
				tw, ok := s.windows[id]
				if !ok || tw.cell == c {
					return
				}
				if sl := s.sublayers[tw.cell.X][tw.cell.Y]; sl != nil {
					sl.Remove(id)
				}
				if sl := s.sublayers[x][y]; sl != nil {
					sl.Add(id)
				}
				tw.cell = c
				s.windows[id] = tw
			})
		}
	}
}
