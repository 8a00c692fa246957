// Package tree implements the tiling tree: a forest of split/leaf nodes kept
// in a slot arena. Parents are referenced by NodeID, never by pointer, so a
// removed node can not be reached through a dangling back-reference.
//
// Every structural operation assumes the tree invariants hold. A violation is
// a programming error and panics.
package tree

import (
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
)

// NodeID is a generation-checked reference into an Arena.
type NodeID struct {
	index uint32
	gen   uint32
}

// Nil is the zero NodeID; it never refers to a node.
var Nil NodeID

// IsNil reports whether id is Nil.
func (id NodeID) IsNil() bool {
	return id.index == 0
}

// Key packs id into a single integer, used for batch writes.
func (id NodeID) Key() uint64 {
	return uint64(id.gen)<<32 | uint64(id.index)
}

func (id NodeID) String() string {
	if id.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d.%d", id.index, id.gen)
}

// Kind tags the node variant.
type Kind uint8

const (
	KindSplit Kind = iota
	KindLeaf
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "split"
}

// Direction is the axis along which a split lays out its children.
type Direction uint8

const (
	// Horizontal splits place children left to right.
	Horizontal Direction = iota
	// Vertical splits stack children top to bottom.
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Gaps is the spacing of a node. Outer edges only apply to tree roots,
// Internal is inserted between adjacent children of a split.
type Gaps struct {
	Left, Right, Top, Bottom int
	Internal                 int
}

type node struct {
	gen  uint32
	live bool

	kind     Kind
	parent   NodeID
	children []NodeID
	geometry geom.Rect
	gaps     Gaps

	direction Direction      // split only
	window    shell.WindowID // leaf only
}

// Arena owns every node of a forest of tiling trees.
type Arena struct {
	slots   []node
	free    []uint32
	windows map[shell.WindowID]NodeID
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{
		// slot 0 is reserved so that the zero NodeID is Nil
		slots:   make([]node, 1),
		windows: make(map[shell.WindowID]NodeID),
	}
}

func (a *Arena) alloc(n node) NodeID {
	var idx uint32
	if l := len(a.free); l > 0 {
		idx = a.free[l-1]
		a.free = a.free[:l-1]
		n.gen = a.slots[idx].gen + 1
		a.slots[idx] = n
	} else {
		idx = uint32(len(a.slots))
		n.gen = 1
		a.slots = append(a.slots, n)
	}
	a.slots[idx].live = true
	return NodeID{index: idx, gen: a.slots[idx].gen}
}

// NewSplit allocates a detached split node.
func (a *Arena) NewSplit(dir Direction) NodeID {
	return a.alloc(node{kind: KindSplit, direction: dir})
}

// NewLeaf allocates a detached leaf for w. A window may be held by at most
// one leaf in the whole forest.
func (a *Arena) NewLeaf(w shell.WindowID) NodeID {
	if w == "" {
		panic("tree: leaf without window")
	}
	if existing, ok := a.windows[w]; ok {
		panic(fmt.Sprintf("tree: window %s already tiled in %v", w, existing))
	}
	id := a.alloc(node{kind: KindLeaf, window: w})
	a.windows[w] = id
	return id
}

// Valid reports whether id refers to a live node.
func (a *Arena) Valid(id NodeID) bool {
	if id.IsNil() || int(id.index) >= len(a.slots) {
		return false
	}
	n := &a.slots[id.index]
	return n.live && n.gen == id.gen
}

func (a *Arena) get(id NodeID) *node {
	if !a.Valid(id) {
		panic(fmt.Sprintf("tree: stale or nil node %v", id))
	}
	return &a.slots[id.index]
}

// Free releases id and its whole subtree. The node must be detached.
func (a *Arena) Free(id NodeID) {
	n := a.get(id)
	if !n.parent.IsNil() {
		panic(fmt.Sprintf("tree: freeing attached node %v", id))
	}
	a.freeRec(id)
}

func (a *Arena) freeRec(id NodeID) {
	n := a.get(id)
	for _, c := range n.children {
		a.freeRec(c)
	}
	if n.kind == KindLeaf {
		delete(a.windows, n.window)
	}
	gen := n.gen
	*n = node{gen: gen}
	a.free = append(a.free, id.index)
}

// Kind returns the variant of id.
func (a *Arena) Kind(id NodeID) Kind { return a.get(id).kind }

// IsLeaf reports whether id is a leaf.
func (a *Arena) IsLeaf(id NodeID) bool { return a.get(id).kind == KindLeaf }

// IsSplit reports whether id is a split.
func (a *Arena) IsSplit(id NodeID) bool { return a.get(id).kind == KindSplit }

// Geometry returns the last geometry assigned to id.
func (a *Arena) Geometry(id NodeID) geom.Rect { return a.get(id).geometry }

// Parent returns the parent of id, Nil for roots and detached nodes.
func (a *Arena) Parent(id NodeID) NodeID { return a.get(id).parent }

// Children returns a copy of the children of id.
func (a *Arena) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), a.get(id).children...)
}

// NumChildren returns the number of children of id.
func (a *Arena) NumChildren(id NodeID) int { return len(a.get(id).children) }

// Gaps returns the gaps of id.
func (a *Arena) Gaps(id NodeID) Gaps { return a.get(id).gaps }

// SetNodeGaps sets the gaps of id only. Use SetGaps to configure a tree.
func (a *Arena) SetNodeGaps(id NodeID, g Gaps) { a.get(id).gaps = g }

// Direction returns the split direction of id.
func (a *Arena) Direction(id NodeID) Direction {
	n := a.get(id)
	if n.kind != KindSplit {
		panic(fmt.Sprintf("tree: direction of leaf %v", id))
	}
	return n.direction
}

// SetDirection changes the split direction of id without relayout.
func (a *Arena) SetDirection(id NodeID, d Direction) {
	n := a.get(id)
	if n.kind != KindSplit {
		panic(fmt.Sprintf("tree: direction of leaf %v", id))
	}
	n.direction = d
}

// Window returns the window held by leaf id.
func (a *Arena) Window(id NodeID) shell.WindowID {
	n := a.get(id)
	if n.kind != KindLeaf {
		panic(fmt.Sprintf("tree: window of split %v", id))
	}
	return n.window
}

// LeafOf returns the leaf holding w.
func (a *Arena) LeafOf(w shell.WindowID) (NodeID, bool) {
	id, ok := a.windows[w]
	return id, ok
}

// Root walks up from id to the root of its tree.
func (a *Arena) Root(id NodeID) NodeID {
	for {
		p := a.get(id).parent
		if p.IsNil() {
			return id
		}
		id = p
	}
}

// Depth returns the number of edges between id and its root.
func (a *Arena) Depth(id NodeID) int {
	d := 0
	for p := a.get(id).parent; !p.IsNil(); p = a.get(p).parent {
		d++
	}
	return d
}

// IndexInParent returns the position of id among its parent's children.
func (a *Arena) IndexInParent(id NodeID) int {
	p := a.get(id).parent
	if p.IsNil() {
		panic(fmt.Sprintf("tree: %v has no parent", id))
	}
	for i, c := range a.get(p).children {
		if c == id {
			return i
		}
	}
	panic(fmt.Sprintf("tree: %v not found in its parent %v", id, p))
}

// Leaves returns every leaf below root in depth-first order.
func (a *Arena) Leaves(root NodeID) []NodeID {
	var out []NodeID
	a.walk(root, func(id NodeID, n *node) {
		if n.kind == KindLeaf {
			out = append(out, id)
		}
	})
	return out
}

// ForEachWindow visits the window of every leaf below root, depth first.
func (a *Arena) ForEachWindow(root NodeID, visit func(shell.WindowID)) {
	a.walk(root, func(_ NodeID, n *node) {
		if n.kind == KindLeaf {
			visit(n.window)
		}
	})
}

func (a *Arena) walk(id NodeID, fn func(NodeID, *node)) {
	n := a.get(id)
	fn(id, n)
	for _, c := range n.children {
		a.walk(c, fn)
	}
}

func along(r geom.Rect, d Direction) (start, length int) {
	if d == Horizontal {
		return r.X, r.Width
	}
	return r.Y, r.Height
}

func withAlong(r geom.Rect, d Direction, start, length int) geom.Rect {
	if d == Horizontal {
		r.X, r.Width = start, length
	} else {
		r.Y, r.Height = start, length
	}
	return r
}

// SetGeometry assigns r to id and lays out its subtree. Split children keep
// their previous relative sizes along the split axis. Every write lands in b.
func (a *Arena) SetGeometry(id NodeID, r geom.Rect, b *txn.Batch) {
	n := a.get(id)
	n.geometry = r
	if n.kind == KindLeaf {
		b.Add(id.Key(), n.window, r)
		return
	}
	b.Add(id.Key(), "", r)
	a.layoutChildren(id, b)
}

func (a *Arena) layoutChildren(id NodeID, b *txn.Batch) {
	n := a.get(id)
	count := len(n.children)
	if count == 0 {
		return
	}

	avail := n.geometry
	if n.parent.IsNil() {
		g := n.gaps
		avail.X += g.Left
		avail.Y += g.Top
		avail.Width = max(0, avail.Width-g.Left-g.Right)
		avail.Height = max(0, avail.Height-g.Top-g.Bottom)
	}

	internal := n.gaps.Internal
	start, extent := along(avail, n.direction)
	total := max(0, extent-internal*(count-1))

	var oldTotal int64
	sizes := make([]int64, count)
	for i, c := range n.children {
		_, l := along(a.get(c).geometry, n.direction)
		sizes[i] = int64(max(0, l))
		oldTotal += sizes[i]
	}

	var prefix int64
	for i, c := range n.children {
		var from, to int64
		if oldTotal == 0 {
			from = int64(total) * int64(i) / int64(count)
			to = int64(total) * int64(i+1) / int64(count)
		} else {
			from = int64(total) * prefix / oldTotal
			prefix += sizes[i]
			to = int64(total) * prefix / oldTotal
		}
		pos := start + int(from) + i*internal
		a.SetGeometry(c, withAlong(avail, n.direction, pos, int(to-from)), b)
	}
}

// Relayout re-applies the current geometry of id.
func (a *Arena) Relayout(id NodeID, b *txn.Batch) {
	a.SetGeometry(id, a.get(id).geometry, b)
}

// AddChild inserts child into split at index (negative means append) and
// lays out the split again. The new child starts with the average size of
// its siblings so that equally sized siblings stay equal.
func (a *Arena) AddChild(split, child NodeID, b *txn.Batch, index int) {
	s := a.get(split)
	if s.kind != KindSplit {
		panic(fmt.Sprintf("tree: adding child to leaf %v", split))
	}
	c := a.get(child)
	if !c.parent.IsNil() {
		panic(fmt.Sprintf("tree: %v already has parent %v", child, c.parent))
	}
	if child == split || a.Root(split) == child {
		panic(fmt.Sprintf("tree: %v would become its own ancestor", child))
	}

	size := s.geometry
	if len(s.children) > 0 {
		sum := 0
		for _, sib := range s.children {
			_, l := along(a.get(sib).geometry, s.direction)
			sum += l
		}
		start, _ := along(c.geometry, s.direction)
		size = withAlong(s.geometry, s.direction, start, sum/len(s.children))
	}
	c.geometry = size
	c.parent = split
	c.gaps.Internal = s.gaps.Internal

	if index < 0 || index > len(s.children) {
		index = len(s.children)
	}
	s.children = append(s.children, Nil)
	copy(s.children[index+1:], s.children[index:])
	s.children[index] = child

	a.SetGeometry(split, s.geometry, b)
}

// Detach removes id from its parent without flattening and lays the parent
// out again. The parent may be left with one or zero children; callers must
// Flatten before handing control back to the event loop.
func (a *Arena) Detach(id NodeID, b *txn.Batch) NodeID {
	p := a.get(id).parent
	if p.IsNil() {
		panic(fmt.Sprintf("tree: detaching root %v", id))
	}
	idx := a.IndexInParent(id)
	pn := a.get(p)
	pn.children = append(pn.children[:idx], pn.children[idx+1:]...)
	a.get(id).parent = Nil
	if len(pn.children) > 0 {
		a.SetGeometry(p, pn.geometry, b)
	}
	return id
}

// RemoveChild detaches id from its parent, relayouts the remaining siblings
// and collapses splits left with a single child, walking up the tree. The
// detached subtree is returned to the caller.
func (a *Arena) RemoveChild(id NodeID, b *txn.Batch) NodeID {
	p := a.get(id).parent
	a.Detach(id, b)
	a.collapseUp(p, b)
	return id
}

func (a *Arena) collapseUp(p NodeID, b *txn.Batch) {
	for !p.IsNil() {
		pn := a.get(p)
		gp := pn.parent
		if gp.IsNil() {
			a.collapseRoot(p, b)
			return
		}
		switch len(pn.children) {
		case 0:
			a.Detach(p, b)
			a.Free(p)
			p = gp
		case 1:
			only := pn.children[0]
			pn.children = nil
			a.get(only).parent = Nil
			a.ReplaceChild(gp, p, only)
			a.Free(p)
			a.SetGeometry(only, a.get(only).geometry, b)
			p = gp
		default:
			return
		}
	}
}

// collapseRoot keeps the root identity: a root whose single child is a split
// adopts that split's children and direction.
func (a *Arena) collapseRoot(root NodeID, b *txn.Batch) {
	rn := a.get(root)
	for len(rn.children) == 1 && a.get(rn.children[0]).kind == KindSplit {
		only := rn.children[0]
		on := a.get(only)
		rn.direction = on.direction
		rn.children = on.children
		for _, c := range rn.children {
			a.get(c).parent = root
		}
		on.children = nil
		on.parent = Nil
		a.Free(only)
	}
	a.SetGeometry(root, rn.geometry, b)
}

// ReplaceChild puts replacement into old's slot in parent. Replacement takes
// over old's geometry; old is left detached. No relayout happens.
func (a *Arena) ReplaceChild(parent, old, replacement NodeID) {
	rn := a.get(replacement)
	if !rn.parent.IsNil() {
		panic(fmt.Sprintf("tree: replacement %v already has parent %v", replacement, rn.parent))
	}
	on := a.get(old)
	if on.parent != parent {
		panic(fmt.Sprintf("tree: %v is not a child of %v", old, parent))
	}
	idx := a.IndexInParent(old)
	a.get(parent).children[idx] = replacement
	rn.parent = parent
	rn.geometry = on.geometry
	rn.gaps.Internal = on.gaps.Internal
	on.parent = Nil
}

// SwapLeaves exchanges the tree positions, geometries and gaps of two leaves.
// The leaves may live in different trees of the arena.
func (a *Arena) SwapLeaves(x, y NodeID, b *txn.Batch) {
	if x == y {
		panic(fmt.Sprintf("tree: swapping %v with itself", x))
	}
	xn, yn := a.get(x), a.get(y)
	if xn.kind != KindLeaf || yn.kind != KindLeaf {
		panic("tree: swapping non-leaf nodes")
	}
	px, py := xn.parent, yn.parent
	if px.IsNil() || py.IsNil() {
		panic("tree: swapping detached leaves")
	}
	ix, iy := a.IndexInParent(x), a.IndexInParent(y)
	a.get(px).children[ix] = y
	a.get(py).children[iy] = x
	xn.parent, yn.parent = py, px
	xn.gaps, yn.gaps = yn.gaps, xn.gaps

	gx, gy := xn.geometry, yn.geometry
	a.SetGeometry(x, gy, b)
	a.SetGeometry(y, gx, b)
}

// Flatten removes empty non-root splits and replaces single-child non-root
// splits by their child, throughout the tree, then lays the tree out again.
func (a *Arena) Flatten(root NodeID, b *txn.Batch) {
	if !a.get(root).parent.IsNil() {
		panic(fmt.Sprintf("tree: flattening non-root %v", root))
	}
	a.flattenRec(root)
	a.collapseRoot(root, b)
}

func (a *Arena) flattenRec(id NodeID) {
	n := a.get(id)
	if n.kind == KindLeaf {
		return
	}
	kept := n.children[:0]
	for _, c := range append([]NodeID(nil), n.children...) {
		a.flattenRec(c)
		cn := a.get(c)
		if cn.kind == KindSplit && len(cn.children) == 0 {
			cn.parent = Nil
			a.Free(c)
			continue
		}
		if cn.kind == KindSplit && len(cn.children) == 1 {
			only := cn.children[0]
			on := a.get(only)
			on.parent = id
			on.geometry = cn.geometry
			cn.children = nil
			cn.parent = Nil
			a.Free(c)
			c = only
		}
		kept = append(kept, c)
	}
	n.children = kept
}

// SetGaps configures a whole tree: outer gaps on the root, the internal gap
// on every node.
func (a *Arena) SetGaps(root NodeID, g Gaps) {
	a.get(root).gaps = g
	for _, c := range a.get(root).children {
		a.walk(c, func(_ NodeID, n *node) {
			n.gaps = Gaps{Internal: g.Internal}
		})
	}
}

// FindNodeAt returns the leaf below root whose geometry contains p.
func (a *Arena) FindNodeAt(root NodeID, p geom.Point) (NodeID, bool) {
	n := a.get(root)
	if !n.geometry.Contains(p) && !n.parent.IsNil() {
		return Nil, false
	}
	if n.kind == KindLeaf {
		if n.geometry.Contains(p) {
			return root, true
		}
		return Nil, false
	}
	for _, c := range n.children {
		if a.get(c).geometry.Contains(p) {
			return a.FindNodeAt(c, p)
		}
	}
	return Nil, false
}

// Side names one edge of a node.
type Side uint8

const (
	SideLeft Side = iota
	SideAbove
	SideRight
	SideBelow
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideAbove:
		return "above"
	case SideRight:
		return "right"
	case SideBelow:
		return "below"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// FindFirstInDirection returns the leaf directly across the given edge of
// from. The probe point is placed just past the internal gap; if it lands in
// a gap of a perpendicular split it is retried one gap towards the origin,
// then one gap away from it.
func (a *Arena) FindFirstInDirection(from NodeID, side Side) (NodeID, bool) {
	r := a.get(from).geometry
	root := a.Root(from)
	step := a.get(root).gaps.Internal + 1

	var p, shift geom.Point
	switch side {
	case SideAbove:
		p = geom.Point{X: r.X + r.Width/2, Y: r.Y - step}
		shift = geom.Point{X: step}
	case SideBelow:
		p = geom.Point{X: r.X + r.Width/2, Y: r.Y + r.Height - 1 + step}
		shift = geom.Point{X: step}
	case SideLeft:
		p = geom.Point{X: r.X - step, Y: r.Y + r.Height/2}
		shift = geom.Point{Y: step}
	case SideRight:
		p = geom.Point{X: r.X + r.Width - 1 + step, Y: r.Y + r.Height/2}
		shift = geom.Point{Y: step}
	default:
		panic(fmt.Sprintf("tree: invalid side %d", side))
	}

	for _, probe := range []geom.Point{p, p.Sub(shift), p.Add(shift)} {
		if id, ok := a.FindNodeAt(root, probe); ok && id != from {
			return id, true
		}
	}
	return Nil, false
}
