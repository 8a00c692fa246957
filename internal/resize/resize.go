// Package resize implements interactive resizing of tiled windows. A grab
// inside a leaf selects the closest edge on each axis; the pair of sibling
// subtrees meeting at that edge is found through their lowest common
// ancestor and resized together on every motion event.
package resize

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "resize",
	})
}

// SetLogLevel sets the logging level for the resize package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// DefaultMinSize is the smallest extent a resized node may shrink to.
const DefaultMinSize = 50

// Options tunes a resize session.
type Options struct {
	MinSize int
}

// Pair is two nodes sharing a boundary. First is always left of or above
// Second.
type Pair struct {
	First, Second tree.NodeID
}

// Active reports whether the pair has both members.
func (p Pair) Active() bool {
	return !p.First.IsNil() && !p.Second.IsNil()
}

// Controller is one resize session.
type Controller struct {
	arena   *tree.Arena
	commit  txn.Committer
	minSize int

	grabbed tree.NodeID
	last    geom.Point
	edges   geom.Edges

	// horizontal resizes widths, vertical resizes heights
	horizontal Pair
	vertical   Pair
}

// Begin starts a session for a grab at p inside the tree rooted at root. The
// session is inert when p is not over a leaf.
func Begin(a *tree.Arena, root tree.NodeID, p geom.Point, c txn.Committer, opts Options) *Controller {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	rc := &Controller{arena: a, commit: c, minSize: opts.MinSize, last: p}

	leaf, ok := a.FindNodeAt(root, p)
	if !ok {
		logger.Debug("resize grab outside any tile", "point", p)
		return rc
	}
	rc.grabbed = leaf
	rc.edges = ResizingEdges(a.Geometry(leaf), p)

	if rc.edges&geom.EdgeLeft != 0 {
		rc.horizontal = rc.findPair(tree.SideLeft)
	} else {
		rc.horizontal = rc.findPair(tree.SideRight)
	}
	if rc.edges&geom.EdgeTop != 0 {
		rc.vertical = rc.findPair(tree.SideAbove)
	} else {
		rc.vertical = rc.findPair(tree.SideBelow)
	}
	logger.Debug("resize started", "window", a.Window(leaf), "edges", rc.edges,
		"horizontal", rc.horizontal.Active(), "vertical", rc.vertical.Active())
	return rc
}

// ResizingEdges returns the edges of r nearest to p, one per axis.
func ResizingEdges(r geom.Rect, p geom.Point) geom.Edges {
	var e geom.Edges
	if p.X < r.X+r.Width/2 {
		e |= geom.EdgeLeft
	} else {
		e |= geom.EdgeRight
	}
	if p.Y < r.Y+r.Height/2 {
		e |= geom.EdgeTop
	} else {
		e |= geom.EdgeBottom
	}
	return e
}

func (rc *Controller) findPair(side tree.Side) Pair {
	a := rc.arena
	other, ok := a.FindFirstInDirection(rc.grabbed, side)
	if !ok {
		return Pair{}
	}

	ancestors := make(map[tree.NodeID]bool)
	for n := rc.grabbed; !n.IsNil(); n = a.Parent(n) {
		ancestors[n] = true
	}

	lca, succ := other, tree.Nil
	for !ancestors[lca] {
		succ = lca
		lca = a.Parent(lca)
		if lca.IsNil() {
			panic(fmt.Sprintf("resize: %v and %v have no common ancestor", rc.grabbed, other))
		}
	}

	var first tree.NodeID
	for _, c := range a.Children(lca) {
		if ancestors[c] {
			first = c
			break
		}
	}
	if first.IsNil() || succ.IsNil() {
		panic(fmt.Sprintf("resize: lowest common ancestor %v is not a split over both nodes", lca))
	}

	if side == tree.SideLeft || side == tree.SideAbove {
		first, succ = succ, first
	}
	return Pair{First: first, Second: succ}
}

// Pairs returns the horizontal (width) and vertical (height) resize pairs.
func (rc *Controller) Pairs() (horizontal, vertical Pair) {
	return rc.horizontal, rc.vertical
}

// Grabbed returns the grabbed leaf, Nil if the session is inert.
func (rc *Controller) Grabbed() tree.NodeID { return rc.grabbed }

// Edges returns the grabbed edges.
func (rc *Controller) Edges() geom.Edges { return rc.edges }

func (rc *Controller) valid(p Pair) bool {
	return p.Active() && rc.arena.Valid(p.First) && rc.arena.Valid(p.Second)
}

// Motion applies the pointer movement since the last sample to both pairs
// and commits the result as one batch.
func (rc *Controller) Motion(p geom.Point) {
	if rc.grabbed.IsNil() {
		return
	}
	a := rc.arena
	txn.Autocommit(rc.commit, func(b *txn.Batch) {
		if rc.valid(rc.vertical) {
			g1, g2 := a.Geometry(rc.vertical.First), a.Geometry(rc.vertical.Second)
			adjustGeometry(&g1.Height, &g2.Y, &g2.Height, p.Y-rc.last.Y, rc.minSize)
			a.SetGeometry(rc.vertical.First, g1, b)
			a.SetGeometry(rc.vertical.Second, g2, b)
		}
		if rc.valid(rc.horizontal) {
			g1, g2 := a.Geometry(rc.horizontal.First), a.Geometry(rc.horizontal.Second)
			adjustGeometry(&g1.Width, &g2.X, &g2.Width, p.X-rc.last.X, rc.minSize)
			a.SetGeometry(rc.horizontal.First, g1, b)
			a.SetGeometry(rc.horizontal.Second, g2, b)
		}
	})
	rc.last = p
}

// Release ends the session. Geometry is already committed.
func (rc *Controller) Release() {
	if !rc.grabbed.IsNil() {
		logger.Debug("resize released")
	}
	rc.grabbed = tree.Nil
	rc.horizontal, rc.vertical = Pair{}, Pair{}
}

// adjustGeometry moves the boundary between a segment of length len1 and
// the segment [x2, x2+len2) that follows it by delta, keeping both lengths at
// least minSize.
func adjustGeometry(len1, x2, len2 *int, delta, minSize int) {
	maxPositive := max(0, *len2-minSize)
	maxNegative := max(0, *len1-minSize)
	delta = geom.Clamp(delta, -maxNegative, maxPositive)

	*len1 += delta
	*x2 += delta
	*len2 -= delta
}
