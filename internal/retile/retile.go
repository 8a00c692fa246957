// Package retile rearranges tiled windows when one is dragged and dropped
// onto another: the drop point decides between swapping the two windows
// and inserting the dragged one next to the target, possibly on another
// output.
package retile

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "retile",
	})
}

// SetLogLevel sets the logging level for the retile package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Engine performs drops on the trees of a workspace group.
type Engine struct {
	group   *wset.Group
	focuser shell.Focuser

	// Sensitivity is passed to ClassifyDrop.
	Sensitivity float64
}

// NewEngine returns an engine working on g. The focuser may be nil.
func NewEngine(g *wset.Group, f shell.Focuser) *Engine {
	return &Engine{group: g, focuser: f, Sensitivity: DefaultSensitivity}
}

// Group returns the workspace group the engine works on.
func (e *Engine) Group() *wset.Group { return e.group }

// IsTiled reports whether w is in one of the group's trees.
func (e *Engine) IsTiled(w shell.WindowID) bool {
	_, ok := e.group.StoreOf(w)
	return ok
}

// DropTarget returns the tiled leaf under p, in output-layout coordinates,
// on the visible cell of output o. The leaf of the dragged window itself is
// never a target.
func (e *Engine) DropTarget(o shell.OutputID, p geom.Point, dragged shell.WindowID) (tree.NodeID, bool) {
	s, ok := e.group.Store(o)
	if !ok {
		return tree.Nil, false
	}
	a := e.group.Arena()
	leaf, ok := a.FindNodeAt(s.CurrentRoot(), s.ToGrid(p))
	if !ok || a.Window(leaf) == dragged {
		return tree.Nil, false
	}
	return leaf, true
}

// Classify returns the target leaf and insertion for a drop of dragged at p
// on output o.
func (e *Engine) Classify(o shell.OutputID, p geom.Point, dragged shell.WindowID) (tree.NodeID, Insertion) {
	target, ok := e.DropTarget(o, p, dragged)
	if !ok {
		return tree.Nil, None
	}
	s, _ := e.group.Store(o)
	return target, ClassifyDrop(e.group.Arena(), target, s.ToGrid(p), e.Sensitivity)
}

// HandleDrop applies a drop of source at p on output o. It reports false,
// changing nothing, when the drop does not land on another tiled window or
// classifies as None.
func (e *Engine) HandleDrop(source shell.WindowID, o shell.OutputID, p geom.Point) bool {
	if !e.IsTiled(source) {
		return false
	}
	target, ins := e.Classify(o, p, source)
	switch ins {
	case None:
		return false
	case Swap:
		e.Swap(source, e.group.Arena().Window(target))
	default:
		e.MoveRetile(source, e.group.Arena().Window(target), ins)
	}
	return true
}

type placed struct {
	store *wset.Store
	cell  geom.Point
	leaf  tree.NodeID
}

func (e *Engine) locate(w shell.WindowID) placed {
	s, ok := e.group.StoreOf(w)
	if !ok {
		panic(fmt.Sprintf("retile: window %s is not tiled", w))
	}
	leaf, ok := e.group.Arena().LeafOf(w)
	if !ok {
		panic(fmt.Sprintf("retile: window %s has no leaf", w))
	}
	c, _ := s.CellOf(w)
	return placed{store: s, cell: c, leaf: leaf}
}

// Swap exchanges the tiles of two windows, which may be on different
// outputs. The result is committed as one batch.
func (e *Engine) Swap(x, y shell.WindowID) {
	px, py := e.locate(x), e.locate(y)
	from, to := px.store.OutputID(), py.store.OutputID()
	crossStore := px.store != py.store
	notifier := e.group.Notifier()

	if crossStore && notifier != nil {
		notifier.PreRelocate(x, from, to)
		notifier.PreRelocate(y, to, from)
	}

	txn.Autocommit(e.group, func(b *txn.Batch) {
		if crossStore || px.cell != py.cell {
			wx := px.store.ReleaseWindow(x)
			wy := py.store.ReleaseWindow(y)
			py.store.AdoptWindow(wx, py.cell)
			px.store.AdoptWindow(wy, px.cell)
		}
		e.group.Arena().SwapLeaves(px.leaf, py.leaf, b)
	})

	if crossStore && notifier != nil {
		notifier.PostRelocate(x, from, to)
		notifier.PostRelocate(y, to, from)
	}
	logger.Debug("windows swapped", "a", x, "b", y, "cross_output", crossStore)
	e.focus(x)
}

// MoveRetile moves source next to target on the given edge. When target's
// parent already splits along the insertion axis, source becomes its
// sibling; otherwise a new split holding source and target takes target's
// place.
func (e *Engine) MoveRetile(source, target shell.WindowID, ins Insertion) {
	if ins == None || ins == Swap {
		panic(fmt.Sprintf("retile: %s is not an edge insertion", ins))
	}
	if source == target {
		panic(fmt.Sprintf("retile: dropping %s onto itself", source))
	}
	ps, pt := e.locate(source), e.locate(target)
	from, to := ps.store.OutputID(), pt.store.OutputID()
	crossStore := ps.store != pt.store
	notifier := e.group.Notifier()
	a := e.group.Arena()

	if crossStore && notifier != nil {
		notifier.PreRelocate(source, from, to)
	}

	txn.Autocommit(e.group, func(b *txn.Batch) {
		if crossStore {
			pt.store.AdoptWindow(ps.store.ReleaseWindow(source), pt.cell)
		}

		dir := ins.Direction()
		parent := a.Parent(pt.leaf)
		before := ins == Left || ins == Above
		a.Detach(ps.leaf, b)

		if a.Direction(parent) == dir {
			idx := a.IndexInParent(pt.leaf)
			if !before {
				idx++
			}
			a.AddChild(parent, ps.leaf, b, idx)
		} else {
			split := a.NewSplit(dir)
			a.ReplaceChild(parent, pt.leaf, split)
			if before {
				a.AddChild(split, ps.leaf, b, -1)
				a.AddChild(split, pt.leaf, b, -1)
			} else {
				a.AddChild(split, pt.leaf, b, -1)
				a.AddChild(split, ps.leaf, b, -1)
			}
		}

		ps.store.Refresh(b)
		if crossStore {
			pt.store.Refresh(b)
		}
	})
	ps.store.Resync()
	if crossStore {
		pt.store.Resync()
	}

	if crossStore && notifier != nil {
		notifier.PostRelocate(source, from, to)
	}
	logger.Debug("window retiled", "window", source, "target", target, "edge", ins, "cross_output", crossStore)
	e.focus(source)
}

func (e *Engine) focus(w shell.WindowID) {
	if e.focuser != nil {
		e.focuser.RaiseAndFocus(w)
	}
}
