// Package wset keeps the tiling trees of every output: one Store per output
// holding one tree root and one tiled sublayer per workspace cell. All stores
// of a Group share a single node arena so leaves can move between outputs.
package wset

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "wset",
	})
}

// SetLogLevel sets the logging level for the wset package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// DefaultResolution is used for root sizing while a store has no output.
var DefaultResolution = geom.Rect{Width: 1920, Height: 1080}

// DefaultDirection is the direction of freshly created cell roots.
const DefaultDirection = tree.Horizontal

// Collaborators are the external services a Group talks to.
type Collaborators struct {
	Committer txn.Committer
	Scene     shell.Scene
	WM        shell.WindowManager
	Notifier  shell.Notifier
	// Lookup resolves windows that are not tiled yet.
	Lookup func(id shell.WindowID) (shell.Window, bool)
}

// Group owns the arena and the stores of every output.
type Group struct {
	arena  *tree.Arena
	c      Collaborators
	stores []*Store
}

// NewGroup returns an empty group.
func NewGroup(c Collaborators) *Group {
	return &Group{arena: tree.NewArena(), c: c}
}

// Arena returns the shared node arena.
func (g *Group) Arena() *tree.Arena { return g.arena }

// Notifier returns the relocation notifier, which may be nil.
func (g *Group) Notifier() shell.Notifier { return g.c.Notifier }

// WM returns the window manager collaborator.
func (g *Group) WM() shell.WindowManager { return g.c.WM }

// Stores returns every store in creation order.
func (g *Group) Stores() []*Store {
	return append([]*Store(nil), g.stores...)
}

// Store returns the store attached to output o.
func (g *Group) Store(o shell.OutputID) (*Store, bool) {
	for _, s := range g.stores {
		if s.OutputID() == o {
			return s, true
		}
	}
	return nil, false
}

// StoreOf returns the store whose trees hold w.
func (g *Group) StoreOf(w shell.WindowID) (*Store, bool) {
	for _, s := range g.stores {
		if s.Owns(w) {
			return s, true
		}
	}
	return nil, false
}

// Lookup resolves a window, tiled or not.
func (g *Group) Lookup(id shell.WindowID) (shell.Window, bool) {
	if s, ok := g.StoreOf(id); ok {
		return s.Window(id)
	}
	if g.c.Lookup != nil {
		return g.c.Lookup(id)
	}
	return nil, false
}

// RemoveStore tears down every cell of s, handing its windows back to the
// non-tiled layer, and forgets the store.
func (g *Group) RemoveStore(s *Store) {
	for i, st := range g.stores {
		if st != s {
			continue
		}
		s.teardown()
		g.stores = append(g.stores[:i], g.stores[i+1:]...)
		logger.Debug("store removed", "output", s.OutputID())
		return
	}
}

// Commit forwards b to the external commit engine. Fullscreen windows get the
// whole output of their cell instead of their tile.
func (g *Group) Commit(b *txn.Batch) {
	out := txn.NewBatch()
	for _, w := range b.Writes() {
		r := w.Rect
		if w.Window != "" {
			if s, ok := g.StoreOf(w.Window); ok {
				r = s.targetGeometry(w.Window, r)
			}
		}
		out.Add(w.Node, w.Window, r)
	}
	if g.c.Committer != nil {
		g.c.Committer.Commit(out)
	}
}

func (g *Group) autocommit(fn func(b *txn.Batch)) {
	txn.Autocommit(g, fn)
}

// GapsFromSizes builds tree gaps from the three configured sizes.
func GapsFromSizes(inner, outerHoriz, outerVert int) tree.Gaps {
	return tree.Gaps{
		Left:     outerHoriz,
		Right:    outerHoriz,
		Top:      outerVert,
		Bottom:   outerVert,
		Internal: inner,
	}
}

// Group returns the group s belongs to.
func (s *Store) Group() *Group { return s.group }
