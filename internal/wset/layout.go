package wset

import (
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
	"github.com/Gaurav-Gosain/tuitile/internal/txn"
)

// GetLayout describes the tree of cell c. Geometries are relative to the
// visible cell.
func (s *Store) GetLayout(c geom.Point) (tree.LayoutNode, error) {
	if !s.ValidCell(c) {
		return tree.LayoutNode{}, fmt.Errorf("invalid workspace coordinates %v", c)
	}
	return s.group.arena.Export(s.roots[c.X][c.Y], s.CellOffset(s.current)), nil
}

// SetLayout replaces the tree of cell c with ln. Windows of the cell missing
// from ln are untiled; windows tiled elsewhere are moved here. Nothing
// changes when ln does not validate.
func (s *Store) SetLayout(c geom.Point, ln tree.LayoutNode) error {
	if !s.ValidCell(c) {
		return fmt.Errorf("invalid workspace coordinates %v", c)
	}
	a := s.group.arena
	area := a.Geometry(s.roots[c.X][c.Y])

	check := func(id shell.WindowID) error {
		w, ok := s.group.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: %s", tree.ErrUnknownWindow, id)
		}
		if !w.IsMapped() {
			return fmt.Errorf("%w: cannot tile unmapped window %s", tree.ErrBadLayout, id)
		}
		return nil
	}
	touched, err := tree.VerifyLayout(ln, area.Dimensions(), check)
	if err != nil {
		return fmt.Errorf("set layout: %w", err)
	}

	keep := make(map[shell.WindowID]bool, len(touched))
	for _, id := range touched {
		keep[id] = true
	}
	var drop []shell.WindowID
	a.ForEachWindow(s.roots[c.X][c.Y], func(id shell.WindowID) {
		if !keep[id] {
			drop = append(drop, id)
		}
	})
	if len(drop) > 0 {
		s.DetachWindows(drop, true)
	}

	notifier := s.group.c.Notifier
	others := make(map[*Store]bool)
	var moved []shell.WindowID
	var movedFrom []shell.OutputID

	windows := make(map[shell.WindowID]shell.Window, len(touched))
	s.group.autocommit(func(b *txn.Batch) {
		for _, id := range touched {
			owner, tiled := s.group.StoreOf(id)
			if !tiled {
				windows[id], _ = s.group.Lookup(id)
				continue
			}
			leaf, _ := a.LeafOf(id)
			a.Free(a.RemoveChild(leaf, b))
			if owner != s {
				others[owner] = true
				moved = append(moved, id)
				movedFrom = append(movedFrom, owner.OutputID())
				if notifier != nil {
					notifier.PreRelocate(id, owner.OutputID(), s.OutputID())
				}
			}
			windows[id] = owner.ReleaseWindow(id)
		}

		old := s.roots[c.X][c.Y]
		root, err := a.Import(ln, area, nil)
		if err != nil {
			panic(fmt.Sprintf("wset: verified layout failed to import: %v", err))
		}
		a.Free(old)
		s.roots[c.X][c.Y] = root

		for _, id := range touched {
			s.AdoptWindow(windows[id], c)
		}
		a.Flatten(root, b)
		a.SetGaps(root, s.gaps)
		a.SetGeometry(root, area, b)
	})

	if notifier != nil {
		for i, id := range moved {
			notifier.PostRelocate(id, movedFrom[i], s.OutputID())
		}
	}
	for st := range others {
		s.group.autocommit(st.Refresh)
		st.UpdateRootSizes()
	}
	s.group.autocommit(s.Refresh)
	s.UpdateRootSizes()
	logger.Debug("layout set", "output", s.OutputID(), "cell", c, "windows", len(touched))
	return nil
}
