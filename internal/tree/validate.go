package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
)

// Validate checks the structural and tiling invariants of the tree rooted at
// root. It is meant for tests and debug assertions.
func (a *Arena) Validate(root NodeID) error {
	if !a.Valid(root) {
		return fmt.Errorf("root %v is not a live node", root)
	}
	if p := a.Parent(root); !p.IsNil() {
		return fmt.Errorf("root %v has parent %v", root, p)
	}
	var errs []error
	a.validate(root, &errs)
	return errors.Join(errs...)
}

func (a *Arena) validate(id NodeID, errs *[]error) {
	n := a.get(id)
	if n.kind == KindLeaf {
		if len(n.children) > 0 {
			*errs = append(*errs, fmt.Errorf("leaf %v has children", id))
		}
		if got, ok := a.windows[n.window]; !ok || got != id {
			*errs = append(*errs, fmt.Errorf("leaf %v missing from window index", id))
		}
		return
	}

	if len(n.children) == 0 {
		if !n.parent.IsNil() {
			*errs = append(*errs, fmt.Errorf("non-root split %v is empty", id))
		}
		return
	}

	avail := n.geometry
	if n.parent.IsNil() {
		avail.X += n.gaps.Left
		avail.Y += n.gaps.Top
		avail.Width = max(0, avail.Width-n.gaps.Left-n.gaps.Right)
		avail.Height = max(0, avail.Height-n.gaps.Top-n.gaps.Bottom)
	}

	start, extent := along(avail, n.direction)
	cross := crossExtent(avail, n.direction)
	pos := start
	sum := 0
	for i, c := range n.children {
		cn := a.get(c)
		if cn.parent != id {
			*errs = append(*errs, fmt.Errorf("child %v of %v points to parent %v", c, id, cn.parent))
		}
		s, l := along(cn.geometry, n.direction)
		if i > 0 {
			pos += n.gaps.Internal
		}
		if s != pos {
			*errs = append(*errs, fmt.Errorf("child %v of %v starts at %d, want %d", c, id, s, pos))
		}
		if got := crossExtent(cn.geometry, n.direction); got != cross {
			*errs = append(*errs, fmt.Errorf("child %v of %v has cross extent %d, want %d", c, id, got, cross))
		}
		pos += l
		sum += l
		a.validate(c, errs)
	}
	want := max(0, extent-n.gaps.Internal*(len(n.children)-1))
	if sum != want {
		*errs = append(*errs, fmt.Errorf("children of %v cover %d units, want %d", id, sum, want))
	}
}

func crossExtent(r geom.Rect, d Direction) int {
	if d == Horizontal {
		return r.Height
	}
	return r.Width
}

// Dump renders the tree as an indented outline, for debug logging.
func (a *Arena) Dump(root NodeID) string {
	var sb strings.Builder
	a.dump(&sb, root, 0)
	return sb.String()
}

func (a *Arena) dump(sb *strings.Builder, id NodeID, depth int) {
	n := a.get(id)
	sb.WriteString(strings.Repeat("  ", depth))
	if n.kind == KindLeaf {
		fmt.Fprintf(sb, "leaf %s %v\n", n.window, n.geometry)
		return
	}
	fmt.Fprintf(sb, "%s %v\n", n.direction, n.geometry)
	for _, c := range n.children {
		a.dump(sb, c, depth+1)
	}
}
