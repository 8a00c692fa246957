package tree

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// MinLayoutSize is the smallest width or height an imported node may get.
const MinLayoutSize = 10

var (
	ErrBadLayout     = errors.New("layout tree structure is wrong")
	ErrTooSmall      = errors.New("geometry becomes too small for some nodes")
	ErrUnknownWindow = errors.New("no such window")
	ErrTiledTwice    = errors.New("window tiled twice")
)

// LayoutRect is the JSON form of a rectangle.
type LayoutRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LayoutNode is the JSON form of a tree node. Exactly one of Window,
// HorizontalSplit and VerticalSplit is set. A horizontal split divides its
// area with horizontal lines, so its children are stacked top to bottom; a
// vertical split places them side by side.
type LayoutNode struct {
	Geometry        *LayoutRect    `json:"geometry,omitempty"`
	Percent         float64        `json:"percent,omitempty"`
	Weight          float64        `json:"weight,omitempty"`
	Window          shell.WindowID `json:"window,omitempty"`
	HorizontalSplit []LayoutNode   `json:"horizontal-split,omitempty"`
	VerticalSplit   []LayoutNode   `json:"vertical-split,omitempty"`
}

// Export describes the tree rooted at root. Geometries are reported relative
// to origin.
func (a *Arena) Export(root NodeID, origin geom.Point) LayoutNode {
	return a.export(root, origin, 1.0)
}

func (a *Arena) export(id NodeID, origin geom.Point, percent float64) LayoutNode {
	n := a.get(id)
	r := n.geometry.Translate(geom.Point{X: -origin.X, Y: -origin.Y})
	out := LayoutNode{
		Geometry: &LayoutRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Percent:  percent,
		Weight:   percent,
	}
	if n.kind == KindLeaf {
		out.Window = n.window
		return out
	}

	total := 0
	for _, c := range n.children {
		_, l := along(a.get(c).geometry, n.direction)
		total += l
	}
	children := make([]LayoutNode, 0, len(n.children))
	for _, c := range n.children {
		p := 1.0 / float64(len(n.children))
		if total > 0 {
			_, l := along(a.get(c).geometry, n.direction)
			p = float64(l) / float64(total)
		}
		children = append(children, a.export(c, origin, p))
	}
	if n.direction == Vertical {
		out.HorizontalSplit = children
	} else {
		out.VerticalSplit = children
	}
	return out
}

// MarshalLayout is a convenience wrapper around Export and json.Marshal.
func (a *Arena) MarshalLayout(root NodeID, origin geom.Point) ([]byte, error) {
	return json.MarshalIndent(a.Export(root, origin), "", "  ")
}

// Import builds a detached tree from ln sized for avail. The check callback
// decides whether a window may be tiled; it is called once per window.
// Nothing is allocated when validation fails. The returned root is always a
// split; the caller lays it out with SetGeometry.
func (a *Arena) Import(ln LayoutNode, avail geom.Rect, check func(shell.WindowID) error) (NodeID, error) {
	if _, err := VerifyLayout(ln, avail.Dimensions(), check); err != nil {
		return Nil, err
	}

	root := a.build(ln, avail)
	if a.IsLeaf(root) {
		split := a.NewSplit(Horizontal)
		s := a.get(split)
		s.geometry = avail
		s.children = []NodeID{root}
		a.get(root).parent = split
		root = split
	}
	return root, nil
}

// VerifyLayout validates ln against the available size and returns the
// windows it references, in depth-first order.
func VerifyLayout(ln LayoutNode, avail geom.Dimensions, check func(shell.WindowID) error) ([]shell.WindowID, error) {
	seen := make(map[shell.WindowID]bool)
	var order []shell.WindowID
	if err := verifyLayout(ln, avail, seen, &order, check); err != nil {
		return nil, err
	}
	return order, nil
}

func splitOf(ln LayoutNode) (Direction, []LayoutNode, bool) {
	switch {
	case ln.HorizontalSplit != nil && ln.VerticalSplit == nil:
		return Vertical, ln.HorizontalSplit, true
	case ln.VerticalSplit != nil && ln.HorizontalSplit == nil:
		return Horizontal, ln.VerticalSplit, true
	}
	return 0, nil, false
}

func childSizes(children []LayoutNode, axis int) []int {
	sum := 0.0
	for _, c := range children {
		sum += c.Weight
	}
	sizes := make([]int, len(children))
	acc := 0.0
	prev := 0
	for i, c := range children {
		acc += c.Weight
		end := int(acc / sum * float64(axis))
		if i == len(children)-1 {
			end = axis
		}
		sizes[i] = end - prev
		prev = end
	}
	return sizes
}

func verifyLayout(ln LayoutNode, size geom.Dimensions, seen map[shell.WindowID]bool, order *[]shell.WindowID, check func(shell.WindowID) error) error {
	if size.Width < MinLayoutSize || size.Height < MinLayoutSize {
		return ErrTooSmall
	}

	dir, children, isSplit := splitOf(ln)
	if ln.Window != "" {
		if isSplit || ln.HorizontalSplit != nil || ln.VerticalSplit != nil {
			return fmt.Errorf("%w: node is both a window and a split", ErrBadLayout)
		}
		if seen[ln.Window] {
			return fmt.Errorf("%w: %s", ErrTiledTwice, ln.Window)
		}
		seen[ln.Window] = true
		*order = append(*order, ln.Window)
		if check != nil {
			return check(ln.Window)
		}
		return nil
	}
	if !isSplit {
		return fmt.Errorf("%w: node is neither a window nor a split", ErrBadLayout)
	}
	if len(children) == 0 {
		return fmt.Errorf("%w: empty split", ErrBadLayout)
	}
	for _, c := range children {
		if c.Weight <= 0 {
			return fmt.Errorf("%w: expected positive weight for each child", ErrBadLayout)
		}
	}

	axis := size.Width
	if dir == Vertical {
		axis = size.Height
	}
	for i, l := range childSizes(children, axis) {
		sub := size
		if dir == Horizontal {
			sub.Width = l
		} else {
			sub.Height = l
		}
		if err := verifyLayout(children[i], sub, seen, order, check); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) build(ln LayoutNode, r geom.Rect) NodeID {
	if ln.Window != "" {
		id := a.NewLeaf(ln.Window)
		a.get(id).geometry = r
		return id
	}

	dir, children, _ := splitOf(ln)
	id := a.NewSplit(dir)
	a.get(id).geometry = r
	start, axis := along(r, dir)
	for i, l := range childSizes(children, axis) {
		c := a.build(children[i], withAlong(r, dir, start, l))
		start += l
		a.get(c).parent = id
		n := a.get(id)
		n.children = append(n.children, c)
	}
	return id
}
