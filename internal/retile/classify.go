package retile

import (
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/tree"
)

// Insertion says where a dropped window goes relative to the tile it was
// dropped on.
type Insertion int

const (
	None Insertion = iota
	Above
	Below
	Left
	Right
	Swap
)

func (i Insertion) String() string {
	switch i {
	case None:
		return "none"
	case Above:
		return "above"
	case Below:
		return "below"
	case Left:
		return "left"
	case Right:
		return "right"
	case Swap:
		return "swap"
	}
	return "unknown"
}

// Direction returns the split direction that places a node on the
// insertion edge of another.
func (i Insertion) Direction() tree.Direction {
	if i == Above || i == Below {
		return tree.Vertical
	}
	return tree.Horizontal
}

// DefaultSensitivity is the fraction of a tile, measured from each edge,
// that selects an edge insertion instead of a swap.
const DefaultSensitivity = 1.0 / 3.0

// ClassifyDrop decides what dropping at p over node means. Points outside
// the node, and nodes that no longer exist, classify as None.
func ClassifyDrop(a *tree.Arena, node tree.NodeID, p geom.Point, sensitivity float64) Insertion {
	if !a.Valid(node) {
		return None
	}
	return classify(a.Geometry(node), p, sensitivity)
}

type edgeDistance struct {
	dist float64
	ins  Insertion
}

func classify(r geom.Rect, p geom.Point, sensitivity float64) Insertion {
	if !r.Contains(p) {
		return None
	}

	px := float64(p.X-r.X) / float64(r.Width)
	py := float64(p.Y-r.Y) / float64(r.Height)

	// order matters: the first of equally close edges wins
	edges := []edgeDistance{
		{px, Left},
		{py, Above},
		{1 - px, Right},
		{1 - py, Below},
	}

	best := None
	bestDist := 0.0
	for _, e := range edges {
		if e.dist > sensitivity {
			continue
		}
		if best == None || e.dist < bestDist {
			best, bestDist = e.ins, e.dist
		}
	}
	if best == None {
		return Swap
	}
	return best
}

// SplitPreview returns the part of r a window dropped with insertion ins
// would take: a third of r on the insertion edge, or all of r.
func SplitPreview(r geom.Rect, ins Insertion) geom.Rect {
	const share = DefaultSensitivity
	switch ins {
	case Right:
		r.X += int(float64(r.Width) * (1 - share))
		fallthrough
	case Left:
		r.Width = int(float64(r.Width) * share)
	case Below:
		r.Y += int(float64(r.Height) * (1 - share))
		fallthrough
	case Above:
		r.Height = int(float64(r.Height) * share)
	}
	return r
}
