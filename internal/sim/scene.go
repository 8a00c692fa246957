package sim

import (
	"slices"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Sublayer is the tiled layer of one workspace cell.
type Sublayer struct {
	Output    shell.OutputID
	Cell      geom.Point
	scene     *Scene
	windows   []shell.WindowID
	destroyed bool
}

// Add puts w on top of the sublayer, taking it out of any other layer.
func (s *Sublayer) Add(w shell.WindowID) {
	if s.scene != nil {
		s.scene.Forget(w)
	}
	s.windows = append(s.windows, w)
}

// Remove drops w from the sublayer.
func (s *Sublayer) Remove(w shell.WindowID) {
	s.windows = slices.DeleteFunc(s.windows, func(x shell.WindowID) bool { return x == w })
}

// Windows returns the windows bottom to top.
func (s *Sublayer) Windows() []shell.WindowID {
	return slices.Clone(s.windows)
}

// Destroyed reports whether the scene tore the sublayer down.
func (s *Sublayer) Destroyed() bool { return s.destroyed }

// Scene keeps the tiled sublayers and the non-tiled layer of every output.
type Scene struct {
	sublayers []*Sublayer
	floating  []shell.WindowID
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// NewSublayer creates the tiled layer of a cell.
func (sc *Scene) NewSublayer(o shell.OutputID, cell geom.Point) shell.Sublayer {
	s := &Sublayer{Output: o, Cell: cell, scene: sc}
	sc.sublayers = append(sc.sublayers, s)
	return s
}

// DestroySublayer moves the windows of s to the non-tiled layer.
func (sc *Scene) DestroySublayer(s shell.Sublayer) {
	for _, w := range s.Windows() {
		s.Remove(w)
		sc.Reinsert(w)
	}
	if ss, ok := s.(*Sublayer); ok {
		ss.destroyed = true
		sc.sublayers = slices.DeleteFunc(sc.sublayers, func(x *Sublayer) bool { return x == ss })
	}
}

// Reinsert puts w on top of the non-tiled layer.
func (sc *Scene) Reinsert(w shell.WindowID) {
	sc.floating = slices.DeleteFunc(sc.floating, func(x shell.WindowID) bool { return x == w })
	sc.floating = append(sc.floating, w)
}

// Floating returns the non-tiled windows, bottom to top.
func (sc *Scene) Floating() []shell.WindowID {
	return slices.Clone(sc.floating)
}

// Sublayers returns the live sublayers.
func (sc *Scene) Sublayers() []*Sublayer {
	return slices.Clone(sc.sublayers)
}

// Forget drops w from every layer, as when a window is closed.
func (sc *Scene) Forget(w shell.WindowID) {
	sc.floating = slices.DeleteFunc(sc.floating, func(x shell.WindowID) bool { return x == w })
	for _, s := range sc.sublayers {
		s.Remove(w)
	}
}

// TakeFloating removes w from the non-tiled layer and reports whether it was
// there.
func (sc *Scene) TakeFloating(w shell.WindowID) bool {
	n := len(sc.floating)
	sc.floating = slices.DeleteFunc(sc.floating, func(x shell.WindowID) bool { return x == w })
	return len(sc.floating) != n
}
