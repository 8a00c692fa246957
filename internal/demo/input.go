package demo

import "github.com/Gaurav-Gosain/tuitile/internal/geom"

// InputKind tells inputs apart.
type InputKind int

const (
	InputAction InputKind = iota
	InputPress
	InputMotion
	InputRelease
	InputResize
)

// Input is one input the model acted on.
type Input struct {
	Kind InputKind
	// Action is the keybinding action of an InputAction.
	Action string
	// At is the pointer position of pointer inputs.
	At    geom.Point
	Right bool
	// Width and Height are the terminal size of an InputResize.
	Width  int
	Height int
}
