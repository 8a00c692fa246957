// Package txn batches geometry writes so that everything produced by one
// input event or configuration change is committed together.
package txn

import (
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/shell"
)

// Write is a single geometry assignment. Window is empty for split nodes.
type Write struct {
	Node   uint64
	Window shell.WindowID
	Rect   geom.Rect
}

// Batch accumulates writes. A later write to the same node replaces the
// earlier one but keeps its position.
type Batch struct {
	writes []Write
	index  map[uint64]int
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{index: make(map[uint64]int)}
}

// Add appends or replaces the write for node.
func (b *Batch) Add(node uint64, window shell.WindowID, r geom.Rect) {
	if b.index == nil {
		b.index = make(map[uint64]int)
	}
	if i, ok := b.index[node]; ok {
		b.writes[i] = Write{Node: node, Window: window, Rect: r}
		return
	}
	b.index[node] = len(b.writes)
	b.writes = append(b.writes, Write{Node: node, Window: window, Rect: r})
}

// Writes returns the writes in insertion order.
func (b *Batch) Writes() []Write {
	return b.writes
}

// WindowWrites returns only the writes that target a window.
func (b *Batch) WindowWrites() []Write {
	var out []Write
	for _, w := range b.writes {
		if w.Window != "" {
			out = append(out, w)
		}
	}
	return out
}

// Len returns the number of distinct nodes written.
func (b *Batch) Len() int {
	return len(b.writes)
}

// Empty reports whether nothing was written.
func (b *Batch) Empty() bool {
	return len(b.writes) == 0
}

// Committer is the external commit engine. Commit applies every write of the
// batch atomically.
type Committer interface {
	Commit(b *Batch)
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(b *Batch)

// Commit calls f(b).
func (f CommitterFunc) Commit(b *Batch) {
	f(b)
}

// Autocommit runs fn with a fresh batch and commits it once if fn wrote
// anything.
func Autocommit(c Committer, fn func(b *Batch)) {
	b := NewBatch()
	fn(b)
	if !b.Empty() && c != nil {
		c.Commit(b)
	}
}

// Recorder is a Committer that applies window writes through a lookup
// function and keeps every committed batch.
type Recorder struct {
	Lookup  func(id shell.WindowID) (shell.Window, bool)
	Batches []*Batch
}

// Commit records b and forwards window geometry to the shell.
func (r *Recorder) Commit(b *Batch) {
	r.Batches = append(r.Batches, b)
	if r.Lookup == nil {
		return
	}
	for _, w := range b.WindowWrites() {
		if win, ok := r.Lookup(w.Window); ok {
			win.SetGeometry(w.Rect)
		}
	}
}

// Last returns the most recently committed batch, or nil.
func (r *Recorder) Last() *Batch {
	if len(r.Batches) == 0 {
		return nil
	}
	return r.Batches[len(r.Batches)-1]
}

// Reset drops the recorded batches.
func (r *Recorder) Reset() {
	r.Batches = nil
}
