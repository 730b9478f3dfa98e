// Package history keeps a bounded, linear undo/redo timeline.
//
// Entries live in a fixed arena used as a ring. The logical sequence starts
// at head; index is the logical position of the current entry. Entries after
// index are the redoable future and are discarded by the next Push.
package history

// DefaultCap is the number of entries kept when no cap is configured.
const DefaultCap = 50

type Buffer[T any] struct {
	slots []T
	head  int // arena position of the oldest entry
	size  int // number of live entries
	index int // logical position of the current entry, -1 when empty
}

// New returns an empty buffer that holds at most capacity entries.
// Non-positive capacities fall back to DefaultCap.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Buffer[T]{slots: make([]T, capacity), index: -1}
}

// Push records v as the new current entry. Any redoable entries are dropped
// first; when the buffer is full the oldest entry is evicted and every
// remaining entry shifts down by one.
func (b *Buffer[T]) Push(v T) {
	var zero T
	for i := b.index + 1; i < b.size; i++ {
		b.slots[b.pos(i)] = zero
	}
	b.size = b.index + 1

	if b.size == len(b.slots) {
		b.slots[b.head] = zero
		b.head = (b.head + 1) % len(b.slots)
		b.size--
		b.index--
	}

	b.slots[b.pos(b.size)] = v
	b.size++
	b.index = b.size - 1
}

// Undo steps back and returns the entry now current. ok is false, and
// nothing changes, when already at the baseline.
func (b *Buffer[T]) Undo() (v T, ok bool) {
	if !b.CanUndo() {
		return v, false
	}
	b.index--
	return b.slots[b.pos(b.index)], true
}

// Redo steps forward and returns the entry now current. ok is false when
// there is nothing to redo.
func (b *Buffer[T]) Redo() (v T, ok bool) {
	if !b.CanRedo() {
		return v, false
	}
	b.index++
	return b.slots[b.pos(b.index)], true
}

func (b *Buffer[T]) CanUndo() bool { return b.index > 0 }

func (b *Buffer[T]) CanRedo() bool { return b.index < b.size-1 }

// Current returns the entry at the index.
func (b *Buffer[T]) Current() (v T, ok bool) {
	if b.index < 0 {
		return v, false
	}
	return b.slots[b.pos(b.index)], true
}

// At returns the entry at logical position i, oldest first.
func (b *Buffer[T]) At(i int) (v T, ok bool) {
	if i < 0 || i >= b.size {
		return v, false
	}
	return b.slots[b.pos(i)], true
}

func (b *Buffer[T]) Len() int   { return b.size }
func (b *Buffer[T]) Cap() int   { return len(b.slots) }
func (b *Buffer[T]) Index() int { return b.index }

// Reset empties the buffer, keeping its capacity.
func (b *Buffer[T]) Reset() {
	clear(b.slots)
	b.head, b.size, b.index = 0, 0, -1
}

func (b *Buffer[T]) pos(i int) int {
	return (b.head + i) % len(b.slots)
}
