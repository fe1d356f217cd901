// Package arena hands out stable integer handles for tree nodes.
//
// Nodes reference each other (children, parent, leaf siblings) through these
// handles instead of pointers, so the parent/child and sibling cycles never
// appear as owning references. Freed handles are recycled.
package arena

// Nil is the reserved handle meaning "no node".
const Nil uint32 = 0

// Arena owns a set of values addressed by uint32 handles.
type Arena[T any] struct {
	slots []*T     // slots[0] is reserved for Nil
	freed []uint32 // handles available for reuse, LIFO
	live  int
}

// New creates an empty Arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{
		slots: make([]*T, 1),
	}
}

// Alloc returns a handle to a new zero value. Released handles are reused
// before the arena grows.
func (a *Arena[T]) Alloc() (uint32, *T) {
	v := new(T)
	a.live++

	if n := len(a.freed); n > 0 {
		id := a.freed[n-1]
		a.freed = a.freed[:n-1]
		a.slots[id] = v
		return id, v
	}

	a.slots = append(a.slots, v)
	return uint32(len(a.slots) - 1), v
}

// Get returns the value behind id, or nil for Nil, freed or unknown handles.
func (a *Arena[T]) Get(id uint32) *T {
	if id == Nil || int(id) >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

// Free releases id for reuse. Freeing Nil, an unknown handle or an already
// freed handle does nothing.
func (a *Arena[T]) Free(id uint32) {
	if id == Nil || int(id) >= len(a.slots) || a.slots[id] == nil {
		return
	}
	a.slots[id] = nil
	a.freed = append(a.freed, id)
	a.live--
}

// Len returns the number of live handles.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the number of slots ever allocated, live or free.
func (a *Arena[T]) Cap() int {
	return len(a.slots) - 1
}
