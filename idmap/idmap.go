// Package idmap maps opaque identifiers to live mesh elements. It is the only cross reference between
// the winged mesh and the octree that indexes its faces.
package idmap

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ID is a globally unique handle assigned to a mesh element at creation. It stays stable while the element
// moves through the index.
type ID = uuid.UUID

// Nil is the unassigned ID.
var Nil = uuid.Nil

// ErrDuplicateID is returned when inserting an element whose ID is already present.
var ErrDuplicateID = errors.New("duplicate id")

// NewID returns a fresh random ID.
func NewID() ID {
	return uuid.New()
}

// Element is anything that can be looked up by ID.
type Element interface {
	ID() ID
}

// Map is a bijective ID to element lookup table. It never owns its elements. Iteration order is insertion
// order, except that erasing an element moves the last element into its slot.
type Map[T Element] struct {
	index    map[ID]int
	elements []T
}

// New returns an empty map.
func New[T Element]() *Map[T] {
	return &Map[T]{index: map[ID]int{}}
}

// Insert adds e under its ID.
func (m *Map[T]) Insert(e T) error {
	id := e.ID()
	if id == Nil {
		return errors.New("cannot insert element without an id")
	}
	if _, ok := m.index[id]; ok {
		return errors.Wrapf(ErrDuplicateID, "%s", id)
	}
	m.index[id] = len(m.elements)
	m.elements = append(m.elements, e)
	return nil
}

// Erase removes the element with the given ID and reports whether it was present.
func (m *Map[T]) Erase(id ID) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	last := len(m.elements) - 1
	if i != last {
		moved := m.elements[last]
		m.elements[i] = moved
		m.index[moved.ID()] = i
	}
	var zero T
	m.elements[last] = zero
	m.elements = m.elements[:last]
	delete(m.index, id)
	return true
}

// Has reports whether an element with the given ID is present.
func (m *Map[T]) Has(id ID) bool {
	_, ok := m.index[id]
	return ok
}

// Element returns the element with the given ID.
func (m *Map[T]) Element(id ID) (T, bool) {
	i, ok := m.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return m.elements[i], true
}

// Len returns the number of elements.
func (m *Map[T]) Len() int {
	return len(m.elements)
}

// Reset removes every element.
func (m *Map[T]) Reset() {
	m.index = map[ID]int{}
	m.elements = nil
}

// All returns a copy of the elements in iteration order.
func (m *Map[T]) All() []T {
	out := make([]T, len(m.elements))
	copy(out, m.elements)
	return out
}

// IDs returns the IDs of all elements in iteration order.
func (m *Map[T]) IDs() []ID {
	ids := make([]ID, 0, len(m.elements))
	for _, e := range m.elements {
		ids = append(ids, e.ID())
	}
	return ids
}
