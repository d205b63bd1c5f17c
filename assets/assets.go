// Package assets stores loaded resources in typed tables keyed by UUID
// handles, and loads images from disk.
package assets

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle refers to an asset of type T in an Assets table. The zero handle
// refers to nothing.
type Handle[T any] struct {
	ID uuid.UUID
}

// NewHandle returns a handle with a fresh random id.
func NewHandle[T any]() Handle[T] {
	return Handle[T]{ID: uuid.New()}
}

// HandleFor returns the handle derived from a stable name such as a file
// path. The same name always yields the same handle.
func HandleFor[T any](name string) Handle[T] {
	return Handle[T]{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))}
}

// IsZero reports whether h refers to nothing.
func (h Handle[T]) IsZero() bool {
	return h.ID == uuid.Nil
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle<%T>(%s)", *new(T), h.ID)
}

// Assets is a table of values of type T. It is not safe for concurrent use;
// like the rest of the frame state it is owned by the main loop.
type Assets[T any] struct {
	items map[uuid.UUID]*T
}

// New returns an empty table.
func New[T any]() *Assets[T] {
	return &Assets[T]{items: make(map[uuid.UUID]*T)}
}

// Add stores value under a new random handle.
func (a *Assets[T]) Add(value T) Handle[T] {
	h := NewHandle[T]()
	a.items[h.ID] = &value
	return h
}

// Insert stores value under h, replacing any previous value.
func (a *Assets[T]) Insert(h Handle[T], value T) {
	a.items[h.ID] = &value
}

// Get returns the value for h, or nil if the handle is unknown.
func (a *Assets[T]) Get(h Handle[T]) *T {
	return a.items[h.ID]
}

// Contains reports whether h refers to a stored value.
func (a *Assets[T]) Contains(h Handle[T]) bool {
	_, ok := a.items[h.ID]
	return ok
}

// Remove deletes the value for h.
func (a *Assets[T]) Remove(h Handle[T]) {
	delete(a.items, h.ID)
}

// Len returns the number of stored values.
func (a *Assets[T]) Len() int {
	return len(a.items)
}
