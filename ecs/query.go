package ecs

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

var (
	// ErrNoMatch is returned by Query.Single when no entity matches.
	ErrNoMatch = errors.New("no entity matches query")
	// ErrAmbiguousMatch is returned by Query.Single when more than one entity matches.
	ErrAmbiguousMatch = errors.New("more than one entity matches query")
)

// Query wraps a View with a cache of the archetypes that match it. The cache
// is rebuilt whenever a new archetype appears in storage.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
}

func (q *Query[T]) archetypes() []*Archetype {
	if q.storage == nil {
		panic("Query[" + reflect.TypeFor[T]().String() + "] used before Init")
	}

	if count := len(q.storage.archetypeOrder); count != q.lastArchetypeCount {
		q.cachedArchetypes = q.view.matching()
		q.lastArchetypeCount = count
	}
	return q.cachedArchetypes
}

// Iter returns an iterator over the populated view structs.
func (q *Query[T]) Iter() iter.Seq[T] {
	return q.view.iterArchetypes(q.archetypes())
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	n := 0
	for _, archetype := range q.archetypes() {
		n += archetype.Len()
	}
	return n
}

// Get returns the view struct for id, or nil if it does not match.
func (q *Query[T]) Get(id EntityId) *T {
	return q.view.Get(id)
}

// Single returns the only matching entity. It fails with ErrNoMatch or
// ErrAmbiguousMatch when the query does not match exactly one entity.
func (q *Query[T]) Single() (T, error) {
	var result T
	switch n := q.Count(); {
	case n == 0:
		return result, fmt.Errorf("%s: %w", reflect.TypeFor[T](), ErrNoMatch)
	case n > 1:
		return result, fmt.Errorf("%s: %w (%d entities)", reflect.TypeFor[T](), ErrAmbiguousMatch, n)
	}

	for item := range q.Iter() {
		result = item
	}
	return result, nil
}
