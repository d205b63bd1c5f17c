package ecs

import (
	"iter"
	"reflect"
)

// Archetype stores every entity that has exactly the same set of component
// types. Components are kept in one column per type; row i of every column
// belongs to entities[i].
type Archetype struct {
	mask     ComponentMask
	types    []reflect.Type
	storages []iComponentStorage
	entities []EntityId
}

// NewArchetype creates an empty archetype for the component types in mask.
func NewArchetype(mask ComponentMask, registry *ComponentRegistry) *Archetype {
	types := registry.typesOf(mask)
	a := &Archetype{
		mask:     mask,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		a.storages[idx] = registry.info(typ).factory()
	}

	return a
}

// columnIndex returns the column holding compType, or -1.
func (a *Archetype) columnIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// push appends a row for id. components must hold exactly one value per
// column, keyed by type.
func (a *Archetype) push(id EntityId, components map[reflect.Type]any) int {
	for idx, typ := range a.types {
		comp, ok := components[typ]
		if !ok || !a.storages[idx].Append(comp) {
			panic("missing or mistyped component " + typ.String() + " while spawning into archetype")
		}
	}
	a.entities = append(a.entities, id)
	return len(a.entities) - 1
}

// removeRow deletes a row and returns the entity that was moved into it, if
// any, so the caller can update its location.
func (a *Archetype) removeRow(row int) (moved EntityId, ok bool) {
	last := len(a.entities) - 1
	for _, storage := range a.storages {
		storage.SwapRemove(row)
	}

	if row != last {
		a.entities[row] = a.entities[last]
		moved, ok = a.entities[row], true
	}
	a.entities[last] = 0
	a.entities = a.entities[:last]
	return moved, ok
}

// component returns a pointer to the component of compType at row, or nil.
func (a *Archetype) component(row int, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(row)
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnIndex(compType) != -1
}

// Mask returns the set of component types stored by the archetype.
func (a *Archetype) Mask() ComponentMask {
	return a.mask
}

// Types returns the component types for this archetype in registration order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of entities stored in the archetype.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Iter returns an iterator over the entities in this archetype.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, id := range a.entities {
			if !yield(id) {
				return
			}
		}
	}
}
