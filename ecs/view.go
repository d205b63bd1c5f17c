package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components.
// The type T should be a struct with embedded pointer fields for each component type.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
// A field of type EntityId receives the id of the matched entity.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	required    ComponentMask

	hasId    bool
	idOffset uintptr
}

// NewView creates a new view for the given struct type.
// Embedded fields are always required.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types or EntityId")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			// Embedded fields are always required.
			isOptional = !field.Anonymous
		}

		componentType := field.Type.Elem()
		v.types = append(v.types, componentType)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)

		if !isOptional {
			v.required |= storage.registry.maskOf([]reflect.Type{componentType})
		}
	}

	return v
}

// matchesArchetype checks if an archetype contains all required component types.
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	return archetype.mask.Has(v.required)
}

// columns maps each view field to an archetype column, or -1 when absent.
func (v *View[T]) columns(archetype *Archetype) []int {
	columns := make([]int, len(v.types))
	for i, componentType := range v.types {
		columns[i] = archetype.columnIndex(componentType)
	}
	return columns
}

// populate writes the component pointers for row into the struct at ptr.
func (v *View[T]) populate(ptr unsafe.Pointer, archetype *Archetype, row int, columns []int) {
	for i, col := range columns {
		fieldPtr := unsafe.Add(ptr, v.fieldOffset[i])
		if col == -1 {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = dataPointer(archetype.storages[col].Get(row))
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(ptr, v.idOffset)) = archetype.entities[row]
	}
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	loc, ok := v.storage.locations.Get(id)
	if !ok || !v.matchesArchetype(loc.archetype) {
		return false
	}

	v.populate(unsafe.Pointer(ptr), loc.archetype, loc.row, v.columns(loc.archetype))
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// iterArchetypes yields populated view structs for the given archetypes.
func (v *View[T]) iterArchetypes(archetypes []*Archetype) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, archetype := range archetypes {
			if archetype.Len() == 0 {
				continue
			}

			columns := v.columns(archetype)
			var result T
			resultPtr := unsafe.Pointer(&result)

			for row := range archetype.entities {
				v.populate(resultPtr, archetype, row, columns)
				if !yield(result) {
					return
				}
			}
		}
	}
}

func (v *View[T]) matching() []*Archetype {
	var matched []*Archetype
	for _, archetype := range v.storage.archetypeOrder {
		if v.matchesArchetype(archetype) {
			matched = append(matched, archetype)
		}
	}
	return matched
}

// Iter returns an iterator over all entities that have all the required
// components for this view. Optional components are nil if not present.
func (v *View[T]) Iter() iter.Seq[T] {
	return v.iterArchetypes(v.matching())
}

// Spawn creates a new entity with components taken from the non-nil pointer
// fields of data.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, componentType := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(componentType, componentPtr).Interface())
	}

	return v.storage.Spawn(components...)
}
