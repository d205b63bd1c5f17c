package ecs

import (
	"fmt"
	"reflect"
)

// MaxComponentTypes is the number of component types a registry can hold.
const MaxComponentTypes = 64

// ComponentMask is a set of registered component types. Each archetype is
// identified by the mask of the component types it stores.
type ComponentMask uint64

// Has reports whether the mask contains every bit of other.
func (m ComponentMask) Has(other ComponentMask) bool {
	return m&other == other
}

type componentInfo struct {
	bit     uint8
	factory func() iComponentStorage
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	components map[reflect.Type]componentInfo
	types      []reflect.Type
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[reflect.Type]componentInfo),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.components[t]; ok {
		return
	}
	if len(r.types) >= MaxComponentTypes {
		panic(fmt.Sprintf("cannot register %s: registry already holds %d component types", t, MaxComponentTypes))
	}

	r.components[t] = componentInfo{
		bit: uint8(len(r.types)),
		factory: func() iComponentStorage {
			return &genericComponentStorage[T]{}
		},
	}
	r.types = append(r.types, t)
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.components[t]
	return ok
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.types)
}

func (r *ComponentRegistry) info(t reflect.Type) componentInfo {
	info, ok := r.components[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return info
}

// maskOf returns the mask for a set of component types.
func (r *ComponentRegistry) maskOf(types []reflect.Type) ComponentMask {
	var mask ComponentMask
	for _, t := range types {
		mask |= 1 << r.info(t).bit
	}
	return mask
}

// typesOf returns the component types of a mask ordered by registration.
func (r *ComponentRegistry) typesOf(mask ComponentMask) []reflect.Type {
	types := make([]reflect.Type, 0, 8)
	for bit, t := range r.types {
		if mask&(1<<bit) != 0 {
			types = append(types, t)
		}
	}
	return types
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in fixed-size blocks.
// Blocks are allocated individually so growing the column never moves
// existing components.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
	length int
}

// Append adds a component (T or *T) at the end of the column.
func (cs *genericComponentStorage[T]) Append(item any) bool {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return false
	}

	if cs.length/genericBlockSize >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
	}
	*cs.at(cs.length) = value
	cs.length++
	return true
}

func (cs *genericComponentStorage[T]) at(row int) *T {
	return &cs.blocks[row/genericBlockSize][row%genericBlockSize]
}

// Get returns a *T for the row, or nil when the row is out of range.
func (cs *genericComponentStorage[T]) Get(row int) any {
	if row < 0 || row >= cs.length {
		return nil
	}
	return cs.at(row)
}

// SwapRemove removes a row by moving the last row into it.
func (cs *genericComponentStorage[T]) SwapRemove(row int) {
	if row < 0 || row >= cs.length {
		return
	}

	last := cs.length - 1
	if row != last {
		*cs.at(row) = *cs.at(last)
	}

	var zero T
	*cs.at(last) = zero
	cs.length--

	// Keep one spare block so a spawn/delete cycle at a block edge does not churn.
	if used := (cs.length + genericBlockSize - 1) / genericBlockSize; len(cs.blocks) > used+1 {
		cs.blocks = cs.blocks[:used+1]
	}
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.length
}
