package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// Storage is the entity table: it allocates stable entity ids, tracks which
// archetype row holds each entity and owns the singleton components.
type Storage struct {
	registry   *ComponentRegistry
	archetypes map[ComponentMask]*Archetype
	// archetypeOrder keeps iteration deterministic.
	archetypeOrder []*Archetype
	locations      *intmap.Map[EntityId, entityLocation]
	nextId         EntityId
	singletons     map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[ComponentMask]*Archetype),
		locations:  intmap.New[EntityId, entityLocation](256),
		nextId:     1,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) archetypeFor(mask ComponentMask) *Archetype {
	archetype, ok := s.archetypes[mask]
	if !ok {
		archetype = NewArchetype(mask, s.registry)
		s.archetypes[mask] = archetype
		s.archetypeOrder = append(s.archetypeOrder, archetype)
	}
	return archetype
}

// GetArchetype returns the archetype storing exactly the given component
// types (if one exists).
func (s *Storage) GetArchetype(components ...any) *Archetype {
	byType := componentsByType(components)
	types := make([]reflect.Type, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	return s.archetypes[s.registry.maskOf(types)]
}

// Archetypes returns all archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.archetypeOrder
}

// Spawn creates a new entity with the provided components. Components may be
// passed as values or pointers; they are copied into storage.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	byType := componentsByType(components)
	types := make([]reflect.Type, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}

	archetype := s.archetypeFor(s.registry.maskOf(types))

	id := s.nextId
	s.nextId++

	row := archetype.push(id, byType)
	s.locations.Put(id, entityLocation{archetype: archetype, row: row})
	return id
}

// Alive reports whether id refers to an entity that has not been deleted.
func (s *Storage) Alive(id EntityId) bool {
	return s.locations.Has(id)
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.locations.Len()
}

// Delete removes all data related to the entity ID. Deleting an unknown or
// already deleted id is a no-op.
func (s *Storage) Delete(id EntityId) {
	loc, ok := s.locations.Get(id)
	if !ok {
		return
	}
	s.removeFrom(loc)
	s.locations.Del(id)
}

func (s *Storage) removeFrom(loc entityLocation) {
	if moved, ok := loc.archetype.removeRow(loc.row); ok {
		s.locations.Put(moved, entityLocation{archetype: loc.archetype, row: loc.row})
	}
}

// AddComponent attaches component to the entity, replacing the value if the
// entity already has a component of that type. The entity id is unchanged.
// It returns false if the entity does not exist.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}

	compType := componentType(component)
	if existing := loc.archetype.component(loc.row, compType); existing != nil {
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return true
	}

	target := s.archetypeFor(loc.archetype.mask | s.registry.maskOf([]reflect.Type{compType}))
	s.move(id, loc, target, map[reflect.Type]any{compType: component})
	return true
}

// RemoveComponent detaches the component of compType from the entity. An
// entity left with no components is deleted. It returns false if the entity
// does not exist or does not have the component.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok || !loc.archetype.HasComponent(compType) {
		return false
	}

	mask := loc.archetype.mask &^ s.registry.maskOf([]reflect.Type{compType})
	if mask == 0 {
		s.Delete(id)
		return true
	}

	s.move(id, loc, s.archetypeFor(mask), nil)
	return true
}

// move copies an entity's components from its current archetype into
// target, taking any extra components from added.
func (s *Storage) move(id EntityId, loc entityLocation, target *Archetype, added map[reflect.Type]any) {
	components := make(map[reflect.Type]any, len(target.types))
	for _, typ := range target.types {
		if comp, ok := added[typ]; ok {
			components[typ] = comp
			continue
		}
		components[typ] = loc.archetype.component(loc.row, typ)
	}

	row := target.push(id, components)
	s.removeFrom(loc)
	s.locations.Put(id, entityLocation{archetype: target, row: row})
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc, ok := s.locations.Get(id)
	if !ok {
		return nil
	}
	return loc.archetype.component(loc.row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// AddSingleton stores value as the singleton of its type, replacing any
// existing singleton of the same type. Singletons do not need registering.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
	s.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton sets *target to the singleton of type T. target must be a
// **T. It returns false if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Pointer {
		panic(fmt.Sprintf("ReadSingleton target must be a pointer to a pointer, got %T", target))
	}

	entry := s.singletons[ptr.Elem().Type().Elem()]
	if entry == nil {
		return false
	}
	ptr.Elem().Set(entry.value)
	return true
}

// RemoveSingleton deletes the singleton of type t.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	Mask           ComponentMask
	ComponentTypes []string
	EntityCount    int
}

// CollectStats returns the current occupancy of the storage.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount:   len(s.archetypeOrder),
		TotalEntityCount: s.locations.Len(),
		SingletonCount:   len(s.singletons),
	}

	for _, archetype := range s.archetypeOrder {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			Mask:           archetype.mask,
			ComponentTypes: names,
			EntityCount:    archetype.Len(),
		})
	}

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}

// componentType returns the value type of a component passed as T or *T.
func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		panic("component cannot be nil")
	}
	if compType.Kind() == reflect.Pointer {
		compType = compType.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	switch compType.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

func componentsByType(components []any) map[reflect.Type]any {
	byType := make(map[reflect.Type]any, len(components))
	for _, comp := range components {
		t := componentType(comp)
		if _, dup := byType[t]; dup {
			panic("duplicate component type " + t.String())
		}
		byType[t] = comp
	}
	return byType
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
