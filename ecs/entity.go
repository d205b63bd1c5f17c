package ecs

// EntityId is a stable identifier for an entity. Ids are allocated from a
// counter starting at 1, are never reused and do not change when components
// are added to or removed from the entity. The zero value is never a live id.
type EntityId uint64

// Valid reports whether the id could refer to an entity.
func (e EntityId) Valid() bool {
	return e != 0
}

// entityLocation records where an entity's components currently live.
type entityLocation struct {
	archetype *Archetype
	row       int
}
