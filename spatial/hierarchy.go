package spatial

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
)

// maxDepth bounds hierarchy walks; deeper chains are treated as cycles.
const maxDepth = 32

// Parent attaches an entity to another; its Transform is then relative to
// the parent's world transform.
type Parent struct {
	Id ecs.EntityId
}

// RegisterComponents registers the spatial component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Parent](registry)
}

type node = struct {
	*Transform
	Parent *Parent `ecs:"optional"`
}

// PropagateSystem writes GlobalTransform for every entity that has one, from
// its own Transform and the chain of Parent transforms above it.
type PropagateSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Transform
		*GlobalTransform
		Parent *Parent `ecs:"optional"`
	}]
	Nodes ecs.Query[node]
}

func (s *PropagateSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Iter() {
		local := item.Transform.Matrix()
		if item.Parent == nil {
			item.GlobalTransform.Matrix = local
			continue
		}
		item.GlobalTransform.Matrix = s.world(item.Parent.Id, 1).Mul4(local)
	}
}

// world returns the world matrix of id by walking up its parents. A missing
// parent is treated as the world origin.
func (s *PropagateSystem) world(id ecs.EntityId, depth int) mgl32.Mat4 {
	if depth > maxDepth {
		panic(fmt.Sprintf("transform hierarchy deeper than %d at entity %d, parent cycle?", maxDepth, id))
	}

	n := s.Nodes.Get(id)
	if n == nil {
		return mgl32.Ident4()
	}
	if n.Parent == nil {
		return n.Transform.Matrix()
	}
	return s.world(n.Parent.Id, depth+1).Mul4(n.Transform.Matrix())
}
